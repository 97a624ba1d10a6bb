package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"widgetkit/domain"
)

// DefaultWeatherBase is the OpenWeatherMap endpoint.
const DefaultWeatherBase = "https://api.openweathermap.org"

// WeatherClient fetches current conditions for a city, metric units.
type WeatherClient struct {
	base   string
	apiKey string
	http   *http.Client
	logger *log.Logger
}

// NewWeatherClient creates a client for the given base URL and API key.
func NewWeatherClient(base, apiKey string, httpClient *http.Client, logger *log.Logger) *WeatherClient {
	if base == "" {
		base = DefaultWeatherBase
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &WeatherClient{base: base, apiKey: apiKey, http: httpClient, logger: logger}
}

type weatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Current performs the one-shot lookup. The caller trims and validates the
// city name before calling.
func (c *WeatherClient) Current(ctx context.Context, city string) (report domain.WeatherReport, err error) {
	metrics, ctx := newFetchMetrics(ctx, c.logger, "weather")
	defer func() {
		metrics.Log(err)
	}()

	u := fmt.Sprintf("%s/data/2.5/weather?q=%s&units=metric&appid=%s",
		c.base, url.QueryEscape(city), url.QueryEscape(c.apiKey))
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if reqErr != nil {
		metrics.SetErrorStage(StageRequest)
		err = &Error{Op: "weather", Stage: StageRequest, Err: reqErr}
		return domain.WeatherReport{}, err
	}

	start := time.Now()
	resp, doErr := c.http.Do(req)
	metrics.ObserveRequest(time.Since(start))
	if doErr != nil {
		metrics.SetErrorStage(StageRequest)
		err = &Error{Op: "weather", Stage: StageRequest, Err: doErr}
		return domain.WeatherReport{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.SetErrorStage(StageStatus)
		err = &Error{Op: "weather", Stage: StageStatus, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
		return domain.WeatherReport{}, err
	}

	decodeStart := time.Now()
	var body weatherResponse
	decErr := sonic.ConfigStd.NewDecoder(resp.Body).Decode(&body)
	metrics.ObserveDecode(time.Since(decodeStart))
	if decErr != nil {
		metrics.SetErrorStage(StageDecode)
		err = &Error{Op: "weather", Stage: StageDecode, Err: decErr}
		return domain.WeatherReport{}, err
	}
	if len(body.Weather) == 0 {
		metrics.SetErrorStage(StageEmpty)
		err = &Error{Op: "weather", Stage: StageEmpty, Err: errors.New("response carried no conditions")}
		return domain.WeatherReport{}, err
	}

	metrics.SetResultCount(1)
	return domain.WeatherReport{
		City:        body.Name,
		Temperature: body.Main.Temp,
		Description: body.Weather[0].Description,
	}, nil
}
