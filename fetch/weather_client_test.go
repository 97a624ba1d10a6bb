package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
)

const weatherBody = `{
	"name": "London",
	"main": {"temp": 17.4},
	"weather": [{"description": "light rain"}]
}`

func newWeatherClient(t *testing.T, handler http.HandlerFunc) *WeatherClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger, _ := test.NewNullLogger()
	return NewWeatherClient(srv.URL, "test-key", srv.Client(), logger)
}

func TestWeatherCurrentMapsResponse(t *testing.T) {
	var gotQuery string
	c := newWeatherClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(weatherBody))
	})

	report, err := c.Current(context.Background(), "London")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if gotQuery != "q=London&units=metric&appid=test-key" {
		t.Fatalf("unexpected query: %s", gotQuery)
	}
	if report.City != "London" || report.Temperature != 17.4 || report.Description != "light rain" {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestWeatherCurrentStatusFailure(t *testing.T) {
	c := newWeatherClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Current(context.Background(), "Atlantis")
	var fetchErr *Error
	if !errors.As(err, &fetchErr) || fetchErr.Stage != StageStatus {
		t.Fatalf("expected status-stage error, got %v", err)
	}
}

func TestWeatherCurrentEmptyConditions(t *testing.T) {
	c := newWeatherClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Nowhere","main":{"temp":1},"weather":[]}`))
	})

	_, err := c.Current(context.Background(), "Nowhere")
	var fetchErr *Error
	if !errors.As(err, &fetchErr) || fetchErr.Stage != StageEmpty {
		t.Fatalf("expected empty-stage error, got %v", err)
	}
}
