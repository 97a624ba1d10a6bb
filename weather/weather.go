// Package weather implements the city weather lookup widget: a single text
// input, a one-shot fetch, and a three-line report. Nothing is persisted; a
// new lookup simply replaces the previous report.
package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"widgetkit/domain"
	"widgetkit/notify"
)

// ErrEmptyCity rejects a lookup with a blank city name.
var ErrEmptyCity = errors.New("weather: city name is empty")

// ErrBusy rejects a lookup while another one is still in flight.
var ErrBusy = errors.New("weather: a lookup is already in flight")

// ReportSource supplies current conditions for a city.
// *fetch.WeatherClient implements it.
type ReportSource interface {
	Current(ctx context.Context, city string) (domain.WeatherReport, error)
}

// Widget holds the latest report for one lookup panel.
type Widget struct {
	source  ReportSource
	notices *notify.Center
	logger  *log.Logger
	now     func() time.Time

	busy   atomic.Bool
	report domain.WeatherReport
	loaded bool
}

// New creates an empty weather widget.
func New(source ReportSource, logger *log.Logger) *Widget {
	if source == nil {
		panic("weather.New: source is nil")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Widget{
		source:  source,
		notices: notify.NewCenter(),
		logger:  logger,
		now:     time.Now,
	}
}

// Lookup fetches conditions for city and replaces the current report. A
// blank name is rejected with an input hint before any request goes out. On
// failure the previous report is cleared rather than left stale, and an
// error notice is raised.
func (w *Widget) Lookup(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		w.notices.Push(notify.Warning, "Please enter a city name", notify.InputHintTTL, w.now())
		return ErrEmptyCity
	}
	if !w.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer w.busy.Store(false)

	report, err := w.source.Current(ctx, city)
	if err != nil {
		w.report = domain.WeatherReport{}
		w.loaded = false
		w.notices.Push(notify.Error,
			"Could not fetch weather. Please check the city name and try again.",
			notify.FetchErrorTTL, w.now())
		return err
	}

	w.report = report
	w.loaded = true
	return nil
}

// Report returns the last successful report, if any.
func (w *Widget) Report() (domain.WeatherReport, bool) {
	return w.report, w.loaded
}

// View is the weather panel projection.
type View struct {
	HasReport   bool
	City        string
	Temperature string
	Conditions  string
	Notices     []notify.Notice
}

// View projects the widget. Temperature is rounded to the nearest whole
// degree for display.
func (w *Widget) View() View {
	v := View{Notices: w.notices.Active(w.now())}
	if !w.loaded {
		return v
	}
	v.HasReport = true
	v.City = w.report.City
	v.Temperature = fmt.Sprintf("Temperature: %d°C", int(math.Round(w.report.Temperature)))
	v.Conditions = fmt.Sprintf("Weather: %s", w.report.Description)
	return v
}
