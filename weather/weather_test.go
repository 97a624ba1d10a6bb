package weather

import (
	"context"
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"widgetkit/domain"
	"widgetkit/notify"
)

type stubSource struct {
	report  domain.WeatherReport
	err     error
	release chan struct{}
	started chan struct{}
	calls   int
}

func (s *stubSource) Current(ctx context.Context, city string) (domain.WeatherReport, error) {
	s.calls++
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return domain.WeatherReport{}, s.err
	}
	return s.report, nil
}

func nullLogger() *log.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func TestLookupRendersReport(t *testing.T) {
	src := &stubSource{report: domain.WeatherReport{
		City:        "London",
		Temperature: 17.6,
		Description: "light rain",
	}}
	w := New(src, nullLogger())

	if err := w.Lookup(context.Background(), "  London  "); err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	v := w.View()
	if !v.HasReport {
		t.Fatalf("no report after successful lookup")
	}
	if v.City != "London" {
		t.Fatalf("City = %q", v.City)
	}
	if v.Temperature != "Temperature: 18°C" {
		t.Fatalf("Temperature = %q", v.Temperature)
	}
	if v.Conditions != "Weather: light rain" {
		t.Fatalf("Conditions = %q", v.Conditions)
	}
}

func TestEmptyCityNeverHitsSource(t *testing.T) {
	src := &stubSource{}
	w := New(src, nullLogger())

	if err := w.Lookup(context.Background(), "   "); !errors.Is(err, ErrEmptyCity) {
		t.Fatalf("Lookup = %v, want ErrEmptyCity", err)
	}
	if src.calls != 0 {
		t.Fatalf("source called %d times for blank input", src.calls)
	}

	v := w.View()
	if len(v.Notices) != 1 || v.Notices[0].Text != "Please enter a city name" {
		t.Fatalf("notices = %+v", v.Notices)
	}
	if v.Notices[0].Level != notify.Warning {
		t.Fatalf("notice level = %q", v.Notices[0].Level)
	}
}

func TestFailedLookupClearsStaleReport(t *testing.T) {
	src := &stubSource{report: domain.WeatherReport{City: "Oslo", Temperature: 3, Description: "snow"}}
	w := New(src, nullLogger())
	if err := w.Lookup(context.Background(), "Oslo"); err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	src.err = errors.New("connection refused")
	if err := w.Lookup(context.Background(), "Nowhereville"); err == nil {
		t.Fatalf("Lookup succeeded against failing source")
	}

	v := w.View()
	if v.HasReport {
		t.Fatalf("stale report survived a failed lookup")
	}
	if _, ok := w.Report(); ok {
		t.Fatalf("Report() still set after failure")
	}
	if len(v.Notices) != 1 || v.Notices[0].Level != notify.Error {
		t.Fatalf("notices = %+v", v.Notices)
	}
}

func TestLookupIsNotReentrant(t *testing.T) {
	src := &stubSource{
		report:  domain.WeatherReport{City: "Paris", Temperature: 21, Description: "clear sky"},
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	w := New(src, nullLogger())

	done := make(chan error, 1)
	go func() {
		done <- w.Lookup(context.Background(), "Paris")
	}()
	<-src.started

	if err := w.Lookup(context.Background(), "Berlin"); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Lookup = %v, want ErrBusy", err)
	}

	close(src.release)
	if err := <-done; err != nil {
		t.Fatalf("first Lookup: %v", err)
	}
	if got, _ := w.Report(); got.City != "Paris" {
		t.Fatalf("report city = %q, want Paris", got.City)
	}
}

func TestNewLookupReplacesReport(t *testing.T) {
	src := &stubSource{report: domain.WeatherReport{City: "Tokyo", Temperature: 29.4, Description: "humid"}}
	w := New(src, nullLogger())
	if err := w.Lookup(context.Background(), "Tokyo"); err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	src.report = domain.WeatherReport{City: "Reykjavik", Temperature: -0.5, Description: "overcast clouds"}
	if err := w.Lookup(context.Background(), "Reykjavik"); err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	v := w.View()
	if v.City != "Reykjavik" {
		t.Fatalf("City = %q", v.City)
	}
	if v.Temperature != "Temperature: 0°C" {
		t.Fatalf("Temperature = %q", v.Temperature)
	}
}
