package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func TestTriviaFetchEmitsSpanAndMetricsLog(t *testing.T) {
	exporter := setupTestTracer(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(triviaBody))
	}))
	t.Cleanup(srv.Close)

	logger, hook := test.NewNullLogger()
	c := NewTriviaClient(srv.URL, srv.Client(), logger)

	if _, err := c.Questions(context.Background(), "9", "easy"); err != nil {
		t.Fatalf("questions: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "fetch.trivia" {
		t.Fatalf("unexpected span name: %s", spans[0].Name)
	}
	if spans[0].Status.Code != codes.Ok {
		t.Fatalf("unexpected span status: %v", spans[0].Status)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Message != "fetch.request.metrics" {
		t.Fatalf("expected a metrics log entry, got %+v", entry)
	}
	if entry.Data["results"] != 2 {
		t.Fatalf("expected 2 results recorded, got %v", entry.Data["results"])
	}
}

func TestFailedFetchMarksSpanError(t *testing.T) {
	exporter := setupTestTracer(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	logger, hook := test.NewNullLogger()
	c := NewWeatherClient(srv.URL, "k", srv.Client(), logger)

	if _, err := c.Current(context.Background(), "London"); err == nil {
		t.Fatal("expected an error")
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Fatalf("expected error status, got %v", spans[0].Status)
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Data["error_stage"] != "status" {
		t.Fatalf("expected error_stage=status in metrics log, got %+v", entry)
	}
}
