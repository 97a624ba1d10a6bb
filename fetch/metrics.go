package fetch

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "widgetkit/fetch"

type fetchMetrics struct {
	logger          *log.Logger
	span            trace.Span
	op              string
	start           time.Time
	requestDuration time.Duration
	decodeDuration  time.Duration
	resultCount     int
	errorStage      string
}

func newFetchMetrics(ctx context.Context, logger *log.Logger, op string) (*fetchMetrics, context.Context) {
	spanCtx, span := otel.Tracer(tracerName).Start(ctx, "fetch."+op)
	return &fetchMetrics{
		logger: logger,
		span:   span,
		op:     op,
		start:  time.Now(),
	}, spanCtx
}

func (m *fetchMetrics) ObserveRequest(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.requestDuration = duration
}

func (m *fetchMetrics) ObserveDecode(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.decodeDuration = duration
}

func (m *fetchMetrics) SetResultCount(count int) {
	if count < 0 {
		count = 0
	}
	m.resultCount = count
}

func (m *fetchMetrics) SetErrorStage(stage Stage) {
	if stage == "" {
		return
	}
	m.errorStage = string(stage)
}

// Log closes the span and emits one structured metrics event for the call.
func (m *fetchMetrics) Log(err error) {
	if m == nil {
		return
	}

	total := time.Since(m.start)
	m.span.SetAttributes(
		attribute.String("fetch.op", m.op),
		attribute.Int("fetch.results", m.resultCount),
		attribute.Float64("fetch.total_ms", durationToMillis(total)),
	)
	if m.errorStage != "" {
		m.span.SetAttributes(attribute.String("fetch.error_stage", m.errorStage))
	}
	if err != nil {
		m.span.RecordError(err)
		m.span.SetStatus(codes.Error, err.Error())
	} else {
		m.span.SetStatus(codes.Ok, "")
	}
	m.span.End()

	if m.logger == nil {
		return
	}
	fields := log.Fields{
		"op":       m.op,
		"total_ms": durationToMillis(total),
		"results":  m.resultCount,
	}
	if m.requestDuration > 0 {
		fields["request_ms"] = durationToMillis(m.requestDuration)
	}
	if m.decodeDuration > 0 {
		fields["decode_ms"] = durationToMillis(m.decodeDuration)
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
		m.logger.WithFields(fields).Warn("fetch.request.metrics")
		return
	}
	m.logger.WithFields(fields).Info("fetch.request.metrics")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
