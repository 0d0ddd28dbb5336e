package nifi

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fyrsmithlabs/flowgate/internal/nifi"

// clientMetrics instruments outbound NiFi calls.
type clientMetrics struct {
	requests metric.Int64Counter
	retries  metric.Int64Counter
	duration metric.Float64Histogram
}

func newClientMetrics(logger *zap.Logger) *clientMetrics {
	meter := otel.Meter(instrumentationName)
	m := &clientMetrics{}
	var err error

	m.requests, err = meter.Int64Counter(
		"flowgate.nifi.requests_total",
		metric.WithDescription("Total NiFi API requests by method and outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		logger.Warn("failed to create requests counter", zap.Error(err))
	}

	m.retries, err = meter.Int64Counter(
		"flowgate.nifi.retries_total",
		metric.WithDescription("Total retry attempts against the NiFi API"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		logger.Warn("failed to create retries counter", zap.Error(err))
	}

	m.duration, err = meter.Float64Histogram(
		"flowgate.nifi.request.duration_seconds",
		metric.WithDescription("Duration of NiFi API requests including retries"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		logger.Warn("failed to create duration histogram", zap.Error(err))
	}

	return m
}

func (m *clientMetrics) recordRequest(ctx context.Context, method, outcome string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	)
	if m.requests != nil {
		m.requests.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, d.Seconds(), attrs)
	}
}

func (m *clientMetrics) recordRetry(ctx context.Context, method string) {
	if m.retries != nil {
		m.retries.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
	}
}
