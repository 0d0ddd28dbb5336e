package mcp

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics instruments tool invocations.
type Metrics struct {
	invocations metric.Int64Counter
	errors      metric.Int64Counter
	duration    metric.Float64Histogram
	active      metric.Int64UpDownCounter
}

func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("flowgate.mcp")

	invocations, err := meter.Int64Counter(
		"flowgate.mcp.tool.invocations_total",
		metric.WithDescription("Total tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create invocations counter: %w", err)
	}

	errs, err := meter.Int64Counter(
		"flowgate.mcp.tool.errors_total",
		metric.WithDescription("Total tool invocations that returned an error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create errors counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"flowgate.mcp.tool.duration_seconds",
		metric.WithDescription("Tool invocation duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	active, err := meter.Int64UpDownCounter(
		"flowgate.mcp.tool.active_requests",
		metric.WithDescription("Tool invocations currently in flight"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create active requests counter: %w", err)
	}

	return &Metrics{
		invocations: invocations,
		errors:      errs,
		duration:    duration,
		active:      active,
	}, nil
}

// RecordInvocation records one completed tool call.
func (m *Metrics) RecordInvocation(ctx context.Context, tool string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("tool", tool))
	m.invocations.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	if err != nil {
		m.errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tool", tool),
			attribute.String("kind", string(errorKind(err))),
		))
	}
}

func (m *Metrics) IncrementActive(ctx context.Context, tool string) {
	if m == nil {
		return
	}
	m.active.Add(ctx, 1, metric.WithAttributes(attribute.String("tool", tool)))
}

func (m *Metrics) DecrementActive(ctx context.Context, tool string) {
	if m == nil {
		return
	}
	m.active.Add(ctx, -1, metric.WithAttributes(attribute.String("tool", tool)))
}
