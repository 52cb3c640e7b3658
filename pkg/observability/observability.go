// Package observability instruments library boundary operations with
// OpenTelemetry. Each tracked operation produces one internal span plus
// rate, error and duration metrics following the RED pattern.
//
// Instruments bind to the global otel providers. Hosts that never install
// a provider get no-op telemetry at negligible cost.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// scopeName identifies this library in exported telemetry.
const scopeName = "github.com/Mindburn-Labs/quill"

type instruments struct {
	tracer       trace.Tracer
	opCounter    metric.Int64Counter
	errCounter   metric.Int64Counter
	durationHist metric.Float64Histogram
}

var (
	initOnce sync.Once
	inst     *instruments
)

// get lazily creates the shared instruments. The global meter and tracer
// delegate to providers installed later, so binding early is safe.
func get() *instruments {
	initOnce.Do(func() {
		meter := otel.Meter(scopeName)
		i := &instruments{tracer: otel.Tracer(scopeName)}

		var err error
		i.opCounter, err = meter.Int64Counter(
			"quill.operations.total",
			metric.WithDescription("Total number of boundary operations started"),
			metric.WithUnit("{operation}"),
		)
		if err != nil {
			slog.Debug("observability: operations counter unavailable", "error", err)
		}

		i.errCounter, err = meter.Int64Counter(
			"quill.errors.total",
			metric.WithDescription("Total number of boundary operations that failed"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			slog.Debug("observability: error counter unavailable", "error", err)
		}

		i.durationHist, err = meter.Float64Histogram(
			"quill.operation.duration",
			metric.WithDescription("Boundary operation duration in seconds"),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5),
		)
		if err != nil {
			slog.Debug("observability: duration histogram unavailable", "error", err)
		}

		inst = i
	})
	return inst
}

// Track begins a tracked operation and returns its finisher. Call the
// finisher exactly once with the operation's outcome, nil on success:
//
//	done := observability.Track("keystore.encrypt")
//	defer func() { done(err) }()
func Track(op string) func(error) {
	return TrackContext(context.Background(), op)
}

// TrackContext is Track with a parent context, so the operation's span
// joins the caller's trace.
func TrackContext(ctx context.Context, op string) func(error) {
	i := get()
	start := time.Now()
	opAttr := metric.WithAttributes(attribute.String("operation", op))

	ctx, span := i.tracer.Start(ctx, op, trace.WithSpanKind(trace.SpanKindInternal))
	if i.opCounter != nil {
		i.opCounter.Add(ctx, 1, opAttr)
	}

	return func(err error) {
		if i.durationHist != nil {
			i.durationHist.Record(ctx, time.Since(start).Seconds(), opAttr)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if i.errCounter != nil {
				i.errCounter.Add(ctx, 1, metric.WithAttributes(
					attribute.String("operation", op),
					attribute.String("error.type", fmt.Sprintf("%T", err)),
				))
			}
			slog.Debug("operation failed", "operation", op, "error", err)
		}
		span.End()
	}
}
