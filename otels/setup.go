// Package otels configures OpenTelemetry tracing.
package otels

import (
	"context"

	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/tutorconfigs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const ServiceName = "tutor"

// Shutdown flushes pending spans.
type Shutdown func(context.Context) error

// Setup registers a global tracer provider exporting to endpoint. An empty
// endpoint registers nothing and returns a no-op shutdown.
func Setup(ctx context.Context, endpoint string) (Shutdown, error) {
	noop := func(context.Context) error { return nil }
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

func (Module) Shutdown(
	endpoint tutorconfigs.OTLPEndpoint,
	logger logs.Logger,
) Shutdown {
	shutdown, err := Setup(context.Background(), string(endpoint))
	if err != nil {
		logger.Warn("opentelemetry setup", "error", err)
	} else if endpoint != "" {
		logger.Info("opentelemetry enabled", "endpoint", endpoint)
	}
	return shutdown
}

// Tracer is the tracer of the service. It depends on Shutdown so that the global
// provider is registered before use.
func (Module) Tracer(
	_ Shutdown,
) trace.Tracer {
	return otel.Tracer(ServiceName)
}
