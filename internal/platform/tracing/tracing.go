package tracing

import (
	"context"

	"pet-grooming-manager/internal/platform/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Options struct {
	Endpoint    string
	ServiceName string
	Environment string
}

// Init configura un exporter OTLP HTTP. Sin endpoint queda como no-op
// y devuelve un shutdown vacío.
func Init(ctx context.Context, log logger.Logger, opts Options) (func(context.Context) error, error) {
	if opts.Endpoint == "" {
		log.Info("tracing disabled", map[string]any{"reason": "OTEL_EXPORTER_OTLP_ENDPOINT not set"})
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(opts.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			semconv.DeploymentEnvironment(opts.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	log.Info("tracing initialized", map[string]any{"endpoint": opts.Endpoint})
	return tp.Shutdown, nil
}
