package telemetry

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const DefaultEndpoint = "localhost:4318"

// Options — параметры экспорта трейсов.
type Options struct {
	ServiceName string
	Endpoint    string  // host:port OTLP/HTTP; пусто → DefaultEndpoint
	SampleRatio float64 // обрезается до [0..1]
	Attributes  map[string]string
}

// normalize — дефолты и границы.
func (o Options) normalize() Options {
	if o.Endpoint == "" {
		o.Endpoint = DefaultEndpoint
	}
	switch {
	case o.SampleRatio < 0:
		o.SampleRatio = 0
	case o.SampleRatio > 1:
		o.SampleRatio = 1
	}
	return o
}

// resourceAttrs — имя сервиса плюс дополнительные атрибуты в стабильном порядке.
func (o Options) resourceAttrs() []attribute.KeyValue {
	keys := make([]string, 0, len(o.Attributes))
	for k := range o.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]attribute.KeyValue, 0, len(keys)+1)
	attrs = append(attrs, semconv.ServiceName(o.ServiceName))
	for _, k := range keys {
		attrs = append(attrs, attribute.String(k, o.Attributes[k]))
	}
	return attrs
}

// SetupTracing настраивает OTLP/HTTP экспорт и глобальные пропагаторы.
// Семплер учитывает решение родительского спана (входящий traceparent).
// Возвращает функцию завершения провайдера.
func SetupTracing(ctx context.Context, opts Options) (func(context.Context) error, error) {
	opts = opts.normalize()

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(opts.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.SampleRatio))),
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, opts.resourceAttrs()...)),
	)

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{},
		),
	)

	return traceProvider.Shutdown, nil
}
