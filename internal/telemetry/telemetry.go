// Package telemetry wires OpenTelemetry tracing for assembly, cell switches
// and light recomputes.
package telemetry

import (
	"context"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/samdwyer/cellcrawl/internal/config"
	"github.com/samdwyer/cellcrawl/internal/logging"
)

const (
	serviceName    = "cellcrawl"
	serviceVersion = "0.1.0"
)

// Setup installs a batching OTLP HTTP tracer provider sampled at
// cfg.SampleRatio. The world seed is recorded on the resource so every trace
// can be replayed. Without a configured endpoint nothing is installed and the
// returned shutdown is a no-op.
//
// Exporter errors go to the shared logger rather than stderr, which the
// terminal UI owns.
func Setup(ctx context.Context, cfg config.TelemetryConfig, seed int64) (shutdown func(context.Context) error, err error) {
	noShutdown := func(context.Context) error { return nil }
	if !Enabled() {
		return noShutdown, nil
	}

	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		logging.For("telemetry").WithError(err).Warn("otel error")
	}))

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return noShutdown, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("host.name", hostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.version", runtime.Version()),
			attribute.Int64("cellcrawl.seed", seed),
		),
	)
	if err != nil {
		return noShutdown, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Enabled reports whether an OTLP endpoint has been configured in the environment.
func Enabled() bool {
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" ||
		os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") != ""
}

// Tracer returns the tracer for one component, e.g. "world" or "lighting".
// Without an endpoint it is a no-op tracer.
func Tracer(component string) trace.Tracer {
	if !Enabled() {
		return NoopTracer()
	}
	return otel.GetTracerProvider().Tracer(serviceName + "/" + component)
}

// NoopTracer returns a tracer whose spans record nothing.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(serviceName + "/noop")
}

func hostname() string {
	if name, err := os.Hostname(); err == nil {
		return name
	}
	return "unknown"
}
