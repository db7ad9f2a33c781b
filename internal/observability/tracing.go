package observability

import (
	"context"
	"fmt"

	id "promptpipe/internal/utils/id"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracingConfig configures distributed tracing
type TracingConfig struct {
	Enabled        bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter       string  `yaml:"exporter" mapstructure:"exporter"` // otlp, zipkin
	OTLPEndpoint   string  `yaml:"otlp_endpoint" mapstructure:"otlp_endpoint"`
	ZipkinEndpoint string  `yaml:"zipkin_endpoint" mapstructure:"zipkin_endpoint"`
	SampleRate     float64 `yaml:"sample_rate" mapstructure:"sample_rate"` // 0.0 to 1.0
	ServiceName    string  `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string  `yaml:"service_version" mapstructure:"service_version"`
}

// TracerProvider wraps OpenTelemetry tracer
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewTracerProvider returns a no-op provider unless tracing is enabled. An
// enabled provider exports synchronously, since the process exits right
// after its single run.
func NewTracerProvider(config TracingConfig) (*TracerProvider, error) {
	if !config.Enabled {
		return &TracerProvider{tracer: noop.NewTracerProvider().Tracer("promptpipe")}, nil
	}
	defaults := DefaultConfig().Tracing
	if config.ServiceName == "" {
		config.ServiceName = defaults.ServiceName
	}
	if config.SampleRate <= 0 || config.SampleRate > 1.0 {
		config.SampleRate = defaults.SampleRate
	}

	exporter, err := newSpanExporter(config)
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
		)),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.SampleRate)),
	)
	otel.SetTracerProvider(provider)

	return &TracerProvider{provider: provider, tracer: provider.Tracer("promptpipe")}, nil
}

func newSpanExporter(config TracingConfig) (sdktrace.SpanExporter, error) {
	switch config.Exporter {
	case "otlp", "":
		endpoint := config.OTLPEndpoint
		if endpoint == "" {
			endpoint = DefaultConfig().Tracing.OTLPEndpoint
		}
		exporter, err := otlptracehttp.New(context.Background(),
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("otlp exporter for %s: %w", endpoint, err)
		}
		return exporter, nil
	case "zipkin":
		endpoint := config.ZipkinEndpoint
		if endpoint == "" {
			endpoint = "http://localhost:9411/api/v2/spans"
		}
		exporter, err := zipkin.New(endpoint)
		if err != nil {
			return nil, fmt.Errorf("zipkin exporter for %s: %w", endpoint, err)
		}
		return exporter, nil
	default:
		return nil, fmt.Errorf("unsupported trace exporter %q (use otlp or zipkin)", config.Exporter)
	}
}

// Shutdown flushes pending spans. It is a no-op for a disabled provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp != nil && tp.provider != nil {
		return tp.provider.Shutdown(ctx)
	}
	return nil
}

// StartSpan starts a new span tagged with the run id found in ctx.
func (tp *TracerProvider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if runID := id.RunIDFromContext(ctx); runID != "" {
		attrs = append(attrs, attribute.String(AttrRunID, runID))
	}
	return tp.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Span names
const (
	SpanProviderRun = "promptpipe.provider.run"
	SpanPreflight   = "promptpipe.provider.preflight"
)

// Attribute keys
const (
	AttrRunID      = "promptpipe.run_id"
	AttrProgram    = "promptpipe.provider.program"
	AttrMode       = "promptpipe.provider.mode"
	AttrTimeout    = "promptpipe.provider.timeout_seconds"
	AttrExitStatus = "promptpipe.provider.exit_status"
	AttrTimedOut   = "promptpipe.provider.timed_out"
	AttrHint       = "promptpipe.failure.hint"
	AttrError      = "promptpipe.error"
)

// ProviderAttrs creates provider attributes
func ProviderAttrs(program, mode string, timeoutSeconds int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrProgram, program),
		attribute.String(AttrMode, mode),
		attribute.Int(AttrTimeout, timeoutSeconds),
	}
}

// OutcomeAttrs creates attributes describing how a run finished
func OutcomeAttrs(exitStatus int, timedOut bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrExitStatus, exitStatus),
		attribute.Bool(AttrTimedOut, timedOut),
	}
}

// HintAttrs tags a failed run with the failure hint category shown to the user.
func HintAttrs(category string) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.String(AttrHint, category)}
}

// ErrorAttrs creates error attributes
func ErrorAttrs(err error) []attribute.KeyValue {
	if err == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.Bool(AttrError, true),
		attribute.String("error.message", err.Error()),
	}
}
