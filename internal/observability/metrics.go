package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsCollector records provider invocations.
//
// promptpipe is a short-lived process, so metrics are not scraped: when a
// Pushgateway URL is configured the collected registry is pushed once on exit.
type MetricsCollector struct {
	config   MetricsConfig
	registry *promclient.Registry
	provider *sdkmetric.MeterProvider

	runs        metric.Int64Counter
	runDuration metric.Float64Histogram
	timeouts    metric.Int64Counter
	outputBytes metric.Int64Counter
	hints       metric.Int64Counter
}

// MetricsConfig configures the metrics collector
type MetricsConfig struct {
	Enabled        bool   `yaml:"enabled" mapstructure:"enabled"`
	PushgatewayURL string `yaml:"pushgateway_url" mapstructure:"pushgateway_url"`
	Job            string `yaml:"job" mapstructure:"job"`
}

// Run outcome labels.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusTimeout = "timeout"
)

// NewMetricsCollector creates a new metrics collector. A disabled collector is
// valid and records nothing.
func NewMetricsCollector(config MetricsConfig) (*MetricsCollector, error) {
	if !config.Enabled {
		return &MetricsCollector{config: config}, nil
	}
	if strings.TrimSpace(config.Job) == "" {
		config.Job = "promptpipe"
	}

	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	meter := provider.Meter("promptpipe")

	runs, err := meter.Int64Counter(
		"promptpipe.provider.runs",
		metric.WithDescription("Total number of provider invocations"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider_runs counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram(
		"promptpipe.provider.duration",
		metric.WithDescription("Provider invocation wall time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider_duration histogram: %w", err)
	}

	timeouts, err := meter.Int64Counter(
		"promptpipe.provider.timeouts",
		metric.WithDescription("Provider invocations terminated by the deadline"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider_timeouts counter: %w", err)
	}

	outputBytes, err := meter.Int64Counter(
		"promptpipe.provider.output",
		metric.WithDescription("Bytes captured from provider output"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider_output counter: %w", err)
	}

	hints, err := meter.Int64Counter(
		"promptpipe.failure.hints",
		metric.WithDescription("Failure hints selected for failed invocations"),
		metric.WithUnit("{hint}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create failure_hints counter: %w", err)
	}

	return &MetricsCollector{
		config:      config,
		registry:    registry,
		provider:    provider,
		runs:        runs,
		runDuration: runDuration,
		timeouts:    timeouts,
		outputBytes: outputBytes,
		hints:       hints,
	}, nil
}

// RecordRun records one finished provider invocation.
func (m *MetricsCollector) RecordRun(ctx context.Context, program string, status string, duration time.Duration, outputBytes int) {
	if m == nil || m.runs == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("program", program),
		attribute.String("status", status),
	}

	m.runs.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.outputBytes.Add(ctx, int64(outputBytes), metric.WithAttributes(attribute.String("program", program)))
	if status == StatusTimeout {
		m.timeouts.Add(ctx, 1, metric.WithAttributes(attribute.String("program", program)))
	}
}

// RecordHint records the failure hint category shown for a failed invocation.
func (m *MetricsCollector) RecordHint(ctx context.Context, program string, category string) {
	if m == nil || m.hints == nil {
		return
	}
	m.hints.Add(ctx, 1, metric.WithAttributes(
		attribute.String("program", program),
		attribute.String("category", category),
	))
}

// Registry exposes the prometheus registry backing the collector; nil when
// metrics are disabled.
func (m *MetricsCollector) Registry() *promclient.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Push sends the collected metrics to the configured Pushgateway.
func (m *MetricsCollector) Push(ctx context.Context) error {
	if m == nil || m.registry == nil || strings.TrimSpace(m.config.PushgatewayURL) == "" {
		return nil
	}
	pusher := push.New(m.config.PushgatewayURL, m.config.Job).Gatherer(m.registry)
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", m.config.PushgatewayURL, err)
	}
	return nil
}

// Shutdown flushes and releases the meter provider.
func (m *MetricsCollector) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
