package main

import (
	"context"
	"fmt"
	"time"

	"promptpipe/internal/config"
	"promptpipe/internal/logging"
	"promptpipe/internal/observability"

	"github.com/spf13/cobra"
)

const flushTimeout = 5 * time.Second

// app is the per-invocation environment shared by subcommands.
type app struct {
	cfg     config.Config
	meta    config.Metadata
	logger  logging.Logger
	metrics *observability.MetricsCollector
	tracer  *observability.TracerProvider
}

// loadApp reads configuration and builds logging. Telemetry is only started
// by commands that run a provider.
func loadApp(cmd *cobra.Command, s streams) (*app, error) {
	opts := []config.Option{config.WithFlags(cmd.Flags())}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}
	cfg, meta, err := config.Load(opts...)
	if err != nil {
		return nil, &ExitCodeError{Code: exitUsage, Err: fmt.Errorf("load configuration: %w", err)}
	}

	logging.SetBase(observability.NewLogger(observability.LogConfig{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
		Output: s.err,
	}))

	a := &app{cfg: cfg, meta: meta, logger: logging.NewComponentLogger("CLI")}
	if path := meta.Path(); path != "" {
		a.logger.Debug("loaded config from %s", path)
	}
	return a, nil
}

func (a *app) startTelemetry() error {
	metrics, err := observability.NewMetricsCollector(a.cfg.Observability.Metrics)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	tracer, err := observability.NewTracerProvider(a.cfg.Observability.Tracing)
	if err != nil {
		_ = metrics.Shutdown(context.Background())
		return fmt.Errorf("init tracing: %w", err)
	}
	a.metrics = metrics
	a.tracer = tracer
	return nil
}

// flushTelemetry pushes metrics and flushes spans. It uses its own deadline
// so an interrupted run still reports.
func (a *app) flushTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := a.metrics.Push(ctx); err != nil {
		a.logger.Warn("%v", err)
	}
	if err := a.metrics.Shutdown(ctx); err != nil {
		a.logger.Warn("shutdown metrics: %v", err)
	}
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Warn("shutdown tracing: %v", err)
	}
}
