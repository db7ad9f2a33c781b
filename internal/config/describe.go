package config

import (
	"strconv"
)

// Setting is one effective configuration value and where it came from.
type Setting struct {
	Key    string
	Value  string
	Source ValueSource
	Env    string
}

// Describe lists every effective setting in display order.
func Describe(cfg Config, meta Metadata) []Setting {
	settings := make([]Setting, 0, len(bindings))
	for _, b := range bindings {
		settings = append(settings, Setting{
			Key:    b.key,
			Value:  Value(cfg, b.key),
			Source: meta.Source(b.key),
			Env:    b.env[0],
		})
	}
	return settings
}

// Value formats the effective value of key.
func Value(cfg Config, key string) string {
	obs := cfg.Observability
	switch key {
	case "provider":
		return cfg.Provider
	case "timeout":
		return strconv.Itoa(cfg.TimeoutSeconds)
	case "stream":
		return strconv.FormatBool(cfg.Stream)
	case "shell":
		return strconv.FormatBool(cfg.Shell)
	case "workdir":
		return cfg.WorkingDir
	case "render":
		return strconv.FormatBool(cfg.Render)
	case "observability.logging.level":
		return obs.Logging.Level
	case "observability.logging.format":
		return obs.Logging.Format
	case "observability.metrics.enabled":
		return strconv.FormatBool(obs.Metrics.Enabled)
	case "observability.metrics.pushgateway_url":
		return obs.Metrics.PushgatewayURL
	case "observability.metrics.job":
		return obs.Metrics.Job
	case "observability.tracing.enabled":
		return strconv.FormatBool(obs.Tracing.Enabled)
	case "observability.tracing.exporter":
		return obs.Tracing.Exporter
	case "observability.tracing.otlp_endpoint":
		return obs.Tracing.OTLPEndpoint
	case "observability.tracing.zipkin_endpoint":
		return obs.Tracing.ZipkinEndpoint
	case "observability.tracing.sample_rate":
		return strconv.FormatFloat(obs.Tracing.SampleRate, 'g', -1, 64)
	case "observability.tracing.service_name":
		return obs.Tracing.ServiceName
	}
	return ""
}
