package config

// binding ties a configuration key to its environment names and CLI flag.
type binding struct {
	key  string
	env  []string
	flag string
}

// bindings lists every configurable key in display order. The first
// environment name is canonical; the rest are accepted aliases.
var bindings = []binding{
	{key: "provider", env: []string{"PROMPTPIPE_PROVIDER", "PROVIDER"}, flag: "provider"},
	{key: "timeout", env: []string{"PROMPTPIPE_TIMEOUT", "PROVIDER_TIMEOUT"}, flag: "timeout"},
	{key: "stream", env: []string{"PROMPTPIPE_DEBUG", "DEBUG", "PROMPTPIPE_STREAM"}, flag: "stream"},
	{key: "shell", env: []string{"PROMPTPIPE_SHELL"}, flag: "shell"},
	{key: "workdir", env: []string{"PROMPTPIPE_WORKDIR"}, flag: "workdir"},
	{key: "render", env: []string{"PROMPTPIPE_RENDER"}, flag: "render"},
	{key: "observability.logging.level", env: []string{"PROMPTPIPE_LOG_LEVEL"}, flag: "log-level"},
	{key: "observability.logging.format", env: []string{"PROMPTPIPE_LOG_FORMAT"}, flag: "log-format"},
	{key: "observability.metrics.enabled", env: []string{"PROMPTPIPE_METRICS_ENABLED"}},
	{key: "observability.metrics.pushgateway_url", env: []string{"PROMPTPIPE_PUSHGATEWAY_URL"}},
	{key: "observability.metrics.job", env: []string{"PROMPTPIPE_METRICS_JOB"}},
	{key: "observability.tracing.enabled", env: []string{"PROMPTPIPE_TRACING_ENABLED"}},
	{key: "observability.tracing.exporter", env: []string{"PROMPTPIPE_TRACING_EXPORTER"}},
	{key: "observability.tracing.otlp_endpoint", env: []string{"PROMPTPIPE_OTLP_ENDPOINT"}},
	{key: "observability.tracing.zipkin_endpoint", env: []string{"PROMPTPIPE_ZIPKIN_ENDPOINT"}},
	{key: "observability.tracing.sample_rate", env: []string{"PROMPTPIPE_TRACING_SAMPLE_RATE"}},
	{key: "observability.tracing.service_name", env: []string{"PROMPTPIPE_SERVICE_NAME"}},
}

// Keys returns every configuration key in display order.
func Keys() []string {
	keys := make([]string, 0, len(bindings))
	for _, b := range bindings {
		keys = append(keys, b.key)
	}
	return keys
}

// EnvNames returns the environment variables consulted for key, canonical
// name first.
func EnvNames(key string) []string {
	for _, b := range bindings {
		if b.key == key {
			return append([]string(nil), b.env...)
		}
	}
	return nil
}
