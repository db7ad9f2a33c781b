package config

import (
	"time"

	"promptpipe/internal/observability"
)

// ValueSource describes where a configuration value originated from.
type ValueSource string

const (
	SourceDefault ValueSource = "default"
	SourceFile    ValueSource = "file"
	SourceEnv     ValueSource = "environment"
	SourceFlag    ValueSource = "flag"
)

const (
	DefaultTimeoutSeconds = 300
	DefaultFileName       = ".promptpipe.yaml"
	LocalFileName         = "promptpipe.yaml"
)

// Config captures everything the CLI needs to run a provider.
type Config struct {
	Provider       string               `mapstructure:"provider" yaml:"provider"`
	TimeoutSeconds int                  `mapstructure:"timeout" yaml:"timeout"`
	Stream         bool                 `mapstructure:"stream" yaml:"stream"`
	Shell          bool                 `mapstructure:"shell" yaml:"shell"`
	WorkingDir     string               `mapstructure:"workdir" yaml:"workdir,omitempty"`
	Render         bool                 `mapstructure:"render" yaml:"render"`
	Observability  observability.Config `mapstructure:"observability" yaml:"observability"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		TimeoutSeconds: DefaultTimeoutSeconds,
		Observability:  observability.DefaultConfig(),
	}
}

// Metadata contains provenance details for loaded configuration.
type Metadata struct {
	sources  map[string]ValueSource
	path     string
	loadedAt time.Time
}

// Sources returns a copy of the provenance map.
func (m Metadata) Sources() map[string]ValueSource {
	copy := make(map[string]ValueSource, len(m.sources))
	for key, value := range m.sources {
		copy[key] = value
	}
	return copy
}

// Source returns the origin for the given configuration key.
func (m Metadata) Source(key string) ValueSource {
	if src, ok := m.sources[key]; ok {
		return src
	}
	return SourceDefault
}

// Path is the config file that was read, empty when none was found.
func (m Metadata) Path() string {
	return m.path
}

// LoadedAt returns the timestamp when the configuration was constructed.
func (m Metadata) LoadedAt() time.Time {
	return m.loadedAt
}
