package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Option customises the loader behaviour.
type Option func(*loadOptions)

type loadOptions struct {
	configPath string
	flags      *pflag.FlagSet
	homeDir    func() (string, error)
	workDir    func() (string, error)
}

// WithConfigPath forces the loader to read configuration from a specific
// file. A missing explicit file is an error.
func WithConfigPath(path string) Option {
	return func(o *loadOptions) {
		o.configPath = path
	}
}

// WithFlags applies flags registered by RegisterFlags. Only changed flags
// take effect.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(o *loadOptions) {
		o.flags = fs
	}
}

// WithHomeDir overrides how the loader resolves the user's home directory.
func WithHomeDir(resolver func() (string, error)) Option {
	return func(o *loadOptions) {
		o.homeDir = resolver
	}
}

// WithWorkingDir overrides the directory searched for promptpipe.yaml.
func WithWorkingDir(resolver func() (string, error)) Option {
	return func(o *loadOptions) {
		o.workDir = resolver
	}
}

// Load merges defaults, the YAML config file, environment variables and
// flags, in increasing order of precedence.
func Load(opts ...Option) (Config, Metadata, error) {
	options := loadOptions{
		homeDir: os.UserHomeDir,
		workDir: os.Getwd,
	}
	for _, opt := range opts {
		opt(&options)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	meta := Metadata{sources: map[string]ValueSource{}, loadedAt: time.Now()}

	path, err := resolvePath(options)
	if err != nil {
		return Config{}, Metadata{}, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, Metadata{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		meta.path = path
	}

	for _, b := range bindings {
		args := append([]string{b.key}, b.env...)
		if err := v.BindEnv(args...); err != nil {
			return Config{}, Metadata{}, fmt.Errorf("bind env for %s: %w", b.key, err)
		}
		if options.flags != nil && b.flag != "" {
			if flag := options.flags.Lookup(b.flag); flag != nil {
				if err := v.BindPFlag(b.key, flag); err != nil {
					return Config{}, Metadata{}, fmt.Errorf("bind flag %s: %w", b.flag, err)
				}
			}
		}
		meta.sources[b.key] = sourceOf(v, b, options.flags)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, Metadata{}, fmt.Errorf("decode config: %w", err)
	}
	normalize(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, Metadata{}, err
	}
	return cfg, meta, nil
}

// Validate rejects settings no run could use.
func Validate(cfg Config) error {
	switch cfg.Observability.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q (expected text or json)", cfg.Observability.Logging.Format)
	}
	return nil
}

// SearchPaths returns the files checked, in order, when no explicit config
// path is given.
func SearchPaths(home, wd string) []string {
	var paths []string
	if home != "" {
		paths = append(paths, filepath.Join(home, DefaultFileName))
	}
	if wd != "" {
		paths = append(paths, filepath.Join(wd, LocalFileName))
	}
	return paths
}

func resolvePath(opts loadOptions) (string, error) {
	if opts.configPath != "" {
		if _, err := os.Stat(opts.configPath); err != nil {
			return "", fmt.Errorf("config file %s: %w", opts.configPath, err)
		}
		return opts.configPath, nil
	}

	home, _ := opts.homeDir()
	wd, _ := opts.workDir()
	for _, candidate := range SearchPaths(home, wd) {
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return candidate, nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("stat config file %s: %w", candidate, err)
		}
	}
	return "", nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	obs := cfg.Observability
	v.SetDefault("provider", cfg.Provider)
	v.SetDefault("timeout", cfg.TimeoutSeconds)
	v.SetDefault("stream", cfg.Stream)
	v.SetDefault("shell", cfg.Shell)
	v.SetDefault("workdir", cfg.WorkingDir)
	v.SetDefault("render", cfg.Render)
	v.SetDefault("observability.logging.level", obs.Logging.Level)
	v.SetDefault("observability.logging.format", obs.Logging.Format)
	v.SetDefault("observability.metrics.enabled", obs.Metrics.Enabled)
	v.SetDefault("observability.metrics.pushgateway_url", obs.Metrics.PushgatewayURL)
	v.SetDefault("observability.metrics.job", obs.Metrics.Job)
	v.SetDefault("observability.tracing.enabled", obs.Tracing.Enabled)
	v.SetDefault("observability.tracing.exporter", obs.Tracing.Exporter)
	v.SetDefault("observability.tracing.otlp_endpoint", obs.Tracing.OTLPEndpoint)
	v.SetDefault("observability.tracing.zipkin_endpoint", obs.Tracing.ZipkinEndpoint)
	v.SetDefault("observability.tracing.sample_rate", obs.Tracing.SampleRate)
	v.SetDefault("observability.tracing.service_name", obs.Tracing.ServiceName)
	v.SetDefault("observability.tracing.service_version", obs.Tracing.ServiceVersion)
}

func sourceOf(v *viper.Viper, b binding, flags *pflag.FlagSet) ValueSource {
	if flags != nil && b.flag != "" {
		if flag := flags.Lookup(b.flag); flag != nil && flag.Changed {
			return SourceFlag
		}
	}
	for _, name := range b.env {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			return SourceEnv
		}
	}
	if v.InConfig(b.key) {
		return SourceFile
	}
	return SourceDefault
}

func normalize(cfg *Config) {
	cfg.Provider = strings.TrimSpace(cfg.Provider)
	// Any non-positive timeout means no deadline.
	if cfg.TimeoutSeconds < 0 {
		cfg.TimeoutSeconds = 0
	}
	cfg.Observability.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Observability.Logging.Level))
	cfg.Observability.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Observability.Logging.Format))
	if cfg.Observability.Logging.Format == "" {
		cfg.Observability.Logging.Format = "text"
	}
}
