package config

import "github.com/spf13/pflag"

// RegisterFlags defines the flags that override configuration values. Load
// only honours flags the user actually set.
func RegisterFlags(fs *pflag.FlagSet) {
	defaults := Default()
	fs.StringP("provider", "p", "", "provider command, e.g. \"gemini\" or \"opencode run --model X\" (env PROMPTPIPE_PROVIDER)")
	fs.IntP("timeout", "t", defaults.TimeoutSeconds, "seconds before the provider is terminated; 0 or less disables the deadline")
	fs.BoolP("stream", "s", false, "mirror provider output to the terminal while it runs")
	fs.Bool("shell", false, "run the provider command through sh -c (allows pipes and expansion)")
	fs.String("workdir", "", "working directory for the provider")
	fs.Bool("render", false, "render the transcript as markdown when stdout is a terminal")
	fs.String("log-level", defaults.Observability.Logging.Level, "log level: debug, info, warn, error")
	fs.String("log-format", defaults.Observability.Logging.Format, "log format: text, json")
}
