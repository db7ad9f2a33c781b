package output

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ConfigureColorProfile picks the colour profile for diagnostics written to
// w and applies it to lipgloss and fatih/color alike.
func ConfigureColorProfile(w io.Writer) termenv.Profile {
	profile := detectColorProfile(w)
	lipgloss.SetColorProfile(profile)
	color.NoColor = profile == termenv.Ascii
	return profile
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// OutputWidth returns the column count of the terminal behind w, or 0 when w
// is not a terminal.
func OutputWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return 0
	}
	fd := int(file.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

func detectColorProfile(w io.Writer) termenv.Profile {
	if disableColorOutput() {
		return termenv.Ascii
	}
	if forceColorOutput() {
		return termenv.EnvColorProfile()
	}
	if IsTerminal(w) {
		return termenv.NewOutput(w).ColorProfile()
	}
	return termenv.Ascii
}

func disableColorOutput() bool {
	if termenv.EnvNoColor() {
		return true
	}
	if val, ok := os.LookupEnv("CLICOLOR"); ok && strings.TrimSpace(val) == "0" {
		return true
	}
	if val, ok := os.LookupEnv("TERM"); ok && strings.EqualFold(strings.TrimSpace(val), "dumb") {
		return true
	}
	return false
}

func forceColorOutput() bool {
	if val, ok := os.LookupEnv("CLICOLOR_FORCE"); ok && envTruthy(val) {
		return true
	}
	if val, ok := os.LookupEnv("FORCE_COLOR"); ok && envTruthy(val) {
		return true
	}
	return false
}

func envTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
