package output

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ConstrainOutputWidth truncates each line of text to the width of the
// terminal behind w. Text bound for anything else is returned unchanged.
func ConstrainOutputWidth(text string, w io.Writer) string {
	return ConstrainWidth(text, OutputWidth(w))
}

// ConstrainWidth truncates every line wider than width cells, keeping ANSI
// sequences intact.
func ConstrainWidth(text string, width int) string {
	if text == "" || width <= 0 {
		return text
	}

	parts := strings.SplitAfter(text, "\n")
	for i, part := range parts {
		line := part
		newline := ""
		if strings.HasSuffix(part, "\n") {
			line = strings.TrimSuffix(part, "\n")
			newline = "\n"
		}
		if line == "" {
			continue
		}
		if ansi.StringWidth(line) > width {
			line = ansi.Truncate(line, width, "…")
		}
		parts[i] = line + newline
	}

	return strings.Join(parts, "")
}
