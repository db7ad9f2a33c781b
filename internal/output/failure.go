package output

import (
	"fmt"
	"strings"

	"promptpipe/internal/diagnostics"

	"github.com/charmbracelet/lipgloss"
)

// DefaultTailLines is how much captured output a failure diagnostic repeats.
const DefaultTailLines = 20

var (
	failureBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 1)
	failureTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	hintTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimmed       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Failure is everything a failed run shows the operator.
type Failure struct {
	Command        string
	ExitStatus     int
	TimedOut       bool
	TimeoutSeconds int
	// Output is the captured transcript. It is repeated only when the
	// operator did not already watch it stream by.
	Output     string
	ShowOutput bool
	Hint       diagnostics.Hint
}

// RenderFailure formats f as a boxed diagnostic with exactly one remediation
// block. A width of zero disables wrapping.
func RenderFailure(f Failure, width int) string {
	var body strings.Builder

	if f.TimedOut {
		body.WriteString(failureTitle.Render(fmt.Sprintf("Provider timed out after %ds and was terminated", f.TimeoutSeconds)))
	} else {
		body.WriteString(failureTitle.Render(fmt.Sprintf("Provider failed with exit status %d", f.ExitStatus)))
	}
	body.WriteString("\n")
	body.WriteString(fmt.Sprintf("Command: %s\n", f.Command))
	if f.TimedOut {
		body.WriteString(fmt.Sprintf("Exit status: %d (timeout)\n", f.ExitStatus))
	}

	if f.ShowOutput {
		if tail := Tail(f.Output, DefaultTailLines); tail != "" {
			body.WriteString("\n")
			body.WriteString(dimmed.Render("Output:"))
			body.WriteString("\n")
			body.WriteString(tail)
			body.WriteString("\n")
		}
	}

	body.WriteString("\n")
	if f.TimedOut {
		body.WriteString(hintTitle.Render("Hint: Provider did not finish in time"))
		body.WriteString("\n")
		body.WriteString("Raise the timeout with --timeout or PROMPTPIPE_TIMEOUT, or shorten the prompt.")
	} else {
		body.WriteString(hintTitle.Render("Hint: " + f.Hint.Title))
		body.WriteString("\n")
		body.WriteString(f.Hint.Remediation)
	}

	style := failureBorder
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(body.String()) + "\n"
}

// RenderFault formats an error that stopped the run before or around the
// provider, together with the operator guidance it carries.
func RenderFault(title, guidance string, width int) string {
	var body strings.Builder
	body.WriteString(failureTitle.Render(title))
	if guidance != "" {
		body.WriteString("\n")
		body.WriteString(guidance)
	}
	style := failureBorder
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(body.String()) + "\n"
}

// Tail returns the last n non-trailing lines of text.
func Tail(text string, n int) string {
	text = strings.TrimRight(text, "\n")
	if text == "" || n <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
