package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"promptpipe/internal/diagnostics"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstrainWidthTruncatesLongLines(t *testing.T) {
	text := "short\n" + strings.Repeat("x", 30) + "\n\nend"

	got := ConstrainWidth(text, 10)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "short", lines[0])
	assert.Equal(t, 10, ansi.StringWidth(lines[1]))
	assert.True(t, strings.HasSuffix(lines[1], "…"))
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "end", lines[3])
}

func TestConstrainWidthDisabled(t *testing.T) {
	text := strings.Repeat("y", 200)
	assert.Equal(t, text, ConstrainWidth(text, 0))
	assert.Equal(t, text, ConstrainOutputWidth(text, &bytes.Buffer{}))
}

func TestRenderFailureShowsCommandStatusAndOneHint(t *testing.T) {
	hint := diagnostics.Classify("Error: model not found (404)")

	rendered := RenderFailure(Failure{
		Command:    "gemini --model nope",
		ExitStatus: 1,
		Output:     "Error: model not found (404)\n",
		ShowOutput: true,
		Hint:       hint,
	}, 0)

	assert.Contains(t, rendered, "gemini --model nope")
	assert.Contains(t, rendered, "exit status 1")
	assert.Contains(t, rendered, "Error: model not found (404)")
	assert.Contains(t, rendered, "Hint: "+hint.Title)
	assert.Equal(t, 1, strings.Count(rendered, "Hint:"))
}

func TestRenderFailureTimeout(t *testing.T) {
	rendered := RenderFailure(Failure{
		Command:        "sleep 10",
		ExitStatus:     124,
		TimedOut:       true,
		TimeoutSeconds: 1,
		Hint:           diagnostics.HintFor(diagnostics.Generic),
	}, 0)

	assert.Contains(t, rendered, "timed out after 1s")
	assert.Contains(t, rendered, "124")
	assert.Contains(t, rendered, "--timeout")
	assert.Equal(t, 1, strings.Count(rendered, "Hint:"))
}

func TestRenderFailureOmitsStreamedOutput(t *testing.T) {
	rendered := RenderFailure(Failure{
		Command:    "gemini",
		ExitStatus: 2,
		Output:     "already shown live",
		Hint:       diagnostics.HintFor(diagnostics.Generic),
	}, 0)

	assert.NotContains(t, rendered, "already shown live")
}

func TestRenderFault(t *testing.T) {
	rendered := RenderFault("Provider not found", "install gemini", 0)
	assert.Contains(t, rendered, "Provider not found")
	assert.Contains(t, rendered, "install gemini")
}

func TestTail(t *testing.T) {
	assert.Equal(t, "", Tail("\n\n", 3))
	assert.Equal(t, "c\nd", Tail("a\nb\nc\nd\n", 2))
	assert.Equal(t, "a\nb", Tail("a\nb", 5))
}

func TestBanner(t *testing.T) {
	line := Banner{Provider: "gemini", Mode: "argv", TimeoutSeconds: 300, Stream: true}.String()
	assert.Contains(t, line, "gemini")
	assert.Contains(t, line, "timeout 300s")
	assert.Contains(t, line, "streaming")

	assert.Contains(t, Banner{Provider: "gemini"}.String(), "no timeout")
}

type upperMarkdown struct{ err error }

func (u upperMarkdown) Render(text string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	return strings.ToUpper(text) + "\n\n", nil
}

func TestTranscriptRendererPassesThroughWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	renderer := NewTranscriptRenderer(true, &buf)

	require.False(t, renderer.Markdown())
	require.NoError(t, renderer.Write(&buf, "# title\n\nbody  \n"))
	assert.Equal(t, "# title\n\nbody  \n", buf.String())
}

func TestTranscriptRendererUsesMarkdown(t *testing.T) {
	renderer := NewTranscriptRendererWithMarkdown(upperMarkdown{})
	assert.Equal(t, "# TITLE\n", renderer.Render("# title"))
	assert.Equal(t, "  ", renderer.Render("  "))
}

func TestTranscriptRendererFallsBackOnError(t *testing.T) {
	renderer := NewTranscriptRendererWithMarkdown(upperMarkdown{err: errors.New("boom")})
	assert.Equal(t, "raw", renderer.Render("raw"))
}
