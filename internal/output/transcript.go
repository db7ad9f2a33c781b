package output

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown for a terminal.
type MarkdownRenderer interface {
	Render(string) (string, error)
}

// TranscriptRenderer writes the provider transcript. Without a markdown
// renderer the transcript passes through byte for byte.
type TranscriptRenderer struct {
	markdown MarkdownRenderer
}

// NewTranscriptRenderer renders markdown only when asked to and w is a
// terminal; pipes and files always get the raw transcript.
func NewTranscriptRenderer(render bool, w io.Writer) *TranscriptRenderer {
	if !render || !IsTerminal(w) {
		return &TranscriptRenderer{}
	}
	return &TranscriptRenderer{markdown: buildMarkdownRenderer(OutputWidth(w))}
}

// NewTranscriptRendererWithMarkdown uses md for every transcript.
func NewTranscriptRendererWithMarkdown(md MarkdownRenderer) *TranscriptRenderer {
	return &TranscriptRenderer{markdown: md}
}

// Markdown reports whether transcripts are rendered.
func (r *TranscriptRenderer) Markdown() bool {
	return r != nil && r.markdown != nil
}

// Render returns the text to print for transcript.
func (r *TranscriptRenderer) Render(transcript string) string {
	if !r.Markdown() || strings.TrimSpace(transcript) == "" {
		return transcript
	}
	rendered, err := r.markdown.Render(transcript)
	if err != nil {
		return transcript
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}

// Write renders transcript to w.
func (r *TranscriptRenderer) Write(w io.Writer, transcript string) error {
	_, err := io.WriteString(w, r.Render(transcript))
	return err
}

func buildMarkdownRenderer(width int) MarkdownRenderer {
	wrap := 100
	if width > 0 && width < wrap {
		wrap = width
	}
	options := []glamour.TermRendererOption{
		glamour.WithWordWrap(wrap),
		glamour.WithPreservedNewLines(),
	}
	if value, ok := os.LookupEnv("GLAMOUR_STYLE"); ok && value != "" {
		options = append(options, glamour.WithEnvironmentConfig())
	} else {
		options = append(options, glamour.WithAutoStyle())
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return nil
	}
	return renderer
}
