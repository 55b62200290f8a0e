package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer wraps a glamour renderer at a fixed wrap width. Creating
// the renderer is expensive, so the browser keeps one and rebuilds it only
// on resize.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdownRenderer creates a renderer wrapping at width columns. A nil
// renderer is returned on failure; Render then falls back to the raw text.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &MarkdownRenderer{width: width}
	}
	return &MarkdownRenderer{renderer: r, width: width}
}

// Width returns the wrap width the renderer was created with.
func (m *MarkdownRenderer) Width() int {
	return m.width
}

// Render renders markdown to styled terminal text. On any failure the raw
// markdown comes back so content is never lost.
func (m *MarkdownRenderer) Render(markdown string) string {
	if m == nil || m.renderer == nil {
		return markdown
	}
	out, err := m.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	// Glamour pads with blank lines at both ends.
	return strings.TrimRight(strings.TrimLeft(out, "\n"), "\n")
}
