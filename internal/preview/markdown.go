// Package preview renders prompt content as HTML for the UI's preview
// pane. Prompt bodies are frequently written in Markdown; plain text passes
// through unchanged apart from paragraph wrapping.
package preview

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Markdown renderer. Raw HTML in prompt content is
// escaped, not passed through, since the output is injected into the UI.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}
}

// Render converts source Markdown to HTML.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
