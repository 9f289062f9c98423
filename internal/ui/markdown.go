package ui

import (
	"github.com/charmbracelet/glamour"
)

// maxMarkdownWidth keeps long descriptions readable on wide terminals.
const maxMarkdownWidth = 100

// RenderMarkdown renders ticket descriptions and comments for the
// terminal. Without color, or if glamour fails, the markdown is returned
// as is so pipes and redirects get plain text.
func RenderMarkdown(markdown string) string {
	if !ShouldUseColor() {
		return markdown
	}

	width := TerminalWidth(80)
	if width > maxMarkdownWidth {
		width = maxMarkdownWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
