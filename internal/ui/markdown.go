package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// newMarkdown creates a glamour renderer. An empty style picks dark or
// light from the terminal background; otherwise style is a glamour style
// name ("dark", "light", "notty", ...) or a path to a JSON style file.
func newMarkdown(style string, width int) (*glamour.TermRenderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStylePath(style)
	}
	return glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
}

// renderMarkdown renders content, returning it unchanged when rendering
// fails.
func renderMarkdown(r *glamour.TermRenderer, content string) string {
	if content == "" || r == nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}
