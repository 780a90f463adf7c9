package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minMarkdownWrap keeps glamour output readable inside narrow popovers.
const minMarkdownWrap = 12

// markdownRenderer renders popover info and recreates the renderer when wrap width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render converts markdown into ANSI-styled terminal text wrapped to width.
func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := max(width, minMarkdownWrap)
	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.Trim(rendered, "\n")
}
