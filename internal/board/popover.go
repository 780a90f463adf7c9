package board

import (
	"github.com/evanschultz/shuttle/internal/domain"
	"github.com/evanschultz/shuttle/internal/surface"
)

// minPopoverWidth keeps narrow cards from producing unreadable popovers.
const minPopoverWidth = 16

// InfoPopover is a transient overlay with a record's extended info.
type InfoPopover struct {
	app     *App
	project *domain.Project
	el      *surface.Element
}

// NewInfoPopover renders the popover immediately.
func NewInfoPopover(app *App, project *domain.Project) *InfoPopover {
	p := &InfoPopover{app: app, project: project}
	p.Render()
	return p
}

// Render appends the popover to the record's list container, anchored below its card.
func (p *InfoPopover) Render() {
	list := p.app.List(p.project.List)
	card := p.app.Card(p.project.ID)
	if list == nil || list.container == nil || card == nil {
		return
	}
	doc := p.app.doc
	source := card.el.OffsetRect()

	el := doc.CreateElement("div")
	el.SetID(p.project.InfoID())
	el.AddClass(ClassCard)
	el.AddClass(ClassPopover)
	el.Insets = cardInsets
	el.Width = popoverWidth(source, list.container.OffsetRect().W, p.app.popoverOffsetX)

	title := doc.CreateElement("h3")
	title.SetText(p.project.Title)
	el.Append(title)
	if p.project.Info != "" {
		body := doc.CreateElement("p")
		body.SetText(p.app.renderInfo(p.project.Info, el.Width-cardInsets.Left-cardInsets.Right))
		el.Append(body)
	}
	el.AddEventListener(surface.EventClick, func(*surface.Event) { el.Remove() })

	list.container.Append(el)
	p.position(el, card.el, source)
	p.el = el
}

// popoverWidth sizes the popover from its card, kept inside the list container.
func popoverWidth(source surface.Rect, containerW, offsetX int) int {
	width := max(minPopoverWidth, source.W-offsetX)
	if avail := containerW - source.X - offsetX; avail > 0 {
		width = min(width, avail)
	}
	return width
}

// position anchors the popover just below the source card, corrected for the
// scroll offset of the card's scrollable parent.
func (p *InfoPopover) position(el, host *surface.Element, source surface.Rect) {
	scroll := 0
	if parent := host.Parent(); parent != nil {
		scroll = parent.ScrollTop()
	}
	x := source.X + p.app.popoverOffsetX
	y := source.Y + source.H - scroll - p.app.popoverInsetY
	el.SetPosition(x, y)
}

// Element returns the popover element handle.
func (p *InfoPopover) Element() *surface.Element {
	return p.el
}
