package board

import (
	"github.com/evanschultz/shuttle/internal/domain"
	"github.com/evanschultz/shuttle/internal/surface"
)

// card chrome: one border cell plus one padding column on each side.
var cardInsets = surface.Insets{Top: 1, Right: 2, Bottom: 1, Left: 2}

// buttonInsets reserves a bracket column on each side of a button label.
var buttonInsets = surface.Insets{Left: 1, Right: 1}

// CardView renders one record and owns its move and info controls.
type CardView struct {
	app     *App
	project *domain.Project
	current *List
	target  *List

	el      *surface.Element
	infoBtn *surface.Element
	moveBtn *surface.Element
}

// NewCardView renders the card into its list and connects the drag source.
func NewCardView(app *App, project *domain.Project, current, target *List) *CardView {
	c := &CardView{app: app, project: project, current: current, target: target}
	c.Render()
	c.ConnectDrag()
	return c
}

// Render builds the card element and appends it to the current list container.
func (c *CardView) Render() {
	doc := c.app.doc
	el := doc.CreateElement("li")
	el.SetID(c.project.ID)
	el.AddClass(ClassCard)
	el.SetAttr("data-extra-info", c.project.Info)
	el.SetAttr("draggable", "true")
	el.Draggable = true
	el.Insets = cardInsets

	title := doc.CreateElement("h2")
	title.SetText(c.project.Title)
	el.Append(title)
	if c.project.Description != "" {
		desc := doc.CreateElement("p")
		desc.SetText(c.project.Description)
		el.Append(desc)
	}

	actions := doc.CreateElement("div")
	actions.AddClass(ClassActions)
	actions.Flow = surface.FlowRow
	actions.Gap = 1
	el.Append(actions)

	info := doc.CreateElement("button")
	info.AddClass(ClassAlt)
	info.SetText("More Info")
	info.Insets = buttonInsets
	info.AddEventListener(surface.EventClick, func(*surface.Event) { c.ShowInfo() })
	actions.Append(info)

	label := "Move"
	if c.target != nil {
		label = "Move to " + c.target.Name.String()
	}
	move := doc.CreateElement("button")
	move.SetText(label)
	move.Insets = buttonInsets
	move.AddEventListener(surface.EventClick, func(*surface.Event) { c.ChangeList() })
	actions.Append(move)

	c.el, c.infoBtn, c.moveBtn = el, info, move
	c.current.container.Append(el)
}

// ConnectDrag publishes the record id as the plain-text drag payload.
func (c *CardView) ConnectDrag() {
	c.el.AddEventListener(surface.EventDragStart, func(ev *surface.Event) {
		ev.DataTransfer.SetData(surface.TextPlain, c.project.ID)
		ev.DataTransfer.EffectAllowed = "move"
	})
}

// ShowInfo opens the info popover unless one is already open for this record.
func (c *CardView) ShowInfo() {
	if c.app.doc.ElementByID(c.project.InfoID()) != nil {
		return
	}
	NewInfoPopover(c.app, c.project)
}

// ChangeList moves the record to the target list, re-renders every list and
// scrolls the new card into view. A record missing from the current list is
// appended to the target anyway; the removal is a silent no-op.
func (c *CardView) ChangeList() {
	if c.target == nil {
		return
	}
	from := c.current.Name
	c.project.List = c.target.Name
	c.target.Append(c.project)
	c.current.Remove(c.project)
	c.app.RefreshAll()
	if moved := c.app.Card(c.project.ID); moved != nil {
		moved.el.ScrollIntoView()
	}
	c.app.notifyMove(MoveEvent{ProjectID: c.project.ID, From: from, To: c.target.Name})
}

// Project returns the rendered record.
func (c *CardView) Project() *domain.Project {
	return c.project
}

// Element returns the card element handle.
func (c *CardView) Element() *surface.Element {
	return c.el
}

// InfoButton returns the info control handle.
func (c *CardView) InfoButton() *surface.Element {
	return c.infoBtn
}

// MoveButton returns the move control handle.
func (c *CardView) MoveButton() *surface.Element {
	return c.moveBtn
}
