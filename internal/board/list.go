package board

import (
	"slices"

	"github.com/evanschultz/shuttle/internal/domain"
	"github.com/evanschultz/shuttle/internal/surface"
)

// Class names set on rendered elements.
const (
	ClassDroppable = "droppable"
	ClassCard      = "card"
	ClassPopover   = "popover"
	ClassActions   = "actions"
	ClassAlt       = "alt"
)

// List is one named, ordered collection of records plus its drop surface.
type List struct {
	app       *App
	Name      domain.ListName
	members   []*domain.Project
	partner   *List
	container *surface.Element
}

// newList collects the records tagged with name in load order.
func newList(app *App, name domain.ListName) *List {
	l := &List{app: app, Name: name}
	for _, p := range app.records {
		if p.List == name {
			l.members = append(l.members, p)
		}
	}
	return l
}

// SetPartner links the list a move from this list lands in.
func (l *List) SetPartner(partner *List) {
	l.partner = partner
}

// Partner returns the linked list.
func (l *List) Partner() *List {
	return l.partner
}

// Members returns the records in render order.
func (l *List) Members() []*domain.Project {
	return append([]*domain.Project(nil), l.members...)
}

// Container returns the rendered list container, or nil before the first render.
func (l *List) Container() *surface.Element {
	return l.container
}

// Append adds a record at the end of the list.
func (l *List) Append(p *domain.Project) {
	l.members = append(l.members, p)
}

// Remove drops a record by identity and reports whether it was a member.
func (l *List) Remove(p *domain.Project) bool {
	before := len(l.members)
	l.members = slices.DeleteFunc(l.members, func(m *domain.Project) bool { return m == p })
	return len(l.members) != before
}

// Find returns the member with the given id.
func (l *List) Find(id string) *domain.Project {
	for _, p := range l.members {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Render creates the container when absent, renders one card per member and
// re-establishes drop handling.
func (l *List) Render() {
	doc := l.app.doc
	if l.container == nil || !l.container.Attached() {
		mount := doc.ElementByID(l.Name.MountID())
		if mount == nil {
			mount = doc.Mount(l.Name.MountID(), surface.Rect{})
		}
		container := doc.CreateElement("ul")
		container.SetID(l.Name.ContainerID())
		container.Scrollable = true
		container.Gap = 1
		mount.Append(container)
		l.container = container
	}
	for _, p := range l.members {
		card := NewCardView(l.app, p, l, l.partner)
		l.app.cards[p.ID] = card
	}
	l.connectDroppable()
}

// connectDroppable wires the drag-and-drop handlers on the container.
func (l *List) connectDroppable() {
	list := l.container
	for _, t := range []surface.EventType{surface.EventDragEnter, surface.EventDragOver, surface.EventDragLeave, surface.EventDrop} {
		list.RemoveEventListeners(t)
	}

	list.AddEventListener(surface.EventDragEnter, func(ev *surface.Event) {
		if ev.DataTransfer.FirstType() != surface.TextPlain {
			return
		}
		ev.PreventDefault()
		l.setDroppable(true)
	})
	list.AddEventListener(surface.EventDragOver, func(ev *surface.Event) {
		if ev.DataTransfer.FirstType() == surface.TextPlain {
			ev.PreventDefault()
		}
	})
	list.AddEventListener(surface.EventDragLeave, func(ev *surface.Event) {
		if ev.RelatedTarget == nil || ev.RelatedTarget.Closest(l.Name.ContainerID()) != list {
			l.setDroppable(false)
		}
	})
	list.AddEventListener(surface.EventDrop, func(ev *surface.Event) {
		defer l.setDroppable(false)
		id := ev.DataTransfer.GetData(surface.TextPlain)
		if l.Find(id) != nil {
			return
		}
		if card := l.app.Card(id); card != nil {
			card.MoveButton().Click()
		}
	})
}

// setDroppable toggles the indicator on the container's parent.
func (l *List) setDroppable(on bool) {
	parent := l.container.Parent()
	if parent == nil {
		return
	}
	if on {
		parent.AddClass(ClassDroppable)
		return
	}
	parent.RemoveClass(ClassDroppable)
}

// Droppable reports whether the drop indicator is showing.
func (l *List) Droppable() bool {
	if l.container == nil || l.container.Parent() == nil {
		return false
	}
	return l.container.Parent().HasClass(ClassDroppable)
}
