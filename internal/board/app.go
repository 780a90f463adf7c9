package board

import (
	"errors"
	"fmt"

	"github.com/evanschultz/shuttle/internal/domain"
	"github.com/evanschultz/shuttle/internal/surface"
)

// ErrInconsistent reports a record whose list tag and list membership disagree.
var ErrInconsistent = errors.New("membership inconsistent")

// Popover offsets used when no option overrides them.
const (
	DefaultPopoverOffsetX = 2
	DefaultPopoverInsetY  = 1
)

// InfoRenderer converts a record's extended info into display text for the given width.
type InfoRenderer func(markdown string, width int) string

// MoveEvent describes one completed move transition.
type MoveEvent struct {
	ProjectID string
	From      domain.ListName
	To        domain.ListName
}

// Option configures an App.
type Option func(*App)

// WithPopoverOffset overrides the popover anchor offsets.
func WithPopoverOffset(offsetX, insetY int) Option {
	return func(a *App) {
		a.popoverOffsetX = offsetX
		a.popoverInsetY = insetY
	}
}

// WithInfoRenderer sets the renderer used for popover extended info.
func WithInfoRenderer(render InfoRenderer) Option {
	return func(a *App) {
		if render != nil {
			a.renderInfo = render
		}
	}
}

// WithMoveObserver registers a callback invoked after every move.
func WithMoveObserver(fn func(MoveEvent)) Option {
	return func(a *App) {
		a.onMove = fn
	}
}

// App is the explicitly constructed widget state: records, lists and the host document.
type App struct {
	doc     *surface.Document
	records []*domain.Project
	lists   []*List
	cards   map[string]*CardView

	popoverOffsetX int
	popoverInsetY  int
	renderInfo     InfoRenderer
	onMove         func(MoveEvent)
}

// New constructs an App bound to a host document.
func New(doc *surface.Document, opts ...Option) *App {
	a := &App{
		doc:            doc,
		cards:          map[string]*CardView{},
		popoverOffsetX: DefaultPopoverOffsetX,
		popoverInsetY:  DefaultPopoverInsetY,
		renderInfo:     func(markdown string, _ int) string { return markdown },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Load replaces the record collection.
func (a *App) Load(records []*domain.Project) {
	a.records = append([]*domain.Project(nil), records...)
}

// Init builds the active and finished lists, links them as partners and renders both.
func (a *App) Init() {
	active := newList(a, domain.ListActive)
	finished := newList(a, domain.ListFinished)
	active.SetPartner(finished)
	finished.SetPartner(active)
	a.lists = []*List{active, finished}
	a.renderAll()
}

// RefreshAll clears every list container and re-renders all lists from memory.
func (a *App) RefreshAll() {
	for _, list := range a.lists {
		if list.container != nil {
			list.container.Clear()
		}
	}
	a.renderAll()
}

// renderAll renders every list in board order.
func (a *App) renderAll() {
	a.cards = map[string]*CardView{}
	for _, list := range a.lists {
		list.Render()
	}
}

// Document returns the host document.
func (a *App) Document() *surface.Document {
	return a.doc
}

// Lists returns the lists in board order.
func (a *App) Lists() []*List {
	return append([]*List(nil), a.lists...)
}

// List returns the list with the given name.
func (a *App) List(name domain.ListName) *List {
	for _, list := range a.lists {
		if list.Name == name {
			return list
		}
	}
	return nil
}

// Records returns the full record collection.
func (a *App) Records() []*domain.Project {
	return append([]*domain.Project(nil), a.records...)
}

// Record returns the record with the given id.
func (a *App) Record(id string) *domain.Project {
	for _, p := range a.records {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Card returns the card view rendered for a record id in the latest render.
func (a *App) Card(id string) *CardView {
	return a.cards[id]
}

// Popovers returns the info popovers currently attached to the document.
func (a *App) Popovers() []*surface.Element {
	out := make([]*surface.Element, 0)
	for _, list := range a.lists {
		if list.container == nil {
			continue
		}
		for _, child := range list.container.Children() {
			if child.HasClass(ClassPopover) {
				out = append(out, child)
			}
		}
	}
	return out
}

// ClosePopovers removes every open info popover.
func (a *App) ClosePopovers() int {
	popovers := a.Popovers()
	for _, el := range popovers {
		el.Remove()
	}
	return len(popovers)
}

// CheckConsistency verifies every record sits in exactly the list its tag names.
func (a *App) CheckConsistency() error {
	for _, p := range a.records {
		holders := 0
		for _, list := range a.lists {
			for _, member := range list.members {
				if member != p {
					continue
				}
				holders++
				if list.Name != p.List {
					return fmt.Errorf("%w: %s tagged %s but held by %s", ErrInconsistent, p.ID, p.List, list.Name)
				}
			}
		}
		if holders != 1 {
			return fmt.Errorf("%w: %s held by %d lists", ErrInconsistent, p.ID, holders)
		}
	}
	return nil
}

// notifyMove forwards a completed move to the observer.
func (a *App) notifyMove(ev MoveEvent) {
	if a.onMove != nil {
		a.onMove(ev)
	}
}
