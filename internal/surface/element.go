package surface

import (
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// MeasureFunc sizes a leaf element for the available content width.
type MeasureFunc func(avail int) (width, height int)

// Element is one node of the host document.
type Element struct {
	doc *Document

	id      string
	tag     string
	classes []string
	attrs   map[string]string
	text    string

	// Draggable marks the element as a drag source for the pointer.
	Draggable bool
	// Flow, Gap and Insets drive placement of static children.
	Flow   Flow
	Gap    int
	Insets Insets
	// Width/Height pin the element size when > 0.
	Width  int
	Height int
	// Measure overrides intrinsic sizing for leaves.
	Measure MeasureFunc
	// Absolute elements sit at Left/Top in the parent's visible area.
	Absolute bool
	Left     int
	Top      int
	// Scrollable containers clip static children and carry a scroll offset.
	Scrollable bool

	scrollTop int
	rect      Rect

	parent   *Element
	children []*Element

	listeners  map[EventType][]listenerEntry
	nextListen ListenerID
}

// ID returns the element id.
func (e *Element) ID() string {
	return e.id
}

// SetID replaces the element id.
func (e *Element) SetID(id string) {
	e.id = strings.TrimSpace(id)
}

// Tag returns the element tag.
func (e *Element) Tag() string {
	return e.tag
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	return e.doc
}

// AddClass adds one class if missing.
func (e *Element) AddClass(class string) {
	if class == "" || e.HasClass(class) {
		return
	}
	e.classes = append(e.classes, class)
}

// RemoveClass removes one class if present.
func (e *Element) RemoveClass(class string) {
	e.classes = slices.DeleteFunc(e.classes, func(c string) bool { return c == class })
}

// HasClass reports whether the class is set.
func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.classes, class)
}

// Classes returns a copy of the class list.
func (e *Element) Classes() []string {
	return append([]string(nil), e.classes...)
}

// SetAttr sets one attribute value.
func (e *Element) SetAttr(name, value string) {
	if e.attrs == nil {
		e.attrs = map[string]string{}
	}
	e.attrs[name] = value
}

// Attr returns one attribute value.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// SetText replaces the text content of a leaf.
func (e *Element) SetText(text string) {
	e.text = text
	e.invalidate()
}

// Text returns the raw text content.
func (e *Element) Text() string {
	return e.text
}

// Lines returns the text wrapped to the element's current content width.
func (e *Element) Lines() []string {
	r := e.OffsetRect()
	return wrapText(e.text, r.W-e.Insets.Left-e.Insets.Right)
}

// Parent returns the parent element or nil when detached.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	return append([]*Element(nil), e.children...)
}

// Append attaches child as the last child, detaching it from any previous parent.
func (e *Element) Append(child *Element) *Element {
	if child == nil || child == e {
		return child
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = e
	e.children = append(e.children, child)
	e.invalidate()
	return child
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	if e.parent == nil {
		return
	}
	e.parent.removeChild(e)
}

// Clear removes every child.
func (e *Element) Clear() {
	for _, child := range e.children {
		child.parent = nil
	}
	e.children = nil
	e.invalidate()
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Closest returns the nearest inclusive ancestor with the given id.
func (e *Element) Closest(id string) *Element {
	for n := e; n != nil; n = n.parent {
		if n.id == id {
			return n
		}
	}
	return nil
}

// Attached reports whether the element is reachable from the document root.
func (e *Element) Attached() bool {
	if e.doc == nil {
		return false
	}
	return e.doc.root.Contains(e)
}

// SetSize pins the element size and marks the document for relayout.
func (e *Element) SetSize(width, height int) {
	e.Width = max(0, width)
	e.Height = max(0, height)
	e.invalidate()
}

// SetPosition makes the element absolute at left/top in its parent's visible area.
func (e *Element) SetPosition(left, top int) {
	e.Absolute = true
	e.Left = left
	e.Top = top
	e.invalidate()
}

// ScrollTop returns the scroll offset of a scrollable container.
func (e *Element) ScrollTop() int {
	return e.scrollTop
}

// SetScrollTop clamps and applies a scroll offset.
func (e *Element) SetScrollTop(v int) {
	if !e.Scrollable {
		return
	}
	e.doc.ensureLayout()
	e.scrollTop = clampInt(v, 0, e.maxScroll())
}

// ScrollBy adjusts the scroll offset by delta rows.
func (e *Element) ScrollBy(delta int) {
	e.SetScrollTop(e.scrollTop + delta)
}

// OffsetRect returns the element box relative to its parent's box, ignoring scroll.
func (e *Element) OffsetRect() Rect {
	if e.doc != nil {
		e.doc.ensureLayout()
	}
	return e.rect
}

// ClientRect returns the element box in screen coordinates.
func (e *Element) ClientRect() Rect {
	r := e.OffsetRect()
	for child, p := e, e.parent; p != nil; child, p = p, p.parent {
		r = r.Translate(p.rect.X, p.rect.Y)
		if p.Scrollable && !child.Absolute {
			r.Y -= p.scrollTop
		}
	}
	return r
}

// ScrollIntoView scrolls every scrollable ancestor so the element is visible.
func (e *Element) ScrollIntoView() {
	if e.doc == nil || !e.Attached() {
		return
	}
	e.doc.ensureLayout()
	top := e.rect.Y
	height := e.rect.H
	for child, p := e, e.parent; p != nil; child, p = p, p.parent {
		if p.Scrollable && !child.Absolute {
			view := p.viewportHeight()
			visibleTop := p.Insets.Top + p.scrollTop
			switch {
			case top < visibleTop:
				p.scrollTop = top - p.Insets.Top
			case top+height > visibleTop+view:
				p.scrollTop = min(top-p.Insets.Top, top+height-p.Insets.Top-view)
			}
			p.scrollTop = clampInt(p.scrollTop, 0, p.maxScroll())
			top -= p.scrollTop
		}
		top += p.rect.Y
	}
}

// Click dispatches a synchronous bubbling click on the element.
func (e *Element) Click() {
	if e.doc == nil {
		return
	}
	e.doc.Dispatch(&Event{Type: EventClick, Target: e})
}

// removeChild detaches one direct child.
func (e *Element) removeChild(child *Element) {
	idx := slices.Index(e.children, child)
	if idx < 0 {
		return
	}
	e.children = slices.Delete(e.children, idx, idx+1)
	child.parent = nil
	e.invalidate()
}

// invalidate marks the owning document for relayout.
func (e *Element) invalidate() {
	if e.doc != nil {
		e.doc.dirty = true
	}
}

// viewportHeight returns the visible content height of a container.
func (e *Element) viewportHeight() int {
	return max(0, e.rect.H-e.Insets.Top-e.Insets.Bottom)
}

// contentBottom returns the lowest static child edge relative to the element box.
func (e *Element) contentBottom() int {
	bottom := e.Insets.Top
	for _, child := range e.children {
		if child.Absolute {
			continue
		}
		bottom = max(bottom, child.rect.Bottom())
	}
	return bottom
}

// maxScroll returns the largest useful scroll offset.
func (e *Element) maxScroll() int {
	return max(0, e.contentBottom()-e.Insets.Top-e.viewportHeight())
}

// wrapText word-wraps text to width, keeping ANSI sequences intact.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if width <= 0 {
		return strings.Split(text, "\n")
	}
	wrapped := ansi.Wrap(text, width, "")
	return strings.Split(wrapped, "\n")
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
