package surface

import "github.com/charmbracelet/x/ansi"

// Document is the host surface: a root element sized to the screen plus mount points.
type Document struct {
	root  *Element
	dirty bool
}

// NewDocument constructs an empty document of the given size.
func NewDocument(width, height int) *Document {
	d := &Document{}
	d.root = d.CreateElement("body")
	d.root.Width = max(0, width)
	d.root.Height = max(0, height)
	d.dirty = true
	return d
}

// Root returns the root element.
func (d *Document) Root() *Element {
	return d.root
}

// CreateElement returns a detached element owned by the document.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{doc: d, tag: tag}
}

// Resize updates the root size.
func (d *Document) Resize(width, height int) {
	d.root.Width = max(0, width)
	d.root.Height = max(0, height)
	d.dirty = true
}

// Size returns the root size.
func (d *Document) Size() (int, int) {
	return d.root.Width, d.root.Height
}

// Mount creates or repositions a top-level mount point.
func (d *Document) Mount(id string, bounds Rect) *Element {
	mount := d.ElementByID(id)
	if mount == nil {
		mount = d.CreateElement("section")
		mount.SetID(id)
		d.root.Append(mount)
	}
	mount.Absolute = true
	mount.Left = bounds.X
	mount.Top = bounds.Y
	mount.Width = max(0, bounds.W)
	mount.Height = max(0, bounds.H)
	d.dirty = true
	return mount
}

// ElementByID returns the first attached element with id in tree order.
func (d *Document) ElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.walk(d.root, func(e *Element) bool {
		if e.id == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// walk visits elements depth-first in tree order until fn returns false.
func (d *Document) walk(e *Element, fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, child := range e.children {
		if !d.walk(child, fn) {
			return false
		}
	}
	return true
}

// Layout forces a layout pass.
func (d *Document) Layout() {
	d.dirty = true
	d.ensureLayout()
}

// ensureLayout recomputes geometry when the tree changed since the last pass.
func (d *Document) ensureLayout() {
	if !d.dirty {
		return
	}
	d.dirty = false
	d.place(d.root, 0, 0, d.root.Width, FlowColumn)
}

// place sizes e at x/y within avail width and lays out its subtree.
func (d *Document) place(e *Element, x, y, avail int, parentFlow Flow) {
	w, h, autoHeight := intrinsicSize(e, avail, parentFlow)
	e.rect = Rect{X: x, Y: y, W: w, H: h}

	inner := max(0, w-e.Insets.Left-e.Insets.Right)
	cx, cy := e.Insets.Left, e.Insets.Top
	for _, child := range e.children {
		if child.Absolute {
			continue
		}
		switch e.Flow {
		case FlowRow:
			d.place(child, cx, cy, max(0, inner-(cx-e.Insets.Left)), FlowRow)
			cx += child.rect.W + e.Gap
		default:
			d.place(child, cx, cy, inner, FlowColumn)
			cy += child.rect.H + e.Gap
		}
	}
	for _, child := range e.children {
		if child.Absolute {
			d.place(child, child.Left, child.Top, inner, FlowColumn)
		}
	}
	if autoHeight {
		e.rect.H = e.contentBottom() + e.Insets.Bottom
	}
	e.scrollTop = clampInt(e.scrollTop, 0, e.maxScroll())
}

// intrinsicSize resolves width/height and whether height follows content.
func intrinsicSize(e *Element, avail int, parentFlow Flow) (int, int, bool) {
	padX := e.Insets.Left + e.Insets.Right
	padY := e.Insets.Top + e.Insets.Bottom
	switch {
	case e.Measure != nil:
		w, h := e.Measure(avail)
		if e.Width > 0 {
			w = e.Width
		}
		if e.Height > 0 {
			h = e.Height
		}
		return w, h, false
	case e.text != "" && len(e.children) == 0:
		w := avail
		if e.Width > 0 {
			w = e.Width
		} else if parentFlow == FlowRow {
			w = min(avail, ansi.StringWidth(e.text)+padX)
		}
		h := len(wrapText(e.text, w-padX)) + padY
		if e.Height > 0 {
			h = e.Height
		}
		return w, h, false
	}
	w := avail
	if e.Width > 0 {
		w = e.Width
	}
	if e.Height > 0 {
		return w, e.Height, false
	}
	return w, padY, true
}

// HitTest returns the deepest visible element under x/y, or nil.
func (d *Document) HitTest(x, y int) *Element {
	d.ensureLayout()
	return hit(d.root, d.root.rect, Rect{W: d.root.rect.W, H: d.root.rect.H}, x, y)
}

// hit walks children topmost-first so later siblings win.
func hit(e *Element, box, clip Rect, x, y int) *Element {
	childClip := clip
	if e.Scrollable {
		childClip = clip.Intersect(Rect{
			X: box.X + e.Insets.Left,
			Y: box.Y + e.Insets.Top,
			W: max(0, box.W-e.Insets.Left-e.Insets.Right),
			H: e.viewportHeight(),
		})
	}
	for i := len(e.children) - 1; i >= 0; i-- {
		child := e.children[i]
		childBox := child.rect.Translate(box.X, box.Y)
		cc := clip
		if !child.Absolute {
			cc = childClip
			if e.Scrollable {
				childBox.Y -= e.scrollTop
			}
		}
		if found := hit(child, childBox, cc, x, y); found != nil {
			return found
		}
	}
	if box.Intersect(clip).Contains(x, y) {
		return e
	}
	return nil
}

// Visit walks attached elements in paint order with their screen box and clip.
func (d *Document) Visit(fn func(e *Element, box, clip Rect)) {
	d.ensureLayout()
	visit(d.root, d.root.rect, Rect{W: d.root.rect.W, H: d.root.rect.H}, fn)
}

func visit(e *Element, box, clip Rect, fn func(e *Element, box, clip Rect)) {
	fn(e, box, clip)
	childClip := clip
	if e.Scrollable {
		childClip = clip.Intersect(Rect{
			X: box.X + e.Insets.Left,
			Y: box.Y + e.Insets.Top,
			W: max(0, box.W-e.Insets.Left-e.Insets.Right),
			H: e.viewportHeight(),
		})
	}
	for _, child := range e.children {
		childBox := child.rect.Translate(box.X, box.Y)
		cc := clip
		if !child.Absolute {
			cc = childClip
			if e.Scrollable {
				childBox.Y -= e.scrollTop
			}
		}
		visit(child, childBox, cc, fn)
	}
}
