package surface

// Pointer turns raw press/motion/release input into click and drag-and-drop events.
type Pointer struct {
	doc *Document

	pressed      bool
	startX       int
	startY       int
	pressTarget  *Element
	dragSource   *Element
	dragging     bool
	transfer     *DataTransfer
	over         *Element
	overAccepted bool
}

// NewPointer binds a pointer to a document.
func NewPointer(doc *Document) *Pointer {
	return &Pointer{doc: doc}
}

// Dragging reports whether a drag gesture is in progress.
func (p *Pointer) Dragging() bool {
	return p.dragging
}

// DragSource returns the element that started the current drag.
func (p *Pointer) DragSource() *Element {
	if !p.dragging {
		return nil
	}
	return p.dragSource
}

// Over returns the element under the pointer during a drag.
func (p *Pointer) Over() *Element {
	return p.over
}

// Press records a button press at x/y.
func (p *Pointer) Press(x, y int) {
	if p.dragging {
		p.Cancel()
	}
	p.reset()
	p.pressed = true
	p.startX, p.startY = x, y
	p.pressTarget = p.doc.HitTest(x, y)
	for n := p.pressTarget; n != nil; n = n.parent {
		if n.Draggable {
			p.dragSource = n
			break
		}
	}
}

// Move records pointer motion with the button held.
func (p *Pointer) Move(x, y int) {
	if !p.pressed {
		return
	}
	if !p.dragging {
		if p.dragSource == nil || (x == p.startX && y == p.startY) {
			return
		}
		if !p.startDrag(x, y) {
			p.reset()
			return
		}
	}
	p.track(x, y)
}

// Release ends the gesture: a drop when dragging, otherwise a click.
func (p *Pointer) Release(x, y int) {
	if !p.pressed {
		return
	}
	if !p.dragging {
		target := commonAncestor(p.pressTarget, p.doc.HitTest(x, y))
		p.reset()
		if target != nil && target != p.doc.root {
			p.doc.Dispatch(&Event{Type: EventClick, Target: target, X: x, Y: y})
		}
		return
	}

	p.track(x, y)
	if p.over != nil {
		if p.overAccepted {
			p.doc.Dispatch(&Event{Type: EventDrop, Target: p.over, DataTransfer: p.transfer, X: x, Y: y})
		} else {
			p.doc.Dispatch(&Event{Type: EventDragLeave, Target: p.over, DataTransfer: p.transfer, X: x, Y: y})
		}
	}
	p.finish(x, y)
}

// Cancel abandons a drag in progress without dropping.
func (p *Pointer) Cancel() {
	if !p.dragging {
		p.reset()
		return
	}
	if p.over != nil {
		p.doc.Dispatch(&Event{Type: EventDragLeave, Target: p.over, DataTransfer: p.transfer})
	}
	p.finish(p.startX, p.startY)
}

// startDrag fires dragstart on the source and reports whether the drag may proceed.
func (p *Pointer) startDrag(x, y int) bool {
	p.transfer = NewDataTransfer()
	ev := &Event{Type: EventDragStart, Target: p.dragSource, DataTransfer: p.transfer, X: x, Y: y}
	if !p.doc.Dispatch(ev) {
		return false
	}
	p.dragging = true
	return true
}

// track fires enter/leave pairs when the element under the pointer changes, then dragover.
func (p *Pointer) track(x, y int) {
	target := p.doc.HitTest(x, y)
	if target != p.over {
		prev := p.over
		if target != nil {
			p.doc.Dispatch(&Event{Type: EventDragEnter, Target: target, RelatedTarget: prev, DataTransfer: p.transfer, X: x, Y: y})
		}
		if prev != nil {
			p.doc.Dispatch(&Event{Type: EventDragLeave, Target: prev, RelatedTarget: target, DataTransfer: p.transfer, X: x, Y: y})
		}
		p.over = target
	}
	p.overAccepted = false
	if p.over != nil {
		ev := &Event{Type: EventDragOver, Target: p.over, DataTransfer: p.transfer, X: x, Y: y}
		p.overAccepted = !p.doc.Dispatch(ev)
	}
}

// finish fires dragend on the source and clears gesture state.
func (p *Pointer) finish(x, y int) {
	source := p.dragSource
	transfer := p.transfer
	p.reset()
	if source != nil {
		p.doc.Dispatch(&Event{Type: EventDragEnd, Target: source, DataTransfer: transfer, X: x, Y: y})
	}
}

func (p *Pointer) reset() {
	p.pressed = false
	p.pressTarget = nil
	p.dragSource = nil
	p.dragging = false
	p.transfer = nil
	p.over = nil
	p.overAccepted = false
}

// commonAncestor returns the nearest inclusive ancestor shared by a and b.
func commonAncestor(a, b *Element) *Element {
	if a == nil || b == nil {
		return nil
	}
	for n := a; n != nil; n = n.parent {
		if n.Contains(b) {
			return n
		}
	}
	return nil
}
