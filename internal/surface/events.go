package surface

import "slices"

// EventType names a dispatched event.
type EventType string

// Event types understood by the document and the pointer.
const (
	EventClick     EventType = "click"
	EventDragStart EventType = "dragstart"
	EventDragEnter EventType = "dragenter"
	EventDragOver  EventType = "dragover"
	EventDragLeave EventType = "dragleave"
	EventDrop      EventType = "drop"
	EventDragEnd   EventType = "dragend"
)

// TextPlain is the transfer format carrying a record id.
const TextPlain = "text/plain"

// Event is one dispatched event.
type Event struct {
	Type          EventType
	Target        *Element
	CurrentTarget *Element
	RelatedTarget *Element
	DataTransfer  *DataTransfer
	X             int
	Y             int

	defaultPrevented bool
	stopped          bool
}

// PreventDefault marks the event as handled by a listener.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation stops bubbling after the current element.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener handles one event.
type Listener func(*Event)

// ListenerID identifies a registered listener on one element.
type ListenerID int

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// AddEventListener registers fn for events of type t reaching this element.
func (e *Element) AddEventListener(t EventType, fn Listener) ListenerID {
	if fn == nil {
		return 0
	}
	if e.listeners == nil {
		e.listeners = map[EventType][]listenerEntry{}
	}
	e.nextListen++
	e.listeners[t] = append(e.listeners[t], listenerEntry{id: e.nextListen, fn: fn})
	return e.nextListen
}

// RemoveEventListener unregisters one listener.
func (e *Element) RemoveEventListener(t EventType, id ListenerID) {
	if e.listeners == nil {
		return
	}
	e.listeners[t] = slices.DeleteFunc(e.listeners[t], func(l listenerEntry) bool { return l.id == id })
}

// RemoveEventListeners unregisters every listener of type t.
func (e *Element) RemoveEventListeners(t EventType) {
	delete(e.listeners, t)
}

// ListenerCount returns the number of listeners registered for t.
func (e *Element) ListenerCount(t EventType) int {
	return len(e.listeners[t])
}

// Dispatch delivers ev to its target and bubbles it to the root.
// The path is fixed before any listener runs, so listeners may detach nodes.
// It returns false when a listener prevented the default action.
func (d *Document) Dispatch(ev *Event) bool {
	if ev == nil || ev.Target == nil {
		return true
	}
	path := make([]*Element, 0, 8)
	for n := ev.Target; n != nil; n = n.parent {
		path = append(path, n)
	}
	for _, el := range path {
		if ev.stopped {
			break
		}
		ev.CurrentTarget = el
		entries := append([]listenerEntry(nil), el.listeners[ev.Type]...)
		for _, entry := range entries {
			entry.fn(ev)
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}

// DataTransfer carries the payload of one drag gesture.
type DataTransfer struct {
	types []string
	data  map[string]string

	EffectAllowed string
	DropEffect    string
}

// NewDataTransfer returns an empty transfer.
func NewDataTransfer() *DataTransfer {
	return &DataTransfer{data: map[string]string{}, EffectAllowed: "all", DropEffect: "none"}
}

// SetData stores value under format.
func (t *DataTransfer) SetData(format, value string) {
	if _, ok := t.data[format]; !ok {
		t.types = append(t.types, format)
	}
	t.data[format] = value
}

// GetData returns the value stored under format.
func (t *DataTransfer) GetData(format string) string {
	if t == nil {
		return ""
	}
	return t.data[format]
}

// Types returns stored formats in insertion order.
func (t *DataTransfer) Types() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.types...)
}

// FirstType returns the first stored format or "".
func (t *DataTransfer) FirstType() string {
	if t == nil || len(t.types) == 0 {
		return ""
	}
	return t.types[0]
}
