package sketchpad

// EventType identifies a kind of engine change notification.
type EventType uint8

const (
	EventComponentAdded   EventType = iota // components inserted (drawn, grouped or batch)
	EventComponentUpdated                  // geometry, style or grouping changed
	EventComponentDeleted                  // components removed
	EventSelectionChanged                  // the selected id list changed
	EventViewportChanged                   // zoom or pan changed
	EventStateChanged                      // the manipulation state changed
	EventPathCommitted                     // a freehand path finished
	numEventTypes
)

// Event carries change data to listeners. Only the fields relevant to Type
// are set.
type Event struct {
	Type EventType
	// IDs lists affected components, or the full selection for
	// EventSelectionChanged.
	IDs []string
	// State is the new manipulation state (EventStateChanged).
	State Action
	// Zoom, PanX and PanY describe the viewport (EventViewportChanged).
	Zoom, PanX, PanY float64
	// Path is the committed freehand path in world units (EventPathCommitted).
	Path []Vec2
}

// EventStore is the interface for optional ECS integration. When set on an
// Engine, every event is forwarded to it after the registered callbacks.
type EventStore interface {
	EmitEvent(event Event)
}

type eventHandler struct {
	id uint32
	fn func(Event)
}

type handlerRegistry struct {
	byType [numEventTypes][]eventHandler
	nextID uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil || h.event >= numEventTypes {
		return
	}
	s := h.reg.byType[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = eventHandler{}
			h.reg.byType[h.event] = s[:len(s)-1]
			return
		}
	}
}

// On registers fn to be called for every event of the given type.
func (e *Engine) On(t EventType, fn func(Event)) CallbackHandle {
	if t >= numEventTypes || fn == nil {
		return CallbackHandle{}
	}
	e.handlers.nextID++
	id := e.handlers.nextID
	e.handlers.byType[t] = append(e.handlers.byType[t], eventHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &e.handlers, event: t}
}

// SetEventStore sets the optional ECS bridge.
func (e *Engine) SetEventStore(store EventStore) {
	e.store = store
}

// emit dispatches an event to callbacks, then to the store.
func (e *Engine) emit(ev Event) {
	if ev.Type >= numEventTypes {
		return
	}
	for _, h := range e.handlers.byType[ev.Type] {
		h.fn(ev)
	}
	if e.store != nil {
		e.store.EmitEvent(ev)
	}
}

// emitViewport reports the current viewport transform.
func (e *Engine) emitViewport() {
	v := e.viewport
	e.emit(Event{Type: EventViewportChanged, Zoom: v.Zoom, PanX: v.PanX, PanY: v.PanY})
}
