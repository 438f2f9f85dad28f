package sketchpad

type syntheticKind uint8

const (
	synthPress syntheticKind = iota
	synthMove
	synthRelease
	synthWheel
)

// syntheticEvent represents a single injected input event. Screen
// coordinates are used (matching what an automated tester sees in
// snapshots) and converted through the viewport exactly like real input.
type syntheticEvent struct {
	kind    syntheticKind
	x, y    float64
	button  MouseButton
	mods    KeyModifiers
	wheelDY float64
}

// InjectPress queues a left-button press at the given screen coordinates.
// The event is consumed on the next Update.
func (e *Engine) InjectPress(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: synthPress, x: x, y: y})
}

// InjectPressWith queues a press with an explicit button and modifiers.
func (e *Engine) InjectPressWith(x, y float64, button MouseButton, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{
		kind: synthPress, x: x, y: y, button: button, mods: mods,
	})
}

// InjectMove queues a pointer move at the given screen coordinates. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (e *Engine) InjectMove(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: synthMove, x: x, y: y})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (e *Engine) InjectRelease(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: synthRelease, x: x, y: y})
}

// InjectWheel queues a wheel event at the given screen coordinates.
func (e *Engine) InjectWheel(x, y, dy float64) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: synthWheel, x: x, y: y, wheelDY: dy})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two frames.
func (e *Engine) InjectClick(x, y float64) {
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// frames-3 linearly interpolated moves, a final move onto (toX, toY), and
// release there. The total sequence consumes `frames` frames.
// Minimum frames is 3 (press + move + release).
func (e *Engine) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 3 {
		frames = 3
	}
	e.InjectPress(fromX, fromY)
	steps := frames - 3
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		e.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	e.InjectMove(toX, toY)
	e.InjectRelease(toX, toY)
}

// PendingInjected returns the number of queued synthetic events.
func (e *Engine) PendingInjected() int { return len(e.injectQueue) }

// processInjectedInput pops one event from the inject queue and feeds it to
// the pointer state machine. Returns true if an event was consumed, in which
// case the host skips real mouse input for the frame.
func (e *Engine) processInjectedInput() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	evt := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	pe := PointerEvent{X: evt.x, Y: evt.y, Button: evt.button, Modifiers: evt.mods, Source: SourceMouse}
	switch evt.kind {
	case synthPress:
		e.PointerDown(pe)
	case synthMove:
		e.PointerMove(pe)
	case synthRelease:
		e.PointerUp(pe)
	case synthWheel:
		e.Wheel(WheelEvent{X: evt.x, Y: evt.y, DeltaY: evt.wheelDY})
	}
	return true
}
