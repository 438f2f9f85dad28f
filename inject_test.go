package sketchpad

import "testing"

func TestInjectClick(t *testing.T) {
	e := newTestEngine()
	e.Scene().Add(rect("a", 0, 0, 100, 100))

	e.InjectClick(50, 50)
	if e.PendingInjected() != 2 {
		t.Fatalf("expected 2 queued events, got %d", e.PendingInjected())
	}

	// Frame 1: press
	e.Update(0)
	if e.PendingInjected() != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", e.PendingInjected())
	}
	if e.State() != ActionMoving {
		t.Errorf("state after press = %s, want moving", e.State())
	}

	// Frame 2: release
	e.Update(0)
	if e.PendingInjected() != 0 {
		t.Fatalf("expected 0 remaining events after frame 2, got %d", e.PendingInjected())
	}
	if e.State() != ActionNone || !e.Scene().IsSelected("a") {
		t.Error("click should leave a selected and the engine idle")
	}
}

func TestInjectDrag(t *testing.T) {
	e := newTestEngine()
	e.SetTool(ToolRectangle)

	// frame 0: press at (10,10)
	// frames 1-3: moves, the last one at (200,200)
	// frame 4: release at (200,200)
	e.InjectDrag(10, 10, 200, 200, 5)
	if e.PendingInjected() != 5 {
		t.Fatalf("expected 5 queued events, got %d", e.PendingInjected())
	}
	var states []Action
	e.On(EventStateChanged, func(ev Event) { states = append(states, ev.State) })

	for range 5 {
		e.Update(1.0 / 60)
	}

	if len(states) != 2 || states[0] != ActionDrawing || states[1] != ActionNone {
		t.Errorf("states = %v, want [drawing none]", states)
	}
	comps := e.Scene().Components()
	if len(comps) != 1 || comps[0].Geometry() != (Geometry{X: 10, Y: 10, Width: 190, Height: 190}) {
		t.Errorf("drawn = %v", comps)
	}
}

func TestInjectDrag_MinFrames(t *testing.T) {
	for _, frames := range []int{0, 2} {
		e := newTestEngine()
		e.InjectDrag(0, 0, 100, 50, frames) // clamps to 3
		if e.PendingInjected() != 3 {
			t.Fatalf("frames=%d: expected 3 queued events (clamped), got %d", frames, e.PendingInjected())
		}
		mv := e.injectQueue[1]
		if mv.kind != synthMove || mv.x != 100 || mv.y != 50 {
			t.Errorf("frames=%d: event 1 = %+v, want a move onto the target", frames, mv)
		}
	}
}

func TestInjectDrag_ShortDragDraws(t *testing.T) {
	e := newTestEngine()
	e.SetTool(ToolRectangle)
	e.InjectDrag(100, 100, 250, 180, 2)
	for range 3 {
		e.Update(0)
	}
	comps := e.Scene().Components()
	if len(comps) != 1 || comps[0].Geometry() != (Geometry{X: 100, Y: 100, Width: 150, Height: 80}) {
		t.Errorf("drawn = %v, want one 150x80 rectangle", comps)
	}
}

func TestInjectQueueOrder(t *testing.T) {
	e := newTestEngine()

	e.InjectPress(10, 20)
	e.InjectMove(30, 40)
	e.InjectRelease(50, 60)
	e.InjectWheel(70, 80, -1)

	want := []struct {
		kind syntheticKind
		x    float64
	}{
		{synthPress, 10}, {synthMove, 30}, {synthRelease, 50}, {synthWheel, 70},
	}
	if len(e.injectQueue) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(e.injectQueue))
	}
	for i, w := range want {
		if got := e.injectQueue[i]; got.kind != w.kind || got.x != w.x {
			t.Errorf("event %d = %+v, want kind %d at x=%v", i, got, w.kind, w.x)
		}
	}
	if e.injectQueue[3].wheelDY != -1 {
		t.Error("wheel delta lost")
	}
}

func TestProcessInjectedInput(t *testing.T) {
	e := newTestEngine()
	e.InjectPressWith(50, 50, MouseButtonRight, 0)
	if !e.processInjectedInput() {
		t.Error("expected processInjectedInput to consume an event")
	}
	if e.State() != ActionPanning {
		t.Errorf("right press state = %s, want panning", e.State())
	}
	if e.PendingInjected() != 0 {
		t.Errorf("queue should be empty, got %d", e.PendingInjected())
	}
}

func TestProcessInjectedInput_EmptyQueue(t *testing.T) {
	e := newTestEngine()
	if e.processInjectedInput() {
		t.Error("should not consume when queue is empty")
	}
}

func TestInjectWithViewport(t *testing.T) {
	e := newTestEngine()
	a := rect("a", 100, 100, 50, 50)
	e.Scene().Add(a)
	e.Viewport().ZoomAt(2, 0, 0)
	e.Viewport().PanBy(-100, -100)

	// World (125,125) is at screen (150,150).
	e.InjectDrag(150, 150, 170, 150, 3)
	for range 3 {
		e.Update(0)
	}
	if a.X != 110 {
		t.Errorf("a.X = %v, want 110 (20 screen px at zoom 2)", a.X)
	}
}

func TestInjectWheel(t *testing.T) {
	e := newTestEngine()
	e.InjectWheel(0, 0, 1)
	e.Update(0)
	if !approxEqual(e.Viewport().Zoom, 1.1, 1e-9) {
		t.Errorf("Zoom = %v, want 1.1", e.Viewport().Zoom)
	}
}
