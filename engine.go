package sketchpad

import (
	"math"
	"time"
)

// PointerEvent is one pointer sample from the host, in screen pixels.
type PointerEvent struct {
	X, Y      float64
	Button    MouseButton
	Modifiers KeyModifiers
	Source    PointerSource
	// Time is the sample timestamp. The engine clock is used when zero.
	Time time.Time
}

// WheelEvent is a scroll wheel notch (or fraction of one) at a screen point.
// Positive DeltaY scrolls up and zooms in.
type WheelEvent struct {
	X, Y      float64
	DeltaY    float64
	Modifiers KeyModifiers
}

// Engine turns pointer, touch and wheel input into edits of a Scene. It owns
// the viewport, the manipulation state machine, the gesture recognizer and
// the drawing pipeline. All methods must be called from one goroutine.
type Engine struct {
	cfg      Config
	scene    *Scene
	viewport *Viewport
	tool     Tool

	state   Action
	ix      interaction
	drawing drawPipeline
	touch   gestureRecognizer

	handlers handlerRegistry
	store    EventStore
	debug    bool

	// Synthetic input and scripted runs.
	injectQueue []syntheticEvent
	testRunner  *TestRunner
	// SnapshotDir is where scripted snapshots are written.
	SnapshotDir string
	// SnapshotWidth and SnapshotHeight size scripted snapshots.
	SnapshotWidth, SnapshotHeight int

	now func() time.Time
}

// NewEngine creates an engine with an empty scene. Zero fields in cfg take
// their DefaultConfig values.
func NewEngine(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:            cfg,
		scene:          NewScene(),
		viewport:       NewViewport(),
		drawing:        newDrawPipeline(cfg),
		SnapshotDir:    "snapshots",
		SnapshotWidth:  800,
		SnapshotHeight: 600,
		now:            time.Now,
	}
	e.viewport.MinZoom, e.viewport.MaxZoom = cfg.MinZoom, cfg.MaxZoom
	e.touch = newGestureRecognizer(cfg)
	e.scene.notify = e.emit
	return e
}

// Scene returns the engine's scene model.
func (e *Engine) Scene() *Scene { return e.scene }

// Viewport returns the engine's viewport.
func (e *Engine) Viewport() *Viewport { return e.viewport }

// Config returns the active configuration.
func (e *Engine) Config() Config { return e.cfg }

// State returns the current manipulation state.
func (e *Engine) State() Action { return e.state }

// ActiveHandle returns the handle being dragged while resizing or rotating.
func (e *Engine) ActiveHandle() Handle { return e.ix.handle }

// Tool returns the active tool.
func (e *Engine) Tool() Tool { return e.tool }

// SetTool changes the active tool. An in-progress gesture is finished first.
func (e *Engine) SetTool(t Tool) {
	if t == e.tool {
		return
	}
	if e.state != ActionNone {
		e.Cancel()
	}
	e.tool = t
}

// SetTheme changes the theme used for newly drawn components.
func (e *Engine) SetTheme(t Theme) { e.cfg.Theme = t }

// SetMobileMode toggles touch-sized handles and two-finger gestures.
func (e *Engine) SetMobileMode(on bool) { e.cfg.MobileMode = on }

// Preview returns the live shape preview while a shape tool is drawing, or
// nil. Its dimensions may be negative.
func (e *Engine) Preview() *Component { return e.drawing.preview }

// CurrentPath returns the freehand path being drawn, or nil.
func (e *Engine) CurrentPath() []Vec2 { return e.drawing.path }

// DrawnPaths returns all finished freehand paths in world units.
func (e *Engine) DrawnPaths() [][]Vec2 { return e.drawing.paths }

// ClearDrawnPaths discards every finished freehand path.
func (e *Engine) ClearDrawnPaths() { e.drawing.paths = nil }

// eventTime returns t, or the engine clock when t is zero.
func (e *Engine) eventTime(t time.Time) time.Time {
	if t.IsZero() {
		return e.now()
	}
	return t
}

func (e *Engine) setState(a Action) {
	if e.state == a {
		return
	}
	e.logf("state %s -> %s", e.state, a)
	e.state = a
	e.emit(Event{Type: EventStateChanged, State: a})
}

// HitTest runs DetectAction at a screen point.
func (e *Engine) HitTest(sx, sy float64, source PointerSource) Hit {
	return DetectAction(e.scene, e.viewport.ScreenPointToWorld(Vec2{sx, sy}), e.hitOptions(source))
}

// --- Pointer lifecycle ---

// PointerDown starts a gesture. It is ignored while another gesture is in
// progress.
func (e *Engine) PointerDown(ev PointerEvent) {
	if e.state != ActionNone {
		return
	}
	now := e.eventTime(ev.Time)
	wp := e.viewport.ScreenPointToWorld(Vec2{ev.X, ev.Y})

	e.ix.reset()
	e.ix.start = wp
	e.ix.lastScreen = Vec2{ev.X, ev.Y}
	e.ix.source = ev.Source

	if ev.Button != MouseButtonLeft || ev.Modifiers&e.cfg.PanModifier != 0 {
		e.setState(ActionPanning)
		return
	}

	switch e.tool {
	case ToolSelect:
		e.beginSelect(wp, ev)
	case ToolPen:
		e.drawing.beginPath(wp, ev.Source, now)
		e.setState(ActionDrawing)
	case ToolErase:
	default:
		kind, _ := e.tool.ShapeKind()
		e.drawing.beginShape(kind, wp, e.cfg.Theme)
		e.setState(ActionDrawing)
	}
}

// beginSelect handles pointer-down with the select tool.
func (e *Engine) beginSelect(wp Vec2, ev PointerEvent) {
	s := e.scene
	hit := DetectAction(s, wp, e.hitOptions(ev.Source))
	if hit.Action == ActionNone {
		s.ClearSelection()
		e.setState(ActionPanning)
		return
	}

	multi := ev.Modifiers&e.cfg.MultiSelectModifier != 0
	target, ok := s.Component(hit.ComponentID)
	if !ok {
		return
	}
	if target.Locked {
		e.selectOnly(target.ID, multi)
		return
	}

	if !s.IsSelected(target.ID) {
		if multi {
			s.AddToSelection(target.ID)
		} else {
			s.SetSelection(target.ID)
		}
	}

	eff := s.orderedIDs(s.EffectiveSelection())
	if hit.Action == ActionMoving {
		for _, id := range eff {
			if c, _ := s.Component(id); c.Locked {
				e.logf("move blocked: %s is locked", id)
				return
			}
		}
		e.ix.captureOffsets(s, eff)
	}
	e.ix.captureSnapshots(s, target.ID, eff)
	e.ix.handle = hit.Handle
	e.setState(hit.Action)
}

// selectOnly is the reduced interaction for locked targets.
func (e *Engine) selectOnly(id string, multi bool) {
	if multi {
		e.scene.ToggleSelection(id)
		return
	}
	e.scene.SetSelection(id)
}

// PointerMove advances the current gesture. It is ignored when idle.
func (e *Engine) PointerMove(ev PointerEvent) {
	if e.state == ActionNone {
		return
	}
	now := e.eventTime(ev.Time)
	wp := e.viewport.ScreenPointToWorld(Vec2{ev.X, ev.Y})

	switch e.state {
	case ActionDrawing:
		if e.tool == ToolPen {
			e.drawing.addPoint(wp, now)
		} else {
			e.drawing.updateShape(wp)
		}
	case ActionPanning:
		dx, dy := ev.X-e.ix.lastScreen.X, ev.Y-e.ix.lastScreen.Y
		if dx != 0 || dy != 0 {
			e.viewport.PanBy(dx, dy)
			e.emitViewport()
		}
	case ActionMoving:
		e.applyMove(wp)
	case ActionResizing:
		e.applyResize(wp)
	case ActionRotating:
		e.applyRotate(wp, ev.Modifiers)
	}
	e.ix.lastScreen = Vec2{ev.X, ev.Y}
}

// PointerUp finishes the current gesture. It is safe to call at any time,
// including for releases outside the canvas; when idle it does nothing.
func (e *Engine) PointerUp(ev PointerEvent) {
	if e.state == ActionNone {
		return
	}
	if e.state == ActionDrawing {
		if e.tool == ToolPen {
			e.commitPath()
		} else {
			e.commitShape()
		}
	}
	e.ix.reset()
	e.setState(ActionNone)
}

// commitPath moves the live path to the drawn paths.
func (e *Engine) commitPath() {
	path := e.drawing.endPath()
	if path == nil {
		return
	}
	e.emit(Event{Type: EventPathCommitted, Path: path})
}

// commitShape turns the preview into a component if it is large enough.
func (e *Engine) commitShape() {
	c, ok := e.drawing.endShape()
	if !ok {
		return
	}
	if c.Width <= e.cfg.MinCommitSize || c.Height <= e.cfg.MinCommitSize {
		e.logf("shape %.1fx%.1f below commit size, discarded", c.Width, c.Height)
		return
	}
	if e.scene.Add(c) { // assigns the id
		e.scene.SetSelection(c.ID)
	}
}

// Cancel abandons the current gesture: manipulated components return to
// their pre-drag geometry, previews and live paths are discarded.
func (e *Engine) Cancel() {
	switch e.state {
	case ActionNone:
		return
	case ActionMoving, ActionResizing, ActionRotating:
		e.restoreSnapshots()
	case ActionDrawing:
		e.drawing.abortPath()
		e.drawing.preview = nil
	}
	e.ix.reset()
	e.setState(ActionNone)
}

// Wheel zooms anchored at the wheel position.
func (e *Engine) Wheel(ev WheelEvent) {
	if ev.DeltaY == 0 || !finite(ev.DeltaY) {
		return
	}
	v := e.viewport
	v.StopAnimation()
	before := v.Zoom
	v.ZoomBy(math.Pow(e.cfg.WheelZoomStep, ev.DeltaY), ev.X, ev.Y)
	if v.Zoom != before {
		e.emitViewport()
	}
}

// Update advances time-based work: zoom animations, buffered pinch samples,
// injected input and the attached test runner. Call once per frame with the
// frame duration in seconds.
func (e *Engine) Update(dt float64) {
	if e.testRunner != nil {
		e.testRunner.step(e)
	}
	e.processInjectedInput()
	if e.viewport.update(float32(dt)) {
		e.emitViewport()
	}
	e.flushPinch(e.now())
}

// CursorAt returns the cursor to show for the pointer at a screen point.
func (e *Engine) CursorAt(sx, sy float64, source PointerSource) Cursor {
	switch e.state {
	case ActionPanning:
		return CursorGrabbing
	case ActionMoving:
		return CursorMove
	case ActionDrawing:
		return CursorCrosshair
	case ActionResizing, ActionRotating:
		if len(e.ix.snapshots) > 0 {
			if c, ok := e.scene.Component(e.ix.snapshots[0].id); ok {
				return CursorFor(e.ix.handle, c.Rotation)
			}
		}
		return CursorDefault
	}

	if e.tool != ToolSelect {
		if _, ok := e.tool.ShapeKind(); ok || e.tool == ToolPen {
			return CursorCrosshair
		}
		return CursorDefault
	}
	hit := e.HitTest(sx, sy, source)
	switch hit.Action {
	case ActionResizing, ActionRotating:
		c, _ := e.scene.Component(hit.ComponentID)
		return CursorFor(hit.Handle, c.Rotation)
	case ActionMoving:
		return CursorMove
	}
	return CursorDefault
}

// --- Scene commands for host UI ---

// DeleteSelected deletes the selection, cascading through groups.
func (e *Engine) DeleteSelected() []string {
	if e.state != ActionNone {
		e.Cancel()
	}
	return e.scene.DeleteSelected()
}

// GroupSelected groups the selection. See Scene.GroupSelected.
func (e *Engine) GroupSelected() (string, bool) {
	if e.state != ActionNone {
		e.Cancel()
	}
	return e.scene.GroupSelected()
}

// UngroupSelected dissolves every selected group.
func (e *Engine) UngroupSelected() int {
	if e.state != ActionNone {
		e.Cancel()
	}
	return e.scene.UngroupSelected()
}

// InsertComponents adds a batch of fully formed components, for example from
// a prefab library, and selects the top-level ones. Returns the number
// inserted.
func (e *Engine) InsertComponents(batch []*Component) int {
	n := e.scene.AddBatch(batch)
	if n == 0 {
		return 0
	}
	var top []string
	for _, c := range batch {
		if c == nil || c.GroupID != "" {
			continue
		}
		if got, ok := e.scene.Component(c.ID); ok && got == c {
			top = append(top, c.ID)
		}
	}
	e.scene.SetSelection(top...)
	return n
}

// NudgeSelection moves every effectively selected, unlocked component by
// (dx, dy) world units.
func (e *Engine) NudgeSelection(dx, dy float64) {
	if e.state != ActionNone || (dx == 0 && dy == 0) {
		return
	}
	var ids []string
	for _, id := range e.scene.orderedIDs(e.scene.EffectiveSelection()) {
		c, _ := e.scene.Component(id)
		if c.Locked {
			continue
		}
		g := c.Geometry()
		g.X += dx
		g.Y += dy
		c.setGeometry(g)
		ids = append(ids, id)
	}
	if len(ids) > 0 {
		e.emit(Event{Type: EventComponentUpdated, IDs: ids})
	}
}

// ZoomToFit animates the viewport to show every component on a screen of the
// given size.
func (e *Engine) ZoomToFit(screenW, screenH, padding float64) {
	comps := e.scene.Components()
	if len(comps) == 0 {
		return
	}
	box := comps[0].AABB()
	for _, c := range comps[1:] {
		box = box.Union(c.AABB())
	}
	e.viewport.FitRect(box, screenW, screenH, padding)
	e.emitViewport()
}
