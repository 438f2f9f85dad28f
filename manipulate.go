package sketchpad

import "math"

// snapshot is a component's geometry captured at drag start.
type snapshot struct {
	id  string
	geo Geometry
}

// interaction is the transient state of one manipulation gesture. It is
// cleared whenever the state machine returns to ActionNone.
type interaction struct {
	start      Vec2 // world point at pointer-down
	lastScreen Vec2
	source     PointerSource
	handle     Handle
	// offsets maps each moving id to (start - position) at drag start.
	offsets map[string]Vec2
	// snapshots holds pre-drag geometry, primary target first.
	snapshots []snapshot
}

func (ix *interaction) reset() {
	*ix = interaction{}
}

// captureSnapshots records the geometry of target followed by every other
// component in ids (z-order).
func (ix *interaction) captureSnapshots(s *Scene, target string, ids []string) {
	ix.snapshots = ix.snapshots[:0]
	if c, ok := s.Component(target); ok {
		ix.snapshots = append(ix.snapshots, snapshot{id: c.ID, geo: c.Geometry()})
	}
	for _, id := range ids {
		if id == target {
			continue
		}
		if c, ok := s.Component(id); ok {
			ix.snapshots = append(ix.snapshots, snapshot{id: id, geo: c.Geometry()})
		}
	}
}

// captureOffsets records, for every id, the vector from the component's
// position to the drag start point.
func (ix *interaction) captureOffsets(s *Scene, ids []string) {
	ix.offsets = make(map[string]Vec2, len(ids))
	for _, id := range ids {
		if c, ok := s.Component(id); ok {
			ix.offsets[id] = Vec2{ix.start.X - c.X, ix.start.Y - c.Y}
		}
	}
}

// movedGeometry places g so that its top-left is at p - offset.
func movedGeometry(g Geometry, p, offset Vec2) Geometry {
	g.X = p.X - offset.X
	g.Y = p.Y - offset.Y
	return g
}

// resizedGeometry drags the edges selected by h of the original geometry by
// the pointer movement from start to current, measured along the shape's own
// axes. The rotation is unchanged and the shape stays anchored on the
// opposite edges. ok is false when the result would not have positive size.
func resizedGeometry(orig Geometry, h Handle, start, current Vec2) (Geometry, bool) {
	b := orig.Bounds()
	center := b.Center()
	ls := rotateAround(start, center, -orig.Rotation)
	lc := rotateAround(current, center, -orig.Rotation)
	rdx, rdy := lc.X-ls.X, lc.Y-ls.Y

	x, y, w, hgt := b.X, b.Y, b.Width, b.Height
	edges := h.edges()
	if edges&edgeLeft != 0 {
		x += rdx
		w -= rdx
	}
	if edges&edgeRight != 0 {
		w += rdx
	}
	if edges&edgeTop != 0 {
		y += rdy
		hgt -= rdy
	}
	if edges&edgeBottom != 0 {
		hgt += rdy
	}
	if w <= 0 || hgt <= 0 || !finite(w) || !finite(hgt) {
		return orig, false
	}

	localCenter := Vec2{x + w/2, y + hgt/2}
	finalCenter := rotateAround(localCenter, center, orig.Rotation)
	return Geometry{
		X:        finalCenter.X - w/2,
		Y:        finalCenter.Y - hgt/2,
		Width:    w,
		Height:   hgt,
		Rotation: orig.Rotation,
	}, true
}

// rotatedGeometry turns the original geometry by the angle swept by the
// pointer around its center. With snap > 0 the result is rounded to a
// multiple of snap degrees.
func rotatedGeometry(orig Geometry, start, current Vec2, snap float64) Geometry {
	center := orig.Center()
	startAngle := angleDeg(start, center)
	currentAngle := angleDeg(current, center)
	rot := orig.Rotation + (currentAngle - startAngle)
	if snap > 0 {
		rot = math.Round(rot/snap) * snap
	}
	orig.Rotation = rot
	return orig
}

// --- State machine move handlers ---

// applyMove positions every captured component at p minus its offset.
func (e *Engine) applyMove(p Vec2) {
	ids := make([]string, 0, len(e.ix.offsets))
	for _, snap := range e.ix.snapshots {
		c, ok := e.scene.Component(snap.id)
		if !ok {
			continue
		}
		off, ok := e.ix.offsets[snap.id]
		if !ok {
			continue
		}
		g := movedGeometry(c.Geometry(), p, off)
		if g != c.Geometry() {
			c.setGeometry(g)
			ids = append(ids, c.ID)
		}
	}
	if len(ids) > 0 {
		e.emit(Event{Type: EventComponentUpdated, IDs: ids})
	}
}

// applyResize resizes the primary snapshot's component. Frames that would
// collapse the shape are skipped.
func (e *Engine) applyResize(p Vec2) {
	if len(e.ix.snapshots) == 0 {
		return
	}
	snap := e.ix.snapshots[0]
	c, ok := e.scene.Component(snap.id)
	if !ok || c.Locked {
		return
	}
	g, ok := resizedGeometry(snap.geo, e.ix.handle, e.ix.start, p)
	if !ok {
		e.logf("resize of %s skipped: degenerate size", c.ID)
		return
	}
	c.setGeometry(g)
	e.emit(Event{Type: EventComponentUpdated, IDs: []string{c.ID}})
}

// applyRotate rotates the primary snapshot's component.
func (e *Engine) applyRotate(p Vec2, mods KeyModifiers) {
	if len(e.ix.snapshots) == 0 {
		return
	}
	snap := e.ix.snapshots[0]
	c, ok := e.scene.Component(snap.id)
	if !ok || c.Locked {
		return
	}
	var step float64
	if mods&e.cfg.SnapModifier != 0 {
		step = e.cfg.SnapAngle
	}
	c.setGeometry(rotatedGeometry(snap.geo, e.ix.start, p, step))
	e.emit(Event{Type: EventComponentUpdated, IDs: []string{c.ID}})
}

// restoreSnapshots puts every captured component back to its pre-drag
// geometry.
func (e *Engine) restoreSnapshots() {
	ids := make([]string, 0, len(e.ix.snapshots))
	for _, snap := range e.ix.snapshots {
		c, ok := e.scene.Component(snap.id)
		if !ok || c.Geometry() == snap.geo {
			continue
		}
		c.setGeometry(snap.geo)
		ids = append(ids, c.ID)
	}
	if len(ids) > 0 {
		e.emit(Event{Type: EventComponentUpdated, IDs: ids})
	}
}
