package sketchpad

import "math"

// Hit is the result of DetectAction.
type Hit struct {
	Action      Action // ActionNone, ActionMoving, ActionResizing or ActionRotating
	ComponentID string
	Handle      Handle // set for ActionResizing and ActionRotating
}

// HitOptions sizes the handle hit boxes for the current view and device.
type HitOptions struct {
	// Zoom converts the pixel sizes below into world units.
	Zoom float64
	// HandleSize is the drawn handle edge length in pixels.
	HandleSize float64
	// TouchTargetSize is the minimum hit edge length in pixels when Touch is
	// set.
	TouchTargetSize float64
	// RotateHandleOffset is the rotate handle's distance above the top edge
	// in pixels.
	RotateHandleOffset float64
	// Touch enlarges handle hit areas to TouchTargetSize.
	Touch bool
}

// hitOptions builds HitOptions from the engine configuration.
func (e *Engine) hitOptions(source PointerSource) HitOptions {
	return HitOptions{
		Zoom:               e.viewport.Zoom,
		HandleSize:         e.cfg.HandleSize,
		TouchTargetSize:    e.cfg.TouchTargetSize,
		RotateHandleOffset: e.cfg.RotateHandleOffset,
		Touch:              source == SourceTouch || e.cfg.MobileMode,
	}
}

// handleOrder is the test order within one component. The rotate handle is
// last so resize handles win where enlarged touch areas overlap it.
var handleOrder = [...]Handle{
	HandleTL, HandleTM, HandleTR,
	HandleML, HandleMR,
	HandleBL, HandleBM, HandleBR,
	HandleRotate,
}

// HandlePoints returns the centers of the nine handles of c in its local
// (unrotated) frame, indexed by Handle. rotateOffset is in world units.
func HandlePoints(c *Component, rotateOffset float64) [HandleRotate + 1]Vec2 {
	b := c.Bounds()
	l, t := b.X, b.Y
	r, btm := b.X+b.Width, b.Y+b.Height
	mx, my := l+b.Width/2, t+b.Height/2

	var pts [HandleRotate + 1]Vec2
	pts[HandleTL] = Vec2{l, t}
	pts[HandleTM] = Vec2{mx, t}
	pts[HandleTR] = Vec2{r, t}
	pts[HandleML] = Vec2{l, my}
	pts[HandleMR] = Vec2{r, my}
	pts[HandleBL] = Vec2{l, btm}
	pts[HandleBM] = Vec2{mx, btm}
	pts[HandleBR] = Vec2{r, btm}
	pts[HandleRotate] = Vec2{mx, t - rotateOffset}
	return pts
}

// handleHalfExtent returns half the hit box edge in world units.
func (o HitOptions) handleHalfExtent() float64 {
	size := o.HandleSize
	if o.Touch {
		size = math.Max(size, o.TouchTargetSize)
	}
	return size / 2 / o.zoom()
}

func (o HitOptions) zoom() float64 {
	if o.Zoom <= 0 || !finite(o.Zoom) {
		return 1
	}
	return o.Zoom
}

// hitHandle returns the first handle of c whose hit box contains the local
// point lp.
func hitHandle(c *Component, lp Vec2, o HitOptions) Handle {
	half := o.handleHalfExtent()
	pts := HandlePoints(c, o.RotateHandleOffset/o.zoom())
	for _, h := range handleOrder {
		p := pts[h]
		if math.Abs(lp.X-p.X) <= half && math.Abs(lp.Y-p.Y) <= half {
			return h
		}
	}
	return HandleNone
}

// DetectAction determines what is under the world point p: a handle of a
// selected unlocked component, the body of any component, or nothing.
// Components are tested topmost first. It has no side effects.
func DetectAction(s *Scene, p Vec2, o HitOptions) Hit {
	comps := s.components

	for i := len(comps) - 1; i >= 0; i-- {
		c := comps[i]
		if c.Locked || !s.IsSelected(c.ID) {
			continue
		}
		h := hitHandle(c, c.WorldToLocal(p), o)
		switch h {
		case HandleNone:
			continue
		case HandleRotate:
			return Hit{Action: ActionRotating, ComponentID: c.ID, Handle: h}
		default:
			return Hit{Action: ActionResizing, ComponentID: c.ID, Handle: h}
		}
	}

	for i := len(comps) - 1; i >= 0; i-- {
		c := comps[i]
		lp := c.WorldToLocal(p)
		if c.Bounds().Contains(lp.X, lp.Y) {
			return Hit{Action: ActionMoving, ComponentID: c.ID}
		}
	}

	return Hit{}
}

// --- Cursors ---

// Cursor is the pointer shape a host should display.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorMove
	CursorResizeNS   // north-south
	CursorResizeEW   // east-west
	CursorResizeNESW // north-east / south-west diagonal
	CursorResizeNWSE // north-west / south-east diagonal
	CursorRotate
	CursorCrosshair
	CursorGrab
	CursorGrabbing
)

// compassCursors maps a compass sector (0 = north, clockwise in 45° steps)
// to the resize cursor pointing along it.
var compassCursors = [8]Cursor{
	CursorResizeNS, CursorResizeNESW, CursorResizeEW, CursorResizeNWSE,
	CursorResizeNS, CursorResizeNESW, CursorResizeEW, CursorResizeNWSE,
}

// handleSector is each resize handle's compass sector on an unrotated shape.
var handleSector = [...]int{
	HandleTM: 0, HandleTR: 1, HandleMR: 2, HandleBR: 3,
	HandleBM: 4, HandleBL: 5, HandleML: 6, HandleTL: 7,
}

// CursorFor returns the cursor for a handle on a shape rotated by rotation
// degrees, so the resize arrows follow the handle's on-screen direction.
func CursorFor(h Handle, rotation float64) Cursor {
	switch h {
	case HandleNone:
		return CursorDefault
	case HandleRotate:
		return CursorRotate
	}
	angle := normalizeDeg(rotation)
	sector := int(math.Round(angle/45)) % 8
	return compassCursors[(handleSector[h]+sector)%8]
}
