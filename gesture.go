package sketchpad

import (
	"math"
	"time"
)

// touchPoint is one tracked finger.
type touchPoint struct {
	id  int
	pos Vec2
}

// gestureRecognizer tracks up to two touches. One touch is forwarded to the
// pointer state machine; two touches in mobile mode form a pinch that pans
// and zooms the viewport.
type gestureRecognizer struct {
	touches []touchPoint
	primary int

	pinching bool
	limiter  throttle
	// pending is set when finger positions changed since the last frame.
	pending bool

	// Previous accepted frame.
	baseline   bool
	prevDist   float64
	prevCenter Vec2

	// Viewport and time at pinch start, for reverting accidental pinches.
	started                   time.Time
	startZoom, startX, startY float64
}

func newGestureRecognizer(cfg Config) gestureRecognizer {
	return gestureRecognizer{limiter: newThrottle(cfg.GestureRate)}
}

func (g *gestureRecognizer) find(id int) int {
	for i, t := range g.touches {
		if t.id == id {
			return i
		}
	}
	return -1
}

func (g *gestureRecognizer) remove(i int) {
	g.touches = append(g.touches[:i], g.touches[i+1:]...)
}

// span returns the finger distance and midpoint of the two tracked touches.
func (g *gestureRecognizer) span() (float64, Vec2) {
	a, b := g.touches[0].pos, g.touches[1].pos
	return b.Sub(a).Len(), Vec2{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// Pinching reports whether a two-finger gesture is in progress.
func (e *Engine) Pinching() bool { return e.touch.pinching }

// TouchStart registers a new finger at a screen point.
func (e *Engine) TouchStart(id int, x, y float64, t time.Time) {
	g := &e.touch
	if g.find(id) >= 0 {
		return
	}
	t = e.eventTime(t)
	switch len(g.touches) {
	case 0:
		g.touches = append(g.touches, touchPoint{id: id, pos: Vec2{x, y}})
		g.primary = id
		e.PointerDown(PointerEvent{X: x, Y: y, Button: MouseButtonLeft, Source: SourceTouch, Time: t})
	case 1:
		if !e.cfg.MobileMode {
			return
		}
		g.touches = append(g.touches, touchPoint{id: id, pos: Vec2{x, y}})
		e.beginPinch(t)
	}
}

// beginPinch aborts the single-finger gesture and starts a pinch.
func (e *Engine) beginPinch(t time.Time) {
	g := &e.touch
	if e.state != ActionNone {
		e.Cancel()
	}
	v := e.viewport
	v.StopAnimation()
	g.pinching = true
	g.pending = false
	g.started = t
	g.startZoom, g.startX, g.startY = v.Zoom, v.PanX, v.PanY
	g.limiter.reset()
	g.limiter.allow(t)
	g.prevDist, g.prevCenter = g.span()
	g.baseline = g.prevDist >= e.cfg.MinPinchDistance
	e.setState(ActionPanning)
	e.logf("pinch start dist=%.1f", g.prevDist)
}

// TouchMove updates a finger position.
func (e *Engine) TouchMove(id int, x, y float64, t time.Time) {
	g := &e.touch
	i := g.find(id)
	if i < 0 {
		return
	}
	t = e.eventTime(t)
	g.touches[i].pos = Vec2{x, y}
	if g.pinching {
		g.pending = true
		if g.limiter.allow(t) {
			e.pinchFrame()
		}
		return
	}
	if id == g.primary {
		e.PointerMove(PointerEvent{X: x, Y: y, Button: MouseButtonLeft, Source: SourceTouch, Time: t})
	}
}

// TouchEnd lifts a finger.
func (e *Engine) TouchEnd(id int, x, y float64, t time.Time) {
	e.endTouch(id, x, y, e.eventTime(t), false)
}

// TouchCancel aborts a finger, for example when the OS takes over the touch.
// The single-finger gesture is cancelled rather than committed.
func (e *Engine) TouchCancel(id int, x, y float64, t time.Time) {
	e.endTouch(id, x, y, e.eventTime(t), true)
}

func (e *Engine) endTouch(id int, x, y float64, t time.Time, cancel bool) {
	g := &e.touch
	i := g.find(id)
	if i < 0 {
		return
	}
	g.touches[i].pos = Vec2{x, y}

	if g.pinching {
		if g.pending && !cancel {
			e.pinchFrame()
		}
		g.pinching = false
		g.pending = false
		if cancel || t.Sub(g.started) < e.cfg.MinGestureDuration {
			e.revertPinch()
		}
		g.remove(i)
		// The remaining finger keeps panning.
		rest := g.touches[0]
		g.primary = rest.id
		e.ix.reset()
		e.ix.lastScreen = rest.pos
		e.ix.source = SourceTouch
		return
	}

	g.remove(i)
	if id != g.primary {
		return
	}
	if cancel {
		e.Cancel()
		return
	}
	e.PointerUp(PointerEvent{X: x, Y: y, Button: MouseButtonLeft, Source: SourceTouch, Time: t})
}

// revertPinch restores the viewport captured when the pinch began.
func (e *Engine) revertPinch() {
	g := &e.touch
	v := e.viewport
	if v.Zoom == g.startZoom && v.PanX == g.startX && v.PanY == g.startY {
		return
	}
	e.logf("pinch reverted after %s", e.now().Sub(g.started))
	v.Zoom, v.PanX, v.PanY = g.startZoom, g.startX, g.startY
	e.emitViewport()
}

// pinchFrame applies the finger movement since the last accepted frame:
// pan by the midpoint delta, then zoom by the distance ratio about the
// midpoint.
func (e *Engine) pinchFrame() {
	g := &e.touch
	g.pending = false
	if len(g.touches) < 2 {
		return
	}
	dist, center := g.span()
	if dist < e.cfg.MinPinchDistance || !finite(dist) {
		e.logf("pinch frame dropped: distance %.1f", dist)
		g.baseline = false
		return
	}
	if !g.baseline {
		g.baseline = true
		g.prevDist, g.prevCenter = dist, center
		return
	}
	ratio := dist / g.prevDist
	if ratio > e.cfg.MaxPinchStep || ratio < 1/e.cfg.MaxPinchStep || math.IsNaN(ratio) {
		e.logf("pinch frame dropped: ratio %.2f", ratio)
		g.prevDist, g.prevCenter = dist, center
		return
	}

	v := e.viewport
	v.PanBy(center.X-g.prevCenter.X, center.Y-g.prevCenter.Y)
	v.ZoomAt(v.Zoom*ratio, center.X, center.Y)
	g.prevDist, g.prevCenter = dist, center
	e.emitViewport()
}

// flushPinch processes finger movement buffered by the throttle once the
// interval has passed. Called from Update.
func (e *Engine) flushPinch(now time.Time) {
	g := &e.touch
	if !g.pinching || !g.pending {
		return
	}
	if g.limiter.allow(now) {
		e.pinchFrame()
	}
}
