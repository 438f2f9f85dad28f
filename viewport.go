package sketchpad

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	defaultMinZoom = 0.1
	defaultMaxZoom = 4.0
)

// zoomAnim holds an active zoom tween and the screen point it is anchored at.
type zoomAnim struct {
	tween  *gween.Tween
	anchor Vec2
}

// Viewport maps between screen pixels and world units. Screen = world*Zoom + Pan.
type Viewport struct {
	// Zoom is the scale factor (1.0 = no zoom), clamped to [MinZoom, MaxZoom].
	Zoom float64
	// PanX and PanY are the screen-space offset of the world origin.
	PanX, PanY float64

	MinZoom, MaxZoom float64

	anim *zoomAnim
}

// NewViewport creates a viewport at zoom 1 with no pan.
func NewViewport() *Viewport {
	return &Viewport{
		Zoom:    1,
		MinZoom: defaultMinZoom,
		MaxZoom: defaultMaxZoom,
	}
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (v *Viewport) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return (sx - v.PanX) / v.Zoom, (sy - v.PanY) / v.Zoom
}

// WorldToScreen converts world coordinates to screen coordinates.
func (v *Viewport) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return wx*v.Zoom + v.PanX, wy*v.Zoom + v.PanY
}

// Matrix returns the world-to-screen affine matrix.
func (v *Viewport) Matrix() [6]float64 {
	return [6]float64{v.Zoom, 0, 0, v.Zoom, v.PanX, v.PanY}
}

// ScreenPointToWorld is ScreenToWorld for a Vec2.
func (v *Viewport) ScreenPointToWorld(p Vec2) Vec2 {
	x, y := v.ScreenToWorld(p.X, p.Y)
	return Vec2{x, y}
}

// clampZoom restricts z to the viewport's zoom range.
func (v *Viewport) clampZoom(z float64) float64 {
	return math.Max(v.MinZoom, math.Min(z, v.MaxZoom))
}

// ZoomAt sets the zoom to z (clamped), keeping the world point under the
// screen point (mx, my) fixed. Non-finite inputs are ignored.
func (v *Viewport) ZoomAt(z, mx, my float64) {
	if !finite(z) || !finite(mx) || !finite(my) || z <= 0 {
		return
	}
	z0 := v.Zoom
	z1 := v.clampZoom(z)
	if z1 == z0 {
		return
	}
	ratio := z1 / z0
	v.PanX = mx - (mx-v.PanX)*ratio
	v.PanY = my - (my-v.PanY)*ratio
	v.Zoom = z1
}

// ZoomBy multiplies the zoom by factor, anchored at (mx, my).
func (v *Viewport) ZoomBy(factor, mx, my float64) {
	v.ZoomAt(v.Zoom*factor, mx, my)
}

// PanBy moves the view by a screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	if !finite(dx) || !finite(dy) {
		return
	}
	v.PanX += dx
	v.PanY += dy
}

// SetPan sets the screen-space pan offset.
func (v *Viewport) SetPan(x, y float64) {
	if !finite(x) || !finite(y) {
		return
	}
	v.PanX, v.PanY = x, y
}

// Reset returns to zoom 1 with no pan and stops any animation.
func (v *Viewport) Reset() {
	v.Zoom = 1
	v.PanX, v.PanY = 0, 0
	v.anim = nil
}

// AnimateZoomTo tweens the zoom to z over duration seconds, anchored at
// the screen point (mx, my). Advanced by Engine.Update.
func (v *Viewport) AnimateZoomTo(z, mx, my float64, duration float32, easeFn ease.TweenFunc) {
	if !finite(z) || z <= 0 {
		return
	}
	if easeFn == nil {
		easeFn = ease.OutCubic
	}
	v.anim = &zoomAnim{
		tween:  gween.New(float32(v.Zoom), float32(v.clampZoom(z)), duration, easeFn),
		anchor: Vec2{mx, my},
	}
}

// Animating reports whether a zoom animation is in progress.
func (v *Viewport) Animating() bool {
	return v.anim != nil
}

// StopAnimation cancels any zoom animation, leaving the current transform.
func (v *Viewport) StopAnimation() {
	v.anim = nil
}

// FitRect zooms and pans so the world rectangle r fills a screen of the given
// size with padding pixels of margin on every side.
func (v *Viewport) FitRect(r Rect, screenW, screenH, padding float64) {
	r = r.Normalize()
	availW := screenW - 2*padding
	availH := screenH - 2*padding
	if r.Empty() || availW <= 0 || availH <= 0 {
		return
	}
	v.anim = nil
	v.Zoom = v.clampZoom(math.Min(availW/r.Width, availH/r.Height))
	c := r.Center()
	v.PanX = screenW/2 - c.X*v.Zoom
	v.PanY = screenH/2 - c.Y*v.Zoom
}

// VisibleBounds returns the world rectangle visible on a screen of the given
// size.
func (v *Viewport) VisibleBounds(screenW, screenH float64) Rect {
	x0, y0 := v.ScreenToWorld(0, 0)
	x1, y1 := v.ScreenToWorld(screenW, screenH)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// update advances the zoom animation. Reports whether the transform changed.
func (v *Viewport) update(dt float32) bool {
	if v.anim == nil {
		return false
	}
	prevZoom, prevX, prevY := v.Zoom, v.PanX, v.PanY
	val, done := v.anim.tween.Update(dt)
	v.ZoomAt(float64(val), v.anim.anchor.X, v.anim.anchor.Y)
	if done {
		v.anim = nil
	}
	return v.Zoom != prevZoom || v.PanX != prevX || v.PanY != prevY
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
