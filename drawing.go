package sketchpad

import "time"

// drawPipeline records the live freehand path and the live shape preview
// while the state machine is in ActionDrawing.
type drawPipeline struct {
	// Freehand
	path      []Vec2
	pending   []Vec2 // touch/pen samples held back by the limiter
	smoothed  Vec2
	source    PointerSource
	limiter   throttle
	smoothing float64

	// Shape preview
	shapeKind ComponentKind
	preview   *Component
	anchor    Vec2

	// committed freehand paths, oldest first
	paths [][]Vec2
}

func newDrawPipeline(cfg Config) drawPipeline {
	return drawPipeline{
		limiter:   newThrottle(cfg.DrawRate),
		smoothing: cfg.SmoothingFactor,
	}
}

// beginPath starts a new freehand path at p.
func (d *drawPipeline) beginPath(p Vec2, source PointerSource, now time.Time) {
	d.path = append(d.path[:0:0], p)
	d.pending = d.pending[:0]
	d.smoothed = p
	d.source = source
	d.limiter.reset()
	d.limiter.allow(now)
}

// addPoint ingests a pointer sample. Mouse samples are appended raw. Touch
// and pen samples are rate limited, and samples arriving early are buffered
// and merged in with the next admitted one.
func (d *drawPipeline) addPoint(p Vec2, now time.Time) {
	if d.source == SourceMouse {
		d.appendPoint(p)
		return
	}
	d.pending = append(d.pending, p)
	if !d.limiter.allow(now) {
		return
	}
	d.flush()
}

// flush runs buffered samples through the smoother into the path.
func (d *drawPipeline) flush() {
	for _, p := range d.pending {
		d.smoothed = Vec2{
			X: d.smoothed.X + (p.X-d.smoothed.X)*d.smoothing,
			Y: d.smoothed.Y + (p.Y-d.smoothed.Y)*d.smoothing,
		}
		d.appendPoint(d.smoothed)
	}
	d.pending = d.pending[:0]
}

// appendPoint adds p unless it repeats the last point.
func (d *drawPipeline) appendPoint(p Vec2) {
	if n := len(d.path); n > 0 && d.path[n-1] == p {
		return
	}
	d.path = append(d.path, p)
}

// endPath flushes buffered samples, stores the path in the committed list
// and returns it. Empty paths are dropped.
func (d *drawPipeline) endPath() []Vec2 {
	d.flush()
	path := d.path
	d.path = nil
	if len(path) == 0 {
		return nil
	}
	d.paths = append(d.paths, path)
	return path
}

// abortPath discards the live path.
func (d *drawPipeline) abortPath() {
	d.path = nil
	d.pending = d.pending[:0]
}

// beginShape anchors a zero-size preview of kind at p.
func (d *drawPipeline) beginShape(kind ComponentKind, p Vec2, theme Theme) {
	d.shapeKind = kind
	d.anchor = p
	d.preview = &Component{
		Kind:  kind,
		X:     p.X,
		Y:     p.Y,
		Style: DefaultStyle(kind, theme),
	}
}

// updateShape stretches the preview from the anchor to p. The preview may
// have negative dimensions until it is committed.
func (d *drawPipeline) updateShape(p Vec2) {
	if d.preview == nil {
		return
	}
	d.preview.Width = p.X - d.anchor.X
	d.preview.Height = p.Y - d.anchor.Y
}

// endShape returns the normalized preview and clears it. The boolean is
// false when no preview was active.
func (d *drawPipeline) endShape() (*Component, bool) {
	c := d.preview
	d.preview = nil
	if c == nil {
		return nil, false
	}
	b := c.Bounds()
	c.X, c.Y, c.Width, c.Height = b.X, b.Y, b.Width, b.Height
	return c, true
}
