package sketchpad

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	xvector "golang.org/x/image/vector"
)

// SketchSnapshot is a rendering of the sketch for external collaborators,
// such as an AI code generator: a bitmap of the current view plus every
// freehand path in world units.
type SketchSnapshot struct {
	Image *image.RGBA
	Paths [][]Vec2
}

var (
	snapshotBgLight = color.NRGBA{255, 255, 255, 255}
	snapshotBgDark  = color.NRGBA{26, 27, 31, 255}
)

// Snapshot rasterizes the scene as seen through the viewport into a w x h
// image. Rendering is done in software so it works without a GPU context.
func (e *Engine) Snapshot(w, h int) *SketchSnapshot {
	if w <= 0 || h <= 0 {
		return &SketchSnapshot{Image: image.NewRGBA(image.Rect(0, 0, 0, 0))}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := snapshotBgLight
	ink := Color{0.1, 0.1, 0.1, 1}
	if e.cfg.Theme == ThemeDark {
		bg = snapshotBgDark
		ink = Color{0.93, 0.94, 0.95, 1}
	}
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)

	r := &snapshotRasterizer{dst: dst, z: xvector.NewRasterizer(w, h), vp: e.viewport}
	for _, c := range e.scene.Components() {
		if c.IsGroup() {
			continue
		}
		r.component(c)
	}
	for _, p := range e.drawing.paths {
		r.polyline(p, 2, ink)
	}

	paths := make([][]Vec2, len(e.drawing.paths))
	for i, p := range e.drawing.paths {
		paths[i] = append([]Vec2(nil), p...)
	}
	return &SketchSnapshot{Image: dst, Paths: paths}
}

// Scaled returns a copy of the snapshot image whose longer side is at most
// maxDim pixels. The original is returned when it already fits.
func (s *SketchSnapshot) Scaled(maxDim int) *image.RGBA {
	b := s.Image.Bounds()
	longest := max(b.Dx(), b.Dy())
	if maxDim <= 0 || longest <= maxDim {
		return s.Image
	}
	scale := float64(maxDim) / float64(longest)
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(out, out.Bounds(), s.Image, b, xdraw.Src, nil)
	return out
}

// WritePNG encodes the snapshot image to a PNG file at path.
func (s *SketchSnapshot) WritePNG(path string) error {
	return writePNG(path, s.Image)
}

// SaveSnapshot renders a snapshot at SnapshotWidth x SnapshotHeight and
// writes it to SnapshotDir with a timestamped filename. Returns the path
// written.
func (e *Engine) SaveSnapshot(label string) (string, error) {
	if err := os.MkdirAll(e.SnapshotDir, 0o755); err != nil {
		return "", fmt.Errorf("snapshot: mkdir %s: %w", e.SnapshotDir, err)
	}
	stamp := e.now().Format("20060102_150405")
	path := filepath.Join(e.SnapshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
	if err := e.Snapshot(e.SnapshotWidth, e.SnapshotHeight).WritePNG(path); err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	e.logf("snapshot written to %s", path)
	return path, nil
}

// snapshotRasterizer draws world-space polygons into an RGBA image.
type snapshotRasterizer struct {
	dst *image.RGBA
	z   *xvector.Rasterizer
	vp  *Viewport
}

func (r *snapshotRasterizer) component(c *Component) {
	st := c.Style
	opacity := clamp01(st.Opacity)
	pts := c.Outline()
	if fill := fade(st.Fill, opacity); fill.A > 0 {
		r.polygon(pts, fill)
	}
	if stroke := fade(st.Stroke, opacity); stroke.A > 0 && st.StrokeWidth > 0 {
		closed := append(pts[:len(pts):len(pts)], pts[0])
		r.polyline(closed, st.StrokeWidth, stroke)
	}
}

// polygon fills a closed world-space polygon.
func (r *snapshotRasterizer) polygon(pts []Vec2, c Color) {
	if len(pts) < 3 {
		return
	}
	b := r.dst.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	for i, p := range pts {
		x, y := r.vp.WorldToScreen(p.X, p.Y)
		if i == 0 {
			r.z.MoveTo(float32(x), float32(y))
		} else {
			r.z.LineTo(float32(x), float32(y))
		}
	}
	r.z.ClosePath()
	r.z.Draw(r.dst, b, image.NewUniform(c.toRGBA()), image.Point{})
}

// polyline strokes an open world-space path with a line width in world
// units. Each segment is filled as its own quad.
func (r *snapshotRasterizer) polyline(pts []Vec2, width float64, c Color) {
	half := width / 2
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := b.Sub(a)
		l := d.Len()
		if l == 0 {
			continue
		}
		n := Vec2{-d.Y / l * half, d.X / l * half}
		r.polygon([]Vec2{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, c)
	}
}

// fade multiplies a color's alpha by opacity.
func fade(c Color, opacity float64) Color {
	c.A = clamp01(c.A) * opacity
	return c
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
