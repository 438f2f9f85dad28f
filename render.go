package sketchpad

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Colors used for editor chrome (selection outlines, handles, paths).
var (
	selectionColor = Color{0.23, 0.51, 0.96, 1}
	lockedColor    = Color{0.94, 0.27, 0.27, 1}
	handleFill     = ColorWhite
	previewColor   = Color{0.23, 0.51, 0.96, 0.6}
	backgroundDark = Color{0.1, 0.106, 0.122, 1}
	inkLight       = Color{0.1, 0.1, 0.1, 1}
	inkDark        = Color{0.93, 0.94, 0.95, 1}
)

// whitePixel is the 1x1 source for solid-color triangles. Created on first
// draw so that engine code never touches the GPU in headless use.
var whitePixel *ebiten.Image

func solidSource() *ebiten.Image {
	if whitePixel == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whitePixel = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whitePixel
}

// Draw renders the scene, freehand paths, the shape preview and selection
// chrome onto screen through the viewport.
func (e *Engine) Draw(screen *ebiten.Image) {
	bg, ink := ColorWhite, inkLight
	if e.cfg.Theme == ThemeDark {
		bg, ink = backgroundDark, inkDark
	}
	screen.Fill(bg.toRGBA())

	for _, c := range e.scene.Components() {
		if c.IsGroup() {
			continue
		}
		e.drawComponent(screen, c)
	}

	for _, p := range e.drawing.paths {
		e.drawPolyline(screen, p, 2, ink)
	}
	if len(e.drawing.path) > 1 {
		e.drawPolyline(screen, e.drawing.path, 2, ink)
	}

	if pv := e.drawing.preview; pv != nil {
		norm := pv.Clone()
		b := pv.Bounds()
		norm.X, norm.Y, norm.Width, norm.Height = b.X, b.Y, b.Width, b.Height
		e.drawComponent(screen, norm)
		e.drawOutline(screen, norm.Outline(), 1, previewColor)
	}

	e.drawSelection(screen)
}

func (e *Engine) drawComponent(screen *ebiten.Image, c *Component) {
	st := c.Style
	opacity := clamp01(st.Opacity)
	pts := c.Outline()
	if fill := fade(st.Fill, opacity); fill.A > 0 {
		e.fillPolygon(screen, pts, fill)
	}
	if stroke := fade(st.Stroke, opacity); stroke.A > 0 && st.StrokeWidth > 0 {
		e.drawOutline(screen, pts, st.StrokeWidth*e.viewport.Zoom, stroke)
	}
	if label := componentLabel(c); label != "" {
		x, y := e.viewport.WorldToScreen(c.Bounds().X, c.Bounds().Y)
		ebitenutil.DebugPrintAt(screen, label, int(x)+4, int(y)+4)
	}
}

// componentLabel is the text a component displays, if any.
func componentLabel(c *Component) string {
	switch c.Kind {
	case KindButton:
		return c.Style.ButtonText
	case KindInput:
		return c.Style.Placeholder
	case KindText:
		return c.Style.Text
	case KindImage:
		return c.Style.ImageSrc
	}
	return ""
}

// fillPolygon fills a convex world-space polygon as a triangle fan.
func (e *Engine) fillPolygon(screen *ebiten.Image, pts []Vec2, c Color) {
	if len(pts) < 3 {
		return
	}
	col := c.toRGBA()
	r, g, b, a := float32(col.R)/255, float32(col.G)/255, float32(col.B)/255, float32(col.A)/255
	verts := make([]ebiten.Vertex, len(pts))
	for i, p := range pts {
		x, y := e.viewport.WorldToScreen(p.X, p.Y)
		verts[i] = ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		}
	}
	inds := make([]uint16, 0, 3*(len(pts)-2))
	for i := 1; i < len(pts)-1; i++ {
		inds = append(inds, 0, uint16(i), uint16(i+1))
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(verts, inds, solidSource(), op)
}

// drawOutline strokes a closed world-space polygon with a width in pixels.
func (e *Engine) drawOutline(screen *ebiten.Image, pts []Vec2, width float64, c Color) {
	n := len(pts)
	for i := range pts {
		e.strokeSegment(screen, pts[i], pts[(i+1)%n], width, c)
	}
}

// drawPolyline strokes an open world-space path. width is in world units.
func (e *Engine) drawPolyline(screen *ebiten.Image, pts []Vec2, width float64, c Color) {
	w := width * e.viewport.Zoom
	for i := 1; i < len(pts); i++ {
		e.strokeSegment(screen, pts[i-1], pts[i], w, c)
	}
}

func (e *Engine) strokeSegment(screen *ebiten.Image, a, b Vec2, width float64, c Color) {
	x0, y0 := e.viewport.WorldToScreen(a.X, a.Y)
	x1, y1 := e.viewport.WorldToScreen(b.X, b.Y)
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c.toRGBA(), true)
}

// drawSelection outlines every effectively selected component and draws
// handles on the selected unlocked ones.
func (e *Engine) drawSelection(screen *ebiten.Image) {
	s := e.scene
	eff := s.EffectiveSelection()
	if len(eff) == 0 {
		return
	}
	for _, c := range s.Components() {
		if !eff[c.ID] {
			continue
		}
		col := selectionColor
		if c.Locked {
			col = lockedColor
		}
		e.drawOutline(screen, c.Outline(), 1, col)
		if s.IsSelected(c.ID) && !c.Locked {
			e.drawHandles(screen, c)
		}
	}
}

func (e *Engine) drawHandles(screen *ebiten.Image, c *Component) {
	zoom := e.viewport.Zoom
	pts := HandlePoints(c, e.cfg.RotateHandleOffset/zoom)
	size := e.cfg.HandleSize
	if e.cfg.MobileMode {
		size *= 1.5
	}
	half := float32(size / 2)

	top := c.LocalToWorld(pts[HandleTM])
	rot := c.LocalToWorld(pts[HandleRotate])
	e.strokeSegment(screen, top, rot, 1, selectionColor)

	m := c.ScreenMatrix(e.viewport)
	for _, h := range handleOrder {
		x, y := transformPoint(m, pts[h].X, pts[h].Y)
		fx, fy := float32(x), float32(y)
		if h == HandleRotate {
			vector.DrawFilledCircle(screen, fx, fy, half+1, handleFill.toRGBA(), true)
			vector.StrokeCircle(screen, fx, fy, half+1, 1, selectionColor.toRGBA(), true)
			continue
		}
		vector.DrawFilledRect(screen, fx-half, fy-half, 2*half, 2*half, handleFill.toRGBA(), false)
		vector.StrokeRect(screen, fx-half, fy-half, 2*half, 2*half, 1, selectionColor.toRGBA(), false)
	}
}
