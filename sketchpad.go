package sketchpad

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent is the zero color.
var ColorTransparent = Color{}

// toRGBA converts to an 8-bit straight-alpha color for image and ebiten APIs.
func (c Color) toRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for points, offsets and deltas in both screen and
// world space.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rect is a rectangle with its origin at the top-left, Y increasing downward.
// Width and Height may be negative while a shape is being dragged out; call
// Normalize before comparing or testing containment.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the normalized
// rectangle. Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	r = r.Normalize()
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Normalize flips negative dimensions into positive ones, moving the origin so
// the covered area is unchanged.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Center returns the geometric center of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	a, b := r.Normalize(), other.Normalize()
	minX := math.Min(a.X, b.X)
	minY := math.Min(a.Y, b.Y)
	maxX := math.Max(a.X+a.Width, b.X+b.Width)
	maxY := math.Max(a.Y+a.Height, b.Y+b.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Empty reports whether the normalized rectangle covers no area.
func (r Rect) Empty() bool {
	r = r.Normalize()
	return r.Width == 0 || r.Height == 0
}

// ComponentKind identifies what a Component represents on the mockup.
type ComponentKind uint8

const (
	KindRectangle ComponentKind = iota
	KindCircle
	KindButton
	KindInput
	KindText
	KindImage
	KindGroup
)

var kindNames = [...]string{
	KindRectangle: "rectangle",
	KindCircle:    "circle",
	KindButton:    "button",
	KindInput:     "input",
	KindText:      "text",
	KindImage:     "image",
	KindGroup:     "group",
}

func (k ComponentKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (ComponentKind, bool) {
	for i, n := range kindNames {
		if n == name {
			return ComponentKind(i), true
		}
	}
	return 0, false
}

// Tool is the drawing tool currently chosen in the host UI.
type Tool uint8

const (
	ToolSelect Tool = iota
	ToolPen
	ToolErase
	ToolRectangle
	ToolCircle
	ToolButton
	ToolInput
	ToolText
	ToolImage
)

var toolNames = [...]string{
	ToolSelect:    "select",
	ToolPen:       "pen",
	ToolErase:     "erase",
	ToolRectangle: "rectangle",
	ToolCircle:    "circle",
	ToolButton:    "button",
	ToolInput:     "input",
	ToolText:      "text",
	ToolImage:     "image",
}

func (t Tool) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return "unknown"
}

// ParseTool returns the tool with the given name.
func ParseTool(name string) (Tool, bool) {
	for i, n := range toolNames {
		if n == name {
			return Tool(i), true
		}
	}
	return 0, false
}

// ShapeKind returns the component kind a shape tool creates. The second
// result is false for select, pen and erase.
func (t Tool) ShapeKind() (ComponentKind, bool) {
	switch t {
	case ToolRectangle:
		return KindRectangle, true
	case ToolCircle:
		return KindCircle, true
	case ToolButton:
		return KindButton, true
	case ToolInput:
		return KindInput, true
	case ToolText:
		return KindText, true
	case ToolImage:
		return KindImage, true
	}
	return 0, false
}

// Action is both the result of a hit test and the state of the manipulation
// state machine.
type Action uint8

const (
	ActionNone Action = iota
	ActionDrawing
	ActionMoving
	ActionResizing
	ActionRotating
	ActionPanning
)

var actionNames = [...]string{
	ActionNone:     "none",
	ActionDrawing:  "drawing",
	ActionMoving:   "moving",
	ActionResizing: "resizing",
	ActionRotating: "rotating",
	ActionPanning:  "panning",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Handle identifies one of the nine hotspots drawn around a selected
// component.
type Handle uint8

const (
	HandleNone Handle = iota
	HandleTL
	HandleTM
	HandleTR
	HandleML
	HandleMR
	HandleBL
	HandleBM
	HandleBR
	HandleRotate
)

var handleNames = [...]string{
	HandleNone:   "",
	HandleTL:     "tl",
	HandleTM:     "tm",
	HandleTR:     "tr",
	HandleML:     "ml",
	HandleMR:     "mr",
	HandleBL:     "bl",
	HandleBM:     "bm",
	HandleBR:     "br",
	HandleRotate: "rot",
}

func (h Handle) String() string {
	if int(h) < len(handleNames) {
		return handleNames[h]
	}
	return "unknown"
}

// edge bits describing which sides of the box a resize handle drags.
const (
	edgeLeft uint8 = 1 << iota
	edgeRight
	edgeTop
	edgeBottom
)

func (h Handle) edges() uint8 {
	switch h {
	case HandleTL:
		return edgeTop | edgeLeft
	case HandleTM:
		return edgeTop
	case HandleTR:
		return edgeTop | edgeRight
	case HandleML:
		return edgeLeft
	case HandleMR:
		return edgeRight
	case HandleBL:
		return edgeBottom | edgeLeft
	case HandleBM:
		return edgeBottom
	case HandleBR:
		return edgeBottom | edgeRight
	}
	return 0
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys held during an event.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
	ModSpace                          // Space bar held (hand tool)
)

// PointerSource is the kind of device that produced a pointer event.
type PointerSource uint8

const (
	SourceMouse PointerSource = iota
	SourceTouch
	SourcePen
)

// Theme is the host's color mode. It only affects default style values.
type Theme uint8

const (
	ThemeLight Theme = iota
	ThemeDark
)
