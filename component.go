package sketchpad

import "github.com/google/uuid"

// Style holds the presentation properties of a component. The engine never
// reads these for geometry; they exist for the renderer and side panels.
// Text fields are only meaningful for the kinds that display them.
type Style struct {
	Fill         Color
	Stroke       Color
	TextColor    Color
	StrokeWidth  float64
	CornerRadius float64
	FontSize     float64
	FontFamily   string
	Opacity      float64

	ButtonText  string // KindButton
	Placeholder string // KindInput
	Text        string // KindText
	ImageSrc    string // KindImage
}

// DefaultStyle returns the style a freshly drawn component of the given kind
// receives under the given theme.
func DefaultStyle(kind ComponentKind, theme Theme) Style {
	st := Style{
		Fill:        Color{1, 1, 1, 1},
		Stroke:      Color{0.2, 0.2, 0.2, 1},
		TextColor:   Color{0.1, 0.1, 0.1, 1},
		StrokeWidth: 1,
		FontSize:    14,
		FontFamily:  "Inter",
		Opacity:     1,
	}
	if theme == ThemeDark {
		st.Fill = Color{0.16, 0.17, 0.2, 1}
		st.Stroke = Color{0.75, 0.77, 0.8, 1}
		st.TextColor = Color{0.93, 0.94, 0.95, 1}
	}

	switch kind {
	case KindButton:
		st.Fill = Color{0.23, 0.51, 0.96, 1}
		st.Stroke = st.Fill
		st.TextColor = ColorWhite
		st.CornerRadius = 6
		st.ButtonText = "Button"
	case KindInput:
		st.CornerRadius = 4
		st.Placeholder = "Enter text..."
	case KindText:
		st.Fill = ColorTransparent
		st.Stroke = ColorTransparent
		st.StrokeWidth = 0
		st.Text = "Text"
	case KindImage:
		st.Fill = Color{0.85, 0.86, 0.88, 1}
		if theme == ThemeDark {
			st.Fill = Color{0.3, 0.31, 0.34, 1}
		}
	case KindGroup:
		st.Fill = ColorTransparent
		st.Stroke = ColorTransparent
		st.StrokeWidth = 0
	}
	return st
}

// Geometry is the manipulable part of a component, captured as one value so
// edits apply all at once.
type Geometry struct {
	X, Y, Width, Height float64
	Rotation            float64 // degrees
}

// Bounds returns the geometry's box, normalized.
func (g Geometry) Bounds() Rect {
	return Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}.Normalize()
}

// Center returns the pivot point of the geometry.
func (g Geometry) Center() Vec2 {
	return g.Bounds().Center()
}

// valid reports whether every field is finite and the size is positive.
func (g Geometry) valid() bool {
	return finite(g.X) && finite(g.Y) && finite(g.Rotation) &&
		finite(g.Width) && finite(g.Height) && g.Width > 0 && g.Height > 0
}

// Component is the atomic scene entity. A single flat struct is used for all
// kinds; ChildIDs is only populated on groups.
//
// GroupID and ChildIDs are maintained by Scene. Edit them through Scene
// methods so the two sides stay consistent.
type Component struct {
	// Identity
	ID   string
	Kind ComponentKind

	// Geometry (world units). Width/Height may be negative mid-drag.
	X, Y          float64
	Width, Height float64
	Rotation      float64 // degrees, clockwise, about the center

	Style  Style
	Locked bool

	// Grouping
	GroupID  string
	ChildIDs []string
}

// NewComponent creates a component with a fresh id and the light-theme
// default style for its kind.
func NewComponent(kind ComponentKind, x, y, w, h float64) *Component {
	return &Component{
		ID:     uuid.NewString(),
		Kind:   kind,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		Style:  DefaultStyle(kind, ThemeLight),
	}
}

// IsGroup reports whether the component is a group.
func (c *Component) IsGroup() bool {
	return c.Kind == KindGroup
}

// Bounds returns the unrotated box of the component, normalized.
func (c *Component) Bounds() Rect {
	return Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}.Normalize()
}

// Center returns the rotation pivot.
func (c *Component) Center() Vec2 {
	return c.Bounds().Center()
}

// Geometry returns a snapshot of the component's geometry.
func (c *Component) Geometry() Geometry {
	return Geometry{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height, Rotation: c.Rotation}
}

// setGeometry writes every geometric field in one assignment group.
func (c *Component) setGeometry(g Geometry) {
	c.X, c.Y, c.Width, c.Height, c.Rotation = g.X, g.Y, g.Width, g.Height, g.Rotation
}

// Clone returns a deep copy of the component.
func (c *Component) Clone() *Component {
	cp := *c
	if c.ChildIDs != nil {
		cp.ChildIDs = append([]string(nil), c.ChildIDs...)
	}
	return &cp
}

// Patch is a partial update to a component. Nil fields are left unchanged.
// Identity, kind and grouping cannot be patched.
type Patch struct {
	X, Y          *float64
	Width, Height *float64
	Rotation      *float64
	Locked        *bool
	Style         *Style
}

// Float returns a pointer to v, for building patches.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for building patches.
func Bool(v bool) *bool { return &v }

// apply writes the patch onto c and reports whether anything changed. A
// patch whose geometry would be non-finite or have a non-positive size is
// rejected whole and nothing is written.
func (p Patch) apply(c *Component) bool {
	g := c.Geometry()
	before := g
	if p.X != nil {
		g.X = *p.X
	}
	if p.Y != nil {
		g.Y = *p.Y
	}
	if p.Width != nil {
		g.Width = *p.Width
	}
	if p.Height != nil {
		g.Height = *p.Height
	}
	if p.Rotation != nil {
		g.Rotation = *p.Rotation
	}
	if g != before && !g.valid() {
		return false
	}
	changed := g != before
	c.setGeometry(g)
	if p.Locked != nil && *p.Locked != c.Locked {
		c.Locked = *p.Locked
		changed = true
	}
	if p.Style != nil {
		c.Style = *p.Style
		changed = true
	}
	return changed
}
