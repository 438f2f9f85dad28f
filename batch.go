package sketchpad

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Component batches travel as JSON between the editor and its collaborators
// (prefab libraries, generation services). A batch is either an array of
// component objects or an object with a "components" array:
//
//	{"components": [
//	  {"id": "a", "type": "button", "x": 10, "y": 10, "width": 120, "height": 40,
//	   "rotation": 0, "isLocked": false, "groupId": "", "childIds": [],
//	   "style": {"backgroundColor": "#3b82f6", "color": "#ffffff", "buttonText": "OK"}}
//	]}
//
// Missing style properties take the default style of the component's kind.

// DecodeComponents parses a JSON component batch. Styles missing from the
// input are filled from DefaultStyle under theme.
func DecodeComponents(data []byte, theme Theme) ([]*Component, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode components: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if root.IsObject() {
		root = root.Get("components")
	}
	if !root.IsArray() {
		return nil, fmt.Errorf("decode components: expected an array of components")
	}

	var out []*Component
	var decodeErr error
	root.ForEach(func(_, v gjson.Result) bool {
		c, err := decodeComponent(v, theme)
		if err != nil {
			decodeErr = fmt.Errorf("decode components: item %d: %w", len(out), err)
			return false
		}
		out = append(out, c)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return out, nil
}

func decodeComponent(v gjson.Result, theme Theme) (*Component, error) {
	if !v.IsObject() {
		return nil, fmt.Errorf("not an object")
	}
	typ := v.Get("type").String()
	kind, ok := ParseKind(typ)
	if !ok {
		return nil, fmt.Errorf("unknown type %q", typ)
	}
	c := &Component{
		ID:       v.Get("id").String(),
		Kind:     kind,
		X:        v.Get("x").Float(),
		Y:        v.Get("y").Float(),
		Width:    v.Get("width").Float(),
		Height:   v.Get("height").Float(),
		Rotation: v.Get("rotation").Float(),
		Locked:   v.Get("isLocked").Bool(),
		GroupID:  v.Get("groupId").String(),
	}
	for _, id := range v.Get("childIds").Array() {
		c.ChildIDs = append(c.ChildIDs, id.String())
	}
	st, err := decodeStyle(v.Get("style"), DefaultStyle(kind, theme))
	if err != nil {
		return nil, err
	}
	c.Style = st
	return c, nil
}

func decodeStyle(v gjson.Result, st Style) (Style, error) {
	if !v.Exists() {
		return st, nil
	}
	colors := []struct {
		key string
		dst *Color
	}{
		{"backgroundColor", &st.Fill},
		{"borderColor", &st.Stroke},
		{"color", &st.TextColor},
	}
	for _, cf := range colors {
		r := v.Get(cf.key)
		if !r.Exists() {
			continue
		}
		col, err := ParseHexColor(r.String())
		if err != nil {
			return st, fmt.Errorf("style.%s: %w", cf.key, err)
		}
		*cf.dst = col
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"borderWidth", &st.StrokeWidth},
		{"borderRadius", &st.CornerRadius},
		{"fontSize", &st.FontSize},
		{"opacity", &st.Opacity},
	}
	for _, ff := range floats {
		if r := v.Get(ff.key); r.Exists() {
			*ff.dst = r.Float()
		}
	}
	strs := []struct {
		key string
		dst *string
	}{
		{"fontFamily", &st.FontFamily},
		{"buttonText", &st.ButtonText},
		{"placeholder", &st.Placeholder},
		{"text", &st.Text},
		{"src", &st.ImageSrc},
	}
	for _, sf := range strs {
		if r := v.Get(sf.key); r.Exists() {
			*sf.dst = r.String()
		}
	}
	return st, nil
}

// EncodeComponents serializes components as a {"components": [...]} batch
// that DecodeComponents accepts.
func EncodeComponents(comps []*Component) ([]byte, error) {
	out := []byte(`{"components":[]}`)
	var err error
	for i, c := range comps {
		p := "components." + strconv.Itoa(i)
		sets := []struct {
			key string
			val any
		}{
			{"id", c.ID},
			{"type", c.Kind.String()},
			{"x", c.X},
			{"y", c.Y},
			{"width", c.Width},
			{"height", c.Height},
			{"rotation", c.Rotation},
			{"isLocked", c.Locked},
			{"groupId", c.GroupID},
			{"childIds", nonNil(c.ChildIDs)},
			{"style.backgroundColor", c.Style.Fill.Hex()},
			{"style.borderColor", c.Style.Stroke.Hex()},
			{"style.color", c.Style.TextColor.Hex()},
			{"style.borderWidth", c.Style.StrokeWidth},
			{"style.borderRadius", c.Style.CornerRadius},
			{"style.fontSize", c.Style.FontSize},
			{"style.fontFamily", c.Style.FontFamily},
			{"style.opacity", c.Style.Opacity},
			{"style.buttonText", c.Style.ButtonText},
			{"style.placeholder", c.Style.Placeholder},
			{"style.text", c.Style.Text},
			{"style.src", c.Style.ImageSrc},
		}
		for _, s := range sets {
			if out, err = sjson.SetBytes(out, p+"."+s.key, s.val); err != nil {
				return nil, fmt.Errorf("encode components: %s: %w", s.key, err)
			}
		}
	}
	return out, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// InsertJSON decodes a component batch and inserts it as InsertComponents
// does. Returns the number of components inserted.
func (e *Engine) InsertJSON(data []byte) (int, error) {
	comps, err := DecodeComponents(data, e.cfg.Theme)
	if err != nil {
		return 0, err
	}
	return e.InsertComponents(comps), nil
}

// ParseHexColor parses "#rgb", "#rrggbb", "#rrggbbaa" (leading # optional)
// and the keyword "transparent".
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "transparent" {
		return ColorTransparent, nil
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// Hex formats the color as "#rrggbb", or "#rrggbbaa" when not opaque.
func (c Color) Hex() string {
	n := c.toRGBA()
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
