package sketchpad

import (
	"strings"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ffffff", Color{1, 1, 1, 1}},
		{"#000", Color{0, 0, 0, 1}},
		{"FF0000", Color{1, 0, 0, 1}},
		{"#00ff0080", Color{0, 1, 0, 128.0 / 255}},
		{" transparent ", ColorTransparent},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if err != nil {
			t.Errorf("ParseHexColor(%q): %v", tt.in, err)
			continue
		}
		if !approxEqual(got.R, tt.want.R, 1e-9) || !approxEqual(got.G, tt.want.G, 1e-9) ||
			!approxEqual(got.B, tt.want.B, 1e-9) || !approxEqual(got.A, tt.want.A, 1e-9) {
			t.Errorf("ParseHexColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseHexColorErrors(t *testing.T) {
	for _, in := range []string{"", "#12", "#12345", "#gggggg", "red"} {
		if _, err := ParseHexColor(in); err == nil {
			t.Errorf("ParseHexColor(%q) succeeded, want error", in)
		}
	}
}

func TestColorHex(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{Color{1, 1, 1, 1}, "#ffffff"},
		{Color{0, 0, 0, 1}, "#000000"},
		{Color{1, 0, 0, 0.5}, "#ff000080"},
		{ColorTransparent, "#00000000"},
	}
	for _, tt := range tests {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("%+v.Hex() = %q, want %q", tt.c, got, tt.want)
		}
	}
	for _, s := range []string{"#3b82f6", "#10203040"} {
		c, _ := ParseHexColor(s)
		if got := c.Hex(); got != s {
			t.Errorf("Hex round trip %q -> %q", s, got)
		}
	}
}

func TestDecodeComponents(t *testing.T) {
	data := []byte(`{"components": [
		{"id": "a", "type": "button", "x": 10, "y": 20, "width": 120, "height": 40,
		 "rotation": 15, "style": {"backgroundColor": "#ff0000", "buttonText": "OK", "borderRadius": 2}},
		{"id": "b", "type": "text", "x": 0, "y": 0, "width": 50, "height": 20, "isLocked": true},
		{"id": "g", "type": "group", "width": 200, "height": 100, "childIds": ["a", "b"]}
	]}`)
	comps, err := DecodeComponents(data, ThemeLight)
	if err != nil {
		t.Fatalf("DecodeComponents: %v", err)
	}
	if len(comps) != 3 {
		t.Fatalf("got %d components, want 3", len(comps))
	}

	a := comps[0]
	if a.ID != "a" || a.Kind != KindButton || a.Geometry() != (Geometry{10, 20, 120, 40, 15}) {
		t.Errorf("a = %s %s %+v", a.ID, a.Kind, a.Geometry())
	}
	if a.Style.Fill != (Color{1, 0, 0, 1}) || a.Style.ButtonText != "OK" || a.Style.CornerRadius != 2 {
		t.Errorf("a style = %+v", a.Style)
	}
	// Unset properties come from the kind default.
	if a.Style.TextColor != ColorWhite || a.Style.FontSize != 14 {
		t.Errorf("a defaults = %+v", a.Style)
	}

	b := comps[1]
	if !b.Locked || b.Style != DefaultStyle(KindText, ThemeLight) {
		t.Errorf("b = locked %v style %+v", b.Locked, b.Style)
	}
	if g := comps[2]; !g.IsGroup() || !equalIDs(g.ChildIDs, []string{"a", "b"}) {
		t.Errorf("g = %s children %v", g.Kind, g.ChildIDs)
	}
}

func TestDecodeComponentsBareArray(t *testing.T) {
	comps, err := DecodeComponents([]byte(`[{"id":"x","type":"circle","width":5,"height":5}]`), ThemeDark)
	if err != nil {
		t.Fatalf("DecodeComponents: %v", err)
	}
	if len(comps) != 1 || comps[0].Style != DefaultStyle(KindCircle, ThemeDark) {
		t.Errorf("comps = %+v", comps)
	}
}

func TestDecodeComponentsErrors(t *testing.T) {
	tests := []struct {
		name, data, msg string
	}{
		{"invalid", `{"components": [`, "invalid JSON"},
		{"no array", `{"items": []}`, "expected an array"},
		{"scalar item", `[1]`, "not an object"},
		{"unknown type", `[{"type": "slider"}]`, `unknown type "slider"`},
		{"bad color", `[{"type": "rectangle", "style": {"borderColor": "#xyz"}}]`, "style.borderColor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeComponents([]byte(tt.data), ThemeLight)
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("err = %v, want containing %q", err, tt.msg)
			}
		})
	}
}

func TestEncodeThenInsert(t *testing.T) {
	src := NewScene()
	a := rect("a", 10, 20, 30, 40)
	a.Rotation = 45
	a.Locked = true
	a.Style.Fill = Color{1, 0, 0, 0.5}
	b := rect("b", 0, 0, 5, 5)
	src.AddBatch([]*Component{a, b, group("g", "a", "b")})

	data, err := EncodeComponents(src.Components())
	if err != nil {
		t.Fatalf("EncodeComponents: %v", err)
	}

	e := newTestEngine()
	n, err := e.InsertJSON(data)
	if err != nil || n != 3 {
		t.Fatalf("InsertJSON = %d, %v", n, err)
	}
	if err := e.Scene().Check(); err != nil {
		t.Fatal(err)
	}
	got := comp(t, e, "a")
	if got.Geometry() != a.Geometry() || !got.Locked || got.GroupID != "g" {
		t.Errorf("a = %+v locked %v group %q", got.Geometry(), got.Locked, got.GroupID)
	}
	if got.Style.Fill.Hex() != "#ff000080" {
		t.Errorf("fill = %s", got.Style.Fill.Hex())
	}
	if !equalIDs(e.Scene().Selection(), []string{"g"}) {
		t.Errorf("selection = %v, want [g]", e.Scene().Selection())
	}
}

func TestInsertJSONRejectsBadInput(t *testing.T) {
	e := newTestEngine()
	if n, err := e.InsertJSON([]byte(`nope`)); err == nil || n != 0 {
		t.Errorf("InsertJSON = %d, %v", n, err)
	}
	if e.Scene().Len() != 0 {
		t.Error("scene changed on error")
	}
}
