package sketchpad

import (
	"math"
	"sort"
	"testing"
)

func rect(id string, x, y, w, h float64) *Component {
	c := NewComponent(KindRectangle, x, y, w, h)
	c.ID = id
	return c
}

func group(id string, children ...string) *Component {
	c := NewComponent(KindGroup, 0, 0, 0, 0)
	c.ID = id
	c.ChildIDs = children
	return c
}

// recordEvents collects every event a scene emits.
func recordEvents(s *Scene) *[]Event {
	var got []Event
	s.notify = func(e Event) { got = append(got, e) }
	return &got
}

func mustCheck(t *testing.T, s *Scene) {
	t.Helper()
	if err := s.Check(); err != nil {
		t.Fatal(err)
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestSceneAdd(t *testing.T) {
	s := NewScene()
	events := recordEvents(s)
	if !s.Add(rect("a", 0, 0, 10, 10)) {
		t.Fatal("Add returned false")
	}
	if s.Add(rect("a", 5, 5, 10, 10)) {
		t.Error("duplicate id should be rejected")
	}
	if s.Add(nil) {
		t.Error("nil component should be rejected")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if len(*events) != 1 || (*events)[0].Type != EventComponentAdded {
		t.Errorf("events = %+v, want one ComponentAdded", *events)
	}
}

func TestSceneAddAssignsID(t *testing.T) {
	s := NewScene()
	c := &Component{Kind: KindCircle, Width: 10, Height: 10}
	s.Add(c)
	if c.ID == "" {
		t.Fatal("expected generated id")
	}
	if got, ok := s.Component(c.ID); !ok || got != c {
		t.Error("component not indexed under generated id")
	}
}

func TestSceneAddBatchLinksGroups(t *testing.T) {
	s := NewScene()
	// Child listed before its group, another child only naming its group.
	a := rect("a", 0, 0, 10, 10)
	b := rect("b", 20, 0, 10, 10)
	b.GroupID = "g"
	g := group("g", "a", "missing")
	n := s.AddBatch([]*Component{a, g, b})
	if n != 3 {
		t.Fatalf("AddBatch = %d, want 3", n)
	}
	mustCheck(t, s)
	if a.GroupID != "g" {
		t.Errorf("a.GroupID = %q, want g", a.GroupID)
	}
	if len(g.ChildIDs) != 2 || !containsID(g.ChildIDs, "a") || !containsID(g.ChildIDs, "b") {
		t.Errorf("g.ChildIDs = %v, want [a b]", g.ChildIDs)
	}
}

func TestSceneAddBatchDanglingGroup(t *testing.T) {
	s := NewScene()
	a := rect("a", 0, 0, 10, 10)
	a.GroupID = "nope"
	s.AddBatch([]*Component{a})
	if a.GroupID != "" {
		t.Errorf("dangling GroupID kept: %q", a.GroupID)
	}
	mustCheck(t, s)
}

func TestSceneAddBatchRejectsCycle(t *testing.T) {
	s := NewScene()
	g1 := group("g1", "g2")
	g2 := group("g2", "g1")
	s.AddBatch([]*Component{g1, g2})
	mustCheck(t, s)
	if g1.GroupID == "g2" && g2.GroupID == "g1" {
		t.Error("cycle was created")
	}
}

func TestSceneUpdate(t *testing.T) {
	s := NewScene()
	s.Add(rect("a", 0, 0, 10, 10))
	events := recordEvents(s)

	if !s.Update("a", Patch{X: Float(50), Rotation: Float(30)}) {
		t.Fatal("Update returned false")
	}
	c, _ := s.Component("a")
	if c.X != 50 || c.Y != 0 || c.Rotation != 30 || c.Width != 10 {
		t.Errorf("after Update: %+v", c.Geometry())
	}
	if s.Update("a", Patch{X: Float(50)}) {
		t.Error("no-op patch should return false")
	}
	if s.Update("missing", Patch{X: Float(1)}) {
		t.Error("missing id should return false")
	}
	if len(*events) != 1 || (*events)[0].Type != EventComponentUpdated {
		t.Errorf("events = %+v", *events)
	}
}

func TestSceneUpdateRejectsInvalidGeometry(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
	}{
		{"negative width and zero height", Patch{Width: Float(-20), Height: Float(0)}},
		{"zero width", Patch{Width: Float(0)}},
		{"negative height with valid x", Patch{X: Float(5), Height: Float(-1)}},
		{"NaN x", Patch{X: Float(math.NaN())}},
		{"infinite width", Patch{Width: Float(math.Inf(1))}},
		{"NaN rotation", Patch{Rotation: Float(math.NaN()), Locked: Bool(true)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene()
			s.Add(rect("a", 0, 0, 10, 10))
			events := recordEvents(s)

			if s.Update("a", tt.patch) {
				t.Error("Update returned true")
			}
			c, _ := s.Component("a")
			if g := c.Geometry(); g != (Geometry{Width: 10, Height: 10}) || c.Locked {
				t.Errorf("component changed: %+v locked=%v", g, c.Locked)
			}
			if len(*events) != 0 {
				t.Errorf("events = %+v", *events)
			}
		})
	}
}

func TestSceneDeleteCascades(t *testing.T) {
	s := NewScene()
	s.AddBatch([]*Component{
		rect("a", 0, 0, 10, 10),
		rect("b", 0, 0, 10, 10),
		rect("c", 0, 0, 10, 10),
		group("inner", "a", "b"),
		group("outer", "inner", "c"),
		rect("keep", 0, 0, 10, 10),
	})
	mustCheck(t, s)
	s.SetSelection("a", "keep")

	removed := s.Delete("outer")
	sort.Strings(removed)
	want := []string{"a", "b", "c", "inner", "outer"}
	if !equalIDs(removed, want) {
		t.Errorf("removed = %v, want %v", removed, want)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if !equalIDs(s.Selection(), []string{"keep"}) {
		t.Errorf("selection = %v, want [keep]", s.Selection())
	}
	mustCheck(t, s)
}

func TestSceneDeleteChildUpdatesParent(t *testing.T) {
	s := NewScene()
	s.AddBatch([]*Component{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1), group("g", "a", "b")})
	s.Delete("a")
	g, _ := s.Component("g")
	if !equalIDs(g.ChildIDs, []string{"b"}) {
		t.Errorf("g.ChildIDs = %v, want [b]", g.ChildIDs)
	}
	mustCheck(t, s)
	if s.Delete("a") != nil {
		t.Error("deleting a missing id should return nil")
	}
}

func TestSceneDeleteSelected(t *testing.T) {
	s := NewScene()
	s.AddBatch([]*Component{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1), group("g", "a"), rect("c", 0, 0, 1, 1)})
	s.SetSelection("g", "b")
	removed := s.DeleteSelected()
	if len(removed) != 3 {
		t.Errorf("removed %v, want a, b and g", removed)
	}
	if len(s.Selection()) != 0 {
		t.Errorf("selection = %v, want empty", s.Selection())
	}
	mustCheck(t, s)
}

func TestSceneSelection(t *testing.T) {
	s := NewScene()
	s.AddBatch([]*Component{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1)})
	events := recordEvents(s)

	s.SetSelection("a", "a", "missing", "b")
	if !equalIDs(s.Selection(), []string{"a", "b"}) {
		t.Errorf("selection = %v, want [a b]", s.Selection())
	}
	s.SetSelection("a", "b") // unchanged, no event
	s.ToggleSelection("a")
	if !equalIDs(s.Selection(), []string{"b"}) {
		t.Errorf("after toggle = %v", s.Selection())
	}
	s.ToggleSelection("a")
	s.AddToSelection("a") // already selected, no event
	s.ClearSelection()
	s.ClearSelection() // already empty, no event

	if n := len(*events); n != 4 {
		t.Errorf("got %d selection events, want 4", n)
	}
	for _, e := range *events {
		if e.Type != EventSelectionChanged {
			t.Errorf("unexpected event %v", e.Type)
		}
	}
}

func TestSelectionSnapshotsAreStable(t *testing.T) {
	s := NewScene()
	s.AddBatch([]*Component{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1), rect("c", 0, 0, 1, 1)})

	s.SetSelection("a", "b")
	held := s.Selection()
	s.ToggleSelection("a")
	s.ClearSelection()
	s.SetSelection("a", "c")
	if _, ok := s.GroupSelected(); !ok {
		t.Fatal("GroupSelected failed")
	}
	s.Delete("b")
	if !equalIDs(held, []string{"a", "b"}) {
		t.Errorf("held selection = %v, want [a b]", held)
	}
}

func TestEffectiveSelection(t *testing.T) {
	s := NewScene()
	s.AddBatch([]*Component{
		rect("a", 0, 0, 1, 1),
		rect("b", 0, 0, 1, 1),
		group("inner", "a"),
		group("outer", "inner", "b"),
		rect("c", 0, 0, 1, 1),
	})
	tests := []struct {
		ids  []string
		want []string
	}{
		{nil, []string{}},
		{[]string{"c"}, []string{"c"}},
		{[]string{"outer"}, []string{"a", "b", "inner", "outer"}},
		{[]string{"inner", "missing"}, []string{"a", "inner"}},
		{[]string{"a", "outer"}, []string{"a", "b", "inner", "outer"}},
	}
	for _, tt := range tests {
		got := sortedKeys(EffectiveSelection(s, tt.ids))
		if !equalIDs(got, tt.want) {
			t.Errorf("EffectiveSelection(%v) = %v, want %v", tt.ids, got, tt.want)
		}
	}
}

func TestEffectiveSelectionSurvivesCycle(t *testing.T) {
	s := NewScene()
	s.AddBatch([]*Component{group("g1"), group("g2")})
	// Force a cycle behind the scene's back.
	g1, _ := s.Component("g1")
	g2, _ := s.Component("g2")
	g1.ChildIDs, g2.ChildIDs = []string{"g2"}, []string{"g1"}
	got := sortedKeys(EffectiveSelection(s, []string{"g1"}))
	if !equalIDs(got, []string{"g1", "g2"}) {
		t.Errorf("got %v", got)
	}
}

func TestGroupSelected(t *testing.T) {
	s := NewScene()
	a := rect("a", 0, 0, 10, 10)
	b := rect("b", 100, 50, 20, 20)
	s.AddBatch([]*Component{a, b})
	s.SetSelection("a", "b")

	id, ok := s.GroupSelected()
	if !ok {
		t.Fatal("GroupSelected failed")
	}
	g, _ := s.Component(id)
	if g.Kind != KindGroup {
		t.Errorf("kind = %v", g.Kind)
	}
	want := Rect{X: 0, Y: 0, Width: 120, Height: 70}
	if g.Bounds() != want {
		t.Errorf("group box = %+v, want %+v", g.Bounds(), want)
	}
	if a.GroupID != id || b.GroupID != id {
		t.Error("members not linked to group")
	}
	if comps := s.Components(); comps[len(comps)-1] != g {
		t.Error("group should be on top of z-order")
	}
	if !equalIDs(s.Selection(), []string{id}) {
		t.Errorf("selection = %v, want [%s]", s.Selection(), id)
	}
	mustCheck(t, s)
}

func TestGroupSelectedNeedsTwo(t *testing.T) {
	s := NewScene()
	s.AddBatch([]*Component{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1), group("g", "a")})
	s.SetSelection("g", "a") // a is inside g: only one top-level member
	if _, ok := s.GroupSelected(); ok {
		t.Error("grouping a single top-level member should be a no-op")
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
}

func TestGroupSelectedNestsInCommonParent(t *testing.T) {
	s := NewScene()
	s.AddBatch([]*Component{rect("a", 0, 0, 1, 1), rect("b", 5, 5, 1, 1), rect("c", 9, 9, 1, 1), group("p", "a", "b", "c")})
	s.SetSelection("a", "b")
	id, ok := s.GroupSelected()
	if !ok {
		t.Fatal("GroupSelected failed")
	}
	g, _ := s.Component(id)
	p, _ := s.Component("p")
	if g.GroupID != "p" {
		t.Errorf("new group parent = %q, want p", g.GroupID)
	}
	if !equalIDs(p.ChildIDs, []string{"c", id}) {
		t.Errorf("p.ChildIDs = %v, want [c %s]", p.ChildIDs, id)
	}
	mustCheck(t, s)
}

func TestUngroup(t *testing.T) {
	s := NewScene()
	s.AddBatch([]*Component{rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1), group("g", "a", "b")})
	s.SetSelection("g")
	if !s.Ungroup("g") {
		t.Fatal("Ungroup failed")
	}
	if _, ok := s.Component("g"); ok {
		t.Error("group still present")
	}
	for _, id := range []string{"a", "b"} {
		c, _ := s.Component(id)
		if c.GroupID != "" {
			t.Errorf("%s.GroupID = %q, want empty", id, c.GroupID)
		}
	}
	if !equalIDs(s.Selection(), []string{"a", "b"}) {
		t.Errorf("selection = %v, want [a b]", s.Selection())
	}
	if s.Ungroup("a") {
		t.Error("Ungroup of a non-group should fail")
	}
	mustCheck(t, s)
}

func TestUngroupSelected(t *testing.T) {
	s := NewScene()
	s.AddBatch([]*Component{
		rect("a", 0, 0, 1, 1), rect("b", 0, 0, 1, 1), group("g1", "a"), group("g2", "b"), rect("c", 0, 0, 1, 1),
	})
	s.SetSelection("g1", "g2", "c")
	if n := s.UngroupSelected(); n != 2 {
		t.Errorf("UngroupSelected = %d, want 2", n)
	}
	if !equalIDs(s.Selection(), []string{"a", "b"}) {
		t.Errorf("selection = %v, want [a b]", s.Selection())
	}
	mustCheck(t, s)
}

func TestSceneCheckReportsDivergence(t *testing.T) {
	s := NewScene()
	s.AddBatch([]*Component{rect("a", 0, 0, 1, 1), group("g", "a")})
	a, _ := s.Component("a")
	a.GroupID = ""
	if err := s.Check(); err == nil {
		t.Error("expected Check to report the broken link")
	}
}
