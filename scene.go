package sketchpad

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Scene is the mutable collection of components in z-order (bottom first),
// their group relationships and the current selection.
//
// Every mutation keeps group ChildIDs and member GroupID back-references in
// agreement. Operations on ids that do not exist are silently skipped.
type Scene struct {
	components []*Component
	index      map[string]*Component
	selected   []string

	// notify receives change events; set by the owning Engine.
	notify func(Event)
	debug  bool
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{index: make(map[string]*Component)}
}

// Components returns all components in z-order, bottom first.
// The returned slice MUST NOT be mutated.
func (s *Scene) Components() []*Component {
	return s.components
}

// Len returns the number of components.
func (s *Scene) Len() int {
	return len(s.components)
}

// Component returns the component with the given id.
func (s *Scene) Component(id string) (*Component, bool) {
	c, ok := s.index[id]
	return c, ok
}

// Add inserts a component on top of the z-order. A component without an id
// is assigned one. Returns false if c is nil or its id is already taken.
func (s *Scene) Add(c *Component) bool {
	return s.AddBatch([]*Component{c}) == 1
}

// AddBatch inserts fully formed components (for example from a prefab
// library or a generation service) on top of the z-order, then reconciles
// group links across the whole batch so children may appear before or after
// their group. Returns the number inserted.
func (s *Scene) AddBatch(batch []*Component) int {
	added := make([]*Component, 0, len(batch))
	for _, c := range batch {
		if c == nil {
			continue
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if _, dup := s.index[c.ID]; dup {
			continue
		}
		s.components = append(s.components, c)
		s.index[c.ID] = c
		added = append(added, c)
	}
	if len(added) == 0 {
		return 0
	}

	// Groups claim their listed children first; members then attach to the
	// group they name if it did not already list them.
	for _, c := range added {
		if c.IsGroup() {
			s.claimChildren(c)
		} else {
			c.ChildIDs = nil
		}
	}
	for _, c := range added {
		s.attachToParent(c)
	}

	ids := make([]string, len(added))
	for i, c := range added {
		ids[i] = c.ID
	}
	s.emit(Event{Type: EventComponentAdded, IDs: ids})
	s.afterMutation("AddBatch")
	return len(added)
}

// claimChildren rewrites g.ChildIDs to the existing, non-cyclic, unique
// children and points each child's GroupID at g.
func (s *Scene) claimChildren(g *Component) {
	kept := g.ChildIDs[:0]
	seen := make(map[string]bool, len(g.ChildIDs))
	for _, id := range g.ChildIDs {
		child, ok := s.index[id]
		if !ok || seen[id] || id == g.ID || s.isAncestor(child, g) {
			continue
		}
		seen[id] = true
		if child.GroupID != "" && child.GroupID != g.ID {
			if prev, ok := s.index[child.GroupID]; ok {
				prev.ChildIDs = removeID(prev.ChildIDs, id)
			}
		}
		child.GroupID = g.ID
		kept = append(kept, id)
	}
	g.ChildIDs = kept
}

// attachToParent makes sure the group c names lists c, or clears a dangling
// GroupID.
func (s *Scene) attachToParent(c *Component) {
	if c.GroupID == "" {
		return
	}
	g, ok := s.index[c.GroupID]
	if !ok || !g.IsGroup() || g == c || s.isAncestor(c, g) {
		c.GroupID = ""
		return
	}
	if !containsID(g.ChildIDs, c.ID) {
		g.ChildIDs = append(g.ChildIDs, c.ID)
	}
}

// isAncestor reports whether candidate is c's group, its group's group, and
// so on.
func (s *Scene) isAncestor(candidate, c *Component) bool {
	seen := make(map[string]bool)
	for id := c.GroupID; id != "" && !seen[id]; {
		if id == candidate.ID {
			return true
		}
		seen[id] = true
		p, ok := s.index[id]
		if !ok {
			return false
		}
		id = p.GroupID
	}
	return false
}

// Update applies a partial patch. Returns false if the id does not exist or
// nothing changed.
func (s *Scene) Update(id string, p Patch) bool {
	c, ok := s.index[id]
	if !ok {
		return false
	}
	if !p.apply(c) {
		return false
	}
	s.emit(Event{Type: EventComponentUpdated, IDs: []string{id}})
	return true
}

// Delete removes the component and, if it is a group, every descendant.
// Returns the removed ids.
func (s *Scene) Delete(id string) []string {
	c, ok := s.index[id]
	if !ok {
		return nil
	}
	doomed := s.descendants(c, map[string]bool{c.ID: true})
	if p, ok := s.index[c.GroupID]; ok {
		p.ChildIDs = removeID(p.ChildIDs, c.ID)
	}
	return s.remove(doomed)
}

// DeleteSelected deletes every selected component with its descendants.
func (s *Scene) DeleteSelected() []string {
	doomed := make(map[string]bool)
	for _, id := range s.selected {
		c, ok := s.index[id]
		if !ok || doomed[id] {
			continue
		}
		doomed[id] = true
		s.descendants(c, doomed)
	}
	for id := range doomed {
		c := s.index[id]
		if p, ok := s.index[c.GroupID]; ok && !doomed[p.ID] {
			p.ChildIDs = removeID(p.ChildIDs, id)
		}
	}
	return s.remove(doomed)
}

// descendants adds every transitive child of c to into, skipping missing ids
// and ids already present.
func (s *Scene) descendants(c *Component, into map[string]bool) map[string]bool {
	for _, id := range c.ChildIDs {
		if into[id] {
			continue
		}
		child, ok := s.index[id]
		if !ok {
			continue
		}
		into[id] = true
		s.descendants(child, into)
	}
	return into
}

// remove drops the given ids from the component list, index and selection,
// preserving z-order of the survivors.
func (s *Scene) remove(doomed map[string]bool) []string {
	if len(doomed) == 0 {
		return nil
	}
	removed := make([]string, 0, len(doomed))
	kept := s.components[:0]
	for _, c := range s.components {
		if doomed[c.ID] {
			removed = append(removed, c.ID)
			delete(s.index, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(s.components); i++ {
		s.components[i] = nil
	}
	s.components = kept

	selChanged := false
	sel := make([]string, 0, len(s.selected))
	for _, id := range s.selected {
		if doomed[id] {
			selChanged = true
			continue
		}
		sel = append(sel, id)
	}
	s.selected = sel

	s.emit(Event{Type: EventComponentDeleted, IDs: removed})
	if selChanged {
		s.emitSelection()
	}
	s.afterMutation("Delete")
	return removed
}

// --- Selection ---

// Selection returns the selected ids in selection order. Later selection
// changes never rewrite a returned slice; callers must not mutate it.
func (s *Scene) Selection() []string {
	return s.selected
}

// IsSelected reports whether id is directly selected.
func (s *Scene) IsSelected(id string) bool {
	return containsID(s.selected, id)
}

// SetSelection replaces the selection. Unknown and duplicate ids are dropped.
func (s *Scene) SetSelection(ids ...string) {
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.index[id]; ok && !containsID(next, id) {
			next = append(next, id)
		}
	}
	if equalIDs(next, s.selected) {
		return
	}
	s.selected = next
	s.emitSelection()
}

// AddToSelection appends id to the selection if it is not already selected.
func (s *Scene) AddToSelection(id string) {
	if _, ok := s.index[id]; !ok || containsID(s.selected, id) {
		return
	}
	s.selected = append(s.selected, id)
	s.emitSelection()
}

// ToggleSelection adds id if it is not selected and removes it if it is.
func (s *Scene) ToggleSelection(id string) {
	if containsID(s.selected, id) {
		s.selected = removeID(s.selected, id)
		s.emitSelection()
		return
	}
	s.AddToSelection(id)
}

// ClearSelection empties the selection.
func (s *Scene) ClearSelection() {
	if len(s.selected) == 0 {
		return
	}
	s.selected = nil
	s.emitSelection()
}

// EffectiveSelection returns the selected ids plus all transitive
// descendants of selected groups.
func (s *Scene) EffectiveSelection() map[string]bool {
	return EffectiveSelection(s, s.selected)
}

// EffectiveSelection expands ids into the set of ids plus every transitive
// descendant of any group among them. Missing ids are skipped.
func EffectiveSelection(s *Scene, ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		c, ok := s.index[id]
		if !ok || out[id] {
			continue
		}
		out[id] = true
		s.descendants(c, out)
	}
	return out
}

// orderedIDs returns the ids in set, in z-order.
func (s *Scene) orderedIDs(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for _, c := range s.components {
		if set[c.ID] {
			out = append(out, c.ID)
		}
	}
	return out
}

// --- Grouping ---

// GroupSelected wraps the selected top-level components in a new group whose
// box is the union of its members' boxes. The group is placed on top and
// becomes the selection. Fewer than two eligible members is a no-op.
func (s *Scene) GroupSelected() (string, bool) {
	members := s.topLevelSelection()
	if len(members) < 2 {
		return "", false
	}

	parentID := s.index[members[0]].GroupID
	box := s.index[members[0]].AABB()
	for _, id := range members[1:] {
		c := s.index[id]
		if c.GroupID != parentID {
			parentID = ""
		}
		box = box.Union(c.AABB())
	}

	g := NewComponent(KindGroup, box.X, box.Y, box.Width, box.Height)
	g.ChildIDs = append([]string(nil), members...)
	g.GroupID = parentID

	s.components = append(s.components, g)
	s.index[g.ID] = g
	s.claimChildren(g)
	s.attachToParent(g)

	s.emit(Event{Type: EventComponentAdded, IDs: []string{g.ID}})
	s.emit(Event{Type: EventComponentUpdated, IDs: members})
	s.selected = []string{g.ID}
	s.emitSelection()
	s.afterMutation("GroupSelected")
	return g.ID, true
}

// topLevelSelection returns selected ids that exist and have no selected
// ancestor, in z-order.
func (s *Scene) topLevelSelection() []string {
	set := make(map[string]bool, len(s.selected))
	for _, id := range s.selected {
		if _, ok := s.index[id]; ok {
			set[id] = true
		}
	}
	for id := range set {
		c := s.index[id]
		for _, other := range s.selected {
			if o, ok := s.index[other]; ok && o != c && s.isAncestor(o, c) {
				delete(set, id)
				break
			}
		}
	}
	return s.orderedIDs(set)
}

// Ungroup removes the group and releases its children to the top level,
// selecting them. Returns false if id is not a group.
func (s *Scene) Ungroup(id string) bool {
	g, ok := s.index[id]
	if !ok || !g.IsGroup() {
		return false
	}
	freed := make([]string, 0, len(g.ChildIDs))
	for _, cid := range g.ChildIDs {
		child, ok := s.index[cid]
		if !ok {
			continue
		}
		child.GroupID = ""
		freed = append(freed, cid)
	}
	g.ChildIDs = nil
	if p, ok := s.index[g.GroupID]; ok {
		p.ChildIDs = removeID(p.ChildIDs, g.ID)
	}
	if len(freed) > 0 {
		s.emit(Event{Type: EventComponentUpdated, IDs: freed})
	}
	s.remove(map[string]bool{g.ID: true})
	s.SetSelection(freed...)
	return true
}

// UngroupSelected ungroups every selected group. Returns the number of groups
// dissolved.
func (s *Scene) UngroupSelected() int {
	var groups []string
	for _, id := range s.selected {
		if c, ok := s.index[id]; ok && c.IsGroup() {
			groups = append(groups, id)
		}
	}
	var freed []string
	for _, id := range groups {
		children := append([]string(nil), s.index[id].ChildIDs...)
		if s.Ungroup(id) {
			freed = append(freed, children...)
		}
	}
	if len(groups) > 0 {
		s.SetSelection(freed...)
	}
	return len(groups)
}

// --- Consistency ---

// Check verifies that group links agree in both directions. It returns nil
// for a consistent scene.
func (s *Scene) Check() error {
	var problems []string
	for _, c := range s.components {
		if c.GroupID != "" {
			g, ok := s.index[c.GroupID]
			switch {
			case !ok:
				problems = append(problems, fmt.Sprintf("%s: group %s missing", c.ID, c.GroupID))
			case !containsID(g.ChildIDs, c.ID):
				problems = append(problems, fmt.Sprintf("%s: not listed by group %s", c.ID, g.ID))
			}
		}
		if !c.IsGroup() && len(c.ChildIDs) > 0 {
			problems = append(problems, fmt.Sprintf("%s: %s has children", c.ID, c.Kind))
		}
		for _, cid := range c.ChildIDs {
			child, ok := s.index[cid]
			if ok && child.GroupID != c.ID {
				problems = append(problems, fmt.Sprintf("%s: child %s points at %q", c.ID, cid, child.GroupID))
			}
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("scene inconsistent: %s", strings.Join(problems, "; "))
}

// afterMutation runs the consistency check in debug mode.
func (s *Scene) afterMutation(op string) {
	if !s.debug {
		return
	}
	if err := s.Check(); err != nil {
		debugf("%s: %v", op, err)
	}
}

func (s *Scene) emit(e Event) {
	if s.notify != nil {
		s.notify(e)
	}
}

func (s *Scene) emitSelection() {
	s.emit(Event{Type: EventSelectionChanged, IDs: append([]string(nil), s.selected...)})
}

// --- id slice helpers ---

func containsID(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// removeID removes every occurrence of id, reusing the backing array.
func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
