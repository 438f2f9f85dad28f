// Package ecs provides ECS adapters for sketchpad.
package ecs

import (
	"github.com/phanxgames/sketchpad"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// EngineEventType is the Donburi event type for sketchpad engine events.
// Subscribe to this in your ECS systems to receive scene, selection and
// viewport changes.
var EngineEventType = events.NewEventType[sketchpad.Event]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Engine events are published to EngineEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) sketchpad.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event sketchpad.Event) {
	EngineEventType.Publish(s.world, event)
}

// ComponentData is the ECS view of one scene component.
type ComponentData struct {
	ID       string
	Kind     sketchpad.ComponentKind
	Bounds   sketchpad.Rect
	Rotation float64
	Locked   bool
	GroupID  string
	Selected bool
}

// Component is the Donburi component type holding ComponentData.
var Component = donburi.NewComponentType[ComponentData]()

// SceneMirror keeps one Donburi entity per scene component, updated as engine
// events arrive, and also publishes every event like NewDonburiStore.
type SceneMirror struct {
	world    donburi.World
	scene    *sketchpad.Scene
	entities map[string]donburi.Entity
	query    *donburi.Query
}

// NewSceneMirror creates a mirror of scene in world. Components already in
// the scene are mirrored immediately.
func NewSceneMirror(world donburi.World, scene *sketchpad.Scene) *SceneMirror {
	m := &SceneMirror{
		world:    world,
		scene:    scene,
		entities: make(map[string]donburi.Entity),
		query:    donburi.NewQuery(filter.Contains(Component)),
	}
	for _, c := range scene.Components() {
		m.sync(c.ID)
	}
	return m
}

// Entity returns the entity mirroring the component with the given id.
func (m *SceneMirror) Entity(id string) (donburi.Entity, bool) {
	e, ok := m.entities[id]
	return e, ok
}

// Count returns the number of mirrored components.
func (m *SceneMirror) Count() int {
	return m.query.Count(m.world)
}

// Each calls fn for every mirrored component.
func (m *SceneMirror) Each(fn func(*ComponentData)) {
	m.query.Each(m.world, func(entry *donburi.Entry) {
		fn(Component.Get(entry))
	})
}

// EmitEvent implements sketchpad.EventStore.
func (m *SceneMirror) EmitEvent(event sketchpad.Event) {
	switch event.Type {
	case sketchpad.EventComponentAdded, sketchpad.EventComponentUpdated:
		for _, id := range event.IDs {
			m.sync(id)
		}
	case sketchpad.EventComponentDeleted:
		for _, id := range event.IDs {
			if e, ok := m.entities[id]; ok {
				if m.world.Valid(e) {
					m.world.Remove(e)
				}
				delete(m.entities, id)
			}
		}
	case sketchpad.EventSelectionChanged:
		m.Each(func(d *ComponentData) {
			d.Selected = m.scene.IsSelected(d.ID)
		})
	}
	EngineEventType.Publish(m.world, event)
}

// sync copies the scene component's state into its entity, creating the
// entity on first sight.
func (m *SceneMirror) sync(id string) {
	c, ok := m.scene.Component(id)
	if !ok {
		return
	}
	e, ok := m.entities[id]
	if !ok || !m.world.Valid(e) {
		e = m.world.Create(Component)
		m.entities[id] = e
	}
	Component.SetValue(m.world.Entry(e), ComponentData{
		ID:       c.ID,
		Kind:     c.Kind,
		Bounds:   c.Bounds(),
		Rotation: c.Rotation,
		Locked:   c.Locked,
		GroupID:  c.GroupID,
		Selected: m.scene.IsSelected(c.ID),
	})
}
