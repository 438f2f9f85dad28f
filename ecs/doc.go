// Package ecs provides ECS adapters for sketchpad's engine events.
//
// [NewDonburiStore] bridges engine events (component added, updated and
// deleted, selection, viewport and state changes, committed paths) into a
// [Donburi] world as typed events. Subscribe to [EngineEventType] in your
// ECS systems to receive them.
//
// [NewSceneMirror] additionally keeps one entity per scene component so
// systems can query geometry and selection with ordinary Donburi queries.
//
// Usage:
//
//	mirror := ecs.NewSceneMirror(world, engine.Scene())
//	engine.SetEventStore(mirror)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
