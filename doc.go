// Package sketchpad is the interaction engine of a UI mockup canvas, hosted
// on [Ebitengine].
//
// Sketchpad owns the scene of mockup components (rectangles, circles,
// buttons, inputs, text, images and groups), the viewport that maps screen
// pixels to world units, and the state machine that turns pointer, touch and
// wheel input into drawing, selecting, moving, resizing, rotating, panning
// and zooming.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and feeds
// ebiten's mouse, touch, wheel and keyboard input to the engine:
//
//	engine := sketchpad.NewEngine(sketchpad.Config{})
//	sketchpad.Run(engine, sketchpad.RunConfig{
//		Title: "Mockup", Width: 1280, Height: 800, ShowHUD: true,
//	})
//
// For full control, implement [ebiten.Game] yourself and translate input
// into [Engine.PointerDown], [Engine.PointerMove], [Engine.PointerUp],
// [Engine.Wheel] and the Touch methods, then call [Engine.Update] and
// [Engine.Draw] every frame.
//
// # Scene
//
// A [Scene] is a flat, z-ordered list of [Component] values. Groups are
// components of [KindGroup] that list their children by id; the scene keeps
// the child and parent links consistent through [Scene.AddBatch],
// [Scene.Delete], [Scene.GroupSelected] and [Scene.Ungroup]. Selecting a
// group effectively selects its descendants.
//
// # Coordinates
//
// Components live in world units. The [Viewport] converts between screen
// and world:
//
//	screen = world*Zoom + Pan
//
// Rotation is in degrees, clockwise on screen, about the component center.
// Hit testing, handles and resizing work in each component's local frame,
// so rotated shapes resize along their own axes.
//
// # Interaction
//
// With the select tool a press on a handle resizes or rotates, a press on
// a component moves the effective selection, and a press on empty canvas
// clears the selection and pans. Locked components can be selected but
// never move. Shape tools drag out a preview that becomes a component when
// both sides exceed [Config.MinCommitSize]. The pen tool records freehand
// paths; touch and pen samples are rate limited and smoothed.
//
// In [Config.MobileMode] a second finger aborts the current gesture and
// starts a pinch that pans and zooms about the finger midpoint.
//
// # Events
//
// Register callbacks with [Engine.On] to be told about component, selection,
// viewport and state changes. [Engine.SetEventStore] forwards the same
// events to an ECS; see the sketchpad/ecs package for a [Donburi] adapter.
//
// # Automation
//
// [Engine.Snapshot] rasterizes the view in software for export, and
// [LoadTestScript] replays JSON scripts of synthetic input and snapshots.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package sketchpad
