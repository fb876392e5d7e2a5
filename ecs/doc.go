// Package ecs provides ECS adapters for sway's animation lifecycle events.
//
// The primary adapter is [NewDonburiSink], which bridges sway lifecycle
// events (start, play, pause, rewind, step complete, complete, kill) into a
// [Donburi] world as typed events. Subscribe to [AnimationEventType] in your
// ECS systems to receive them. Tag animations with SetID, for example with
// the entity they animate, to route events back to their owner.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	manager.SetEventSink(sink)
//
// Pass event kinds to queue only those edges:
//
//	ecs.NewDonburiSink(world, sway.EventComplete, sway.EventKill)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
