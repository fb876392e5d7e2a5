// Package ecs routes sway lifecycle events into a Donburi world.
package ecs

import (
	"github.com/phanxgames/sway"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// AnimationEventType carries tween and sequence lifecycle edges. Systems
// subscribe with AnimationEventType.Subscribe and drain the queue once per
// frame with ProcessEvents, after the manager's update passes.
var AnimationEventType = events.NewEventType[sway.AnimationEvent]()

type donburiSink struct {
	world donburi.World
	kinds uint32 // bit per EventKind; zero publishes everything
}

// NewDonburiSink returns a sink for Manager.SetEventSink that queues events
// on world. When kinds is given only those edges are queued.
func NewDonburiSink(world donburi.World, kinds ...sway.EventKind) sway.EventSink {
	s := &donburiSink{world: world}
	for _, k := range kinds {
		s.kinds |= 1 << k
	}
	return s
}

func (s *donburiSink) EmitEvent(event sway.AnimationEvent) {
	if s.kinds != 0 && s.kinds&(1<<event.Kind) == 0 {
		return
	}
	AnimationEventType.Publish(s.world, event)
}
