package ecs

import (
	"github.com/phanxgames/bgew"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for bgew interaction events.
var InteractionEventType = events.NewEventType[bgew.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world. Events
// are queued until ProcessEvents or events.ProcessAllEvents runs.
func NewDonburiStore(world donburi.World) bgew.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event bgew.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// Filter wraps a subscriber so it only sees events of the given types.
func Filter(fn func(donburi.World, bgew.InteractionEvent), types ...string) func(donburi.World, bgew.InteractionEvent) {
	return func(w donburi.World, e bgew.InteractionEvent) {
		for _, t := range types {
			if e.Type == t {
				fn(w, e)
				return
			}
		}
	}
}
