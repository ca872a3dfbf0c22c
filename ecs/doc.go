// Package ecs bridges bgew interaction events into a [Donburi] world.
//
// [NewDonburiStore] returns a [bgew.EventStore] that publishes every pointer,
// key and collision interaction as a typed donburi event. Subscribe to
// [InteractionEventType] in ECS systems and drain the queue once per frame:
//
//	store := ecs.NewDonburiStore(world)
//	board.SetEventStore(store)
//	ecs.InteractionEventType.Subscribe(world, onInteraction)
//	// each frame
//	ecs.InteractionEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
