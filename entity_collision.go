package bgew

import "github.com/phanxgames/bgew/collision"

// WatchKind tags a collision watch.
type WatchKind uint8

const (
	WatchPoint  WatchKind = iota // the entity covers a fixed board-space point
	WatchEntity                  // the entity overlaps the entity with EntityID
	WatchAny                     // the entity overlaps any other body
)

// WatchKey identifies a collision watch. Only the fields relevant to Kind are
// set.
type WatchKey struct {
	Kind     WatchKind
	X, Y     float64
	EntityID string
}

// CollisionEvent is delivered to collision watch callbacks.
type CollisionEvent struct {
	Key    WatchKey
	Entity *Entity
	// Other is the entity collided with. Nil for point watches.
	Other *Entity
	// Point is the watched point for point watches.
	Point Vec2
	// Result is a copy of the narrow-phase result. Zero for point watches.
	Result collision.Result
}

const watchEventName = "collision"

// watchRegistry maps structured watch keys to subscriber lists, in the order
// the keys were first registered.
type watchRegistry struct {
	keys []WatchKey
	subs map[WatchKey]*Dispatcher[CollisionEvent]
}

func (w *watchRegistry) on(key WatchKey, fn func(CollisionEvent), opts []SubscribeOption) Subscription {
	if w.subs == nil {
		w.subs = make(map[WatchKey]*Dispatcher[CollisionEvent])
	}
	d, ok := w.subs[key]
	if !ok {
		d = NewDispatcher[CollisionEvent]()
		w.subs[key] = d
		w.keys = append(w.keys, key)
	}
	return d.On(watchEventName, fn, opts...)
}

// active returns the keys that still have subscribers and drops the rest.
func (w *watchRegistry) active() []WatchKey {
	live := w.keys[:0]
	for _, k := range w.keys {
		if w.subs[k].Count(watchEventName) > 0 {
			live = append(live, k)
		} else {
			delete(w.subs, k)
		}
	}
	w.keys = live
	out := make([]WatchKey, len(live))
	copy(out, live)
	return out
}

func (w *watchRegistry) len() int { return len(w.keys) }

// OnIntersectPoint calls fn on every collision pass during which the entity
// covers the board-space point (x, y).
func (e *Entity) OnIntersectPoint(x, y float64, fn func(CollisionEvent), opts ...SubscribeOption) Subscription {
	return e.watches.on(WatchKey{Kind: WatchPoint, X: x, Y: y}, fn, opts)
}

// OnIntersectEntity calls fn on every collision pass during which the entity
// overlaps the entity with the given id.
func (e *Entity) OnIntersectEntity(id string, fn func(CollisionEvent), opts ...SubscribeOption) Subscription {
	return e.watches.on(WatchKey{Kind: WatchEntity, EntityID: id}, fn, opts)
}

// OnIntersectAny calls fn once per overlapping entity on every collision
// pass.
func (e *Entity) OnIntersectAny(fn func(CollisionEvent), opts ...SubscribeOption) Subscription {
	return e.watches.on(WatchKey{Kind: WatchAny}, fn, opts)
}

// IntersectWithEntity runs the narrow-phase test between the two entities'
// bodies. Both must be attached to the same board.
func (e *Entity) IntersectWithEntity(other *Entity) bool {
	b := e.board
	if b == nil || other == nil || other == e {
		return false
	}
	if !b.collision.Contains(e.body) || !b.collision.Contains(other.body) {
		return false
	}
	return b.collision.Collides(e.body, other.body, b.result)
}

// IntersectWithEntities returns every entity in list that collides with e.
// Colliding containers contribute their colliding visible children first,
// then themselves.
func (e *Entity) IntersectWithEntities(list []*Entity) []*Entity {
	if e.board == nil {
		return nil
	}
	var out []*Entity
	for _, o := range list {
		if o == e || !e.IntersectWithEntity(o) {
			continue
		}
		if o.kind == KindContainer {
			var visible []*Entity
			for _, c := range o.children {
				if c.Visible() {
					visible = append(visible, c)
				}
			}
			out = append(out, e.IntersectWithEntities(visible)...)
		}
		out = append(out, o)
	}
	return out
}

// CheckCollisions evaluates every collision watch and dispatches the ones
// that hold. Containers then check their children.
func (e *Entity) CheckCollisions() {
	b := e.board
	if b == nil {
		return
	}
	if e.watches.len() > 0 {
		for _, key := range e.watches.active() {
			d := e.watches.subs[key]
			if d == nil {
				continue
			}
			switch key.Kind {
			case WatchPoint:
				if e.Intersect(key.X, key.Y) {
					e.dispatchCollision(d, CollisionEvent{Key: key, Entity: e, Point: Vec2{key.X, key.Y}})
				}
			case WatchEntity:
				other := b.lookup(key.EntityID)
				if other != nil && e.IntersectWithEntity(other) {
					e.dispatchCollision(d, CollisionEvent{Key: key, Entity: e, Other: other, Result: *b.result})
				}
			case WatchAny:
				if !b.collision.Contains(e.body) {
					continue
				}
				for _, body := range b.collision.Potentials(e.body) {
					other, _ := body.Owner.(*Entity)
					if other == nil || other == e {
						continue
					}
					if b.collision.Collides(e.body, body, b.result) {
						e.dispatchCollision(d, CollisionEvent{Key: key, Entity: e, Other: other, Result: *b.result})
					}
				}
			}
		}
	}
	if e.kind == KindContainer {
		for _, c := range snapshotEntities(e.children) {
			c.CheckCollisions()
		}
	}
}

func (e *Entity) dispatchCollision(d *Dispatcher[CollisionEvent], ev CollisionEvent) {
	d.Dispatch(watchEventName, ev)
	if e.board != nil {
		e.board.emit(interactionFromCollision(ev))
	}
}
