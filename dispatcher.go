package bgew

// AllEvents is the reserved event name whose subscribers receive every
// dispatched event after the named subscribers have run.
const AllEvents = "all"

type handler[T any] struct {
	id    uint32
	fn    func(T)
	once  bool
	fired bool
}

// Dispatcher is a named-event publish/subscribe hub. Callbacks run in
// registration order. Dispatch iterates over a snapshot, so callbacks may
// subscribe or unsubscribe freely while an event is in flight.
//
// A Dispatcher is not safe for concurrent use; the board only touches it
// from inside a tick.
type Dispatcher[T any] struct {
	buckets map[string][]*handler[T]
	nextID  uint32
}

// Subscription identifies a registered callback. Pass it to Dispatcher.Off or
// call Remove to unsubscribe.
type Subscription struct {
	id     uint32
	name   string
	owner  any
	remove func(name string, id uint32)
}

// Remove unsubscribes the callback. Calling Remove more than once, or on the
// zero Subscription, is a no-op.
func (s Subscription) Remove() {
	if s.remove != nil {
		s.remove(s.name, s.id)
	}
}

// SubscribeOption configures a subscription.
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	once bool
}

// Once makes the subscription fire at most one time. It is removed before
// its single invocation.
func Once() SubscribeOption {
	return func(o *subscribeOptions) { o.once = true }
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher[T any]() *Dispatcher[T] {
	return &Dispatcher[T]{buckets: make(map[string][]*handler[T])}
}

// On registers fn under name.
func (d *Dispatcher[T]) On(name string, fn func(T), opts ...SubscribeOption) Subscription {
	var o subscribeOptions
	for _, opt := range opts {
		opt(&o)
	}
	if d.buckets == nil {
		d.buckets = make(map[string][]*handler[T])
	}
	d.nextID++
	h := &handler[T]{id: d.nextID, fn: fn, once: o.once}
	d.buckets[name] = append(d.buckets[name], h)
	return Subscription{id: h.id, name: name, owner: d, remove: d.remove}
}

// Off removes the subscription from name. Unknown subscriptions, including
// ones returned by another dispatcher, are ignored.
func (d *Dispatcher[T]) Off(name string, sub Subscription) {
	if sub.owner != any(d) {
		return
	}
	d.remove(name, sub.id)
}

func (d *Dispatcher[T]) remove(name string, id uint32) {
	list := d.buckets[name]
	for i, h := range list {
		if h.id != id {
			continue
		}
		copy(list[i:], list[i+1:])
		list[len(list)-1] = nil
		list = list[:len(list)-1]
		if len(list) == 0 {
			delete(d.buckets, name)
		} else {
			d.buckets[name] = list
		}
		return
	}
}

// Dispatch invokes every callback registered under name, then every callback
// registered under AllEvents.
func (d *Dispatcher[T]) Dispatch(name string, ev T) {
	d.fire(name, ev)
	if name != AllEvents {
		d.fire(AllEvents, ev)
	}
}

func (d *Dispatcher[T]) fire(name string, ev T) {
	list := d.buckets[name]
	if len(list) == 0 {
		return
	}
	snapshot := make([]*handler[T], len(list))
	copy(snapshot, list)
	for _, h := range snapshot {
		if h.once {
			if h.fired {
				continue
			}
			h.fired = true
			d.remove(name, h.id)
		}
		h.fn(ev)
	}
}

// Count returns the number of callbacks registered under name.
func (d *Dispatcher[T]) Count(name string) int {
	return len(d.buckets[name])
}

// Names returns the event names that currently have subscribers.
func (d *Dispatcher[T]) Names() []string {
	names := make([]string, 0, len(d.buckets))
	for name := range d.buckets {
		names = append(names, name)
	}
	return names
}

// Clear removes every subscription.
func (d *Dispatcher[T]) Clear() {
	clear(d.buckets)
}
