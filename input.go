package bgew

// InputEvent is a pointer or keyboard event. Hosts fill Type, the screen
// coordinates, and the button or key; the board fills X, Y and Target while
// routing.
type InputEvent struct {
	Type string
	// ScreenX and ScreenY are surface pixels, before board scale.
	ScreenX, ScreenY float64
	// X and Y are board-space coordinates.
	X, Y   float64
	Button MouseButton
	// WheelX and WheelY are scroll deltas for EventWheel.
	WheelX, WheelY float64
	// Key is the key name for keyboard events ("a", "Enter", "ArrowLeft").
	Key       string
	Modifiers KeyModifiers
	// Target is the entity the event is being delivered to, nil on the
	// board dispatcher.
	Target *Entity
}

// IsKeyboard reports whether ev is a keyboard event.
func (ev InputEvent) IsKeyboard() bool {
	switch ev.Type {
	case EventKeyDown, EventKeyUp, EventKeyPress:
		return true
	}
	return false
}

// PushEvent queues an input event for the next tick. It is safe to call from
// any goroutine.
func (b *Board) PushEvent(ev InputEvent) {
	b.queueMu.Lock()
	b.queue = append(b.queue, ev)
	b.queueMu.Unlock()
}

// PendingEvents returns the number of queued input events.
func (b *Board) PendingEvents() int {
	b.queueMu.Lock()
	defer b.queueMu.Unlock()
	return len(b.queue)
}

// takeEvents swaps out the pending queue. Events pushed while the returned
// batch is processed wait for the next tick.
func (b *Board) takeEvents() []InputEvent {
	b.queueMu.Lock()
	batch := b.queue
	b.queue = b.spare[:0]
	b.queueMu.Unlock()
	b.spare = batch
	return batch
}

// processInput handles every queued pointer event, then every queued
// keyboard event, each in arrival order.
func (b *Board) processInput() {
	batch := b.takeEvents()
	if len(batch) == 0 {
		return
	}
	for i := range batch {
		if !batch[i].IsKeyboard() {
			b.routePointer(batch[i])
		}
	}
	for i := range batch {
		if batch[i].IsKeyboard() {
			b.routeKey(batch[i])
		}
	}
	clear(batch)
}

// toBoardSpace converts surface pixels to board coordinates: undo the board
// scale, then add the camera offset.
func (b *Board) toBoardSpace(sx, sy float64) (float64, float64) {
	x, y := sx, sy
	if b.scale != 0 {
		x /= b.scale
		y /= b.scale
	}
	if b.step != nil {
		x += b.step.camera.X
		y += b.step.camera.Y
	}
	return x, y
}

func (b *Board) routePointer(ev InputEvent) {
	ev.X, ev.Y = b.toBoardSpace(ev.ScreenX, ev.ScreenY)
	ev.Target = nil
	b.events.Dispatch(ev.Type, ev)
	routePointer(snapshotEntities(b.entities), ev)
}

// routePointer applies hover, focus and dispatch rules to every enabled,
// visible entity in list. It reports whether any of them was hit.
func routePointer(list []*Entity, ev InputEvent) bool {
	anyHit := false
	for _, e := range list {
		if e.Disabled || !e.Visible() {
			continue
		}
		hit := e.containsPoint(ev.X, ev.Y)
		if e.kind == KindContainer && routePointer(snapshotEntities(e.children), ev) {
			hit = true
		}
		if hit {
			anyHit = true
			switch ev.Type {
			case EventMouseMove:
				if !e.hovered {
					e.hovered = true
					enter := ev
					enter.Type = EventMouseEnter
					e.Dispatch(EventMouseEnter, enter)
				}
			case EventClick:
				e.focus = true
			}
			e.Dispatch(ev.Type, ev)
			continue
		}
		switch ev.Type {
		case EventMouseMove:
			if e.hovered {
				e.hovered = false
				leave := ev
				leave.Type = EventMouseLeave
				e.Dispatch(EventMouseLeave, leave)
			}
		case EventClick:
			e.focus = false
		}
	}
	return anyHit
}

func (b *Board) routeKey(ev InputEvent) {
	ev.Target = nil
	b.events.Dispatch(ev.Type, ev)
	routeKey(snapshotEntities(b.entities), ev)
}

func routeKey(list []*Entity, ev InputEvent) {
	for _, e := range list {
		if e.Disabled || !e.Visible() {
			continue
		}
		if e.focus {
			e.Dispatch(ev.Type, ev)
		}
		if e.kind == KindContainer {
			routeKey(snapshotEntities(e.children), ev)
		}
	}
}
