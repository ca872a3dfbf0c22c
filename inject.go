package bgew

// Synthetic input. Injected gestures use surface coordinates, the same
// space hosts report real pointer positions in, and go through the normal
// input queue. Each gesture step is released into the queue on its own
// tick, so a click spans two ticks and a drag spans its frame count.

func (b *Board) injectFrame(events ...InputEvent) {
	b.inject = append(b.inject, events)
}

// Injecting reports whether injected gesture steps are still waiting.
func (b *Board) Injecting() bool { return len(b.inject) > 0 }

// feedInjected moves the next injected step into the input queue.
func (b *Board) feedInjected() {
	if len(b.inject) == 0 {
		return
	}
	frame := b.inject[0]
	b.inject[0] = nil
	b.inject = b.inject[1:]
	for _, ev := range frame {
		b.PushEvent(ev)
	}
}

func pointerEvent(typ string, x, y float64, button MouseButton) InputEvent {
	return InputEvent{Type: typ, ScreenX: x, ScreenY: y, Button: button}
}

// InjectMove queues a pointer move to (x, y).
func (b *Board) InjectMove(x, y float64) {
	b.injectFrame(pointerEvent(EventMouseMove, x, y, MouseButtonLeft))
}

// InjectPress queues a left button press at (x, y).
func (b *Board) InjectPress(x, y float64) {
	b.injectFrame(
		pointerEvent(EventMouseMove, x, y, MouseButtonLeft),
		pointerEvent(EventMouseDown, x, y, MouseButtonLeft),
	)
}

// InjectRelease queues a left button release at (x, y) followed by the
// click it produces.
func (b *Board) InjectRelease(x, y float64) {
	b.injectFrame(
		pointerEvent(EventMouseUp, x, y, MouseButtonLeft),
		pointerEvent(EventClick, x, y, MouseButtonLeft),
	)
}

// InjectClick queues a press and a release at (x, y). It consumes two ticks.
func (b *Board) InjectClick(x, y float64) {
	b.InjectPress(x, y)
	b.InjectRelease(x, y)
}

// InjectDoubleClick queues two clicks and the dblclick that follows them.
func (b *Board) InjectDoubleClick(x, y float64) {
	b.InjectClick(x, y)
	b.InjectClick(x, y)
	b.injectFrame(pointerEvent(EventDblClick, x, y, MouseButtonLeft))
}

// InjectRightClick queues a right button press and release with its
// contextmenu event.
func (b *Board) InjectRightClick(x, y float64) {
	b.injectFrame(
		pointerEvent(EventMouseMove, x, y, MouseButtonRight),
		pointerEvent(EventMouseDown, x, y, MouseButtonRight),
	)
	b.injectFrame(
		pointerEvent(EventMouseUp, x, y, MouseButtonRight),
		pointerEvent(EventContextMenu, x, y, MouseButtonRight),
	)
}

// InjectDrag queues a press at (fromX, fromY), linearly interpolated moves,
// and a release at (toX, toY), spread over frames ticks. frames is at
// least 2.
func (b *Board) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	b.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		b.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	b.injectFrame(
		pointerEvent(EventMouseMove, toX, toY, MouseButtonLeft),
		pointerEvent(EventMouseUp, toX, toY, MouseButtonLeft),
	)
}

// InjectKey queues keydown, keypress for single characters, and keyup for
// key in one tick.
func (b *Board) InjectKey(key string, mods KeyModifiers) {
	frame := []InputEvent{{Type: EventKeyDown, Key: key, Modifiers: mods}}
	if len([]rune(key)) == 1 {
		frame = append(frame, InputEvent{Type: EventKeyPress, Key: key, Modifiers: mods})
	}
	frame = append(frame, InputEvent{Type: EventKeyUp, Key: key, Modifiers: mods})
	b.injectFrame(frame...)
}
