package bgew

// Pressable tracks whether a pointer button is held down on an entity. The
// press ends on mouseup or when the pointer leaves.
type Pressable struct {
	pressed bool
}

// Attach implements Behavior.
func (p *Pressable) Attach(e *Entity) {
	e.On(EventMouseDown, func(InputEvent) { p.pressed = true })
	e.On(EventMouseUp, func(InputEvent) { p.pressed = false })
	e.On(EventMouseLeave, func(InputEvent) { p.pressed = false })
}

// Pressed reports whether a button is held down on the entity.
func (p *Pressable) Pressed() bool { return p.pressed }

// Hoverable shows Cursor while the pointer is over the entity and restores
// the default cursor when it leaves.
type Hoverable struct {
	Cursor Cursor
}

// Attach implements Behavior.
func (h Hoverable) Attach(e *Entity) {
	e.On(EventMouseEnter, func(InputEvent) {
		if b := e.Board(); b != nil {
			b.ChangeCursor(h.Cursor)
		}
	})
	e.On(EventMouseLeave, func(InputEvent) {
		if b := e.Board(); b != nil {
			b.RestoreCursor()
		}
	})
}

// OnClick is a Behavior that runs for every click on the entity.
type OnClick func(e *Entity, ev InputEvent)

// Attach implements Behavior.
func (fn OnClick) Attach(e *Entity) {
	e.On(EventClick, func(ev InputEvent) { fn(e, ev) })
}
