package bgew

import (
	"sync"
	"testing"
)

// tickOnce runs one tick of the manual clock.
func tickOnce(s *ManualScheduler) { s.Step(1) }

func recordEvents(e *Entity) *[]string {
	var got []string
	e.On(AllEvents, func(ev InputEvent) { got = append(got, ev.Type) })
	return &got
}

func TestInputHoverEnterLeave(t *testing.T) {
	b, sched := newTestBoard(t, Config{})
	e := NewEntity(10, 10, 20, 20)
	b.AddEntity(e)
	got := recordEvents(e)

	b.PushEvent(InputEvent{Type: EventMouseMove, ScreenX: 15, ScreenY: 15})
	tickOnce(sched)
	if !e.Hovered() {
		t.Error("entity should be hovered")
	}
	b.PushEvent(InputEvent{Type: EventMouseMove, ScreenX: 20, ScreenY: 20})
	tickOnce(sched)
	b.PushEvent(InputEvent{Type: EventMouseMove, ScreenX: 100, ScreenY: 100})
	tickOnce(sched)
	if e.Hovered() {
		t.Error("entity should no longer be hovered")
	}

	want := []string{EventMouseEnter, EventMouseMove, EventMouseMove, EventMouseLeave}
	if len(*got) != len(want) {
		t.Fatalf("events = %v, want %v", *got, want)
	}
	for i := range want {
		if (*got)[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, (*got)[i], want[i])
		}
	}
}

func TestInputClickFocusAndKeys(t *testing.T) {
	b, sched := newTestBoard(t, Config{})
	a := NewEntity(0, 0, 10, 10)
	other := NewEntity(50, 50, 10, 10)
	b.AddEntities(a, other)

	var aKeys, otherKeys []string
	a.On(EventKeyDown, func(ev InputEvent) { aKeys = append(aKeys, ev.Key) })
	other.On(EventKeyDown, func(ev InputEvent) { otherKeys = append(otherKeys, ev.Key) })

	b.PushEvent(InputEvent{Type: EventClick, ScreenX: 5, ScreenY: 5})
	b.PushEvent(InputEvent{Type: EventKeyDown, Key: "x"})
	tickOnce(sched)

	if !a.Focus() || other.Focus() {
		t.Fatalf("focus a=%v other=%v, want true/false", a.Focus(), other.Focus())
	}
	if len(aKeys) != 1 || aKeys[0] != "x" {
		t.Errorf("a keys = %v, want [x]", aKeys)
	}
	if len(otherKeys) != 0 {
		t.Errorf("other keys = %v, want none", otherKeys)
	}

	// Clicking empty space blurs.
	b.PushEvent(InputEvent{Type: EventClick, ScreenX: 200, ScreenY: 200})
	b.PushEvent(InputEvent{Type: EventKeyDown, Key: "y"})
	tickOnce(sched)
	if a.Focus() {
		t.Error("click elsewhere should blur")
	}
	if len(aKeys) != 1 {
		t.Errorf("a keys = %v, want no keys after blur", aKeys)
	}
}

func TestInputPointerBeforeKeys(t *testing.T) {
	b, sched := newTestBoard(t, Config{})
	e := NewEntity(0, 0, 10, 10)
	b.AddEntity(e)
	keys := 0
	e.On(EventKeyDown, func(InputEvent) { keys++ })

	// The key arrives first but pointer events are processed first, so the
	// click focuses the entity before the key is routed.
	b.PushEvent(InputEvent{Type: EventKeyDown, Key: "a"})
	b.PushEvent(InputEvent{Type: EventClick, ScreenX: 5, ScreenY: 5})
	tickOnce(sched)

	if keys != 1 {
		t.Errorf("keys = %d, want 1", keys)
	}
}

func TestInputSkipsDisabledAndHidden(t *testing.T) {
	b, sched := newTestBoard(t, Config{})
	disabled := NewEntity(0, 0, 10, 10)
	disabled.Disabled = true
	hidden := NewEntity(0, 0, 10, 10)
	hidden.SetVisible(false)
	b.AddEntities(disabled, hidden)
	gotDisabled := recordEvents(disabled)
	gotHidden := recordEvents(hidden)

	b.PushEvent(InputEvent{Type: EventMouseMove, ScreenX: 5, ScreenY: 5})
	b.PushEvent(InputEvent{Type: EventClick, ScreenX: 5, ScreenY: 5})
	tickOnce(sched)

	if len(*gotDisabled) != 0 || len(*gotHidden) != 0 {
		t.Errorf("disabled got %v, hidden got %v, want none", *gotDisabled, *gotHidden)
	}
	if disabled.Focus() || hidden.Focus() {
		t.Error("skipped entities must not take focus")
	}
}

func TestInputReachesNestedChildren(t *testing.T) {
	b, sched := newTestBoard(t, Config{})
	c := NewContainer(100, 100, 10, 10)
	child := NewEntity(50, 50, 10, 10)
	c.AddEntity(child)
	b.AddEntity(c)
	gotChild := recordEvents(child)
	gotParent := recordEvents(c)

	b.PushEvent(InputEvent{Type: EventClick, ScreenX: 155, ScreenY: 155})
	tickOnce(sched)

	if len(*gotChild) != 1 || (*gotChild)[0] != EventClick {
		t.Errorf("child events = %v, want [click]", *gotChild)
	}
	if len(*gotParent) != 1 || (*gotParent)[0] != EventClick {
		t.Errorf("container events = %v, want [click] via its child", *gotParent)
	}
}

func TestInputBoardHandlerFirst(t *testing.T) {
	b, sched := newTestBoard(t, Config{})
	e := NewEntity(0, 0, 10, 10)
	b.AddEntity(e)

	var order []string
	var boardTarget *Entity = e
	b.On(EventClick, func(ev InputEvent) {
		order = append(order, "board")
		boardTarget = ev.Target
	})
	e.On(EventClick, func(InputEvent) { order = append(order, "entity") })

	b.PushEvent(InputEvent{Type: EventClick, ScreenX: 5, ScreenY: 5})
	tickOnce(sched)

	if len(order) != 2 || order[0] != "board" || order[1] != "entity" {
		t.Errorf("order = %v, want [board entity]", order)
	}
	if boardTarget != nil {
		t.Errorf("board handler Target = %v, want nil", boardTarget)
	}
}

func TestInputScreenToBoard(t *testing.T) {
	tests := []struct {
		name         string
		scale        float64
		camX, camY   float64
		sx, sy       float64
		wantX, wantY float64
	}{
		{"identity", 1, 0, 0, 40, 30, 40, 30},
		{"scaled", 2, 0, 0, 40, 30, 20, 15},
		{"camera", 1, 100, 50, 10, 10, 110, 60},
		{"scaled camera", 2, 100, 0, 40, 40, 120, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, sched := newTestBoard(t, Config{Scale: tt.scale})
			cam := b.Step().Camera()
			cam.X, cam.Y = tt.camX, tt.camY

			var got InputEvent
			b.On(EventMouseDown, func(ev InputEvent) { got = ev })
			b.PushEvent(InputEvent{Type: EventMouseDown, ScreenX: tt.sx, ScreenY: tt.sy})
			tickOnce(sched)

			assertNear(t, "X", got.X, tt.wantX)
			assertNear(t, "Y", got.Y, tt.wantY)
		})
	}
}

func TestInputPushEventConcurrent(t *testing.T) {
	b, _ := newTestBoard(t, Config{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.PushEvent(InputEvent{Type: EventMouseMove})
			}
		}()
	}
	wg.Wait()
	if n := b.PendingEvents(); n != 400 {
		t.Errorf("PendingEvents = %d, want 400", n)
	}
}

func TestInputEventsPushedDuringTickWait(t *testing.T) {
	b, sched := newTestBoard(t, Config{})
	e := NewEntity(0, 0, 10, 10)
	b.AddEntity(e)
	clicks := 0
	e.On(EventClick, func(InputEvent) {
		clicks++
		b.PushEvent(InputEvent{Type: EventClick, ScreenX: 5, ScreenY: 5})
	})

	b.PushEvent(InputEvent{Type: EventClick, ScreenX: 5, ScreenY: 5})
	tickOnce(sched)
	if clicks != 1 {
		t.Errorf("clicks after one tick = %d, want 1", clicks)
	}
	if b.PendingEvents() != 1 {
		t.Errorf("PendingEvents = %d, want 1", b.PendingEvents())
	}
}

func TestIsKeyboard(t *testing.T) {
	for _, typ := range []string{EventKeyDown, EventKeyUp, EventKeyPress} {
		if !(InputEvent{Type: typ}).IsKeyboard() {
			t.Errorf("%s should be a keyboard event", typ)
		}
	}
	if (InputEvent{Type: EventClick}).IsKeyboard() {
		t.Error("click is not a keyboard event")
	}
}
