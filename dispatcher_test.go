package bgew

import "testing"

func TestDispatcherOrder(t *testing.T) {
	d := NewDispatcher[int]()
	var got []string
	d.On(AllEvents, func(int) { got = append(got, "all") })
	d.On("hit", func(int) { got = append(got, "a") })
	d.On("hit", func(int) { got = append(got, "b") })

	d.Dispatch("hit", 1)

	want := []string{"a", "b", "all"}
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDispatcherOnce(t *testing.T) {
	d := NewDispatcher[int]()
	calls := 0
	d.On("ping", func(int) { calls++ }, Once())

	d.Dispatch("ping", 0)
	d.Dispatch("ping", 0)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n := d.Count("ping"); n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}

func TestDispatcherOnceNestedDispatch(t *testing.T) {
	d := NewDispatcher[int]()
	calls := 0
	d.On("ping", func(depth int) {
		calls++
		if depth == 0 {
			d.Dispatch("ping", 1)
		}
	}, Once())

	d.Dispatch("ping", 0)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDispatcherSnapshot(t *testing.T) {
	d := NewDispatcher[int]()
	var second Subscription
	secondCalls := 0
	addedCalls := 0
	d.On("e", func(int) {
		second.Remove()
		d.On("e", func(int) { addedCalls++ })
	})
	second = d.On("e", func(int) { secondCalls++ })

	d.Dispatch("e", 0)
	if secondCalls != 1 {
		t.Errorf("removed-during-dispatch callback calls = %d, want 1", secondCalls)
	}
	if addedCalls != 0 {
		t.Errorf("added-during-dispatch callback calls = %d, want 0", addedCalls)
	}

	d.Dispatch("e", 0)
	if secondCalls != 1 {
		t.Errorf("second pass: removed callback calls = %d, want 1", secondCalls)
	}
	if addedCalls != 1 {
		t.Errorf("second pass: added callback calls = %d, want 1", addedCalls)
	}
}

func TestDispatcherOff(t *testing.T) {
	d := NewDispatcher[string]()
	calls := 0
	sub := d.On("x", func(string) { calls++ })
	d.Off("x", sub)
	d.Off("x", sub)
	d.Off("missing", sub)
	Subscription{}.Remove()

	d.Dispatch("x", "")
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
	if len(d.Names()) != 0 {
		t.Errorf("Names = %v, want empty", d.Names())
	}
}

func TestDispatcherOffForeignSubscription(t *testing.T) {
	a := NewDispatcher[string]()
	b := NewDispatcher[string]()
	var got []string
	subA := a.On("x", func(string) { got = append(got, "a") })
	b.On("x", func(string) { got = append(got, "b") })

	// Both handlers carry id 1 in their own dispatcher.
	b.Off("x", subA)
	a.Dispatch("x", "")
	b.Dispatch("x", "")

	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("calls = %v, want [a b]", got)
	}
	if n := b.Count("x"); n != 1 {
		t.Errorf("b.Count = %d, want 1", n)
	}

	a.Off("x", subA)
	if n := a.Count("x"); n != 0 {
		t.Errorf("a.Count after own Off = %d, want 0", n)
	}
}

func TestDispatcherAllOnlyOnce(t *testing.T) {
	d := NewDispatcher[int]()
	calls := 0
	d.On(AllEvents, func(int) { calls++ })
	d.Dispatch(AllEvents, 0)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDispatcherPayload(t *testing.T) {
	d := NewDispatcher[InputEvent]()
	var got InputEvent
	d.On(EventClick, func(ev InputEvent) { got = ev })
	d.Dispatch(EventClick, InputEvent{Type: EventClick, X: 3, Y: 4})
	if got.X != 3 || got.Y != 4 {
		t.Errorf("payload = (%v,%v), want (3,4)", got.X, got.Y)
	}
}
