package bgew

import (
	"testing"
	"time"
)

func TestTimerNoBacklog(t *testing.T) {
	calls := 0
	tm := NewTimer(100*time.Millisecond, func(*Timer) { calls++ }, true)

	tm.Update(60 * time.Millisecond)
	if calls != 0 {
		t.Fatalf("calls after 60ms = %d, want 0", calls)
	}
	tm.Update(60 * time.Millisecond)
	if calls != 1 {
		t.Errorf("calls after 120ms = %d, want 1", calls)
	}
	if tm.Counter() != 0 {
		t.Errorf("Counter = %v, want 0", tm.Counter())
	}
	if tm.Loop() != 1 {
		t.Errorf("Loop = %d, want 1", tm.Loop())
	}
}

func TestTimerFiresOncePerUpdate(t *testing.T) {
	calls := 0
	tm := NewTimer(10*time.Millisecond, func(*Timer) { calls++ }, true)
	tm.Update(time.Second)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestTimerNonRepeatingRemovesOnce(t *testing.T) {
	calls, removals := 0, 0
	tm := NewTimer(50*time.Millisecond, func(*Timer) { calls++ }, false)
	tm.OnRemove(func(*Timer) { removals++ })

	tm.Update(50 * time.Millisecond)
	tm.Update(50 * time.Millisecond)
	tm.Stop()

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if removals != 1 {
		t.Errorf("removals = %d, want 1", removals)
	}
	if !tm.Stopped() {
		t.Error("Stopped = false, want true")
	}
}

func TestTimerStop(t *testing.T) {
	removals := 0
	tm := NewTimer(time.Second, nil, true)
	tm.OnRemove(func(*Timer) { removals++ })
	tm.Stop()
	if tm.Repeat() {
		t.Error("Repeat = true after Stop, want false")
	}
	if removals != 1 {
		t.Errorf("removals = %d, want 1", removals)
	}
}
