package bgew

import "time"

// Timer fires a callback after a fixed amount of accumulated tick time.
// It is driven by explicit Update calls from its owning step, never by the
// wall clock.
//
// A single Update fires the timer at most once. Any excess time past the
// target is discarded, so a large delta does not produce a burst of catch-up
// calls.
type Timer struct {
	target   time.Duration
	counter  time.Duration
	repeat   bool
	loop     int
	callback func(*Timer)
	onRemove func(*Timer)
	removed  bool
}

// NewTimer returns a timer that calls fn every d of accumulated time. A
// non-repeating timer fires once and then signals its removal.
func NewTimer(d time.Duration, fn func(*Timer), repeat bool) *Timer {
	return &Timer{target: d, callback: fn, repeat: repeat}
}

// Update advances the timer by delta.
func (t *Timer) Update(delta time.Duration) {
	if t.removed {
		return
	}
	t.counter += delta
	if t.counter < t.target {
		return
	}
	if t.callback != nil {
		t.callback(t)
	}
	t.counter = 0
	t.loop++
	if !t.repeat {
		t.signalRemove()
	}
}

// Stop cancels the timer and signals its removal immediately.
func (t *Timer) Stop() {
	t.repeat = false
	t.signalRemove()
}

// Reset zeroes the elapsed counter without touching the loop count.
func (t *Timer) Reset() {
	t.counter = 0
}

func (t *Timer) signalRemove() {
	if t.removed {
		return
	}
	t.removed = true
	if t.onRemove != nil {
		t.onRemove(t)
	}
}

// OnRemove sets the callback invoked exactly once when the timer finishes or
// is stopped. Steps use it to drop the timer from their list.
func (t *Timer) OnRemove(fn func(*Timer)) {
	t.onRemove = fn
}

// Target returns the time between fires.
func (t *Timer) Target() time.Duration { return t.target }

// SetTarget changes the time between fires.
func (t *Timer) SetTarget(d time.Duration) { t.target = d }

// Counter returns the time accumulated since the last fire.
func (t *Timer) Counter() time.Duration { return t.counter }

// Loop returns how many times the timer has fired.
func (t *Timer) Loop() int { return t.loop }

// Repeat reports whether the timer re-arms after firing.
func (t *Timer) Repeat() bool { return t.repeat }

// SetRepeat changes whether the timer re-arms after firing.
func (t *Timer) SetRepeat(repeat bool) { t.repeat = repeat }

// Stopped reports whether the timer has finished or been stopped.
func (t *Timer) Stopped() bool { return t.removed }
