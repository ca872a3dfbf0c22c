package bgew

import (
	"sync"
	"time"
)

// Clock is the time source the board measures tick deltas with.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Scheduler calls tick repeatedly, roughly every interval, until Stop.
type Scheduler interface {
	Start(interval time.Duration, tick func())
	Stop()
}

// TickerScheduler drives ticks from a time.Ticker on its own goroutine.
type TickerScheduler struct {
	mu   sync.Mutex
	done chan struct{}
}

// NewTickerScheduler returns an idle scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

// Start launches the ticker goroutine. A running schedule is replaced.
func (s *TickerScheduler) Start(interval time.Duration, tick func()) {
	s.Stop()
	done := make(chan struct{})
	s.mu.Lock()
	s.done = done
	s.mu.Unlock()

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				select {
				case <-done:
					return
				default:
				}
				tick()
			}
		}
	}()
}

// Stop ends the schedule. It does not wait for an in-flight tick, so it is
// safe to call from inside one.
func (s *TickerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}

// ManualScheduler is a virtual clock and scheduler for tests. Time only
// moves on Advance, and every interval boundary crossed fires one tick with
// Now reporting that boundary.
type ManualScheduler struct {
	now      time.Time
	next     time.Time
	interval time.Duration
	tick     func()
	ticks    int
}

// NewManualScheduler returns a stopped scheduler whose clock reads start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now returns the virtual time.
func (m *ManualScheduler) Now() time.Time { return m.now }

// Start arms the schedule. The first tick fires one interval from Now.
func (m *ManualScheduler) Start(interval time.Duration, tick func()) {
	m.interval = interval
	m.tick = tick
	m.next = m.now.Add(interval)
}

// Stop disarms the schedule. Advance still moves the clock.
func (m *ManualScheduler) Stop() {
	m.tick = nil
}

// Ticks returns the number of ticks fired so far.
func (m *ManualScheduler) Ticks() int { return m.ticks }

// Advance moves the clock forward by d, firing every tick that falls due.
// A tick may call Stop, which ends the loop.
func (m *ManualScheduler) Advance(d time.Duration) {
	target := m.now.Add(d)
	for m.tick != nil && m.interval > 0 && !m.next.After(target) {
		m.now = m.next
		m.next = m.next.Add(m.interval)
		m.ticks++
		m.tick()
	}
	m.now = target
}

// Step fires exactly n ticks, advancing the clock one interval per tick.
func (m *ManualScheduler) Step(n int) {
	for i := 0; i < n && m.tick != nil; i++ {
		m.Advance(m.next.Sub(m.now))
	}
}
