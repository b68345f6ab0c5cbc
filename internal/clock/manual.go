// Package clock provides a hand-driven scheduler for deterministic tests.
package clock

import (
	"sort"
	"time"
)

// Manual is a virtual clock. Callbacks run synchronously inside Advance, in
// deadline order, on the caller's goroutine.
type Manual struct {
	now    time.Duration
	seq    int
	timers []*timer
}

type timer struct {
	at  time.Duration
	seq int
	fn  func()
}

// NewManual returns a Manual clock at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Schedule arms fn to run once d has elapsed. The returned func cancels it.
func (m *Manual) Schedule(d time.Duration, fn func()) func() {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &timer{at: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return func() { m.remove(t) }
}

// Advance moves the clock forward by d, firing every callback that falls due,
// including ones armed by callbacks during the advance.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		next := m.earliest()
		if next == nil || next.at > target {
			break
		}
		m.remove(next)
		m.now = next.at
		next.fn()
	}
	m.now = target
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending returns the number of armed callbacks.
func (m *Manual) Pending() int {
	return len(m.timers)
}

func (m *Manual) earliest() *timer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].at == m.timers[j].at {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].at < m.timers[j].at
	})
	return m.timers[0]
}

func (m *Manual) remove(t *timer) {
	for i, cur := range m.timers {
		if cur == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}
