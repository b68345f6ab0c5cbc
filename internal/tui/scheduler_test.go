package tui

import (
	"testing"
	"time"
)

func TestSchedulerFireAndCancel(t *testing.T) {
	s := NewScheduler()
	var fired []string
	s.Schedule(time.Second, func() { fired = append(fired, "a") })
	cancel := s.Schedule(time.Second, func() { fired = append(fired, "b") })
	if s.Flush() == nil {
		t.Fatalf("expected pending commands")
	}
	if s.Flush() != nil {
		t.Fatalf("flush should drain commands")
	}

	cancel()
	if s.Fire(firedMsg{id: 2}) {
		t.Fatalf("cancelled callback fired")
	}
	if !s.Fire(firedMsg{id: 1}) {
		t.Fatalf("armed callback did not fire")
	}
	if s.Fire(firedMsg{id: 1}) {
		t.Fatalf("callback fired twice")
	}
	if len(fired) != 1 || fired[0] != "a" {
		t.Fatalf("unexpected firings: %v", fired)
	}
}
