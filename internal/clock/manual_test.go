package clock

import (
	"testing"
	"time"
)

func TestAdvanceFiresInDeadlineOrder(t *testing.T) {
	c := NewManual()
	var order []string
	c.Schedule(2*time.Second, func() { order = append(order, "b") })
	c.Schedule(time.Second, func() { order = append(order, "a") })
	c.Schedule(3*time.Second, func() { order = append(order, "c") })

	c.Advance(2 * time.Second)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("unexpected order: %v", order)
	}
	if c.Pending() != 1 {
		t.Fatalf("expected 1 pending timer, got %d", c.Pending())
	}
}

func TestCancelPreventsFiring(t *testing.T) {
	c := NewManual()
	fired := false
	cancel := c.Schedule(time.Second, func() { fired = true })
	cancel()
	cancel()
	c.Advance(5 * time.Second)
	if fired {
		t.Fatalf("cancelled timer fired")
	}
}

func TestRearmDuringAdvance(t *testing.T) {
	c := NewManual()
	count := 0
	var arm func()
	arm = func() {
		c.Schedule(time.Second, func() {
			count++
			arm()
		})
	}
	arm()
	c.Advance(3500 * time.Millisecond)
	if count != 3 {
		t.Fatalf("expected 3 firings, got %d", count)
	}
	if c.Now() != 3500*time.Millisecond {
		t.Fatalf("unexpected now: %v", c.Now())
	}
}
