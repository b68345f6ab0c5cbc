package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// firedMsg reports that the callback with the given id fell due.
type firedMsg struct {
	id int
}

// Scheduler implements game.Scheduler on top of Bubble Tea. Each callback
// becomes a tea.Tick command; callbacks run inside Update, never on the timer
// goroutine. Ticks of cancelled callbacks arrive but are dropped.
type Scheduler struct {
	nextID  int
	pending map[int]func()
	cmds    []tea.Cmd
}

// NewScheduler returns an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: map[int]func(){}}
}

// Schedule implements game.Scheduler.
func (s *Scheduler) Schedule(d time.Duration, fn func()) func() {
	s.nextID++
	id := s.nextID
	s.pending[id] = fn
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg {
		return firedMsg{id: id}
	}))
	return func() { delete(s.pending, id) }
}

// Fire runs the callback for msg if it is still armed.
func (s *Scheduler) Fire(msg firedMsg) bool {
	fn, ok := s.pending[msg.id]
	if !ok {
		return false
	}
	delete(s.pending, msg.id)
	fn()
	return true
}

// Flush returns the commands armed since the last flush.
func (s *Scheduler) Flush() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	return tea.Batch(cmds...)
}
