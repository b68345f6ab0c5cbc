// Package model defines shared data structures.
package model

import "time"

// Phase is the lifecycle stage of a round.
type Phase int

const (
	// PhaseIdle is the initial phase: no timer, no target.
	PhaseIdle Phase = iota
	// PhaseRunning counts down once per second while the target is live.
	PhaseRunning
	// PhaseEnded holds the final score until the next round starts.
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Position is a target coordinate in percent of the arena.
type Position struct {
	Top  int
	Left int
}

// Bounds is a half-open percentage range [Min, Max).
type Bounds struct {
	Min int
	Max int
}

// Config defines play settings.
type Config struct {
	Duration  int
	Profile   string
	Ephemeral bool
	Seed      int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Profile     string
	Duration    int
	Last        int
	CurveWindow int
}

// Record is the persisted best score plus the last completed rounds.
type Record struct {
	BestScore int
	// History is most-recent-first.
	History []int
}

// Preferences holds persisted display settings.
type Preferences struct {
	DarkMode bool
}

// Snapshot is a read-only projection of the game for rendering.
type Snapshot struct {
	Phase         Phase
	Score         int
	TimeRemaining int
	RoundDuration int
	Target        Position
	Record        Record
	Preferences   Preferences
	MenuOpen      bool
	NewRecord     bool
	Pulse         bool
}

// RoundResult captures a completed round.
type RoundResult struct {
	ID        string
	Profile   string
	StartedAt time.Time
	EndedAt   time.Time
	Duration  int
	Score     int
	NewRecord bool
}

// RoundAggregate summarizes a stored round for reporting.
type RoundAggregate struct {
	ID        string
	EndedAt   time.Time
	Duration  int
	Score     int
	NewRecord bool
}
