package store

import "github.com/verte-zerg/catchme/internal/model"

// Memory is an in-process key-value store. Values vanish with the process.
type Memory struct {
	values map[string]string
	rounds []model.RoundResult
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

// Get implements game.KV.
func (m *Memory) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements game.KV.
func (m *Memory) Set(key, value string) error {
	m.values[key] = value
	return nil
}

// RecordRound implements game.Journal.
func (m *Memory) RecordRound(round model.RoundResult) error {
	m.rounds = append(m.rounds, round)
	return nil
}

// Rounds returns the journaled rounds, oldest first.
func (m *Memory) Rounds() []model.RoundResult {
	out := make([]model.RoundResult, len(m.rounds))
	copy(out, m.rounds)
	return out
}
