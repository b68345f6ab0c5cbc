package game

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/catchme/internal/model"
)

// Keys of the persisted record and preferences.
const (
	KeyDarkMode  = "darkMode"
	KeyBestScore = "bestScore"
	KeyHistory   = "gameHistory"
)

// HistoryLimit is the number of completed rounds kept in the history.
const HistoryLimit = 5

// LoadState reads the record and preferences from kv. Absent or malformed
// values fall back to their defaults; the returned errors only describe what
// was substituted.
func LoadState(kv KV) (model.Record, model.Preferences, []error) {
	var errs []error
	rec := model.Record{History: []int{}}
	var prefs model.Preferences

	if raw, ok, err := kv.Get(KeyDarkMode); err != nil {
		errs = append(errs, fmt.Errorf("failed to read %s: %w", KeyDarkMode, err))
	} else if ok {
		prefs.DarkMode = raw == "true"
	}

	if raw, ok, err := kv.Get(KeyBestScore); err != nil {
		errs = append(errs, fmt.Errorf("failed to read %s: %w", KeyBestScore, err))
	} else if ok {
		best, err := decodeBestScore(raw)
		if err != nil {
			errs = append(errs, err)
		}
		rec.BestScore = best
	}

	if raw, ok, err := kv.Get(KeyHistory); err != nil {
		errs = append(errs, fmt.Errorf("failed to read %s: %w", KeyHistory, err))
	} else if ok {
		history, err := decodeHistory(raw)
		if err != nil {
			errs = append(errs, err)
		}
		rec.History = history
	}
	return rec, prefs, errs
}

func decodeBestScore(raw string) (int, error) {
	best, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", KeyBestScore, raw, err)
	}
	if best < 0 {
		return 0, fmt.Errorf("invalid %s %q: negative", KeyBestScore, raw)
	}
	return best, nil
}

func decodeHistory(raw string) ([]int, error) {
	var history []int
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return []int{}, fmt.Errorf("invalid %s %q: %w", KeyHistory, raw, err)
	}
	for _, score := range history {
		if score < 0 {
			return []int{}, fmt.Errorf("invalid %s %q: negative score", KeyHistory, raw)
		}
	}
	if history == nil {
		history = []int{}
	}
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	return history, nil
}

func encodeHistory(history []int) string {
	if history == nil {
		history = []int{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		// []int always marshals.
		return "[]"
	}
	return string(data)
}

func encodeBool(v bool) string {
	return strconv.FormatBool(v)
}

// pushHistory prepends score and keeps the newest HistoryLimit entries.
func pushHistory(history []int, score int) []int {
	out := make([]int, 0, HistoryLimit)
	out = append(out, score)
	for _, s := range history {
		if len(out) == HistoryLimit {
			break
		}
		out = append(out, s)
	}
	return out
}
