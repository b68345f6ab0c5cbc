package stats

import (
	"context"

	"github.com/verte-zerg/catchme/internal/game"
	"github.com/verte-zerg/catchme/internal/model"
	"github.com/verte-zerg/catchme/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Rounds  []model.RoundAggregate
	Window  []model.RoundAggregate
	Summary Summary
	// Record is the persisted best score, which survives journal pruning.
	Record int
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	rounds, err := st.ListRounds(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(rounds) > cfg.Last {
		rounds = rounds[len(rounds)-cfg.Last:]
	}
	window := rounds
	if cfg.CurveWindow > 0 && len(rounds) > cfg.CurveWindow {
		window = rounds[len(rounds)-cfg.CurveWindow:]
	}

	summary := Summarize(rounds)
	report := Report{
		Rounds:  rounds,
		Window:  window,
		Summary: summary,
		Record:  summary.BestScore,
	}
	// Unreadable values fall back to defaults, as in the game.
	rec, _, _ := game.LoadState(st.KV(cfg.Profile))
	report.Record = max(report.Record, rec.BestScore)
	return report, nil
}
