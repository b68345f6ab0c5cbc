package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/catchme/internal/model"
	"github.com/verte-zerg/catchme/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catchme.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		round := model.RoundResult{
			Profile:   "local",
			StartedAt: start,
			EndedAt:   start.Add(30 * time.Second),
			Duration:  30,
			Score:     i + 1,
		}
		if _, err := st.InsertRound(ctx, round); err != nil {
			t.Fatalf("insert round: %v", err)
		}
	}
	if err := st.Set(ctx, "local", "bestScore", "40"); err != nil {
		t.Fatalf("set best score: %v", err)
	}

	cfg := model.StatsConfig{
		Profile:     "local",
		Last:        3,
		CurveWindow: 2,
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Rounds) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(report.Rounds))
	}
	if report.Rounds[0].Score != 2 || report.Rounds[2].Score != 4 {
		t.Fatalf("unexpected rounds: %+v", report.Rounds)
	}
	if len(report.Window) != 2 {
		t.Fatalf("expected 2 window rounds, got %d", len(report.Window))
	}
	if report.Summary.BestScore != 4 {
		t.Fatalf("expected best journaled score 4, got %d", report.Summary.BestScore)
	}
	if report.Record != 40 {
		t.Fatalf("expected persisted record 40, got %d", report.Record)
	}
}
