package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/catchme/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparklineFlatAndRange(t *testing.T) {
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	got := Sparkline([]float64{0, 10})
	if got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
}

func TestSummarize(t *testing.T) {
	rounds := []model.RoundAggregate{
		{Duration: 15, Score: 3, NewRecord: true},
		{Duration: 30, Score: 12, NewRecord: true},
		{Duration: 30, Score: 6},
	}
	s := Summarize(rounds)
	if s.Rounds != 3 || s.BestScore != 12 || s.Records != 2 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.AvgScore != 7 {
		t.Fatalf("expected avg score 7, got %v", s.AvgScore)
	}
	if math.Abs(s.AvgHitsPerSec-0.8/3) > 1e-9 {
		t.Fatalf("unexpected hits/s: %v", s.AvgHitsPerSec)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No rounds found.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRoundRowsNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	rounds := []model.RoundAggregate{
		{EndedAt: base, Duration: 15, Score: 3},
		{EndedAt: base.Add(time.Minute), Duration: 30, Score: 9, NewRecord: true},
	}
	rows := RoundRows(rounds)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "2" || rows[0][3] != "9" || rows[0][4] != "0.30" || rows[0][5] != "yes" {
		t.Fatalf("unexpected newest row: %v", rows[0])
	}
	if rows[1][1] != "2026-03-01 12:00" {
		t.Fatalf("unexpected timestamp: %v", rows[1])
	}
}

func TestRenderCurveResamples(t *testing.T) {
	rounds := make([]model.RoundAggregate, 50)
	for i := range rounds {
		rounds[i] = model.RoundAggregate{Duration: 30, Score: i}
	}
	var buf bytes.Buffer
	if err := RenderCurve(&buf, rounds, 1, 20); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines[1]) != 20 {
		t.Fatalf("expected 20 columns, got %d: %q", len(lines[1]), lines[1])
	}
	if lines[1][0] != ' ' || lines[1][19] != '@' {
		t.Fatalf("expected rising curve: %q", lines[1])
	}
}

func TestCurveWidthForNonTerminal(t *testing.T) {
	if got := CurveWidth(&bytes.Buffer{}); got != terminalWidthBackup {
		t.Fatalf("expected fallback width, got %d", got)
	}
}
