// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/catchme/internal/model"
)

const sparkChars = " .:-=+*#%@"

// HitsPerSecond returns the hit rate of a round.
func HitsPerSecond(score, durationSeconds int) float64 {
	if durationSeconds <= 0 {
		return 0
	}
	return float64(score) / float64(durationSeconds)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[clampIndex(idx, len(sparkChars))])
	}
	return b.String()
}

// Summary aggregates a list of rounds.
type Summary struct {
	Rounds        int
	BestScore     int
	AvgScore      float64
	AvgHitsPerSec float64
	Records       int
}

// Summarize computes a Summary for rounds.
func Summarize(rounds []model.RoundAggregate) Summary {
	s := Summary{Rounds: len(rounds)}
	if len(rounds) == 0 {
		return s
	}
	var totalScore, totalRate float64
	for _, r := range rounds {
		totalScore += float64(r.Score)
		totalRate += HitsPerSecond(r.Score, r.Duration)
		if r.Score > s.BestScore {
			s.BestScore = r.Score
		}
		if r.NewRecord {
			s.Records++
		}
	}
	count := float64(len(rounds))
	s.AvgScore = totalScore / count
	s.AvgHitsPerSec = totalRate / count
	return s
}

// RenderSummary prints a summary block for rounds.
func RenderSummary(w io.Writer, rounds []model.RoundAggregate) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, "No rounds found.")
		return err
	}
	s := Summarize(rounds)
	lines := []string{
		"Summary",
		fmt.Sprintf("Rounds: %d", s.Rounds),
		fmt.Sprintf("Best score: %d", s.BestScore),
		fmt.Sprintf("Avg score: %.2f", s.AvgScore),
		fmt.Sprintf("Avg hits/s: %.2f", s.AvgHitsPerSec),
		fmt.Sprintf("Records set: %d", s.Records),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderRoundTable prints the given rounds, newest first.
func RenderRoundTable(w io.Writer, rounds []model.RoundAggregate) error {
	if len(rounds) == 0 {
		return nil
	}
	headers := []string{"#", "Ended", "Duration", "Score", "Hits/s", "Record"}
	rows := RoundRows(rounds)
	lines := formatTable(headers, rows, map[int]bool{0: true, 2: true, 3: true, 4: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RoundRows formats rounds as table cells, newest first.
func RoundRows(rounds []model.RoundAggregate) [][]string {
	rows := make([][]string, 0, len(rounds))
	for i := len(rounds) - 1; i >= 0; i-- {
		r := rounds[i]
		record := ""
		if r.NewRecord {
			record = "yes"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%ds", r.Duration),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%.2f", HitsPerSecond(r.Score, r.Duration)),
			record,
		})
	}
	return rows
}

// RenderCurve prints a sparkline of the moving average score, resampled to
// width columns.
func RenderCurve(w io.Writer, rounds []model.RoundAggregate, window, width int) error {
	if len(rounds) == 0 {
		return nil
	}
	scores := make([]float64, len(rounds))
	for i, r := range rounds {
		scores[i] = float64(r.Score)
	}
	scores = MovingAverage(scores, window)
	if width > 0 {
		scores = resampleSeries(scores, width)
	}
	if _, err := fmt.Fprintf(w, "Score trend (window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, Sparkline(scores)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func clampIndex(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
