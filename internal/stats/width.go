package stats

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	minCurveWidth       = 10
	terminalWidthBackup = 80
)

// CurveWidth returns the sparkline width for the terminal behind w, or a
// fixed width when w is not a terminal.
func CurveWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return max(width, minCurveWidth)
}

// resampleSeries stretches or shrinks values to width points by nearest
// neighbour; series shorter than width are left alone.
func resampleSeries(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	step := float64(len(values)-1) / float64(width-1)
	if width == 1 {
		step = 0
	}
	for i := range out {
		idx := int(float64(i)*step + 0.5)
		out[i] = values[clampIndex(idx, len(values))]
	}
	return out
}
