package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/catchme/internal/model"
)

const (
	targetLabel    = "❌ catch me!"
	headerRows     = 3
	footerRows     = 1
	minArenaWidth  = 24
	minArenaHeight = 6
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// arenaRect returns the inner arena area, in screen cells, for a terminal of
// the given size. The arena border takes one cell on each side.
func arenaRect(width, height int) rect {
	w := width - 2
	if w < minArenaWidth {
		w = minArenaWidth
	}
	h := height - headerRows - footerRows - 2
	if h < minArenaHeight {
		h = minArenaHeight
	}
	return rect{x: 1, y: headerRows + 1, w: w, h: h}
}

// targetRect centers the target label on its percentage coordinate and keeps
// it inside the arena.
func targetRect(arena rect, p model.Position) rect {
	lw := runewidth.StringWidth(targetLabel)
	x := clamp(arena.w*p.Left/100-lw/2, 0, arena.w-lw)
	y := clamp(arena.h*p.Top/100, 0, arena.h-1)
	return rect{x: arena.x + x, y: arena.y + y, w: lw, h: 1}
}

// renderField draws the arena interior with the target at its rect.
func renderField(arena, target rect, label string) string {
	blank := strings.Repeat(" ", arena.w)
	lines := make([]string, arena.h)
	for i := range lines {
		lines[i] = blank
	}
	row := target.y - arena.y
	col := target.x - arena.x
	if row >= 0 && row < arena.h {
		right := arena.w - col - target.w
		if right < 0 {
			right = 0
		}
		lines[row] = strings.Repeat(" ", col) + label + strings.Repeat(" ", right)
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
