// Package generator picks target positions.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/catchme/internal/model"
)

var (
	// VerticalBounds limits the target's top offset.
	VerticalBounds = model.Bounds{Min: 40, Max: 90}
	// HorizontalBounds limits the target's left offset.
	HorizontalBounds = model.Bounds{Min: 10, Max: 90}
	// Start is where the target sits when a round begins.
	Start = model.Position{Top: 70, Left: 50}
)

// Generator produces randomized target positions.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Next samples a position uniformly inside the vertical and horizontal bounds.
func (g *Generator) Next() model.Position {
	return model.Position{
		Top:  sample(g.rnd, VerticalBounds),
		Left: sample(g.rnd, HorizontalBounds),
	}
}

// InBounds reports whether p lies inside both ranges.
func InBounds(p model.Position) bool {
	return within(p.Top, VerticalBounds) && within(p.Left, HorizontalBounds)
}

func sample(rnd *rand.Rand, b model.Bounds) int {
	span := b.Max - b.Min
	if span <= 0 {
		return b.Min
	}
	return rnd.Intn(span) + b.Min
}

func within(v int, b model.Bounds) bool {
	return v >= b.Min && v < b.Max
}
