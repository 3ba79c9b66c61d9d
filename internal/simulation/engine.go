// Package simulation drives the Monte-Carlo demand simulation: one
// uniform draw per blood group per period, mapped through the group's
// distribution table.
package simulation

import (
	"context"
	"errors"
	"math/rand"

	"bloodsim/internal/distribution"
)

// ErrInvalidPeriods is returned when a run is requested for a
// non-positive period count.
var ErrInvalidPeriods = errors.New("simulation: periods must be positive")

// Source yields uniform random integers; the engine draws from [0,100).
// *rand.Rand satisfies it, tests inject scripted sequences.
type Source interface {
	Intn(n int) int
}

// Record is the outcome of one simulated period. Records are emitted in
// period order and never mutated afterwards.
type Record struct {
	Period   int                               `json:"period"`
	Draws    map[distribution.Category]int     `json:"draws"`
	Sampled  map[distribution.Category]int     `json:"sampled"`
	Total    int                               `json:"total"`
	SharePct map[distribution.Category]float64 `json:"share_pct"`
}

// Engine performs the Monte-Carlo simulation over a fixed, read-only set
// of distribution tables.
type Engine struct {
	tables map[distribution.Category]*distribution.Table
	rng    Source
}

// NewEngine creates an engine over the given tables and random source.
// A missing table for a group is allowed; that group samples to zero.
func NewEngine(tables map[distribution.Category]*distribution.Table, rng Source) *Engine {
	return &Engine{tables: tables, rng: rng}
}

// NewSeededEngine creates an engine with a deterministic random source,
// so runs with the same seed and tables reproduce exactly.
func NewSeededEngine(tables map[distribution.Category]*distribution.Table, seed int64) *Engine {
	return NewEngine(tables, rand.New(rand.NewSource(seed)))
}

// Run simulates one demand observation per blood group for each period
// 1..periods and returns the records in order. Groups are drawn in their
// fixed order (A, B, AB, O) so a seeded run consumes the source
// identically across repeats. Share percentages are zero when the period
// total is zero.
//
// Cancelling ctx aborts between periods; the records emitted so far are
// returned alongside ctx.Err() and remain valid.
func (e *Engine) Run(ctx context.Context, periods int) ([]Record, error) {
	if periods <= 0 {
		return nil, ErrInvalidPeriods
	}

	records := make([]Record, 0, periods)
	for p := 1; p <= periods; p++ {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		rec := Record{
			Period:   p,
			Draws:    make(map[distribution.Category]int, len(distribution.Categories)),
			Sampled:  make(map[distribution.Category]int, len(distribution.Categories)),
			SharePct: make(map[distribution.Category]float64, len(distribution.Categories)),
		}

		for _, cat := range distribution.Categories {
			draw := e.rng.Intn(100)
			rec.Draws[cat] = draw
			sampled := e.tables[cat].Sample(draw)
			rec.Sampled[cat] = sampled
			rec.Total += sampled
		}

		for _, cat := range distribution.Categories {
			if rec.Total > 0 {
				rec.SharePct[cat] = float64(rec.Sampled[cat]) / float64(rec.Total) * 100
			} else {
				rec.SharePct[cat] = 0
			}
		}

		records = append(records, rec)
	}

	return records, nil
}
