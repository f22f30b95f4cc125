// Package rng provides the seeded random source consumed by biome sampling.
// Draws are deterministic for a given seed and must come from one goroutine.
package rng

import (
	"math"
	"math/rand/v2"
)

// Source is the contract generation code needs from a random number generator.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). n must be positive.
	IntN(n int) int
	// Uniform returns a uniform value in [lo, hi).
	Uniform(lo, hi float64) float64
	// PickWeighted returns an index drawn proportionally to weights.
	// It returns false when no weight is positive.
	PickWeighted(weights []float64) (int, bool)
}

// RNG is a thin wrapper around math/rand/v2 seeded through PCG.
type RNG struct {
	r *rand.Rand
}

// New creates a deterministic RNG from the provided seed.
func New(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 {
	return r.r.Float64()
}

// IntN returns a uniform value in [0, n).
func (r *RNG) IntN(n int) int {
	return r.r.IntN(n)
}

// Uint32 returns 32 uniformly distributed bits.
func (r *RNG) Uint32() uint32 {
	return r.r.Uint32()
}

// Uniform returns a uniform value in [lo, hi). It returns lo when hi <= lo.
func (r *RNG) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.r.Float64()*(hi-lo)
}

// PickWeighted draws an index with probability weights[i]/sum(weights).
// Negative and NaN weights count as zero.
func (r *RNG) PickWeighted(weights []float64) (int, bool) {
	total := 0.0
	last := -1
	for i, w := range weights {
		if w > 0 && !math.IsInf(w, 1) {
			total += w
			last = i
		}
	}
	if last < 0 {
		return 0, false
	}

	target := r.r.Float64() * total
	acc := 0.0
	for i, w := range weights {
		if !(w > 0) || math.IsInf(w, 1) {
			continue
		}
		acc += w
		if target < acc {
			return i, true
		}
	}
	// Rounding can leave target just above the final sum.
	return last, true
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
