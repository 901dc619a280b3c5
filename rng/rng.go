// Package rng defines the source of random draws consumed by the model.
//
// All randomness in a run flows through a single Source so that a seed fully
// determines the trajectory of the run.
package rng

import "math/rand"

// Source provides independent uniform random draws.
type Source interface {
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64

	// Shuffle pseudo-randomizes the order of n elements using swap.
	Shuffle(n int, swap func(i, j int))
}

// New returns a Source seeded with seed.
func New(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}
