// Package randutil centralises construction of the seeded generators threaded
// through the engine. Nothing in this module uses global random state.
package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive draws a child seed from rng. Children derived in a fixed order from the
// same parent state are themselves reproducible.
func Derive(rng *rand.Rand) int64 {
	return int64(rng.Uint64())
}

// Choice returns a uniformly chosen element of items. It panics on an empty slice.
func Choice[T any](rng *rand.Rand, items []T) T {
	if len(items) == 0 {
		panic("randutil: choice from empty slice")
	}
	return items[rng.IntN(len(items))]
}

// Chance reports whether a uniform draw in [0,1) falls below p.
func Chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
