package dynamo

import "math/rand"

// Rand is the single source of randomness for jitter, ignition and
// evaporation draws. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded math/rand source.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Uniform draws from [lo, hi).
func Uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
