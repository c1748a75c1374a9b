// Package entropy provides the seeded pseudo-random stream behind every
// stochastic decision in a run. One Source is created per run and threaded
// through the model, so two runs with the same seed and scenario produce
// identical traces.
package entropy

import "math/rand"

// Source wraps a single seeded generator. It is not safe for concurrent
// use; the simulation is single-threaded by design.
type Source struct {
	rng *rand.Rand
}

// New creates a source from a seed.
func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Float returns a float64 in [0, 1).
func (s *Source) Float() float64 {
	return s.rng.Float64()
}

// Uniform returns a float64 uniformly distributed between a and b. The
// bounds may arrive in either order; depth sampling sometimes inverts them
// when rainfall is low.
func (s *Source) Uniform(a, b float64) float64 {
	if a > b {
		a, b = b, a
	}
	return a + s.rng.Float64()*(b-a)
}

// IntBetween returns an integer in [lo, hi] inclusive.
func (s *Source) IntBetween(lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Pick returns an index in [0, n).
func (s *Source) Pick(n int) int {
	return s.rng.Intn(n)
}

// Weighted returns an index chosen with the given relative weights.
func (s *Source) Weighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := s.rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return i
		}
	}
	return len(weights) - 1
}
