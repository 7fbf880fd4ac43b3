package utils

import "math/rand/v2"

// SystemRand is the production randomness source. Every call is an
// independent draw from the shared non-deterministic generator.
type SystemRand struct{}

// Float64 returns a uniform value in [0, 1)
func (SystemRand) Float64() float64 {
	return rand.Float64()
}

// IntN returns a uniform value in [0, n)
func (SystemRand) IntN(n int) int {
	return rand.IntN(n)
}
