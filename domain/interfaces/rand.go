package interfaces

// Rand is the randomness capability injected into the draw and upgrade
// services so tests can substitute deterministic sequences.
type Rand interface {
	// Float64 returns a uniform value in [0, 1)
	Float64() float64

	// IntN returns a uniform value in [0, n)
	IntN(n int) int
}
