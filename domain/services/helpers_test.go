package services

import "testing"

// stubRand feeds a fixed sequence of values to the service under test so
// win and loss paths can be exercised deterministically.
type stubRand struct {
	t      *testing.T
	floats []float64
	ints   []int
}

func (r *stubRand) Float64() float64 {
	if len(r.floats) == 0 {
		r.t.Fatal("stubRand: unexpected Float64 call")
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *stubRand) IntN(n int) int {
	if len(r.ints) == 0 {
		r.t.Fatal("stubRand: unexpected IntN call")
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		r.t.Fatalf("stubRand: scripted value %d out of range [0,%d)", v, n)
	}
	return v
}
