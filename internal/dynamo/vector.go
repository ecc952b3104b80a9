package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// State is the closed-loop state vector x.
type State []float64

// Input is the exogenous input vector w.
type Input []float64

// Output is the performance output vector z.
type Output []float64

func (s State) Clone() State {
	return append(State(nil), s...)
}

// IsValid reports whether every entry is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Norm is the Euclidean norm.
func (s State) Norm() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Norm(s, 2)
}

// Sub returns s - other. Both must have the same length.
func (s State) Sub(other State) State {
	d := make(State, len(s))
	floats.SubTo(d, s, other)
	return d
}

func (o Output) Norm() float64 {
	return State(o).Norm()
}
