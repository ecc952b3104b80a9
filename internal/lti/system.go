package lti

import (
	"fmt"
	"math"

	"github.com/san-kum/hinfsyn/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// System is a continuous-time state-space realization
//
//	dx/dt = A x + B w
//	    z = C x + D w
type System struct {
	A, B, C, D *mat.Dense
}

// New returns the system (a, b, c, d) after checking that the dimensions agree.
func New(a, b, c, d *mat.Dense) (*System, error) {
	s := &System{A: a, B: b, C: c, D: d}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dims returns the number of states, inputs and outputs. The counts are read
// from A rows, B columns and C rows.
func (s *System) Dims() (n, m, p int) {
	n, _ = s.A.Dims()
	_, m = s.B.Dims()
	p, _ = s.C.Dims()
	return n, m, p
}

// Validate checks that A is n×n, B is n×m, C is p×n and D is p×m.
func (s *System) Validate() error {
	if s.A == nil || s.B == nil || s.C == nil || s.D == nil {
		return fmt.Errorf("%w: missing matrix", ErrDimensionMismatch)
	}
	n, m, p := s.Dims()
	if r, c := s.A.Dims(); r != c {
		return fmt.Errorf("%w: A is %d×%d, want square", ErrDimensionMismatch, r, c)
	}
	if r, _ := s.B.Dims(); r != n {
		return fmt.Errorf("%w: B has %d rows, want %d", ErrDimensionMismatch, r, n)
	}
	if _, c := s.C.Dims(); c != n {
		return fmt.Errorf("%w: C has %d columns, want %d", ErrDimensionMismatch, c, n)
	}
	if r, c := s.D.Dims(); r != p || c != m {
		return fmt.Errorf("%w: D is %d×%d, want %d×%d", ErrDimensionMismatch, r, c, p, m)
	}
	return nil
}

func (s *System) StateDim() int {
	n, _, _ := s.Dims()
	return n
}

func (s *System) InputDim() int {
	_, m, _ := s.Dims()
	return m
}

func (s *System) OutputDim() int {
	_, _, p := s.Dims()
	return p
}

// Derive returns A x + B w. A short or empty w is padded with zeros.
func (s *System) Derive(x dynamo.State, w dynamo.Input, t float64) dynamo.State {
	n, m, _ := s.Dims()
	dx := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		v := 0.0
		for j := 0; j < n; j++ {
			v += s.A.At(i, j) * x[j]
		}
		for j := 0; j < m && j < len(w); j++ {
			v += s.B.At(i, j) * w[j]
		}
		dx[i] = v
	}
	return dx
}

// Output returns C x + D w.
func (s *System) Output(x dynamo.State, w dynamo.Input, t float64) dynamo.Output {
	n, m, p := s.Dims()
	z := make(dynamo.Output, p)
	for i := 0; i < p; i++ {
		v := 0.0
		for j := 0; j < n; j++ {
			v += s.C.At(i, j) * x[j]
		}
		for j := 0; j < m && j < len(w); j++ {
			v += s.D.At(i, j) * w[j]
		}
		z[i] = v
	}
	return z
}

// Poles returns the eigenvalues of A.
func (s *System) Poles() ([]complex128, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(s.A, mat.EigenNone); !ok {
		return nil, fmt.Errorf("lti: eigenvalue decomposition of A failed")
	}
	return eig.Values(nil), nil
}

// IsStable reports whether every pole lies in the open left half-plane.
func (s *System) IsStable() (bool, error) {
	poles, err := s.Poles()
	if err != nil {
		return false, err
	}
	return StabilityMargin(poles) < 0, nil
}

// StabilityMargin returns the largest real part among poles.
func StabilityMargin(poles []complex128) float64 {
	margin := math.Inf(-1)
	for _, p := range poles {
		margin = math.Max(margin, real(p))
	}
	return margin
}
