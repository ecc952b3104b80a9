package lti

import "gonum.org/v1/gonum/mat"

// Controller is the realization (AK, BK, CK, DK) of an output-feedback
// controller u = K y. RCond holds the reciprocal condition numbers reported
// by the synthesis kernel for its four internal stages.
type Controller struct {
	AK, BK, CK, DK *mat.Dense
	RCond          [4]float64
}

// Dims returns the controller order, its input count (measurements) and its
// output count (control signals).
func (k *Controller) Dims() (n, nmeas, ncon int) {
	n, _ = k.AK.Dims()
	_, nmeas = k.BK.Dims()
	ncon, _ = k.CK.Dims()
	return n, nmeas, ncon
}

// System views the controller as a state-space system from y to u.
func (k *Controller) System() *System {
	return &System{A: k.AK, B: k.BK, C: k.CK, D: k.DK}
}
