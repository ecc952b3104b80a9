package integrators

import "github.com/san-kum/hinfsyn/internal/dynamo"

// tableau is an explicit Runge-Kutta scheme in Butcher form. Row i of a
// holds the coefficients of the i previous stages.
type tableau struct {
	c []float64
	a [][]float64
	b []float64

	// errW holds b minus the embedded weights. Nil for schemes without an
	// error estimate.
	errW []float64
}

// stepper evaluates a tableau and keeps its stage buffers between calls, so
// an integrator built on it must not be shared between goroutines.
type stepper struct {
	tab   *tableau
	k     []dynamo.State
	stage dynamo.State
}

func newStepper(tab *tableau) stepper {
	return stepper{tab: tab, k: make([]dynamo.State, len(tab.c))}
}

func (s *stepper) resize(n int) {
	if len(s.stage) == n {
		return
	}
	s.stage = make(dynamo.State, n)
	for i := range s.k {
		s.k[i] = make(dynamo.State, n)
	}
}

// advance evaluates every stage and returns x + dt*sum(b_i k_i). The stage
// derivatives stay in s.k until the next call.
func (s *stepper) advance(sys dynamo.System, x dynamo.State, w dynamo.Input, t, dt float64) dynamo.State {
	n := len(x)
	s.resize(n)

	for i, row := range s.tab.a {
		copy(s.stage, x)
		for j, aij := range row {
			if aij == 0 {
				continue
			}
			axpy(s.stage, dt*aij, s.k[j])
		}
		copy(s.k[i], sys.Derive(s.stage, w, t+s.tab.c[i]*dt))
	}

	next := x.Clone()
	for i, bi := range s.tab.b {
		if bi != 0 {
			axpy(next, dt*bi, s.k[i])
		}
	}
	return next
}

// estimate returns dt*sum(errW_i k_i) for the stages of the last advance.
func (s *stepper) estimate(dt float64) dynamo.State {
	e := make(dynamo.State, len(s.stage))
	for i, wi := range s.tab.errW {
		if wi != 0 {
			axpy(e, dt*wi, s.k[i])
		}
	}
	return e
}

func axpy(y dynamo.State, alpha float64, x dynamo.State) {
	for i := range y {
		y[i] += alpha * x[i]
	}
}
