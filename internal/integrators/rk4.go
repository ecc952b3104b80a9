package integrators

import "github.com/san-kum/hinfsyn/internal/dynamo"

var classicRK4 = &tableau{
	c: []float64{0, 0.5, 0.5, 1},
	a: [][]float64{
		{},
		{0.5},
		{0, 0.5},
		{0, 0, 1},
	},
	b: []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6},
}

// RK4 is the classic fourth-order Runge-Kutta method with a fixed step.
type RK4 struct {
	st stepper
}

func NewRK4() *RK4 {
	return &RK4{st: newStepper(classicRK4)}
}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, w dynamo.Input, t, dt float64) dynamo.State {
	return r.st.advance(sys, x, w, t, dt)
}
