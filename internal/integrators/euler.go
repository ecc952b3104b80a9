package integrators

import "github.com/san-kum/hinfsyn/internal/dynamo"

var forwardEuler = &tableau{
	c: []float64{0},
	a: [][]float64{{}},
	b: []float64{1},
}

// Euler is the explicit first-order method.
type Euler struct {
	st stepper
}

func NewEuler() *Euler {
	return &Euler{st: newStepper(forwardEuler)}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, w dynamo.Input, t, dt float64) dynamo.State {
	return e.st.advance(sys, x, w, t, dt)
}

// ByName returns the integrator registered under name.
func ByName(name string) (dynamo.Integrator, bool) {
	switch name {
	case "euler":
		return NewEuler(), true
	case "rk4":
		return NewRK4(), true
	case "rk45":
		return NewRK45(), true
	default:
		return nil, false
	}
}

// Names lists the integrators known to ByName.
func Names() []string {
	return []string{"euler", "rk4", "rk45"}
}
