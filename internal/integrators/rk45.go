package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/hinfsyn/internal/dynamo"
)

// dormandPrince is the 5(4) pair. The seventh stage is evaluated at the
// accepted point, so its row equals b.
var dormandPrince = func() *tableau {
	b := []float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}
	embedded := []float64{5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40}
	errW := make([]float64, len(b))
	for i := range b {
		errW[i] = b[i] - embedded[i]
	}
	return &tableau{
		c: []float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1},
		a: [][]float64{
			{},
			{1.0 / 5},
			{3.0 / 40, 9.0 / 40},
			{44.0 / 45, -56.0 / 15, 32.0 / 9},
			{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
			{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
			b[:6],
		},
		b:    b,
		errW: errW,
	}
}()

// defaultTol is the local tolerance Step uses to propose the next step.
const defaultTol = 1e-6

// RK45 is the Dormand-Prince embedded pair. StepAdaptive always takes the
// full requested step and returns the step size proposed for the next one.
type RK45 struct {
	st stepper

	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		st:       newStepper(dormandPrince),
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10,
	}
}

func (r *RK45) Step(sys dynamo.System, x dynamo.State, w dynamo.Input, t, dt float64) dynamo.State {
	next, _, _ := r.StepAdaptive(sys, x, w, t, dt, defaultTol)
	return next
}

func (r *RK45) StepAdaptive(sys dynamo.System, x dynamo.State, w dynamo.Input, t, dt, tol float64) (dynamo.State, float64, error) {
	if tol <= 0 {
		return nil, dt, fmt.Errorf("%w: rk45 tolerance must be positive, got %g", dynamo.ErrInvalidConfig, tol)
	}

	next := r.st.advance(sys, x, w, t, dt)
	est := r.st.estimate(dt)

	// Mixed error measure relative to the state and the first increment.
	worst := 0.0
	for i := range est {
		scale := math.Abs(x[i]) + math.Abs(dt*r.st.k[0][i]) + 1e-10
		worst = math.Max(worst, math.Abs(est[i])/scale)
	}

	return next, dt * r.rescale(worst/tol), nil
}

// rescale maps an error ratio to a step size factor. Rejected steps shrink
// with the fourth-order exponent, accepted ones grow with the fifth.
func (r *RK45) rescale(ratio float64) float64 {
	switch {
	case ratio > 1:
		return math.Max(r.minScale, r.safety*math.Pow(ratio, -0.25))
	case ratio > 0:
		return math.Min(r.maxScale, r.safety*math.Pow(ratio, -0.2))
	default:
		return r.maxScale
	}
}
