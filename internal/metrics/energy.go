package metrics

import (
	"math"

	"github.com/san-kum/hinfsyn/internal/dynamo"
)

// L2Gain estimates ||z||_2 / ||w||_2 over a run with a fixed step. For a
// loop with H-infinity norm below gamma the value stays below gamma for
// every finite-energy input.
type L2Gain struct {
	name         string
	inputEnergy  float64
	outputEnergy float64
}

func NewL2Gain() *L2Gain {
	return &L2Gain{name: "l2_gain"}
}

func (g *L2Gain) Name() string { return g.name }

func (g *L2Gain) Observe(x dynamo.State, w dynamo.Input, z dynamo.Output, t float64) {
	for _, v := range w {
		g.inputEnergy += v * v
	}
	for _, v := range z {
		g.outputEnergy += v * v
	}
}

func (g *L2Gain) Value() float64 {
	if g.inputEnergy == 0 {
		return 0
	}
	return math.Sqrt(g.outputEnergy / g.inputEnergy)
}

func (g *L2Gain) Reset() {
	g.inputEnergy = 0
	g.outputEnergy = 0
}

// OutputEnergy accumulates the integral of z'z.
type OutputEnergy struct {
	name   string
	dt     float64
	energy float64
}

func NewOutputEnergy(dt float64) *OutputEnergy {
	return &OutputEnergy{name: "output_energy", dt: dt}
}

func (e *OutputEnergy) Name() string { return e.name }

func (e *OutputEnergy) Observe(x dynamo.State, w dynamo.Input, z dynamo.Output, t float64) {
	for _, v := range z {
		e.energy += v * v * e.dt
	}
}

func (e *OutputEnergy) Value() float64 {
	return e.energy
}

func (e *OutputEnergy) Reset() {
	e.energy = 0
}
