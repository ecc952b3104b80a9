package metrics

import (
	"math"

	"github.com/san-kum/hinfsyn/internal/dynamo"
)

// PeakOutput tracks the largest absolute performance output.
type PeakOutput struct {
	name string
	peak float64
}

func NewPeakOutput() *PeakOutput {
	return &PeakOutput{name: "peak_output"}
}

func (p *PeakOutput) Name() string {
	return p.name
}

func (p *PeakOutput) Observe(x dynamo.State, w dynamo.Input, z dynamo.Output, t float64) {
	for _, val := range z {
		p.peak = math.Max(p.peak, math.Abs(val))
	}
}

func (p *PeakOutput) Value() float64 {
	return p.peak
}

func (p *PeakOutput) Reset() {
	p.peak = 0
}

// Default returns the metrics recorded for every closed-loop run.
func Default(dt float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewL2Gain(),
		NewOutputEnergy(dt),
		NewPeakOutput(),
		NewStability(1e6),
	}
}
