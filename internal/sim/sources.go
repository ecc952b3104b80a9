package sim

import "github.com/san-kum/hinfsyn/internal/dynamo"

type zero struct{ dim int }

// Zero applies w = 0.
func Zero(dim int) dynamo.Source {
	return zero{dim: dim}
}

func (z zero) Compute(x dynamo.State, t float64) dynamo.Input {
	return make(dynamo.Input, z.dim)
}

// StepSource applies a unit-height step scaled by Amplitude on one channel
// from time Start on.
type StepSource struct {
	Dim       int
	Channel   int
	Amplitude float64
	Start     float64
}

func Step(dim, channel int, amplitude float64) *StepSource {
	return &StepSource{Dim: dim, Channel: channel, Amplitude: amplitude}
}

func (s *StepSource) Compute(x dynamo.State, t float64) dynamo.Input {
	w := make(dynamo.Input, s.Dim)
	if t >= s.Start && s.Channel >= 0 && s.Channel < s.Dim {
		w[s.Channel] = s.Amplitude
	}
	return w
}
