package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/hinfsyn/internal/dynamo"
)

// Simulator integrates a system driven by an exogenous source and feeds
// every sample to its metrics and observers.
type Simulator struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	source     dynamo.Source
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

// New returns a simulator driving sys with source. A nil source applies zero input.
func New(sys dynamo.System, integrator dynamo.Integrator, source dynamo.Source) *Simulator {
	if source == nil {
		source = Zero(sys.InputDim())
	}
	return &Simulator{sys: sys, integrator: integrator, source: source}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 over cfg.Duration. With a fixed step the run takes
// round(Duration/Dt) steps. Adaptive runs stop at Duration exactly.
// Cancellation returns the partial result with ctx.Err().
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.sys.StateDim() {
		return nil, fmt.Errorf("%w: x0 has %d entries, system has %d states",
			dynamo.ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	res := newResult(steps)

	x, t, dt := x0.Clone(), 0.0, cfg.Dt
	res.States = append(res.States, x.Clone())
	res.Times = append(res.Times, t)

	for i := 0; s.more(cfg, i, steps, t); i++ {
		if err := ctx.Err(); err != nil {
			return s.finish(res), err
		}

		w := s.source.Compute(x, t)
		z := s.output(x, w, t)
		s.observe(x, w, z, t)

		var (
			next    dynamo.State
			taken   = dt
			stepErr error
		)
		if cfg.Adaptive {
			taken = math.Min(dt, cfg.Duration-t)
			next, taken, dt, stepErr = s.adaptiveStep(x, w, t, taken, cfg)
		} else {
			next = s.integrator.Step(s.sys, x, w, t, dt)
		}
		if stepErr != nil {
			res.Errors = append(res.Errors, stepErr)
		}

		if cfg.ValidateState && !next.IsValid() {
			res.Errors = append(res.Errors, &dynamo.SimulationError{
				Step: i, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState,
			})
			break
		}

		x = next
		t += taken
		res.StepsTaken++
		res.States = append(res.States, x.Clone())
		res.Inputs = append(res.Inputs, w)
		res.Outputs = append(res.Outputs, z)
		res.Times = append(res.Times, t)
	}

	return s.finish(res), nil
}

func newResult(steps int) *dynamo.Result {
	return &dynamo.Result{
		Times:   make([]float64, 0, steps+1),
		States:  make([]dynamo.State, 0, steps+1),
		Inputs:  make([]dynamo.Input, 0, steps),
		Outputs: make([]dynamo.Output, 0, steps),
		Metrics: make(map[string]float64, 4),
	}
}

func (s *Simulator) more(cfg dynamo.Config, i, steps int, t float64) bool {
	if cfg.Adaptive {
		return cfg.Duration-t > 1e-12*cfg.Duration
	}
	return i < steps
}

func (s *Simulator) observe(x dynamo.State, w dynamo.Input, z dynamo.Output, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, w, z, t)
	}
	for _, o := range s.observers {
		o.OnStep(x, w, z, t)
	}
}

func (s *Simulator) finish(res *dynamo.Result) *dynamo.Result {
	for _, m := range s.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res
}

func (s *Simulator) output(x dynamo.State, w dynamo.Input, t float64) dynamo.Output {
	if obs, ok := s.sys.(dynamo.Observable); ok {
		return obs.Output(x, w, t)
	}
	return nil
}

func validate(cfg dynamo.Config) error {
	switch {
	case cfg.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidConfig, cfg.Dt)
	case cfg.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrInvalidConfig, cfg.Duration)
	case cfg.Adaptive && cfg.Tolerance <= 0:
		return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", dynamo.ErrInvalidConfig)
	}
	return nil
}

// adaptiveStep advances by h or less and returns the new state, the step
// actually taken and the step proposed for the next call. Integrators
// without their own error estimate are checked by step doubling.
func (s *Simulator) adaptiveStep(x dynamo.State, w dynamo.Input, t, h float64, cfg dynamo.Config) (dynamo.State, float64, float64, error) {
	if ai, ok := s.integrator.(dynamo.AdaptiveIntegrator); ok {
		next, proposed, err := ai.StepAdaptive(s.sys, x, w, t, h, cfg.Tolerance)
		return next, h, clampStep(proposed, cfg), err
	}

	for {
		whole := s.integrator.Step(s.sys, x, w, t, h)
		half := s.integrator.Step(s.sys, x, w, t, h/2)
		half = s.integrator.Step(s.sys, half, w, t+h/2, h/2)

		e := whole.Sub(half).Norm()
		if e > cfg.Tolerance && h/2 >= cfg.MinDt {
			h /= 2
			continue
		}
		proposed := h
		if e < cfg.Tolerance/10 {
			proposed = 2 * h
		}
		return half, h, clampStep(proposed, cfg), nil
	}
}

func clampStep(dt float64, cfg dynamo.Config) float64 {
	if cfg.MaxDt > 0 {
		dt = math.Min(dt, cfg.MaxDt)
	}
	return math.Max(dt, cfg.MinDt)
}
