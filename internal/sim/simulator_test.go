package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/hinfsyn/internal/dynamo"
)

// decay is dx/dt = -x + w, z = 2x.
type decay struct{}

func (decay) Derive(x dynamo.State, w dynamo.Input, _ float64) dynamo.State {
	return dynamo.State{-x[0] + w[0]}
}

func (decay) Output(x dynamo.State, _ dynamo.Input, _ float64) dynamo.Output {
	return dynamo.Output{2 * x[0]}
}

func (decay) StateDim() int  { return 1 }
func (decay) InputDim() int  { return 1 }
func (decay) OutputDim() int { return 1 }

// euler is a fixed-step integrator without an error estimate.
type euler struct{}

func (euler) Step(sys dynamo.System, x dynamo.State, w dynamo.Input, t, dt float64) dynamo.State {
	return dynamo.State{x[0] + dt*sys.Derive(x, w, t)[0]}
}

// proposer takes whatever step it is given and always proposes next.
type proposer struct {
	euler
	next float64
	seen []float64
}

func (p *proposer) StepAdaptive(sys dynamo.System, x dynamo.State, w dynamo.Input, t, dt, _ float64) (dynamo.State, float64, error) {
	p.seen = append(p.seen, dt)
	return p.Step(sys, x, w, t, dt), p.next, nil
}

func TestSimulatorRun(t *testing.T) {
	result, err := New(decay{}, euler{}, nil).Run(context.Background(), dynamo.State{1.0}, dynamo.Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for name, got := range map[string]int{
		"states":  len(result.States),
		"times":   len(result.Times),
		"outputs": len(result.Outputs) + 1,
		"steps":   result.StepsTaken + 1,
	} {
		if got != 11 {
			t.Errorf("%s: expected 11, got %d", name, got)
		}
	}
	if result.Outputs[0][0] != 2.0 {
		t.Errorf("expected first output 2, got %f", result.Outputs[0][0])
	}
	if final := result.States[10][0]; math.Abs(final-math.Exp(-1)) > 0.2 {
		t.Errorf("expected final state near %.4f, got %.4f", math.Exp(-1), final)
	}
}

func TestSimulatorAdaptiveEndsAtDuration(t *testing.T) {
	integ := &proposer{next: 0.3}
	cfg := dynamo.Config{Dt: 0.3, Duration: 1.0, Adaptive: true, Tolerance: 1e-3, MinDt: 1e-6, MaxDt: 0.25}

	result, err := New(decay{}, integ, nil).Run(context.Background(), dynamo.State{1}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := []float64{0.3, 0.25, 0.25, 0.2}
	if len(integ.seen) != len(want) {
		t.Fatalf("expected steps %v, got %v", want, integ.seen)
	}
	for i := range want {
		if math.Abs(integ.seen[i]-want[i]) > 1e-12 {
			t.Errorf("step %d: expected %g, got %g", i, want[i], integ.seen[i])
		}
	}
	if end := result.Times[len(result.Times)-1]; math.Abs(end-1) > 1e-12 {
		t.Errorf("expected run to end at 1, got %g", end)
	}
}

func TestSimulatorStepDoubling(t *testing.T) {
	cfg := dynamo.Config{Dt: 0.5, Duration: 2.0, Adaptive: true, Tolerance: 1e-4, MinDt: 1e-6, MaxDt: 0.5}

	result, err := New(decay{}, euler{}, nil).Run(context.Background(), dynamo.State{1}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken <= 4 {
		t.Errorf("expected the tolerance to force smaller steps, got %d steps", result.StepsTaken)
	}
	if end := result.Times[len(result.Times)-1]; math.Abs(end-2) > 1e-9 {
		t.Errorf("expected run to end at 2, got %g", end)
	}
	if final := result.States[len(result.States)-1][0]; math.Abs(final-math.Exp(-2)) > 1e-2 {
		t.Errorf("expected final state near %.4f, got %.4f", math.Exp(-2), final)
	}
}

func TestSimulatorStepSource(t *testing.T) {
	s := New(decay{}, euler{}, Step(1, 0, 1.0))

	cfg := dynamo.Config{Dt: 0.01, Duration: 10.0}
	result, err := s.Run(context.Background(), dynamo.State{0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	final := result.States[len(result.States)-1][0]
	if math.Abs(final-1.0) > 1e-3 {
		t.Errorf("expected step response to settle at 1, got %f", final)
	}
	if result.Inputs[0][0] != 1.0 {
		t.Errorf("expected step input 1, got %f", result.Inputs[0][0])
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(decay{}, euler{}, nil)

	tests := []struct {
		name string
		cfg  dynamo.Config
	}{
		{"zero dt", dynamo.Config{Dt: 0, Duration: 1.0}},
		{"negative dt", dynamo.Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", dynamo.Config{Dt: 0.1, Duration: 0}},
		{"negative duration", dynamo.Config{Dt: 0.1, Duration: -1.0}},
		{"adaptive without tolerance", dynamo.Config{Dt: 0.1, Duration: 1.0, Adaptive: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), dynamo.State{1.0}, tt.cfg)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorStateDimension(t *testing.T) {
	s := New(decay{}, euler{}, nil)
	_, err := s.Run(context.Background(), dynamo.State{1, 2}, dynamo.Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	s := New(decay{}, euler{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, dynamo.State{1}, dynamo.Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(result.States) != 1 {
		t.Errorf("expected only the initial state, got %d", len(result.States))
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(x dynamo.State, w dynamo.Input, z dynamo.Output, time float64) {
	t.count++
	t.sum += x[0]
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	s := New(decay{}, euler{}, nil)

	metric := &testMetric{}
	s.AddMetric(metric)

	result, err := s.Run(context.Background(), dynamo.State{1.0}, dynamo.Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

type recorder struct{ times []float64 }

func (r *recorder) OnStep(x dynamo.State, w dynamo.Input, z dynamo.Output, t float64) {
	r.times = append(r.times, t)
}

func TestSimulatorObserver(t *testing.T) {
	s := New(decay{}, euler{}, nil)
	rec := &recorder{}
	s.AddObserver(rec)

	if _, err := s.Run(context.Background(), dynamo.State{1.0}, dynamo.Config{Dt: 0.5, Duration: 2.0}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(rec.times) != 4 || rec.times[0] != 0 || rec.times[3] != 1.5 {
		t.Errorf("unexpected observed times %v", rec.times)
	}
}
