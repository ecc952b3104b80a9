package dynamo

// System is a continuous-time model dx/dt = f(x, w, t).
type System interface {
	Derive(x State, w Input, t float64) State
	StateDim() int
	InputDim() int
}

// Observable systems expose an output map z = h(x, w, t).
type Observable interface {
	System
	Output(x State, w Input, t float64) Output
	OutputDim() int
}

type Integrator interface {
	Step(sys System, x State, w Input, t, dt float64) State
}

// AdaptiveIntegrator also proposes the size of the next step.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, w Input, t, dt, tol float64) (State, float64, error)
}

// Source produces the exogenous input at each step.
type Source interface {
	Compute(x State, t float64) Input
}

// Metric folds every sample of a run into a single value.
type Metric interface {
	Name() string
	Observe(x State, w Input, z Output, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, w Input, z Output, t float64)
}

// Config controls a simulation run. MinDt, MaxDt and Tolerance only apply
// when Adaptive is set.
type Config struct {
	Dt       float64
	Duration float64

	Adaptive  bool
	Tolerance float64
	MinDt     float64
	MaxDt     float64

	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10,
		Tolerance:     1e-6,
		MinDt:         1e-8,
		MaxDt:         0.1,
		ValidateState: true,
	}
}

// Result holds the sampled trajectory. Inputs and Outputs are recorded at
// the start of each step, so they have one entry fewer than States.
type Result struct {
	Times   []float64
	States  []State
	Inputs  []Input
	Outputs []Output

	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}
