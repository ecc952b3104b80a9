// Package experiment runs a synthesis problem end to end: controller
// synthesis, closed-loop assembly, step simulation and gain estimation.
package experiment

import (
	"context"
	"errors"

	"github.com/san-kum/hinfsyn/internal/analysis"
	"github.com/san-kum/hinfsyn/internal/config"
	"github.com/san-kum/hinfsyn/internal/dynamo"
	"github.com/san-kum/hinfsyn/internal/lti"
	"github.com/san-kum/hinfsyn/internal/metrics"
	"github.com/san-kum/hinfsyn/internal/optim"
	"github.com/san-kum/hinfsyn/internal/sim"
	"github.com/san-kum/hinfsyn/internal/storage"
	"go.uber.org/zap"
)

const (
	KindSynth  = "synth"
	KindBisect = "bisect"
)

type Experiment struct {
	cfg    *config.Config
	plant  *lti.System
	synth  optim.Synthesizer
	logger *zap.Logger
}

func New(cfg *config.Config, synth optim.Synthesizer, logger *zap.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	plant, err := cfg.System()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{cfg: cfg, plant: plant, synth: synth, logger: logger}, nil
}

func (e *Experiment) Plant() *lti.System { return e.plant }

func (e *Experiment) problem() optim.Problem {
	return optim.Problem{Plant: e.plant, NCon: e.cfg.NCon, NMeas: e.cfg.NMeas}
}

// Outcome is a synthesized controller and, when the plant has exogenous
// channels, its closed-loop verification.
type Outcome struct {
	Kind         string
	Gamma        float64
	Lower        float64
	Iterations   int
	Controller   *lti.Controller
	Verification *Verification
}

type Verification struct {
	ClosedLoop *lti.System
	Poles      []complex128
	Stable     bool
	// Response and Gain are only computed for a stable loop.
	Response *dynamo.Result
	Gain     analysis.Gain
}

// Synthesize runs one synthesis at the configured gamma.
func (e *Experiment) Synthesize(ctx context.Context) (*Outcome, error) {
	e.logger.Info("synthesizing", zap.String("problem", e.cfg.Name), zap.Float64("gamma", e.cfg.Gamma))
	k, err := e.synth.Synthesize(e.plant, e.cfg.NCon, e.cfg.NMeas, e.cfg.Gamma)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Kind: KindSynth, Gamma: e.cfg.Gamma, Controller: k}
	return out, e.verify(ctx, out)
}

// Bisect searches the configured range for the smallest feasible gamma.
func (e *Experiment) Bisect(ctx context.Context) (*Outcome, error) {
	b := e.cfg.BisectionSearch()
	e.logger.Info("bisecting", zap.String("problem", e.cfg.Name),
		zap.Float64("lo", b.Lo), zap.Float64("hi", b.Hi), zap.Float64("tol", b.Tol))
	res, err := b.Search(ctx, e.synth, e.problem())
	if err != nil {
		return nil, err
	}
	e.logger.Info("bisection done", zap.Float64("gamma", res.Gamma),
		zap.Float64("lower", res.Lower), zap.Int("iterations", res.Iterations))

	out := &Outcome{
		Kind:       KindBisect,
		Gamma:      res.Gamma,
		Lower:      res.Lower,
		Iterations: res.Iterations,
		Controller: res.Controller,
	}
	return out, e.verify(ctx, out)
}

// Sweep synthesizes at every gamma with the given number of workers.
func (e *Experiment) Sweep(ctx context.Context, gammas []float64, workers int) []optim.Outcome {
	return e.SweepNotify(ctx, gammas, workers, nil)
}

// SweepNotify is Sweep with fn called for each outcome as it completes.
func (e *Experiment) SweepNotify(ctx context.Context, gammas []float64, workers int, fn func(int, optim.Outcome)) []optim.Outcome {
	return optim.NewGridSearch(gammas, workers).Notify(fn).Search(ctx, e.synth, e.problem())
}

func (e *Experiment) verify(ctx context.Context, out *Outcome) error {
	cl, err := lti.ClosedLoop(e.plant, e.cfg.NCon, e.cfg.NMeas, out.Controller)
	if errors.Is(err, lti.ErrNoExogenous) {
		e.logger.Info("skipping closed-loop verification", zap.Error(err))
		return nil
	}
	if err != nil {
		return err
	}
	poles, err := cl.Poles()
	if err != nil {
		return err
	}
	v := &Verification{
		ClosedLoop: cl,
		Poles:      poles,
		Stable:     lti.StabilityMargin(poles) < 0,
	}
	out.Verification = v
	if !v.Stable {
		e.logger.Warn("closed loop is unstable", zap.Float64("margin", lti.StabilityMargin(poles)))
		return nil
	}

	integ, err := Integrator(e.cfg.Sim.Integrator)
	if err != nil {
		return err
	}
	s := sim.New(cl, integ, sim.Step(cl.InputDim(), e.cfg.Sim.Channel, e.cfg.Sim.Amplitude))
	for _, m := range metrics.Default(e.cfg.Sim.Dt) {
		s.AddMetric(m)
	}
	simCfg := dynamo.DefaultConfig()
	simCfg.Dt, simCfg.Duration = e.cfg.Sim.Dt, e.cfg.Sim.Duration
	res, err := s.Run(ctx, make(dynamo.State, cl.StateDim()), simCfg)
	if err != nil {
		return err
	}
	v.Response = res

	gain, err := analysis.Estimate(ctx, cl, e.cfg.Sim.Dt, e.cfg.Sim.Duration)
	if err != nil {
		return err
	}
	v.Gain = gain
	e.logger.Debug("closed loop verified",
		zap.Float64("peak_gain", gain.Value), zap.Float64("omega", gain.Omega), zap.Int("steps", res.StepsTaken))
	return nil
}

// Run packages the outcome for storage.
func (o *Outcome) Run(cfg *config.Config) *storage.Run {
	run := &storage.Run{
		Meta: storage.RunMetadata{
			Name:       cfg.Name,
			Kind:       o.Kind,
			Gamma:      o.Gamma,
			Lower:      o.Lower,
			Iterations: o.Iterations,
			NCon:       cfg.NCon,
			NMeas:      cfg.NMeas,
		},
		Problem:    cfg,
		Controller: o.Controller,
	}
	if v := o.Verification; v != nil {
		run.Meta.Stable = v.Stable
		run.Meta.PeakGain = v.Gain.Value
		run.Result = v.Response
	}
	return run
}
