package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/hinfsyn/internal/config"
	"github.com/san-kum/hinfsyn/internal/experiment"
	"github.com/san-kum/hinfsyn/internal/lti"
	"github.com/san-kum/hinfsyn/internal/optim"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of synthesis problems.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep names a preset or problem file and how to solve it.
// Zero-valued overrides leave the problem's own setting.
type ScenarioStep struct {
	Problem string  `yaml:"problem"`
	Mode    string  `yaml:"mode"`
	Gamma   float64 `yaml:"gamma,omitempty"`
	Lo      float64 `yaml:"lo,omitempty"`
	Hi      float64 `yaml:"hi,omitempty"`
}

// SynthesizerFactory builds the synthesizer for one problem.
type SynthesizerFactory func(cfg *config.Config) (optim.Synthesizer, error)

// StepResult pairs the resolved problem with its outcome.
type StepResult struct {
	Problem *config.Config
	Outcome *experiment.Outcome
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// StepEvent reports the start (Done false) and end of a scenario step. Err
// is set when a finished step failed.
type StepEvent struct {
	Index  int
	Total  int
	Step   ScenarioStep
	Done   bool
	Result StepResult
	Err    error
}

// StepHook observes scenario progress.
type StepHook func(StepEvent)

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, factory SynthesizerFactory, logger *zap.Logger, hooks ...StepHook) ([]StepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	emit := func(ev StepEvent) {
		for _, h := range hooks {
			h(ev)
		}
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step", zap.Int("step", i+1), zap.Int("of", len(scenario.Steps)),
			zap.String("problem", step.Problem), zap.String("mode", step.Mode))
		ev := StepEvent{Index: i, Total: len(scenario.Steps), Step: step}
		emit(ev)

		res, err := runStep(ctx, step, factory, logger)
		ev.Done, ev.Result, ev.Err = true, res, err
		emit(ev)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func runStep(ctx context.Context, step ScenarioStep, factory SynthesizerFactory, logger *zap.Logger) (StepResult, error) {
	cfg, err := experiment.Resolve(step.Problem)
	if err != nil {
		return StepResult{}, err
	}
	if step.Gamma != 0 {
		cfg.Gamma = step.Gamma
	}
	if step.Lo != 0 {
		cfg.Bisection.Lo = step.Lo
	}
	if step.Hi != 0 {
		cfg.Bisection.Hi = step.Hi
	}

	s, err := factory(cfg)
	if err != nil {
		return StepResult{}, err
	}
	exp, err := experiment.New(cfg, s, logger)
	if err != nil {
		return StepResult{}, fmt.Errorf("setup: %w", err)
	}

	var out *experiment.Outcome
	switch step.Mode {
	case "", experiment.KindSynth:
		out, err = exp.Synthesize(ctx)
	case experiment.KindBisect:
		out, err = exp.Bisect(ctx)
	default:
		err = fmt.Errorf("unknown mode %q", step.Mode)
	}
	if err != nil {
		return StepResult{Problem: cfg}, err
	}
	return StepResult{Problem: cfg, Outcome: out}, nil
}

// MonteCarloConfig perturbs every entry of the plant A matrix by a uniform
// relative amount in [-Perturbation, Perturbation].
type MonteCarloConfig struct {
	Perturbation float64
	NumTrials    int
	Seed         int64
}

// MonteCarloResult is the closed-loop outcome of one perturbed plant.
type MonteCarloResult struct {
	TrialID int
	Margin  float64
	Stable  bool
}

// RunMonteCarlo checks whether controller k keeps perturbed copies of
// plant stable.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, plant *lti.System, ncon, nmeas int, k *lti.Controller) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		a := mat.DenseCopyOf(plant.A)
		r, c := a.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				a.Set(i, j, a.At(i, j)*(1+(rng.Float64()-0.5)*2*cfg.Perturbation))
			}
		}
		perturbed := &lti.System{A: a, B: plant.B, C: plant.C, D: plant.D}

		cl, err := lti.ClosedLoop(perturbed, ncon, nmeas, k)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}
		poles, err := cl.Poles()
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}
		margin := lti.StabilityMargin(poles)

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Margin:  margin,
			Stable:  margin < 0,
		})
	}
	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
