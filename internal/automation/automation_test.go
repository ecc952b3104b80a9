package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/hinfsyn/internal/config"
	"github.com/san-kum/hinfsyn/internal/lti"
	"github.com/san-kum/hinfsyn/internal/optim"
	"github.com/san-kum/hinfsyn/internal/slicot"
	"github.com/san-kum/hinfsyn/internal/slicot/slicottest"
	"gonum.org/v1/gonum/mat"
)

func fakeFactory(k *slicottest.Kernel) SynthesizerFactory {
	return func(cfg *config.Config) (optim.Synthesizer, error) {
		return slicot.New(slicot.WithKernel(k), slicot.WithTolerance(cfg.Tolerance))
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	data := `name: nightly
steps:
  - problem: lag
    mode: synth
    gamma: 3
  - problem: lag
    mode: bisect
    hi: 10
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "nightly" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.Steps[0].Gamma != 3 || sc.Steps[1].Mode != "bisect" || sc.Steps[1].Hi != 10 {
		t.Errorf("unexpected steps %+v", sc.Steps)
	}
}

func TestRunScenario(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Problem: "lag", Gamma: 3},
		{Problem: "lag", Mode: "bisect", Hi: 10},
	}}
	kernel := &slicottest.Kernel{MinGamma: 1.5}

	results, err := RunScenario(context.Background(), sc, fakeFactory(kernel), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Outcome.Gamma != 3 {
		t.Errorf("expected gamma override, got %g", results[0].Outcome.Gamma)
	}
	if results[1].Problem.Bisection.Hi != 10 {
		t.Errorf("expected hi override, got %g", results[1].Problem.Bisection.Hi)
	}
	if g := results[1].Outcome.Gamma; g < 1.5 || g > 1.51 {
		t.Errorf("bisection gamma %g not near 1.5", g)
	}
}

func TestRunScenarioStopsOnFailure(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Problem: "lag"},
		{Problem: "lag", Mode: "anneal"},
		{Problem: "lag"},
	}}

	results, err := RunScenario(context.Background(), sc, fakeFactory(slicottest.New()), nil)
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if len(results) != 1 {
		t.Errorf("expected 1 completed step, got %d", len(results))
	}
}

func TestRunScenarioHooks(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Problem: "lag", Gamma: 3},
		{Problem: "lag", Mode: "anneal"},
	}}

	var events []StepEvent
	_, err := RunScenario(context.Background(), sc, fakeFactory(slicottest.New()), nil, func(ev StepEvent) {
		events = append(events, ev)
	})
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if len(events) != 4 {
		t.Fatalf("expected start and end events for 2 steps, got %d", len(events))
	}
	if events[0].Done || !events[1].Done || events[1].Err != nil || events[1].Result.Outcome == nil {
		t.Errorf("unexpected first step events %+v %+v", events[0], events[1])
	}
	if events[3].Index != 1 || events[3].Total != 2 || events[3].Err == nil {
		t.Errorf("expected failure event for step 2, got %+v", events[3])
	}
}

func TestRunScenarioUnknownProblem(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Problem: filepath.Join(t.TempDir(), "none.yaml")}}}
	if _, err := RunScenario(context.Background(), sc, fakeFactory(slicottest.New()), nil); err == nil {
		t.Error("expected error")
	}
}

func lagLoop() (*lti.System, *lti.Controller) {
	plant := &lti.System{
		A: mat.NewDense(1, 1, []float64{-1}),
		B: mat.NewDense(1, 2, []float64{1, 1}),
		C: mat.NewDense(2, 1, []float64{1, 1}),
		D: mat.NewDense(2, 2, []float64{0, 1, 1, 0}),
	}
	k := &lti.Controller{
		AK: mat.NewDense(1, 1, []float64{-3}),
		BK: mat.NewDense(1, 1, []float64{1}),
		CK: mat.NewDense(1, 1, []float64{-1}),
		DK: mat.NewDense(1, 1, []float64{0}),
	}
	return plant, k
}

func TestRunMonteCarlo(t *testing.T) {
	plant, k := lagLoop()
	cfg := MonteCarloConfig{Perturbation: 0.2, NumTrials: 25, Seed: 7}

	results, err := RunMonteCarlo(context.Background(), cfg, plant, 1, 1, k)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 25 {
		t.Fatalf("expected 25 trials, got %d", len(results))
	}
	stable, unstable := MonteCarloStats(results)
	if stable != 25 || unstable != 0 {
		t.Errorf("expected all stable, got %d/%d", stable, unstable)
	}
	if plant.A.At(0, 0) != -1 {
		t.Error("nominal plant was modified")
	}
}

func TestRunMonteCarloDeterministic(t *testing.T) {
	plant, k := lagLoop()
	cfg := MonteCarloConfig{Perturbation: 0.5, NumTrials: 5, Seed: 42}

	a, err := RunMonteCarlo(context.Background(), cfg, plant, 1, 1, k)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunMonteCarlo(context.Background(), cfg, plant, 1, 1, k)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i].Margin != b[i].Margin {
			t.Errorf("trial %d differs: %g vs %g", i, a[i].Margin, b[i].Margin)
		}
	}
}

func TestRunMonteCarloCanceled(t *testing.T) {
	plant, k := lagLoop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := RunMonteCarlo(ctx, MonteCarloConfig{NumTrials: 3, Seed: 1}, plant, 1, 1, k)
	if err == nil || len(results) != 0 {
		t.Errorf("expected cancellation, got %d results, err %v", len(results), err)
	}
}

func TestMonteCarloStats(t *testing.T) {
	s, u := MonteCarloStats([]MonteCarloResult{{Stable: true}, {Stable: false}, {Stable: true}})
	if s != 2 || u != 1 {
		t.Errorf("got %d stable, %d unstable", s, u)
	}
}
