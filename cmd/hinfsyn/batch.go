package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/hinfsyn/internal/automation"
	"github.com/san-kum/hinfsyn/internal/config"
	"github.com/san-kum/hinfsyn/internal/optim"
	"github.com/san-kum/hinfsyn/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	factory := func(cfg *config.Config) (optim.Synthesizer, error) {
		if err := cfg.ApplyEnv(env); err != nil {
			return nil, err
		}
		return newSynthesizer(cfg)
	}

	ctx, cancel := signalContext()
	defer cancel()
	var (
		results []automation.StepResult
		runErr  error
	)
	if live {
		err := runLive(sc.Name, len(sc.Steps), cancel, func(send func(tea.Msg)) {
			results, runErr = automation.RunScenario(ctx, sc, factory, zap.NewNop(), func(ev automation.StepEvent) {
				send(stepItem(ev))
			})
		})
		if err != nil {
			return err
		}
	} else {
		results, runErr = automation.RunScenario(ctx, sc, factory, logger)
	}

	st := storage.New(dataDir)
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPROBLEM\tKIND\tGAMMA\tSTABLE\tRUN")
	for i, r := range results {
		id := "-"
		if !noSave {
			if id, err = st.Save(r.Outcome.Run(r.Problem)); err != nil {
				return err
			}
		}
		stable := "-"
		if v := r.Outcome.Verification; v != nil {
			stable = fmt.Sprint(v.Stable)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.6g\t%s\t%s\n", i+1, r.Problem.Name, r.Outcome.Kind, r.Outcome.Gamma, stable, id)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runRobust(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	problem, err := st.LoadProblem(runID)
	if err != nil {
		return err
	}
	plant, err := problem.System()
	if err != nil {
		return err
	}
	k, err := st.LoadController(runID)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	cfg := automation.MonteCarloConfig{Perturbation: perturb, NumTrials: trials, Seed: seed}
	results, err := automation.RunMonteCarlo(ctx, cfg, plant, meta.NCon, meta.NMeas, k)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	worst := 0.0
	for i, r := range results {
		if i == 0 || r.Margin > worst {
			worst = r.Margin
		}
	}
	fmt.Printf("run %s, A perturbed by ±%.1f%%\n", meta.ID, perturb*100)
	fmt.Printf("stable: %d/%d  unstable: %d  worst pole margin: %.4g\n", stable, len(results), unstable, worst)
	return nil
}
