package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/hinfsyn/internal/config"
	"github.com/san-kum/hinfsyn/internal/dld"
	"github.com/san-kum/hinfsyn/internal/experiment"
	"github.com/san-kum/hinfsyn/internal/lti"
	"github.com/san-kum/hinfsyn/internal/optim"
	"github.com/san-kum/hinfsyn/internal/slicot"
	"github.com/san-kum/hinfsyn/internal/storage"
	"github.com/san-kum/hinfsyn/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// loadProblem resolves args[0] and applies, in order, HINFSYN_* variables
// and explicitly set flags.
func loadProblem(cmd *cobra.Command, ref string) (*config.Config, error) {
	cfg, err := experiment.Resolve(ref)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			apply()
		}
	}
	set("gamma", func() { cfg.Gamma = gamma })
	set("tol", func() { cfg.Tolerance = tol })
	set("integrator", func() { cfg.Sim.Integrator = integName })
	set("time", func() { cfg.Sim.Duration = duration })
	set("dt", func() { cfg.Sim.Dt = dt })
	set("channel", func() { cfg.Sim.Channel = channel })
	if cmd.Name() == "bisect" {
		set("lo", func() { cfg.Bisection.Lo = lo })
		set("hi", func() { cfg.Bisection.Hi = hi })
		set("rtol", func() { cfg.Bisection.Tol = relTol })
		set("max-iter", func() { cfg.Bisection.MaxIter = maxIter })
	}
	return cfg, nil
}

func newSynthesizer(cfg *config.Config) (*slicot.Synthesizer, error) {
	return slicot.New(
		slicot.WithLogger(logger.Named("slicot")),
		slicot.WithTolerance(cfg.Tolerance),
	)
}

func newExperiment(cmd *cobra.Command, ref string) (*experiment.Experiment, *config.Config, error) {
	cfg, err := loadProblem(cmd, ref)
	if err != nil {
		return nil, nil, err
	}
	s, err := newSynthesizer(cfg)
	if err != nil {
		return nil, nil, err
	}
	e, err := experiment.New(cfg, s, logger)
	if err != nil {
		return nil, nil, err
	}
	return e, cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSynth(cmd *cobra.Command, args []string) error {
	e, cfg, err := newExperiment(cmd, args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	out, err := e.Synthesize(ctx)
	if err != nil {
		return err
	}
	return finish(cfg, out)
}

func runBisect(cmd *cobra.Command, args []string) error {
	e, cfg, err := newExperiment(cmd, args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	out, err := e.Bisect(ctx)
	if err != nil {
		return err
	}
	return finish(cfg, out)
}

func finish(cfg *config.Config, out *experiment.Outcome) error {
	fmt.Println(outcomeReport(cfg, out))

	if v := out.Verification; v != nil && plot && v.Response != nil {
		outputs := make([][]float64, len(v.Response.Outputs))
		for i, z := range v.Response.Outputs {
			outputs[i] = z
		}
		fmt.Println(viz.PlotOutputs(outputs, fmt.Sprintf("step on w%d:", cfg.Sim.Channel)))
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(out.Run(cfg))
	if err != nil {
		return err
	}
	logger.Info("run stored", zap.String("id", runID), zap.String("dir", dataDir))
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func outcomeReport(cfg *config.Config, out *experiment.Outcome) string {
	n, nmeas, ncon := out.Controller.Dims()
	fields := []viz.Field{
		viz.F("problem", "%s", cfg.Name),
		viz.F("gamma", "%.6g", out.Gamma),
	}
	if out.Kind == experiment.KindBisect {
		fields = append(fields,
			viz.F("bracket", "[%.6g, %.6g]", out.Lower, out.Gamma),
			viz.F("iterations", "%d", out.Iterations))
	}
	fields = append(fields,
		viz.F("controller", "order %d, %d -> %d", n, nmeas, ncon),
		viz.F("rcond", "%.3g", out.Controller.RCond))

	blocks := controllerBlocks(out.Controller)
	if v := out.Verification; v != nil {
		fields = append(fields,
			viz.F("closed loop", "%s", viz.Status(v.Stable, stability(v.Stable))),
			viz.F("pole margin", "%.4g", lti.StabilityMargin(v.Poles)))
		if v.Response != nil {
			fields = append(fields,
				viz.F("peak gain", "%.4g at %.3g rad/s", v.Gain.Value, v.Gain.Omega),
				viz.F("gain bound", "%s", viz.Status(v.Gain.Value <= out.Gamma*1.01, fmt.Sprintf("%.4g <= %.4g", v.Gain.Value, out.Gamma))))
			for name, val := range v.Response.Metrics {
				fields = append(fields, viz.F(name, "%.6g", val))
			}
		}
		blocks = append(blocks, viz.Subtle.Render("closed-loop poles")+"\n"+viz.PoleMap(v.Poles, 40, 10).String())
	}
	return viz.Report("slsb10fd", fields, blocks...)
}

func controllerBlocks(k *lti.Controller) []string {
	return []string{
		viz.Matrix("AK", k.AK),
		viz.Matrix("BK", k.BK),
		viz.Matrix("CK", k.CK),
		viz.Matrix("DK", k.DK),
	}
}

func stability(ok bool) string {
	if ok {
		return "stable"
	}
	return "unstable"
}

func runSweep(cmd *cobra.Command, args []string) error {
	e, _, err := newExperiment(cmd, args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	gammas := optim.Linspace(lo, hi, points)
	var outcomes []optim.Outcome
	if live {
		err := runLive("gamma sweep", len(gammas), cancel, func(send func(tea.Msg)) {
			outcomes = e.SweepNotify(ctx, gammas, workers, func(i int, o optim.Outcome) {
				send(sweepItem(i, o))
			})
		})
		if err != nil {
			return err
		}
	} else {
		outcomes = e.Sweep(ctx, gammas, workers)
	}

	feasible := make([]bool, len(outcomes))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GAMMA\tRESULT")
	for i, o := range outcomes {
		feasible[i] = o.Feasible()
		result := "feasible"
		if !o.Feasible() {
			result = o.Err.Error()
		}
		fmt.Fprintf(w, "%.4g\t%s\n", o.Gamma, result)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%.4g %s %.4g\n", lo, viz.Sparkline(feasible), hi)
	if best, ok := optim.Best(outcomes); ok {
		fmt.Printf("smallest feasible gamma on grid: %.6g\n", best.Gamma)
	} else {
		fmt.Println("no feasible gamma on grid")
	}
	return ctx.Err()
}

func runCall(cmd *cobra.Command, args []string) error {
	cfg, err := loadProblem(cmd, args[0])
	if err != nil {
		return err
	}
	s, err := newSynthesizer(cfg)
	if err != nil {
		return err
	}
	reg := dld.NewRegistry()
	if err := slicot.Register(reg, s); err != nil {
		return err
	}
	sys, err := cfg.System()
	if err != nil {
		return err
	}

	out, err := reg.Call(slicot.FunctionName, 4, sys.A, sys.B, sys.C, sys.D, cfg.NCon, cfg.NMeas, cfg.Gamma)
	if err != nil {
		return err
	}
	for i, name := range []string{"AK", "BK", "CK", "DK"} {
		fmt.Println(viz.Matrix(name, out[i].(mat.Matrix)))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATES\tINPUTS\tOUTPUTS\tNCON\tNMEAS\tGAMMA")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		sys, err := cfg.System()
		if err != nil {
			return err
		}
		n, m, p := sys.Dims()
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%g\n", name, n, m, p, cfg.NCon, cfg.NMeas, cfg.Gamma)
	}
	return w.Flush()
}

func exportProblem(cmd *cobra.Command, args []string) error {
	cfg, err := experiment.Resolve(args[0])
	if err != nil {
		return err
	}
	return config.Save(args[1], cfg)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROBLEM\tKIND\tTIME\tGAMMA\tORDER\tSTABLE\tPEAK GAIN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.6g\t%d\t%t\t%.4g\n",
			run.ID,
			run.Name,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Gamma,
			run.Order,
			run.Stable,
			run.PeakGain,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	k, err := st.LoadController(runID)
	if err != nil {
		return err
	}

	fields := []viz.Field{
		viz.F("id", "%s", meta.ID),
		viz.F("problem", "%s", meta.Name),
		viz.F("kind", "%s", meta.Kind),
		viz.F("time", "%s", meta.Timestamp.Format("2006-01-02 15:04:05")),
		viz.F("gamma", "%.6g", meta.Gamma),
		viz.F("closed loop", "%s", viz.Status(meta.Stable, stability(meta.Stable))),
		viz.F("rcond", "%.3g", meta.RCond),
	}
	if meta.PeakGain > 0 {
		fields = append(fields, viz.F("peak gain", "%.4g", meta.PeakGain))
	}
	fmt.Println(viz.Report("run "+meta.ID, fields, controllerBlocks(k)...))

	if !plot {
		return nil
	}
	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}
	series := make([][]float64, len(states[0]))
	for j := range series {
		series[j] = make([]float64, len(states))
		for i := range states {
			series[j][i] = states[i][j]
		}
	}
	fmt.Println(viz.PlotSeries(series, "closed-loop states"))
	return nil
}
