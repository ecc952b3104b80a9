package main

import (
	"fmt"
	"os"

	"github.com/san-kum/hinfsyn/internal/config"
	"github.com/san-kum/hinfsyn/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir  string
	envFile  string
	logLevel string
	logFile  string

	gamma     float64
	tol       float64
	integName string
	duration  float64
	dt        float64
	channel   int
	noSave    bool
	plot      bool

	lo      float64
	hi      float64
	relTol  float64
	maxIter int

	points  int
	workers int
	live    bool

	trials  int
	perturb float64
	seed    int64

	logger *zap.Logger
	env    map[string]string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "hinfsyn",
		Short:         "H-infinity output-feedback controller synthesis (SLICOT SB10FD)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			env, err = config.Env(envFile)
			if err != nil {
				return fmt.Errorf("reading %s: %w", envFile, err)
			}
			if v, ok := env[config.EnvPrefix+"DATA"]; ok && !cmd.Flags().Changed("data") {
				dataDir = v
			}
			if v, ok := env[config.EnvPrefix+"LOG_LEVEL"]; ok && !cmd.Flags().Changed("log-level") {
				logLevel = v
			}
			opts := logging.DefaultOptions()
			opts.Level = logLevel
			opts.File = logFile
			logger, err = logging.New(opts)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".hinfsyn", "run directory")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with HINFSYN_* defaults")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "rotating JSON log file")

	synthCmd := &cobra.Command{
		Use:   "synth [problem]",
		Short: "synthesize a controller at a fixed gamma",
		Args:  cobra.ExactArgs(1),
		RunE:  runSynth,
	}
	synthCmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "performance level")
	synthCmd.Flags().Float64Var(&tol, "tol", 0, "SB10FD TOL (0 selects the default)")
	addSimFlags(synthCmd)

	bisectCmd := &cobra.Command{
		Use:   "bisect [problem]",
		Short: "find the smallest feasible gamma by bisection",
		Args:  cobra.ExactArgs(1),
		RunE:  runBisect,
	}
	bisectCmd.Flags().Float64Var(&lo, "lo", 0, "lower gamma bound")
	bisectCmd.Flags().Float64Var(&hi, "hi", 100, "upper gamma bound")
	bisectCmd.Flags().Float64Var(&relTol, "rtol", 1e-3, "relative bracket width")
	bisectCmd.Flags().IntVar(&maxIter, "max-iter", 60, "maximum syntheses")
	bisectCmd.Flags().Float64Var(&tol, "tol", 0, "SB10FD TOL (0 selects the default)")
	addSimFlags(bisectCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [problem]",
		Short: "synthesize over a gamma grid",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&lo, "lo", 0.5, "first gamma")
	sweepCmd.Flags().Float64Var(&hi, "hi", 20, "last gamma")
	sweepCmd.Flags().IntVar(&points, "points", 40, "grid points")
	sweepCmd.Flags().IntVar(&workers, "workers", 4, "concurrent syntheses")
	sweepCmd.Flags().BoolVar(&live, "live", false, "show a live progress view")

	callCmd := &cobra.Command{
		Use:   "call [problem]",
		Short: "invoke slsb10fd through the host-call registry",
		Args:  cobra.ExactArgs(1),
		RunE:  runCall,
	}
	callCmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "performance level")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in problems",
		RunE:  listPresets,
	}

	exportCmd := &cobra.Command{
		Use:   "export [problem] [file]",
		Short: "write a problem as YAML",
		Args:  cobra.ExactArgs(2),
		RunE:  exportProblem,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&plot, "plot", false, "plot the stored state trajectory")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario]",
		Short: "run a YAML scenario of synthesis problems",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")
	batchCmd.Flags().BoolVar(&live, "live", false, "show a live progress view")

	robustCmd := &cobra.Command{
		Use:   "robust [run_id]",
		Short: "Monte Carlo stability check of a stored controller",
		Args:  cobra.ExactArgs(1),
		RunE:  runRobust,
	}
	robustCmd.Flags().IntVar(&trials, "trials", 200, "perturbed plants")
	robustCmd.Flags().Float64Var(&perturb, "perturb", 0.1, "relative perturbation of A")
	robustCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	rootCmd.AddCommand(synthCmd, bisectCmd, sweepCmd, callCmd, presetsCmd, exportCmd, listCmd, showCmd, batchCmd, robustCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&integName, "integrator", "rk4", "integrator for the step response")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "step response duration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "step response timestep")
	cmd.Flags().IntVar(&channel, "channel", 0, "exogenous input driven by the step")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().BoolVar(&plot, "plot", false, "plot the closed-loop step response")
}
