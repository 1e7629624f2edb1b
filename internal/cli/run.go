package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/armlab/kinconform/internal/harness"
	"github.com/armlab/kinconform/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Trials int    // override configured trial count
	Seed   int64  // override configured sampler seed
	DBPath string // record trials to a SQLite log
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "Run the conformance protocol against a solver",
		Long: `Run the full conformance protocol against the solver named in the
configuration: metadata checks, FK validation, search IK, callback-guarded
search IK, direct IK, and multi-solution IK.

Exit codes:
  0 - All categories passed
  1 - One or more categories failed
  2 - Command error (bad config, unknown solver, initialization failure)

Examples:
  kinconform run testdata/gantry.yaml
  kinconform run testdata/gantry.yaml --trials 500 --seed 7
  kinconform run testdata/gantry.yaml --db trials.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConformance(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Trials, "trials", 0, "override trial count per category")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "override sampler seed")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record trials to a SQLite log at this path")

	return cmd
}

func runConformance(opts *RunOptions, configPath string, cmd *cobra.Command) error {
	cfg, err := harness.LoadConfig(configPath)
	if err != nil {
		return reportCommandError(opts, cmd, "E_CONFIG", err)
	}
	if opts.Trials > 0 {
		cfg.Trials = opts.Trials
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = opts.Seed
	}

	solver, model, err := harness.Setup(cfg)
	if err != nil {
		return reportCommandError(opts, cmd, "E_SETUP", err)
	}

	runnerOpts := []harness.Option{
		harness.WithLogger(newLogger(opts.Verbose)),
	}
	if opts.DBPath != "" {
		st, err := store.Open(opts.DBPath)
		if err != nil {
			return reportCommandError(opts, cmd, "E_STORE", err)
		}
		defer st.Close()
		runnerOpts = append(runnerOpts, harness.WithRecorder(st))
	}

	runner, err := harness.NewRunner(cfg, solver, model, runnerOpts...)
	if err != nil {
		return reportCommandError(opts, cmd, "E_SETUP", err)
	}

	report, err := runner.Run(cmd.Context())
	if err != nil {
		return reportCommandError(opts, cmd, "E_RUN", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		if err := writeJSON(out, report); err != nil {
			return err
		}
	} else if err := report.Render(out); err != nil {
		return err
	}

	if !report.Passed() {
		return NewExitError(ExitFailure, "conformance validation failed")
	}
	return nil
}

// reportCommandError emits a setup-phase error in the selected format
// and wraps it with the command-error exit code. Setup errors are
// fatal: the protocol never starts.
func reportCommandError(opts *RunOptions, cmd *cobra.Command, code string, err error) error {
	if opts.Format == "json" {
		if werr := writeJSONError(cmd.OutOrStdout(), code, err.Error()); werr != nil {
			return werr
		}
	}
	return WrapExitError(ExitCommandError, fmt.Sprintf("fatal [%s]", code), err)
}

// newLogger builds the diagnostic logger: colorized tint output on
// stderr when verbose, discarded otherwise.
func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.TimeOnly,
	}))
}
