package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/chemcheck/internal/harness"
	"github.com/roach88/chemcheck/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config      string
	Root        string
	LibraryPath string
	PluginPath  string
	Timeout     time.Duration
	Database    string

	// IDGenerator overrides history run IDs (for testing).
	// If nil, the store defaults to UUIDv7.
	IDGenerator store.IDGenerator
}

// RunResult is the JSON payload of a suite run.
type RunResult struct {
	*harness.Summary
	FailedCount int    `json:"failed"`
	RunID       string `json:"run_id,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [categories...]",
		Short: "Run the test-executable suite",
		Long: `Run every test executable in the given categories and aggregate their
Totals summaries.

Each category is a directory under the suite root; each of its
subdirectories <name> holding an executable <name>/<name> is one test.
Tests run one at a time in lexical order, with the native library and
plugin search paths set for the child only. Without arguments the
categories from the config (or the built-in list) are used.

Exit codes:
  0 - All tests passed
  1 - One or more tests failed or could not be run
  2 - Command error (bad config, missing suite root, database error)

Examples:
  chemcheck run --root build/tests/auto
  chemcheck run chemkit plugins --config harness.yaml
  chemcheck run --db history.db --timeout 5m --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "harness config file (YAML)")
	cmd.Flags().StringVar(&opts.Root, "root", "", "suite root directory (overrides config)")
	cmd.Flags().StringVar(&opts.LibraryPath, "library-path", "", "native library search path for tests, relative to the suite root")
	cmd.Flags().StringVar(&opts.PluginPath, "plugin-path", "", "toolkit plugin search path for tests, relative to the suite root")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "per-test timeout (0 = none)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")

	return cmd
}

func runSuite(opts *RunOptions, categories []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		if opts.Format == "json" {
			_ = formatter.Error(CodeConfig, err.Error(), nil)
		}
		return WrapExitError(ExitCommandError, "invalid harness config", err)
	}
	if len(categories) == 0 {
		categories = cfg.Categories
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmdContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, stopping suite", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	// Status lines would corrupt the JSON document
	var progress io.Writer = cmd.OutOrStdout()
	if opts.Format == "json" {
		progress = formatter.GetErrWriter()
	}

	started := time.Now()
	runner := harness.NewRunner(cfg, progress, slog.Default())
	summary, err := runner.RunAll(ctx, categories)
	if err != nil {
		if summary != nil && ctx.Err() != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("suite interrupted after %d tests", summary.Run), err)
		}
		if opts.Format == "json" {
			_ = formatter.Error("E_COMMAND", err.Error(), nil)
		}
		return WrapExitError(ExitCommandError, "failed to run suite", err)
	}

	result := RunResult{Summary: summary, FailedCount: summary.Failed()}

	if opts.Database != "" {
		run, err := recordSuite(ctx, opts, started, summary)
		if err != nil {
			if opts.Format == "json" {
				_ = formatter.Error(CodeStore, err.Error(), nil)
			}
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		result.RunID = run.ID
	}

	message := fmt.Sprintf("%d of %d tests failed", summary.Failed(), summary.Run)
	if err := formatter.Result(result, !summary.OK(), CodeTestFailed, message); err != nil {
		return err
	}

	if !summary.OK() {
		return NewExitError(ExitFailure, message)
	}
	return nil
}

// resolveConfig loads the config file when given, then applies flags the
// user set explicitly.
func resolveConfig(opts *RunOptions, cmd *cobra.Command) (harness.Config, error) {
	cfg := harness.DefaultConfig()
	if opts.Config != "" {
		var err error
		if cfg, err = harness.LoadConfig(opts.Config); err != nil {
			return harness.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = opts.Root
	}
	if flags.Changed("library-path") {
		cfg.LibraryPath = opts.LibraryPath
	}
	if flags.Changed("plugin-path") {
		cfg.PluginPath = opts.PluginPath
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.Timeout
	}

	if err := cfg.Validate(); err != nil {
		return harness.Config{}, err
	}
	return cfg, nil
}

func recordSuite(ctx context.Context, opts *RunOptions, started time.Time, summary *harness.Summary) (store.Run, error) {
	var storeOpts []store.Option
	if opts.IDGenerator != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDGenerator))
	}
	st, err := store.Open(opts.Database, storeOpts...)
	if err != nil {
		return store.Run{}, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	return st.RecordSuite(ctx, started, summary)
}
