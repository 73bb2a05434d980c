package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/chemcheck/internal/compare"
	"github.com/roach88/chemcheck/internal/fixture"
	"github.com/roach88/chemcheck/internal/store"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	Color    bool
	Database string // optional run history
}

// CompareResult is the JSON payload of a compare.
type CompareResult struct {
	Actual   string          `json:"actual"`
	Expected string          `json:"expected"`
	Report   *compare.Report `json:"report"`
	RunID    string          `json:"run_id,omitempty"`
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare <actual> <expected>",
		Short: "Diff an actual fixture against the expected one",
		Long: `Compare an actual results fixture with the expected fixture.

Molecules are aligned by name in order; expected molecules missing from the
actual results are skipped. Atoms fail on a type mismatch or a charge more
than 0.01 away. A molecule fails when the integer parts of the energies
differ.

Exit codes:
  0 - No failures
  1 - Atom or molecule failures, or the fixtures could not be aligned
  2 - Command error (missing fixture, unreadable input, database error)

Examples:
  chemcheck compare actual.xml mmff94.expected
  chemcheck compare actual.xml mmff94.expected --color
  chemcheck compare actual.xml mmff94.expected --db history.db --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Color, "color", false, "highlight failures with ANSI colors")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the comparison in this SQLite database")

	return cmd
}

func runCompare(opts *CompareOptions, actualPath, expectedPath string, cmd *cobra.Command) error {
	started := time.Now()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	actual, expected, err := compare.LoadPair(actualPath, expectedPath)
	if err != nil {
		return formatter.fail("failed to load fixtures", err)
	}
	slog.Debug("fixtures loaded", "actual", len(actual), "expected", len(expected))

	report, err := compare.Compare(actual, expected)
	if err != nil {
		return formatter.fail("comparison aborted", err)
	}

	result := CompareResult{Actual: actualPath, Expected: expectedPath, Report: report}

	if opts.Database != "" {
		run, err := recordComparison(cmdContext(cmd), opts.Database, started, store.Comparison{
			ActualPath:      actualPath,
			ExpectedPath:    expectedPath,
			ActualDigest:    fixture.Digest(actual),
			ExpectedDigest:  fixture.Digest(expected),
			Molecules:       len(report.Molecules),
			Skipped:         len(report.Skipped),
			AtomsFailed:     report.AtomsFailed,
			MoleculesFailed: report.MoleculesFailed,
		})
		if err != nil {
			if opts.Format == "json" {
				_ = formatter.Error(CodeStore, err.Error(), nil)
			}
			return WrapExitError(ExitCommandError, "failed to record comparison", err)
		}
		result.RunID = run.ID
	}

	message := fmt.Sprintf("%d atoms failed, %d molecules failed", report.AtomsFailed, report.MoleculesFailed)
	if opts.Format == "json" {
		if err := formatter.Result(result, report.Failed(), CodeCompareFailed, message); err != nil {
			return err
		}
	} else if err := report.WriteText(cmd.OutOrStdout(), compare.TextOptions{Color: opts.Color}); err != nil {
		return err
	}

	if report.Failed() {
		return NewExitError(ExitFailure, message)
	}
	return nil
}

func recordComparison(ctx context.Context, path string, started time.Time, c store.Comparison) (store.Run, error) {
	st, err := store.Open(path)
	if err != nil {
		return store.Run{}, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	return st.RecordComparison(ctx, started, c)
}

// cmdContext returns the command's context, or Background when unset.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
