package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/chemcheck/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// RunDetail is the JSON payload for a single run.
type RunDetail struct {
	Run        store.Run           `json:"run"`
	Tests      []store.TestOutcome `json:"tests,omitempty"`
	Comparison *store.Comparison   `json:"comparison,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded suite runs and comparisons",
		Long: `List runs recorded with --db, newest first, or show one run in detail.

Examples:
  chemcheck history --db history.db
  chemcheck history --db history.db --limit 5
  chemcheck history --db history.db 0192f0c4-7a1e-7c3a-9d2b-5f8e1a6b3c4d`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showRun(opts, args[0], cmd)
			}
			return listRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum runs to list (0 = all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func openHistory(path string) (*store.Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func closeHistory(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

func listRuns(opts *HistoryOptions, cmd *cobra.Command) error {
	st, err := openHistory(opts.Database)
	if err != nil {
		return err
	}
	defer closeHistory(st)

	runs, err := st.ListRuns(cmdContext(cmd), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tKIND\tFINISHED\tRESULT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Seq, r.ID, r.Kind, r.FinishedAt.Format("2006-01-02 15:04:05"), okLabel(r.OK))
	}
	return tw.Flush()
}

func showRun(opts *HistoryOptions, id string, cmd *cobra.Command) error {
	st, err := openHistory(opts.Database)
	if err != nil {
		return err
	}
	defer closeHistory(st)

	ctx := cmdContext(cmd)
	run, err := st.ReadRun(ctx, id)
	if errors.Is(err, store.ErrRunNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", id))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	detail := RunDetail{Run: run}
	switch run.Kind {
	case store.KindSuite:
		if detail.Tests, err = st.ReadTestResults(ctx, id); err != nil {
			return WrapExitError(ExitCommandError, "failed to read test results", err)
		}
	case store.KindCompare:
		c, err := st.ReadComparison(ctx, id)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read comparison", err)
		}
		detail.Comparison = &c
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(detail)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run %s (%s) %s\n", run.ID, run.Kind, okLabel(run.OK))
	fmt.Fprintf(w, "started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "finished: %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))

	for _, t := range detail.Tests {
		fmt.Fprintf(w, "%-48s %s", t.ID(), t.Status.Label())
		if t.Error != "" {
			fmt.Fprintf(w, "  %s", t.Error)
		} else {
			fmt.Fprintf(w, "  (%d passed, %d failed, %d skipped)", t.Totals.Passed, t.Totals.Failed, t.Totals.Skipped)
		}
		fmt.Fprintln(w)
	}

	if c := detail.Comparison; c != nil {
		fmt.Fprintf(w, "actual:   %s (%s)\n", c.ActualPath, shortDigest(c.ActualDigest))
		fmt.Fprintf(w, "expected: %s (%s)\n", c.ExpectedPath, shortDigest(c.ExpectedDigest))
		fmt.Fprintf(w, "molecules: %d, skipped: %d\n", c.Molecules, c.Skipped)
		fmt.Fprintf(w, "atoms: %d failed\n", c.AtomsFailed)
		fmt.Fprintf(w, "molecules: %d failed\n", c.MoleculesFailed)
	}
	return nil
}

func okLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAILED"
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
