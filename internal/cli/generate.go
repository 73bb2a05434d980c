package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/chemcheck/internal/fixture"
	"github.com/roach88/chemcheck/internal/logparse"
	"github.com/roach88/chemcheck/internal/record"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Output string // fixture path; empty writes to stdout
}

// GenerateResult is the JSON payload of a successful generate.
type GenerateResult struct {
	Log       string `json:"log"`
	Output    string `json:"output,omitempty"`
	Molecules int    `json:"molecules"`
	Atoms     int    `json:"atoms"`
	Digest    string `json:"digest"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <log>",
		Short: "Build a comparison fixture from an optimisation log",
		Long: `Parse an MMFF94 validation-suite optimisation log and write its molecules
as a canonical comparison fixture.

The fixture is byte-for-byte deterministic for the same log. Without
--output it is written to stdout.

Exit codes:
  0 - Fixture written
  2 - Log missing or malformed, or the fixture could not be written

Examples:
  chemcheck generate mmff94.log -o mmff94.expected
  chemcheck generate mmff94.log > actual.xml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "fixture output path (default stdout)")

	return cmd
}

func runGenerate(opts *GenerateOptions, logPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	mols, err := logparse.ParseFile(logPath)
	if err != nil {
		return formatter.fail("failed to parse log", err)
	}
	formatter.VerboseLog("parsed %d molecules from %s", len(mols), logPath)

	if opts.Output == "" {
		if opts.Format == "json" {
			return formatter.fail("failed to write fixture", fmt.Errorf("--format json requires --output"))
		}
		if err := fixture.Write(cmd.OutOrStdout(), mols); err != nil {
			return WrapExitError(ExitCommandError, "failed to write fixture", err)
		}
		return nil
	}

	if err := fixture.WriteFile(opts.Output, mols); err != nil {
		return formatter.fail("failed to write fixture", err)
	}

	result := GenerateResult{
		Log:       logPath,
		Output:    opts.Output,
		Molecules: len(mols),
		Atoms:     record.FixtureFile(mols).AtomTotal(),
		Digest:    fixture.Digest(mols),
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d molecules (%d atoms) to %s\n", result.Molecules, result.Atoms, result.Output)
	return nil
}
