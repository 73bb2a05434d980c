// Command chemcheck validates force-field simulation output against
// expected fixtures and drives the test-executable suite.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/chemcheck/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
