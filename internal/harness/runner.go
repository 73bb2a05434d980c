package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// waitDelay bounds how long Run waits for output pipes to close after the
// test process is killed or exits.
const waitDelay = 2 * time.Second

// Runner executes test executables one at a time.
type Runner struct {
	cfg    Config
	out    io.Writer
	logger *slog.Logger
}

// NewRunner creates a runner that prints per-test status lines to out.
// A nil logger discards diagnostics.
func NewRunner(cfg Config, out io.Writer, logger *slog.Logger) *Runner {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{cfg: cfg, out: out, logger: logger}
}

// Discover lists the test executables under the configured root for the
// given categories, in category order then lexical directory order.
// Missing categories and directories without an executable are skipped.
func (r *Runner) Discover(categories []string) ([]TestCase, error) {
	info, err := os.Stat(r.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("suite root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("suite root is not a directory: %s", r.cfg.Root)
	}

	var cases []TestCase
	for _, category := range categories {
		catDir := filepath.Join(r.cfg.Root, category)
		entries, err := os.ReadDir(catDir)
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Debug("category not present", "category", category)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read category %s: %w", category, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(catDir, entry.Name())
			exe := filepath.Join(dir, executableName(entry.Name()))
			if fi, err := os.Stat(exe); err != nil || fi.IsDir() {
				r.logger.Debug("no test executable", "dir", dir)
				continue
			}
			cases = append(cases, TestCase{
				Category:   category,
				Name:       entry.Name(),
				Dir:        dir,
				Executable: exe,
			})
		}
	}
	return cases, nil
}

// RunAll runs every discovered test in the given categories and returns the
// aggregate. It prints one status line per test as it completes and a final
// totals line. The returned error is non-nil only when discovery fails or
// ctx is cancelled; test failures and invocation errors are in the Summary.
func (r *Runner) RunAll(ctx context.Context, categories []string) (*Summary, error) {
	cases, err := r.Discover(categories)
	if err != nil {
		return nil, err
	}
	r.logger.Info("running tests", "root", r.cfg.Root, "count", len(cases))

	summary := NewSummary()
	for _, tc := range cases {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result := r.Run(ctx, tc)
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		summary.Add(result)
		fmt.Fprintf(r.out, "%-48s %s\n", tc.ID(), result.Status.Label())
		if result.Error != "" {
			r.logger.Warn("test invocation failed", "test", tc.ID(), "error", result.Error)
		}
	}

	fmt.Fprintf(r.out, "\npassed: %d, failed: %d, run: %d\n", summary.Passed, summary.Failed(), summary.Run)
	return summary, nil
}

// Run executes a single test and classifies its outcome.
func (r *Runner) Run(ctx context.Context, tc TestCase) TestResult {
	result := TestResult{Category: tc.Category, Name: tc.Name}

	runCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	var args []string
	if r.cfg.SilentFlag != "" {
		args = append(args, r.cfg.SilentFlag)
	}
	cmd := exec.CommandContext(runCtx, tc.Executable, args...)
	cmd.Dir = tc.Dir
	cmd.Env = r.childEnv()
	// Grandchildren may hold stdout open after the test is killed
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("starting test", "test", tc.ID(), "executable", tc.Executable)
	start := time.Now()
	runErr := cmd.Run()
	result.Duration = time.Since(start)

	if runErr != nil {
		var exitErr *exec.ExitError
		switch {
		case runCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil:
			return r.invocationError(result, tc, "timeout", fmt.Errorf("exceeded %s", r.cfg.Timeout))
		case errors.As(runErr, &exitErr):
			// Test executables exit non-zero when tests fail; the Totals line decides.
			r.logger.Debug("test exited non-zero", "test", tc.ID(), "code", exitErr.ExitCode())
		default:
			return r.invocationError(result, tc, "start", runErr)
		}
	}

	totals, err := ParseTotals(stdout.String())
	if err != nil {
		if stderr.Len() > 0 {
			r.logger.Debug("test stderr", "test", tc.ID(), "stderr", stderr.String())
		}
		return r.invocationError(result, tc, "parse output", err)
	}

	result.Totals = totals
	result.Status = StatusFail
	if totals.OK() {
		result.Status = StatusPass
	}
	return result
}

func (r *Runner) invocationError(result TestResult, tc TestCase, op string, err error) TestResult {
	ie := &InvocationError{Test: tc.ID(), Op: op, Err: err}
	result.Status = StatusError
	result.Error = ie.Error()
	return result
}

// childEnv returns the parent environment plus the search paths. Later
// entries override earlier ones for the child only.
func (r *Runner) childEnv() []string {
	env := os.Environ()
	if r.cfg.LibraryPathVar != "" && r.cfg.LibraryPath != "" {
		env = append(env, r.cfg.LibraryPathVar+"="+r.cfg.SearchPath(r.cfg.LibraryPath))
	}
	if r.cfg.PluginPathVar != "" && r.cfg.PluginPath != "" {
		env = append(env, r.cfg.PluginPathVar+"="+r.cfg.SearchPath(r.cfg.PluginPath))
	}
	return env
}

func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
