package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/chemcheck/internal/compare"
	"github.com/roach88/chemcheck/internal/logparse"
	"github.com/roach88/chemcheck/internal/record"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Comparison failures, failed or errored suite tests
	ExitCommandError = 2 // Command error (missing input, malformed log, bad config)
)

// Error codes carried in JSON error responses.
const (
	CodeMissingFile   = "E_MISSING_FILE"
	CodeMalformedLog  = "E_MALFORMED_LOG"
	CodeAlignment     = "E_ALIGNMENT"
	CodeCompareFailed = "E_COMPARE_FAILED"
	CodeTestFailed    = "E_TEST_FAILED"
	CodeConfig        = "E_CONFIG"
	CodeStore         = "E_STORE"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E_MISSING_FILE", "E_TEST_FAILED", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Result outputs data as a success when failed is false, otherwise as an
// error response that still carries data. Text mode prints nothing; callers
// render their own text.
func (f *OutputFormatter) Result(data any, failed bool, code, message string) error {
	if f.Format != "json" {
		return nil
	}
	resp := CLIResponse{Status: "ok", Data: data}
	if failed {
		resp.Status = "error"
		resp.Error = &CLIError{Code: code, Message: message}
	}
	return f.encode(resp)
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// classify maps a domain error to an exit code and JSON error code.
func classify(err error) (int, string) {
	var missing *record.MissingFileError
	switch {
	case errors.As(err, &missing):
		return ExitCommandError, CodeMissingFile
	case logparse.IsMalformed(err):
		return ExitCommandError, CodeMalformedLog
	case compare.IsAlignmentError(err):
		return ExitFailure, CodeAlignment
	default:
		return ExitCommandError, ""
	}
}

// fail reports err through the formatter and returns the matching ExitError.
// Text mode leaves printing to the caller of Execute.
func (f *OutputFormatter) fail(message string, err error) error {
	code, errCode := classify(err)
	if f.Format == "json" {
		if errCode == "" {
			errCode = "E_COMMAND"
		}
		_ = f.Error(errCode, err.Error(), nil)
	}
	return WrapExitError(code, message, err)
}
