package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/bondgraph/internal/compiler"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Derivation or check failed (unsupported network, scenario failure, numeric mismatch)
	ExitCommandError = 2 // Command error (unreadable input, bad flags, unwritable output)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (ExitFailure or ExitCommandError)
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

// textRenderer is implemented by command results with a human-readable form.
type textRenderer interface {
	WriteText(w io.Writer) error
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Verbose bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status   string    `json:"status"`             // "ok" or "error"
	Data     any       `json:"data,omitempty"`     // success payload
	Error    *CLIError `json:"error,omitempty"`    // error details
	Warnings []string  `json:"warnings,omitempty"` // non-fatal findings
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E301", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any, warnings ...string) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data, Warnings: warnings})
	}

	if r, ok := data.(textRenderer); ok {
		if err := r.WriteText(f.Writer); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(f.Writer, data)
	}
	for _, w := range warnings {
		fmt.Fprintf(f.Writer, "warning: %s\n", w)
	}
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %+v\n", details)
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
func (f *OutputFormatter) Fail(message string, err error) error {
	code, exit := Classify(err)
	var details any
	var ife *compiler.InputFormatError
	if errors.As(err, &ife) {
		details = ife
	}
	if outErr := f.Error(code, err.Error(), details); outErr != nil {
		return outErr
	}
	return WrapExitError(exit, message, err)
}

func newFormatter(opts *RootOptions, w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: w, Verbose: opts.Verbose}
}
