package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/ratlist/internal/reorder"
	"github.com/roach88/ratlist/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation rejected (unknown item, bad position, failed scenarios, ...)
	ExitCommandError = 2 // Command error (malformed arguments, database cannot be opened, ...)
)

// Error codes carried in CLIError.Code.
const (
	ErrCodeInvalidArgs   = "E001"
	ErrCodeStoreOpen     = "E002"
	ErrCodeListNotFound  = "E003"
	ErrCodeItemNotFound  = "E004"
	ErrCodePosition      = "E005"
	ErrCodeEmptyList     = "E006"
	ErrCodeStoreBusy     = "E007"
	ErrCodeKeyOverflow   = "E008"
	ErrCodeDegenerate    = "E009"
	ErrCodeInternal      = "E010"
	ErrCodeScenarioFails = "E011"
)

// ExitError represents an error with a specific exit code.
// Commands return it after the error has been written through an
// OutputFormatter, so callers only need the code.
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
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// classifyError maps engine and store errors onto a CLI error code and the
// process exit code.
func classifyError(err error) (string, int) {
	switch reorder.CodeOf(err) {
	case reorder.ErrCodeNotFound:
		return ErrCodeItemNotFound, ExitFailure
	case reorder.ErrCodePositionOutOfRange:
		return ErrCodePosition, ExitFailure
	case reorder.ErrCodeEmptyList:
		return ErrCodeEmptyList, ExitFailure
	case reorder.ErrCodeTransientStore:
		return ErrCodeStoreBusy, ExitFailure
	case reorder.ErrCodeKeyOverflow:
		return ErrCodeKeyOverflow, ExitFailure
	case reorder.ErrCodeDegenerateRange:
		return ErrCodeDegenerate, ExitFailure
	}
	switch {
	case errors.Is(err, store.ErrListNotFound):
		return ErrCodeListNotFound, ExitFailure
	case errors.Is(err, store.ErrTransient):
		return ErrCodeStoreBusy, ExitFailure
	}
	return ErrCodeInternal, ExitFailure
}

// errorDetails returns the OrderError details worth showing, or nil.
func errorDetails(err error) any {
	var oe *reorder.OrderError
	if errors.As(err, &oe) && len(oe.Details) > 0 {
		return oe.Details
	}
	return nil
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
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with fmt, so result types render themselves
// through String.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
func (f *OutputFormatter) Fail(message string, err error) error {
	code, exit := classifyError(err)
	if writeErr := f.Error(code, fmt.Sprintf("%s: %v", message, err), errorDetails(err)); writeErr != nil {
		return writeErr
	}
	return WrapExitError(exit, message, err)
}

// Usage reports malformed arguments and returns a command error.
func (f *OutputFormatter) Usage(message string) error {
	if err := f.Error(ErrCodeInvalidArgs, message, nil); err != nil {
		return err
	}
	return NewExitError(ExitCommandError, message)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
