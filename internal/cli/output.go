package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/batchop/internal/model"
	"github.com/roach88/batchop/internal/preset"
	"github.com/roach88/batchop/internal/store"
)

// Process exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the helper reported failure, or input failed validation
	ExitCommandError = 2 // config, storage, lookup or usage error
)

// Error codes written in the JSON envelope and the text error line.
const (
	ErrCodeGeneric    = "E001"
	ErrCodeValidation = "E002"
	ErrCodeNotFound   = "E003" // no preset with that id or name
	ErrCodeAmbiguous  = "E004" // several presets share the name
	ErrCodeStorage    = "E005"
	ErrCodeConfig     = "E006"
	ErrCodeInvocation = "E007" // the helper ran and reported failure
)

// ExitError carries the exit code for an error the command has already
// shown to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// GetExitCode returns ExitSuccess for nil, the carried code for an
// *ExitError and ExitCommandError for anything else.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter writes results to Writer, as text or as a JSON envelope,
// and warnings to ErrWriter. Commands write their own text results; the
// formatter only owns the envelope and the error line.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
}

// CLIResponse is the JSON envelope.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error part of CLIResponse.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON reports whether output is the JSON envelope.
func (f *OutputFormatter) JSON() bool { return f.JSON() }

// Success writes data in an "ok" envelope.
func (f *OutputFormatter) Success(data any) error {
	return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
}

// Error writes an "error" envelope, or "Error [code]: message" in text mode.
// Details are only part of the envelope.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	_, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return err
}

// Warnf writes one "Warning: ..." line to ErrWriter.
func (f *OutputFormatter) Warnf(format string, args ...any) {
	fmt.Fprintf(f.ErrWriter, "Warning: "+format+"\n", args...)
}

// errorCode maps an error to its reported code and process exit code.
func errorCode(err error) (code string, exit int, details any) {
	var verr *model.ValidationError
	var cerr *configError
	switch {
	case errors.As(err, &verr):
		return ErrCodeValidation, ExitFailure, verr.Fields
	case errors.As(err, &cerr):
		return ErrCodeConfig, ExitCommandError, nil
	case errors.Is(err, store.ErrParamSetNotFound):
		return ErrCodeNotFound, ExitCommandError, nil
	case errors.Is(err, preset.ErrAmbiguousRef):
		return ErrCodeAmbiguous, ExitCommandError, nil
	case store.IsStorageError(err):
		return ErrCodeStorage, ExitCommandError, nil
	default:
		return ErrCodeGeneric, ExitCommandError, nil
	}
}

// reportError writes err through the formatter and returns the ExitError the
// command should return. The error is already shown to the user, so callers
// must not print it again.
func reportError(f *OutputFormatter, err error) error {
	code, exit, details := errorCode(err)
	_ = f.Error(code, err.Error(), details)
	return &ExitError{Code: exit, Err: fmt.Errorf("%s: %w", code, err)}
}
