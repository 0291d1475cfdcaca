package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/scriv/internal/errors"
)

// Exit codes for the scriv CLI
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates the command failed
	ExitFailure = 1

	// ExitNothingFound indicates there were no fragments, or no entry for
	// the requested version
	ExitNothingFound = 2
)

// ExitError ends the command with a specific exit code and no message.
type ExitError struct {
	Code int
}

// NewExitError returns an ExitError for code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr.Code()
	}
	return ExitFailure
}
