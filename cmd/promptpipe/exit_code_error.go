package main

import (
	"context"
	"errors"

	faults "promptpipe/internal/errors"
	"promptpipe/internal/provider"
)

// Process exit statuses for faults that never reached the provider.
const (
	exitUsage         = 2
	exitResourceFault = 74
	exitConfigFault   = 127
)

// ExitCodeError wraps an error with a specific process exit code. Reported
// errors have already been shown to the operator and are not printed again.
type ExitCodeError struct {
	Code     int
	Err      error
	Reported bool
}

func (e *ExitCodeError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitCodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func exitCodeFor(err error) int {
	var exitErr *ExitCodeError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.Code
	case faults.IsConfiguration(err):
		return exitConfigFault
	case faults.IsResource(err):
		return exitResourceFault
	case errors.Is(err, context.Canceled):
		return provider.ExitStatusInterrupted
	default:
		return 1
	}
}

func isReported(err error) bool {
	var exitErr *ExitCodeError
	return errors.As(err, &exitErr) && exitErr.Reported
}

// providerExitCode maps a provider status onto a usable process exit code.
func providerExitCode(status int) int {
	if status <= 0 || status > 255 {
		return 1
	}
	return status
}
