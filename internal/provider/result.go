package provider

import "time"

// Exit statuses reported for runs that did not finish on their own.
const (
	// ExitStatusTimeout matches the convention of timeout(1).
	ExitStatusTimeout = 124
	// ExitStatusInterrupted is reported when the caller cancelled the run.
	ExitStatusInterrupted = 130
)

// ExecutionResult is the outcome of one provider invocation.
type ExecutionResult struct {
	// Output is stdout and stderr merged in arrival order.
	Output      string
	ExitStatus  int
	TimedOut    bool
	Interrupted bool
	Duration    time.Duration
}

// Success reports whether the provider completed with status zero.
func (r ExecutionResult) Success() bool {
	return r.ExitStatus == 0 && !r.TimedOut && !r.Interrupted
}

// Status returns "success", "failure" or "timeout".
func (r ExecutionResult) Status() string {
	switch {
	case r.TimedOut:
		return "timeout"
	case r.Success():
		return "success"
	default:
		return "failure"
	}
}
