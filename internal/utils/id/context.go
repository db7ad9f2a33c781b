package id

import "context"

type contextKey string

const (
	runKey contextKey = "promptpipe_run_id"
	logKey contextKey = "promptpipe_log_id"
)

// WithRunID stores the current run identifier on the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runKey, runID)
}

// RunIDFromContext extracts the run identifier from context.
func RunIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if runID, ok := ctx.Value(runKey).(string); ok {
		return runID
	}
	return ""
}

// WithLogID stores the provided log identifier on the context.
func WithLogID(ctx context.Context, logID string) context.Context {
	if logID == "" {
		return ctx
	}
	return context.WithValue(ctx, logKey, logID)
}

// LogIDFromContext extracts the log identifier from context. Runs without an
// explicit log id fall back to the run id so every line of one invocation
// shares a tag.
func LogIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if logID, ok := ctx.Value(logKey).(string); ok && logID != "" {
		return logID
	}
	return RunIDFromContext(ctx)
}
