package provider

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"promptpipe/internal/diagnostics"
	faults "promptpipe/internal/errors"
	"promptpipe/internal/external/subprocess"
	"promptpipe/internal/logging"
	"promptpipe/internal/observability"

	"go.opentelemetry.io/otel/codes"
)

// DefaultTimeoutSeconds bounds a provider run when no timeout is configured.
const DefaultTimeoutSeconds = 300

const promptFilePattern = "promptpipe-prompt-*.txt"

// Options configures a Runner. It is read once at construction; nothing is
// consulted from the environment while a run is in flight.
type Options struct {
	// TimeoutSeconds is the hard deadline for one run. Zero or less disables it.
	TimeoutSeconds int
	// StreamToTerminal mirrors provider output to Terminal as it arrives.
	StreamToTerminal bool
	// Terminal receives the live mirror. Write failures never reach the
	// captured output.
	Terminal io.Writer

	Env        map[string]string
	WorkingDir string
	// TempDir holds the prompt file. Empty means os.TempDir().
	TempDir string
	// KillGrace is how long the provider may take to exit after SIGTERM.
	KillGrace time.Duration

	Logger  logging.Logger
	Metrics *observability.MetricsCollector
	Tracer  *observability.TracerProvider
}

// DefaultOptions returns a 300 second timeout with streaming off.
func DefaultOptions() Options {
	return Options{TimeoutSeconds: DefaultTimeoutSeconds}
}

// Runner executes provider commands. A Runner holds no per-run state and is
// safe for concurrent use.
type Runner struct {
	opts   Options
	logger logging.Logger
	tracer *observability.TracerProvider
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts Options) *Runner {
	logger := opts.Logger
	if logging.IsNil(logger) {
		logger = logging.NewComponentLogger("ProviderRunner")
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer, _ = observability.NewTracerProvider(observability.TracingConfig{})
	}
	return &Runner{opts: opts, logger: logger, tracer: tracer}
}

// Options returns the runner configuration.
func (r *Runner) Options() Options {
	return r.opts
}

// Run feeds prompt to command on stdin and returns the merged output and
// exit status. A provider that exits non-zero or times out yields a result,
// not an error. Errors are configuration faults (the program cannot be found
// or spawned) and resource faults (the prompt file cannot be managed).
func (r *Runner) Run(ctx context.Context, command Command, prompt string) (result ExecutionResult, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	program := command.Program()
	ctx, span := r.tracer.StartSpan(ctx, observability.SpanProviderRun,
		observability.ProviderAttrs(program, string(command.Mode), r.opts.TimeoutSeconds)...)
	defer func() {
		span.SetAttributes(observability.OutcomeAttrs(result.ExitStatus, result.TimedOut)...)
		if !result.Success() && !result.TimedOut && !result.Interrupted {
			hint := diagnostics.Classify(result.Output)
			span.SetAttributes(observability.HintAttrs(string(hint.Category))...)
			r.opts.Metrics.RecordHint(ctx, program, string(hint.Category))
		}
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(observability.ErrorAttrs(err)...)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	logger := logging.FromContext(ctx, r.logger)

	argv, err := command.Argv()
	if err != nil {
		return ExecutionResult{}, faults.Configuration("parse", err, "check the quoting of the provider command")
	}
	if _, err := r.preflight(ctx, command); err != nil {
		return ExecutionResult{}, err
	}

	stdin, err := writePromptFile(r.opts.TempDir, prompt)
	if err != nil {
		return ExecutionResult{}, faults.Resource("create prompt file", err)
	}
	defer func() {
		if rmErr := removePromptFile(stdin); rmErr != nil {
			err = stderrors.Join(err, faults.Resource("remove prompt file", rmErr))
		}
	}()

	var captured bytes.Buffer
	var sink io.Writer = &captured
	if r.opts.StreamToTerminal && r.opts.Terminal != nil {
		sink = io.MultiWriter(&captured, &bestEffortWriter{w: r.opts.Terminal, logger: logger})
	}

	timeout := time.Duration(0)
	if r.opts.TimeoutSeconds > 0 {
		timeout = time.Duration(r.opts.TimeoutSeconds) * time.Second
	}

	if timeout > 0 && !subprocess.SupportsProcessTree() {
		logger.Warn("process groups unsupported on this platform; a timeout only terminates %s itself, not its children", program)
	}
	logger.Debug("running %s (%s mode, timeout=%s, %d prompt bytes)", program, command.Mode, timeout, len(prompt))
	proc := subprocess.New(subprocess.Config{
		Command:    argv[0],
		Args:       argv[1:],
		Env:        r.opts.Env,
		WorkingDir: r.opts.WorkingDir,
		Timeout:    timeout,
		Stdin:      stdin,
		Output:     sink,
		KillGrace:  r.opts.KillGrace,
		Logger:     logger,
	})
	if err := proc.Start(ctx); err != nil {
		return ExecutionResult{}, faults.Configuration("spawn", err, fmt.Sprintf("provider %q could not be started; check that it is executable", program))
	}
	outcome, waitErr := proc.Wait()

	result = ExecutionResult{
		Output:     captured.String(),
		ExitStatus: outcome.ExitCode,
		Duration:   outcome.Duration,
	}
	switch {
	case outcome.TimedOut:
		result.TimedOut = true
		result.ExitStatus = ExitStatusTimeout
		logger.Warn("%s timed out after %s", program, timeout)
	case outcome.Canceled:
		result.Interrupted = true
		result.ExitStatus = ExitStatusInterrupted
		logger.Info("%s interrupted", program)
	default:
		logger.Debug("%s exited with status %d in %s", program, result.ExitStatus, result.Duration)
	}

	r.opts.Metrics.RecordRun(ctx, program, result.Status(), result.Duration, len(result.Output))

	if waitErr != nil {
		return result, waitErr
	}
	if result.Interrupted {
		return result, ctx.Err()
	}
	return result, nil
}

func (r *Runner) preflight(ctx context.Context, command Command) (string, error) {
	_, span := r.tracer.StartSpan(ctx, observability.SpanPreflight)
	defer span.End()
	path, err := Locate(command)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider not found")
	}
	return path, err
}

// writePromptFile stores the prompt in a file readable only by the current
// user and rewinds it for use as stdin.
func writePromptFile(dir, prompt string) (*os.File, error) {
	file, err := os.CreateTemp(dir, promptFilePattern)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(file, prompt); err != nil {
		_ = removePromptFile(file)
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		_ = removePromptFile(file)
		return nil, err
	}
	return file, nil
}

func removePromptFile(file *os.File) error {
	closeErr := file.Close()
	if err := os.Remove(file.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	if closeErr != nil && !stderrors.Is(closeErr, os.ErrClosed) {
		return closeErr
	}
	return nil
}

// bestEffortWriter forwards to a terminal and swallows failures so that a
// closed or broken terminal never interrupts capture.
type bestEffortWriter struct {
	w      io.Writer
	logger logging.Logger
	broken bool
}

func (b *bestEffortWriter) Write(p []byte) (int, error) {
	if b.broken {
		return len(p), nil
	}
	if _, err := b.w.Write(p); err != nil {
		b.broken = true
		b.logger.Warn("terminal mirror disabled: %v", err)
	}
	return len(p), nil
}
