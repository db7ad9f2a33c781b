package subprocess

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"promptpipe/internal/logging"
)

// DefaultKillGrace is how long a process group gets between SIGTERM and SIGKILL.
const DefaultKillGrace = 5 * time.Second

// DefaultWaitDelay bounds how long Wait keeps reading output after the
// process exits, in case a descendant still holds the pipe open. The
// timeout does not cover this window.
const DefaultWaitDelay = 2 * time.Second

// Config defines how to spawn and manage an external process.
type Config struct {
	Command    string
	Args       []string
	Env        map[string]string
	WorkingDir string
	Timeout    time.Duration
	// Stdin feeds the process. An *os.File is handed to the child directly.
	Stdin io.Reader
	// Output receives stdout and stderr merged in arrival order.
	Output    io.Writer
	KillGrace time.Duration
	WaitDelay time.Duration
	Logger    logging.Logger
}

// Result describes how a process finished.
type Result struct {
	ExitCode int
	TimedOut bool
	Canceled bool
	Duration time.Duration
}

// Subprocess manages the lifecycle of a single external process.
type Subprocess struct {
	cfg      Config
	cmd      *exec.Cmd
	exited   chan struct{}
	done     chan struct{}
	watched  chan struct{}
	err      error
	started  time.Time
	elapsed  time.Duration
	timedOut atomic.Bool
	canceled atomic.Bool
	stopOnce sync.Once
	logger   logging.Logger
	mu       sync.Mutex
}

// New creates a new Subprocess from the given config.
func New(cfg Config) *Subprocess {
	if cfg.KillGrace <= 0 {
		cfg.KillGrace = DefaultKillGrace
	}
	if cfg.WaitDelay <= 0 {
		cfg.WaitDelay = DefaultWaitDelay
	}
	logger := cfg.Logger
	if logging.IsNil(logger) {
		logger = logging.NewComponentLogger("Subprocess")
	}
	return &Subprocess{cfg: cfg, logger: logger}
}

// Start spawns the process. The process is terminated when ctx is cancelled
// or the configured timeout elapses, whichever comes first.
func (s *Subprocess) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return fmt.Errorf("subprocess already started")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.Command(s.cfg.Command, s.cfg.Args...)
	if s.cfg.WorkingDir != "" {
		cmd.Dir = s.cfg.WorkingDir
	}
	if len(s.cfg.Env) > 0 {
		env := append([]string{}, os.Environ()...)
		for k, v := range s.cfg.Env {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		cmd.Env = env
	}
	configureProcessTree(cmd)
	cmd.Stdin = s.cfg.Stdin

	// stdout and stderr share one pipe so their interleaving survives.
	pr, pw, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("start subprocess: output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return fmt.Errorf("start subprocess: %w", err)
	}
	_ = pw.Close()

	s.cmd = cmd
	s.started = time.Now()
	s.exited = make(chan struct{})
	s.done = make(chan struct{})
	s.watched = make(chan struct{})
	s.logger.Debug("started %s pid=%d timeout=%s", s.cfg.Command, cmd.Process.Pid, s.cfg.Timeout)

	sink := &gatedWriter{w: s.cfg.Output}
	copied := make(chan struct{})
	go func() {
		defer close(copied)
		_, _ = io.Copy(sink, pr)
	}()

	go func() {
		err := cmd.Wait()
		s.mu.Lock()
		s.err = err
		s.elapsed = time.Since(s.started)
		s.mu.Unlock()
		close(s.exited)

		select {
		case <-copied:
		case <-time.After(s.cfg.WaitDelay):
			s.logger.Warn("%s exited but a descendant kept its output open; output after %s was dropped", s.cfg.Command, s.cfg.WaitDelay)
			sink.close()
			_ = pr.Close()
			<-copied
		}
		_ = pr.Close()
		close(s.done)
	}()

	go s.watch(ctx)

	return nil
}

// watch enforces the deadline against process exit, not against the end of
// output: a descendant holding the pipe open does not count as a running
// provider.
func (s *Subprocess) watch(ctx context.Context) {
	defer close(s.watched)

	var deadline <-chan time.Time
	if s.cfg.Timeout > 0 {
		timer := time.NewTimer(s.cfg.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case <-s.exited:
	case <-deadline:
		s.timedOut.Store(true)
		s.logger.Warn("%s exceeded timeout of %s, terminating process tree", s.cfg.Command, s.cfg.Timeout)
		_ = s.Stop()
	case <-ctx.Done():
		s.canceled.Store(true)
		s.logger.Warn("%s cancelled: %v", s.cfg.Command, ctx.Err())
		_ = s.Stop()
	}
}

// Wait blocks until the process exits and its output is drained, then
// reports the outcome. A non-zero exit is part of the result, not an error.
func (s *Subprocess) Wait() (Result, error) {
	s.mu.Lock()
	done := s.done
	watched := s.watched
	s.mu.Unlock()
	if done == nil {
		return Result{}, fmt.Errorf("subprocess not started")
	}
	<-done
	// A timed-out run is only finished once the group sweep has happened.
	<-watched

	s.mu.Lock()
	defer s.mu.Unlock()

	result := Result{
		TimedOut: s.timedOut.Load(),
		Canceled: s.canceled.Load(),
		Duration: s.elapsed,
	}
	if state := s.cmd.ProcessState; state != nil {
		result.ExitCode = exitCode(state)
	}

	err := s.err
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr):
		return result, nil
	default:
		return result, fmt.Errorf("wait subprocess: %w", err)
	}
}

// Stop terminates the whole process tree: SIGTERM first, SIGKILL once the
// grace period runs out. It is safe to call more than once.
func (s *Subprocess) Stop() error {
	s.mu.Lock()
	cmd := s.cmd
	exited := s.exited
	s.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	select {
	case <-exited:
		return nil
	default:
	}

	s.stopOnce.Do(func() {
		interruptProcessTree(cmd)
		select {
		case <-exited:
		case <-time.After(s.cfg.KillGrace):
			s.logger.Warn("%s ignored SIGTERM for %s, sending SIGKILL", s.cfg.Command, s.cfg.KillGrace)
		}
		// Descendants may outlive the leader; sweep the group regardless.
		killProcessTree(cmd)
	})
	return nil
}

// SupportsProcessTree reports whether the platform can terminate a process
// together with its descendants. Without it only the direct child is killed.
func SupportsProcessTree() bool {
	return processTreeSupported
}

// gatedWriter drops writes once closed, so nothing reaches Output after Wait
// has returned. Output errors are swallowed to keep the pipe drained.
type gatedWriter struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

func (g *gatedWriter) Write(p []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed && g.w != nil {
		_, _ = g.w.Write(p)
	}
	return len(p), nil
}

func (g *gatedWriter) close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}
