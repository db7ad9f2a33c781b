package subprocess

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requirePOSIX(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell and process groups")
	}
}

func runProcess(ctx context.Context, cfg Config) (Result, error) {
	proc := New(cfg)
	if err := proc.Start(ctx); err != nil {
		return Result{}, err
	}
	return proc.Wait()
}

func TestSubprocess_MergesStdoutAndStderr(t *testing.T) {
	requirePOSIX(t)
	var out bytes.Buffer

	result, err := runProcess(context.Background(), Config{
		Command: "sh",
		Args:    []string{"-c", "echo out; echo err 1>&2; exit 3"},
		Output:  &out,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.ExitCode)
	assert.False(t, result.TimedOut)
	assert.Equal(t, "out\nerr\n", out.String())
}

func TestSubprocess_FeedsStdin(t *testing.T) {
	requirePOSIX(t)
	var out bytes.Buffer

	result, err := runProcess(context.Background(), Config{
		Command: "cat",
		Stdin:   strings.NewReader("hello\x00world"),
		Output:  &out,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "hello\x00world", out.String())
}

func TestSubprocess_TimeoutTerminates(t *testing.T) {
	requirePOSIX(t)

	start := time.Now()
	result, err := runProcess(context.Background(), Config{
		Command:   "sleep",
		Args:      []string{"10"},
		Timeout:   200 * time.Millisecond,
		KillGrace: time.Second,
	})
	require.NoError(t, err)

	assert.True(t, result.TimedOut)
	assert.NotEqual(t, 0, result.ExitCode)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSubprocess_TimeoutKillsProcessTree(t *testing.T) {
	requirePOSIX(t)
	ticks := filepath.Join(t.TempDir(), "ticks")

	script := "(while true; do echo tick >> " + ticks + "; sleep 0.05; done) & wait"
	result, err := runProcess(context.Background(), Config{
		Command:   "sh",
		Args:      []string{"-c", script},
		Timeout:   300 * time.Millisecond,
		KillGrace: time.Second,
	})
	require.NoError(t, err)
	require.True(t, result.TimedOut)

	before := fileSize(t, ticks)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, before, fileSize(t, ticks), "background grandchild kept running after timeout")
}

func TestSubprocess_CompletesBeforeDeadline(t *testing.T) {
	requirePOSIX(t)
	var out bytes.Buffer

	result, err := runProcess(context.Background(), Config{
		Command: "sh",
		Args:    []string{"-c", "sleep 0.1; echo done"},
		Timeout: 5 * time.Second,
		Output:  &out,
	})
	require.NoError(t, err)

	assert.False(t, result.TimedOut)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "done\n", out.String())
}

func TestSubprocess_BackgroundChildDoesNotTripDeadline(t *testing.T) {
	requirePOSIX(t)
	var out bytes.Buffer
	start := time.Now()

	// The shell exits at once; the backgrounded sleep keeps the output pipe
	// open past the deadline.
	result, err := runProcess(context.Background(), Config{
		Command:   "sh",
		Args:      []string{"-c", "sleep 3 & echo done"},
		Timeout:   time.Second,
		WaitDelay: 2 * time.Second,
		Output:    &out,
	})
	require.NoError(t, err)

	assert.False(t, result.TimedOut)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "done\n", out.String())
	assert.Less(t, result.Duration, time.Second)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestSubprocess_ContextCancel(t *testing.T) {
	requirePOSIX(t)
	ctx, cancel := context.WithCancel(context.Background())

	proc := New(Config{Command: "sleep", Args: []string{"10"}, KillGrace: time.Second})
	require.NoError(t, proc.Start(ctx))

	cancel()
	result, err := proc.Wait()
	require.NoError(t, err)

	assert.True(t, result.Canceled)
	assert.False(t, result.TimedOut)
}

func TestSubprocess_SignalExitCode(t *testing.T) {
	requirePOSIX(t)

	result, err := runProcess(context.Background(), Config{
		Command: "sh",
		Args:    []string{"-c", "kill -TERM $$"},
	})
	require.NoError(t, err)
	assert.Equal(t, 143, result.ExitCode)
}

func TestSubprocess_StartFailsForMissingBinary(t *testing.T) {
	_, err := runProcess(context.Background(), Config{Command: "definitely-not-a-real-binary-xyz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start subprocess")
}

func TestSubprocess_DoubleStartRejected(t *testing.T) {
	requirePOSIX(t)

	proc := New(Config{Command: "true"})
	require.NoError(t, proc.Start(context.Background()))
	assert.Error(t, proc.Start(context.Background()))
	_, err := proc.Wait()
	assert.NoError(t, err)
	assert.NoError(t, proc.Stop())
}

func TestSubprocess_WaitBeforeStart(t *testing.T) {
	_, err := New(Config{Command: "true"}).Wait()
	assert.Error(t, err)
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return info.Size()
}
