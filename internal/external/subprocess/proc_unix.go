//go:build !windows

package subprocess

import (
	"os"
	"os/exec"
	"syscall"
)

const processTreeSupported = true

func configureProcessTree(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func interruptProcessTree(cmd *exec.Cmd) {
	signalProcessTree(cmd, syscall.SIGTERM)
}

func killProcessTree(cmd *exec.Cmd) {
	signalProcessTree(cmd, syscall.SIGKILL)
}

func signalProcessTree(cmd *exec.Cmd, sig syscall.Signal) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	pid := cmd.Process.Pid
	if pid <= 0 {
		return
	}
	// Setpgid makes the child the leader of its own group: pgid == pid.
	// Negative PGID targets the full process group (wrapper + spawned children).
	if err := syscall.Kill(-pid, sig); err != nil && err != syscall.ESRCH {
		_ = cmd.Process.Signal(sig)
	}
}

func exitCode(state *os.ProcessState) int {
	if status, ok := state.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return state.ExitCode()
}
