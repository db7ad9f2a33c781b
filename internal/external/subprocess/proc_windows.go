//go:build windows

package subprocess

import (
	"os"
	"os/exec"
)

const processTreeSupported = false

func configureProcessTree(cmd *exec.Cmd) {}

func interruptProcessTree(cmd *exec.Cmd) {
	killProcessTree(cmd)
}

func killProcessTree(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}

func exitCode(state *os.ProcessState) int {
	return state.ExitCode()
}
