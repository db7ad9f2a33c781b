package provider

import (
	"fmt"
	"os/exec"

	faults "promptpipe/internal/errors"
)

// Locate resolves the command's program on PATH. A program that cannot be
// found is a configuration fault, raised before anything is spawned.
func Locate(cmd Command) (string, error) {
	program := cmd.Program()
	if program == "" {
		return "", faults.Configuration("locate", fmt.Errorf("empty command"), "no provider command configured; set PROMPTPIPE_PROVIDER or pass --provider")
	}

	if cmd.Mode == ModeShell {
		argv := shellArgv(cmd.Raw)
		if _, err := exec.LookPath(argv[0]); err != nil {
			return "", faults.Configuration("locate", err, fmt.Sprintf("shell mode needs %q on PATH", argv[0]))
		}
	}

	path, err := exec.LookPath(program)
	if err != nil {
		return "", faults.Configuration("locate", err, fmt.Sprintf(
			"provider %q was not found on PATH; install it, or point PROMPTPIPE_PROVIDER (or --provider) at an installed CLI such as \"gemini\" or \"opencode run\"",
			program,
		))
	}
	return path, nil
}
