package provider

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Mode selects how a provider command string is turned into a process.
type Mode string

const (
	// ModeArgv splits the command with shell quoting rules and executes the
	// program directly. No shell is involved, so the string cannot inject
	// further commands.
	ModeArgv Mode = "argv"
	// ModeShell hands the command to the platform shell. Pipes, redirection
	// and variable expansion work, and so does injection.
	ModeShell Mode = "shell"
)

// Command is an operator-supplied provider invocation such as "gemini" or
// "opencode run --model X".
type Command struct {
	Raw  string
	Mode Mode
}

// ParseCommand validates raw for the selected mode.
func ParseCommand(raw string, shell bool) (Command, error) {
	cmd := Command{Raw: strings.TrimSpace(raw), Mode: ModeArgv}
	if shell {
		cmd.Mode = ModeShell
	}
	if cmd.Raw == "" {
		return Command{}, fmt.Errorf("provider command is empty")
	}
	if _, err := cmd.Argv(); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// Argv returns the program and arguments to execute.
func (c Command) Argv() ([]string, error) {
	if c.Mode == ModeShell {
		return shellArgv(c.Raw), nil
	}

	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false
	args, err := parser.Parse(c.Raw)
	if err != nil {
		return nil, fmt.Errorf("parse provider command %q: %w", c.Raw, err)
	}
	if parser.Position >= 0 {
		return nil, fmt.Errorf("provider command %q contains shell operators; enable shell mode to use them", c.Raw)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("provider command %q has no program", c.Raw)
	}
	return args, nil
}

// Program returns the executable the command starts with. Only this first
// token is ever inspected.
func (c Command) Program() string {
	if c.Mode == ModeArgv {
		if args, err := c.Argv(); err == nil {
			return args[0]
		}
	}
	fields := strings.Fields(c.Raw)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (c Command) String() string {
	return c.Raw
}

func shellArgv(raw string) []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C", raw}
	}
	return []string{"sh", "-c", raw}
}
