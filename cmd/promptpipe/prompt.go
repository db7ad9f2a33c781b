package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var errNoPrompt = errors.New("no prompt given: pass it as arguments, with --prompt-file, or on stdin")

// readPrompt resolves the prompt from positional arguments, a prompt file
// ("-" reads stdin) or piped stdin, in that order.
func readPrompt(args []string, promptFile string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		if promptFile != "" {
			return "", fmt.Errorf("give the prompt either as arguments or with --prompt-file, not both")
		}
		return strings.Join(args, " "), nil
	}

	switch {
	case promptFile == "-":
		return readAll(stdin)
	case promptFile != "":
		data, err := os.ReadFile(promptFile)
		if err != nil {
			return "", fmt.Errorf("read prompt file: %w", err)
		}
		return string(data), nil
	}

	if stdin == nil || isInteractive(stdin) {
		return "", errNoPrompt
	}
	return readAll(stdin)
}

func readAll(r io.Reader) (string, error) {
	if r == nil {
		return "", errNoPrompt
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read prompt from stdin: %w", err)
	}
	return string(data), nil
}

func isInteractive(r io.Reader) bool {
	file, ok := r.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
