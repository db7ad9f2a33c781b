package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand_ArgvMode(t *testing.T) {
	cmd, err := ParseCommand("  opencode run --model 'big model'  ", false)
	require.NoError(t, err)

	assert.Equal(t, ModeArgv, cmd.Mode)
	assert.Equal(t, "opencode run --model 'big model'", cmd.Raw)
	assert.Equal(t, "opencode", cmd.Program())

	argv, err := cmd.Argv()
	require.NoError(t, err)
	assert.Equal(t, []string{"opencode", "run", "--model", "big model"}, argv)
}

func TestParseCommand_QuotedProgram(t *testing.T) {
	cmd, err := ParseCommand(`"/opt/my tools/gemini" --yolo`, false)
	require.NoError(t, err)
	assert.Equal(t, "/opt/my tools/gemini", cmd.Program())
}

func TestParseCommand_RejectsOperatorsOutsideShellMode(t *testing.T) {
	_, err := ParseCommand("gemini | tee out.txt", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shell mode")

	cmd, err := ParseCommand("gemini | tee out.txt", true)
	require.NoError(t, err)
	assert.Equal(t, ModeShell, cmd.Mode)
	assert.Equal(t, "gemini", cmd.Program())
}

func TestParseCommand_Empty(t *testing.T) {
	_, err := ParseCommand("   ", false)
	require.Error(t, err)
}

func TestParseCommand_UnterminatedQuote(t *testing.T) {
	_, err := ParseCommand("gemini 'oops", false)
	require.Error(t, err)
}

func TestCommand_ShellArgvWrapsRaw(t *testing.T) {
	cmd := Command{Raw: "echo a && echo b", Mode: ModeShell}
	argv, err := cmd.Argv()
	require.NoError(t, err)
	require.Len(t, argv, 3)
	assert.Equal(t, "echo a && echo b", argv[2])
}
