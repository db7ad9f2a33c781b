package provider

import (
	"testing"

	faults "promptpipe/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate_FindsProgram(t *testing.T) {
	requirePOSIX(t)
	path, err := Locate(Command{Raw: "sh -c true", Mode: ModeArgv})
	require.NoError(t, err)
	assert.NotEmpty(t, path)
}

func TestLocate_MissingProgram(t *testing.T) {
	_, err := Locate(Command{Raw: "definitely-not-installed-9f2c --x", Mode: ModeArgv})
	require.Error(t, err)
	assert.True(t, faults.IsConfiguration(err))
	assert.Contains(t, faults.Guidance(err), "PROMPTPIPE_PROVIDER")
}

func TestLocate_OnlyFirstTokenIsInspected(t *testing.T) {
	requirePOSIX(t)
	_, err := Locate(Command{Raw: "sh definitely-not-installed-9f2c", Mode: ModeArgv})
	assert.NoError(t, err)
}

func TestLocate_Empty(t *testing.T) {
	_, err := Locate(Command{})
	assert.True(t, faults.IsConfiguration(err))
}
