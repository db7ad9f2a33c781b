package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationFaultClassification(t *testing.T) {
	cause := errors.New("executable file not found in $PATH")
	err := fmt.Errorf("preflight: %w", Configuration("locate", cause, "provider \"gemini\" is not installed"))

	assert.True(t, IsConfiguration(err))
	assert.False(t, IsResource(err))
	assert.Equal(t, KindConfiguration, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "provider \"gemini\" is not installed", Guidance(err))
}

func TestResourceFaultWrapsCause(t *testing.T) {
	err := Resource("remove temp file", fs.ErrPermission)

	require.True(t, IsResource(err))
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Contains(t, err.Error(), "resource fault: remove temp file")
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("boom")))
	assert.Equal(t, "unknown", Kind(0).String())
	assert.Equal(t, "boom", Guidance(errors.New("boom")))
	assert.Empty(t, Guidance(nil))
}

func TestFaultErrorMessageIncludesCause(t *testing.T) {
	err := Configuration("spawn", errors.New("exec format error"), "cannot start provider")
	assert.Equal(t, "cannot start provider: exec format error", err.Error())
}
