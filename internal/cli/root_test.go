package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, err := executeCommand("solvers", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestSolversCommand(t *testing.T) {
	out, err := executeCommand("solvers")
	require.NoError(t, err)
	assert.Contains(t, out, "cartesian6")
}

func TestSolversCommand_JSON(t *testing.T) {
	out, err := executeCommand("solvers", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"status":"ok"`)
	assert.Contains(t, out, `"cartesian6"`)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad config")))
	assert.Equal(t, ExitFailure, GetExitCode(WrapExitError(ExitFailure, "run failed", assert.AnError)))
}
