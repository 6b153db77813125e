package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the command tree with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := ExecuteCommand(cmd)
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "catool", cmd.Use)
	assert.Contains(t, cmd.Long, "toroidal")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"run", "rules", "sweep", "term"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	for name, def := range map[string]string{
		"config":  "",
		"rows":    "180",
		"cols":    "320",
		"rule":    "minor",
		"seed":    "42",
		"tps":     "30",
		"workers": "1",
	} {
		fl := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, fl, name)
		assert.Equal(t, def, fl.DefValue, name)
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "rules", "--format", "yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInvalidConfigIsCommandError(t *testing.T) {
	_, err := execute(t, "rules", "--rows", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "rules", "--config", "testdata/missing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBadFlagsAndCommandsAreCommandErrors(t *testing.T) {
	for _, args := range [][]string{
		{"run", "--bogus"},
		{"run", "--generations", "abc"},
		{"run", "--rows", "x"},
		{"sweep", "--seeds"},
		{"nosuchcmd"},
	} {
		_, err := execute(t, args...)
		require.Error(t, err, "%v", args)
		assert.Equal(t, ExitCommandError, GetExitCode(err), "%v: %v", args, err)
	}
}

func TestExecuteCommandReportsJSONErrors(t *testing.T) {
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--format", "json", "run", "--bogus"})

	err := ExecuteCommand(cmd)
	require.Error(t, err)
	assert.Contains(t, errOut.String(), `"status":"error"`)
	assert.Contains(t, errOut.String(), `"code":2`)
	assert.Empty(t, out.String())
}
