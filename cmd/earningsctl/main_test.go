package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRecompute_RequiresExactlyOneTarget(t *testing.T) {
	_, err := execute(t, "recompute")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of --order or --campaign")

	_, err = execute(t, "recompute", "--order", "a", "--campaign", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of --order or --campaign")
}

func TestFinalizeEnded_RejectsBadCutoff(t *testing.T) {
	_, err := execute(t, "finalize-ended", "--before", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --before")
}

func TestRoot_ListsCommands(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"migrate", "seed", "recompute", "finalize-ended"} {
		assert.Contains(t, out, name)
	}
}
