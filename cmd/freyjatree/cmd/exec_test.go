package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecCommandAgainstStdin(t *testing.T) {
	var out bytes.Buffer
	execCmd.SetOut(&out)
	execCmd.SetIn(strings.NewReader("a apple red\na apple green\nq apple\nd apple\nq apple\n"))
	execCmd.SetArgs(nil)

	require.NoError(t, execCmd.RunE(execCmd, nil))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"added",
		"already present",
		"red",
		"removed",
		"not found",
	}, lines)
}

func TestExecCommandMalformed(t *testing.T) {
	var out bytes.Buffer
	execCmd.SetOut(&out)
	execCmd.SetIn(strings.NewReader("z\na onlyone\n"))
	execCmd.SetArgs(nil)

	require.NoError(t, execCmd.RunE(execCmd, nil))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"ill-formed command",
		"ill-formed command",
	}, lines)
}
