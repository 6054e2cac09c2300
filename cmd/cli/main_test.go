package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestScoreFromArgument(t *testing.T) {
	out, _, err := runCLI(t, "", "score", `{"project_type":"Other","message":"short"}`)
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
}

func TestScoreFromStdin(t *testing.T) {
	payload := `{"project_type":"Web Application","company":"Acme","message":"` + strings.Repeat("a", 150) + `"}`
	out, _, err := runCLI(t, payload, "score")
	require.NoError(t, err)
	assert.Equal(t, "55\n", out)
}

func TestScoreValidate(t *testing.T) {
	_, errOut, err := runCLI(t, "", "score", "--validate", `{"name":"Jo","email":"bad","project_type":"","message":"short"}`)
	require.Error(t, err)
	assert.Contains(t, errOut, "email:")
	assert.Contains(t, errOut, "project_type:")
	assert.Contains(t, errOut, "message:")
	assert.NotContains(t, errOut, "name:")
}

func TestScoreRejectsBadJSON(t *testing.T) {
	_, _, err := runCLI(t, "", "score", "{not json")
	assert.Error(t, err)
}
