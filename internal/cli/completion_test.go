package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFunc(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func execCompletion(getenv func(string) string, args ...string) (string, error) {
	root := &cobra.Command{Use: "studio"}
	cmd := newCompletionCmd(getenv)
	root.AddCommand(cmd)
	stdout := new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetArgs(append([]string{"completion"}, args...))
	err := root.Execute()
	return stdout.String(), err
}

func TestCompletionShells(t *testing.T) {
	for _, shell := range validShells {
		t.Run(shell, func(t *testing.T) {
			stdout, err := execCompletion(envFunc(nil), shell)
			require.NoError(t, err)
			assert.Contains(t, stdout, "studio")
		})
	}
}

func TestCompletionInvalidShell(t *testing.T) {
	_, err := execCompletion(envFunc(nil), "tcsh")
	assert.EqualError(t, err, "unsupported shell: tcsh (valid: bash, zsh, fish, powershell)")
}

func TestCompletionDetectsShell(t *testing.T) {
	stdout, err := execCompletion(envFunc(map[string]string{"SHELL": "/usr/bin/zsh"}))
	require.NoError(t, err)
	assert.Contains(t, stdout, "#compdef studio")
}

func TestCompletionDetectFails(t *testing.T) {
	_, err := execCompletion(envFunc(map[string]string{"SHELL": "/bin/csh"}))
	assert.ErrorContains(t, err, "could not detect shell")
}

func TestShellFromEnv(t *testing.T) {
	assert.Equal(t, "bash", shellFromEnv(envFunc(map[string]string{"SHELL": "/bin/bash"})))
	assert.Equal(t, "powershell", shellFromEnv(envFunc(map[string]string{"SHELL": "/usr/local/bin/pwsh"})))
	assert.Equal(t, "", shellFromEnv(envFunc(nil)))
}
