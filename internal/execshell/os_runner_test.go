package execshell_test

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitman/internal/execshell"
)

func TestOSCommandRunnerRunsGit(testInstance *testing.T) {
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		testInstance.Skip("git is not installed")
	}

	mirroredOutput := &bytes.Buffer{}
	runner := execshell.NewOSCommandRunner()
	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:            []string{"--version"},
			WorkingDirectory:     testInstance.TempDir(),
			EnvironmentVariables: map[string]string{"GIT_TERMINAL_PROMPT": "0"},
			OutputWriter:         mirroredOutput,
		},
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 0, result.ExitCode)
	require.Contains(testInstance, result.StandardOutput, "git version")
	require.Equal(testInstance, result.StandardOutput, mirroredOutput.String())
}

func TestOSCommandRunnerReportsExitCode(testInstance *testing.T) {
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		testInstance.Skip("git is not installed")
	}

	workingDirectory := testInstance.TempDir()
	runner := execshell.NewOSCommandRunner()
	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:            []string{"rev-parse", "--is-inside-work-tree"},
			WorkingDirectory:     workingDirectory,
			EnvironmentVariables: map[string]string{"GIT_CEILING_DIRECTORIES": filepath.Dir(workingDirectory)},
		},
	})
	require.NoError(testInstance, runError)
	require.NotEqual(testInstance, 0, result.ExitCode)
	require.NotEmpty(testInstance, result.StandardError)
}

func TestOSCommandRunnerMissingExecutable(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()
	_, runError := runner.Run(context.Background(), execshell.ShellCommand{Name: "gitman-missing-opener"})
	require.ErrorIs(testInstance, runError, execshell.ErrExecutableNotFound)
	require.ErrorContains(testInstance, runError, "gitman-missing-opener")
}
