package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
)

const (
	environmentAssignmentTemplateConstant = "%s=%s"
	executableNotFoundMessageConstant     = "executable not found"
	executableNotFoundTemplateConstant    = "%w: %s"
)

// ErrExecutableNotFound indicates the command is not installed or not on PATH.
var ErrExecutableNotFound = errors.New(executableNotFoundMessageConstant)

// OSCommandRunner executes commands as child processes.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run starts the command and blocks until it exits. A non-zero exit is reported through
// ExecutionResult.ExitCode, not as an error; errors mean the process could not run at all.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executable := exec.CommandContext(executionContext, string(command.Name), slices.Clone(command.Details.Arguments)...)
	executable.Dir = command.Details.WorkingDirectory
	executable.Env = mergeEnvironment(command.Details.EnvironmentVariables)

	var standardOutput bytes.Buffer
	var standardError bytes.Buffer
	executable.Stdout = mirrorTo(&standardOutput, command.Details.OutputWriter)
	executable.Stderr = mirrorTo(&standardError, command.Details.ErrorWriter)
	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := executable.Run()
	result := ExecutionResult{StandardOutput: standardOutput.String(), StandardError: standardError.String()}
	if runError == nil {
		return result, nil
	}

	var exitError *exec.ExitError
	if errors.As(runError, &exitError) {
		result.ExitCode = exitError.ExitCode()
		return result, nil
	}
	if errors.Is(runError, exec.ErrNotFound) {
		return ExecutionResult{}, fmt.Errorf(executableNotFoundTemplateConstant, ErrExecutableNotFound, command.Name)
	}
	return ExecutionResult{}, runError
}

// mergeEnvironment returns nil, meaning the inherited environment, when there are no overrides.
func mergeEnvironment(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return nil
	}
	environment := os.Environ()
	for _, environmentKey := range slices.Sorted(maps.Keys(overrides)) {
		environment = append(environment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, overrides[environmentKey]))
	}
	return environment
}

func mirrorTo(buffer *bytes.Buffer, mirror io.Writer) io.Writer {
	if mirror == nil {
		return buffer
	}
	return io.MultiWriter(buffer, mirror)
}
