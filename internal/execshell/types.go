package execshell

import (
	"context"
	"fmt"
	"io"
)

const (
	commandFailedErrorTemplateConstant           = "%s exited with code %d"
	commandFailedWithOutputErrorTemplateConstant = "%s exited with code %d: %s"
	commandExecutionErrorTemplateConstant        = "%s could not be executed: %v"
)

// CommandName identifies an executable invoked through the shell executor.
type CommandName string

// Known executables.
const (
	CommandGit CommandName = CommandName("git")
)

// CommandDetails describes arguments and environment for a single invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
	// OutputWriter receives a live copy of standard output when set.
	OutputWriter io.Writer
	// ErrorWriter receives a live copy of standard error when set.
	ErrorWriter io.Writer
}

// ShellCommand couples an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner runs a ShellCommand to completion.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a process that ran but exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failing command and its exit code.
func (failedError CommandFailedError) Error() string {
	label := describeCommand(failedError.Command)
	standardError := trimOutput(failedError.Result.StandardError)
	if len(standardError) == 0 {
		return fmt.Sprintf(commandFailedErrorTemplateConstant, label, failedError.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedWithOutputErrorTemplateConstant, label, failedError.Result.ExitCode, standardError)
}

// CommandExecutionError reports a process that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, describeCommand(executionError.Command), executionError.Cause)
}

// Unwrap exposes the underlying cause.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}
