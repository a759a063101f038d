package execshell

// CommandEventObserver is notified around every command the ShellExecutor runs.
// The console observer in internal/ui renders these as progress lines.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once the process exits, whatever its exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the process could not be started or waited on.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type silentObserver struct{}

func (silentObserver) CommandStarted(ShellCommand) {}

func (silentObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (silentObserver) CommandExecutionFailed(ShellCommand, error) {}
