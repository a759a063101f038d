package ui

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/gitman/internal/execshell"
)

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
// Git commands are reported at info level. Browser openers and other helper commands only show up at debug level,
// since a failing candidate is followed by the next one or by a printed fallback.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted logs the command about to run.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Log(progressLevel(command), eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted logs the outcome of a command that ran to exit.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Log(progressLevel(command), eventLogger.formatter.BuildSuccessMessage(command, result))
		return
	}
	eventLogger.logger.Log(failureLevel(command, zapcore.WarnLevel), eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed logs a command that could not be started.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Log(failureLevel(command, execshell.StartFailureLevel(failure)), eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

func progressLevel(command execshell.ShellCommand) zapcore.Level {
	if command.Name == execshell.CommandGit {
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

func failureLevel(command execshell.ShellCommand, gitLevel zapcore.Level) zapcore.Level {
	if command.Name == execshell.CommandGit {
		return gitLevel
	}
	return zapcore.DebugLevel
}
