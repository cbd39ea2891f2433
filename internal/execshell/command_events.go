package execshell

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	commandStartedHumanTemplateConstant    = "Running %s"
	commandCompletedHumanTemplateConstant  = "Completed %s"
	commandErroredHumanTemplateConstant    = "%s failed: %s"
	workingDirectorySuffixTemplateConstant = " (in %s)"
	unknownFailureMessageConstant          = "unknown error"
)

// CommandEventObserver receives lifecycle notifications for git invocations.
type CommandEventObserver interface {
	// CommandStarted notifies observers that a git invocation is beginning.
	CommandStarted(details CommandDetails)
	// CommandCompleted notifies observers that a git invocation finished and supplies the result.
	CommandCompleted(details CommandDetails, result ExecutionResult)
	// CommandExecutionFailed reports unexpected failures prior to receiving an execution result.
	CommandExecutionFailed(details CommandDetails, failure error)
}

// noopCommandEventObserver discards all command events.
type noopCommandEventObserver struct{}

// CommandStarted implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) CommandStarted(CommandDetails) {}

// CommandCompleted implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) CommandCompleted(CommandDetails, ExecutionResult) {}

// CommandExecutionFailed implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) CommandExecutionFailed(CommandDetails, error) {}

// LoggingCommandObserver mirrors git lifecycle events onto a zap logger in a
// human-readable form; wired in when console logging is active.
type LoggingCommandObserver struct {
	logger *zap.Logger
}

// NewLoggingCommandObserver constructs an observer that logs lifecycle events at info level.
func NewLoggingCommandObserver(logger *zap.Logger) *LoggingCommandObserver {
	resolvedLogger := logger
	if resolvedLogger == nil {
		resolvedLogger = zap.NewNop()
	}
	return &LoggingCommandObserver{logger: resolvedLogger}
}

// CommandStarted logs the start of a git invocation.
func (observer *LoggingCommandObserver) CommandStarted(details CommandDetails) {
	observer.logger.Info(fmt.Sprintf(commandStartedHumanTemplateConstant, describeInvocation(details)))
}

// CommandCompleted logs the completion of a git invocation, choosing the message by exit code.
func (observer *LoggingCommandObserver) CommandCompleted(details CommandDetails, result ExecutionResult) {
	if result.ExitCode == 0 {
		observer.logger.Info(fmt.Sprintf(commandCompletedHumanTemplateConstant, describeInvocation(details)))
		return
	}
	observer.logger.Warn(fmt.Sprintf(commandFailedTemplateConstant, describeInvocation(details), result.ExitCode, standardErrorSuffix(result.StandardError)))
}

// CommandExecutionFailed logs a git invocation that could not be executed.
func (observer *LoggingCommandObserver) CommandExecutionFailed(details CommandDetails, failure error) {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	observer.logger.Error(fmt.Sprintf(commandErroredHumanTemplateConstant, describeInvocation(details), failureMessage))
}

// describeInvocation appends the working directory to the rendered command line.
func describeInvocation(details CommandDetails) string {
	trimmedWorkingDirectory := strings.TrimSpace(details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return details.CommandLine()
	}
	return details.CommandLine() + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}
