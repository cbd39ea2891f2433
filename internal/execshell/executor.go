package execshell

import (
	"context"

	"go.uber.org/zap"
)

const (
	commandStartedMessageConstant    = "executing git"
	commandCompletedMessageConstant  = "git completed"
	commandFailedMessageConstant     = "git failed"
	logFieldArgumentsConstant        = "arguments"
	logFieldWorkingDirectoryConstant = "working_directory"
	logFieldExitCodeConstant         = "exit_code"
	logFieldStandardErrorConstant    = "standard_error"
)

// ShellExecutor runs git invocations with structured logging and lifecycle observation.
type ShellExecutor struct {
	logger   *zap.Logger
	runner   CommandRunner
	observer CommandEventObserver
}

// NewShellExecutor constructs a ShellExecutor and validates its collaborators.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	return NewShellExecutorWithObserver(logger, runner, noopCommandEventObserver{})
}

// NewShellExecutorWithObserver constructs a ShellExecutor that forwards lifecycle events to the observer.
func NewShellExecutorWithObserver(logger *zap.Logger, runner CommandRunner, observer CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	resolvedObserver := observer
	if resolvedObserver == nil {
		resolvedObserver = noopCommandEventObserver{}
	}

	return &ShellExecutor{logger: logger, runner: runner, observer: resolvedObserver}, nil
}

// ExecuteGit runs the git executable with the supplied details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	executor.logger.Debug(
		commandStartedMessageConstant,
		zap.Strings(logFieldArgumentsConstant, details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, details.WorkingDirectory),
	)
	executor.observer.CommandStarted(details)

	executionResult, executionError := executor.runner.Run(executionContext, details)
	if executionError != nil {
		executor.logger.Debug(
			commandFailedMessageConstant,
			zap.Strings(logFieldArgumentsConstant, details.Arguments),
			zap.Error(executionError),
		)
		wrappedFailure := CommandExecutionError{Details: details, Cause: executionError}
		executor.observer.CommandExecutionFailed(details, executionError)
		return ExecutionResult{}, wrappedFailure
	}

	executor.logger.Debug(
		commandCompletedMessageConstant,
		zap.Strings(logFieldArgumentsConstant, details.Arguments),
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		zap.String(logFieldStandardErrorConstant, executionResult.StandardError),
	)
	executor.observer.CommandCompleted(details, executionResult)

	if executionResult.ExitCode != 0 {
		return ExecutionResult{}, CommandFailedError{Details: details, Result: executionResult}
	}

	return executionResult, nil
}
