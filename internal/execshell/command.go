package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	commandFailedTemplateConstant             = "%s failed with exit code %d%s"
	commandExecutionFailedTemplateConstant    = "%s failed: %s"
	standardErrorSuffixTemplateConstant       = ": %s"
	commandLineJoinSeparatorConstant          = " "
	emptyStringConstant                       = ""
	gitExecutableNameConstant                 = "git"
)

// CommandDetails describes the arguments and environment of one git invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// CommandLine renders the invocation as it would appear on a shell prompt.
func (details CommandDetails) CommandLine() string {
	commandParts := append([]string{gitExecutableNameConstant}, details.Arguments...)
	return strings.Join(commandParts, commandLineJoinSeparatorConstant)
}

// ExecutionResult captures the observable outcome of a completed git process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes git invocations and reports their results.
type CommandRunner interface {
	Run(executionContext context.Context, details CommandDetails) (ExecutionResult, error)
}

// ErrLoggerNotConfigured indicates a ShellExecutor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates a ShellExecutor was constructed without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// CommandFailedError reports a git invocation that completed with a non-zero exit code.
type CommandFailedError struct {
	Details CommandDetails
	Result  ExecutionResult
}

// Error describes the failed invocation including captured standard error output.
func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedTemplateConstant, failure.Details.CommandLine(), failure.Result.ExitCode, standardErrorSuffix(failure.Result.StandardError))
}

// CommandExecutionError reports a git invocation that could not be executed at all.
type CommandExecutionError struct {
	Details CommandDetails
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionFailedTemplateConstant, failure.Details.CommandLine(), failure.Cause)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

func standardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}
