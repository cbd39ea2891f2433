package execshell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/forgeworks/forgesync/internal/execshell"
)

func buildTestInvocation() execshell.CommandDetails {
	return execshell.CommandDetails{
		Arguments:        []string{"remote", "update"},
		WorkingDirectory: "/workspace/example.com/group/project",
	}
}

func TestLoggingCommandObserverMessages(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zap.InfoLevel)
	loggingObserver := execshell.NewLoggingCommandObserver(zap.New(observerCore))
	invocation := buildTestInvocation()

	loggingObserver.CommandStarted(invocation)
	loggingObserver.CommandCompleted(invocation, execshell.ExecutionResult{ExitCode: 0})
	loggingObserver.CommandCompleted(invocation, execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: not a git repository"})
	loggingObserver.CommandExecutionFailed(invocation, errors.New("executable not found"))

	recordedEntries := observedLogs.All()
	require.Len(testInstance, recordedEntries, 4)

	require.Equal(testInstance, zap.InfoLevel, recordedEntries[0].Level)
	require.Equal(testInstance, "Running git remote update (in /workspace/example.com/group/project)", recordedEntries[0].Message)

	require.Equal(testInstance, zap.InfoLevel, recordedEntries[1].Level)
	require.Equal(testInstance, "Completed git remote update (in /workspace/example.com/group/project)", recordedEntries[1].Message)

	require.Equal(testInstance, zap.WarnLevel, recordedEntries[2].Level)
	require.Equal(testInstance, "git remote update (in /workspace/example.com/group/project) failed with exit code 128: fatal: not a git repository", recordedEntries[2].Message)

	require.Equal(testInstance, zap.ErrorLevel, recordedEntries[3].Level)
	require.Equal(testInstance, "git remote update (in /workspace/example.com/group/project) failed: executable not found", recordedEntries[3].Message)
}

func TestCommandLineRendersInvocation(testInstance *testing.T) {
	require.Equal(testInstance, "git remote update", buildTestInvocation().CommandLine())
}
