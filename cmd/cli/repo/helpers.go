package repo

import (
	"go.uber.org/zap"

	"github.com/forgeworks/forgesync/internal/execshell"
	"github.com/forgeworks/forgesync/internal/gitrepo"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// WorkspaceProvider yields the configured workspace root path.
type WorkspaceProvider func() string

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// newGitExecutor builds a shell-backed git executor, mirroring command events
// onto the logger when human-readable logging is active.
func newGitExecutor(logger *zap.Logger, humanReadableLogging bool) (gitrepo.GitExecutor, error) {
	commandRunner := execshell.NewOSCommandRunner()
	if humanReadableLogging {
		return execshell.NewShellExecutorWithObserver(logger, commandRunner, execshell.NewLoggingCommandObserver(logger))
	}
	return execshell.NewShellExecutor(logger, commandRunner)
}
