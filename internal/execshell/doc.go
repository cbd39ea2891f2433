// Package execshell provides structured helpers for invoking the git binary.
//
// It wraps os/exec with logging and lifecycle observation via ShellExecutor,
// exposes OSCommandRunner for default process execution, and defines the
// invocation and result types used throughout forgesync to run git in a
// testable manner. LoggingCommandObserver mirrors git lifecycle events onto a
// zap logger in a human-readable form for console output.
package execshell
