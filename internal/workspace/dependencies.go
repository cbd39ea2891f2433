package workspace

import (
	"errors"
	"io/fs"
	"os"
)

const (
	loggerMissingMessageConstant          = "logger not configured"
	managerMissingMessageConstant         = "repository manager not configured"
	topologyBuilderMissingMessageConstant = "topology builder not configured"
	noRepositoriesSelectedMessageConstant = "no repositories selected"
)

// ErrLoggerNotConfigured indicates a Service was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerMissingMessageConstant)

// ErrRepositoryManagerNotConfigured indicates a Service was constructed without a repository manager.
var ErrRepositoryManagerNotConfigured = errors.New(managerMissingMessageConstant)

// ErrTopologyBuilderNotConfigured indicates a Service was constructed without a topology builder.
var ErrTopologyBuilderNotConfigured = errors.New(topologyBuilderMissingMessageConstant)

// ErrNoRepositoriesSelected indicates a selection matched no repositories; it
// is surfaced as a usage error.
var ErrNoRepositoriesSelected = errors.New(noRepositoriesSelectedMessageConstant)

// FileSystem provides the filesystem inspection needed to partition clones.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
}

// OSFileSystem implements FileSystem against the host filesystem.
type OSFileSystem struct{}

// Stat delegates to os.Stat.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}
