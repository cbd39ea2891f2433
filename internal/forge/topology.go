package forge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/forgeworks/forgesync/internal/gitrepo"
)

const (
	workspaceRootMissingMessageConstant = "workspace root not configured"
	missingCloneURLTemplateConstant     = "project %q has no ssh clone url"
	repositoryNameTemplateConstant      = "%s/%s"
)

// ErrWorkspaceRootNotConfigured indicates a TopologyBuilder was constructed without a workspace root.
var ErrWorkspaceRootNotConfigured = errors.New(workspaceRootMissingMessageConstant)

// MissingCloneURLError reports a forge record without an ssh clone url.
type MissingCloneURLError struct {
	NamespacedPath string
}

// Error describes the unusable record.
func (failure MissingCloneURLError) Error() string {
	return fmt.Sprintf(missingCloneURLTemplateConstant, failure.NamespacedPath)
}

// TopologyBuilder maps forge project records onto canonical remote repository
// descriptions rooted in the workspace.
type TopologyBuilder struct {
	workspaceRoot string
}

// NewTopologyBuilder constructs a TopologyBuilder for the supplied workspace root.
func NewTopologyBuilder(workspaceRoot string) (*TopologyBuilder, error) {
	trimmedRoot := strings.TrimSpace(workspaceRoot)
	if len(trimmedRoot) == 0 {
		return nil, ErrWorkspaceRootNotConfigured
	}
	return &TopologyBuilder{workspaceRoot: trimmedRoot}, nil
}

// BuildRemoteRepository produces the desired repository state for one record.
//
// Forks lose their origin remote: upstream points at the fork parent,
// downstream at the fork itself, and remote.pushdefault selects downstream.
// Non-forks keep a single origin remote with remote.pushdefault = origin.
func (builder *TopologyBuilder) BuildRemoteRepository(hostingForge Forge, record ProjectRecord) (gitrepo.RemoteRepository, error) {
	if len(strings.TrimSpace(record.SSHCloneURL)) == 0 {
		return gitrepo.RemoteRepository{}, MissingCloneURLError{NamespacedPath: record.NamespacedPath}
	}

	forgeDomain := hostingForge.Domain()
	repositoryPath, pathError := gitrepo.ResolveWorkspacePath(builder.workspaceRoot, forgeDomain, record.NamespacedPath)
	if pathError != nil {
		return gitrepo.RemoteRepository{}, pathError
	}

	configValues, overlayError := gitrepo.ParseConfigValues(hostingForge.GitConfigOverlay())
	if overlayError != nil {
		return gitrepo.RemoteRepository{}, overlayError
	}

	remoteValues := gitrepo.RemoteValues{}
	if record.ForkParent != nil {
		remoteValues[gitrepo.OriginRemoteNameConstant] = nil
		remoteValues[gitrepo.UpstreamRemoteNameConstant] = gitrepo.DesiredValue(record.ForkParent.SSHCloneURL)
		remoteValues[gitrepo.DownstreamRemoteNameConstant] = gitrepo.DesiredValue(record.SSHCloneURL)
		configValues[gitrepo.PushDefaultConfigKey] = gitrepo.DesiredValue(gitrepo.DownstreamRemoteNameConstant)
	} else {
		remoteValues[gitrepo.OriginRemoteNameConstant] = gitrepo.DesiredValue(record.SSHCloneURL)
		configValues[gitrepo.PushDefaultConfigKey] = gitrepo.DesiredValue(gitrepo.OriginRemoteNameConstant)
	}

	return gitrepo.RemoteRepository{
		Repository: gitrepo.Repository{
			Name:     fmt.Sprintf(repositoryNameTemplateConstant, forgeDomain, record.NamespacedPath),
			Path:     repositoryPath,
			Config:   configValues,
			Remotes:  remoteValues,
			Archived: record.Archived,
		},
		CloneURL:      record.SSHCloneURL,
		Group:         forgeDomain,
		DefaultBranch: record.DefaultBranch,
	}, nil
}

// BuildRepositories maps every record through the builder, skipping projects
// the forge excludes by name.
func (builder *TopologyBuilder) BuildRepositories(hostingForge Forge, records []ProjectRecord) ([]gitrepo.RemoteRepository, error) {
	remoteRepositories := make([]gitrepo.RemoteRepository, 0, len(records))
	for _, record := range records {
		if hostingForge.ExcludedByName(projectNameFromNamespacedPath(record.NamespacedPath)) {
			continue
		}

		remoteRepository, buildError := builder.BuildRemoteRepository(hostingForge, record)
		if buildError != nil {
			return nil, buildError
		}
		remoteRepositories = append(remoteRepositories, remoteRepository)
	}
	return remoteRepositories, nil
}

func projectNameFromNamespacedPath(namespacedPath string) string {
	pathSegments := strings.Split(namespacedPath, "/")
	return pathSegments[len(pathSegments)-1]
}
