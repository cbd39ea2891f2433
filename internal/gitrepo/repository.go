package gitrepo

import (
	"path/filepath"
	"strings"
)

const (
	repositoryNameTemplateSeparatorConstant = "/"
	parentDirectoryIndicatorConstant        = ".."
)

// Repository describes the desired state shared by remote and local repositories.
type Repository struct {
	Name     string
	Path     string
	Config   ConfigValues
	Remotes  RemoteValues
	Archived bool
}

// RemoteRepository describes a repository known from forge metadata that may not yet exist on disk.
type RemoteRepository struct {
	Repository
	CloneURL      string
	Group         string
	DefaultBranch string
}

// NewRemoteRepositoryFromURL derives a remote repository from a bare clone URL.
//
// The clone path is workspaceRoot/host/namespacedPath and must stay inside the
// workspace root.
func NewRemoteRepositoryFromURL(workspaceRoot string, rawURL string) (RemoteRepository, error) {
	parsedURL, parseError := ParseRemoteURL(rawURL)
	if parseError != nil {
		return RemoteRepository{}, parseError
	}

	repositoryPath, pathError := ResolveWorkspacePath(workspaceRoot, parsedURL.Host, parsedURL.NamespacedPath)
	if pathError != nil {
		return RemoteRepository{}, pathError
	}

	pathSegments := strings.Split(parsedURL.NamespacedPath, repositoryNameTemplateSeparatorConstant)
	repositoryName := pathSegments[len(pathSegments)-1]

	return RemoteRepository{
		Repository: Repository{
			Name:    repositoryName,
			Path:    repositoryPath,
			Config:  ConfigValues{},
			Remotes: RemoteValues{},
		},
		CloneURL: rawURL,
		Group:    parsedURL.Host,
	}, nil
}

// ResolveWorkspacePath joins workspaceRoot, group, and namespacedPath and
// rejects any result that escapes the workspace root.
func ResolveWorkspacePath(workspaceRoot string, group string, namespacedPath string) (string, error) {
	candidatePath := filepath.Join(workspaceRoot, group, filepath.FromSlash(namespacedPath))

	relativePath, relativeError := filepath.Rel(workspaceRoot, candidatePath)
	if relativeError != nil {
		return "", PathEscapeError{WorkspaceRoot: workspaceRoot, CandidatePath: candidatePath}
	}
	if relativePath == parentDirectoryIndicatorConstant || strings.HasPrefix(relativePath, parentDirectoryIndicatorConstant+string(filepath.Separator)) {
		return "", PathEscapeError{WorkspaceRoot: workspaceRoot, CandidatePath: candidatePath}
	}

	return candidatePath, nil
}
