package gitrepo_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgeworks/forgesync/internal/gitrepo"
)

const (
	testWorkspaceRootConstant          = "/ws"
	testDerivedPathCaseNameConstant    = "derived_path_inside_workspace"
	testEscapingPathCaseNameConstant   = "escaping_path_rejected"
	testUnparseableURLCaseNameConstant = "unparseable_url_rejected"
)

func TestNewRemoteRepositoryFromURL(testInstance *testing.T) {
	testCases := []struct {
		name          string
		rawURL        string
		expectedPath  string
		expectedGroup string
		expectedName  string
		expectError   bool
	}{
		{
			name:          testDerivedPathCaseNameConstant,
			rawURL:        "git@gitlab.invalid:group/name.git",
			expectedPath:  filepath.Join(testWorkspaceRootConstant, "gitlab.invalid", "group", "name"),
			expectedGroup: "gitlab.invalid",
			expectedName:  "name",
		},
		{
			name:        testEscapingPathCaseNameConstant,
			rawURL:      "git@gitlab.invalid:../../etc/passwd.git",
			expectError: true,
		},
		{
			name:        testUnparseableURLCaseNameConstant,
			rawURL:      "not-a-remote",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			remoteRepository, constructionError := gitrepo.NewRemoteRepositoryFromURL(testWorkspaceRootConstant, testCase.rawURL)
			if testCase.expectError {
				require.Error(testInstance, constructionError)
				return
			}
			require.NoError(testInstance, constructionError)
			require.Equal(testInstance, testCase.expectedPath, remoteRepository.Path)
			require.Equal(testInstance, testCase.expectedGroup, remoteRepository.Group)
			require.Equal(testInstance, testCase.expectedName, remoteRepository.Name)
			require.Equal(testInstance, testCase.rawURL, remoteRepository.CloneURL)
		})
	}
}

func TestResolveWorkspacePathRejectsEscapes(testInstance *testing.T) {
	_, pathError := gitrepo.ResolveWorkspacePath(testWorkspaceRootConstant, "host.invalid", "../../outside/project")
	require.Error(testInstance, pathError)
	require.ErrorAs(testInstance, pathError, &gitrepo.PathEscapeError{})
}
