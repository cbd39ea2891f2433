package github_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	gh "github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/require"

	"github.com/forgeworks/forgesync/internal/forge"
	"github.com/forgeworks/forgesync/internal/forge/github"
)

const (
	testForkRecordCaseNameConstant    = "fork_with_parent"
	testNonForkRecordCaseNameConstant = "plain_repository"
)

func TestNewProjectRecord(testInstance *testing.T) {
	testCases := []struct {
		name           string
		repository     *gh.Repository
		expectedRecord forge.ProjectRecord
	}{
		{
			name: testNonForkRecordCaseNameConstant,
			repository: &gh.Repository{
				FullName:      gh.String("example-org/project"),
				SSHURL:        gh.String("git@github.invalid:example-org/project.git"),
				DefaultBranch: gh.String("main"),
				Archived:      gh.Bool(true),
			},
			expectedRecord: forge.ProjectRecord{
				NamespacedPath: "example-org/project",
				SSHCloneURL:    "git@github.invalid:example-org/project.git",
				DefaultBranch:  "main",
				Archived:       true,
			},
		},
		{
			name: testForkRecordCaseNameConstant,
			repository: &gh.Repository{
				FullName:      gh.String("someone/project"),
				SSHURL:        gh.String("git@github.invalid:someone/project.git"),
				DefaultBranch: gh.String("main"),
				Fork:          gh.Bool(true),
				Parent: &gh.Repository{
					FullName: gh.String("example-org/project"),
					SSHURL:   gh.String("git@github.invalid:example-org/project.git"),
				},
			},
			expectedRecord: forge.ProjectRecord{
				NamespacedPath: "someone/project",
				SSHCloneURL:    "git@github.invalid:someone/project.git",
				DefaultBranch:  "main",
				ForkParent: &forge.ForkParentRecord{
					NamespacedPath: "example-org/project",
					SSHCloneURL:    "git@github.invalid:example-org/project.git",
				},
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedRecord, github.NewProjectRecord(testCase.repository))
		})
	}
}

func TestNewForgeDerivesDomain(testInstance *testing.T) {
	defaultForge, defaultError := github.NewForge(forge.GitHubSettings{
		CommonSettings: forge.CommonSettings{Name: "github", Token: "secret-token"},
	})
	require.NoError(testInstance, defaultError)
	require.Equal(testInstance, "github.com", defaultForge.Domain())

	enterpriseForge, enterpriseError := github.NewForge(forge.GitHubSettings{
		CommonSettings: forge.CommonSettings{Name: "corp", Token: "secret-token"},
		APIURL:         "https://api.github.corp.invalid/api/v3/",
	})
	require.NoError(testInstance, enterpriseError)
	require.Equal(testInstance, "github.corp.invalid", enterpriseForge.Domain())
}

func TestNewForgeRequiresToken(testInstance *testing.T) {
	_, constructionError := github.NewForge(forge.GitHubSettings{
		CommonSettings: forge.CommonSettings{Name: "github"},
	})
	require.ErrorIs(testInstance, constructionError, github.ErrTokenRequired)
}

func TestListOwnProjectsListsByResolvedLogin(testInstance *testing.T) {
	requestedPaths := []string{}
	serverMux := http.NewServeMux()
	serverMux.HandleFunc("/api/v3/user", func(responseWriter http.ResponseWriter, request *http.Request) {
		requestedPaths = append(requestedPaths, request.URL.Path)
		fmt.Fprint(responseWriter, `{"login":"octocat"}`)
	})
	serverMux.HandleFunc("/api/v3/users/octocat/repos", func(responseWriter http.ResponseWriter, request *http.Request) {
		requestedPaths = append(requestedPaths, request.URL.Path)
		fmt.Fprint(responseWriter, `[{"full_name":"octocat/project","ssh_url":"git@github.invalid:octocat/project.git","default_branch":"main"}]`)
	})
	server := httptest.NewServer(serverMux)
	defer server.Close()

	hostingForge, constructionError := github.NewForge(forge.GitHubSettings{
		CommonSettings: forge.CommonSettings{Name: "github", Token: "secret-token"},
		APIURL:         server.URL,
	})
	require.NoError(testInstance, constructionError)

	projectRecords, listError := hostingForge.ListOwnProjects(context.Background())
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []string{"/api/v3/user", "/api/v3/users/octocat/repos"}, requestedPaths)
	require.Equal(testInstance, []forge.ProjectRecord{{
		NamespacedPath: "octocat/project",
		SSHCloneURL:    "git@github.invalid:octocat/project.git",
		DefaultBranch:  "main",
	}}, projectRecords)
}

func TestExcludedByName(testInstance *testing.T) {
	hostingForge, constructionError := github.NewForge(forge.GitHubSettings{
		CommonSettings: forge.CommonSettings{Name: "github", Token: "secret-token", Exclude: []string{"sandbox"}},
	})
	require.NoError(testInstance, constructionError)
	require.True(testInstance, hostingForge.ExcludedByName("Sandbox"))
	require.False(testInstance, hostingForge.ExcludedByName("kept"))
}
