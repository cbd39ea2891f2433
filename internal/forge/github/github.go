// Package github adapts the GitHub API to the forge interface.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v68/github"

	"github.com/forgeworks/forgesync/internal/forge"
)

const (
	defaultDomainConstant               = "github.com"
	apiHostPrefixConstant               = "api."
	enterpriseUploadPathConstant        = "/api/uploads/"
	tokenMissingMessageConstant         = "github forge requires a token"
	apiURLInvalidTemplateConstant       = "invalid github api url %q: %w"
	listFailureTemplateConstant         = "listing github repositories for %q: %w"
	loginResolveFailureTemplateConstant = "resolving authenticated github user: %w"
	forkResolveFailureTemplateConstant  = "resolving fork parent of %q: %w"
	listPageSizeConstant                = 100
)

// ErrTokenRequired indicates a GitHub forge entry without a token.
var ErrTokenRequired = errors.New(tokenMissingMessageConstant)

// Forge lists repositories from a GitHub instance.
type Forge struct {
	client        *gh.Client
	name          string
	domain        string
	exclusionSet  map[string]struct{}
	configOverlay map[string]*string
}

// NewForge constructs a GitHub forge from the decoded settings. An empty API
// URL targets github.com; otherwise enterprise URLs are derived from it.
func NewForge(settings forge.GitHubSettings) (*Forge, error) {
	if len(strings.TrimSpace(settings.Token)) == 0 {
		return nil, ErrTokenRequired
	}

	client := gh.NewClient(nil).WithAuthToken(settings.Token)
	forgeDomain := defaultDomainConstant

	if len(strings.TrimSpace(settings.APIURL)) > 0 {
		parsedURL, parseError := url.Parse(settings.APIURL)
		if parseError != nil || len(parsedURL.Host) == 0 {
			return nil, fmt.Errorf(apiURLInvalidTemplateConstant, settings.APIURL, parseError)
		}

		uploadURL := parsedURL.Scheme + "://" + parsedURL.Host + enterpriseUploadPathConstant
		enterpriseClient, enterpriseError := client.WithEnterpriseURLs(settings.APIURL, uploadURL)
		if enterpriseError != nil {
			return nil, fmt.Errorf(apiURLInvalidTemplateConstant, settings.APIURL, enterpriseError)
		}
		client = enterpriseClient
		forgeDomain = strings.TrimPrefix(parsedURL.Hostname(), apiHostPrefixConstant)
	}

	return &Forge{
		client:        client,
		name:          settings.Name,
		domain:        forgeDomain,
		exclusionSet:  forge.ExclusionSet(settings.Exclude),
		configOverlay: settings.GitConfig,
	}, nil
}

// Name returns the configured forge entry name.
func (hostingForge *Forge) Name() string {
	return hostingForge.name
}

// Domain returns the forge host used for workspace path derivation.
func (hostingForge *Forge) Domain() string {
	return hostingForge.domain
}

// ExcludedByName reports whether a project name is configured as excluded.
func (hostingForge *Forge) ExcludedByName(projectName string) bool {
	return forge.IsExcluded(hostingForge.exclusionSet, projectName)
}

// GitConfigOverlay returns the forge-wide git configuration overlay.
func (hostingForge *Forge) GitConfigOverlay() map[string]*string {
	return hostingForge.configOverlay
}

// ListGroupProjects lists the repositories of an organization.
func (hostingForge *Forge) ListGroupProjects(executionContext context.Context, groupIdentifier string) ([]forge.ProjectRecord, error) {
	listOptions := &gh.RepositoryListByOrgOptions{ListOptions: gh.ListOptions{PerPage: listPageSizeConstant}}

	projectRecords := []forge.ProjectRecord{}
	for {
		repositories, response, listError := hostingForge.client.Repositories.ListByOrg(executionContext, groupIdentifier, listOptions)
		if listError != nil {
			return nil, fmt.Errorf(listFailureTemplateConstant, groupIdentifier, listError)
		}

		pageRecords, convertError := hostingForge.convertRepositories(executionContext, repositories)
		if convertError != nil {
			return nil, convertError
		}
		projectRecords = append(projectRecords, pageRecords...)

		if response.NextPage == 0 {
			break
		}
		listOptions.Page = response.NextPage
	}
	return projectRecords, nil
}

// ListUserProjects lists the repositories owned by the named user.
func (hostingForge *Forge) ListUserProjects(executionContext context.Context, userIdentifier string) ([]forge.ProjectRecord, error) {
	listOptions := &gh.RepositoryListByUserOptions{ListOptions: gh.ListOptions{PerPage: listPageSizeConstant}}

	projectRecords := []forge.ProjectRecord{}
	for {
		repositories, response, listError := hostingForge.client.Repositories.ListByUser(executionContext, userIdentifier, listOptions)
		if listError != nil {
			return nil, fmt.Errorf(listFailureTemplateConstant, userIdentifier, listError)
		}

		pageRecords, convertError := hostingForge.convertRepositories(executionContext, repositories)
		if convertError != nil {
			return nil, convertError
		}
		projectRecords = append(projectRecords, pageRecords...)

		if response.NextPage == 0 {
			break
		}
		listOptions.Page = response.NextPage
	}
	return projectRecords, nil
}

// ListOwnProjects lists the repositories of the authenticated user. The login
// is resolved first and the listing goes through the per-user view, so the
// result matches the user's own repositories rather than the broader
// collaborator set.
func (hostingForge *Forge) ListOwnProjects(executionContext context.Context) ([]forge.ProjectRecord, error) {
	authenticatedUser, _, userError := hostingForge.client.Users.Get(executionContext, "")
	if userError != nil {
		return nil, fmt.Errorf(loginResolveFailureTemplateConstant, userError)
	}
	return hostingForge.ListUserProjects(executionContext, authenticatedUser.GetLogin())
}

func (hostingForge *Forge) convertRepositories(executionContext context.Context, repositories []*gh.Repository) ([]forge.ProjectRecord, error) {
	projectRecords := make([]forge.ProjectRecord, 0, len(repositories))
	for _, repository := range repositories {
		resolvedRepository := repository

		// List responses omit the parent; fetch the full repository for forks.
		if repository.GetFork() && repository.GetParent() == nil {
			fullRepository, _, resolveError := hostingForge.client.Repositories.Get(executionContext, repository.GetOwner().GetLogin(), repository.GetName())
			if resolveError != nil {
				return nil, fmt.Errorf(forkResolveFailureTemplateConstant, repository.GetFullName(), resolveError)
			}
			resolvedRepository = fullRepository
		}

		projectRecords = append(projectRecords, NewProjectRecord(resolvedRepository))
	}
	return projectRecords, nil
}

// NewProjectRecord maps a GitHub repository onto the canonical record shape.
func NewProjectRecord(repository *gh.Repository) forge.ProjectRecord {
	projectRecord := forge.ProjectRecord{
		NamespacedPath: repository.GetFullName(),
		SSHCloneURL:    repository.GetSSHURL(),
		DefaultBranch:  repository.GetDefaultBranch(),
		Archived:       repository.GetArchived(),
	}

	if parentRepository := repository.GetParent(); parentRepository != nil {
		projectRecord.ForkParent = &forge.ForkParentRecord{
			NamespacedPath: parentRepository.GetFullName(),
			SSHCloneURL:    parentRepository.GetSSHURL(),
		}
	}
	return projectRecord
}
