// Package gitlab adapts the GitLab API to the forge interface.
package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/forgeworks/forgesync/internal/forge"
)

const (
	defaultDomainConstant              = "gitlab.com"
	defaultBaseURLConstant             = "https://gitlab.com"
	tokenMissingMessageConstant        = "gitlab forge requires a token"
	baseURLInvalidTemplateConstant     = "invalid gitlab base url %q: %w"
	clientFailureTemplateConstant      = "creating gitlab client: %w"
	listFailureTemplateConstant        = "listing gitlab projects for %q: %w"
	currentUserFailureMessageConstant  = "resolving authenticated gitlab user"
	forkResolveFailureTemplateConstant = "resolving fork parent of %q: %w"
	listPageSizeConstant               = 100
)

// ErrTokenRequired indicates a GitLab forge entry without a token.
var ErrTokenRequired = errors.New(tokenMissingMessageConstant)

// Forge lists projects from a GitLab instance.
type Forge struct {
	client        *gl.Client
	name          string
	domain        string
	exclusionSet  map[string]struct{}
	configOverlay map[string]*string
}

// NewForge constructs a GitLab forge from the decoded settings. An empty base
// URL targets gitlab.com.
func NewForge(settings forge.GitLabSettings) (*Forge, error) {
	if len(strings.TrimSpace(settings.Token)) == 0 {
		return nil, ErrTokenRequired
	}

	baseURL := strings.TrimSpace(settings.BaseURL)
	if len(baseURL) == 0 {
		baseURL = defaultBaseURLConstant
	}

	parsedURL, parseError := url.Parse(baseURL)
	if parseError != nil || len(parsedURL.Host) == 0 {
		return nil, fmt.Errorf(baseURLInvalidTemplateConstant, baseURL, parseError)
	}

	client, clientError := gl.NewClient(settings.Token, gl.WithBaseURL(baseURL))
	if clientError != nil {
		return nil, fmt.Errorf(clientFailureTemplateConstant, clientError)
	}

	forgeDomain := parsedURL.Hostname()
	if len(forgeDomain) == 0 {
		forgeDomain = defaultDomainConstant
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

// ListGroupProjects lists the projects of a group, including subgroups and
// excluding archived projects.
func (hostingForge *Forge) ListGroupProjects(executionContext context.Context, groupIdentifier string) ([]forge.ProjectRecord, error) {
	listOptions := &gl.ListGroupProjectsOptions{
		ListOptions:      gl.ListOptions{PerPage: listPageSizeConstant},
		IncludeSubGroups: gl.Ptr(true),
		Archived:         gl.Ptr(false),
	}

	projectRecords := []forge.ProjectRecord{}
	for {
		projects, response, listError := hostingForge.client.Groups.ListGroupProjects(groupIdentifier, listOptions, gl.WithContext(executionContext))
		if listError != nil {
			return nil, fmt.Errorf(listFailureTemplateConstant, groupIdentifier, listError)
		}

		pageRecords, convertError := hostingForge.convertProjects(executionContext, projects)
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

// ListUserProjects lists the projects owned by the named user.
func (hostingForge *Forge) ListUserProjects(executionContext context.Context, userIdentifier string) ([]forge.ProjectRecord, error) {
	return hostingForge.listUserProjects(executionContext, userIdentifier)
}

// ListOwnProjects lists the projects of the authenticated user.
func (hostingForge *Forge) ListOwnProjects(executionContext context.Context) ([]forge.ProjectRecord, error) {
	currentUser, _, userError := hostingForge.client.Users.CurrentUser(gl.WithContext(executionContext))
	if userError != nil {
		return nil, fmt.Errorf("%s: %w", currentUserFailureMessageConstant, userError)
	}
	return hostingForge.listUserProjects(executionContext, currentUser.Username)
}

func (hostingForge *Forge) listUserProjects(executionContext context.Context, userIdentifier string) ([]forge.ProjectRecord, error) {
	listOptions := &gl.ListProjectsOptions{ListOptions: gl.ListOptions{PerPage: listPageSizeConstant}}

	projectRecords := []forge.ProjectRecord{}
	for {
		projects, response, listError := hostingForge.client.Projects.ListUserProjects(userIdentifier, listOptions, gl.WithContext(executionContext))
		if listError != nil {
			return nil, fmt.Errorf(listFailureTemplateConstant, userIdentifier, listError)
		}

		pageRecords, convertError := hostingForge.convertProjects(executionContext, projects)
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

func (hostingForge *Forge) convertProjects(executionContext context.Context, projects []*gl.Project) ([]forge.ProjectRecord, error) {
	projectRecords := make([]forge.ProjectRecord, 0, len(projects))
	for _, project := range projects {
		var parentProject *gl.Project

		// Fork metadata on list responses carries no ssh url; fetch the parent.
		if project.ForkedFromProject != nil {
			resolvedParent, _, resolveError := hostingForge.client.Projects.GetProject(project.ForkedFromProject.ID, nil, gl.WithContext(executionContext))
			if resolveError != nil {
				return nil, fmt.Errorf(forkResolveFailureTemplateConstant, project.PathWithNamespace, resolveError)
			}
			parentProject = resolvedParent
		}

		projectRecords = append(projectRecords, NewProjectRecord(project, parentProject))
	}
	return projectRecords, nil
}

// NewProjectRecord maps a GitLab project onto the canonical record shape.
// parentProject supplies fork metadata and may be nil.
func NewProjectRecord(project *gl.Project, parentProject *gl.Project) forge.ProjectRecord {
	projectRecord := forge.ProjectRecord{
		NamespacedPath: project.PathWithNamespace,
		SSHCloneURL:    project.SSHURLToRepo,
		DefaultBranch:  project.DefaultBranch,
		Archived:       project.Archived,
	}

	if parentProject != nil {
		projectRecord.ForkParent = &forge.ForkParentRecord{
			NamespacedPath: parentProject.PathWithNamespace,
			SSHCloneURL:    parentProject.SSHURLToRepo,
		}
	}
	return projectRecord
}
