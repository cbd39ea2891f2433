package forge

import "context"

// Forge abstracts a hosting provider. Adapters fetch raw project records; the
// topology builder depends only on this interface and the record shape.
type Forge interface {
	// Name returns the configured display name of the forge entry.
	Name() string
	// Domain returns the forge host used for workspace path derivation.
	Domain() string
	// ListGroupProjects lists projects of an organization or group.
	ListGroupProjects(executionContext context.Context, groupIdentifier string) ([]ProjectRecord, error)
	// ListUserProjects lists projects owned by the named user.
	ListUserProjects(executionContext context.Context, userIdentifier string) ([]ProjectRecord, error)
	// ListOwnProjects lists projects of the authenticated user.
	ListOwnProjects(executionContext context.Context) ([]ProjectRecord, error)
	// ExcludedByName reports whether a project name is configured as excluded.
	ExcludedByName(projectName string) bool
	// GitConfigOverlay returns forge-wide git configuration applied to every
	// repository before topology-specific overrides.
	GitConfigOverlay() map[string]*string
}
