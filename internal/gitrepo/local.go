package gitrepo

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// Well-known remote and branch names used by discovery fallback chains.
const (
	OriginRemoteNameConstant     = "origin"
	UpstreamRemoteNameConstant   = "upstream"
	DownstreamRemoteNameConstant = "downstream"
	MainBranchNameConstant       = "main"
	MasterBranchNameConstant     = "master"
)

// LocalRepository wraps an on-disk clone and exposes idempotent reconciliation
// and branch discovery against it.
type LocalRepository struct {
	manager       *RepositoryManager
	path          string
	defaultBranch string
}

// NewLocalRepository constructs a LocalRepository for the clone at path.
//
// defaultBranch carries the forge-reported default branch when known; pass an
// empty string for repositories opened directly from the filesystem.
func NewLocalRepository(manager *RepositoryManager, path string, defaultBranch string) (*LocalRepository, error) {
	if manager == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &LocalRepository{manager: manager, path: path, defaultBranch: defaultBranch}, nil
}

// Path returns the filesystem location of the clone.
func (repository *LocalRepository) Path() string {
	return repository.path
}

// DefaultBranch returns the forge-reported default branch, if any.
func (repository *LocalRepository) DefaultBranch() string {
	return repository.defaultBranch
}

// ReconcileConfiguration converges local git configuration onto the desired
// entries. A nil desired value removes the entry; entries not present in
// desired are never touched.
func (repository *LocalRepository) ReconcileConfiguration(executionContext context.Context, desired ConfigValues) error {
	for _, configKey := range SortedConfigKeys(desired) {
		desiredValue := desired[configKey]

		currentValue, entryPresent, readError := repository.manager.GetConfigValue(executionContext, repository.path, configKey)
		if readError != nil {
			return readError
		}

		switch {
		case desiredValue == nil && entryPresent:
			if unsetError := repository.manager.UnsetConfigValue(executionContext, repository.path, configKey); unsetError != nil {
				return unsetError
			}
		case desiredValue != nil && (!entryPresent || currentValue != *desiredValue):
			if setError := repository.manager.SetConfigValue(executionContext, repository.path, configKey, *desiredValue); setError != nil {
				return setError
			}
		}
	}
	return nil
}

// ReconcileRemotes converges configured remotes onto the desired entries. A
// nil desired URL removes the remote; remotes not present in desired are never
// touched.
func (repository *LocalRepository) ReconcileRemotes(executionContext context.Context, desired RemoteValues) error {
	for _, remoteName := range SortedRemoteNames(desired) {
		desiredURL := desired[remoteName]

		currentURL, remotePresent, readError := repository.manager.GetRemoteURL(executionContext, repository.path, remoteName)
		if readError != nil {
			return readError
		}

		switch {
		case desiredURL == nil && remotePresent:
			if removeError := repository.manager.RemoveRemote(executionContext, repository.path, remoteName); removeError != nil {
				return removeError
			}
		case desiredURL != nil && !remotePresent:
			if addError := repository.manager.AddRemote(executionContext, repository.path, remoteName, *desiredURL); addError != nil {
				return addError
			}
		case desiredURL != nil && remotePresent && currentURL != *desiredURL:
			if setError := repository.manager.SetRemoteURL(executionContext, repository.path, remoteName, *desiredURL); setError != nil {
				return setError
			}
		}
	}
	return nil
}

// UpdateRemotes fetches all remotes, optionally pruning stale remote-tracking refs.
func (repository *LocalRepository) UpdateRemotes(executionContext context.Context, prune bool) error {
	return repository.manager.UpdateRemotes(executionContext, repository.path, prune)
}

// MergedBranchNames returns local branches fully contained in the target
// branch's history, excluding the target itself, in lexical order.
func (repository *LocalRepository) MergedBranchNames(executionContext context.Context, targetBranchName string) ([]string, error) {
	mergedBranchNames, listError := repository.manager.ListMergedBranchNames(executionContext, repository.path, targetBranchName)
	if listError != nil {
		return nil, listError
	}

	filteredNames := []string{}
	for _, branchName := range mergedBranchNames {
		if branchName == targetBranchName {
			continue
		}
		filteredNames = append(filteredNames, branchName)
	}
	sort.Strings(filteredNames)
	return filteredNames, nil
}

// BranchNamesWithPrefix returns local branches whose names begin with the
// supplied prefix, in lexical order.
func (repository *LocalRepository) BranchNamesWithPrefix(executionContext context.Context, branchPrefix string) ([]string, error) {
	branchNames, listError := repository.manager.ListBranchNames(executionContext, repository.path)
	if listError != nil {
		return nil, listError
	}

	matchingNames := []string{}
	for _, branchName := range branchNames {
		if strings.HasPrefix(branchName, branchPrefix) {
			matchingNames = append(matchingNames, branchName)
		}
	}
	sort.Strings(matchingNames)
	return matchingNames, nil
}

// DiscoverBranch returns the first candidate that exists as a local branch.
func (repository *LocalRepository) DiscoverBranch(executionContext context.Context, candidateNames ...string) (string, error) {
	for _, candidateName := range candidateNames {
		branchPresent, existsError := repository.manager.BranchExists(executionContext, repository.path, candidateName)
		if existsError != nil {
			return "", existsError
		}
		if branchPresent {
			return candidateName, nil
		}
	}
	return "", CandidatesExhaustedError{Kind: candidateKindBranchLabelConstant, Candidates: candidateNames}
}

// DiscoverMainlineBranch resolves the integration branch. An explicit override
// must exist locally; otherwise the forge-reported default branch is used
// verbatim, falling back to main then master.
func (repository *LocalRepository) DiscoverMainlineBranch(executionContext context.Context, overrideName string) (string, error) {
	if len(overrideName) > 0 {
		branchPresent, existsError := repository.manager.BranchExists(executionContext, repository.path, overrideName)
		if existsError != nil {
			return "", existsError
		}
		if !branchPresent {
			return "", BranchNotFoundError{BranchName: overrideName}
		}
		return overrideName, nil
	}

	if len(repository.defaultBranch) > 0 {
		return repository.defaultBranch, nil
	}

	return repository.DiscoverBranch(executionContext, MainBranchNameConstant, MasterBranchNameConstant)
}

// DiscoverRemote returns the first candidate that exists as a configured remote.
func (repository *LocalRepository) DiscoverRemote(executionContext context.Context, candidateNames ...string) (string, error) {
	for _, candidateName := range candidateNames {
		_, remotePresent, readError := repository.manager.GetRemoteURL(executionContext, repository.path, candidateName)
		if readError != nil {
			return "", readError
		}
		if remotePresent {
			return candidateName, nil
		}
	}
	return "", CandidatesExhaustedError{Kind: candidateKindRemoteLabelConstant, Candidates: candidateNames}
}

// DiscoverUpstreamRemote resolves the remote carrying canonical history. An
// explicit override must exist as a configured remote.
func (repository *LocalRepository) DiscoverUpstreamRemote(executionContext context.Context, overrideName string) (string, error) {
	if len(overrideName) > 0 {
		return repository.discoverRemoteStrict(executionContext, overrideName)
	}
	return repository.DiscoverRemote(executionContext, UpstreamRemoteNameConstant, OriginRemoteNameConstant)
}

// DiscoverDownstreamRemote resolves the remote feature work is pushed to. An
// explicit override must exist as a configured remote.
func (repository *LocalRepository) DiscoverDownstreamRemote(executionContext context.Context, overrideName string) (string, error) {
	if len(overrideName) > 0 {
		return repository.discoverRemoteStrict(executionContext, overrideName)
	}
	return repository.DiscoverRemote(executionContext, DownstreamRemoteNameConstant)
}

// DiscoverOptionalDownstreamRemote resolves the downstream remote, tolerating
// its absence only when no explicit override was requested.
func (repository *LocalRepository) DiscoverOptionalDownstreamRemote(executionContext context.Context, overrideName string) (string, bool, error) {
	if len(overrideName) > 0 {
		remoteName, discoveryError := repository.discoverRemoteStrict(executionContext, overrideName)
		if discoveryError != nil {
			return "", false, discoveryError
		}
		return remoteName, true, nil
	}

	remoteName, discoveryError := repository.DiscoverRemote(executionContext, DownstreamRemoteNameConstant)
	if discoveryError != nil {
		var exhaustedFailure CandidatesExhaustedError
		if errors.As(discoveryError, &exhaustedFailure) {
			return "", false, nil
		}
		return "", false, discoveryError
	}
	return remoteName, true, nil
}

func (repository *LocalRepository) discoverRemoteStrict(executionContext context.Context, remoteName string) (string, error) {
	_, remotePresent, readError := repository.manager.GetRemoteURL(executionContext, repository.path, remoteName)
	if readError != nil {
		return "", readError
	}
	if !remotePresent {
		return "", RemoteNotFoundError{RemoteName: remoteName}
	}
	return remoteName, nil
}

// CurrentBranchName returns the checked-out branch's short name.
func (repository *LocalRepository) CurrentBranchName(executionContext context.Context) (string, error) {
	return repository.manager.CurrentBranchName(executionContext, repository.path)
}

// SwitchToBranch checks out an existing local branch.
func (repository *LocalRepository) SwitchToBranch(executionContext context.Context, branchName string) error {
	return repository.manager.SwitchToBranch(executionContext, repository.path, branchName)
}

// FetchBranchFromRemote fetches a branch from a remote into the same-named local branch.
func (repository *LocalRepository) FetchBranchFromRemote(executionContext context.Context, remoteName string, branchName string) error {
	return repository.manager.FetchBranch(executionContext, repository.path, remoteName, branchName)
}

// PushBranchToRemote pushes a local branch to the same-named branch on a remote.
func (repository *LocalRepository) PushBranchToRemote(executionContext context.Context, remoteName string, branchName string) error {
	return repository.manager.PushBranch(executionContext, repository.path, remoteName, branchName)
}

// RebaseOnto rebases the current branch onto the supplied revision.
func (repository *LocalRepository) RebaseOnto(executionContext context.Context, upstreamRevision string) error {
	return repository.manager.Rebase(executionContext, repository.path, upstreamRevision)
}

// DeleteBranch removes a local branch.
func (repository *LocalRepository) DeleteBranch(executionContext context.Context, branchName string) error {
	return repository.manager.DeleteBranch(executionContext, repository.path, branchName)
}

// Manager exposes the underlying plumbing for branch lifecycle workflows.
func (repository *LocalRepository) Manager() *RepositoryManager {
	return repository.manager
}
