package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/forgeworks/forgesync/internal/execshell"
)

const (
	configSubcommandConstant            = "config"
	configLocalFlagConstant             = "--local"
	configGetFlagConstant               = "--get"
	configUnsetFlagConstant             = "--unset"
	remoteSubcommandConstant            = "remote"
	remoteGetURLSubcommandConstant      = "get-url"
	remoteAddSubcommandConstant         = "add"
	remoteSetURLSubcommandConstant      = "set-url"
	remoteRemoveSubcommandConstant      = "remove"
	remoteUpdateSubcommandConstant      = "update"
	remotePruneFlagConstant             = "--prune"
	branchSubcommandConstant            = "branch"
	branchListFlagConstant              = "--list"
	branchFormatFlagConstant            = "--format=%(refname:short)"
	branchMergedFlagConstant            = "--merged"
	branchDeleteForceFlagConstant       = "--delete"
	branchForceFlagConstant             = "--force"
	revParseSubcommandConstant          = "rev-parse"
	revParseAbbreviatedHeadFlagConstant = "--abbrev-ref"
	headReferenceConstant               = "HEAD"
	verifyFlagConstant                  = "--verify"
	quietFlagConstant                   = "--quiet"
	showRefSubcommandConstant           = "show-ref"
	localBranchReferencePrefixConstant  = "refs/heads/"
	switchSubcommandConstant            = "switch"
	switchNoGuessFlagConstant           = "--no-guess"
	fetchSubcommandConstant             = "fetch"
	fetchUpdateHeadOKFlagConstant       = "--update-head-ok"
	pushSubcommandConstant              = "push"
	rebaseSubcommandConstant            = "rebase"
	cloneSubcommandConstant             = "clone"
	mergeBaseSubcommandConstant         = "merge-base"
	mergeBaseOctopusFlagConstant        = "--octopus"
	readTreeSubcommandConstant          = "read-tree"
	readTreeMergeFlagConstant           = "-m"
	readTreeIndexOnlyFlagConstant       = "-i"
	lsFilesSubcommandConstant           = "ls-files"
	lsFilesUnmergedFlagConstant         = "--unmerged"
	writeTreeSubcommandConstant         = "write-tree"
	commitTreeSubcommandConstant        = "commit-tree"
	commitTreeParentFlagConstant        = "-p"
	commitTreeMessageFlagConstant       = "-m"
	updateRefSubcommandConstant         = "update-ref"
	resetSubcommandConstant             = "reset"
	resetMixedFlagConstant              = "--mixed"
	refSpecTemplateSeparatorConstant    = ":"
	unmergedEntryFieldSeparatorConstant = "\t"
)

// GitExecutor exposes the subset of shell execution used by repository management.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs git operations against local clones.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager backed by the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

func (manager *RepositoryManager) run(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	commandDetails := execshell.CommandDetails{Arguments: arguments, WorkingDirectory: repositoryPath}
	return manager.executor.ExecuteGit(executionContext, commandDetails)
}

func (manager *RepositoryManager) runTrimmed(executionContext context.Context, repositoryPath string, arguments ...string) (string, error) {
	executionResult, executionError := manager.run(executionContext, repositoryPath, arguments...)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// commandReportedAbsence distinguishes a non-zero git exit from an execution failure.
func commandReportedAbsence(executionError error) bool {
	var commandFailure execshell.CommandFailedError
	return errors.As(executionError, &commandFailure)
}

// GetConfigValue reads a local configuration entry; found is false when the entry is absent.
func (manager *RepositoryManager) GetConfigValue(executionContext context.Context, repositoryPath string, key ConfigKey) (string, bool, error) {
	configValue, executionError := manager.runTrimmed(executionContext, repositoryPath, configSubcommandConstant, configLocalFlagConstant, configGetFlagConstant, key.String())
	if executionError != nil {
		if commandReportedAbsence(executionError) {
			return "", false, nil
		}
		return "", false, executionError
	}
	return configValue, true, nil
}

// SetConfigValue writes a local configuration entry.
func (manager *RepositoryManager) SetConfigValue(executionContext context.Context, repositoryPath string, key ConfigKey, value string) error {
	_, executionError := manager.run(executionContext, repositoryPath, configSubcommandConstant, configLocalFlagConstant, key.String(), value)
	return executionError
}

// UnsetConfigValue removes a local configuration entry.
func (manager *RepositoryManager) UnsetConfigValue(executionContext context.Context, repositoryPath string, key ConfigKey) error {
	_, executionError := manager.run(executionContext, repositoryPath, configSubcommandConstant, configLocalFlagConstant, configUnsetFlagConstant, key.String())
	return executionError
}

// GetRemoteURL reads a remote URL; found is false when the remote is absent.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, bool, error) {
	remoteURL, executionError := manager.runTrimmed(executionContext, repositoryPath, remoteSubcommandConstant, remoteGetURLSubcommandConstant, remoteName)
	if executionError != nil {
		if commandReportedAbsence(executionError) {
			return "", false, nil
		}
		return "", false, executionError
	}
	return remoteURL, true, nil
}

// AddRemote registers a new remote.
func (manager *RepositoryManager) AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	_, executionError := manager.run(executionContext, repositoryPath, remoteSubcommandConstant, remoteAddSubcommandConstant, remoteName, remoteURL)
	return executionError
}

// SetRemoteURL updates the URL of an existing remote.
func (manager *RepositoryManager) SetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	_, executionError := manager.run(executionContext, repositoryPath, remoteSubcommandConstant, remoteSetURLSubcommandConstant, remoteName, remoteURL)
	return executionError
}

// RemoveRemote deletes an existing remote.
func (manager *RepositoryManager) RemoveRemote(executionContext context.Context, repositoryPath string, remoteName string) error {
	_, executionError := manager.run(executionContext, repositoryPath, remoteSubcommandConstant, remoteRemoveSubcommandConstant, remoteName)
	return executionError
}

// UpdateRemotes fetches all remotes, optionally pruning deleted refs.
func (manager *RepositoryManager) UpdateRemotes(executionContext context.Context, repositoryPath string, prune bool) error {
	arguments := []string{remoteSubcommandConstant, remoteUpdateSubcommandConstant}
	if prune {
		arguments = append(arguments, remotePruneFlagConstant)
	}
	_, executionError := manager.run(executionContext, repositoryPath, arguments...)
	return executionError
}

// ListBranchNames returns the short names of all local branches.
func (manager *RepositoryManager) ListBranchNames(executionContext context.Context, repositoryPath string) ([]string, error) {
	branchOutput, executionError := manager.runTrimmed(executionContext, repositoryPath, branchSubcommandConstant, branchListFlagConstant, branchFormatFlagConstant)
	if executionError != nil {
		return nil, executionError
	}
	return splitOutputLines(branchOutput), nil
}

// ListMergedBranchNames returns local branches whose tips are reachable from the supplied branch.
func (manager *RepositoryManager) ListMergedBranchNames(executionContext context.Context, repositoryPath string, targetBranchName string) ([]string, error) {
	branchOutput, executionError := manager.runTrimmed(executionContext, repositoryPath, branchSubcommandConstant, branchListFlagConstant, branchFormatFlagConstant, branchMergedFlagConstant, targetBranchName)
	if executionError != nil {
		return nil, executionError
	}
	return splitOutputLines(branchOutput), nil
}

// DeleteBranch force-deletes a local branch.
func (manager *RepositoryManager) DeleteBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := manager.run(executionContext, repositoryPath, branchSubcommandConstant, branchDeleteForceFlagConstant, branchForceFlagConstant, branchName)
	return executionError
}

// CreateBranch creates a local branch pointing at the supplied start point.
func (manager *RepositoryManager) CreateBranch(executionContext context.Context, repositoryPath string, branchName string, startPoint string) error {
	_, executionError := manager.run(executionContext, repositoryPath, branchSubcommandConstant, branchName, startPoint)
	return executionError
}

// BranchExists reports whether a local branch reference exists.
func (manager *RepositoryManager) BranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error) {
	_, executionError := manager.run(executionContext, repositoryPath, showRefSubcommandConstant, verifyFlagConstant, quietFlagConstant, localBranchReferencePrefixConstant+branchName)
	if executionError != nil {
		if commandReportedAbsence(executionError) {
			return false, nil
		}
		return false, executionError
	}
	return true, nil
}

// CurrentBranchName returns the short name of the checked-out branch. A
// detached HEAD surfaces as ErrDetachedHead; rev-parse reports it as the
// literal "HEAD", which must never be treated as a branch name.
func (manager *RepositoryManager) CurrentBranchName(executionContext context.Context, repositoryPath string) (string, error) {
	branchName, executionError := manager.runTrimmed(executionContext, repositoryPath, revParseSubcommandConstant, revParseAbbreviatedHeadFlagConstant, headReferenceConstant)
	if executionError != nil {
		return "", executionError
	}
	if branchName == headReferenceConstant {
		return "", ErrDetachedHead
	}
	return branchName, nil
}

// ResolveBranchTip resolves a branch name to its commit through the fully
// qualified ref, so a same-named tag cannot shadow the branch.
func (manager *RepositoryManager) ResolveBranchTip(executionContext context.Context, repositoryPath string, branchName string) (string, error) {
	return manager.runTrimmed(executionContext, repositoryPath, revParseSubcommandConstant, localBranchReferencePrefixConstant+branchName)
}

// SwitchToBranch checks out an existing local branch without remote guessing.
func (manager *RepositoryManager) SwitchToBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := manager.run(executionContext, repositoryPath, switchSubcommandConstant, switchNoGuessFlagConstant, branchName)
	return executionError
}

// FetchBranch fetches a branch from a remote into the same-named local branch.
func (manager *RepositoryManager) FetchBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	refSpec := branchName + refSpecTemplateSeparatorConstant + branchName
	_, executionError := manager.run(executionContext, repositoryPath, fetchSubcommandConstant, remoteName, refSpec, fetchUpdateHeadOKFlagConstant)
	return executionError
}

// PushBranch pushes a local branch to the same-named branch on a remote.
func (manager *RepositoryManager) PushBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	refSpec := branchName + refSpecTemplateSeparatorConstant + branchName
	_, executionError := manager.run(executionContext, repositoryPath, pushSubcommandConstant, remoteName, refSpec)
	return executionError
}

// Rebase rebases the current branch onto the supplied upstream revision.
func (manager *RepositoryManager) Rebase(executionContext context.Context, repositoryPath string, upstreamRevision string) error {
	_, executionError := manager.run(executionContext, repositoryPath, rebaseSubcommandConstant, upstreamRevision)
	return executionError
}

// CloneRepository clones the supplied URL into the target path.
func (manager *RepositoryManager) CloneRepository(executionContext context.Context, cloneURL string, targetPath string) error {
	commandDetails := execshell.CommandDetails{Arguments: []string{cloneSubcommandConstant, cloneURL, targetPath}}
	_, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	return executionError
}

// MergeBaseOctopus computes the common ancestor of the supplied revisions.
func (manager *RepositoryManager) MergeBaseOctopus(executionContext context.Context, repositoryPath string, revisions []string) (string, error) {
	arguments := append([]string{mergeBaseSubcommandConstant, mergeBaseOctopusFlagConstant}, revisions...)
	return manager.runTrimmed(executionContext, repositoryPath, arguments...)
}

// ReadTreeMerge performs an index-only three-way tree merge.
func (manager *RepositoryManager) ReadTreeMerge(executionContext context.Context, repositoryPath string, baseTree string, currentTree string, incomingTree string) error {
	_, executionError := manager.run(executionContext, repositoryPath, readTreeSubcommandConstant, readTreeMergeFlagConstant, readTreeIndexOnlyFlagConstant, baseTree, currentTree, incomingTree)
	return executionError
}

// UnmergedPaths returns the paths left unmerged in the index after a tree merge.
func (manager *RepositoryManager) UnmergedPaths(executionContext context.Context, repositoryPath string) ([]string, error) {
	unmergedOutput, executionError := manager.runTrimmed(executionContext, repositoryPath, lsFilesSubcommandConstant, lsFilesUnmergedFlagConstant)
	if executionError != nil {
		return nil, executionError
	}

	seenPaths := map[string]struct{}{}
	conflictingPaths := []string{}
	for _, unmergedLine := range splitOutputLines(unmergedOutput) {
		fieldSeparatorIndex := strings.LastIndex(unmergedLine, unmergedEntryFieldSeparatorConstant)
		if fieldSeparatorIndex < 0 {
			continue
		}
		conflictingPath := unmergedLine[fieldSeparatorIndex+1:]
		if _, alreadySeen := seenPaths[conflictingPath]; alreadySeen {
			continue
		}
		seenPaths[conflictingPath] = struct{}{}
		conflictingPaths = append(conflictingPaths, conflictingPath)
	}
	return conflictingPaths, nil
}

// WriteTree writes the current index as a tree object.
func (manager *RepositoryManager) WriteTree(executionContext context.Context, repositoryPath string) (string, error) {
	return manager.runTrimmed(executionContext, repositoryPath, writeTreeSubcommandConstant)
}

// CommitTree creates a commit object from a tree with the supplied parents.
func (manager *RepositoryManager) CommitTree(executionContext context.Context, repositoryPath string, treeIdentifier string, parentCommits []string, message string) (string, error) {
	arguments := []string{commitTreeSubcommandConstant, treeIdentifier}
	for _, parentCommit := range parentCommits {
		arguments = append(arguments, commitTreeParentFlagConstant, parentCommit)
	}
	arguments = append(arguments, commitTreeMessageFlagConstant, message)
	return manager.runTrimmed(executionContext, repositoryPath, arguments...)
}

// UpdateBranchReference points a local branch reference at the supplied commit.
func (manager *RepositoryManager) UpdateBranchReference(executionContext context.Context, repositoryPath string, branchName string, commitIdentifier string) error {
	_, executionError := manager.run(executionContext, repositoryPath, updateRefSubcommandConstant, localBranchReferencePrefixConstant+branchName, commitIdentifier)
	return executionError
}

// ResetIndexToRevision resets the index to the supplied revision without touching the worktree branch tip.
func (manager *RepositoryManager) ResetIndexToRevision(executionContext context.Context, repositoryPath string, revision string) error {
	_, executionError := manager.run(executionContext, repositoryPath, resetSubcommandConstant, resetMixedFlagConstant, revision)
	return executionError
}

func splitOutputLines(commandOutput string) []string {
	if len(commandOutput) == 0 {
		return []string{}
	}

	outputLines := []string{}
	for _, outputLine := range strings.Split(commandOutput, "\n") {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) > 0 {
			outputLines = append(outputLines, trimmedLine)
		}
	}
	return outputLines
}
