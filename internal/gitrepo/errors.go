package gitrepo

import (
	"errors"
	"fmt"
	"strings"
)

const (
	branchNotFoundTemplateConstant      = "no branch found named %q"
	remoteNotFoundTemplateConstant      = "no remote found named %q"
	candidatesExhaustedTemplateConstant = "no %s found for candidates %s"
	pathEscapeTemplateConstant          = "repository path %q escapes workspace root %q"
	cloneTargetExistsTemplateConstant   = "clone target %q already exists"
	treeMergeConflictTemplateConstant   = "tree merge produced conflicts in: %s"
	candidateListJoinSeparatorConstant  = ", "
	gitExecutorMissingMessageConstant   = "git executor not configured"
	detachedHeadMessageConstant         = "HEAD is detached, no branch checked out"
	candidateKindBranchLabelConstant    = "branches"
	candidateKindRemoteLabelConstant    = "remotes"
)

// ErrGitExecutorNotConfigured indicates a RepositoryManager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrDetachedHead indicates the repository has no checked-out branch.
var ErrDetachedHead = errors.New(detachedHeadMessageConstant)

// BranchNotFoundError reports a branch name that does not exist locally.
type BranchNotFoundError struct {
	BranchName string
}

// Error describes the missing branch.
func (failure BranchNotFoundError) Error() string {
	return fmt.Sprintf(branchNotFoundTemplateConstant, failure.BranchName)
}

// RemoteNotFoundError reports a remote name that is not configured.
type RemoteNotFoundError struct {
	RemoteName string
}

// Error describes the missing remote.
func (failure RemoteNotFoundError) Error() string {
	return fmt.Sprintf(remoteNotFoundTemplateConstant, failure.RemoteName)
}

// CandidatesExhaustedError reports a discovery fallback chain with no surviving candidate.
type CandidatesExhaustedError struct {
	Kind       string
	Candidates []string
}

// Error describes the exhausted candidate list.
func (failure CandidatesExhaustedError) Error() string {
	return fmt.Sprintf(candidatesExhaustedTemplateConstant, failure.Kind, strings.Join(failure.Candidates, candidateListJoinSeparatorConstant))
}

// PathEscapeError reports a derived clone path outside the workspace root.
type PathEscapeError struct {
	WorkspaceRoot string
	CandidatePath string
}

// Error describes the rejected path.
func (failure PathEscapeError) Error() string {
	return fmt.Sprintf(pathEscapeTemplateConstant, failure.CandidatePath, failure.WorkspaceRoot)
}

// CloneTargetExistsError reports an attempt to clone onto an existing path.
type CloneTargetExistsError struct {
	Path string
}

// Error describes the occupied clone target.
func (failure CloneTargetExistsError) Error() string {
	return fmt.Sprintf(cloneTargetExistsTemplateConstant, failure.Path)
}

// TreeMergeConflictError reports index conflicts produced by a tree-level merge.
type TreeMergeConflictError struct {
	ConflictingPaths []string
}

// Error describes the conflicting paths.
func (failure TreeMergeConflictError) Error() string {
	return fmt.Sprintf(treeMergeConflictTemplateConstant, strings.Join(failure.ConflictingPaths, candidateListJoinSeparatorConstant))
}
