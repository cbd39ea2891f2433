package branches

import (
	"context"
	"errors"
)

const (
	repositoryMissingMessageConstant  = "local repository not configured"
	gitPlumbingMissingMessageConstant = "git plumbing not configured"
)

// ErrRepositoryNotConfigured indicates a service was constructed without a repository.
var ErrRepositoryNotConfigured = errors.New(repositoryMissingMessageConstant)

// ErrGitPlumbingNotConfigured indicates a service was constructed without git plumbing.
var ErrGitPlumbingNotConfigured = errors.New(gitPlumbingMissingMessageConstant)

// Repository exposes the local repository operations consumed by branch workflows.
type Repository interface {
	Path() string
	CurrentBranchName(executionContext context.Context) (string, error)
	SwitchToBranch(executionContext context.Context, branchName string) error
	DeleteBranch(executionContext context.Context, branchName string) error
	MergedBranchNames(executionContext context.Context, targetBranchName string) ([]string, error)
	BranchNamesWithPrefix(executionContext context.Context, branchPrefix string) ([]string, error)
	DiscoverMainlineBranch(executionContext context.Context, overrideName string) (string, error)
	DiscoverUpstreamRemote(executionContext context.Context, overrideName string) (string, error)
	DiscoverOptionalDownstreamRemote(executionContext context.Context, overrideName string) (string, bool, error)
	FetchBranchFromRemote(executionContext context.Context, remoteName string, branchName string) error
	PushBranchToRemote(executionContext context.Context, remoteName string, branchName string) error
	RebaseOnto(executionContext context.Context, upstreamRevision string) error
	UpdateRemotes(executionContext context.Context, prune bool) error
}

// GitPlumbing exposes the object-level git operations consumed by consolidation.
type GitPlumbing interface {
	ResolveBranchTip(executionContext context.Context, repositoryPath string, branchName string) (string, error)
	MergeBaseOctopus(executionContext context.Context, repositoryPath string, revisions []string) (string, error)
	BranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error)
	CreateBranch(executionContext context.Context, repositoryPath string, branchName string, startPoint string) error
	SwitchToBranch(executionContext context.Context, repositoryPath string, branchName string) error
	ResetIndexToRevision(executionContext context.Context, repositoryPath string, revision string) error
	ReadTreeMerge(executionContext context.Context, repositoryPath string, baseTree string, currentTree string, incomingTree string) error
	UnmergedPaths(executionContext context.Context, repositoryPath string) ([]string, error)
	WriteTree(executionContext context.Context, repositoryPath string) (string, error)
	CommitTree(executionContext context.Context, repositoryPath string, treeIdentifier string, parentCommits []string, message string) (string, error)
	UpdateBranchReference(executionContext context.Context, repositoryPath string, branchName string, commitIdentifier string) error
}
