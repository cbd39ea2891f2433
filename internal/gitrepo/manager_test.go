package gitrepo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgeworks/forgesync/internal/gitrepo"
)

func TestCurrentBranchNameRejectsDetachedHead(testInstance *testing.T) {
	executor := newFakeGitExecutor()
	executor.currentBranch = "HEAD"

	manager, managerError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, managerError)

	_, currentError := manager.CurrentBranchName(context.Background(), testRepositoryPathConstant)
	require.ErrorIs(testInstance, currentError, gitrepo.ErrDetachedHead)
}

func TestCurrentBranchNameReturnsCheckedOutBranch(testInstance *testing.T) {
	executor := newFakeGitExecutor()
	executor.currentBranch = "feature/login"

	manager, managerError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, managerError)

	branchName, currentError := manager.CurrentBranchName(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, currentError)
	require.Equal(testInstance, "feature/login", branchName)
}

func TestResolveBranchTipUsesQualifiedReference(testInstance *testing.T) {
	executor := newFakeGitExecutor()
	executor.currentBranch = "4f2d9c1"

	manager, managerError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, managerError)

	commitIdentifier, resolveError := manager.ResolveBranchTip(context.Background(), testRepositoryPathConstant, "feature/login")
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, "4f2d9c1", commitIdentifier)

	lastArguments := executor.executedArguments[len(executor.executedArguments)-1]
	require.Equal(testInstance, []string{"rev-parse", "refs/heads/feature/login"}, lastArguments)
}
