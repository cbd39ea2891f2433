package branches_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgeworks/forgesync/internal/branches"
	"github.com/forgeworks/forgesync/internal/gitrepo"
)

const (
	testSingleFeatureMessageCaseNameConstant  = "single_branch"
	testTwoFeatureMessageCaseNameConstant     = "two_branches"
	testThreeFeatureMessageCaseNameConstant   = "three_branches"
	expectedTwoBranchCommitMessageConstant    = "WIP: Merge branches 'feature/a' and 'feature/b' into 'main'"
	expectedThreeBranchCommitMessageConstant  = "WIP: Merge branches 'feature/a', 'feature/b' and 'feature/c' into 'main'"
	expectedSingleBranchCommitMessageConstant = "WIP: Merge branch 'feature/a' into 'main'"
)

func TestConsolidateProducesSingleOctopusCommit(testInstance *testing.T) {
	repository := &fakeRepository{
		currentBranch:  "main",
		localBranches:  []string{"feature/a", "feature/b", "main"},
		mainlineBranch: "main",
	}
	plumbing := &fakePlumbing{
		mergeBase:        "base-commit",
		existingBranches: map[string]struct{}{},
		writtenTrees:     []string{"tree-1", "tree-2"},
	}

	consolidationService, serviceError := branches.NewConsolidationService(branches.ConsolidationDependencies{
		Repository: repository,
		Plumbing:   plumbing,
	})
	require.NoError(testInstance, serviceError)

	consolidationResult, consolidationError := consolidationService.Consolidate(context.Background(), branches.ConsolidationOptions{})
	require.NoError(testInstance, consolidationError)

	require.Equal(testInstance, "main", consolidationResult.TargetBranch)
	require.Equal(testInstance, branches.DefaultMergeBranchNameConstant, consolidationResult.MergeBranch)
	require.Equal(testInstance, []string{"feature/a", "feature/b"}, consolidationResult.FeatureBranches)
	require.Equal(testInstance, "commit-1", consolidationResult.CommitIdentifier)

	require.Equal(testInstance, []string{"merged@main"}, plumbing.createdBranches)
	require.Equal(testInstance, []string{"merged"}, plumbing.switchedBranches)

	require.Equal(testInstance, [][]string{
		{"base-commit", "main", "feature/a"},
		{"base-commit", "tree-1", "feature/b"},
	}, plumbing.treeMerges)

	require.Equal(testInstance, 1, plumbing.commitCalls)
	require.Equal(testInstance, "tree-2", plumbing.committedTree)
	require.Equal(testInstance, []string{"tip-feature/a", "tip-feature/b"}, plumbing.committedParents)
	require.Equal(testInstance, expectedTwoBranchCommitMessageConstant, plumbing.committedMessage)

	require.Equal(testInstance, []string{"merged@commit-1"}, plumbing.updatedReferences)
}

func TestConsolidateReusesExistingMergeBranch(testInstance *testing.T) {
	repository := &fakeRepository{
		currentBranch:  "main",
		localBranches:  []string{"feature/a", "main"},
		mainlineBranch: "main",
	}
	plumbing := &fakePlumbing{
		existingBranches: map[string]struct{}{"merged": {}},
		writtenTrees:     []string{"tree-1"},
	}

	consolidationService, serviceError := branches.NewConsolidationService(branches.ConsolidationDependencies{
		Repository: repository,
		Plumbing:   plumbing,
	})
	require.NoError(testInstance, serviceError)

	consolidationResult, consolidationError := consolidationService.Consolidate(context.Background(), branches.ConsolidationOptions{})
	require.NoError(testInstance, consolidationError)

	require.Empty(testInstance, plumbing.createdBranches)
	require.Equal(testInstance, []string{"tip-feature/a"}, plumbing.committedParents)
	require.Equal(testInstance, expectedSingleBranchCommitMessageConstant, consolidationResult.CommitMessage)
}

func TestConsolidateFailsWithoutFeatureBranches(testInstance *testing.T) {
	repository := &fakeRepository{
		currentBranch:  "main",
		localBranches:  []string{"main"},
		mainlineBranch: "main",
	}
	plumbing := &fakePlumbing{}

	consolidationService, serviceError := branches.NewConsolidationService(branches.ConsolidationDependencies{
		Repository: repository,
		Plumbing:   plumbing,
	})
	require.NoError(testInstance, serviceError)

	_, consolidationError := consolidationService.Consolidate(context.Background(), branches.ConsolidationOptions{})
	require.ErrorAs(testInstance, consolidationError, &branches.NoFeatureBranchesError{})
}

func TestConsolidateSurfacesTreeMergeConflicts(testInstance *testing.T) {
	repository := &fakeRepository{
		currentBranch:  "main",
		localBranches:  []string{"feature/a", "feature/b", "main"},
		mainlineBranch: "main",
	}
	plumbing := &fakePlumbing{
		mergeBase:        "base-commit",
		existingBranches: map[string]struct{}{},
		conflictPaths:    []string{"pkg/conflicting.go"},
		writtenTrees:     []string{"tree-1", "tree-2"},
	}

	consolidationService, serviceError := branches.NewConsolidationService(branches.ConsolidationDependencies{
		Repository: repository,
		Plumbing:   plumbing,
	})
	require.NoError(testInstance, serviceError)

	_, consolidationError := consolidationService.Consolidate(context.Background(), branches.ConsolidationOptions{})
	require.ErrorAs(testInstance, consolidationError, &gitrepo.TreeMergeConflictError{})
	require.Zero(testInstance, plumbing.commitCalls)
	require.Empty(testInstance, plumbing.updatedReferences)
}

func TestBuildConsolidationMessage(testInstance *testing.T) {
	testCases := []struct {
		name            string
		featureBranches []string
		expectedMessage string
	}{
		{
			name:            testSingleFeatureMessageCaseNameConstant,
			featureBranches: []string{"feature/a"},
			expectedMessage: expectedSingleBranchCommitMessageConstant,
		},
		{
			name:            testTwoFeatureMessageCaseNameConstant,
			featureBranches: []string{"feature/a", "feature/b"},
			expectedMessage: expectedTwoBranchCommitMessageConstant,
		},
		{
			name:            testThreeFeatureMessageCaseNameConstant,
			featureBranches: []string{"feature/a", "feature/b", "feature/c"},
			expectedMessage: expectedThreeBranchCommitMessageConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			builtMessage := branches.BuildConsolidationMessage(testCase.featureBranches, "main")
			require.Equal(testInstance, testCase.expectedMessage, builtMessage)
		})
	}
}
