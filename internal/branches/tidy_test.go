package branches_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgeworks/forgesync/internal/branches"
)

const (
	testActiveExclusionCaseNameConstant    = "active_and_release_excluded"
	testDryRunCaseNameConstant             = "dry_run_reports_without_deleting"
	testNothingMergedCaseNameConstant      = "nothing_merged"
	testLexicalDeletionCaseNameConstant    = "deletions_in_lexical_order"
	testOverrideTargetTidyCaseNameConstant = "override_target_used"
)

func TestTidyService(testInstance *testing.T) {
	testCases := []struct {
		name             string
		mergedBranches   []string
		activeBranch     string
		options          branches.TidyOptions
		expectedRemoved  []string
		expectedRetained []string
		expectedDeleted  []string
		expectedTarget   string
	}{
		{
			name:             testActiveExclusionCaseNameConstant,
			mergedBranches:   []string{"feature/a", "main-copy", "release/1.0"},
			activeBranch:     "feature/a",
			options:          branches.TidyOptions{},
			expectedRemoved:  []string{"main-copy"},
			expectedRetained: []string{"feature/a", "release/1.0"},
			expectedDeleted:  []string{"main-copy"},
			expectedTarget:   "main",
		},
		{
			name:             testDryRunCaseNameConstant,
			mergedBranches:   []string{"alpha-change", "beta-change"},
			activeBranch:     "main",
			options:          branches.TidyOptions{DryRun: true},
			expectedRemoved:  []string{"alpha-change", "beta-change"},
			expectedRetained: []string{},
			expectedDeleted:  nil,
			expectedTarget:   "main",
		},
		{
			name:             testNothingMergedCaseNameConstant,
			mergedBranches:   []string{},
			activeBranch:     "main",
			options:          branches.TidyOptions{},
			expectedRemoved:  []string{},
			expectedRetained: []string{},
			expectedDeleted:  nil,
			expectedTarget:   "main",
		},
		{
			name:             testLexicalDeletionCaseNameConstant,
			mergedBranches:   []string{"alpha-change", "beta-change", "gamma-change"},
			activeBranch:     "main",
			options:          branches.TidyOptions{},
			expectedRemoved:  []string{"alpha-change", "beta-change", "gamma-change"},
			expectedRetained: []string{},
			expectedDeleted:  []string{"alpha-change", "beta-change", "gamma-change"},
			expectedTarget:   "main",
		},
		{
			name:             testOverrideTargetTidyCaseNameConstant,
			mergedBranches:   []string{"old-change"},
			activeBranch:     "trunk",
			options:          branches.TidyOptions{TargetBranchOverride: "trunk"},
			expectedRemoved:  []string{"old-change"},
			expectedRetained: []string{},
			expectedDeleted:  []string{"old-change"},
			expectedTarget:   "trunk",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repository := &fakeRepository{
				currentBranch:  testCase.activeBranch,
				localBranches:  []string{"main", "trunk"},
				mergedBranches: testCase.mergedBranches,
				mainlineBranch: "main",
			}

			tidyService, serviceError := branches.NewTidyService(branches.TidyDependencies{Repository: repository})
			require.NoError(testInstance, serviceError)

			tidyResult, tidyError := tidyService.Tidy(context.Background(), testCase.options)
			require.NoError(testInstance, tidyError)
			require.Equal(testInstance, testCase.expectedTarget, tidyResult.TargetBranch)
			require.Equal(testInstance, testCase.expectedRemoved, tidyResult.RemovedBranches)
			require.Equal(testInstance, testCase.expectedRetained, tidyResult.RetainedBranches)
			require.Equal(testInstance, testCase.expectedDeleted, repository.deletedBranches)
		})
	}
}

func TestNewTidyServiceRequiresRepository(testInstance *testing.T) {
	_, serviceError := branches.NewTidyService(branches.TidyDependencies{})
	require.ErrorIs(testInstance, serviceError, branches.ErrRepositoryNotConfigured)
}
