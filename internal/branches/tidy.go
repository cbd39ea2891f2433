package branches

import (
	"context"
	"strings"
)

const (
	// ReleaseBranchPrefixConstant protects release branches from tidy deletion.
	ReleaseBranchPrefixConstant = "release/"
)

// TidyDependencies enumerates collaborators required for merged-branch removal.
type TidyDependencies struct {
	Repository Repository
}

// TidyOptions configures a merged-branch removal pass.
type TidyOptions struct {
	TargetBranchOverride string
	DryRun               bool
}

// TidyResult captures the observable outcomes of a tidy pass.
type TidyResult struct {
	TargetBranch     string
	RemovedBranches  []string
	RetainedBranches []string
	DryRun           bool
}

// TidyService removes local branches already merged into the target branch.
type TidyService struct {
	repository Repository
}

// NewTidyService constructs a TidyService from the provided dependencies.
func NewTidyService(dependencies TidyDependencies) (*TidyService, error) {
	if dependencies.Repository == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return &TidyService{repository: dependencies.Repository}, nil
}

// Tidy deletes merged branches in lexical order, never touching the active
// branch or branches under the release/ prefix.
func (service *TidyService) Tidy(executionContext context.Context, options TidyOptions) (TidyResult, error) {
	targetBranch, discoveryError := service.repository.DiscoverMainlineBranch(executionContext, options.TargetBranchOverride)
	if discoveryError != nil {
		return TidyResult{}, discoveryError
	}

	mergedBranchNames, computeError := service.repository.MergedBranchNames(executionContext, targetBranch)
	if computeError != nil {
		return TidyResult{}, computeError
	}

	activeBranchName, currentError := service.repository.CurrentBranchName(executionContext)
	if currentError != nil {
		return TidyResult{}, currentError
	}

	tidyResult := TidyResult{
		TargetBranch:     targetBranch,
		RemovedBranches:  []string{},
		RetainedBranches: []string{},
		DryRun:           options.DryRun,
	}

	for _, branchName := range mergedBranchNames {
		if branchName == activeBranchName || strings.HasPrefix(branchName, ReleaseBranchPrefixConstant) {
			tidyResult.RetainedBranches = append(tidyResult.RetainedBranches, branchName)
			continue
		}

		if !options.DryRun {
			if deleteError := service.repository.DeleteBranch(executionContext, branchName); deleteError != nil {
				return tidyResult, deleteError
			}
		}
		tidyResult.RemovedBranches = append(tidyResult.RemovedBranches, branchName)
	}

	return tidyResult, nil
}
