package branches

import (
	"context"
	"fmt"
	"strings"

	"github.com/forgeworks/forgesync/internal/gitrepo"
)

const (
	// DefaultFeatureBranchPrefixConstant selects branches for consolidation.
	DefaultFeatureBranchPrefixConstant = "feature/"
	// DefaultMergeBranchNameConstant names the consolidation branch.
	DefaultMergeBranchNameConstant = "merged"
)

const (
	noFeatureBranchesTemplateConstant       = "no local branches match prefix %q"
	singleBranchMessageTemplateConstant     = "WIP: Merge branch %s into %s"
	multipleBranchesMessageTemplateConstant = "WIP: Merge branches %s into %s"
	quotedNameTemplateConstant              = "'%s'"
	branchNameListSeparatorConstant         = ", "
	branchNameListFinalSeparatorConstant    = " and "
)

// NoFeatureBranchesError reports a consolidation request with no matching branches.
type NoFeatureBranchesError struct {
	Prefix string
}

// Error describes the empty selection.
func (failure NoFeatureBranchesError) Error() string {
	return fmt.Sprintf(noFeatureBranchesTemplateConstant, failure.Prefix)
}

// ConsolidationDependencies enumerates collaborators required for consolidation.
type ConsolidationDependencies struct {
	Repository Repository
	Plumbing   GitPlumbing
}

// ConsolidationOptions configures a feature-branch consolidation.
type ConsolidationOptions struct {
	FeatureBranchPrefix  string
	TargetBranchOverride string
	MergeBranchName      string
}

// ConsolidationResult captures the observable outcomes of a consolidation.
type ConsolidationResult struct {
	TargetBranch     string
	MergeBranch      string
	FeatureBranches  []string
	CommitIdentifier string
	CommitMessage    string
}

// ConsolidationService folds every feature branch into a single multi-parent
// merge commit on the merge branch, leaving the target branch unmoved.
type ConsolidationService struct {
	repository Repository
	plumbing   GitPlumbing
}

// NewConsolidationService constructs a ConsolidationService from the provided dependencies.
func NewConsolidationService(dependencies ConsolidationDependencies) (*ConsolidationService, error) {
	if dependencies.Repository == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if dependencies.Plumbing == nil {
		return nil, ErrGitPlumbingNotConfigured
	}
	return &ConsolidationService{repository: dependencies.Repository, plumbing: dependencies.Plumbing}, nil
}

// Consolidate merges all prefixed feature branches into the merge branch as
// one octopus commit whose parents are exactly the feature branch tips.
// Content conflicts abort the invocation without committing.
func (service *ConsolidationService) Consolidate(executionContext context.Context, options ConsolidationOptions) (ConsolidationResult, error) {
	featureBranchPrefix := options.FeatureBranchPrefix
	if len(featureBranchPrefix) == 0 {
		featureBranchPrefix = DefaultFeatureBranchPrefixConstant
	}
	mergeBranchName := options.MergeBranchName
	if len(mergeBranchName) == 0 {
		mergeBranchName = DefaultMergeBranchNameConstant
	}

	featureBranchNames, listError := service.repository.BranchNamesWithPrefix(executionContext, featureBranchPrefix)
	if listError != nil {
		return ConsolidationResult{}, listError
	}
	if len(featureBranchNames) == 0 {
		return ConsolidationResult{}, NoFeatureBranchesError{Prefix: featureBranchPrefix}
	}

	targetBranch, discoveryError := service.repository.DiscoverMainlineBranch(executionContext, options.TargetBranchOverride)
	if discoveryError != nil {
		return ConsolidationResult{}, discoveryError
	}

	repositoryPath := service.repository.Path()

	mergeBase, baseError := service.computeMergeBase(executionContext, repositoryPath, featureBranchNames)
	if baseError != nil {
		return ConsolidationResult{}, baseError
	}

	mergeBranchPresent, existsError := service.plumbing.BranchExists(executionContext, repositoryPath, mergeBranchName)
	if existsError != nil {
		return ConsolidationResult{}, existsError
	}
	if !mergeBranchPresent {
		if createError := service.plumbing.CreateBranch(executionContext, repositoryPath, mergeBranchName, targetBranch); createError != nil {
			return ConsolidationResult{}, createError
		}
	}

	if switchError := service.plumbing.SwitchToBranch(executionContext, repositoryPath, mergeBranchName); switchError != nil {
		return ConsolidationResult{}, switchError
	}
	if resetError := service.plumbing.ResetIndexToRevision(executionContext, repositoryPath, targetBranch); resetError != nil {
		return ConsolidationResult{}, resetError
	}

	currentTree := targetBranch
	for _, featureBranchName := range featureBranchNames {
		if mergeError := service.plumbing.ReadTreeMerge(executionContext, repositoryPath, mergeBase, currentTree, featureBranchName); mergeError != nil {
			return ConsolidationResult{}, mergeError
		}

		conflictingPaths, conflictError := service.plumbing.UnmergedPaths(executionContext, repositoryPath)
		if conflictError != nil {
			return ConsolidationResult{}, conflictError
		}
		if len(conflictingPaths) > 0 {
			return ConsolidationResult{}, gitrepo.TreeMergeConflictError{ConflictingPaths: conflictingPaths}
		}

		mergedTree, writeError := service.plumbing.WriteTree(executionContext, repositoryPath)
		if writeError != nil {
			return ConsolidationResult{}, writeError
		}
		currentTree = mergedTree
	}

	parentCommits := make([]string, 0, len(featureBranchNames))
	for _, featureBranchName := range featureBranchNames {
		featureTip, resolveError := service.plumbing.ResolveBranchTip(executionContext, repositoryPath, featureBranchName)
		if resolveError != nil {
			return ConsolidationResult{}, resolveError
		}
		parentCommits = append(parentCommits, featureTip)
	}

	commitMessage := BuildConsolidationMessage(featureBranchNames, targetBranch)
	commitIdentifier, commitError := service.plumbing.CommitTree(executionContext, repositoryPath, currentTree, parentCommits, commitMessage)
	if commitError != nil {
		return ConsolidationResult{}, commitError
	}

	if updateError := service.plumbing.UpdateBranchReference(executionContext, repositoryPath, mergeBranchName, commitIdentifier); updateError != nil {
		return ConsolidationResult{}, updateError
	}
	if resetError := service.plumbing.ResetIndexToRevision(executionContext, repositoryPath, commitIdentifier); resetError != nil {
		return ConsolidationResult{}, resetError
	}

	return ConsolidationResult{
		TargetBranch:     targetBranch,
		MergeBranch:      mergeBranchName,
		FeatureBranches:  featureBranchNames,
		CommitIdentifier: commitIdentifier,
		CommitMessage:    commitMessage,
	}, nil
}

// computeMergeBase resolves the common ancestor of every feature branch; a
// single branch is its own base.
func (service *ConsolidationService) computeMergeBase(executionContext context.Context, repositoryPath string, featureBranchNames []string) (string, error) {
	if len(featureBranchNames) == 1 {
		return service.plumbing.ResolveBranchTip(executionContext, repositoryPath, featureBranchNames[0])
	}
	return service.plumbing.MergeBaseOctopus(executionContext, repositoryPath, featureBranchNames)
}

// BuildConsolidationMessage synthesizes the merge commit message naming every
// consolidated branch and the target.
func BuildConsolidationMessage(featureBranchNames []string, targetBranch string) string {
	quotedNames := make([]string, 0, len(featureBranchNames))
	for _, featureBranchName := range featureBranchNames {
		quotedNames = append(quotedNames, fmt.Sprintf(quotedNameTemplateConstant, featureBranchName))
	}
	quotedTarget := fmt.Sprintf(quotedNameTemplateConstant, targetBranch)

	if len(quotedNames) == 1 {
		return fmt.Sprintf(singleBranchMessageTemplateConstant, quotedNames[0], quotedTarget)
	}

	joinedNames := strings.Join(quotedNames[:len(quotedNames)-1], branchNameListSeparatorConstant) +
		branchNameListFinalSeparatorConstant + quotedNames[len(quotedNames)-1]
	return fmt.Sprintf(multipleBranchesMessageTemplateConstant, joinedNames, quotedTarget)
}
