package repo

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forgeworks/forgesync/internal/branches"
)

const (
	mergeUseConstant                   = "merge"
	mergeShortDescriptionConstant      = "Consolidate feature branches into one merge commit"
	mergeLongDescriptionConstant       = "merge folds every prefix-matched feature branch into a single multi-parent commit on the merge branch, leaving the target branch unmoved."
	prefixFlagNameConstant             = "prefix"
	prefixFlagDescriptionConstant      = "Prefix selecting the feature branches to consolidate"
	mergeBranchFlagNameConstant        = "merge-branch"
	mergeBranchFlagDescriptionConstant = "Name of the branch receiving the consolidation commit"
	mergeCompletedMessageConstant      = "feature branches consolidated"
	mergeBranchLogFieldNameConstant    = "merge_branch"
	featureBranchesLogFieldConstant    = "feature_branches"
	commitLogFieldNameConstant         = "commit"
)

func (builder *CommandGroupBuilder) buildMergeCommand() *cobra.Command {
	mergeCommand := &cobra.Command{
		Use:   mergeUseConstant,
		Short: mergeShortDescriptionConstant,
		Long:  mergeLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runMerge(command)
		},
	}
	mergeCommand.Flags().String(prefixFlagNameConstant, branches.DefaultFeatureBranchPrefixConstant, prefixFlagDescriptionConstant)
	mergeCommand.Flags().String(targetFlagNameConstant, "", targetFlagDescriptionConstant)
	mergeCommand.Flags().String(mergeBranchFlagNameConstant, branches.DefaultMergeBranchNameConstant, mergeBranchFlagDescriptionConstant)
	return mergeCommand
}

func (builder *CommandGroupBuilder) runMerge(command *cobra.Command) error {
	commandRuntime, runtimeError := builder.newRuntime(command)
	if runtimeError != nil {
		return runtimeError
	}

	consolidationService, serviceError := branches.NewConsolidationService(branches.ConsolidationDependencies{
		Repository: commandRuntime.repository,
		Plumbing:   commandRuntime.manager,
	})
	if serviceError != nil {
		return serviceError
	}

	featureBranchPrefix, _ := command.Flags().GetString(prefixFlagNameConstant)
	targetBranchOverride, _ := command.Flags().GetString(targetFlagNameConstant)
	mergeBranchName, _ := command.Flags().GetString(mergeBranchFlagNameConstant)

	consolidationResult, consolidationError := consolidationService.Consolidate(command.Context(), branches.ConsolidationOptions{
		FeatureBranchPrefix:  featureBranchPrefix,
		TargetBranchOverride: targetBranchOverride,
		MergeBranchName:      mergeBranchName,
	})
	if consolidationError != nil {
		return consolidationError
	}

	commandRuntime.logger.Info(mergeCompletedMessageConstant,
		zap.String(targetBranchLogFieldNameConstant, consolidationResult.TargetBranch),
		zap.String(mergeBranchLogFieldNameConstant, consolidationResult.MergeBranch),
		zap.Strings(featureBranchesLogFieldConstant, consolidationResult.FeatureBranches),
		zap.String(commitLogFieldNameConstant, consolidationResult.CommitIdentifier),
	)
	return nil
}
