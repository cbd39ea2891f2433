package repo

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forgeworks/forgesync/internal/branches"
)

const (
	fetchUseConstant                     = "fetch"
	fetchShortDescriptionConstant        = "Update all remotes"
	fetchLongDescriptionConstant         = "fetch updates every configured remote, optionally pruning stale remote-tracking branches."
	tidyUseConstant                      = "tidy"
	tidyShortDescriptionConstant         = "Remove local branches merged into the target"
	tidyLongDescriptionConstant          = "tidy fetches with prune and deletes local branches fully merged into the target branch, keeping the active branch and release branches."
	pruneFlagNameConstant                = "prune"
	pruneFlagDescriptionConstant         = "Prune stale remote-tracking branches while fetching"
	dryRunFlagNameConstant               = "dry-run"
	dryRunFlagDescriptionConstant        = "Report branch removals without deleting anything"
	targetFlagNameConstant               = "target"
	targetFlagDescriptionConstant        = "Branch merged work is compared against (defaults to the discovered mainline)"
	fetchCompletedMessageConstant        = "remotes updated"
	tidyCompletedMessageConstant         = "tidy completed"
	targetBranchLogFieldNameConstant     = "target_branch"
	removedBranchesLogFieldNameConstant  = "removed_branches"
	retainedBranchesLogFieldNameConstant = "retained_branches"
	dryRunLogFieldNameConstant           = "dry_run"
)

func (builder *CommandGroupBuilder) buildFetchCommand() *cobra.Command {
	fetchCommand := &cobra.Command{
		Use:   fetchUseConstant,
		Short: fetchShortDescriptionConstant,
		Long:  fetchLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runFetch(command)
		},
	}
	fetchCommand.Flags().Bool(pruneFlagNameConstant, false, pruneFlagDescriptionConstant)
	return fetchCommand
}

func (builder *CommandGroupBuilder) runFetch(command *cobra.Command) error {
	commandRuntime, runtimeError := builder.newRuntime(command)
	if runtimeError != nil {
		return runtimeError
	}

	pruneRequested, _ := command.Flags().GetBool(pruneFlagNameConstant)
	if updateError := commandRuntime.repository.UpdateRemotes(command.Context(), pruneRequested); updateError != nil {
		return updateError
	}

	commandRuntime.logger.Info(fetchCompletedMessageConstant)
	return nil
}

func (builder *CommandGroupBuilder) buildTidyCommand() *cobra.Command {
	tidyCommand := &cobra.Command{
		Use:   tidyUseConstant,
		Short: tidyShortDescriptionConstant,
		Long:  tidyLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runTidy(command)
		},
	}
	tidyCommand.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)
	tidyCommand.Flags().String(targetFlagNameConstant, "", targetFlagDescriptionConstant)
	return tidyCommand
}

func (builder *CommandGroupBuilder) runTidy(command *cobra.Command) error {
	commandRuntime, runtimeError := builder.newRuntime(command)
	if runtimeError != nil {
		return runtimeError
	}

	if updateError := commandRuntime.repository.UpdateRemotes(command.Context(), true); updateError != nil {
		return updateError
	}

	tidyService, serviceError := branches.NewTidyService(branches.TidyDependencies{Repository: commandRuntime.repository})
	if serviceError != nil {
		return serviceError
	}

	dryRunRequested, _ := command.Flags().GetBool(dryRunFlagNameConstant)
	targetBranchOverride, _ := command.Flags().GetString(targetFlagNameConstant)

	tidyResult, tidyError := tidyService.Tidy(command.Context(), branches.TidyOptions{
		TargetBranchOverride: targetBranchOverride,
		DryRun:               dryRunRequested,
	})
	if tidyError != nil {
		return tidyError
	}

	commandRuntime.logger.Info(tidyCompletedMessageConstant,
		zap.String(targetBranchLogFieldNameConstant, tidyResult.TargetBranch),
		zap.Strings(removedBranchesLogFieldNameConstant, tidyResult.RemovedBranches),
		zap.Strings(retainedBranchesLogFieldNameConstant, tidyResult.RetainedBranches),
		zap.Bool(dryRunLogFieldNameConstant, tidyResult.DryRun),
	)
	return nil
}
