package repo

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forgeworks/forgesync/internal/branches"
)

const (
	restartUseConstant                = "restart"
	restartShortDescriptionConstant   = "Rebase the active branch onto the refreshed mainline"
	restartLongDescriptionConstant    = "restart fetches the mainline from upstream, rebases the active branch onto it, and removes branches the mainline already contains."
	endUseConstant                    = "end"
	endShortDescriptionConstant       = "Finish feature work on the mainline"
	endLongDescriptionConstant        = "end refreshes the mainline from upstream, switches to it, removes merged branches, and pushes the mainline downstream when a downstream remote exists."
	upstreamFlagNameConstant          = "upstream"
	upstreamFlagDescriptionConstant   = "Remote the mainline is fetched from (defaults to upstream, then origin)"
	downstreamFlagNameConstant        = "downstream"
	downstreamFlagDescriptionConstant = "Remote the mainline is pushed to (skipped when absent)"
	restartCompletedMessageConstant   = "restart completed"
	endCompletedMessageConstant       = "end completed"
	upstreamLogFieldNameConstant      = "upstream_remote"
	downstreamLogFieldNameConstant    = "downstream_remote"
	mainlineLogFieldNameConstant      = "mainline_branch"
	rebasedBranchLogFieldNameConstant = "rebased_branch"
	downstreamPushedLogFieldConstant  = "downstream_pushed"
)

func (builder *CommandGroupBuilder) buildRestartCommand() *cobra.Command {
	restartCommand := &cobra.Command{
		Use:   restartUseConstant,
		Short: restartShortDescriptionConstant,
		Long:  restartLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runRestart(command)
		},
	}
	restartCommand.Flags().String(upstreamFlagNameConstant, "", upstreamFlagDescriptionConstant)
	return restartCommand
}

func (builder *CommandGroupBuilder) runRestart(command *cobra.Command) error {
	commandRuntime, runtimeError := builder.newRuntime(command)
	if runtimeError != nil {
		return runtimeError
	}

	restartService, serviceError := branches.NewRestartService(branches.RestartDependencies{Repository: commandRuntime.repository})
	if serviceError != nil {
		return serviceError
	}

	upstreamRemoteOverride, _ := command.Flags().GetString(upstreamFlagNameConstant)
	restartResult, restartError := restartService.Restart(command.Context(), branches.RestartOptions{
		UpstreamRemoteOverride: upstreamRemoteOverride,
	})
	if restartError != nil {
		return restartError
	}

	commandRuntime.logger.Info(restartCompletedMessageConstant,
		zap.String(upstreamLogFieldNameConstant, restartResult.UpstreamRemote),
		zap.String(mainlineLogFieldNameConstant, restartResult.MainlineBranch),
		zap.String(rebasedBranchLogFieldNameConstant, restartResult.RebasedBranch),
		zap.Strings(removedBranchesLogFieldNameConstant, restartResult.Tidy.RemovedBranches),
	)
	return nil
}

func (builder *CommandGroupBuilder) buildEndCommand() *cobra.Command {
	endCommand := &cobra.Command{
		Use:   endUseConstant,
		Short: endShortDescriptionConstant,
		Long:  endLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runEnd(command)
		},
	}
	endCommand.Flags().String(upstreamFlagNameConstant, "", upstreamFlagDescriptionConstant)
	endCommand.Flags().String(downstreamFlagNameConstant, "", downstreamFlagDescriptionConstant)
	endCommand.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)
	return endCommand
}

func (builder *CommandGroupBuilder) runEnd(command *cobra.Command) error {
	commandRuntime, runtimeError := builder.newRuntime(command)
	if runtimeError != nil {
		return runtimeError
	}

	endService, serviceError := branches.NewEndService(branches.EndDependencies{Repository: commandRuntime.repository})
	if serviceError != nil {
		return serviceError
	}

	upstreamRemoteOverride, _ := command.Flags().GetString(upstreamFlagNameConstant)
	downstreamRemoteOverride, _ := command.Flags().GetString(downstreamFlagNameConstant)
	dryRunRequested, _ := command.Flags().GetBool(dryRunFlagNameConstant)

	endResult, endError := endService.End(command.Context(), branches.EndOptions{
		UpstreamRemoteOverride:   upstreamRemoteOverride,
		DownstreamRemoteOverride: downstreamRemoteOverride,
		DryRun:                   dryRunRequested,
	})
	if endError != nil {
		return endError
	}

	commandRuntime.logger.Info(endCompletedMessageConstant,
		zap.String(upstreamLogFieldNameConstant, endResult.UpstreamRemote),
		zap.String(mainlineLogFieldNameConstant, endResult.MainlineBranch),
		zap.String(downstreamLogFieldNameConstant, endResult.DownstreamRemote),
		zap.Bool(downstreamPushedLogFieldConstant, endResult.DownstreamPushed),
		zap.Strings(removedBranchesLogFieldNameConstant, endResult.Tidy.RemovedBranches),
	)
	return nil
}
