package repo

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forgeworks/forgesync/internal/gitrepo"
)

const (
	configureUseConstant                   = "configure"
	configureShortDescriptionConstant      = "Reconcile git configuration entries"
	configureLongDescriptionConstant       = "configure converges the clone's git configuration onto the declared entries; undeclared entries are never touched."
	remotesUseConstant                     = "remotes"
	remotesShortDescriptionConstant        = "Reconcile named remotes"
	remotesLongDescriptionConstant         = "remotes converges the clone's named remotes onto the declared URLs; undeclared remotes are never touched."
	configurationReconciledMessageConstant = "configuration reconciled"
	remotesReconciledMessageConstant       = "remotes reconciled"
	entryCountLogFieldNameConstant         = "entries"
)

func (builder *CommandGroupBuilder) buildConfigureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   configureUseConstant,
		Short: configureShortDescriptionConstant,
		Long:  configureLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runConfigure(command)
		},
	}
}

func (builder *CommandGroupBuilder) runConfigure(command *cobra.Command) error {
	commandRuntime, runtimeError := builder.newRuntime(command)
	if runtimeError != nil {
		return runtimeError
	}

	desiredValues, parseError := gitrepo.ParseConfigValues(commandRuntime.configuration.GitConfig)
	if parseError != nil {
		return parseError
	}

	if reconcileError := commandRuntime.repository.ReconcileConfiguration(command.Context(), desiredValues); reconcileError != nil {
		return reconcileError
	}

	commandRuntime.logger.Info(configurationReconciledMessageConstant,
		zap.Int(entryCountLogFieldNameConstant, len(desiredValues)))
	return nil
}

func (builder *CommandGroupBuilder) buildRemotesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   remotesUseConstant,
		Short: remotesShortDescriptionConstant,
		Long:  remotesLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runRemotes(command)
		},
	}
}

func (builder *CommandGroupBuilder) runRemotes(command *cobra.Command) error {
	commandRuntime, runtimeError := builder.newRuntime(command)
	if runtimeError != nil {
		return runtimeError
	}

	desiredRemotes := gitrepo.RemoteValues(commandRuntime.configuration.Remotes)
	if reconcileError := commandRuntime.repository.ReconcileRemotes(command.Context(), desiredRemotes); reconcileError != nil {
		return reconcileError
	}

	commandRuntime.logger.Info(remotesReconciledMessageConstant,
		zap.Int(entryCountLogFieldNameConstant, len(desiredRemotes)))
	return nil
}
