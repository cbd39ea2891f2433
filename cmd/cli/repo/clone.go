package repo

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forgeworks/forgesync/internal/gitrepo"
)

const (
	cloneUseConstant                    = "clone URL..."
	cloneShortDescriptionConstant       = "Clone repositories into the workspace"
	cloneLongDescriptionConstant        = "clone derives each repository's workspace path from its clone URL and clones it there."
	workspaceMissingMessageConstant     = "workspace path not configured"
	cloneCompletedMessageConstant       = "repository cloned"
	cloneRepositoryLogFieldNameConstant = "repository"
	clonePathLogFieldNameConstant       = "path"
)

// ErrWorkspaceNotConfigured indicates clone ran without a workspace path.
var ErrWorkspaceNotConfigured = errors.New(workspaceMissingMessageConstant)

func (builder *CommandGroupBuilder) buildCloneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   cloneUseConstant,
		Short: cloneShortDescriptionConstant,
		Long:  cloneLongDescriptionConstant,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runClone(command, arguments)
		},
	}
}

func (builder *CommandGroupBuilder) runClone(command *cobra.Command, arguments []string) error {
	commandRuntime, runtimeError := builder.newRuntime(command)
	if runtimeError != nil {
		return runtimeError
	}

	workspaceRoot := builder.resolveWorkspace()
	if len(workspaceRoot) == 0 {
		return ErrWorkspaceNotConfigured
	}

	for _, rawCloneURL := range arguments {
		remoteRepository, buildError := gitrepo.NewRemoteRepositoryFromURL(workspaceRoot, rawCloneURL)
		if buildError != nil {
			return buildError
		}

		if _, statError := os.Stat(remoteRepository.Path); statError == nil {
			return gitrepo.CloneTargetExistsError{Path: remoteRepository.Path}
		}

		if cloneError := commandRuntime.manager.CloneRepository(command.Context(), remoteRepository.CloneURL, remoteRepository.Path); cloneError != nil {
			return cloneError
		}

		commandRuntime.logger.Info(cloneCompletedMessageConstant,
			zap.String(cloneRepositoryLogFieldNameConstant, remoteRepository.Name),
			zap.String(clonePathLogFieldNameConstant, remoteRepository.Path),
		)
	}

	return nil
}
