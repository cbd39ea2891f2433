package repo

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forgeworks/forgesync/internal/gitrepo"
)

const (
	groupUseConstant                  = "repo"
	groupShortDescriptionConstant     = "Manage a single repository clone"
	groupLongDescriptionConstant      = "repo converges one clone's configuration, remotes, and branch lifecycle onto the declared desired state."
	repositoryFlagNameConstant        = "repo"
	repositoryFlagDescriptionConstant = "Path to the repository clone (defaults to the configured path)"
)

// CommandGroupBuilder assembles the repo command group.
type CommandGroupBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	WorkspaceProvider            WorkspaceProvider
	GitExecutor                  gitrepo.GitExecutor
}

// Build constructs the repo command and its subcommands.
func (builder *CommandGroupBuilder) Build() (*cobra.Command, error) {
	groupCommand := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescriptionConstant,
		Long:  groupLongDescriptionConstant,
	}

	groupCommand.PersistentFlags().String(repositoryFlagNameConstant, "", repositoryFlagDescriptionConstant)

	groupCommand.AddCommand(
		builder.buildCloneCommand(),
		builder.buildConfigureCommand(),
		builder.buildRemotesCommand(),
		builder.buildFetchCommand(),
		builder.buildTidyCommand(),
		builder.buildMergeCommand(),
		builder.buildRestartCommand(),
		builder.buildEndCommand(),
	)

	return groupCommand, nil
}

// commandRuntime carries the collaborators every repo subcommand needs.
type commandRuntime struct {
	logger        *zap.Logger
	manager       *gitrepo.RepositoryManager
	repository    *gitrepo.LocalRepository
	configuration CommandConfiguration
}

func (builder *CommandGroupBuilder) newRuntime(command *cobra.Command) (*commandRuntime, error) {
	logger := resolveLogger(builder.LoggerProvider)

	gitExecutor := builder.GitExecutor
	if gitExecutor == nil {
		humanReadableLogging := false
		if builder.HumanReadableLoggingProvider != nil {
			humanReadableLogging = builder.HumanReadableLoggingProvider()
		}

		executor, executorError := newGitExecutor(logger, humanReadableLogging)
		if executorError != nil {
			return nil, executorError
		}
		gitExecutor = executor
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(gitExecutor)
	if managerError != nil {
		return nil, managerError
	}

	commandConfiguration := builder.resolveConfiguration()

	repositoryPath := commandConfiguration.Path
	if command != nil {
		if flagValue, flagError := command.Flags().GetString(repositoryFlagNameConstant); flagError == nil {
			trimmedFlagValue := strings.TrimSpace(flagValue)
			if len(trimmedFlagValue) > 0 {
				repositoryPath = trimmedFlagValue
			}
		}
	}

	localRepository, repositoryError := gitrepo.NewLocalRepository(repositoryManager, repositoryPath, "")
	if repositoryError != nil {
		return nil, repositoryError
	}

	return &commandRuntime{
		logger:        logger,
		manager:       repositoryManager,
		repository:    localRepository,
		configuration: commandConfiguration,
	}, nil
}

func (builder *CommandGroupBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandGroupBuilder) resolveWorkspace() string {
	if builder.WorkspaceProvider == nil {
		return ""
	}
	return strings.TrimSpace(builder.WorkspaceProvider())
}
