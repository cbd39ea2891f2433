package forge

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forgeworks/forgesync/internal/execshell"
	forgecfg "github.com/forgeworks/forgesync/internal/forge"
	"github.com/forgeworks/forgesync/internal/gitrepo"
	"github.com/forgeworks/forgesync/internal/workspace"
)

const (
	groupUseConstant                      = "forge"
	groupShortDescriptionConstant         = "Bulk-manage the clones of configured forges"
	groupLongDescriptionConstant          = "forge lists the repositories of every configured forge and converges their local clones; without a subcommand it clones missing repositories, warns about archived ones, and reconciles configuration and remotes."
	listUseConstant                       = "list"
	listShortDescriptionConstant          = "List selected repositories"
	cloneUseConstant                      = "clone"
	cloneShortDescriptionConstant         = "Clone selected repositories that are missing locally"
	archivedUseConstant                   = "archived"
	archivedShortDescriptionConstant      = "Warn about local clones of archived projects"
	configureUseConstant                  = "configure"
	configureShortDescriptionConstant     = "Reconcile git configuration in every existing clone"
	remotesUseConstant                    = "remotes"
	remotesShortDescriptionConstant       = "Reconcile remotes in every existing clone"
	fetchUseConstant                      = "fetch"
	fetchShortDescriptionConstant         = "Update remotes in every existing clone"
	tidyUseConstant                       = "tidy"
	tidyShortDescriptionConstant          = "Remove merged branches in every existing clone"
	forgeFlagNameConstant                 = "forge"
	forgeFlagDescriptionConstant          = "Restrict the run to the named forge entry"
	groupFlagNameConstant                 = "group"
	groupFlagDescriptionConstant          = "Select the repositories of a group or organization (repeatable)"
	userFlagNameConstant                  = "user"
	userFlagDescriptionConstant           = "Select the repositories of a user (repeatable)"
	selfFlagNameConstant                  = "self"
	selfFlagDescriptionConstant           = "Select the authenticated user's repositories"
	pruneFlagNameConstant                 = "prune"
	pruneFlagDescriptionConstant          = "Prune stale remote-tracking branches while fetching"
	dryRunFlagNameConstant                = "dry-run"
	dryRunFlagDescriptionConstant         = "Report branch removals without deleting anything"
	noForgesConfiguredMessageConstant     = "no forges configured"
	workspaceNotConfiguredMessageConstant = "workspace path not configured"
)

// ErrNoForgesConfigured indicates a bulk command ran without forge definitions.
var ErrNoForgesConfigured = errors.New(noForgesConfiguredMessageConstant)

// ErrWorkspaceNotConfigured indicates a bulk command ran without a workspace path.
var ErrWorkspaceNotConfigured = errors.New(workspaceNotConfiguredMessageConstant)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// DefinitionsProvider yields the decoded forge definitions.
type DefinitionsProvider func() ([]forgecfg.Definition, error)

// CommandGroupBuilder assembles the forge command group.
type CommandGroupBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	DefinitionsProvider          DefinitionsProvider
	WorkspaceProvider            func() string
	GitExecutor                  gitrepo.GitExecutor
	SourcesBuilder               func([]forgecfg.Definition) ([]workspace.ForgeSource, error)
}

// Build constructs the forge command and its subcommands.
func (builder *CommandGroupBuilder) Build() (*cobra.Command, error) {
	groupCommand := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescriptionConstant,
		Long:  groupLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runDefaultSequence(command)
		},
	}

	groupCommand.PersistentFlags().String(forgeFlagNameConstant, "", forgeFlagDescriptionConstant)
	groupCommand.PersistentFlags().StringSlice(groupFlagNameConstant, nil, groupFlagDescriptionConstant)
	groupCommand.PersistentFlags().StringSlice(userFlagNameConstant, nil, userFlagDescriptionConstant)
	groupCommand.PersistentFlags().Bool(selfFlagNameConstant, false, selfFlagDescriptionConstant)

	listCommand := &cobra.Command{
		Use:   listUseConstant,
		Short: listShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runBulk(command, func(bulkService *workspace.Service, repositories []gitrepo.RemoteRepository, command *cobra.Command) {
				bulkService.List(repositories)
			})
		},
	}

	cloneCommand := &cobra.Command{
		Use:   cloneUseConstant,
		Short: cloneShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runBulk(command, func(bulkService *workspace.Service, repositories []gitrepo.RemoteRepository, command *cobra.Command) {
				bulkService.CloneMissing(command.Context(), repositories)
			})
		},
	}

	archivedCommand := &cobra.Command{
		Use:   archivedUseConstant,
		Short: archivedShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runBulk(command, func(bulkService *workspace.Service, repositories []gitrepo.RemoteRepository, command *cobra.Command) {
				bulkService.WarnArchived(repositories)
			})
		},
	}

	configureCommand := &cobra.Command{
		Use:   configureUseConstant,
		Short: configureShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runBulk(command, func(bulkService *workspace.Service, repositories []gitrepo.RemoteRepository, command *cobra.Command) {
				bulkService.ConfigureOptions(command.Context(), repositories)
			})
		},
	}

	remotesCommand := &cobra.Command{
		Use:   remotesUseConstant,
		Short: remotesShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runBulk(command, func(bulkService *workspace.Service, repositories []gitrepo.RemoteRepository, command *cobra.Command) {
				bulkService.ConfigureRemotes(command.Context(), repositories)
			})
		},
	}

	fetchCommand := &cobra.Command{
		Use:   fetchUseConstant,
		Short: fetchShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runBulk(command, func(bulkService *workspace.Service, repositories []gitrepo.RemoteRepository, command *cobra.Command) {
				pruneRequested, _ := command.Flags().GetBool(pruneFlagNameConstant)
				bulkService.FetchRemotes(command.Context(), repositories, pruneRequested)
			})
		},
	}
	fetchCommand.Flags().Bool(pruneFlagNameConstant, false, pruneFlagDescriptionConstant)

	tidyCommand := &cobra.Command{
		Use:   tidyUseConstant,
		Short: tidyShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runBulk(command, func(bulkService *workspace.Service, repositories []gitrepo.RemoteRepository, command *cobra.Command) {
				dryRunRequested, _ := command.Flags().GetBool(dryRunFlagNameConstant)
				bulkService.Tidy(command.Context(), repositories, dryRunRequested)
			})
		},
	}
	tidyCommand.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)

	groupCommand.AddCommand(listCommand, cloneCommand, archivedCommand, configureCommand, remotesCommand, fetchCommand, tidyCommand)

	return groupCommand, nil
}

type bulkOperation func(bulkService *workspace.Service, repositories []gitrepo.RemoteRepository, command *cobra.Command)

func (builder *CommandGroupBuilder) runBulk(command *cobra.Command, operation bulkOperation) error {
	bulkService, serviceError := builder.newBulkService(command)
	if serviceError != nil {
		return serviceError
	}

	collectedRepositories, collectError := bulkService.Collect(command.Context(), SelectionFromFlags(command))
	if collectError != nil {
		return collectError
	}

	operation(bulkService, collectedRepositories, command)
	return nil
}

// runDefaultSequence clones missing repositories, warns about archived ones,
// and reconciles configuration and remotes, in that order.
func (builder *CommandGroupBuilder) runDefaultSequence(command *cobra.Command) error {
	return builder.runBulk(command, func(bulkService *workspace.Service, repositories []gitrepo.RemoteRepository, command *cobra.Command) {
		bulkService.CloneMissing(command.Context(), repositories)
		bulkService.WarnArchived(repositories)
		bulkService.ConfigureOptions(command.Context(), repositories)
		bulkService.ConfigureRemotes(command.Context(), repositories)
	})
}

func (builder *CommandGroupBuilder) newBulkService(command *cobra.Command) (*workspace.Service, error) {
	logger := builder.resolveLogger()

	definitions := []forgecfg.Definition{}
	if builder.DefinitionsProvider != nil {
		providedDefinitions, definitionsError := builder.DefinitionsProvider()
		if definitionsError != nil {
			return nil, definitionsError
		}
		definitions = providedDefinitions
	}
	if len(definitions) == 0 {
		return nil, ErrNoForgesConfigured
	}

	sourcesBuilder := builder.SourcesBuilder
	if sourcesBuilder == nil {
		sourcesBuilder = BuildSources
	}
	forgeSources, sourcesError := sourcesBuilder(definitions)
	if sourcesError != nil {
		return nil, sourcesError
	}

	workspaceRoot := ""
	if builder.WorkspaceProvider != nil {
		workspaceRoot = builder.WorkspaceProvider()
	}
	if len(workspaceRoot) == 0 {
		return nil, ErrWorkspaceNotConfigured
	}

	topologyBuilder, topologyError := forgecfg.NewTopologyBuilder(workspaceRoot)
	if topologyError != nil {
		return nil, topologyError
	}

	gitExecutor := builder.GitExecutor
	if gitExecutor == nil {
		humanReadableLogging := false
		if builder.HumanReadableLoggingProvider != nil {
			humanReadableLogging = builder.HumanReadableLoggingProvider()
		}

		commandRunner := execshell.NewOSCommandRunner()
		if humanReadableLogging {
			shellExecutor, executorError := execshell.NewShellExecutorWithObserver(logger, commandRunner, execshell.NewLoggingCommandObserver(logger))
			if executorError != nil {
				return nil, executorError
			}
			gitExecutor = shellExecutor
		} else {
			shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner)
			if executorError != nil {
				return nil, executorError
			}
			gitExecutor = shellExecutor
		}
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(gitExecutor)
	if managerError != nil {
		return nil, managerError
	}

	return workspace.NewService(workspace.Dependencies{
		Logger:            logger,
		RepositoryManager: repositoryManager,
		TopologyBuilder:   topologyBuilder,
		Sources:           forgeSources,
	})
}

func (builder *CommandGroupBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// SelectionFromFlags reads the repository selection flags of a forge command.
func SelectionFromFlags(command *cobra.Command) workspace.Selection {
	forgeName, _ := command.Flags().GetString(forgeFlagNameConstant)
	groupIdentifiers, _ := command.Flags().GetStringSlice(groupFlagNameConstant)
	userIdentifiers, _ := command.Flags().GetStringSlice(userFlagNameConstant)
	includeSelf, _ := command.Flags().GetBool(selfFlagNameConstant)

	return workspace.Selection{
		ForgeName: forgeName,
		Groups:    groupIdentifiers,
		Users:     userIdentifiers,
		Self:      includeSelf,
	}
}
