package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	forgecmd "github.com/forgeworks/forgesync/cmd/cli/forge"
	repocmd "github.com/forgeworks/forgesync/cmd/cli/repo"
	"github.com/forgeworks/forgesync/internal/forge"
	"github.com/forgeworks/forgesync/internal/utils"
)

const (
	applicationNameConstant                 = "forgesync"
	applicationShortDescriptionConstant     = "Bulk-manage local clones of forge-hosted repositories"
	applicationLongDescriptionConstant      = "forgesync converges local clones of GitHub and GitLab repositories onto a declared desired state: workspace layout, remotes, git configuration, and branch lifecycle."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	workspaceConfigKeyConstant              = "workspace"
	repoConfigurationKeyConstant            = "repo"
	environmentPrefixConstant               = "FORGESYNC"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	repoCommandsBuildErrorTemplateConstant  = "unable to build repo commands: %w"
	forgeCommandsBuildErrorTemplateConstant = "unable to build forge commands: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	defaultConfigurationSearchPathConstant  = "."
	defaultWorkspaceDirectoryNameConstant   = "workspace"
	userConfigurationDirectoryNameConstant  = "forgesync"
	configurationFileExtensionConstant      = ".yaml"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration `mapstructure:"common"`
	Workspace string                         `mapstructure:"workspace"`
	Forges    []map[string]any               `mapstructure:"forges"`
	Repo      repocmd.CommandConfiguration   `mapstructure:"repo"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() (*Application, error) {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)

	application := &Application{
		configurationLoader: configurationLoader,
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	repoGroupBuilder := repocmd.CommandGroupBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() repocmd.CommandConfiguration {
			return application.configuration.Repo
		},
		WorkspaceProvider: application.workspacePath,
	}
	repoGroupCommand, repoBuildError := repoGroupBuilder.Build()
	if repoBuildError != nil {
		return nil, fmt.Errorf(repoCommandsBuildErrorTemplateConstant, repoBuildError)
	}
	cobraCommand.AddCommand(repoGroupCommand)

	forgeGroupBuilder := forgecmd.CommandGroupBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		DefinitionsProvider:          application.forgeDefinitions,
		WorkspaceProvider:            application.workspacePath,
	}
	forgeGroupCommand, forgeBuildError := forgeGroupBuilder.Build()
	if forgeBuildError != nil {
		return nil, fmt.Errorf(forgeCommandsBuildErrorTemplateConstant, forgeBuildError)
	}
	cobraCommand.AddCommand(forgeGroupCommand)

	cobraCommand.AddCommand(application.buildConfigCommand())

	application.rootCommand = cobraCommand

	return application, nil
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	application, buildError := NewApplication()
	if buildError != nil {
		return buildError
	}
	return application.Execute()
}

// RootCommand exposes the assembled command hierarchy.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
		workspaceConfigKeyConstant:       DefaultWorkspacePath(),
	}
	for configurationKey, configurationValue := range repocmd.DefaultConfigurationValues(repoConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := utils.NewLogger(utils.LoggingSettings{
		Level:  utils.LogLevel(application.configuration.Common.LogLevel),
		Format: utils.LogFormat(application.configuration.Common.LogFormat),
	})
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) workspacePath() string {
	return strings.TrimSpace(application.configuration.Workspace)
}

func (application *Application) forgeDefinitions() ([]forge.Definition, error) {
	return forge.DecodeDefinitions(application.configuration.Forges)
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}
	return command.Help()
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

// DefaultWorkspacePath resolves the workspace directory under the user's home.
func DefaultWorkspacePath() string {
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		return defaultWorkspaceDirectoryNameConstant
	}
	return filepath.Join(homeDirectory, defaultWorkspaceDirectoryNameConstant)
}

// configurationFileTargetPath resolves where config init writes the
// configuration file: config.yaml under the user configuration directory.
func configurationFileTargetPath() (string, error) {
	userConfigurationDirectory, configError := os.UserConfigDir()
	if configError != nil {
		return "", configError
	}
	return filepath.Join(userConfigurationDirectory, userConfigurationDirectoryNameConstant, configurationNameConstant+configurationFileExtensionConstant), nil
}

func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, configError := os.UserConfigDir(); configError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}
