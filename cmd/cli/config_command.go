package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/forgeworks/forgesync/internal/forge"
	"github.com/forgeworks/forgesync/internal/utils"
)

const (
	configUseConstant                         = "config"
	configShortDescriptionConstant            = "Inspect the effective configuration"
	configShowUseConstant                     = "show"
	configShowShortDescriptionConstant        = "Render the effective configuration as YAML with secrets redacted"
	configPathUseConstant                     = "path"
	configPathShortDescriptionConstant        = "Print the workspace path"
	configInitUseConstant                     = "init WORKSPACE"
	configInitShortDescriptionConstant        = "Create the configuration file with the given workspace path"
	configRenderErrorTemplateConstant         = "unable to render configuration: %w"
	workspacePathOutputTemplateConstant       = "%s\n"
	configurationFileExistsTemplateConstant   = "configuration file %q already exists"
	configurationFileCreatedMessageConstant   = "configuration file created"
	configurationDirectoryPermissionsConstant = 0o755
	configurationFilePermissionsConstant      = 0o644
)

// ConfigurationFileExistsError reports an init attempt over an existing configuration file.
type ConfigurationFileExistsError struct {
	Path string
}

// Error describes the occupied configuration path.
func (failure ConfigurationFileExistsError) Error() string {
	return fmt.Sprintf(configurationFileExistsTemplateConstant, failure.Path)
}

// effectiveConfigurationView shapes the configuration for YAML display.
type effectiveConfigurationView struct {
	Common    commonConfigurationView `yaml:"common"`
	Workspace string                  `yaml:"workspace"`
	Forges    []any                   `yaml:"forges,omitempty"`
}

type commonConfigurationView struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func (application *Application) buildConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUseConstant,
		Short: configShortDescriptionConstant,
	}

	showCommand := &cobra.Command{
		Use:   configShowUseConstant,
		Short: configShowShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runConfigShow(command)
		},
	}

	pathCommand := &cobra.Command{
		Use:   configPathUseConstant,
		Short: configPathShortDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			fmt.Fprintf(command.OutOrStdout(), workspacePathOutputTemplateConstant, application.workspacePath())
			return nil
		},
	}

	initCommand := &cobra.Command{
		Use:   configInitUseConstant,
		Short: configInitShortDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runConfigInit(arguments[0])
		},
	}

	configCommand.AddCommand(showCommand, pathCommand, initCommand)
	return configCommand
}

func (application *Application) runConfigShow(command *cobra.Command) error {
	decodedDefinitions, decodeError := application.forgeDefinitions()
	if decodeError != nil {
		return decodeError
	}

	configurationView := effectiveConfigurationView{
		Common: commonConfigurationView{
			LogLevel:  application.configuration.Common.LogLevel,
			LogFormat: application.configuration.Common.LogFormat,
		},
		Workspace: application.workspacePath(),
	}

	for _, decodedDefinition := range decodedDefinitions {
		redactedDefinition := decodedDefinition.Redacted()
		switch redactedDefinition.Kind {
		case forge.KindGitHub:
			configurationView.Forges = append(configurationView.Forges, redactedDefinition.GitHub)
		case forge.KindGitLab:
			configurationView.Forges = append(configurationView.Forges, redactedDefinition.GitLab)
		}
	}

	renderedConfiguration, marshalError := yaml.Marshal(configurationView)
	if marshalError != nil {
		return fmt.Errorf(configRenderErrorTemplateConstant, marshalError)
	}

	_, writeError := command.OutOrStdout().Write(renderedConfiguration)
	return writeError
}

// runConfigInit writes a fresh configuration file carrying the supplied
// workspace path, refusing to overwrite an existing one.
func (application *Application) runConfigInit(workspacePath string) error {
	targetPath, pathError := configurationFileTargetPath()
	if pathError != nil {
		return pathError
	}

	if _, statError := os.Stat(targetPath); statError == nil {
		return ConfigurationFileExistsError{Path: targetPath}
	}

	if directoryError := os.MkdirAll(filepath.Dir(targetPath), configurationDirectoryPermissionsConstant); directoryError != nil {
		return directoryError
	}

	initialConfiguration := effectiveConfigurationView{
		Common: commonConfigurationView{
			LogLevel:  string(utils.LogLevelInfo),
			LogFormat: string(utils.LogFormatStructured),
		},
		Workspace: workspacePath,
	}
	renderedConfiguration, marshalError := yaml.Marshal(initialConfiguration)
	if marshalError != nil {
		return fmt.Errorf(configRenderErrorTemplateConstant, marshalError)
	}

	if writeError := os.WriteFile(targetPath, renderedConfiguration, configurationFilePermissionsConstant); writeError != nil {
		return writeError
	}

	application.logger.Info(configurationFileCreatedMessageConstant, zap.String(configurationFileFieldConstant, targetPath))
	return nil
}
