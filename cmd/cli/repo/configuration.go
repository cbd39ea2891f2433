package repo

import "strings"

const (
	pathConfigurationSuffixConstant       = ".path"
	defaultRepositoryPathConstant         = "."
	configurationKeySeparatorTrimConstant = "."
)

// CommandConfiguration captures configuration values shared by the repo command group.
type CommandConfiguration struct {
	Path      string             `mapstructure:"path"`
	GitConfig map[string]*string `mapstructure:"gitconfig"`
	Remotes   map[string]*string `mapstructure:"remotes"`
}

// DefaultCommandConfiguration provides default repo command settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Path: defaultRepositoryPathConstant}
}

// DefaultConfigurationValues exposes repo defaults keyed under the supplied prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	trimmedPrefix := strings.TrimSuffix(configurationPrefix, configurationKeySeparatorTrimConstant)
	return map[string]any{
		trimmedPrefix + pathConfigurationSuffixConstant: defaultRepositoryPathConstant,
	}
}

// sanitize normalizes configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Path = strings.TrimSpace(configuration.Path)
	if len(sanitized.Path) == 0 {
		sanitized.Path = defaultRepositoryPathConstant
	}
	return sanitized
}
