package forge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

const (
	forgeTypeGitHubConstant            = "github"
	forgeTypeGitLabConstant            = "gitlab"
	unknownForgeTypeTemplateConstant   = "unknown forge type %q"
	forgeDecodeFailureTemplateConstant = "unable to decode forge definition %d: %w"
	forgeNameMissingMessageConstant    = "forge definition requires a name"
	redactedSecretPlaceholderConstant  = "[redacted]"
)

// Kind identifies a supported forge variant.
type Kind string

// Supported forge variants.
const (
	KindGitHub Kind = Kind(forgeTypeGitHubConstant)
	KindGitLab Kind = Kind(forgeTypeGitLabConstant)
)

// ErrForgeNameMissing indicates a forge definition without a name.
var ErrForgeNameMissing = errors.New(forgeNameMissingMessageConstant)

// UnknownForgeTypeError reports an unrecognized forge type tag.
type UnknownForgeTypeError struct {
	Type string
}

// Error describes the unrecognized tag.
func (failure UnknownForgeTypeError) Error() string {
	return fmt.Sprintf(unknownForgeTypeTemplateConstant, failure.Type)
}

// CommonSettings carries the fields shared by every forge definition.
type CommonSettings struct {
	Type      string             `mapstructure:"type" yaml:"type"`
	Name      string             `mapstructure:"name" yaml:"name"`
	Token     string             `mapstructure:"token" yaml:"token"`
	Groups    []string           `mapstructure:"groups" yaml:"groups,omitempty"`
	Users     []string           `mapstructure:"users" yaml:"users,omitempty"`
	Self      bool               `mapstructure:"self" yaml:"self,omitempty"`
	Exclude   []string           `mapstructure:"exclude" yaml:"exclude,omitempty"`
	GitConfig map[string]*string `mapstructure:"gitconfig" yaml:"gitconfig,omitempty"`
}

// GitHubSettings configures a GitHub forge entry.
type GitHubSettings struct {
	CommonSettings `mapstructure:",squash" yaml:",inline"`
	APIURL         string `mapstructure:"api_url" yaml:"api_url,omitempty"`
}

// GitLabSettings configures a GitLab forge entry.
type GitLabSettings struct {
	CommonSettings `mapstructure:",squash" yaml:",inline"`
	BaseURL        string `mapstructure:"base_url" yaml:"base_url,omitempty"`
}

// Definition is the decoded tagged union of one forge configuration entry.
type Definition struct {
	Kind   Kind
	GitHub *GitHubSettings
	GitLab *GitLabSettings
}

// Name returns the display name of the definition.
func (definition Definition) Name() string {
	switch definition.Kind {
	case KindGitHub:
		return definition.GitHub.Name
	case KindGitLab:
		return definition.GitLab.Name
	}
	return ""
}

// Common returns the shared settings of the definition.
func (definition Definition) Common() CommonSettings {
	switch definition.Kind {
	case KindGitHub:
		return definition.GitHub.CommonSettings
	case KindGitLab:
		return definition.GitLab.CommonSettings
	}
	return CommonSettings{}
}

// DecodeDefinitions decodes raw configuration entries into typed forge
// definitions, dispatching on each entry's type tag.
func DecodeDefinitions(rawDefinitions []map[string]any) ([]Definition, error) {
	decodedDefinitions := make([]Definition, 0, len(rawDefinitions))

	for definitionIndex, rawDefinition := range rawDefinitions {
		var sharedSettings CommonSettings
		if decodeError := mapstructure.Decode(rawDefinition, &sharedSettings); decodeError != nil {
			return nil, fmt.Errorf(forgeDecodeFailureTemplateConstant, definitionIndex, decodeError)
		}

		switch strings.ToLower(strings.TrimSpace(sharedSettings.Type)) {
		case forgeTypeGitHubConstant:
			var githubSettings GitHubSettings
			if decodeError := mapstructure.Decode(rawDefinition, &githubSettings); decodeError != nil {
				return nil, fmt.Errorf(forgeDecodeFailureTemplateConstant, definitionIndex, decodeError)
			}
			if len(strings.TrimSpace(githubSettings.Name)) == 0 {
				return nil, ErrForgeNameMissing
			}
			decodedDefinitions = append(decodedDefinitions, Definition{Kind: KindGitHub, GitHub: &githubSettings})
		case forgeTypeGitLabConstant:
			var gitlabSettings GitLabSettings
			if decodeError := mapstructure.Decode(rawDefinition, &gitlabSettings); decodeError != nil {
				return nil, fmt.Errorf(forgeDecodeFailureTemplateConstant, definitionIndex, decodeError)
			}
			if len(strings.TrimSpace(gitlabSettings.Name)) == 0 {
				return nil, ErrForgeNameMissing
			}
			decodedDefinitions = append(decodedDefinitions, Definition{Kind: KindGitLab, GitLab: &gitlabSettings})
		default:
			return nil, UnknownForgeTypeError{Type: sharedSettings.Type}
		}
	}

	return decodedDefinitions, nil
}

// Redacted returns a copy of the definition with secrets masked for display.
func (definition Definition) Redacted() Definition {
	redactedDefinition := definition
	switch definition.Kind {
	case KindGitHub:
		redactedSettings := *definition.GitHub
		if len(redactedSettings.Token) > 0 {
			redactedSettings.Token = redactedSecretPlaceholderConstant
		}
		redactedDefinition.GitHub = &redactedSettings
	case KindGitLab:
		redactedSettings := *definition.GitLab
		if len(redactedSettings.Token) > 0 {
			redactedSettings.Token = redactedSecretPlaceholderConstant
		}
		redactedDefinition.GitLab = &redactedSettings
	}
	return redactedDefinition
}

// ExclusionSet builds a case-insensitive membership set of excluded project names.
func ExclusionSet(excludedNames []string) map[string]struct{} {
	exclusionSet := make(map[string]struct{}, len(excludedNames))
	for _, excludedName := range excludedNames {
		exclusionSet[strings.ToLower(strings.TrimSpace(excludedName))] = struct{}{}
	}
	return exclusionSet
}

// IsExcluded reports membership of a project name in an exclusion set.
func IsExcluded(exclusionSet map[string]struct{}, projectName string) bool {
	_, excluded := exclusionSet[strings.ToLower(strings.TrimSpace(projectName))]
	return excluded
}
