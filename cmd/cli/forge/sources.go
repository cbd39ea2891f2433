package forge

import (
	forgecfg "github.com/forgeworks/forgesync/internal/forge"
	githubforge "github.com/forgeworks/forgesync/internal/forge/github"
	gitlabforge "github.com/forgeworks/forgesync/internal/forge/gitlab"
	"github.com/forgeworks/forgesync/internal/workspace"
)

// BuildSources instantiates a forge adapter per decoded definition and couples
// it with the definition's configured selection defaults.
func BuildSources(definitions []forgecfg.Definition) ([]workspace.ForgeSource, error) {
	forgeSources := make([]workspace.ForgeSource, 0, len(definitions))

	for _, definition := range definitions {
		var hostingForge forgecfg.Forge

		switch definition.Kind {
		case forgecfg.KindGitHub:
			githubAdapter, adapterError := githubforge.NewForge(*definition.GitHub)
			if adapterError != nil {
				return nil, adapterError
			}
			hostingForge = githubAdapter
		case forgecfg.KindGitLab:
			gitlabAdapter, adapterError := gitlabforge.NewForge(*definition.GitLab)
			if adapterError != nil {
				return nil, adapterError
			}
			hostingForge = gitlabAdapter
		default:
			return nil, forgecfg.UnknownForgeTypeError{Type: string(definition.Kind)}
		}

		sharedSettings := definition.Common()
		forgeSources = append(forgeSources, workspace.ForgeSource{
			Forge:  hostingForge,
			Groups: sharedSettings.Groups,
			Users:  sharedSettings.Users,
			Self:   sharedSettings.Self,
		})
	}

	return forgeSources, nil
}
