package workspace

import (
	"context"

	"go.uber.org/zap"

	"github.com/forgeworks/forgesync/internal/branches"
	"github.com/forgeworks/forgesync/internal/forge"
	"github.com/forgeworks/forgesync/internal/gitrepo"
)

const (
	repositoryLogFieldNameConstant      = "repository"
	forgeLogFieldNameConstant           = "forge"
	remotesLogFieldNameConstant         = "remotes"
	pathLogFieldNameConstant            = "path"
	targetBranchLogFieldNameConstant    = "target_branch"
	removedBranchesLogFieldNameConstant = "removed_branches"
	repositoryListMessageConstant       = "repository"
	cloneStartMessageConstant           = "cloning repository"
	cloneSkipExistsMessageConstant      = "clone skipped, path exists"
	cloneSkipArchivedMessageConstant    = "clone skipped, project archived"
	archivedWarningMessageConstant      = "archived project has a local clone"
	operationFailureMessageConstant     = "repository operation failed"
	tidyCompletedMessageConstant        = "tidy completed"
)

// ForgeSource couples a forge with its configured selection defaults.
type ForgeSource struct {
	Forge  forge.Forge
	Groups []string
	Users  []string
	Self   bool
}

// Selection narrows a bulk run. Empty fields fall back to each forge's
// configured defaults; a named forge restricts the run to that entry.
type Selection struct {
	ForgeName string
	Groups    []string
	Users     []string
	Self      bool
}

// Dependencies enumerates collaborators required by the bulk service.
type Dependencies struct {
	Logger            *zap.Logger
	RepositoryManager *gitrepo.RepositoryManager
	TopologyBuilder   *forge.TopologyBuilder
	Sources           []ForgeSource
	FileSystem        FileSystem
}

// Service runs bulk operations across the repositories of configured forges.
type Service struct {
	logger            *zap.Logger
	repositoryManager *gitrepo.RepositoryManager
	topologyBuilder   *forge.TopologyBuilder
	sources           []ForgeSource
	fileSystem        FileSystem
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.TopologyBuilder == nil {
		return nil, ErrTopologyBuilderNotConfigured
	}

	fileSystem := dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}

	return &Service{
		logger:            dependencies.Logger,
		repositoryManager: dependencies.RepositoryManager,
		topologyBuilder:   dependencies.TopologyBuilder,
		sources:           dependencies.Sources,
		fileSystem:        fileSystem,
	}, nil
}

// Collect lists and maps every selected repository across the configured
// forges. An empty result is ErrNoRepositoriesSelected.
func (service *Service) Collect(executionContext context.Context, selection Selection) ([]gitrepo.RemoteRepository, error) {
	collectedRepositories := []gitrepo.RemoteRepository{}

	for _, source := range service.sources {
		if len(selection.ForgeName) > 0 && source.Forge.Name() != selection.ForgeName {
			continue
		}

		groupIdentifiers := selection.Groups
		userIdentifiers := selection.Users
		includeSelf := selection.Self
		if len(groupIdentifiers) == 0 && len(userIdentifiers) == 0 && !includeSelf {
			groupIdentifiers = source.Groups
			userIdentifiers = source.Users
			includeSelf = source.Self
		}

		projectRecords := []forge.ProjectRecord{}
		for _, groupIdentifier := range groupIdentifiers {
			groupRecords, listError := source.Forge.ListGroupProjects(executionContext, groupIdentifier)
			if listError != nil {
				return nil, listError
			}
			projectRecords = append(projectRecords, groupRecords...)
		}
		for _, userIdentifier := range userIdentifiers {
			userRecords, listError := source.Forge.ListUserProjects(executionContext, userIdentifier)
			if listError != nil {
				return nil, listError
			}
			projectRecords = append(projectRecords, userRecords...)
		}
		if includeSelf {
			ownRecords, listError := source.Forge.ListOwnProjects(executionContext)
			if listError != nil {
				return nil, listError
			}
			projectRecords = append(projectRecords, ownRecords...)
		}

		remoteRepositories, buildError := service.topologyBuilder.BuildRepositories(source.Forge, projectRecords)
		if buildError != nil {
			return nil, buildError
		}
		collectedRepositories = append(collectedRepositories, remoteRepositories...)
	}

	if len(collectedRepositories) == 0 {
		return nil, ErrNoRepositoriesSelected
	}
	return collectedRepositories, nil
}

// Existing returns the repositories whose clone path is present on disk.
func (service *Service) Existing(remoteRepositories []gitrepo.RemoteRepository) []gitrepo.RemoteRepository {
	existingRepositories := []gitrepo.RemoteRepository{}
	for _, remoteRepository := range remoteRepositories {
		if service.pathExists(remoteRepository.Path) {
			existingRepositories = append(existingRepositories, remoteRepository)
		}
	}
	return existingRepositories
}

// Missing returns the repositories whose clone path is absent from disk.
func (service *Service) Missing(remoteRepositories []gitrepo.RemoteRepository) []gitrepo.RemoteRepository {
	missingRepositories := []gitrepo.RemoteRepository{}
	for _, remoteRepository := range remoteRepositories {
		if !service.pathExists(remoteRepository.Path) {
			missingRepositories = append(missingRepositories, remoteRepository)
		}
	}
	return missingRepositories
}

// List logs every repository with its desired remote names.
func (service *Service) List(remoteRepositories []gitrepo.RemoteRepository) {
	for _, remoteRepository := range remoteRepositories {
		remoteNames := []string{}
		for _, remoteName := range gitrepo.SortedRemoteNames(remoteRepository.Remotes) {
			if remoteRepository.Remotes[remoteName] != nil {
				remoteNames = append(remoteNames, remoteName)
			}
		}
		service.logger.Info(repositoryListMessageConstant,
			zap.String(repositoryLogFieldNameConstant, remoteRepository.Name),
			zap.String(pathLogFieldNameConstant, remoteRepository.Path),
			zap.Strings(remotesLogFieldNameConstant, remoteNames),
		)
	}
}

// CloneMissing clones every selected repository that is absent from disk.
// Archived projects are never cloned. Failures are logged and the pass
// continues with the next repository.
func (service *Service) CloneMissing(executionContext context.Context, remoteRepositories []gitrepo.RemoteRepository) {
	for _, remoteRepository := range remoteRepositories {
		repositoryLogger := service.repositoryLogger(remoteRepository)

		if remoteRepository.Archived {
			repositoryLogger.Debug(cloneSkipArchivedMessageConstant)
			continue
		}
		if service.pathExists(remoteRepository.Path) {
			repositoryLogger.Debug(cloneSkipExistsMessageConstant)
			continue
		}

		repositoryLogger.Info(cloneStartMessageConstant, zap.String(pathLogFieldNameConstant, remoteRepository.Path))
		if cloneError := service.repositoryManager.CloneRepository(executionContext, remoteRepository.CloneURL, remoteRepository.Path); cloneError != nil {
			repositoryLogger.Error(operationFailureMessageConstant, zap.Error(cloneError))
		}
	}
}

// WarnArchived warns for every archived project that still has a local clone.
func (service *Service) WarnArchived(remoteRepositories []gitrepo.RemoteRepository) {
	for _, remoteRepository := range remoteRepositories {
		if remoteRepository.Archived && service.pathExists(remoteRepository.Path) {
			service.repositoryLogger(remoteRepository).Warn(archivedWarningMessageConstant,
				zap.String(pathLogFieldNameConstant, remoteRepository.Path))
		}
	}
}

// ConfigureOptions reconciles git configuration for every existing clone.
func (service *Service) ConfigureOptions(executionContext context.Context, remoteRepositories []gitrepo.RemoteRepository) {
	service.forEachExisting(executionContext, remoteRepositories, func(operationContext context.Context, localRepository *gitrepo.LocalRepository, remoteRepository gitrepo.RemoteRepository) error {
		return localRepository.ReconcileConfiguration(operationContext, remoteRepository.Config)
	})
}

// ConfigureRemotes reconciles named remotes for every existing clone.
func (service *Service) ConfigureRemotes(executionContext context.Context, remoteRepositories []gitrepo.RemoteRepository) {
	service.forEachExisting(executionContext, remoteRepositories, func(operationContext context.Context, localRepository *gitrepo.LocalRepository, remoteRepository gitrepo.RemoteRepository) error {
		return localRepository.ReconcileRemotes(operationContext, remoteRepository.Remotes)
	})
}

// FetchRemotes updates all remotes for every existing clone.
func (service *Service) FetchRemotes(executionContext context.Context, remoteRepositories []gitrepo.RemoteRepository, prune bool) {
	service.forEachExisting(executionContext, remoteRepositories, func(operationContext context.Context, localRepository *gitrepo.LocalRepository, _ gitrepo.RemoteRepository) error {
		return localRepository.UpdateRemotes(operationContext, prune)
	})
}

// Tidy fetches with prune and removes merged branches in every existing clone.
func (service *Service) Tidy(executionContext context.Context, remoteRepositories []gitrepo.RemoteRepository, dryRun bool) {
	service.forEachExisting(executionContext, remoteRepositories, func(operationContext context.Context, localRepository *gitrepo.LocalRepository, remoteRepository gitrepo.RemoteRepository) error {
		if fetchError := localRepository.UpdateRemotes(operationContext, true); fetchError != nil {
			return fetchError
		}

		tidyService, serviceError := branches.NewTidyService(branches.TidyDependencies{Repository: localRepository})
		if serviceError != nil {
			return serviceError
		}

		tidyResult, tidyError := tidyService.Tidy(operationContext, branches.TidyOptions{DryRun: dryRun})
		if tidyError != nil {
			return tidyError
		}

		service.repositoryLogger(remoteRepository).Info(tidyCompletedMessageConstant,
			zap.String(targetBranchLogFieldNameConstant, tidyResult.TargetBranch),
			zap.Strings(removedBranchesLogFieldNameConstant, tidyResult.RemovedBranches),
		)
		return nil
	})
}

type repositoryOperation func(executionContext context.Context, localRepository *gitrepo.LocalRepository, remoteRepository gitrepo.RemoteRepository) error

func (service *Service) forEachExisting(executionContext context.Context, remoteRepositories []gitrepo.RemoteRepository, operation repositoryOperation) {
	for _, remoteRepository := range service.Existing(remoteRepositories) {
		localRepository, openError := gitrepo.NewLocalRepository(service.repositoryManager, remoteRepository.Path, remoteRepository.DefaultBranch)
		if openError != nil {
			service.repositoryLogger(remoteRepository).Error(operationFailureMessageConstant, zap.Error(openError))
			continue
		}

		if operationError := operation(executionContext, localRepository, remoteRepository); operationError != nil {
			service.repositoryLogger(remoteRepository).Error(operationFailureMessageConstant, zap.Error(operationError))
		}
	}
}

func (service *Service) repositoryLogger(remoteRepository gitrepo.RemoteRepository) *zap.Logger {
	return service.logger.With(
		zap.String(forgeLogFieldNameConstant, remoteRepository.Group),
		zap.String(repositoryLogFieldNameConstant, remoteRepository.Name),
	)
}

func (service *Service) pathExists(path string) bool {
	_, statError := service.fileSystem.Stat(path)
	return statError == nil
}
