package branches

import (
	"context"
)

// RestartDependencies enumerates collaborators required to restart a feature branch.
type RestartDependencies struct {
	Repository Repository
}

// RestartOptions configures a restart onto the upstream mainline.
type RestartOptions struct {
	UpstreamRemoteOverride string
	MainlineBranchOverride string
}

// RestartResult captures the observable outcomes of a restart.
type RestartResult struct {
	UpstreamRemote string
	MainlineBranch string
	RebasedBranch  string
	Tidy           TidyResult
}

// RestartService rebases the active branch onto the freshly fetched upstream mainline.
type RestartService struct {
	repository  Repository
	tidyService *TidyService
}

// NewRestartService constructs a RestartService from the provided dependencies.
func NewRestartService(dependencies RestartDependencies) (*RestartService, error) {
	if dependencies.Repository == nil {
		return nil, ErrRepositoryNotConfigured
	}

	tidyService, tidyError := NewTidyService(TidyDependencies{Repository: dependencies.Repository})
	if tidyError != nil {
		return nil, tidyError
	}
	return &RestartService{repository: dependencies.Repository, tidyService: tidyService}, nil
}

// Restart fetches the mainline branch from the upstream remote, rebases the
// active branch onto it, and removes branches the refreshed mainline already
// contains.
func (service *RestartService) Restart(executionContext context.Context, options RestartOptions) (RestartResult, error) {
	upstreamRemote, upstreamError := service.repository.DiscoverUpstreamRemote(executionContext, options.UpstreamRemoteOverride)
	if upstreamError != nil {
		return RestartResult{}, upstreamError
	}

	mainlineBranch, mainlineError := service.repository.DiscoverMainlineBranch(executionContext, options.MainlineBranchOverride)
	if mainlineError != nil {
		return RestartResult{}, mainlineError
	}

	activeBranch, currentError := service.repository.CurrentBranchName(executionContext)
	if currentError != nil {
		return RestartResult{}, currentError
	}

	if fetchError := service.repository.FetchBranchFromRemote(executionContext, upstreamRemote, mainlineBranch); fetchError != nil {
		return RestartResult{}, fetchError
	}
	if rebaseError := service.repository.RebaseOnto(executionContext, mainlineBranch); rebaseError != nil {
		return RestartResult{}, rebaseError
	}

	tidyResult, tidyError := service.tidyService.Tidy(executionContext, TidyOptions{TargetBranchOverride: mainlineBranch})
	if tidyError != nil {
		return RestartResult{}, tidyError
	}

	return RestartResult{
		UpstreamRemote: upstreamRemote,
		MainlineBranch: mainlineBranch,
		RebasedBranch:  activeBranch,
		Tidy:           tidyResult,
	}, nil
}

// EndDependencies enumerates collaborators required to finish a feature branch.
type EndDependencies struct {
	Repository Repository
}

// EndOptions configures an end-of-feature pass.
type EndOptions struct {
	UpstreamRemoteOverride   string
	DownstreamRemoteOverride string
	MainlineBranchOverride   string
	DryRun                   bool
}

// EndResult captures the observable outcomes of an end-of-feature pass.
type EndResult struct {
	UpstreamRemote   string
	MainlineBranch   string
	DownstreamRemote string
	DownstreamPushed bool
	Tidy             TidyResult
}

// EndService finishes feature work: it refreshes the mainline from upstream,
// removes merged branches, and pushes the mainline downstream when a
// downstream remote is configured.
type EndService struct {
	repository  Repository
	tidyService *TidyService
}

// NewEndService constructs an EndService from the provided dependencies.
func NewEndService(dependencies EndDependencies) (*EndService, error) {
	if dependencies.Repository == nil {
		return nil, ErrRepositoryNotConfigured
	}

	tidyService, tidyError := NewTidyService(TidyDependencies{Repository: dependencies.Repository})
	if tidyError != nil {
		return nil, tidyError
	}
	return &EndService{repository: dependencies.Repository, tidyService: tidyService}, nil
}

// End runs the end-of-feature sequence. The downstream push is skipped without
// error when no downstream remote exists and none was explicitly requested.
func (service *EndService) End(executionContext context.Context, options EndOptions) (EndResult, error) {
	upstreamRemote, upstreamError := service.repository.DiscoverUpstreamRemote(executionContext, options.UpstreamRemoteOverride)
	if upstreamError != nil {
		return EndResult{}, upstreamError
	}

	mainlineBranch, mainlineError := service.repository.DiscoverMainlineBranch(executionContext, options.MainlineBranchOverride)
	if mainlineError != nil {
		return EndResult{}, mainlineError
	}

	if fetchError := service.repository.FetchBranchFromRemote(executionContext, upstreamRemote, mainlineBranch); fetchError != nil {
		return EndResult{}, fetchError
	}
	if switchError := service.repository.SwitchToBranch(executionContext, mainlineBranch); switchError != nil {
		return EndResult{}, switchError
	}

	tidyResult, tidyError := service.tidyService.Tidy(executionContext, TidyOptions{
		TargetBranchOverride: mainlineBranch,
		DryRun:               options.DryRun,
	})
	if tidyError != nil {
		return EndResult{}, tidyError
	}

	if updateError := service.repository.UpdateRemotes(executionContext, true); updateError != nil {
		return EndResult{}, updateError
	}

	endResult := EndResult{
		UpstreamRemote: upstreamRemote,
		MainlineBranch: mainlineBranch,
		Tidy:           tidyResult,
	}

	downstreamRemote, downstreamFound, downstreamError := service.repository.DiscoverOptionalDownstreamRemote(executionContext, options.DownstreamRemoteOverride)
	if downstreamError != nil {
		return endResult, downstreamError
	}
	if downstreamFound && !options.DryRun {
		if pushError := service.repository.PushBranchToRemote(executionContext, downstreamRemote, mainlineBranch); pushError != nil {
			return endResult, pushError
		}
		endResult.DownstreamPushed = true
	}
	endResult.DownstreamRemote = downstreamRemote

	return endResult, nil
}
