package branches_test

import (
	"context"
	"strings"

	"github.com/forgeworks/forgesync/internal/gitrepo"
)

const fakeRepositoryPathConstant = "/workspace/example.invalid/group/project"

// fakeRepository simulates the repository surface consumed by branch workflows.
type fakeRepository struct {
	currentBranch    string
	localBranches    []string
	mergedBranches   []string
	mainlineBranch   string
	upstreamRemote   string
	downstreamRemote string

	deletedBranches  []string
	switchedBranches []string
	fetchedRefs      []string
	pushedRefs       []string
	rebasedOnto      []string
	remoteUpdates    []bool
}

func (repository *fakeRepository) Path() string {
	return fakeRepositoryPathConstant
}

func (repository *fakeRepository) CurrentBranchName(context.Context) (string, error) {
	return repository.currentBranch, nil
}

func (repository *fakeRepository) SwitchToBranch(_ context.Context, branchName string) error {
	repository.switchedBranches = append(repository.switchedBranches, branchName)
	repository.currentBranch = branchName
	return nil
}

func (repository *fakeRepository) DeleteBranch(_ context.Context, branchName string) error {
	repository.deletedBranches = append(repository.deletedBranches, branchName)
	return nil
}

func (repository *fakeRepository) MergedBranchNames(context.Context, string) ([]string, error) {
	return repository.mergedBranches, nil
}

func (repository *fakeRepository) BranchNamesWithPrefix(_ context.Context, branchPrefix string) ([]string, error) {
	matchingNames := []string{}
	for _, branchName := range repository.localBranches {
		if strings.HasPrefix(branchName, branchPrefix) {
			matchingNames = append(matchingNames, branchName)
		}
	}
	return matchingNames, nil
}

func (repository *fakeRepository) DiscoverMainlineBranch(_ context.Context, overrideName string) (string, error) {
	if len(overrideName) > 0 {
		for _, branchName := range repository.localBranches {
			if branchName == overrideName {
				return overrideName, nil
			}
		}
		if overrideName == repository.mainlineBranch {
			return overrideName, nil
		}
		return "", gitrepo.BranchNotFoundError{BranchName: overrideName}
	}
	return repository.mainlineBranch, nil
}

func (repository *fakeRepository) DiscoverUpstreamRemote(_ context.Context, overrideName string) (string, error) {
	if len(overrideName) > 0 {
		if overrideName != repository.upstreamRemote {
			return "", gitrepo.RemoteNotFoundError{RemoteName: overrideName}
		}
		return overrideName, nil
	}
	return repository.upstreamRemote, nil
}

func (repository *fakeRepository) DiscoverOptionalDownstreamRemote(_ context.Context, overrideName string) (string, bool, error) {
	if len(overrideName) > 0 {
		if overrideName != repository.downstreamRemote {
			return "", false, gitrepo.RemoteNotFoundError{RemoteName: overrideName}
		}
		return overrideName, true, nil
	}
	if len(repository.downstreamRemote) == 0 {
		return "", false, nil
	}
	return repository.downstreamRemote, true, nil
}

func (repository *fakeRepository) FetchBranchFromRemote(_ context.Context, remoteName string, branchName string) error {
	repository.fetchedRefs = append(repository.fetchedRefs, remoteName+"/"+branchName)
	return nil
}

func (repository *fakeRepository) PushBranchToRemote(_ context.Context, remoteName string, branchName string) error {
	repository.pushedRefs = append(repository.pushedRefs, remoteName+"/"+branchName)
	return nil
}

func (repository *fakeRepository) RebaseOnto(_ context.Context, upstreamRevision string) error {
	repository.rebasedOnto = append(repository.rebasedOnto, upstreamRevision)
	return nil
}

func (repository *fakeRepository) UpdateRemotes(_ context.Context, prune bool) error {
	repository.remoteUpdates = append(repository.remoteUpdates, prune)
	return nil
}

// fakePlumbing simulates the object-level git operations consumed by consolidation.
type fakePlumbing struct {
	mergeBase        string
	existingBranches map[string]struct{}
	conflictPaths    []string
	writtenTrees     []string

	createdBranches   []string
	switchedBranches  []string
	indexResets       []string
	treeMerges        [][]string
	committedTree     string
	committedParents  []string
	committedMessage  string
	updatedReferences []string
	writeTreeCalls    int
	commitCalls       int
}

func (plumbing *fakePlumbing) ResolveBranchTip(_ context.Context, _ string, branchName string) (string, error) {
	return "tip-" + branchName, nil
}

func (plumbing *fakePlumbing) MergeBaseOctopus(_ context.Context, _ string, _ []string) (string, error) {
	return plumbing.mergeBase, nil
}

func (plumbing *fakePlumbing) BranchExists(_ context.Context, _ string, branchName string) (bool, error) {
	_, branchPresent := plumbing.existingBranches[branchName]
	return branchPresent, nil
}

func (plumbing *fakePlumbing) CreateBranch(_ context.Context, _ string, branchName string, startPoint string) error {
	plumbing.createdBranches = append(plumbing.createdBranches, branchName+"@"+startPoint)
	return nil
}

func (plumbing *fakePlumbing) SwitchToBranch(_ context.Context, _ string, branchName string) error {
	plumbing.switchedBranches = append(plumbing.switchedBranches, branchName)
	return nil
}

func (plumbing *fakePlumbing) ResetIndexToRevision(_ context.Context, _ string, revision string) error {
	plumbing.indexResets = append(plumbing.indexResets, revision)
	return nil
}

func (plumbing *fakePlumbing) ReadTreeMerge(_ context.Context, _ string, baseTree string, currentTree string, incomingTree string) error {
	plumbing.treeMerges = append(plumbing.treeMerges, []string{baseTree, currentTree, incomingTree})
	return nil
}

func (plumbing *fakePlumbing) UnmergedPaths(context.Context, string) ([]string, error) {
	return plumbing.conflictPaths, nil
}

func (plumbing *fakePlumbing) WriteTree(context.Context, string) (string, error) {
	writtenTree := plumbing.writtenTrees[plumbing.writeTreeCalls]
	plumbing.writeTreeCalls++
	return writtenTree, nil
}

func (plumbing *fakePlumbing) CommitTree(_ context.Context, _ string, treeIdentifier string, parentCommits []string, message string) (string, error) {
	plumbing.commitCalls++
	plumbing.committedTree = treeIdentifier
	plumbing.committedParents = parentCommits
	plumbing.committedMessage = message
	return "commit-1", nil
}

func (plumbing *fakePlumbing) UpdateBranchReference(_ context.Context, _ string, branchName string, commitIdentifier string) error {
	plumbing.updatedReferences = append(plumbing.updatedReferences, branchName+"@"+commitIdentifier)
	return nil
}
