package forge

// ForkParentRecord carries the upstream metadata of a forked project.
type ForkParentRecord struct {
	NamespacedPath string
	SSHCloneURL    string
}

// ProjectRecord is the canonical shape a forge adapter produces for one
// hosted repository.
type ProjectRecord struct {
	NamespacedPath string
	SSHCloneURL    string
	DefaultBranch  string
	Archived       bool
	ForkParent     *ForkParentRecord
}
