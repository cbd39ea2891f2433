// Package gitrepo models repositories managed by forgesync.
//
// It defines configuration keys and desired-state maps, parses git remote
// URLs, derives workspace paths for remote repositories, and exposes
// RepositoryManager for git plumbing plus LocalRepository for idempotent
// reconciliation and branch discovery against an on-disk clone.
package gitrepo
