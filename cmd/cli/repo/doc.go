// Package repo builds the single-repository command group: cloning into the
// workspace, reconciling configuration and remotes, and driving the branch
// lifecycle of one clone.
package repo
