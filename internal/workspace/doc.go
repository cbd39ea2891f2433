// Package workspace orchestrates bulk operations over every repository a set
// of configured forges reports: listing, cloning missing clones, archived
// warnings, and per-clone configure/remotes/fetch/tidy passes. A failure on
// one repository is logged and the pass continues; nothing is rolled back.
package workspace
