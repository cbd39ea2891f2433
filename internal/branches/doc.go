// Package branches implements branch lifecycle workflows: removal of merged
// branches, feature-branch consolidation, and the restart and end-of-feature
// sequences built on top of them.
package branches
