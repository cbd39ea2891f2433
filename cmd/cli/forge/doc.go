// Package forge builds the bulk command group: it lists the repositories of
// every configured forge, selects them by group, user, or authenticated
// ownership, and applies clone and reconciliation passes across the workspace.
package forge
