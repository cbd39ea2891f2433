// Package cli constructs the forgesync command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// primitives around the repo, forge, and config command groups.
package cli
