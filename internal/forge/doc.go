// Package forge defines the forge-facing model: project records fetched from
// a hosting provider, the Forge capability interface, the tagged-union forge
// configuration, and the topology builder that turns records into desired
// remote repository state.
package forge
