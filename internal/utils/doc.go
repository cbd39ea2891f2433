// Package utils hosts shared infrastructure for the forgesync CLI: the Viper
// backed configuration loader and the zap logger construction.
package utils
