//go:build !cowdebug

// Package debug switches expensive structural verification of collections on or off.
// Build with tag `cowdebug` to have every write verify the structure it modified.
package debug

// Enabled is true if the module has been built with tag `cowdebug`.
const Enabled = false
