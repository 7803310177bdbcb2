//go:build cowdebug

package debug

// Enabled is true if the module has been built with tag `cowdebug`.
const Enabled = true
