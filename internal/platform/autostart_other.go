//go:build !windows

package platform

// SetAutostart is a no-op outside Windows; login-item registration is only
// supported through the Run key.
func SetAutostart(enable bool) bool {
	return false
}

// IsAutostartEnabled always reports false outside Windows.
func IsAutostartEnabled() bool {
	return false
}
