//go:build !windows

package installer

import "os"

// IsAdmin reports whether the process runs as root. The Windows installer
// itself only runs on Windows; this keeps check/download flows working in
// development on other platforms.
func IsAdmin() bool {
	return os.Geteuid() == 0
}

// shellExecuteElevated has no counterpart outside Windows.
func shellExecuteElevated(installerPath, args string) bool {
	return false
}
