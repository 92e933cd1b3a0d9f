//go:build windows

package installer

import (
	"golang.org/x/sys/windows"
)

// IsAdmin reports whether the current process token is elevated.
func IsAdmin() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// shellExecuteElevated asks the shell to run the installer with the
// "runas" verb, which shows the UAC prompt.
func shellExecuteElevated(installerPath, args string) bool {
	verb, err := windows.UTF16PtrFromString("runas")
	if err != nil {
		return false
	}
	file, err := windows.UTF16PtrFromString(installerPath)
	if err != nil {
		return false
	}
	params, err := windows.UTF16PtrFromString(args)
	if err != nil {
		return false
	}

	err = windows.ShellExecute(0, verb, file, params, nil, windows.SW_SHOWNORMAL)
	return err == nil
}
