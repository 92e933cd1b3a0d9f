//go:build windows

package platform

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows/registry"
)

const (
	runKeyPath   = `Software\Microsoft\Windows\CurrentVersion\Run`
	runValueName = "PyUpdater"
)

// SetAutostart registers or removes the current executable in the per-user
// Run key. Returns true on success.
func SetAutostart(enable bool) bool {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE|registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer key.Close()

	if !enable {
		if err := key.DeleteValue(runValueName); err != nil && err != registry.ErrNotExist {
			return false
		}
		return true
	}

	exePath, err := os.Executable()
	if err != nil {
		return false
	}

	if err := key.SetStringValue(runValueName, fmt.Sprintf("%q", exePath)); err != nil {
		return false
	}
	return true
}

// IsAutostartEnabled reports whether the Run key value is present.
func IsAutostartEnabled() bool {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer key.Close()

	_, _, err = key.GetStringValue(runValueName)
	return err == nil
}
