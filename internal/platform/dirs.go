package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// AppDirName is the folder created under the user's config directory.
const AppDirName = "PyUpdater"

// ConfigDir returns the per-user configuration directory for the app,
// creating it if necessary. On Windows this resolves under %APPDATA%; when
// the platform config dir cannot be determined it falls back to a dot
// directory in the user's home.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("failed to resolve config directory: %w", err)
		}
		dir := filepath.Join(home, ".py-updater")
		if err := CreateDirectoryIfNotExists(dir); err != nil {
			return "", err
		}
		return dir, nil
	}

	dir := filepath.Join(base, AppDirName)
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// DefaultDownloadDir returns the directory installer downloads are saved to
// when the caller does not supply one.
func DefaultDownloadDir() string {
	return os.TempDir()
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}
