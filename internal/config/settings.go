package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/spf13/afero"
)

// SettingsFileName is the JSON file written into the config directory.
const SettingsFileName = "settings.json"

// Default values
const (
	DefaultScheduledTime = "09:00"
)

var scheduledTimePattern = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// Settings is the persisted application configuration record.
type Settings struct {
	// Automatic update settings
	AutoUpdateEnabled  bool   `json:"auto_update_enabled"`
	ScheduledTime      string `json:"scheduled_time"` // HH:MM
	AutoInstallEnabled bool   `json:"auto_install_enabled"`
	IncludePrerelease  bool   `json:"include_prerelease"`

	// General settings
	MinimizeToTray bool `json:"minimize_to_tray"`
	StartMinimized bool `json:"start_minimized"`
	RunAtStartup   bool `json:"run_at_startup"`

	// Date of the last completed update check, ISO format, empty = never
	LastCheckDate string `json:"last_check_date"`
}

// DefaultSettings returns the built-in defaults used when no settings file
// exists or the existing one cannot be parsed.
func DefaultSettings() Settings {
	return Settings{
		ScheduledTime:  DefaultScheduledTime,
		MinimizeToTray: true,
	}
}

// Manager loads and stores the settings record.
type Manager struct {
	fs   afero.Fs
	path string

	mu       sync.Mutex
	settings Settings
}

// NewManager creates a settings manager backed by the given filesystem and
// config directory, loading the current record immediately.
func NewManager(fs afero.Fs, configDir string) *Manager {
	m := &Manager{
		fs:   fs,
		path: filepath.Join(configDir, SettingsFileName),
	}
	m.settings = m.load()
	return m
}

// Path returns the location of the settings file.
func (m *Manager) Path() string {
	return m.path
}

// Get returns a copy of the current settings.
func (m *Manager) Get() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// Update applies fn to the current settings and persists the result.
func (m *Manager) Update(fn func(*Settings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn(&m.settings)
	return m.save()
}

// SetAutoUpdateEnabled toggles scheduled update checks.
func (m *Manager) SetAutoUpdateEnabled(enabled bool) error {
	return m.Update(func(s *Settings) { s.AutoUpdateEnabled = enabled })
}

// SetScheduledTime stores the daily check time. Values that are not HH:MM
// are replaced with the default.
func (m *Manager) SetScheduledTime(timeStr string) error {
	if !scheduledTimePattern.MatchString(timeStr) {
		timeStr = DefaultScheduledTime
	}
	return m.Update(func(s *Settings) { s.ScheduledTime = timeStr })
}

// SetAutoInstallEnabled toggles launching the installer right after a
// successful download.
func (m *Manager) SetAutoInstallEnabled(enabled bool) error {
	return m.Update(func(s *Settings) { s.AutoInstallEnabled = enabled })
}

// SetLastCheckDate records the ISO date of the most recent update check.
func (m *Manager) SetLastCheckDate(dateStr string) error {
	return m.Update(func(s *Settings) { s.LastCheckDate = dateStr })
}

// load reads the settings file, falling back to defaults when the file is
// missing or not a valid settings record.
func (m *Manager) load() Settings {
	data, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		return DefaultSettings()
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return DefaultSettings()
	}
	if !scheduledTimePattern.MatchString(settings.ScheduledTime) {
		settings.ScheduledTime = DefaultScheduledTime
	}
	return settings
}

// save writes the record, caller holds the lock.
func (m *Manager) save() error {
	data, err := json.MarshalIndent(m.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := m.fs.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	if err := afero.WriteFile(m.fs, m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
