package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/pyget/py-updater/internal/config"
	"github.com/pyget/py-updater/internal/platform"
	"github.com/pyget/py-updater/internal/schedule"
)

// SettingsDialog represents the options dialog
type SettingsDialog struct {
	settings *config.Manager
	gate     *schedule.Gate
	window   fyne.Window
	dialog   *dialog.ConfirmDialog
	onSaved  func()

	// UI components
	autoUpdateCheck  *widget.Check
	scheduledEntry   *widget.Entry
	autoInstallCheck *widget.Check
	prereleaseCheck  *widget.Check
	trayCheck        *widget.Check
	minimizedCheck   *widget.Check
	startupCheck     *widget.Check
}

// NewSettingsDialog creates the options dialog. onSaved runs on the UI
// goroutine after the settings were applied.
func NewSettingsDialog(settings *config.Manager, gate *schedule.Gate, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings: settings,
		gate:     gate,
		window:   window,
		onSaved:  onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the dialog with the current settings loaded
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the dialog content
func (sd *SettingsDialog) createUI() {
	sd.autoUpdateCheck = widget.NewCheck("Check for updates automatically", nil)
	sd.scheduledEntry = widget.NewEntry()
	sd.scheduledEntry.SetPlaceHolder("HH:MM")
	sd.autoInstallCheck = widget.NewCheck("Download and install automatically", nil)
	sd.prereleaseCheck = widget.NewCheck("Include pre-release versions", nil)
	sd.trayCheck = widget.NewCheck("Minimize to tray on close", nil)
	sd.minimizedCheck = widget.NewCheck("Start minimized", nil)
	sd.startupCheck = widget.NewCheck("Run at Windows startup", nil)

	content := container.NewVBox(
		sd.autoUpdateCheck,
		container.NewBorder(nil, nil, widget.NewLabel("Check time"), nil, sd.scheduledEntry),
		sd.autoInstallCheck,
		sd.prereleaseCheck,
		widget.NewSeparator(),
		sd.trayCheck,
		sd.minimizedCheck,
		sd.startupCheck,
	)

	sd.dialog = dialog.NewCustomConfirm("Options", "Save", "Cancel", content, func(save bool) {
		if save {
			sd.applySettings()
		}
	}, sd.window)
}

// loadCurrentSettings fills the widgets from the persisted record
func (sd *SettingsDialog) loadCurrentSettings() {
	settings := sd.settings.Get()

	sd.autoUpdateCheck.SetChecked(settings.AutoUpdateEnabled)
	sd.scheduledEntry.SetText(settings.ScheduledTime)
	sd.autoInstallCheck.SetChecked(settings.AutoInstallEnabled)
	sd.prereleaseCheck.SetChecked(settings.IncludePrerelease)
	sd.trayCheck.SetChecked(settings.MinimizeToTray)
	sd.minimizedCheck.SetChecked(settings.StartMinimized)
	sd.startupCheck.SetChecked(settings.RunAtStartup)
}

// applySettings persists the widgets' state and re-arms the gate
func (sd *SettingsDialog) applySettings() {
	startupWanted := sd.startupCheck.Checked
	startupApplied := platform.SetAutostart(startupWanted)
	if startupWanted && !startupApplied {
		log.Printf("Could not register autostart entry")
	}

	err := sd.settings.Update(func(s *config.Settings) {
		s.AutoUpdateEnabled = sd.autoUpdateCheck.Checked
		s.AutoInstallEnabled = sd.autoInstallCheck.Checked
		s.IncludePrerelease = sd.prereleaseCheck.Checked
		s.MinimizeToTray = sd.trayCheck.Checked
		s.StartMinimized = sd.minimizedCheck.Checked
		s.RunAtStartup = startupWanted && startupApplied
	})
	if err != nil {
		log.Printf("Failed to save settings: %v", err)
	}
	if err := sd.settings.SetScheduledTime(sd.scheduledEntry.Text); err != nil {
		log.Printf("Failed to save scheduled time: %v", err)
	}

	// The stored value may differ from the entry when it was invalid
	saved := sd.settings.Get()
	sd.gate.SetTarget(saved.ScheduledTime)
	if saved.AutoUpdateEnabled {
		sd.gate.Start()
	} else {
		sd.gate.Stop()
	}

	if sd.settings.Get().MinimizeToTray {
		sd.window.SetCloseIntercept(sd.window.Hide)
	} else {
		sd.window.SetCloseIntercept(nil)
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}
}
