package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// SetupTray installs the system tray menu on desktop platforms. It is a
// no-op when the driver has no tray support.
func SetupTray(app fyne.App, window fyne.Window, onCheckNow func()) {
	desk, ok := app.(desktop.App)
	if !ok {
		return
	}
	desk.SetSystemTrayMenu(newTrayMenu(window, onCheckNow, app.Quit))
}

// newTrayMenu builds the Check Now / Show / Quit menu. Quit is the only
// way out when the close button is intercepted to hide the window.
func newTrayMenu(window fyne.Window, onCheckNow, quit func()) *fyne.Menu {
	return fyne.NewMenu("Python Updater",
		fyne.NewMenuItem("Check Now", onCheckNow),
		fyne.NewMenuItem("Show", func() {
			window.Show()
			window.RequestFocus()
		}),
		fyne.NewMenuItem("Quit", quit),
	)
}
