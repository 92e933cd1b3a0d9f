package ui

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/pyget/py-updater/internal/config"
	"github.com/pyget/py-updater/internal/download"
	"github.com/pyget/py-updater/internal/installer"
	"github.com/pyget/py-updater/internal/model"
	"github.com/pyget/py-updater/internal/schedule"
	"github.com/pyget/py-updater/internal/version"
)

// UI constants
const (
	CheckTimeout = 45 * time.Second

	LabelNever       = "never"
	LabelUnknown     = "unknown"
	LabelNotDetected = "not detected"
)

// RootUI represents the main updater window
type RootUI struct {
	app    fyne.App
	window fyne.Window

	installedLabel *widget.Label
	latestLabel    *widget.Label
	statusLabel    *widget.Label
	nextCheckLabel *widget.Label
	progressBar    *widget.ProgressBar
	progressLabel  *widget.Label
	checkBtn       *widget.Button
	downloadBtn    *widget.Button
	cancelBtn      *widget.Button

	settings    *config.Manager
	checker     *version.Checker
	downloadSvc *download.Service
	gate        *schedule.Gate

	mu       sync.Mutex
	latest   *model.PythonVersion
	checking bool
}

// NewRootUI creates the main window content and wires services to it
func NewRootUI(window fyne.Window, app fyne.App, settings *config.Manager, checker *version.Checker, downloadSvc *download.Service, gate *schedule.Gate) *RootUI {
	rui := &RootUI{
		app:         app,
		window:      window,
		settings:    settings,
		checker:     checker,
		downloadSvc: downloadSvc,
		gate:        gate,
	}

	rui.createUI()

	downloadSvc.SetUpdateCallback(rui.onTaskUpdate)
	gate.SetFireCallback(func() {
		// Fires on the polling goroutine
		go rui.RunCheck()
	})

	if settings.Get().MinimizeToTray {
		window.SetCloseIntercept(window.Hide)
	}

	return rui
}

// createUI creates the main window layout
func (rui *RootUI) createUI() {
	rui.installedLabel = widget.NewLabel(LabelUnknown)
	rui.latestLabel = widget.NewLabel(LabelUnknown)
	rui.statusLabel = widget.NewLabel("Ready")
	rui.nextCheckLabel = widget.NewLabel(LabelNever)

	rui.progressBar = widget.NewProgressBar()
	rui.progressLabel = widget.NewLabel("")

	rui.checkBtn = widget.NewButton("Check Now", rui.OnCheckNow)
	rui.downloadBtn = widget.NewButton("Download Update", rui.onDownload)
	rui.downloadBtn.Disable()
	rui.cancelBtn = widget.NewButton("Cancel", rui.onCancel)
	rui.cancelBtn.Disable()

	settingsBtn := widget.NewButton("Options…", func() {
		NewSettingsDialog(rui.settings, rui.gate, rui.window, rui.refreshNextCheck).Show()
	})

	versions := widget.NewForm(
		widget.NewFormItem("Installed version", rui.installedLabel),
		widget.NewFormItem("Latest version", rui.latestLabel),
		widget.NewFormItem("Next scheduled check", rui.nextCheckLabel),
	)

	rui.window.SetContent(container.NewVBox(
		versions,
		widget.NewSeparator(),
		rui.statusLabel,
		rui.progressBar,
		rui.progressLabel,
		container.NewHBox(rui.checkBtn, rui.downloadBtn, rui.cancelBtn, settingsBtn),
	))

	rui.refreshNextCheck()
}

// OnCheckNow handles the manual check action from the button and the tray.
// When the gate is armed it goes through TriggerNow so the manual check
// also counts as today's scheduled one.
func (rui *RootUI) OnCheckNow() {
	if rui.gate.IsEnabled() {
		rui.gate.TriggerNow(time.Now())
		return
	}
	go rui.RunCheck()
}

// RunCheck performs one update check on the calling goroutine and updates
// the window. Overlapping checks are coalesced.
func (rui *RootUI) RunCheck() {
	rui.mu.Lock()
	if rui.checking {
		rui.mu.Unlock()
		return
	}
	rui.checking = true
	rui.mu.Unlock()

	defer func() {
		rui.mu.Lock()
		rui.checking = false
		rui.mu.Unlock()
	}()

	fyne.Do(func() {
		rui.statusLabel.SetText("Checking for updates…")
		rui.checkBtn.Disable()
	})

	ctx, cancel := context.WithTimeout(context.Background(), CheckTimeout)
	defer cancel()

	installed, latest, available := rui.checker.CheckForUpdates(ctx)

	rui.mu.Lock()
	rui.latest = latest
	rui.mu.Unlock()

	// Record the date with the gate too, so a check run while the gate is
	// disarmed still suppresses a second scheduled check the same day
	today := time.Now().Format(schedule.DateLayout)
	if err := rui.settings.SetLastCheckDate(today); err != nil {
		log.Printf("Failed to persist last check date: %v", err)
	}
	rui.gate.SetLastFired(today)

	fyne.Do(func() {
		rui.checkBtn.Enable()
		rui.installedLabel.SetText(versionText(installed, LabelNotDetected))
		rui.latestLabel.SetText(versionText(latest, LabelUnknown))
		rui.refreshNextCheck()

		switch {
		case latest == nil:
			rui.statusLabel.SetText("Could not reach python.org")
		case available:
			rui.statusLabel.SetText(fmt.Sprintf("Update available: Python %s", latest))
			rui.downloadBtn.Enable()
		default:
			rui.statusLabel.SetText("Python is up to date")
			rui.downloadBtn.Disable()
		}
	})

	if available && rui.settings.Get().AutoUpdateEnabled && rui.settings.Get().AutoInstallEnabled {
		rui.startDownload(*latest)
	}
}

// onDownload handles the download button
func (rui *RootUI) onDownload() {
	rui.mu.Lock()
	latest := rui.latest
	rui.mu.Unlock()

	if latest == nil {
		return
	}
	go rui.startDownload(*latest)
}

// startDownload resolves the installer URL and begins the transfer
func (rui *RootUI) startDownload(v model.PythonVersion) {
	ctx, cancel := context.WithTimeout(context.Background(), CheckTimeout)
	defer cancel()

	url, err := rui.checker.DownloadURL(ctx, v)
	if err != nil {
		log.Printf("Installer URL for %s unavailable: %v", v, err)
		fyne.Do(func() {
			rui.statusLabel.SetText("Installer not available for this release")
		})
		return
	}

	if _, err := rui.downloadSvc.Begin(url, v); err != nil {
		log.Printf("Could not start download: %v", err)
		fyne.Do(func() {
			rui.statusLabel.SetText(err.Error())
		})
	}
}

// onCancel handles the cancel button
func (rui *RootUI) onCancel() {
	if err := rui.downloadSvc.Stop(); err != nil {
		log.Printf("Cancel failed: %v", err)
	}
}

// onTaskUpdate receives task state from the download worker goroutine
func (rui *RootUI) onTaskUpdate(task *model.UpdateTask) {
	fyne.Do(func() {
		switch task.Status {
		case model.TaskStatusDownloading:
			rui.cancelBtn.Enable()
			rui.downloadBtn.Disable()
			rui.progressBar.SetValue(task.Progress())
			rui.progressLabel.SetText(task.SizeString())
			rui.statusLabel.SetText(fmt.Sprintf("Downloading Python %s…", task.Version))
		case model.TaskStatusStopping:
			rui.statusLabel.SetText("Cancelling…")
		case model.TaskStatusStopped:
			rui.resetTransferWidgets()
			rui.statusLabel.SetText("Download cancelled")
			rui.downloadBtn.Enable()
		case model.TaskStatusError:
			rui.resetTransferWidgets()
			rui.statusLabel.SetText(fmt.Sprintf("Download failed: %s", task.LastError))
			rui.downloadBtn.Enable()
		case model.TaskStatusCompleted:
			rui.cancelBtn.Disable()
			rui.progressBar.SetValue(1)
			rui.statusLabel.SetText(fmt.Sprintf("Downloaded Python %s", task.Version))
		}
	})

	if task.Status == model.TaskStatusCompleted {
		rui.onDownloadCompleted(task)
	}
}

// onDownloadCompleted verifies the installer and launches it elevated
func (rui *RootUI) onDownloadCompleted(task *model.UpdateTask) {
	if !rui.downloadSvc.Verify(task.OutputPath, "") {
		fyne.Do(func() {
			rui.statusLabel.SetText("Downloaded installer failed verification")
		})
		rui.downloadSvc.Cleanup()
		return
	}

	launched := installer.RunElevated(task.OutputPath, installer.DefaultOptions())
	fyne.Do(func() {
		if launched {
			rui.statusLabel.SetText(fmt.Sprintf("Installer for Python %s started", task.Version))
		} else {
			rui.statusLabel.SetText(fmt.Sprintf("Installer saved to %s", task.OutputPath))
		}
	})
}

// refreshNextCheck updates the next scheduled check label; must run on the
// UI goroutine
func (rui *RootUI) refreshNextCheck() {
	next, ok := rui.gate.NextFiring(time.Now())
	if !ok {
		rui.nextCheckLabel.SetText(LabelNever)
		return
	}
	rui.nextCheckLabel.SetText(next.Format("2006-01-02 15:04"))
}

func (rui *RootUI) resetTransferWidgets() {
	rui.cancelBtn.Disable()
	rui.progressBar.SetValue(0)
	rui.progressLabel.SetText("")
}

func versionText(v *model.PythonVersion, fallback string) string {
	if v == nil {
		return fallback
	}
	return v.String()
}
