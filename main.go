package main

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/afero"

	"github.com/pyget/py-updater/internal/config"
	"github.com/pyget/py-updater/internal/download"
	"github.com/pyget/py-updater/internal/platform"
	"github.com/pyget/py-updater/internal/schedule"
	"github.com/pyget/py-updater/internal/ui"
	"github.com/pyget/py-updater/internal/version"
)

// Version is set during build via -ldflags "-X main.appVersion=X.Y.Z"
var appVersion = "dev"

const (
	AppID   = "com.pyget.py-updater"
	AppName = "Python Updater"

	WindowWidth  = 480
	WindowHeight = 320
)

func main() {
	fmt.Printf("%s v%s starting...\n", AppName, appVersion)

	myApp := app.NewWithID(AppID)

	windowTitle := fmt.Sprintf("%s v%s", AppName, appVersion)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Initialize services
	fs := afero.NewOsFs()
	configDir, err := platform.ConfigDir()
	if err != nil {
		log.Printf("failed to resolve config dir: %v", err)
	}
	settings := config.NewManager(fs, configDir)

	checker := version.NewChecker()
	downloadSvc := download.NewService(fs, platform.DefaultDownloadDir())

	gate := schedule.NewGate()
	saved := settings.Get()
	gate.SetTarget(saved.ScheduledTime)
	gate.SetLastFired(saved.LastCheckDate)

	// Create and setup UI
	rootUI := ui.NewRootUI(myWindow, myApp, settings, checker, downloadSvc, gate)
	ui.SetupTray(myApp, myWindow, rootUI.OnCheckNow)

	if saved.AutoUpdateEnabled {
		gate.Start()
	}

	// Show and run
	if saved.StartMinimized {
		myApp.Run()
	} else {
		myWindow.ShowAndRun()
	}
}
