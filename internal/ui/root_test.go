package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/spf13/afero"

	"github.com/pyget/py-updater/internal/config"
	"github.com/pyget/py-updater/internal/download"
	"github.com/pyget/py-updater/internal/schedule"
	"github.com/pyget/py-updater/internal/version"
)

func newTestRootUI(t *testing.T) *RootUI {
	t.Helper()

	app := test.NewApp()
	window := app.NewWindow("test")
	fs := afero.NewMemMapFs()

	settings := config.NewManager(fs, "/config")
	gate := schedule.NewGate()
	gate.SetTarget(settings.Get().ScheduledTime)

	rui := NewRootUI(window, app, settings, version.NewChecker(), download.NewService(fs, "/dl"), gate)
	t.Cleanup(gate.Stop)
	return rui
}

func TestNewRootUI(t *testing.T) {
	rui := newTestRootUI(t)

	if rui.statusLabel.Text != "Ready" {
		t.Errorf("Expected initial status 'Ready', got %q", rui.statusLabel.Text)
	}
	if rui.installedLabel.Text != LabelUnknown {
		t.Errorf("Expected installed version %q, got %q", LabelUnknown, rui.installedLabel.Text)
	}
	if !rui.downloadBtn.Disabled() {
		t.Error("Expected download button disabled before a check")
	}
	if !rui.cancelBtn.Disabled() {
		t.Error("Expected cancel button disabled before a download")
	}
}

func TestNextCheckLabelFollowsGate(t *testing.T) {
	rui := newTestRootUI(t)

	// Gate disarmed: no next check
	if rui.nextCheckLabel.Text != LabelNever {
		t.Errorf("Expected %q, got %q", LabelNever, rui.nextCheckLabel.Text)
	}

	rui.gate.Start()
	rui.refreshNextCheck()
	if rui.nextCheckLabel.Text == LabelNever {
		t.Error("Expected a concrete next check time once armed")
	}
}

func TestManualCheckCountsAsScheduledCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a>Download Python 3.13.1</a>`))
	}))
	defer server.Close()

	rui := newTestRootUI(t)
	rui.checker.DownloadsURL = server.URL

	// Check while the gate is disarmed
	rui.RunCheck()

	today := time.Now().Format(schedule.DateLayout)
	if rui.gate.LastFired() != today {
		t.Fatalf("Expected gate last-fired %q after a manual check, got %q", today, rui.gate.LastFired())
	}

	// Arming the gate afterwards must not produce a second check today
	rui.gate.Start()
	now := time.Now()
	target := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location())
	if rui.gate.Poll(target) {
		t.Error("Expected no scheduled fire on the day of a manual check")
	}
}

func TestSettingsDialogLoadsRecord(t *testing.T) {
	app := test.NewApp()
	window := app.NewWindow("test")
	fs := afero.NewMemMapFs()

	settings := config.NewManager(fs, "/config")
	if err := settings.SetAutoUpdateEnabled(true); err != nil {
		t.Fatal(err)
	}
	if err := settings.SetScheduledTime("21:15"); err != nil {
		t.Fatal(err)
	}

	gate := schedule.NewGate()
	sd := NewSettingsDialog(settings, gate, window, nil)
	sd.Show()

	if !sd.autoUpdateCheck.Checked {
		t.Error("Expected auto update checkbox set from settings")
	}
	if sd.scheduledEntry.Text != "21:15" {
		t.Errorf("Expected scheduled time entry '21:15', got %q", sd.scheduledEntry.Text)
	}
}
