package schedule

import (
	"testing"
	"time"
)

func armedGate(t *testing.T, target string) *Gate {
	t.Helper()
	g := NewGate()
	g.SetTarget(target)
	g.Start()
	t.Cleanup(g.Stop)
	return g
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 8, 29, hour, minute, 0, 0, time.Local)
}

func TestPollFiresOncePerDay(t *testing.T) {
	g := armedGate(t, "09:00")
	g.SetLastFired("2026-08-28") // yesterday

	var fired int
	g.SetFireCallback(func() { fired++ })

	if !g.Poll(at(9, 1)) {
		t.Fatal("Expected poll at 09:01 to fire")
	}
	if fired != 1 {
		t.Errorf("Expected 1 firing, got %d", fired)
	}
	if g.LastFired() != "2026-08-29" {
		t.Errorf("Expected last-fired updated to today, got %q", g.LastFired())
	}

	// A later poll the same day must not fire again, even inside a window
	if g.Poll(at(9, 30)) {
		t.Error("Expected no second firing the same day")
	}
	if fired != 1 {
		t.Errorf("Expected 1 firing total, got %d", fired)
	}
}

func TestPollOutsideWindow(t *testing.T) {
	g := armedGate(t, "09:00")

	if g.Poll(at(8, 59)) {
		t.Error("Expected no firing before the target")
	}
	if g.Poll(at(9, 2)) {
		t.Error("Expected no firing at/after target+tolerance")
	}
	if g.Poll(at(15, 0)) {
		t.Error("Expected no firing long after the window")
	}
}

func TestPollExactTarget(t *testing.T) {
	g := armedGate(t, "09:00")

	if !g.Poll(at(9, 0)) {
		t.Error("Expected firing exactly at the target")
	}
}

func TestPollDisabled(t *testing.T) {
	g := NewGate()
	g.SetTarget("09:00")

	if g.Poll(at(9, 0)) {
		t.Error("Expected no firing while disarmed")
	}
}

func TestPollUnconfigured(t *testing.T) {
	g := NewGate()
	g.Start()
	defer g.Stop()

	if g.Poll(at(9, 0)) {
		t.Error("Expected no firing without a target")
	}
}

func TestCustomTolerance(t *testing.T) {
	g := NewGate(WithTolerance(10 * time.Minute))
	g.SetTarget("09:00")
	g.Start()
	defer g.Stop()

	if !g.Poll(at(9, 9)) {
		t.Error("Expected firing inside the widened window")
	}

	g.SetLastFired("")
	if g.Poll(at(9, 10)) {
		t.Error("Expected no firing at the window's end")
	}
}

func TestNextFiring(t *testing.T) {
	g := armedGate(t, "09:00")

	// Before the target, today unfired: today's 09:00
	next, ok := g.NextFiring(at(8, 0))
	if !ok {
		t.Fatal("Expected a next firing instant")
	}
	if want := at(9, 0); !next.Equal(want) {
		t.Errorf("Expected next firing %v, got %v", want, next)
	}

	// Today already fired: tomorrow's 09:00
	g.SetLastFired("2026-08-29")
	next, ok = g.NextFiring(at(9, 30))
	if !ok {
		t.Fatal("Expected a next firing instant")
	}
	if want := at(9, 0).AddDate(0, 0, 1); !next.Equal(want) {
		t.Errorf("Expected next firing %v, got %v", want, next)
	}

	// Target passed but unfired: also tomorrow
	g.SetLastFired("")
	next, _ = g.NextFiring(at(10, 0))
	if want := at(9, 0).AddDate(0, 0, 1); !next.Equal(want) {
		t.Errorf("Expected next firing %v, got %v", want, next)
	}

	// Fired earlier today via TriggerNow, target still ahead: tomorrow
	g.SetLastFired("2026-08-29")
	next, _ = g.NextFiring(at(8, 0))
	if want := at(9, 0).AddDate(0, 0, 1); !next.Equal(want) {
		t.Errorf("Expected next firing %v, got %v", want, next)
	}
}

func TestNextFiringDisabled(t *testing.T) {
	g := NewGate()
	g.SetTarget("09:00")

	if _, ok := g.NextFiring(at(8, 0)); ok {
		t.Error("Expected no next firing while disarmed")
	}
}

func TestTriggerNowSuppressesScheduledFiring(t *testing.T) {
	g := armedGate(t, "09:00")

	var fired int
	g.SetFireCallback(func() { fired++ })

	g.TriggerNow(at(7, 30))
	if fired != 1 {
		t.Fatalf("Expected immediate firing, got %d", fired)
	}
	if g.LastFired() != "2026-08-29" {
		t.Errorf("Expected last-fired set to today, got %q", g.LastFired())
	}

	// The scheduled window later the same day must stay quiet
	if g.Poll(at(9, 1)) {
		t.Error("Expected scheduled firing suppressed after TriggerNow")
	}
	if fired != 1 {
		t.Errorf("Expected 1 firing total, got %d", fired)
	}
}

func TestSetTargetFallback(t *testing.T) {
	g := NewGate()
	g.SetTarget("garbage")
	g.Start()
	defer g.Stop()

	// Bad input falls back to 09:00
	if !g.Poll(at(9, 0)) {
		t.Error("Expected fallback target of 09:00 to fire")
	}
}

func TestSetLastFiredRejectsBadDates(t *testing.T) {
	g := NewGate()
	g.SetLastFired("08/29/2026")
	if g.LastFired() != "" {
		t.Errorf("Expected bad date cleared, got %q", g.LastFired())
	}

	g.SetLastFired("2026-08-29")
	if g.LastFired() != "2026-08-29" {
		t.Errorf("Expected date kept, got %q", g.LastFired())
	}
}

func TestStartStopIdempotent(t *testing.T) {
	g := NewGate()
	g.SetTarget("09:00")

	g.Start()
	g.Start()
	if !g.IsEnabled() {
		t.Error("Expected gate armed after Start")
	}

	g.SetLastFired("2026-08-29")
	g.Stop()
	g.Stop()
	if g.IsEnabled() {
		t.Error("Expected gate disarmed after Stop")
	}

	// Stopping keeps the last-fired record
	if g.LastFired() != "2026-08-29" {
		t.Errorf("Expected last-fired preserved across Stop, got %q", g.LastFired())
	}
}
