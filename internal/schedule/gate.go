package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Defaults
const (
	DefaultTolerance    = 2 * time.Minute
	DefaultPollInterval = time.Minute
	DefaultHour         = 9
	DefaultMinute       = 0
)

// DateLayout is the calendar-date format used for the last-fired record.
const DateLayout = "2006-01-02"

// timeOfDay is a wall-clock target within a day.
type timeOfDay struct {
	hour   int
	minute int
}

func (t timeOfDay) minutes() int {
	return t.hour*60 + t.minute
}

// Gate decides when a scheduled daily check should fire. While armed it is
// polled once per DefaultPollInterval; a poll fires when the current
// time-of-day falls inside the tolerance window at or after the target and
// no firing has happened yet on that calendar date.
type Gate struct {
	mu        sync.Mutex
	target    *timeOfDay
	enabled   bool
	lastFired string // DateLayout, "" = never
	tolerance time.Duration

	onFire func()

	ticker *time.Ticker
	done   chan struct{}
}

// Option configures a Gate.
type Option func(*Gate)

// WithTolerance overrides the firing window width. The default of two
// minutes absorbs polling jitter without double-firing.
func WithTolerance(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.tolerance = d
		}
	}
}

// NewGate creates a disarmed gate.
func NewGate(opts ...Option) *Gate {
	g := &Gate{tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetFireCallback registers the function invoked on each firing. It runs
// on the polling goroutine; UI callers must marshal themselves.
func (g *Gate) SetFireCallback(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onFire = fn
}

// SetTarget parses an "HH:MM" string into the target time-of-day. Bad
// input falls back to 09:00 rather than leaving the gate unconfigured.
func (g *Gate) SetTarget(timeStr string) {
	hour, minute, err := parseTimeOfDay(timeStr)
	if err != nil {
		hour, minute = DefaultHour, DefaultMinute
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.target = &timeOfDay{hour: hour, minute: minute}
}

// SetLastFired restores the last-fired date from persisted state. Values
// that are not ISO dates clear the record.
func (g *Gate) SetLastFired(dateStr string) {
	if dateStr != "" {
		if _, err := time.Parse(DateLayout, dateStr); err != nil {
			dateStr = ""
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastFired = dateStr
}

// LastFired returns the recorded last-fired date, "" when never fired.
func (g *Gate) LastFired() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastFired
}

// IsEnabled reports whether the gate is armed.
func (g *Gate) IsEnabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

// Poll evaluates the firing rule at the given instant. It returns true and
// records now's date exactly when the gate is armed, no firing has
// happened on now's calendar date, and now's time-of-day lies within
// [target, target+tolerance).
func (g *Gate) Poll(now time.Time) bool {
	g.mu.Lock()

	if !g.enabled || g.target == nil {
		g.mu.Unlock()
		return false
	}

	today := now.Format(DateLayout)
	if g.lastFired == today {
		g.mu.Unlock()
		return false
	}

	current := timeOfDay{hour: now.Hour(), minute: now.Minute()}
	windowStart := g.target.minutes()
	windowEnd := windowStart + int(g.tolerance.Minutes())
	if current.minutes() < windowStart || current.minutes() >= windowEnd {
		g.mu.Unlock()
		return false
	}

	// Record the date before signaling so a re-entrant poll cannot
	// double-fire
	g.lastFired = today
	fire := g.onFire
	g.mu.Unlock()

	if fire != nil {
		fire()
	}
	return true
}

// NextFiring returns the next instant the gate is due, relative to now.
// It is a pure query: false when disarmed or unconfigured; today's target
// when that is still ahead and today has not fired; otherwise the target
// on the next calendar date.
func (g *Gate) NextFiring(now time.Time) (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.enabled || g.target == nil {
		return time.Time{}, false
	}

	todayTarget := time.Date(now.Year(), now.Month(), now.Day(), g.target.hour, g.target.minute, 0, 0, now.Location())
	if now.Before(todayTarget) && g.lastFired != now.Format(DateLayout) {
		return todayTarget, true
	}
	return todayTarget.AddDate(0, 0, 1), true
}

// TriggerNow fires immediately, bypassing the time-of-day check, and marks
// now's date as fired so the scheduled check does not run again the same
// day.
func (g *Gate) TriggerNow(now time.Time) {
	g.mu.Lock()
	g.lastFired = now.Format(DateLayout)
	fire := g.onFire
	g.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// Start arms the gate and begins the per-minute polling loop. Calling
// Start on an armed gate is a no-op.
func (g *Gate) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.enabled {
		return
	}
	g.enabled = true
	g.ticker = time.NewTicker(DefaultPollInterval)
	g.done = make(chan struct{})

	go g.loop(g.ticker, g.done)
}

// Stop disarms the gate and halts the polling loop. The last-fired date is
// kept. Calling Stop on a disarmed gate is a no-op.
func (g *Gate) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.enabled {
		return
	}
	g.enabled = false
	g.ticker.Stop()
	close(g.done)
	g.ticker = nil
	g.done = nil
}

func (g *Gate) loop(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case now := <-ticker.C:
			g.Poll(now)
		case <-done:
			return
		}
	}
}

func parseTimeOfDay(timeStr string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time string: %q", timeStr)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", timeStr)
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", timeStr)
	}
	return hour, minute, nil
}
