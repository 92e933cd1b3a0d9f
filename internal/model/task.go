package model

import (
	"fmt"
	"time"
)

// UpdateTask represents a single installer download. It is created when a
// transfer is requested and mutated only by the worker goroutine that owns
// the transfer.
type UpdateTask struct {
	ID         string
	URL        string
	Version    PythonVersion
	Status     TaskStatus
	Downloaded int64 // bytes written so far
	Total      int64 // expected size in bytes, 0 when unknown
	OutputPath string
	LastError  string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Progress returns the fraction transferred in [0.0, 1.0], or 0 when the
// total size is unknown.
func (t *UpdateTask) Progress() float64 {
	if t.Total <= 0 {
		return 0
	}
	p := float64(t.Downloaded) / float64(t.Total)
	if p > 1 {
		p = 1
	}
	return p
}

// Percent returns the progress as a whole percentage.
func (t *UpdateTask) Percent() int {
	return int(t.Progress() * 100)
}

// SizeString returns the transfer state in human-readable megabytes, e.g.
// "12.5 / 27.3 MB", or just the downloaded amount when the total is unknown.
func (t *UpdateTask) SizeString() string {
	const mb = 1024 * 1024
	if t.Total <= 0 {
		return fmt.Sprintf("%.1f MB", float64(t.Downloaded)/mb)
	}
	return fmt.Sprintf("%.1f / %.1f MB", float64(t.Downloaded)/mb, float64(t.Total)/mb)
}
