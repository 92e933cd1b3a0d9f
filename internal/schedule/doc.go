package schedule

// Package schedule implements the daily update-check gate: a target
// time-of-day, an at-most-once-per-calendar-date firing rule, and a
// per-minute polling loop that signals the app when a scheduled check is
// due. The gate does no I/O; persisting the last-fired date is the
// caller's job.
