package version

// Package version discovers the installed CPython version, looks up the
// latest stable release on python.org, resolves the matching Windows
// installer URL, and decides whether an update is available. Lookup
// failures are expected, recoverable conditions: callers treat any error
// as "latest version unavailable" and carry on.
