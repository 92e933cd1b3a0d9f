package platform

// Package platform contains OS integration glue: per-user directory
// resolution, filesystem helpers, and registration of the app in the
// Windows autostart Run key.
