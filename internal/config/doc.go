package config

// Package config persists application settings as a flat JSON record in the
// per-user configuration directory. A missing or malformed settings file
// falls back to built-in defaults without error; every setter writes the
// record back immediately.
