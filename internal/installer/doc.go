package installer

// Package installer launches the downloaded CPython installer: assembling
// the command line for silent or passive installs, detecting whether the
// process is elevated, and requesting elevation from the Windows shell.
// Launch success is reported as a boolean at the app boundary; the
// installer's own UI takes over from there.
