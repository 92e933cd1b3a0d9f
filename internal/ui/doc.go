package ui

// Package ui contains the Fyne-based desktop user interface: the main
// updater window, the options dialog, and the system tray presence. It
// wires the schedule gate and the download service to the widgets; worker
// callbacks are marshaled onto the UI loop with fyne.Do.
