package model

// Package model defines domain data structures used across the app: Python
// version values, the update download task, and status enums. Structures are
// designed for direct binding in the UI and explicit state transitions.
