package download

// Package download implements streamed installer downloads: fixed-size
// chunked transfer with progress reporting, cooperative cancellation,
// SHA-256 verification, and cleanup of the fetched file. Service wraps the
// transfer in the single background-task lifecycle the UI drives.
