package model

// TaskStatus represents the status of an update download task
type TaskStatus string

const (
	// TaskStatusPending means the task is created but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusDownloading means the download is in progress
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusStopping means a cancel was requested and the worker has not
	// yet observed it
	TaskStatusStopping TaskStatus = "Stopping"

	// TaskStatusStopped means the task was cancelled by the user
	TaskStatusStopped TaskStatus = "Stopped"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusDownloading || ts == TaskStatusStopping
}

// IsFinished returns true if the task is in a finished state (completed,
// stopped, or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusStopped || ts == TaskStatusError
}
