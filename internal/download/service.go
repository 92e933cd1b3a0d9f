package download

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/pyget/py-updater/internal/model"
)

// Service runs installer downloads in the background. At most one task is
// in flight at a time; state changes fan out to the UI through the update
// callback.
type Service struct {
	mu          sync.RWMutex
	task        *model.UpdateTask
	downloader  *Downloader
	downloadDir string
	onUpdate    func(*model.UpdateTask) // callback for UI updates
}

// NewService creates a download service saving installers into downloadDir.
func NewService(fs afero.Fs, downloadDir string) *Service {
	return &Service{
		downloader:  NewDownloader(fs),
		downloadDir: downloadDir,
	}
}

// SetUpdateCallback sets the callback function for task updates. The
// callback runs on the worker goroutine; UI callers must marshal onto the
// main loop themselves.
func (s *Service) SetUpdateCallback(callback func(*model.UpdateTask)) {
	s.onUpdate = callback
}

// Begin starts downloading the installer for the given release. It fails
// while another download is still active.
func (s *Service) Begin(url string, v model.PythonVersion) (*model.UpdateTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Pending counts as in flight: the worker goroutine may not have
	// reached its Downloading transition yet
	if s.task != nil && !s.task.Status.IsFinished() {
		return nil, fmt.Errorf("a download is already in progress for %s", s.task.Version)
	}

	task := &model.UpdateTask{
		ID:        uuid.NewString(),
		URL:       url,
		Version:   v,
		Status:    model.TaskStatusPending,
		StartedAt: time.Now(),
	}
	s.task = task

	go s.run(task)
	return task, nil
}

// Task returns the current task, or nil if none was started yet.
func (s *Service) Task() *model.UpdateTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.task
}

// Stop requests cancellation of the active download. The worker observes
// the flag between chunks and removes the partial file.
func (s *Service) Stop() error {
	s.mu.Lock()
	if s.task == nil || !s.task.Status.IsActive() {
		s.mu.Unlock()
		return fmt.Errorf("no active download to stop")
	}
	task := s.task
	task.Status = model.TaskStatusStopping
	s.mu.Unlock()

	s.downloader.Cancel()
	s.notifyUpdate(task)
	return nil
}

// Verify checks the downloaded installer against an optional SHA-256 hash.
func (s *Service) Verify(path, expectedHash string) bool {
	return s.downloader.Verify(path, expectedHash)
}

// Cleanup removes the downloaded installer if it is still present.
func (s *Service) Cleanup() {
	s.downloader.Cleanup()
}

// run performs the transfer on its own goroutine. The task is mutated only
// here (single writer); readers go through the service mutex.
func (s *Service) run(task *model.UpdateTask) {
	s.mu.Lock()
	task.Status = model.TaskStatusDownloading
	s.mu.Unlock()
	s.notifyUpdate(task)

	path, err := s.downloader.Download(context.Background(), task.URL, task.Version.InstallerFilename(), s.downloadDir,
		func(downloaded, total int64) {
			s.mu.Lock()
			task.Downloaded = downloaded
			task.Total = total
			s.mu.Unlock()
			s.notifyUpdate(task)
		})

	s.mu.Lock()
	if err != nil {
		if IsCancelled(err) {
			task.Status = model.TaskStatusStopped
			log.Printf("Download of %s cancelled", task.Version)
		} else {
			task.Status = model.TaskStatusError
			task.LastError = err.Error()
			log.Printf("Download of %s failed: %v", task.Version, err)
		}
	} else {
		task.Status = model.TaskStatusCompleted
		task.OutputPath = path
		log.Printf("Downloaded %s to %s", task.Version, path)
	}
	task.FinishedAt = time.Now()
	s.mu.Unlock()

	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.UpdateTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}
