package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
)

// ChunkSize is the transfer buffer size; progress is reported and the
// cancellation flag polled once per chunk.
const ChunkSize = 1024 * 1024

// RequestTimeout bounds the initial request up to response headers; the
// body itself streams for as long as the transfer takes.
const RequestTimeout = 30 * time.Second

// ErrCancelled marks a transfer aborted by Cancel.
var ErrCancelled = errors.New("download cancelled")

// DownloadError is returned for any failed transfer: network or IO
// failure, a non-success HTTP status, or user cancellation.
type DownloadError struct {
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed: %v", e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// IsCancelled reports whether err is a DownloadError caused by
// cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// ProgressFunc receives (bytes downloaded so far, total bytes). Total is 0
// when the origin did not supply a Content-Length.
type ProgressFunc func(downloaded, total int64)

// Downloader streams a remote file to local storage. Cancel may be called
// from any goroutine; the streaming loop observes the flag between chunks,
// so cancellation latency is at most one chunk's transfer time.
type Downloader struct {
	fs        afero.Fs
	client    *http.Client
	cancelled atomic.Bool

	mu           sync.Mutex
	downloadPath string
}

// NewDownloader creates a downloader writing through the given filesystem.
func NewDownloader(fs afero.Fs) *Downloader {
	return &Downloader{
		fs: fs,
		client: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: RequestTimeout},
		},
	}
}

// Cancel requests cooperative cancellation of the in-flight transfer.
func (d *Downloader) Cancel() {
	d.cancelled.Store(true)
}

// LastDownloadPath returns the destination of the most recent successful
// download, or "" if none.
func (d *Downloader) LastDownloadPath() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.downloadPath
}

// Download fetches url into saveDir/filename, streaming in ChunkSize
// pieces and invoking progress after each chunk. On cancellation or
// failure the partial destination file is removed before the error is
// returned, so no partial artifact survives.
func (d *Downloader) Download(ctx context.Context, url, filename, saveDir string, progress ProgressFunc) (string, error) {
	d.cancelled.Store(false)

	if saveDir == "" {
		saveDir = os.TempDir()
	}
	if err := d.fs.MkdirAll(saveDir, 0755); err != nil {
		return "", &DownloadError{Err: fmt.Errorf("failed to create save directory: %w", err)}
	}
	destPath := filepath.Join(saveDir, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &DownloadError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", &DownloadError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &DownloadError{Err: fmt.Errorf("unexpected HTTP status: %s", resp.Status)}
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	out, err := d.fs.Create(destPath)
	if err != nil {
		return "", &DownloadError{Err: fmt.Errorf("failed to create destination file: %w", err)}
	}

	var downloaded int64
	buf := make([]byte, ChunkSize)

	for {
		if d.cancelled.Load() {
			out.Close()
			d.fs.Remove(destPath)
			return "", &DownloadError{Err: ErrCancelled}
		}

		n, rerr := io.ReadFull(resp.Body, buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				out.Close()
				d.fs.Remove(destPath)
				return "", &DownloadError{Err: fmt.Errorf("failed to write chunk: %w", werr)}
			}
			downloaded += int64(n)
			if progress != nil {
				progress(downloaded, total)
			}
		}

		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			break
		}
		if rerr != nil {
			out.Close()
			d.fs.Remove(destPath)
			return "", &DownloadError{Err: fmt.Errorf("failed to read response body: %w", rerr)}
		}
	}

	if err := out.Close(); err != nil {
		d.fs.Remove(destPath)
		return "", &DownloadError{Err: fmt.Errorf("failed to close destination file: %w", err)}
	}

	d.mu.Lock()
	d.downloadPath = destPath
	d.mu.Unlock()
	return destPath, nil
}

// Verify checks the downloaded file. It returns false if the file is
// missing or empty. When expectedHash is non-empty, the file's SHA-256
// digest is compared to it case-insensitively; otherwise existence and a
// non-zero size are enough.
func (d *Downloader) Verify(path, expectedHash string) bool {
	info, err := d.fs.Stat(path)
	if err != nil || info.Size() == 0 {
		return false
	}

	if expectedHash == "" {
		return true
	}

	f, err := d.fs.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return false
	}
	return strings.EqualFold(hex.EncodeToString(h.Sum(nil)), expectedHash)
}

// Cleanup removes the last downloaded file if it is still present.
// Idempotent and never fails.
func (d *Downloader) Cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.downloadPath == "" {
		return
	}
	d.fs.Remove(d.downloadPath)
	d.downloadPath = ""
}
