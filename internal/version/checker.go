package version

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/pyget/py-updater/internal/model"
)

// Python.org endpoints
const (
	DefaultDownloadsURL = "https://www.python.org/downloads/"
	DefaultReleaseBase  = "https://www.python.org/ftp/python"
)

// Timeouts
const (
	DownloadsPageTimeout = 30 * time.Second
	HeadProbeTimeout     = 10 * time.Second
	LauncherTimeout      = 10 * time.Second
)

const userAgent = "py-updater/1.0"

var (
	// e.g. "Download Python 3.12.1" on the downloads page
	latestPattern = regexp.MustCompile(`Download Python (\d+)\.(\d+)\.(\d+)`)

	// e.g. "Python 3.12.1" from `python --version`
	launcherPattern = regexp.MustCompile(`Python (\d+)\.(\d+)\.(\d+)`)
)

// Checker looks up installed and latest Python versions. The endpoint
// fields default to python.org and exist so tests can point the checker at
// a local origin.
type Checker struct {
	DownloadsURL string
	ReleaseBase  string

	client *http.Client
}

// NewChecker creates a checker against the python.org endpoints.
func NewChecker() *Checker {
	return &Checker{
		DownloadsURL: DefaultDownloadsURL,
		ReleaseBase:  DefaultReleaseBase,
		client:       &http.Client{Timeout: DownloadsPageTimeout},
	}
}

// Latest fetches the downloads page and extracts the most recent stable
// release version advertised there.
func (c *Checker) Latest(ctx context.Context) (*model.PythonVersion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch downloads page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloads page returned status %s", resp.Status)
	}

	// The version banner sits near the top of the page; cap the read so a
	// huge response cannot balloon memory.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read downloads page: %w", err)
	}

	match := latestPattern.FindSubmatch(body)
	if match == nil {
		return nil, fmt.Errorf("no release version found on downloads page")
	}

	v, err := model.ParseVersion(fmt.Sprintf("%s.%s.%s", match[1], match[2], match[3]))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DownloadURL resolves the 64-bit Windows installer URL for the given
// release and probes it with a HEAD request.
func (c *Checker) DownloadURL(ctx context.Context, v model.PythonVersion) (string, error) {
	url := fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.ReleaseBase, "/"), v.String(), v.InstallerFilename())

	ctx, cancel := context.WithTimeout(ctx, HeadProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to probe installer URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("installer URL %s returned status %s", url, resp.Status)
	}
	return url, nil
}

// Installed returns the Python version available on this machine, or nil
// when none can be found. The Windows `py` launcher is preferred, with a
// plain `python` invocation as fallback.
func (c *Checker) Installed() *model.PythonVersion {
	for _, argv := range [][]string{
		{"py", "-c", "import sys; print('Python %d.%d.%d' % sys.version_info[:3])"},
		{"python", "--version"},
		{"python3", "--version"},
	} {
		if v := runVersionCommand(argv); v != nil {
			return v
		}
	}
	return nil
}

// IsUpdateAvailable reports whether latest is strictly newer than
// installed.
func IsUpdateAvailable(installed, latest model.PythonVersion) bool {
	return semver.Compare(latest.Semver(), installed.Semver()) > 0
}

// CheckForUpdates combines installed-version discovery and the latest
// release lookup. available is false unless both versions are known.
func (c *Checker) CheckForUpdates(ctx context.Context) (installed, latest *model.PythonVersion, available bool) {
	installed = c.Installed()

	latest, err := c.Latest(ctx)
	if err != nil {
		return installed, nil, false
	}

	if installed != nil {
		available = IsUpdateAvailable(*installed, *latest)
	}
	return installed, latest, available
}

func runVersionCommand(argv []string) *model.PythonVersion {
	ctx, cancel := context.WithTimeout(context.Background(), LauncherTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).Output()
	if err != nil {
		return nil
	}
	return ParseVersionOutput(string(out))
}

// ParseVersionOutput extracts a version from interpreter output such as
// "Python 3.12.1".
func ParseVersionOutput(output string) *model.PythonVersion {
	match := launcherPattern.FindStringSubmatch(output)
	if match == nil {
		return nil
	}
	v, err := model.ParseVersion(fmt.Sprintf("%s.%s.%s", match[1], match[2], match[3]))
	if err != nil {
		return nil
	}
	return &v
}
