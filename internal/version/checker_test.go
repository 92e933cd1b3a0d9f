package version

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pyget/py-updater/internal/model"
)

func TestLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a class="button">Download Python 3.13.2</a></body></html>`)
	}))
	defer server.Close()

	checker := NewChecker()
	checker.DownloadsURL = server.URL

	latest, err := checker.Latest(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := model.PythonVersion{Major: 3, Minor: 13, Patch: 2}
	if *latest != want {
		t.Errorf("Expected %v, got %v", want, *latest)
	}
}

func TestLatestNoVersionOnPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>nothing to see</body></html>`)
	}))
	defer server.Close()

	checker := NewChecker()
	checker.DownloadsURL = server.URL

	if _, err := checker.Latest(context.Background()); err == nil {
		t.Error("Expected error when page has no version banner")
	}
}

func TestLatestNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	checker := NewChecker()
	checker.DownloadsURL = server.URL

	if _, err := checker.Latest(context.Background()); err == nil {
		t.Error("Expected error for non-OK status")
	}
}

func TestDownloadURL(t *testing.T) {
	var probedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("Expected HEAD request, got %s", r.Method)
		}
		probedPath = r.URL.Path
	}))
	defer server.Close()

	checker := NewChecker()
	checker.ReleaseBase = server.URL

	v := model.PythonVersion{Major: 3, Minor: 12, Patch: 1}
	url, err := checker.DownloadURL(context.Background(), v)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	wantPath := "/3.12.1/python-3.12.1-amd64.exe"
	if probedPath != wantPath {
		t.Errorf("Expected probe of %s, got %s", wantPath, probedPath)
	}
	if url != server.URL+wantPath {
		t.Errorf("Unexpected download URL: %s", url)
	}
}

func TestDownloadURLNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewChecker()
	checker.ReleaseBase = server.URL

	v := model.PythonVersion{Major: 3, Minor: 99, Patch: 0}
	if _, err := checker.DownloadURL(context.Background(), v); err == nil {
		t.Error("Expected error for missing installer")
	}
}

func TestIsUpdateAvailable(t *testing.T) {
	tests := []struct {
		installed model.PythonVersion
		latest    model.PythonVersion
		want      bool
	}{
		{model.PythonVersion{Major: 3, Minor: 12, Patch: 0}, model.PythonVersion{Major: 3, Minor: 12, Patch: 1}, true},
		{model.PythonVersion{Major: 3, Minor: 12, Patch: 1}, model.PythonVersion{Major: 3, Minor: 13, Patch: 0}, true},
		{model.PythonVersion{Major: 3, Minor: 12, Patch: 1}, model.PythonVersion{Major: 3, Minor: 12, Patch: 1}, false},
		{model.PythonVersion{Major: 3, Minor: 13, Patch: 0}, model.PythonVersion{Major: 3, Minor: 12, Patch: 9}, false},
		{model.PythonVersion{Major: 2, Minor: 7, Patch: 18}, model.PythonVersion{Major: 3, Minor: 0, Patch: 0}, true},
	}

	for _, tt := range tests {
		if got := IsUpdateAvailable(tt.installed, tt.latest); got != tt.want {
			t.Errorf("IsUpdateAvailable(%v, %v) = %v, want %v", tt.installed, tt.latest, got, tt.want)
		}
	}
}

func TestParseVersionOutput(t *testing.T) {
	if v := ParseVersionOutput("Python 3.12.1\n"); v == nil || *v != (model.PythonVersion{Major: 3, Minor: 12, Patch: 1}) {
		t.Errorf("Expected 3.12.1, got %v", v)
	}

	if v := ParseVersionOutput("command not found"); v != nil {
		t.Errorf("Expected nil for unparseable output, got %v", v)
	}
}
