package installer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Options control how the CPython installer is invoked.
type Options struct {
	// Silent runs the installer with no UI at all; otherwise only a
	// progress bar is shown (/passive).
	Silent bool

	// AddToPath prepends the new install to PATH.
	AddToPath bool

	// AllUsers installs machine-wide, which requires elevation.
	AllUsers bool
}

// DefaultOptions is the configuration used for one-click installs.
func DefaultOptions() Options {
	return Options{AddToPath: true}
}

// BuildArgs assembles the installer command line for the given options.
func BuildArgs(opts Options) []string {
	args := make([]string, 0, 8)

	if opts.Silent {
		args = append(args, "/quiet")
	} else {
		args = append(args, "/passive")
	}

	if opts.AddToPath {
		args = append(args, "PrependPath=1")
	}

	if opts.AllUsers {
		args = append(args, "InstallAllUsers=1")
	} else {
		args = append(args, "InstallAllUsers=0")
	}

	args = append(args,
		"Include_test=0",
		"Include_doc=0",
		"Include_launcher=1",
		"InstallLauncherAllUsers=1",
	)
	return args
}

// Run executes the installer without requesting elevation and waits for it
// to finish. AllUsers installs are refused unless the process is already
// elevated.
func Run(ctx context.Context, installerPath string, opts Options) error {
	if _, err := os.Stat(installerPath); err != nil {
		return fmt.Errorf("installer not found: %w", err)
	}

	if opts.AllUsers && !IsAdmin() {
		return fmt.Errorf("installing for all users requires administrator privileges")
	}

	cmd := exec.CommandContext(ctx, installerPath, BuildArgs(opts)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("installer failed: %w", err)
	}
	return nil
}

// RunElevated launches the installer through the platform shell with an
// elevation request and returns once the launch is accepted or refused.
// It reports launch success only; the install outcome is not tracked.
func RunElevated(installerPath string, opts Options) bool {
	if _, err := os.Stat(installerPath); err != nil {
		return false
	}
	return shellExecuteElevated(installerPath, strings.Join(BuildArgs(opts), " "))
}
