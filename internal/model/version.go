package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PythonVersion represents a CPython release version.
type PythonVersion struct {
	Major int
	Minor int
	Patch int
}

// String returns the dotted version string, e.g. "3.12.1".
func (v PythonVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Semver returns the version in "vX.Y.Z" form for semantic-version
// comparison.
func (v PythonVersion) Semver() string {
	return "v" + v.String()
}

// InstallerFilename returns the name of the 64-bit Windows installer
// published for this release, e.g. "python-3.12.1-amd64.exe".
func (v PythonVersion) InstallerFilename() string {
	return fmt.Sprintf("python-%s-amd64.exe", v.String())
}

// ParseVersion parses a dotted version string ("3.12.1" or "3.12") into a
// PythonVersion. A missing patch component defaults to zero.
func ParseVersion(s string) (PythonVersion, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return PythonVersion{}, fmt.Errorf("invalid version string: %q", s)
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return PythonVersion{}, fmt.Errorf("invalid version component %q in %q", part, s)
		}
		nums[i] = n
	}

	return PythonVersion{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}
