package preflight

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"pilesort/internal/fileutil"
)

// Configuration and validation errors abort a run before any clustering work
// begins, so every check here surfaces a message that names the offending
// path or program.

// CheckSource verifies that path exists, is a directory, and is readable.
func CheckSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("source %q: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %q is not a directory", path)
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return fmt.Errorf("source %q: insufficient permissions: %w", path, err)
	}
	return nil
}

// EnsureDestination creates path if missing and verifies it is an empty,
// writable directory. Refusing a non-empty destination keeps reruns from
// colliding with previously materialized piles.
func EnsureDestination(path string) error {
	if err := fileutil.EnsureDir(path); err != nil {
		return err
	}
	empty, err := fileutil.IsDirEmpty(path)
	if err != nil {
		return fmt.Errorf("destination %q: %w", path, err)
	}
	if !empty {
		return fmt.Errorf("destination %q is not empty; pass an empty or non-existent directory", path)
	}
	if err := unix.Access(path, unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("destination %q: insufficient permissions: %w", path, err)
	}
	return nil
}

// DefaultSibling derives a destination next to base when none was given:
// "/photos/vacation" becomes "/photos/vacation-suffix".
func DefaultSibling(base, suffix string) string {
	trimmed := strings.TrimRight(base, "/")
	if trimmed == "" {
		return suffix
	}
	return trimmed + "-" + suffix
}

// ResolveOpener locates the requested opener executable. An empty name means
// the OS default opener and resolves to the empty string.
func ResolveOpener(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", nil
	}
	resolved, err := exec.LookPath(name)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("opener %q not found in PATH", name)
		}
		return "", fmt.Errorf("opener %q: %w", name, err)
	}
	return resolved, nil
}
