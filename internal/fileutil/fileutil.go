package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}

// IsDirEmpty reports whether dir contains no entries.
func IsDirEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.ReadDir(1)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// LinkFile hard-links src to dst. Hard links keep materialization free of
// data copies but fail across devices; the caller surfaces that as fatal.
func LinkFile(src, dst string) error {
	if err := os.Link(src, dst); err != nil {
		return fmt.Errorf("link %q to %q: %w", src, dst, err)
	}
	return nil
}

// UniqueName returns a path in dir built from stem and ext that does not
// collide with an existing file, appending -1, -2, ... as needed. ext is
// used verbatim, so pass it with its leading dot.
func UniqueName(dir, stem, ext string) string {
	candidate := filepath.Join(dir, stem+ext)
	for n := 1; ; n++ {
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, n, ext))
	}
}

// SplitName separates a base file name into stem and extension, keeping the
// dot on the extension. Files without an extension get an empty ext.
func SplitName(base string) (stem, ext string) {
	ext = filepath.Ext(base)
	stem = strings.TrimSuffix(base, ext)
	if stem == "" {
		// Dotfiles like ".nomedia" keep their whole name as the stem.
		return base, ""
	}
	return stem, ext
}
