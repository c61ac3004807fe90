package collect

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"pilesort/internal/fileutil"
	"pilesort/internal/imaging"
	"pilesort/internal/logging"
)

// stampLayout names collected files by capture time.
const stampLayout = "2006-01-02T15-04-05"

// Options controls how a sorted tree is flattened.
type Options struct {
	// KeepNames links files under their original names rather than renaming
	// them to their capture timestamp.
	KeepNames bool
	// DeleteSource removes the sorted tree after a successful collection.
	DeleteSource bool
}

// Collector flattens a manually curated, sorted tree back into one folder.
type Collector struct {
	loader *imaging.Loader
	logger *slog.Logger
}

// New constructs a collector. The loader is only consulted when files are
// renamed by timestamp.
func New(loader *imaging.Loader, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Collector{loader: loader, logger: logger}
}

// Collect hard-links every file in every pile directory under source into
// dest. Name collisions get -1, -2, ... suffixes. Non-directory entries at
// the top level (such as the run report) are skipped with a log line.
func (c *Collector) Collect(ctx context.Context, source, dest string, opts Options) error {
	logger := logging.WithContext(ctx, c.logger)

	entries, err := os.ReadDir(source)
	if err != nil {
		return fmt.Errorf("read source %q: %w", source, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		pileDir := filepath.Join(source, entry.Name())
		if !entry.IsDir() {
			logger.Info("skipping non-directory entry",
				logging.String(logging.FieldPath, pileDir))
			continue
		}

		logger.Info("disassembling pile",
			logging.String(logging.FieldPile, entry.Name()))
		if err := c.collectPile(pileDir, dest, opts); err != nil {
			return err
		}
	}

	if opts.DeleteSource {
		if err := os.RemoveAll(source); err != nil {
			return fmt.Errorf("delete source tree %q: %w", source, err)
		}
		logger.Info("deleted source tree",
			logging.String(logging.FieldPath, source))
	}
	return nil
}

func (c *Collector) collectPile(pileDir, dest string, opts Options) error {
	files, err := os.ReadDir(pileDir)
	if err != nil {
		return fmt.Errorf("read pile %q: %w", pileDir, err)
	}

	for _, file := range files {
		if !file.Type().IsRegular() {
			continue
		}
		src := filepath.Join(pileDir, file.Name())

		link, err := c.targetName(src, dest, opts.KeepNames)
		if err != nil {
			return err
		}
		if err := fileutil.LinkFile(src, link); err != nil {
			return err
		}
	}
	return nil
}

// targetName picks the destination path: the original stem, or the capture
// timestamp when renaming, always collision-free within dest.
func (c *Collector) targetName(src, dest string, keepNames bool) (string, error) {
	stem, ext := fileutil.SplitName(filepath.Base(src))
	if !keepNames {
		img, err := c.loader.Load(src)
		if err != nil {
			return "", fmt.Errorf("derive name for %q: %w", src, err)
		}
		stem = img.Timestamp.Format(stampLayout)
	}
	return fileutil.UniqueName(dest, stem, ext), nil
}
