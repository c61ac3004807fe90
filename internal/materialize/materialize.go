package materialize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"pilesort/internal/fileutil"
	"pilesort/internal/logging"
	"pilesort/internal/piles"
)

// LinkError reports a failed hard link and names the offending source file.
type LinkError struct {
	Source string
	Err    error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link %s: %v", e.Source, e.Err)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}

// dateLayout names pile directories by the representative date.
const dateLayout = "2006-01-02"

// Materializer creates the on-disk pile layout.
type Materializer struct {
	logger *slog.Logger
}

// New constructs a materializer.
func New(logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Materializer{logger: logger}
}

// Materialize creates one directory per pile under dest and hard-links every
// member into it under its original base name. Directory names follow
// {date}_{seq:04}, where seq counts piles already seen with the same date, so
// same-day piles get suffixes 0000, 0001, and so on. dest must already exist
// and be writable; any filesystem failure is fatal to the run.
func (m *Materializer) Materialize(ctx context.Context, pileList []piles.Pile, dest string) error {
	logger := logging.WithContext(ctx, m.logger)

	dateCounts := make(map[string]int, len(pileList))
	for _, pile := range pileList {
		if err := ctx.Err(); err != nil {
			return err
		}

		date := pile.Date.Format(dateLayout)
		seq := dateCounts[date]
		dateCounts[date] = seq + 1

		dirName := fmt.Sprintf("%s_%04d", date, seq)
		dir := filepath.Join(dest, dirName)
		if err := os.Mkdir(dir, 0o755); err != nil {
			return fmt.Errorf("create pile directory %q: %w", dir, err)
		}

		for _, img := range pile.Images {
			link := filepath.Join(dir, filepath.Base(img.Path))
			if err := fileutil.LinkFile(img.Path, link); err != nil {
				return &LinkError{Source: img.Path, Err: err}
			}
		}

		logger.Debug("materialized pile",
			logging.String(logging.FieldPile, dirName),
			logging.Int("images", pile.Len()))
	}

	logger.Info("materialization complete",
		logging.String(logging.FieldPath, dest),
		logging.Int("piles", len(pileList)))
	return nil
}
