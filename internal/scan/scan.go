package scan

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pilesort/internal/hashcache"
	"pilesort/internal/imaging"
	"pilesort/internal/logging"
)

// Scanner walks a source tree and fingerprints every regular file it finds.
// Files that fail to load are logged and skipped; the scan itself only fails
// on walk-level errors or cancellation.
type Scanner struct {
	loader  *imaging.Loader
	cache   *hashcache.Store
	workers int
	logger  *slog.Logger
}

// New constructs a scanner. cache may be nil to disable fingerprint caching;
// workers of zero means one worker per CPU.
func New(loader *imaging.Loader, cache *hashcache.Store, workers int, logger *slog.Logger) *Scanner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{loader: loader, cache: cache, workers: workers, logger: logger}
}

// Result is the stabilized outcome of a scan.
type Result struct {
	Images  []imaging.Image
	Skipped int
}

type candidate struct {
	path    string
	size    int64
	mtimeNS int64
}

// Scan enumerates root recursively and loads every file in parallel. Results
// are stabilized by path order regardless of worker completion order.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	started := time.Now()

	candidates, err := s.collect(root)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		images  []imaging.Image
		skipped int
	)

	group, ctx := errgroup.WithContext(ctx)
	work := make(chan candidate)

	group.Go(func() error {
		defer close(work)
		for _, c := range candidates {
			select {
			case work <- c:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < s.workers; w++ {
		group.Go(func() error {
			for c := range work {
				img, err := s.load(ctx, c)
				if err != nil {
					s.logger.Warn("skipping file",
						logging.String(logging.FieldPath, c.path),
						logging.Error(err))
					mu.Lock()
					skipped++
					mu.Unlock()
					continue
				}
				mu.Lock()
				images = append(images, *img)
				mu.Unlock()
			}
			return ctx.Err()
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(images, func(a, b int) bool { return images[a].Path < images[b].Path })

	s.logger.Info("scan complete",
		logging.String(logging.FieldPath, root),
		logging.Int("loaded", len(images)),
		logging.Int("skipped", skipped),
		logging.Duration("elapsed", time.Since(started)))
	return &Result{Images: images, Skipped: skipped}, nil
}

// collect walks the tree up front so the worker pool operates on a fixed
// candidate list. Unreadable subtrees are logged and skipped, not fatal.
func (s *Scanner) collect(root string) ([]candidate, error) {
	var candidates []candidate
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("skipping unreadable entry",
				logging.String(logging.FieldPath, path),
				logging.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			s.logger.Warn("skipping unstattable file",
				logging.String(logging.FieldPath, path),
				logging.Error(err))
			return nil
		}
		candidates = append(candidates, candidate{
			path:    path,
			size:    info.Size(),
			mtimeNS: info.ModTime().UnixNano(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func (s *Scanner) load(ctx context.Context, c candidate) (*imaging.Image, error) {
	algorithm := string(s.loader.Algorithm)

	if s.cache != nil {
		entry, ok, err := s.cache.Lookup(ctx, c.path, c.size, c.mtimeNS, algorithm)
		if err != nil {
			s.logger.Warn("fingerprint cache lookup failed",
				logging.String(logging.FieldPath, c.path),
				logging.Error(err))
		} else if ok {
			return &imaging.Image{Path: c.path, Timestamp: entry.TakenAt, Hash: entry.Hash}, nil
		}
	}

	img, err := s.loader.Load(c.path)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		saveErr := s.cache.Save(ctx, hashcache.Entry{
			Path:      c.path,
			Size:      c.size,
			MTimeNS:   c.mtimeNS,
			Algorithm: algorithm,
			Hash:      img.Hash,
			TakenAt:   img.Timestamp,
		})
		if saveErr != nil {
			s.logger.Warn("fingerprint cache save failed",
				logging.String(logging.FieldPath, c.path),
				logging.Error(saveErr))
		}
	}

	return img, nil
}
