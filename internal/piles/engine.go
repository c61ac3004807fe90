package piles

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pilesort/internal/imaging"
	"pilesort/internal/logging"
)

// Matcher is the pairwise relation between images. Both conditions must hold:
// hash distance strictly below HashThreshold and absolute timestamp delta
// strictly below TimeWindow. The relation is symmetric but not transitive;
// the engine closes it transitively.
type Matcher struct {
	HashThreshold int
	TimeWindow    time.Duration
}

// Match reports whether two images belong in the same pile directly.
func (m Matcher) Match(a, b imaging.Image) bool {
	if imaging.Distance(a.Hash, b.Hash) >= m.HashThreshold {
		return false
	}
	delta := a.Timestamp.Sub(b.Timestamp)
	if delta < 0 {
		delta = -delta
	}
	return delta < m.TimeWindow
}

// Engine folds pairwise matches into a partition of the image set.
type Engine struct {
	matcher Matcher
	workers int
	logger  *slog.Logger
}

// NewEngine constructs an engine. workers bounds the parallel pair scan;
// zero means one worker per CPU.
func NewEngine(matcher Matcher, workers int, logger *slog.Logger) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{matcher: matcher, workers: workers, logger: logger}
}

type pair struct {
	left, right int
}

// Cluster partitions images into piles. The pair scan runs in parallel (the
// match predicate is pure); the union step is sequential because it mutates
// shared cluster state. Piles come back sorted by date, then by first path.
func (e *Engine) Cluster(ctx context.Context, images []imaging.Image) ([]Pile, error) {
	if len(images) == 0 {
		return nil, nil
	}

	matches, err := e.matchPairs(ctx, images)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("pair scan complete",
		logging.Int("images", len(images)),
		logging.Int("matches", len(matches)))

	sets := newUnionFind(len(images))
	for _, m := range matches {
		sets.union(m.left, m.right)
	}

	members := make(map[int][]int)
	for i := range images {
		root := sets.find(i)
		members[root] = append(members[root], i)
	}

	result := make([]Pile, 0, len(members))
	for _, indices := range members {
		group := make([]imaging.Image, 0, len(indices))
		for _, i := range indices {
			group = append(group, images[i])
		}
		sort.Slice(group, func(a, b int) bool { return group[a].Path < group[b].Path })
		result = append(result, newPile(group))
	}
	sort.Slice(result, func(a, b int) bool {
		if !result[a].Date.Equal(result[b].Date) {
			return result[a].Date.Before(result[b].Date)
		}
		return result[a].Images[0].Path < result[b].Images[0].Path
	})

	e.logger.Info("clustering complete",
		logging.Int("images", len(images)),
		logging.Int("piles", len(result)))
	return result, nil
}

// matchPairs evaluates every unordered pair, sharding rows across workers.
func (e *Engine) matchPairs(ctx context.Context, images []imaging.Image) ([]pair, error) {
	var (
		mu      sync.Mutex
		matches []pair
	)

	group, ctx := errgroup.WithContext(ctx)

	rows := make(chan int)
	group.Go(func() error {
		defer close(rows)
		for i := range images {
			select {
			case rows <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < e.workers; w++ {
		group.Go(func() error {
			var local []pair
			for i := range rows {
				for j := i + 1; j < len(images); j++ {
					if e.matcher.Match(images[i], images[j]) {
						local = append(local, pair{left: i, right: j})
					}
				}
			}
			if len(local) > 0 {
				mu.Lock()
				matches = append(matches, local...)
				mu.Unlock()
			}
			return ctx.Err()
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return matches, nil
}
