package piles

import (
	"sort"
	"time"
)

// Stats summarizes a final pile list.
type Stats struct {
	Images        int
	Piles         int
	AvgSize       float64
	MedianSize    int
	MaxSize       int
	LongestSpread time.Duration
}

// ComputeStats aggregates counts, the pile size distribution, and the longest
// intra-pile timestamp spread.
func ComputeStats(piles []Pile) Stats {
	if len(piles) == 0 {
		return Stats{}
	}

	sizes := make([]int, 0, len(piles))
	stats := Stats{Piles: len(piles)}
	for _, p := range piles {
		sizes = append(sizes, p.Len())
		stats.Images += p.Len()
		if p.Len() > stats.MaxSize {
			stats.MaxSize = p.Len()
		}
		if spread := p.Spread(); spread > stats.LongestSpread {
			stats.LongestSpread = spread
		}
	}

	sort.Ints(sizes)
	stats.MedianSize = sizes[len(sizes)/2]
	stats.AvgSize = float64(stats.Images) / float64(stats.Piles)
	return stats
}
