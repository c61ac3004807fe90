package piles

import (
	"testing"
	"time"

	"pilesort/internal/imaging"
)

func TestComputeStats(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	mk := func(paths []string, offsets []time.Duration) Pile {
		images := make([]imaging.Image, len(paths))
		for i := range paths {
			images[i] = imaging.Image{Path: paths[i], Timestamp: base.Add(offsets[i])}
		}
		return newPile(images)
	}

	piles := []Pile{
		mk([]string{"a", "b", "c"}, []time.Duration{0, 5 * time.Minute, 45 * time.Minute}),
		mk([]string{"d"}, []time.Duration{time.Hour}),
		mk([]string{"e", "f"}, []time.Duration{2 * time.Hour, 2*time.Hour + 10*time.Minute}),
	}

	stats := ComputeStats(piles)
	if stats.Images != 6 || stats.Piles != 3 {
		t.Fatalf("counts: %+v", stats)
	}
	if stats.MaxSize != 3 || stats.MedianSize != 2 {
		t.Fatalf("sizes: %+v", stats)
	}
	if stats.AvgSize != 2 {
		t.Fatalf("avg: %v", stats.AvgSize)
	}
	if stats.LongestSpread != 45*time.Minute {
		t.Fatalf("spread: %v", stats.LongestSpread)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestPileSpreadSingleton(t *testing.T) {
	p := newPile([]imaging.Image{{Path: "only", Timestamp: time.Now()}})
	if p.Spread() != 0 {
		t.Fatalf("singleton spread: %v", p.Spread())
	}
}
