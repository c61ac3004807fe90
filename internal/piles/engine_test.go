package piles

import (
	"context"
	"testing"
	"time"

	"pilesort/internal/imaging"
	"pilesort/internal/testsupport"
)

var clusterBase = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func img(path string, hash uint64, offset time.Duration) imaging.Image {
	return imaging.Image{Path: path, Timestamp: clusterBase.Add(offset), Hash: hash}
}

func defaultEngine() *Engine {
	return NewEngine(Matcher{HashThreshold: 10, TimeWindow: 30 * time.Minute}, 2, nil)
}

func pathSet(p Pile) map[string]bool {
	set := make(map[string]bool, len(p.Images))
	for _, i := range p.Images {
		set[i.Path] = true
	}
	return set
}

func TestClusterRelatedAndLoner(t *testing.T) {
	// Three shots within distance 3 and five minutes of each other, plus a
	// distant loner two days later.
	images := []imaging.Image{
		img("a.jpg", 0b0000, 0),
		img("b.jpg", 0b0011, 2*time.Minute),
		img("c.jpg", 0b0101, 5*time.Minute),
		img("d.jpg", 0xFFFFFFFFFFFF0000, 48*time.Hour),
	}

	piles, err := defaultEngine().Cluster(context.Background(), images)
	if err != nil {
		t.Fatal(err)
	}
	if len(piles) != 2 {
		t.Fatalf("pile count: got %d, want 2", len(piles))
	}
	if piles[0].Len() != 3 {
		t.Fatalf("first pile size: got %d, want 3", piles[0].Len())
	}
	if piles[1].Len() != 1 || piles[1].Images[0].Path != "d.jpg" {
		t.Fatalf("loner pile: %+v", piles[1])
	}
}

func TestClusterTransitiveClosure(t *testing.T) {
	// A matches B, B matches C, but A and C are 16 bits apart. All three
	// must still share a pile.
	images := []imaging.Image{
		img("a.jpg", 0x00FF, 0),
		img("b.jpg", 0x0FFF, time.Minute),
		img("c.jpg", 0xFFFF, 2*time.Minute),
	}

	engine := NewEngine(Matcher{HashThreshold: 10, TimeWindow: 30 * time.Minute}, 1, nil)
	if engine.matcher.Match(images[0], images[2]) {
		t.Fatal("test premise broken: a and c must not match directly")
	}

	piles, err := engine.Cluster(context.Background(), images)
	if err != nil {
		t.Fatal(err)
	}
	if len(piles) != 1 || piles[0].Len() != 3 {
		t.Fatalf("expected one pile of three, got %+v", piles)
	}
}

func TestClusterTimeWindowSplits(t *testing.T) {
	// Identical hashes but timestamps outside the window stay apart.
	images := []imaging.Image{
		img("a.jpg", 0xABCD, 0),
		img("b.jpg", 0xABCD, 31*time.Minute),
	}

	piles, err := defaultEngine().Cluster(context.Background(), images)
	if err != nil {
		t.Fatal(err)
	}
	if len(piles) != 2 {
		t.Fatalf("expected window to split piles, got %d", len(piles))
	}
}

func TestClusterPartitionTotality(t *testing.T) {
	images := []imaging.Image{
		img("a.jpg", 0x01, 0),
		img("b.jpg", 0x02, time.Minute),
		img("c.jpg", 0xF000, 10*time.Minute),
		img("d.jpg", 0x0F00_0000, 3*time.Hour),
		img("e.jpg", 0x03, 2*time.Minute),
	}

	piles, err := defaultEngine().Cluster(context.Background(), images)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]int)
	for _, p := range piles {
		if p.Len() == 0 {
			t.Fatal("empty pile")
		}
		for _, i := range p.Images {
			seen[i.Path]++
		}
	}
	if len(seen) != len(images) {
		t.Fatalf("partition covers %d of %d images", len(seen), len(images))
	}
	for path, count := range seen {
		if count != 1 {
			t.Fatalf("image %s appears in %d piles", path, count)
		}
	}
}

func TestClusterDateInvariant(t *testing.T) {
	images := []imaging.Image{
		img("late.jpg", 0x01, 20*time.Minute),
		img("early.jpg", 0x02, 0),
		img("mid.jpg", 0x03, 10*time.Minute),
	}

	piles, err := defaultEngine().Cluster(context.Background(), images)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range piles {
		min := p.Images[0].Timestamp
		for _, i := range p.Images {
			if i.Timestamp.Before(min) {
				min = i.Timestamp
			}
		}
		if !p.Date.Equal(min) {
			t.Fatalf("pile date %v != min member timestamp %v", p.Date, min)
		}
	}
}

func TestClusterIdempotent(t *testing.T) {
	images := []imaging.Image{
		img("a.jpg", 0x01, 0),
		img("b.jpg", 0x03, time.Minute),
		img("c.jpg", 0xFF00, 5*time.Minute),
		img("d.jpg", 0xFF01, 6*time.Minute),
	}

	first, err := defaultEngine().Cluster(context.Background(), images)
	if err != nil {
		t.Fatal(err)
	}
	second, err := defaultEngine().Cluster(context.Background(), images)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("pile counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		got, want := pathSet(second[i]), pathSet(first[i])
		if len(got) != len(want) {
			t.Fatalf("pile %d sizes differ", i)
		}
		for path := range want {
			if !got[path] {
				t.Fatalf("pile %d grouping differs at %s", i, path)
			}
		}
	}
}

func TestClusterEmptyInput(t *testing.T) {
	piles, err := defaultEngine().Cluster(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(piles) != 0 {
		t.Fatalf("expected no piles, got %d", len(piles))
	}
}

func TestClusterHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	images := make([]imaging.Image, 200)
	for i := range images {
		images[i] = img(string(rune('a'+i%26))+".jpg", uint64(i), time.Duration(i)*time.Second)
	}

	if _, err := defaultEngine().Cluster(ctx, images); err == nil {
		t.Fatal("expected context error")
	}
}

func TestMatcherFromConfigTunables(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMatching(4, 10))
	matcher := Matcher{
		HashThreshold: cfg.Matching.HashThreshold,
		TimeWindow:    cfg.TimeWindow(),
	}

	near := img("near.jpg", 0b0111, 5*time.Minute)
	if !matcher.Match(img("a.jpg", 0, 0), near) {
		t.Fatal("distance 3 within 10 minutes should match at threshold 4")
	}
	atThreshold := img("edge.jpg", 0b1111, 5*time.Minute)
	if matcher.Match(img("a.jpg", 0, 0), atThreshold) {
		t.Fatal("distance exactly at threshold must not match")
	}
	late := img("late.jpg", 0b0111, 10*time.Minute)
	if matcher.Match(img("a.jpg", 0, 0), late) {
		t.Fatal("delta exactly at the window must not match")
	}
}

func TestMatcherIsSymmetric(t *testing.T) {
	m := Matcher{HashThreshold: 10, TimeWindow: 30 * time.Minute}
	a := img("a.jpg", 0x0F, 0)
	b := img("b.jpg", 0x0E, 25*time.Minute)
	if m.Match(a, b) != m.Match(b, a) {
		t.Fatal("match predicate must be symmetric")
	}
}
