package scan

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"pilesort/internal/imaging"
	"pilesort/internal/testsupport"
)

func writePNG(t *testing.T, path string, shade uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetGray(x, y, color.Gray{Y: shade})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanLoadsNestedTree(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "a.png"), 10)
	writePNG(t, filepath.Join(root, "nested", "b.png"), 200)
	writePNG(t, filepath.Join(root, "nested", "deeper", "c.png"), 90)

	scanner := New(imaging.NewLoader(imaging.AlgorithmAverage), nil, 2, nil)
	result, err := scanner.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(result.Images) != 3 {
		t.Fatalf("loaded %d images, want 3", len(result.Images))
	}
	if result.Skipped != 0 {
		t.Fatalf("skipped %d, want 0", result.Skipped)
	}
	if !sort.SliceIsSorted(result.Images, func(a, b int) bool {
		return result.Images[a].Path < result.Images[b].Path
	}) {
		t.Fatal("results not stabilized by path")
	}
}

func TestScanSkipsBrokenFilesAndContinues(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "good.png"), 50)
	if err := os.WriteFile(filepath.Join(root, "junk.txt"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	scanner := New(imaging.NewLoader(imaging.AlgorithmAverage), nil, 1, nil)
	result, err := scanner.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(result.Images) != 1 {
		t.Fatalf("loaded %d images, want 1", len(result.Images))
	}
	if result.Skipped != 1 {
		t.Fatalf("skipped %d, want 1", result.Skipped)
	}
}

func TestScanUsesFingerprintCache(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFingerprintCache(true))
	root := filepath.Join(testsupport.BaseDir(cfg), "photos")
	path := filepath.Join(root, "cached.png")
	writePNG(t, path, 128)

	store := testsupport.MustOpenStore(t, cfg)

	scanner := New(imaging.NewLoader(imaging.AlgorithmAverage), store, 1, nil)
	ctx := context.Background()

	first, err := scanner.Scan(ctx, root)
	if err != nil {
		t.Fatal(err)
	}

	// Second scan must be served from the cache and agree exactly.
	second, err := scanner.Scan(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Images) != 1 || len(second.Images) != 1 {
		t.Fatalf("image counts: %d then %d", len(first.Images), len(second.Images))
	}
	if first.Images[0].Hash != second.Images[0].Hash {
		t.Fatal("cached hash differs from computed hash")
	}
	if !first.Images[0].Timestamp.Equal(second.Images[0].Timestamp) {
		t.Fatal("cached timestamp differs from computed timestamp")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	entry, ok, err := store.Lookup(ctx, path, info.Size(), info.ModTime().UnixNano(), "ahash")
	if err != nil || !ok {
		t.Fatalf("expected cache entry: ok=%v err=%v", ok, err)
	}
	if entry.Hash != first.Images[0].Hash {
		t.Fatal("stored hash mismatch")
	}
}

func TestScanEmptyRoot(t *testing.T) {
	scanner := New(imaging.NewLoader(""), nil, 4, nil)
	result, err := scanner.Scan(context.Background(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Images) != 0 || result.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}
