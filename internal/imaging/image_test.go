package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePNG(t *testing.T, path string, fill color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFallsBackToFilesystemTime(t *testing.T) {
	// A PNG carries no EXIF, so the timestamp must come from file metadata
	// and the load must still succeed.
	path := filepath.Join(t.TempDir(), "plain.png")
	writePNG(t, path, color.White)

	before := time.Now().Add(-time.Minute)
	img, err := NewLoader(AlgorithmPerception).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Path != path {
		t.Fatalf("path: got %q", img.Path)
	}
	if img.Timestamp.Before(before) || img.Timestamp.After(time.Now().Add(time.Minute)) {
		t.Fatalf("timestamp %v not near file creation", img.Timestamp)
	}
}

func TestLoadIsDeterministic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gray.png")
	writePNG(t, path, color.Gray{Y: 128})

	loader := NewLoader(AlgorithmAverage)
	first, err := loader.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := loader.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if first.Hash != second.Hash {
		t.Fatalf("hash not stable: %016x vs %016x", first.Hash, second.Hash)
	}
}

func TestLoadErrorClasses(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewLoader("").Load(filepath.Join(dir, "absent.jpg")); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("missing file: got %v, want ErrUnreadable", err)
	}

	textPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(textPath, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader("").Load(textPath); !errors.Is(err, ErrUndecodable) {
		t.Fatalf("text file: got %v, want ErrUndecodable", err)
	}

	// Valid PNG magic followed by garbage: recognized container, corrupt payload.
	badPath := filepath.Join(dir, "torn.png")
	content := append([]byte("\x89PNG\r\n\x1a\n"), []byte("garbage")...)
	if err := os.WriteFile(badPath, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader("").Load(badPath); !errors.Is(err, ErrBadContainer) {
		t.Fatalf("torn png: got %v, want ErrBadContainer", err)
	}
}

func TestLoadErrorNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.png")
	_, err := NewLoader("").Load(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !bytes.Contains([]byte(err.Error()), []byte(path)) {
		t.Fatalf("error %q does not name the offending path", err)
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(0, 0); got != 0 {
		t.Fatalf("identical: %d", got)
	}
	if got := Distance(0, ^uint64(0)); got != 64 {
		t.Fatalf("inverted: %d", got)
	}
	if got := Distance(0b1011, 0b0001); got != 2 {
		t.Fatalf("partial: %d", got)
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, valid := range []string{"phash", "ahash", "dhash"} {
		if _, err := ParseAlgorithm(valid); err != nil {
			t.Fatalf("ParseAlgorithm(%q): %v", valid, err)
		}
	}
	if _, err := ParseAlgorithm("sha256"); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestExifTimestampParsesPriorityTags(t *testing.T) {
	// No EXIF at all must report absence, not an error.
	if _, ok := exifTimestamp([]byte("plain bytes")); ok {
		t.Fatal("expected no timestamp from non-EXIF bytes")
	}
}
