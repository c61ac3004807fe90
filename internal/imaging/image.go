package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Sentinel classes for load failures. All are recoverable at the file
// granularity: the scanner logs the offending path and moves on.
var (
	// ErrUnreadable marks I/O failures while reading the file.
	ErrUnreadable = errors.New("unreadable file")
	// ErrUndecodable marks files no registered image decoder accepts.
	ErrUndecodable = errors.New("undecodable image")
	// ErrBadContainer marks files whose format was recognized but whose
	// payload is corrupt. A corrupt EXIF segment alone is not an error; the
	// timestamp chain falls back to filesystem times instead.
	ErrBadContainer = errors.New("corrupt image container")
)

// Image is one fingerprinted photo. The path is its identity: two Image
// values with the same path describe the same entity regardless of content.
type Image struct {
	Path      string
	Timestamp time.Time
	Hash      uint64
}

func (i Image) String() string {
	return fmt.Sprintf("image %s at %s", i.Path, i.Timestamp.Format("Monday, 2 January 2006"))
}

// Loader turns files into Images using the configured hash algorithm.
type Loader struct {
	Algorithm Algorithm
}

// NewLoader constructs a loader. An empty algorithm selects the perception hash.
func NewLoader(algorithm Algorithm) *Loader {
	if algorithm == "" {
		algorithm = AlgorithmPerception
	}
	return &Loader{Algorithm: algorithm}
}

// Load reads the file once, resolves its capture timestamp, and computes the
// perceptual hash. It is a pure function of the file contents at call time.
func (l *Loader) Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}

	timestamp := resolveTimestamp(data, path)

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		class := ErrBadContainer
		if errors.Is(err, image.ErrFormat) {
			class = ErrUndecodable
		}
		return nil, fmt.Errorf("%w: %s: %w", class, path, err)
	}

	hash, err := l.Algorithm.hash(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUndecodable, path, err)
	}

	return &Image{Path: path, Timestamp: timestamp, Hash: hash}, nil
}
