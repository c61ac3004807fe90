package imaging

import (
	"fmt"
	"image"
	"math/bits"

	"github.com/corona10/goimagehash"
)

// Algorithm selects the perceptual hash variant. The clustering engine is
// agnostic to the choice; all variants produce a 64-bit fingerprint.
type Algorithm string

const (
	// AlgorithmPerception is the DCT-based perception hash (most accurate).
	AlgorithmPerception Algorithm = "phash"
	// AlgorithmAverage is the average hash (fastest).
	AlgorithmAverage Algorithm = "ahash"
	// AlgorithmDifference is the gradient difference hash.
	AlgorithmDifference Algorithm = "dhash"
)

// ParseAlgorithm maps a config value onto an Algorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch Algorithm(value) {
	case AlgorithmPerception, AlgorithmAverage, AlgorithmDifference:
		return Algorithm(value), nil
	default:
		return "", fmt.Errorf("unknown hash algorithm %q", value)
	}
}

func (a Algorithm) hash(img image.Image) (uint64, error) {
	var (
		h   *goimagehash.ImageHash
		err error
	)
	switch a {
	case AlgorithmAverage:
		h, err = goimagehash.AverageHash(img)
	case AlgorithmDifference:
		h, err = goimagehash.DifferenceHash(img)
	default:
		h, err = goimagehash.PerceptionHash(img)
	}
	if err != nil {
		return 0, err
	}
	return h.GetHash(), nil
}

// Distance returns the Hamming distance between two fingerprints: the number
// of differing bits, 0 for identical hashes.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
