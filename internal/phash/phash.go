// Package phash computes 64-bit difference hashes (dHash) of images and
// compares them by Hamming distance.
package phash

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/bits"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
)

const (
	gridWidth  = 9
	gridHeight = 8

	// MaxDistance is the largest possible Hamming distance between two fingerprints.
	MaxDistance = 64
)

var ErrEmptyImage = errors.New("image has no pixels")

// Fingerprint is a 64-bit difference hash. The first comparison occupies the
// most significant bit.
type Fingerprint uint64

// Hamming returns the number of differing bits between a and b.
func Hamming(a, b Fingerprint) int {
	return bits.OnesCount64(uint64(a ^ b))
}

func (f Fingerprint) Distance(other Fingerprint) int {
	return Hamming(f, other)
}

// String encodes the fingerprint in goimagehash text form, e.g. "d:00ff00ff00ff00ff".
func (f Fingerprint) String() string {
	return goimagehash.NewImageHash(uint64(f), goimagehash.DHash).ToString()
}

func (f Fingerprint) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Fingerprint) UnmarshalText(text []byte) error {
	parsed, err := ParseFingerprint(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFingerprint decodes the output of Fingerprint.String.
func ParseFingerprint(s string) (Fingerprint, error) {
	h, err := goimagehash.ImageHashFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing fingerprint %q: %w", s, err)
	}
	if h.GetKind() != goimagehash.DHash {
		return 0, fmt.Errorf("parsing fingerprint %q: not a difference hash", s)
	}
	return Fingerprint(h.GetHash()), nil
}

type Hasher interface {
	Fingerprint(img image.Image) (Fingerprint, error)
}

// DifferenceHasher resamples an image to a 9x8 grey grid and sets one bit per
// horizontal neighbour pair whose left cell is strictly brighter.
type DifferenceHasher struct {
	// Filter is the resampling filter. NewDifferenceHasher uses imaging.Box;
	// the zero value is nearest-neighbour.
	Filter imaging.ResampleFilter
}

func NewDifferenceHasher() *DifferenceHasher {
	return &DifferenceHasher{Filter: imaging.Box}
}

func (h *DifferenceHasher) Fingerprint(img image.Image) (Fingerprint, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, ErrEmptyImage
	}

	grid := imaging.Resize(img, gridWidth, gridHeight, h.Filter)

	var luma [gridHeight][gridWidth]uint8
	b := grid.Bounds()
	for y := 0; y < gridHeight; y++ {
		for x := 0; x < gridWidth; x++ {
			luma[y][x] = color.GrayModel.Convert(grid.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
		}
	}

	var hash uint64
	for y := 0; y < gridHeight; y++ {
		for x := 0; x < gridWidth-1; x++ {
			hash <<= 1
			if luma[y][x] > luma[y][x+1] {
				hash |= 1
			}
		}
	}
	return Fingerprint(hash), nil
}
