package storage

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const (
	ThumbnailSize    = 300
	thumbnailQuality = 85
)

// Thumbnail renders img cropped to a ThumbnailSize square and JPEG encodes it.
func Thumbnail(img image.Image) ([]byte, error) {
	thumb := imaging.Thumbnail(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
