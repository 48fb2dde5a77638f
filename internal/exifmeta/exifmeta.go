// Package exifmeta reads capture time and GPS position from EXIF data.
package exifmeta

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/kdimtricp/galleryguru/internal/models"
)

var ErrNoMetadata = errors.New("no exif metadata")

type Info struct {
	TakenAt  *time.Time
	Location *models.Location
}

// Read decodes EXIF from a JPEG or TIFF stream. Missing individual fields are
// left nil; a stream without any EXIF block yields ErrNoMetadata.
func Read(r io.Reader) (Info, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}

	var info Info
	if t, err := x.DateTime(); err == nil {
		info.TakenAt = &t
	}
	if lat, lon, err := x.LatLong(); err == nil {
		info.Location = &models.Location{Latitude: lat, Longitude: lon}
	}
	return info, nil
}

// Fill sets meta's date and location from info where the caller left them empty.
func Fill(meta *models.Metadata, info Info) {
	if meta.TakenAt == nil {
		meta.TakenAt = info.TakenAt
	}
	if meta.Location == nil {
		meta.Location = info.Location
	}
}
