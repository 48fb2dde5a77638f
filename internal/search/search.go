// Package search filters photos by text, calendar day, location and tag.
package search

import (
	"math"
	"strings"
	"time"

	"github.com/kdimtricp/galleryguru/internal/models"
)

// DefaultRadius is the location search radius in metres.
const DefaultRadius = 50000.0

const earthRadius = 6371000.0

// ByText matches query case-insensitively against title and description.
// An empty query matches nothing.
func ByText(photos []*models.Photo, query string) []*models.Photo {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []*models.Photo{}
	}
	return filter(photos, func(p *models.Photo) bool {
		return strings.Contains(strings.ToLower(p.Title), query) ||
			strings.Contains(strings.ToLower(p.Description), query)
	})
}

// ByDate returns photos taken on the same calendar day as day, evaluated in
// day's location.
func ByDate(photos []*models.Photo, day time.Time) []*models.Photo {
	y, m, d := day.Date()
	return filter(photos, func(p *models.Photo) bool {
		if p.TakenAt == nil {
			return false
		}
		py, pm, pd := p.TakenAt.In(day.Location()).Date()
		return py == y && pm == m && pd == d
	})
}

// ByLocation returns photos within radius metres of (lat, lon). A radius
// of zero or less uses DefaultRadius.
func ByLocation(photos []*models.Photo, lat, lon, radius float64) []*models.Photo {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return filter(photos, func(p *models.Photo) bool {
		if p.Location == nil {
			return false
		}
		return Distance(lat, lon, p.Location.Latitude, p.Location.Longitude) <= radius
	})
}

func ByTag(photos []*models.Photo, tagID string) []*models.Photo {
	return filter(photos, func(p *models.Photo) bool {
		return p.HasTag(tagID)
	})
}

// Distance is the great-circle distance in metres (haversine).
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadius * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func filter(photos []*models.Photo, keep func(*models.Photo) bool) []*models.Photo {
	out := []*models.Photo{}
	for _, p := range photos {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
