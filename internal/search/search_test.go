package search

import (
	"math"
	"testing"
	"time"

	"github.com/kdimtricp/galleryguru/internal/models"
)

func photo(title, desc string, taken *time.Time, loc *models.Location, tags ...models.Tag) *models.Photo {
	return models.NewPhoto(nil, 0, models.Metadata{
		Title:       title,
		Description: desc,
		TakenAt:     taken,
		Location:    loc,
		Tags:        tags,
	})
}

func TestByText(t *testing.T) {
	photos := []*models.Photo{
		photo("Beach Day", "sand and sun", nil, nil),
		photo("Mountains", "hiking near the BEACH", nil, nil),
		photo("City", "night lights", nil, nil),
	}

	tests := []struct {
		query string
		want  int
	}{
		{"beach", 2},
		{"  LIGHTS ", 1},
		{"forest", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := len(ByText(photos, tt.query)); got != tt.want {
				t.Errorf("Expected %d results, got %d", tt.want, got)
			}
		})
	}
}

func TestByDate(t *testing.T) {
	morning := time.Date(2024, 8, 14, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 8, 14, 22, 30, 0, 0, time.UTC)
	nextDay := time.Date(2024, 8, 15, 0, 10, 0, 0, time.UTC)

	photos := []*models.Photo{
		photo("a", "", &morning, nil),
		photo("b", "", &evening, nil),
		photo("c", "", &nextDay, nil),
		photo("d", "", nil, nil),
	}

	results := ByDate(photos, time.Date(2024, 8, 14, 12, 0, 0, 0, time.UTC))
	if len(results) != 2 {
		t.Errorf("Expected 2 photos on Aug 14 UTC, got %d", len(results))
	}

	// In UTC+3 the late evening photo falls on the 15th.
	istanbul := time.FixedZone("UTC+3", 3*60*60)
	results = ByDate(photos, time.Date(2024, 8, 15, 12, 0, 0, 0, istanbul))
	if len(results) != 2 {
		t.Errorf("Expected 2 photos on Aug 15 UTC+3, got %d", len(results))
	}
}

func TestByLocation(t *testing.T) {
	istanbul := &models.Location{Latitude: 41.0082, Longitude: 28.9784}
	izmit := &models.Location{Latitude: 40.7654, Longitude: 29.9408}
	ankara := &models.Location{Latitude: 39.9334, Longitude: 32.8597}

	photos := []*models.Photo{
		photo("istanbul", "", nil, istanbul),
		photo("izmit", "", nil, izmit),
		photo("ankara", "", nil, ankara),
		photo("unknown", "", nil, nil),
	}

	if got := len(ByLocation(photos, 41.0, 29.0, 0)); got != 1 {
		t.Errorf("Expected 1 photo within default radius, got %d", got)
	}
	if got := len(ByLocation(photos, 41.0, 29.0, 100000)); got != 2 {
		t.Errorf("Expected 2 photos within 100 km, got %d", got)
	}
	if got := len(ByLocation(photos, 41.0, 29.0, 500000)); got != 3 {
		t.Errorf("Expected 3 photos within 500 km, got %d", got)
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(10, 20, 10, 20); d != 0 {
		t.Errorf("Expected 0 for the same point, got %f", d)
	}

	// One degree of latitude is about 111.2 km.
	d := Distance(0, 0, 1, 0)
	if math.Abs(d-111195) > 100 {
		t.Errorf("Expected about 111195 m, got %f", d)
	}

	if a, b := Distance(41, 29, 39.9, 32.8), Distance(39.9, 32.8, 41, 29); math.Abs(a-b) > 1e-6 {
		t.Errorf("Expected symmetric distance, got %f and %f", a, b)
	}
}

func TestByTag(t *testing.T) {
	beach := models.NewTag("beach")
	photos := []*models.Photo{
		photo("a", "", nil, nil, beach),
		photo("b", "", nil, nil),
	}

	results := ByTag(photos, beach.ID)
	if len(results) != 1 || results[0].Title != "a" {
		t.Errorf("Expected only photo a, got %d results", len(results))
	}
}
