package models

import (
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/kdimtricp/galleryguru/internal/phash"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewTag(name string) Tag {
	return Tag{ID: uuid.New().String(), Name: name}
}

// Metadata is the caller-supplied part of a photo, copied verbatim at ingestion.
type Metadata struct {
	Filename    string
	BlobKey     string
	Title       string
	Description string
	Tags        []Tag
	TakenAt     *time.Time
	Location    *Location
}

type Photo struct {
	ID           string            `json:"id"`
	CollectionID string            `json:"collection_id"`
	Image        image.Image       `json:"-"`
	Fingerprint  phash.Fingerprint `json:"fingerprint"`
	Filename     string            `json:"filename"`
	BlobKey      string            `json:"blob_key"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Tags         []Tag             `json:"tags"`
	TakenAt      *time.Time        `json:"taken_at,omitempty"`
	Location     *Location         `json:"location,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

func NewPhoto(img image.Image, fp phash.Fingerprint, meta Metadata) *Photo {
	p := &Photo{
		ID:          uuid.New().String(),
		Image:       img,
		Fingerprint: fp,
		Filename:    meta.Filename,
		BlobKey:     meta.BlobKey,
		Title:       meta.Title,
		Description: meta.Description,
		Tags:        dedupeTags(meta.Tags),
		CreatedAt:   time.Now(),
	}
	if meta.TakenAt != nil {
		t := *meta.TakenAt
		p.TakenAt = &t
	}
	if meta.Location != nil {
		loc := *meta.Location
		p.Location = &loc
	}
	return p
}

// Clone returns a copy that shares only the immutable image.
func (p *Photo) Clone() *Photo {
	c := *p
	c.Tags = append([]Tag(nil), p.Tags...)
	if p.TakenAt != nil {
		t := *p.TakenAt
		c.TakenAt = &t
	}
	if p.Location != nil {
		loc := *p.Location
		c.Location = &loc
	}
	return &c
}

func (p *Photo) HasTag(tagID string) bool {
	for _, t := range p.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

func dedupeTags(tags []Tag) []Tag {
	out := make([]Tag, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}
