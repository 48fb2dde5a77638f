package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection is a named, ordered group of photos ("folder" in the app).
type Collection struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Photos       []*Photo  `json:"photos,omitempty"`
	Locked       bool      `json:"locked"`
	PasscodeHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewCollection(name string) *Collection {
	return &Collection{
		ID:        uuid.New().String(),
		Name:      name,
		Photos:    []*Photo{},
		CreatedAt: time.Now(),
	}
}

func (c *Collection) IndexOf(photoID string) int {
	for i, p := range c.Photos {
		if p.ID == photoID {
			return i
		}
	}
	return -1
}
