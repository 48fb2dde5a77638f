package gallery

import (
	"context"
	"fmt"
	"strings"

	"github.com/kdimtricp/galleryguru/internal/models"
	"github.com/kdimtricp/galleryguru/internal/search"
)

// CreateTag returns the tag called name, creating it if needed.
func (s *Store) CreateTag(ctx context.Context, name string) (models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Tag{}, fmt.Errorf("%w: empty tag", ErrInvalidName)
	}

	s.mu.Lock()
	for _, t := range s.tags {
		if t.Name == name {
			s.mu.Unlock()
			return t, nil
		}
	}
	tag := models.NewTag(name)
	if err := s.catalog.InsertTag(ctx, tag); err != nil {
		s.mu.Unlock()
		return models.Tag{}, fmt.Errorf("saving tag %s: %w", name, err)
	}
	s.tags = append(s.tags, tag)
	s.mu.Unlock()

	s.emit(Event{Type: EventTagCreated, TagID: tag.ID, Name: tag.Name})
	return tag, nil
}

func (s *Store) Tags() []models.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Tag(nil), s.tags...)
}

func (s *Store) Tag(id string) (models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tagLocked(id)
}

func (s *Store) tagLocked(id string) (models.Tag, error) {
	for _, t := range s.tags {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Tag{}, ErrTagNotFound
}

func (s *Store) AssignTag(ctx context.Context, photoID, tagID string) (*models.Photo, error) {
	return s.mutatePhoto(ctx, photoID, func(p *models.Photo) error {
		tag, err := s.tagLocked(tagID)
		if err != nil {
			return err
		}
		if !p.HasTag(tagID) {
			p.Tags = append(p.Tags, tag)
		}
		return nil
	})
}

func (s *Store) RemoveTag(ctx context.Context, photoID, tagID string) (*models.Photo, error) {
	return s.mutatePhoto(ctx, photoID, func(p *models.Photo) error {
		kept := p.Tags[:0]
		for _, t := range p.Tags {
			if t.ID != tagID {
				kept = append(kept, t)
			}
		}
		p.Tags = kept
		return nil
	})
}

// PhotosWithTag returns copies of the photos carrying tagID, in scan order.
func (s *Store) PhotosWithTag(tagID string) []*models.Photo {
	return search.ByTag(s.Photos(), tagID)
}
