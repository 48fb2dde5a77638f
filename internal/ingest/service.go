// Package ingest routes newly imported photos either to their requested
// collection or, when they duplicate a stored photo, to a quarantine
// collection.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/kdimtricp/galleryguru/internal/gallery"
	"github.com/kdimtricp/galleryguru/internal/models"
	"github.com/kdimtricp/galleryguru/internal/phash"
)

const (
	// DefaultThreshold only treats identical fingerprints as duplicates.
	DefaultThreshold            = 1
	DefaultCollection           = "Gallery"
	DefaultQuarantineCollection = "Duplicates"
)

var (
	ErrHashingFailed           = errors.New("image could not be fingerprinted")
	ErrDestinationUnresolvable = errors.New("destination collection could not be resolved")
	ErrCatalogWrite            = errors.New("photo could not be saved")
)

type Config struct {
	// Threshold is the exclusive Hamming distance bound for duplicates.
	Threshold            int
	DefaultCollection    string
	QuarantineCollection string
}

type Service struct {
	hasher     phash.Hasher
	store      *gallery.Store
	threshold  int
	defaultCol string
	quarantine string
}

func NewService(hasher phash.Hasher, store *gallery.Store, config Config) *Service {
	if config.Threshold <= 0 {
		config.Threshold = DefaultThreshold
	}
	if config.Threshold > phash.MaxDistance+1 {
		config.Threshold = phash.MaxDistance + 1
	}
	if strings.TrimSpace(config.DefaultCollection) == "" {
		config.DefaultCollection = DefaultCollection
	}
	if strings.TrimSpace(config.QuarantineCollection) == "" {
		config.QuarantineCollection = DefaultQuarantineCollection
	}

	return &Service{
		hasher:     hasher,
		store:      store,
		threshold:  config.Threshold,
		defaultCol: config.DefaultCollection,
		quarantine: config.QuarantineCollection,
	}
}

func (s *Service) Threshold() int { return s.threshold }

func (s *Service) DefaultCollection() string { return s.defaultCol }

func (s *Service) QuarantineCollection() string { return s.quarantine }

// Gallery returns the default collection, creating it on first use.
func (s *Service) Gallery(ctx context.Context) (*models.Collection, error) {
	return s.store.EnsureCollection(ctx, s.defaultCol)
}

type Result struct {
	Photo      *models.Photo
	Collection *models.Collection
	Duplicate  bool
	// MatchedPhotoID and Distance describe the stored photo that triggered
	// quarantine; both are zero for a unique photo.
	MatchedPhotoID string
	Distance       int
}

type match struct {
	photoID  string
	distance int
}

// Ingest fingerprints img and stores it as a new photo. destination names the
// target collection; empty means the default collection. Either exactly one
// collection gains the photo or nothing changes.
func (s *Service) Ingest(ctx context.Context, img image.Image, destination string, meta models.Metadata) (*Result, error) {
	fp, err := s.hasher.Fingerprint(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHashingFailed, err)
	}

	target, create := destination, false
	if strings.TrimSpace(target) == "" || strings.TrimSpace(target) == s.defaultCol {
		target, create = s.defaultCol, true
	}

	// The scan and the append share the store's write lock, so a removal
	// cannot slip between the duplicate decision and the commit.
	var (
		m     match
		found bool
	)
	photo := models.NewPhoto(imaging.Clone(img), fp, meta)
	c, err := s.store.AddPhotoRouted(ctx, photo, func(scan gallery.ScanFunc) (string, bool) {
		m, found = s.findDuplicate(scan, fp)
		if found {
			return s.quarantine, true
		}
		return target, create
	})
	if err != nil {
		if found {
			target = s.quarantine
		}
		if errors.Is(err, gallery.ErrCollectionNotFound) || errors.Is(err, gallery.ErrInvalidName) {
			return nil, fmt.Errorf("%w: %q: %v", ErrDestinationUnresolvable, target, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCatalogWrite, err)
	}

	res := &Result{Photo: photo.Clone(), Collection: c, Duplicate: found}
	if found {
		res.MatchedPhotoID = m.photoID
		res.Distance = m.distance
		log.Printf("[INGEST] Photo %s duplicates %s (distance %d), routed to %q", photo.ID, m.photoID, m.distance, c.Name)
	} else {
		log.Printf("[INGEST] Photo %s added to %q (fingerprint %s)", photo.ID, c.Name, fp)
	}
	return res, nil
}

// findDuplicate returns the first photo scan yields within threshold of fp.
func (s *Service) findDuplicate(scan gallery.ScanFunc, fp phash.Fingerprint) (match, bool) {
	var m match
	found := false
	scan(func(photoID string, stored phash.Fingerprint) bool {
		if d := phash.Hamming(stored, fp); d < s.threshold {
			m = match{photoID: photoID, distance: d}
			found = true
			return false
		}
		return true
	})
	return m, found
}
