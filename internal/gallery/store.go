// Package gallery holds the working set of collections, photos and tags, and
// the fingerprint index the deduplicator scans.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/kdimtricp/galleryguru/internal/models"
	"github.com/kdimtricp/galleryguru/internal/phash"
)

const maxNameLength = 100

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrCollectionExists   = errors.New("collection already exists")
	ErrInvalidName        = errors.New("invalid name")
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrWrongPasscode      = errors.New("wrong passcode")
	ErrEmptyPasscode      = errors.New("passcode is empty")
	ErrNotLocked          = errors.New("collection is not locked")
)

type Store struct {
	mu           sync.RWMutex
	catalog      Catalog
	collections  []*models.Collection
	photos       map[string]*models.Photo
	fingerprints map[string]phash.Fingerprint
	tags         []models.Tag
	passcodeCost int

	subMu       sync.Mutex
	subscribers []Subscriber
}

type Option func(*Store)

// WithPasscodeCost sets the bcrypt cost used when locking collections.
func WithPasscodeCost(cost int) Option {
	return func(s *Store) {
		s.passcodeCost = cost
	}
}

func NewStore(catalog Catalog, opts ...Option) *Store {
	if catalog == nil {
		catalog = nopCatalog{}
	}
	s := &Store{
		catalog:      catalog,
		collections:  []*models.Collection{},
		photos:       make(map[string]*models.Photo),
		fingerprints: make(map[string]phash.Fingerprint),
		passcodeCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the catalog's.
func (s *Store) Load(ctx context.Context) error {
	snap, err := s.catalog.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	photos := make(map[string]*models.Photo)
	fingerprints := make(map[string]phash.Fingerprint)
	for _, c := range snap.Collections {
		for _, p := range c.Photos {
			p.CollectionID = c.ID
			photos[p.ID] = p
			fingerprints[p.ID] = p.Fingerprint
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = snap.Collections
	s.photos = photos
	s.fingerprints = fingerprints
	s.tags = snap.Tags
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return name, nil
}

func cloneCollection(c *models.Collection) *models.Collection {
	out := *c
	out.Photos = make([]*models.Photo, len(c.Photos))
	for i, p := range c.Photos {
		out.Photos[i] = p.Clone()
	}
	return &out
}

func (s *Store) collectionLocked(id string) (*models.Collection, int) {
	for i, c := range s.collections {
		if c.ID == id {
			return c, i
		}
	}
	return nil, -1
}

func (s *Store) collectionByNameLocked(name string) *models.Collection {
	for _, c := range s.collections {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Collections returns copies of every collection in creation order.
func (s *Store) Collections() []*models.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Collection, len(s.collections))
	for i, c := range s.collections {
		out[i] = cloneCollection(c)
	}
	return out
}

func (s *Store) Collection(id string) (*models.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, _ := s.collectionLocked(id)
	if c == nil {
		return nil, ErrCollectionNotFound
	}
	return cloneCollection(c), nil
}

func (s *Store) CollectionByName(name string) (*models.Collection, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.collectionByNameLocked(name)
	if c == nil {
		return nil, ErrCollectionNotFound
	}
	return cloneCollection(c), nil
}

func (s *Store) CreateCollection(ctx context.Context, name string) (*models.Collection, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.collectionByNameLocked(name) != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrCollectionExists, name)
	}
	c := models.NewCollection(name)
	if err := s.catalog.InsertCollection(ctx, c); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("saving collection %s: %w", name, err)
	}
	s.collections = append(s.collections, c)
	out := cloneCollection(c)
	s.mu.Unlock()

	s.emit(Event{Type: EventCollectionCreated, CollectionID: c.ID, Name: c.Name})
	return out, nil
}

// EnsureCollection resolves a collection by name, creating it empty if absent.
func (s *Store) EnsureCollection(ctx context.Context, name string) (*models.Collection, error) {
	c, err := s.CollectionByName(name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrCollectionNotFound) {
		return nil, err
	}

	c, err = s.CreateCollection(ctx, name)
	if errors.Is(err, ErrCollectionExists) {
		// Lost a race with another creator.
		return s.CollectionByName(name)
	}
	return c, err
}

// DeleteCollection removes a collection together with its photos and returns
// the photos it held at the moment of removal.
func (s *Store) DeleteCollection(ctx context.Context, id string) ([]*models.Photo, error) {
	s.mu.Lock()
	c, idx := s.collectionLocked(id)
	if c == nil {
		s.mu.Unlock()
		return nil, ErrCollectionNotFound
	}
	if err := s.catalog.DeleteCollection(ctx, id); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("deleting collection %s: %w", c.Name, err)
	}
	removed := make([]*models.Photo, len(c.Photos))
	for i, p := range c.Photos {
		removed[i] = p.Clone()
		delete(s.photos, p.ID)
		delete(s.fingerprints, p.ID)
	}
	s.collections = append(s.collections[:idx:idx], s.collections[idx+1:]...)
	s.mu.Unlock()

	s.emit(Event{Type: EventCollectionDeleted, CollectionID: c.ID, Name: c.Name})
	return removed, nil
}

// ScanFunc walks the fingerprint index in the order Scan documents.
type ScanFunc func(fn func(photoID string, fp phash.Fingerprint) bool)

// Route picks the collection a photo is added to. It runs under the store's
// write lock and must not call back into the Store.
type Route func(scan ScanFunc) (name string, create bool)

// AddPhoto appends photo to the collection called name and records its
// fingerprint. With create set, a missing collection is created in the same
// step. Nothing changes unless every part succeeds.
func (s *Store) AddPhoto(ctx context.Context, name string, create bool, photo *models.Photo) (*models.Collection, error) {
	return s.AddPhotoRouted(ctx, photo, func(ScanFunc) (string, bool) {
		return name, create
	})
}

// AddPhotoRouted is AddPhoto with the destination chosen by route while the
// write lock is held, so no other mutation lands between the decision and
// the append.
func (s *Store) AddPhotoRouted(ctx context.Context, photo *models.Photo, route Route) (*models.Collection, error) {
	s.mu.Lock()
	if _, exists := s.photos[photo.ID]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("photo %s already stored", photo.ID)
	}

	name, create := route(s.scanLocked)
	name, err := normalizeName(name)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	c := s.collectionByNameLocked(name)
	var created *models.Collection
	if c == nil {
		if !create {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
		}
		created = models.NewCollection(name)
		c = created
	}

	photo.CollectionID = c.ID
	if err := s.catalog.InsertPhoto(ctx, photo, created); err != nil {
		photo.CollectionID = ""
		s.mu.Unlock()
		return nil, fmt.Errorf("saving photo %s: %w", photo.ID, err)
	}

	if created != nil {
		s.collections = append(s.collections, created)
	}
	c.Photos = append(c.Photos, photo)
	s.photos[photo.ID] = photo
	s.fingerprints[photo.ID] = photo.Fingerprint
	out := cloneCollection(c)
	s.mu.Unlock()

	if created != nil {
		s.emit(Event{Type: EventCollectionCreated, CollectionID: c.ID, Name: c.Name})
	}
	s.emit(Event{Type: EventPhotoAdded, CollectionID: c.ID, PhotoID: photo.ID, Name: c.Name})
	return out, nil
}

// Scan calls fn for every stored fingerprint, collections in creation order
// and photos in append order, until fn returns false.
func (s *Store) Scan(fn func(photoID string, fp phash.Fingerprint) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.scanLocked(fn)
}

func (s *Store) scanLocked(fn func(photoID string, fp phash.Fingerprint) bool) {
	for _, c := range s.collections {
		for _, p := range c.Photos {
			if !fn(p.ID, s.fingerprints[p.ID]) {
				return
			}
		}
	}
}

func (s *Store) Photo(id string) (*models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.photos[id]
	if !ok {
		return nil, ErrPhotoNotFound
	}
	return p.Clone(), nil
}

// Photos returns copies of every photo across all collections.
func (s *Store) Photos() []*models.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Photo, 0, len(s.photos))
	for _, c := range s.collections {
		for _, p := range c.Photos {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (s *Store) PhotoCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.photos)
}

func (s *Store) FingerprintCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fingerprints)
}

func (s *Store) RemovePhoto(ctx context.Context, collectionID, photoID string) error {
	s.mu.Lock()
	c, _ := s.collectionLocked(collectionID)
	if c == nil {
		s.mu.Unlock()
		return ErrCollectionNotFound
	}
	idx := c.IndexOf(photoID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrPhotoNotFound
	}
	if err := s.catalog.DeletePhoto(ctx, photoID); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("deleting photo %s: %w", photoID, err)
	}
	c.Photos = append(c.Photos[:idx:idx], c.Photos[idx+1:]...)
	delete(s.photos, photoID)
	delete(s.fingerprints, photoID)
	s.mu.Unlock()

	s.emit(Event{Type: EventPhotoRemoved, CollectionID: collectionID, PhotoID: photoID})
	return nil
}

// PhotoUpdate carries metadata edits; nil fields are left unchanged.
type PhotoUpdate struct {
	Title       *string
	Description *string
	TakenAt     *time.Time
	Location    *models.Location
}

func (s *Store) UpdatePhoto(ctx context.Context, id string, upd PhotoUpdate) (*models.Photo, error) {
	return s.mutatePhoto(ctx, id, func(p *models.Photo) error {
		if upd.Title != nil {
			p.Title = *upd.Title
		}
		if upd.Description != nil {
			p.Description = *upd.Description
		}
		if upd.TakenAt != nil {
			t := *upd.TakenAt
			p.TakenAt = &t
		}
		if upd.Location != nil {
			loc := *upd.Location
			p.Location = &loc
		}
		return nil
	})
}

// mutatePhoto applies fn to a copy, persists it, then publishes it in place.
func (s *Store) mutatePhoto(ctx context.Context, id string, fn func(*models.Photo) error) (*models.Photo, error) {
	s.mu.Lock()
	p, ok := s.photos[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrPhotoNotFound
	}
	updated := p.Clone()
	if err := fn(updated); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	updated.Fingerprint = p.Fingerprint
	if err := s.catalog.UpdatePhoto(ctx, updated); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("updating photo %s: %w", id, err)
	}
	*p = *updated
	out := p.Clone()
	s.mu.Unlock()

	s.emit(Event{Type: EventPhotoUpdated, CollectionID: out.CollectionID, PhotoID: id})
	return out, nil
}
