package gallery

import (
	"context"

	"github.com/kdimtricp/galleryguru/internal/models"
)

// Catalog persists store mutations. Every call happens under the store's
// write lock and before memory is changed, so a failed call leaves the store
// untouched.
type Catalog interface {
	InsertCollection(ctx context.Context, c *models.Collection) error
	DeleteCollection(ctx context.Context, id string) error
	UpdateCollectionLock(ctx context.Context, c *models.Collection) error
	// InsertPhoto stores photo. When created is non-nil it is the photo's new
	// collection and must be inserted in the same transaction.
	InsertPhoto(ctx context.Context, photo *models.Photo, created *models.Collection) error
	DeletePhoto(ctx context.Context, id string) error
	UpdatePhoto(ctx context.Context, photo *models.Photo) error
	InsertTag(ctx context.Context, tag models.Tag) error
	Load(ctx context.Context) (*Snapshot, error)
}

// Snapshot is the persisted state: collections in creation order, each with
// its photos in append order.
type Snapshot struct {
	Collections []*models.Collection
	Tags        []models.Tag
}

type nopCatalog struct{}

func (nopCatalog) InsertCollection(context.Context, *models.Collection) error     { return nil }
func (nopCatalog) DeleteCollection(context.Context, string) error                 { return nil }
func (nopCatalog) UpdateCollectionLock(context.Context, *models.Collection) error { return nil }
func (nopCatalog) InsertPhoto(context.Context, *models.Photo, *models.Collection) error {
	return nil
}
func (nopCatalog) DeletePhoto(context.Context, string) error        { return nil }
func (nopCatalog) UpdatePhoto(context.Context, *models.Photo) error { return nil }
func (nopCatalog) InsertTag(context.Context, models.Tag) error      { return nil }
func (nopCatalog) Load(context.Context) (*Snapshot, error)          { return &Snapshot{}, nil }
