package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kdimtricp/galleryguru/internal/gallery"
	"github.com/kdimtricp/galleryguru/internal/models"
	"github.com/kdimtricp/galleryguru/internal/phash"
)

// CatalogRepo persists the gallery in collections, photos, tags and
// photo_tags. Positions keep collection creation order and photo append order.
type CatalogRepo struct {
	db *DB
}

var _ gallery.Catalog = (*CatalogRepo)(nil)

func NewCatalogRepo(db *DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *CatalogRepo) InsertCollection(ctx context.Context, c *models.Collection) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return r.insertCollection(ctx, tx, c)
	})
}

func (r *CatalogRepo) insertCollection(ctx context.Context, tx *sql.Tx, c *models.Collection) error {
	query := r.db.rebind(`
		INSERT INTO collections (id, name, position, locked, passcode_hash, created_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM collections), ?, ?, ?)`)

	if _, err := tx.ExecContext(ctx, query, c.ID, c.Name, c.Locked, c.PasscodeHash, c.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert collection %s: %w", c.Name, err)
	}
	return nil
}

func (r *CatalogRepo) DeleteCollection(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		stmts := []string{
			`DELETE FROM photo_tags WHERE photo_id IN (SELECT id FROM photos WHERE collection_id = ?)`,
			`DELETE FROM photos WHERE collection_id = ?`,
			`DELETE FROM collections WHERE id = ?`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, r.db.rebind(stmt), id); err != nil {
				return fmt.Errorf("failed to delete collection %s: %w", id, err)
			}
		}
		return nil
	})
}

func (r *CatalogRepo) UpdateCollectionLock(ctx context.Context, c *models.Collection) error {
	query := r.db.rebind(`UPDATE collections SET locked = ?, passcode_hash = ? WHERE id = ?`)
	res, err := r.db.conn.ExecContext(ctx, query, c.Locked, c.PasscodeHash, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update collection lock: %w", err)
	}
	return expectRow(res, "collection", c.ID)
}

func (r *CatalogRepo) InsertPhoto(ctx context.Context, p *models.Photo, created *models.Collection) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if created != nil {
			if err := r.insertCollection(ctx, tx, created); err != nil {
				return err
			}
		}

		query := r.db.rebind(`
			INSERT INTO photos (
				id, collection_id, position, fingerprint, filename, blob_key,
				title, description, taken_at, latitude, longitude, created_at
			) VALUES (
				?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM photos WHERE collection_id = ?),
				?, ?, ?, ?, ?, ?, ?, ?, ?
			)`)

		lat, lon := nullLocation(p.Location)
		if _, err := tx.ExecContext(ctx, query,
			p.ID, p.CollectionID, p.CollectionID,
			p.Fingerprint.String(), p.Filename, p.BlobKey,
			p.Title, p.Description, nullTime(p.TakenAt), lat, lon, p.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert photo %s: %w", p.ID, err)
		}

		return r.insertPhotoTags(ctx, tx, p)
	})
}

func (r *CatalogRepo) insertPhotoTags(ctx context.Context, tx *sql.Tx, p *models.Photo) error {
	query := r.db.rebind(`INSERT INTO photo_tags (photo_id, tag_id, position) VALUES (?, ?, ?)`)
	for i, tag := range p.Tags {
		if _, err := tx.ExecContext(ctx, query, p.ID, tag.ID, i); err != nil {
			return fmt.Errorf("failed to tag photo %s: %w", p.ID, err)
		}
	}
	return nil
}

func (r *CatalogRepo) DeletePhoto(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.db.rebind(`DELETE FROM photo_tags WHERE photo_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete photo tags: %w", err)
		}
		res, err := tx.ExecContext(ctx, r.db.rebind(`DELETE FROM photos WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete photo: %w", err)
		}
		return expectRow(res, "photo", id)
	})
}

// UpdatePhoto rewrites the editable fields and tag list. Fingerprint and
// membership never change after ingestion.
func (r *CatalogRepo) UpdatePhoto(ctx context.Context, p *models.Photo) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		query := r.db.rebind(`
			UPDATE photos
			SET title = ?, description = ?, taken_at = ?, latitude = ?, longitude = ?
			WHERE id = ?`)

		lat, lon := nullLocation(p.Location)
		res, err := tx.ExecContext(ctx, query, p.Title, p.Description, nullTime(p.TakenAt), lat, lon, p.ID)
		if err != nil {
			return fmt.Errorf("failed to update photo: %w", err)
		}
		if err := expectRow(res, "photo", p.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, r.db.rebind(`DELETE FROM photo_tags WHERE photo_id = ?`), p.ID); err != nil {
			return fmt.Errorf("failed to reset photo tags: %w", err)
		}
		return r.insertPhotoTags(ctx, tx, p)
	})
}

func (r *CatalogRepo) InsertTag(ctx context.Context, tag models.Tag) error {
	query := r.db.rebind(`INSERT INTO tags (id, name) VALUES (?, ?)`)
	if _, err := r.db.conn.ExecContext(ctx, query, tag.ID, tag.Name); err != nil {
		return fmt.Errorf("failed to insert tag %s: %w", tag.Name, err)
	}
	return nil
}

// Load reads the whole catalog. Photo images are not persisted; loaded photos
// carry only their fingerprint and blob key.
func (r *CatalogRepo) Load(ctx context.Context) (*gallery.Snapshot, error) {
	snap := &gallery.Snapshot{}

	tags, err := r.loadTags(ctx)
	if err != nil {
		return nil, err
	}
	snap.Tags = tags

	photoTags, err := r.loadPhotoTags(ctx, tags)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, name, locked, passcode_hash, created_at
		FROM collections ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	byID := map[string]*models.Collection{}
	for rows.Next() {
		c := &models.Collection{Photos: []*models.Photo{}}
		if err := rows.Scan(&c.ID, &c.Name, &c.Locked, &c.PasscodeHash, &c.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		snap.Collections = append(snap.Collections, c)
		byID[c.ID] = c
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read collections: %w", err)
	}

	rows, err = r.db.conn.QueryContext(ctx, `
		SELECT id, collection_id, fingerprint, filename, blob_key, title, description,
			taken_at, latitude, longitude, created_at
		FROM photos ORDER BY collection_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p        models.Photo
			fp       string
			takenAt  sql.NullTime
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&p.ID, &p.CollectionID, &fp, &p.Filename, &p.BlobKey, &p.Title,
			&p.Description, &takenAt, &lat, &lon, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}

		if p.Fingerprint, err = phash.ParseFingerprint(fp); err != nil {
			return nil, fmt.Errorf("photo %s: %w", p.ID, err)
		}
		if takenAt.Valid {
			t := takenAt.Time
			p.TakenAt = &t
		}
		if lat.Valid && lon.Valid {
			p.Location = &models.Location{Latitude: lat.Float64, Longitude: lon.Float64}
		}
		p.Tags = photoTags[p.ID]
		if p.Tags == nil {
			p.Tags = []models.Tag{}
		}

		c, ok := byID[p.CollectionID]
		if !ok {
			return nil, fmt.Errorf("photo %s references unknown collection %s", p.ID, p.CollectionID)
		}
		c.Photos = append(c.Photos, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read photos: %w", err)
	}

	return snap, nil
}

func (r *CatalogRepo) loadTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.db.conn.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *CatalogRepo) loadPhotoTags(ctx context.Context, tags []models.Tag) (map[string][]models.Tag, error) {
	byID := make(map[string]models.Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	rows, err := r.db.conn.QueryContext(ctx, `SELECT photo_id, tag_id FROM photo_tags ORDER BY photo_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query photo tags: %w", err)
	}
	defer rows.Close()

	out := map[string][]models.Tag{}
	for rows.Next() {
		var photoID, tagID string
		if err := rows.Scan(&photoID, &tagID); err != nil {
			return nil, fmt.Errorf("failed to scan photo tag: %w", err)
		}
		if t, ok := byID[tagID]; ok {
			out[photoID] = append(out[photoID], t)
		}
	}
	return out, rows.Err()
}

func expectRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s not found", kind, id)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullLocation(loc *models.Location) (sql.NullFloat64, sql.NullFloat64) {
	if loc == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Latitude, Valid: true},
		sql.NullFloat64{Float64: loc.Longitude, Valid: true}
}
