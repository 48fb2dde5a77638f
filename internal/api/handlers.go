package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/kdimtricp/galleryguru/internal/gallery"
	"github.com/kdimtricp/galleryguru/internal/ingest"
	"github.com/kdimtricp/galleryguru/internal/models"
	"github.com/kdimtricp/galleryguru/internal/storage"
	"github.com/kdimtricp/galleryguru/internal/upload"
)

type App struct {
	Store   *gallery.Store
	Ingest  *ingest.Service
	Storage storage.Storage
	// Forwarder receives every non-duplicate photo; nil disables forwarding.
	Forwarder     *upload.Forwarder
	MaxUploadSize int64
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondErr picks the status for a domain error.
func respondErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, gallery.ErrCollectionNotFound),
		errors.Is(err, gallery.ErrPhotoNotFound),
		errors.Is(err, gallery.ErrTagNotFound),
		errors.Is(err, ingest.ErrDestinationUnresolvable):
		status = http.StatusNotFound
	case errors.Is(err, gallery.ErrCollectionExists),
		errors.Is(err, gallery.ErrNotLocked):
		status = http.StatusConflict
	case errors.Is(err, gallery.ErrInvalidName),
		errors.Is(err, gallery.ErrEmptyPasscode):
		status = http.StatusBadRequest
	case errors.Is(err, gallery.ErrWrongPasscode):
		status = http.StatusForbidden
	case errors.Is(err, ingest.ErrHashingFailed):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		log.Printf("[API] %v", err)
	}
	respondError(w, status, err.Error())
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parseDate accepts RFC 3339 timestamps and plain local dates.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// visiblePhotos drops photos that sit in locked collections.
func (app *App) visiblePhotos(photos []*models.Photo) []*models.Photo {
	locked := map[string]bool{}
	for _, c := range app.Store.Collections() {
		if c.Locked {
			locked[c.ID] = true
		}
	}

	out := make([]*models.Photo, 0, len(photos))
	for _, p := range photos {
		if !locked[p.CollectionID] {
			out = append(out, p)
		}
	}
	return out
}

// deleteBlobs removes a photo original and its thumbnail, logging failures.
func (app *App) deleteBlobs(key string) {
	if key == "" {
		return
	}
	if err := app.Storage.DeleteFile(key); err != nil {
		log.Printf("[API] Failed to delete blob %s: %v", key, err)
	}
	// Thumbnails are best effort, so a missing one is not worth a log line.
	app.Storage.DeleteFile(storage.ThumbnailKey(key))
}
