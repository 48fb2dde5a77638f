package api

import (
	"bytes"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"

	"github.com/kdimtricp/galleryguru/internal/exifmeta"
	"github.com/kdimtricp/galleryguru/internal/gallery"
	"github.com/kdimtricp/galleryguru/internal/models"
	"github.com/kdimtricp/galleryguru/internal/storage"
)

type uploadResponse struct {
	Photo          *models.Photo `json:"photo"`
	CollectionID   string        `json:"collection_id"`
	Collection     string        `json:"collection"`
	Duplicate      bool          `json:"duplicate"`
	MatchedPhotoID string        `json:"matched_photo_id,omitempty"`
	Distance       int           `json:"distance"`
}

func (app *App) UploadPhotoHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)

	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respondError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	meta := models.Metadata{
		Filename:    header.Filename,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if err := parseUploadMetadata(r, &meta); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Unsupported or corrupt image")
		return
	}

	if meta.TakenAt == nil || meta.Location == nil {
		if info, err := exifmeta.Read(bytes.NewReader(data)); err == nil {
			exifmeta.Fill(&meta, info)
		}
	}

	for _, name := range strings.Split(r.FormValue("tags"), ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		tag, err := app.Store.CreateTag(r.Context(), name)
		if err != nil {
			respondErr(w, err)
			return
		}
		meta.Tags = append(meta.Tags, tag)
	}

	contentType := header.Header.Get("Content-Type")
	key, err := app.Storage.SaveFile(bytes.NewReader(data), storage.FileInfo{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		log.Printf("[API] Failed to save upload: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}
	meta.BlobKey = key

	if thumb, err := storage.Thumbnail(img); err != nil {
		log.Printf("[API] Failed to render thumbnail for %s: %v", key, err)
	} else if err := app.Storage.Put(storage.ThumbnailKey(key), bytes.NewReader(thumb), "image/jpeg"); err != nil {
		log.Printf("[API] Failed to save thumbnail for %s: %v", key, err)
	}

	res, err := app.Ingest.Ingest(r.Context(), img, r.FormValue("collection"), meta)
	if err != nil {
		app.deleteBlobs(key)
		respondErr(w, err)
		return
	}

	if !res.Duplicate && app.Forwarder != nil {
		app.Forwarder.SendAsync(res.Photo.ID, img)
	}

	respondJSON(w, http.StatusCreated, uploadResponse{
		Photo:          res.Photo,
		CollectionID:   res.Collection.ID,
		Collection:     res.Collection.Name,
		Duplicate:      res.Duplicate,
		MatchedPhotoID: res.MatchedPhotoID,
		Distance:       res.Distance,
	})
}

func parseUploadMetadata(r *http.Request, meta *models.Metadata) error {
	if v := r.FormValue("date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return errors.New("invalid date")
		}
		meta.TakenAt = &t
	}

	latStr, lonStr := r.FormValue("latitude"), r.FormValue("longitude")
	if latStr == "" && lonStr == "" {
		return nil
	}
	loc, err := parseLocation(latStr, lonStr)
	if err != nil {
		return err
	}
	meta.Location = loc
	return nil
}

func parseLocation(latStr, lonStr string) (*models.Location, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, errors.New("invalid latitude")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, errors.New("invalid longitude")
	}
	loc := &models.Location{Latitude: lat, Longitude: lon}
	return loc, validateLocation(loc)
}

func validateLocation(loc *models.Location) error {
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return errors.New("invalid latitude")
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return errors.New("invalid longitude")
	}
	return nil
}

func (app *App) ListPhotosHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, app.visiblePhotos(app.Store.Photos()))
}

func (app *App) GetPhotoHandler(w http.ResponseWriter, r *http.Request) {
	photo, err := app.Store.Photo(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, photo)
}

type photoUpdateRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	TakenAt     *string          `json:"taken_at"`
	Location    *models.Location `json:"location"`
}

func (app *App) UpdatePhotoHandler(w http.ResponseWriter, r *http.Request) {
	var req photoUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	upd := gallery.PhotoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
	}
	if req.TakenAt != nil {
		t, err := parseDate(*req.TakenAt)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid taken_at")
			return
		}
		upd.TakenAt = &t
	}
	if req.Location != nil {
		if err := validateLocation(req.Location); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	photo, err := app.Store.UpdatePhoto(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, photo)
}

func (app *App) PhotoImageHandler(w http.ResponseWriter, r *http.Request) {
	photo, err := app.Store.Photo(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	app.serveBlob(w, photo.BlobKey)
}

func (app *App) PhotoThumbnailHandler(w http.ResponseWriter, r *http.Request) {
	photo, err := app.Store.Photo(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	if photo.BlobKey == "" {
		respondError(w, http.StatusNotFound, "Thumbnail not found")
		return
	}
	app.serveBlob(w, storage.ThumbnailKey(photo.BlobKey))
}

func (app *App) serveBlob(w http.ResponseWriter, key string) {
	if key == "" {
		respondError(w, http.StatusNotFound, "Image not found")
		return
	}

	blob, err := app.Storage.OpenFile(key)
	if err != nil {
		respondError(w, http.StatusNotFound, "Image not found")
		return
	}
	defer blob.Close()

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "max-age=31536000")
	if _, err := io.Copy(w, blob); err != nil {
		log.Printf("[API] Failed to stream %s: %v", key, err)
	}
}

func (app *App) AssignTagHandler(w http.ResponseWriter, r *http.Request) {
	photo, err := app.Store.AssignTag(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tagID"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, photo)
}

func (app *App) RemoveTagHandler(w http.ResponseWriter, r *http.Request) {
	photo, err := app.Store.RemoveTag(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tagID"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, photo)
}
