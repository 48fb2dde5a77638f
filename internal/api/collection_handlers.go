package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kdimtricp/galleryguru/internal/models"
)

type nameRequest struct {
	Name string `json:"name"`
}

type passcodeRequest struct {
	Passcode string `json:"passcode"`
}

// hideLocked strips the photo list of a locked collection.
func hideLocked(c *models.Collection) *models.Collection {
	if c.Locked {
		c.Photos = nil
	}
	return c
}

func (app *App) ListCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	collections := app.Store.Collections()
	for _, c := range collections {
		hideLocked(c)
	}
	respondJSON(w, http.StatusOK, collections)
}

func (app *App) CreateCollectionHandler(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := app.Store.CreateCollection(r.Context(), req.Name)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (app *App) GetCollectionHandler(w http.ResponseWriter, r *http.Request) {
	c, err := app.Store.Collection(chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, hideLocked(c))
}

// DeleteCollectionHandler drops the collection and its photos, then their blobs.
func (app *App) DeleteCollectionHandler(w http.ResponseWriter, r *http.Request) {
	removed, err := app.Store.DeleteCollection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	for _, p := range removed {
		app.deleteBlobs(p.BlobKey)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) RemovePhotoHandler(w http.ResponseWriter, r *http.Request) {
	collectionID, photoID := chi.URLParam(r, "id"), chi.URLParam(r, "photoID")
	photo, err := app.Store.Photo(photoID)
	if err != nil {
		respondErr(w, err)
		return
	}

	if err := app.Store.RemovePhoto(r.Context(), collectionID, photoID); err != nil {
		respondErr(w, err)
		return
	}
	app.deleteBlobs(photo.BlobKey)
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) LockCollectionHandler(w http.ResponseWriter, r *http.Request) {
	var req passcodeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := app.Store.LockCollection(r.Context(), chi.URLParam(r, "id"), req.Passcode); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) UnlockCollectionHandler(w http.ResponseWriter, r *http.Request) {
	var req passcodeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := app.Store.UnlockCollection(r.Context(), chi.URLParam(r, "id"), req.Passcode); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
