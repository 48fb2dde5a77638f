package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *App) ListTagsHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, app.Store.Tags())
}

func (app *App) CreateTagHandler(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tag, err := app.Store.CreateTag(r.Context(), req.Name)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tag)
}

func (app *App) TagPhotosHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := app.Store.Tag(id); err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, app.visiblePhotos(app.Store.PhotosWithTag(id)))
}
