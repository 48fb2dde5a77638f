package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Route("/photos", func(r chi.Router) {
		r.Get("/", app.ListPhotosHandler)
		r.Post("/", app.UploadPhotoHandler)
		r.Get("/{id}", app.GetPhotoHandler)
		r.Patch("/{id}", app.UpdatePhotoHandler)
		r.Get("/{id}/image", app.PhotoImageHandler)
		r.Get("/{id}/thumbnail", app.PhotoThumbnailHandler)
		r.Post("/{id}/tags/{tagID}", app.AssignTagHandler)
		r.Delete("/{id}/tags/{tagID}", app.RemoveTagHandler)
	})

	r.Route("/collections", func(r chi.Router) {
		r.Get("/", app.ListCollectionsHandler)
		r.Post("/", app.CreateCollectionHandler)
		r.Get("/{id}", app.GetCollectionHandler)
		r.Delete("/{id}", app.DeleteCollectionHandler)
		r.Delete("/{id}/photos/{photoID}", app.RemovePhotoHandler)
		r.Post("/{id}/lock", app.LockCollectionHandler)
		r.Post("/{id}/unlock", app.UnlockCollectionHandler)
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", app.ListTagsHandler)
		r.Post("/", app.CreateTagHandler)
		r.Get("/{id}/photos", app.TagPhotosHandler)
	})

	r.Route("/search", func(r chi.Router) {
		r.Get("/", app.SearchTextHandler)
		r.Get("/date", app.SearchDateHandler)
		r.Get("/location", app.SearchLocationHandler)
	})

	return r
}
