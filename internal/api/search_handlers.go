package api

import (
	"net/http"
	"strconv"

	"github.com/kdimtricp/galleryguru/internal/search"
)

func (app *App) SearchTextHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	respondJSON(w, http.StatusOK, search.ByText(app.visiblePhotos(app.Store.Photos()), query))
}

func (app *App) SearchDateHandler(w http.ResponseWriter, r *http.Request) {
	day, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date")
		return
	}
	respondJSON(w, http.StatusOK, search.ByDate(app.visiblePhotos(app.Store.Photos()), day))
}

func (app *App) SearchLocationHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loc, err := parseLocation(q.Get("lat"), q.Get("lon"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var radius float64
	if v := q.Get("radius"); v != "" {
		if radius, err = strconv.ParseFloat(v, 64); err != nil || radius < 0 {
			respondError(w, http.StatusBadRequest, "invalid radius")
			return
		}
	}
	respondJSON(w, http.StatusOK, search.ByLocation(app.visiblePhotos(app.Store.Photos()), loc.Latitude, loc.Longitude, radius))
}
