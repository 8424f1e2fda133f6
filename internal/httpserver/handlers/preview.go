package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/beanstalk/internal/domain"
	"github.com/MrSnakeDoc/beanstalk/internal/httpserver/deps"
)

type previewResponse struct {
	Category domain.Category `json:"category"`
}

// Preview handles GET /api/preview?text=..., answering 204 while the text is
// too short to classify.
func Preview(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat, ok := d.Journal.Preview(r.URL.Query().Get("text"))
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, previewResponse{Category: cat})
	}
}

// Categories handles GET /api/categories.
func Categories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Journal.Categories())
	}
}
