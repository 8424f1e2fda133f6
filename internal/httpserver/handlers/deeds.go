package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/beanstalk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/beanstalk/internal/journal"
	"github.com/MrSnakeDoc/beanstalk/internal/logger"
)

const maxDeedBodyBytes = 16 << 10

type submitRequest struct {
	Text string `json:"text"`
}

type resetResponse struct {
	Warnings []string `json:"warnings"`
}

// SubmitDeed handles POST /api/deeds.
func SubmitDeed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxDeedBodyBytes)

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		res, err := d.Journal.Submit(r.Context(), req.Text, d.Now())
		switch {
		case errors.Is(err, journal.ErrEmptyDeed):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			d.Logger.Error("submit failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "could not record deed")
			return
		}

		writeJSON(w, http.StatusCreated, res)
	}
}

// ListDeeds handles GET /api/deeds.
func ListDeeds(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Journal.Snapshot())
	}
}

// ResetDeeds handles DELETE /api/deeds. The caller must pass confirm=true.
func ResetDeeds(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") != "true" {
			writeError(w, http.StatusPreconditionRequired, "reset requires confirm=true")
			return
		}

		if err := d.Journal.Reset(r.Context()); err != nil {
			writeJSON(w, http.StatusOK, resetResponse{Warnings: []string{err.Error()}})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
