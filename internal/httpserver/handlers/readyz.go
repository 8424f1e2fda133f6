package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/beanstalk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/beanstalk/internal/logger"
	"github.com/MrSnakeDoc/beanstalk/internal/store"
)

const readyzPingTimeout = 2 * time.Second

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz reports ready once the persistence gateway answers a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyzPingTimeout)
		defer cancel()

		if err := store.Ping(ctx, d.Gateway); err != nil {
			d.Logger.Warn("readiness check failed", logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false, Error: "store unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
