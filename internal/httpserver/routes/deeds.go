package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/beanstalk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/beanstalk/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/beanstalk/internal/httpserver/mw"
)

func init() { Register(registerDeeds, tokenRequired) }

func registerDeeds(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:      d.RateLimitBurst,
		PerMinute:  d.RateLimitPerMin,
		MaxEntries: 10000,
		TrustProxy: d.TrustProxy,
		Now:        d.TimeNow,
		Logger:     d.Logger,
	})

	r.With(limit).Post("/api/deeds", handlers.SubmitDeed(d))
	r.Get("/api/deeds", handlers.ListDeeds(d))
	r.Delete("/api/deeds", handlers.ResetDeeds(d))
	r.Get("/api/preview", handlers.Preview(d))
	r.Get("/api/categories", handlers.Categories(d))
}
