package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/beanstalk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/beanstalk/internal/httpserver/mw"
)

type (
	Registrar func(r chi.Router, d deps.Deps)

	// Middleware builds a per-route middleware once the deps are known.
	Middleware func(d deps.Deps) func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

var registry []entry

// Register a registrar with optional per-route middlewares.
// Middlewares wrap every route the registrar mounts, in the order given.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterAll mounts every registered route. Called once from server.New()
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		mount(r, d, e)
	}
}

func mount(r chi.Router, d deps.Deps, e entry) {
	if len(e.mws) == 0 {
		e.reg(r, d)
		return
	}
	built := make([]func(http.Handler) http.Handler, 0, len(e.mws))
	for _, m := range e.mws {
		built = append(built, m(d))
	}
	e.reg(r.With(built...), d)
}

// operatorsOnly restricts a route to the configured CIDRs.
func operatorsOnly(d deps.Deps) func(http.Handler) http.Handler {
	return mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
}

// tokenRequired guards a route with the API bearer token.
func tokenRequired(d deps.Deps) func(http.Handler) http.Handler {
	return mw.RequireToken(d.APISecret, d.Logger)
}
