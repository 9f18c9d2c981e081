package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events behind the same auth.
func NewRouter(h *Handler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/aliases", h.ListAliases)
	r.Route("/aliases/{name}", func(r chi.Router) {
		r.Get("/", h.GetAlias)
		r.Put("/note", h.SetNote)
		r.Delete("/note", h.ClearNote)
	})

	r.Post("/reload", h.Reload)
	r.Get("/history", h.History)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
