package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tagfield/internal/palette"
	"github.com/starford/tagfield/internal/tagfield"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(reg *tagfield.Registry, catalog *palette.Catalog, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(reg, catalog)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/palette", h.GetPalette)

	r.Get("/fields", h.ListFields)
	r.Route("/fields/{entity}", func(r chi.Router) {
		r.Get("/", h.GetField)
		r.Put("/", h.PutField)

		r.Route("/editor", func(r chi.Router) {
			r.Post("/", h.OpenEditor)
			r.Get("/", h.GetEditor)
			r.Delete("/", h.CancelEditor)
			r.Post("/save", h.SaveEditor)
			r.Post("/dismiss", h.DismissEditor)
			r.Put("/query", h.SetQuery)
			r.Post("/create", h.CreateTag)
			r.Post("/toggle/{tagID}", h.ToggleTag)

			r.Delete("/tags/{tagID}", h.DeleteTag)
			r.Post("/tags/{tagID}/rename", h.BeginRename)
			r.Patch("/tags/{tagID}/rename", h.EditRename)
			r.Put("/tags/{tagID}/rename", h.CommitRename)
			r.Delete("/tags/{tagID}/rename", h.CancelRename)

			r.Post("/tags/{tagID}/color", h.BeginColorPick)
			r.Put("/color", h.PickColor)
			r.Delete("/color", h.DismissPicker)
		})
	})

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
