package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// Cache-invalidation polling.
	r.Get("/revision", h.Revision)

	// Drafts (atomic file writer surface).
	r.Get("/drafts/{name}", h.GetDraft)
	r.Put("/drafts/{name}", h.SaveDraft)

	return r
}
