package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/noteshub/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events behind the session guard.
func NewRouter(svc *noteservice.Service, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)
	sessions := svc.Sessions()

	r := chi.NewRouter()

	// Open routes.
	r.Get("/auth/session", h.Session)
	r.Get("/filters", h.Filters)

	// Login and register are for guests only.
	r.Group(func(r chi.Router) {
		r.Use(PublicOnly(sessions))
		r.Post("/auth/login", h.Login)
		r.Post("/auth/register", h.Register)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireSession(sessions))
		r.Post("/auth/logout", h.Logout)

		r.Get("/notes", h.ListNotes)
		r.Post("/notes", h.CreateNote)
		r.Get("/notes/{id}", h.GetNote)
		r.Get("/notes/{id}/preview", h.Preview)
		r.Post("/notes/{id}/like", h.Like)
		r.Post("/notes/{id}/download", h.Download)
		r.Post("/notes/{id}/comments", h.AddComment)
		r.Post("/notes/{id}/comments/{cid}/replies", h.AddReply)

		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
