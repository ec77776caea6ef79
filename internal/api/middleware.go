// Package api implements the NotesHub REST API using chi.
package api

import (
	"net/http"

	"github.com/starford/noteshub/internal/models"
)

// Identity reports the current session user, nil for a guest.
type Identity interface {
	Current() *models.User
}

// RequireSession returns middleware that only lets requests through while a
// user is logged in. Guests are sent to the login view.
func RequireSession(id Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id.Current() == nil {
				writeJSON(w, http.StatusUnauthorized, errResponse{
					Error: "login required", Kind: KindUnauthorized, Redirect: RouteLogin,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PublicOnly returns middleware for the login and register views. A logged
// in user is sent to the search view instead.
func PublicOnly(id Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id.Current() != nil {
				writeJSON(w, http.StatusConflict, errResponse{
					Error: "already logged in", Kind: KindConflict, Redirect: RouteSearch,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
