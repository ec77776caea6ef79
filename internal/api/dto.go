package api

import (
	"github.com/starford/noteshub/internal/models"
	"github.com/starford/noteshub/internal/thread"
)

// CommentRequest is the request body for adding a comment or reply.
type CommentRequest struct {
	Text string `json:"text" example:"Great notes!" validate:"required"`
}

// SessionResponse reports the current session. User is nil for a guest.
type SessionResponse struct {
	User     *models.User `json:"user"`
	Redirect string       `json:"redirect,omitempty"`
	Toast    *Toast       `json:"toast,omitempty"`
}

// NoteListResponse wraps search results.
type NoteListResponse struct {
	Notes []models.Note `json:"notes" validate:"required"`
	Total int           `json:"total" example:"3" validate:"required"`
}

// NoteResponse wraps a single changed note.
type NoteResponse struct {
	Note     models.Note `json:"note" validate:"required"`
	Redirect string      `json:"redirect,omitempty"`
	Toast    *Toast      `json:"toast,omitempty"`
}

// ViewResponse is a note detail view.
type ViewResponse struct {
	State thread.State `json:"state" example:"found"`
	Tab   thread.Tab   `json:"tab" example:"details"`
	Note  models.Note  `json:"note"`
	// Preview holds the rendered HTML when Tab is preview.
	Preview string `json:"preview,omitempty"`
}

// PreviewResponse is the rendered preview tab.
type PreviewResponse struct {
	ID   int64  `json:"id" example:"1"`
	HTML string `json:"html"`
}
