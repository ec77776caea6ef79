// Package noteservice is the application-state container: it owns the note
// repository and session, and is the one place the HTTP and MCP surfaces
// go through to read or change notes.
package noteservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/models"
	"github.com/starford/noteshub/internal/notes"
	"github.com/starford/noteshub/internal/preview"
	"github.com/starford/noteshub/internal/search"
	"github.com/starford/noteshub/internal/session"
	"github.com/starford/noteshub/internal/sse"
	"github.com/starford/noteshub/internal/thread"
	"github.com/starford/noteshub/internal/upload"
)

// Publisher receives note change notifications.
type Publisher interface {
	PublishNoteEvent(kind string, id int64)
}

type nopPublisher struct{}

func (nopPublisher) PublishNoteEvent(string, int64) {}

// Service coordinates the repository, session, and upload flows.
type Service struct {
	repo     *notes.Repository
	sessions *session.Store
	uploads  *upload.Service
	options  models.FilterOptions
	events   Publisher
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher routes change notifications to p.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithClock overrides the clock used for relative filters.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new note service.
func NewService(repo *notes.Repository, sessions *session.Store, uploads *upload.Service, options models.FilterOptions, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		sessions: sessions,
		uploads:  uploads,
		options:  options,
		events:   nopPublisher{},
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sessions exposes the session store.
func (s *Service) Sessions() *session.Store { return s.sessions }

// Uploads exposes the upload service.
func (s *Service) Uploads() *upload.Service { return s.uploads }

// FilterOptions returns the selectable filter values.
func (s *Service) FilterOptions() models.FilterOptions { return s.options }

// Browse returns the notes matching query and sel.
func (s *Service) Browse(_ context.Context, query string, sel search.Selection) []models.Note {
	return search.Filter(s.repo.List(), query, sel, s.now())
}

// GetNote returns one note.
func (s *Service) GetNote(_ context.Context, id int64) (models.Note, error) {
	return s.repo.FindByID(id)
}

// OpenView resolves a detail view and selects tab.
func (s *Service) OpenView(_ context.Context, id int64, tab thread.Tab) (*thread.View, error) {
	v, err := thread.OpenView(s.repo, id)
	if err != nil {
		return nil, err
	}
	if v.State == thread.StateNotFound {
		return v, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	if err := v.SetTab(tab); err != nil {
		return nil, err
	}
	return v, nil
}

// Preview renders the preview tab of note id as HTML.
func (s *Service) Preview(_ context.Context, id int64) (string, error) {
	n, err := s.repo.FindByID(id)
	if err != nil {
		return "", err
	}
	return preview.HTML(n)
}

// ToggleLike flips the like state of note id.
func (s *Service) ToggleLike(_ context.Context, id int64) (models.Note, error) {
	n, ok := s.repo.ToggleLike(id)
	if !ok {
		return models.Note{}, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	s.logger.Debug("note like toggled", slog.Int64("id", id), slog.Bool("liked", n.Liked))
	s.events.PublishNoteEvent(sse.EventNoteLiked, id)
	return n, nil
}

// Download counts a download of note id.
func (s *Service) Download(ctx context.Context, id int64) (models.Note, error) {
	n, err := s.uploads.Download(ctx, id)
	if n.ID != 0 {
		s.events.PublishNoteEvent(sse.EventNoteDownloaded, id)
	}
	return n, err
}

// Upload creates a note from an uploaded file.
func (s *Service) Upload(ctx context.Context, form upload.Form, file upload.File) (models.Note, error) {
	n, err := s.uploads.Upload(ctx, form, file)
	if err != nil {
		return models.Note{}, err
	}
	s.events.PublishNoteEvent(sse.EventNoteCreated, n.ID)
	return n, nil
}

// AddComment appends a comment by the current user to note id.
func (s *Service) AddComment(_ context.Context, id int64, text string) (models.Note, error) {
	n, err := s.repo.AddComment(id, thread.Author(s.sessions.Current()), text)
	if err != nil {
		return n, err
	}
	s.logger.Debug("comment added", slog.Int64("id", id), slog.Int("comments", len(n.Comments)))
	s.events.PublishNoteEvent(sse.EventCommentAdded, id)
	return n, nil
}

// AddReply appends a reply by the current user under commentID. The
// boolean is false when the comment does not exist.
func (s *Service) AddReply(_ context.Context, id, commentID int64, text string) (models.Note, bool, error) {
	n, ok, err := s.repo.AddReply(id, commentID, thread.Author(s.sessions.Current()), text)
	if err != nil || !ok {
		return n, ok, err
	}
	s.events.PublishNoteEvent(sse.EventReplyAdded, id)
	return n, true, nil
}
