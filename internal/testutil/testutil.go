// Package testutil provides shared test helpers for wiring a seeded note
// service over temporary session slots.
package testutil

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/starford/noteshub/internal/models"
	"github.com/starford/noteshub/internal/noteservice"
	"github.com/starford/noteshub/internal/notes"
	"github.com/starford/noteshub/internal/seed"
	"github.com/starford/noteshub/internal/session"
	"github.com/starford/noteshub/internal/storage"
	"github.com/starford/noteshub/internal/upload"
)

// Now is the fixed clock used by TestService. Only the newest seeded note
// (2023-11-05) falls inside the last week.
var Now = time.Date(2023, time.November, 10, 12, 0, 0, 0, time.UTC)

// TestSlots creates a temporary slot directory with a storage.Provider.
func TestSlots(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	slots, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, slots
}

// TestRepo returns a repository holding the built-in seed notes.
func TestRepo(t *testing.T) (*notes.Repository, models.FilterOptions) {
	t.Helper()
	ds, err := seed.Default()
	if err != nil {
		t.Fatal(err)
	}
	return notes.New(ds.Notes, notes.WithClock(func() time.Time { return Now })), ds.FilterOptions
}

// TestService wires a seeded repository, a guest session, and an upload
// service with no simulated latency.
func TestService(t *testing.T, opts ...noteservice.Option) *noteservice.Service {
	t.Helper()
	repo, options := TestRepo(t)
	_, slots := TestSlots(t)
	sessions := session.New(slots, session.WithLogger(slog.New(slog.DiscardHandler)))
	if err := sessions.Restore(context.Background()); err != nil {
		t.Fatal(err)
	}
	uploads := upload.NewService(repo, sessions, upload.Config{}, slog.New(slog.DiscardHandler))
	opts = append([]noteservice.Option{noteservice.WithClock(func() time.Time { return Now })}, opts...)
	return noteservice.NewService(repo, sessions, uploads, options, opts...)
}

// Login starts a session on svc and fails the test on error.
func Login(t *testing.T, svc *noteservice.Service) models.User {
	t.Helper()
	u, err := svc.Sessions().Login(context.Background(), session.Credentials{Email: "student@example.com", Password: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	return u
}
