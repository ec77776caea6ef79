// Package session holds the current logged-in identity and keeps it in a
// persisted storage slot so it survives restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/noteshub/internal/apperr"
	"github.com/starford/noteshub/internal/models"
	"github.com/starford/noteshub/internal/storage"
)

// DefaultKey is the storage slot holding the serialized user.
const DefaultKey = "notesHubUser"

// DefaultDisplayName is given to every user created by Login or Register.
const DefaultDisplayName = "Demo User"

// User-facing messages.
const (
	MsgFillAllFields    = "Please fill in all fields"
	MsgPasswordMismatch = "Passwords do not match"
)

// Store is the session container. A nil user means the guest state.
type Store struct {
	mu   sync.RWMutex
	user *models.User

	slots       storage.Provider
	key         string
	displayName string
	logger      *slog.Logger
	onChange    func(*models.User)
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the slot key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithDisplayName overrides the name given to new sessions.
func WithDisplayName(name string) Option {
	return func(s *Store) { s.displayName = name }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// OnChange registers fn to run after the in-memory session changes.
func OnChange(fn func(*models.User)) Option {
	return func(s *Store) { s.onChange = fn }
}

// New creates a guest session backed by slots. Call Restore to rehydrate.
func New(slots storage.Provider, opts ...Option) *Store {
	s := &Store{
		slots:       slots,
		key:         DefaultKey,
		displayName: DefaultDisplayName,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the slot key.
func (s *Store) Key() string { return s.key }

// Current returns a copy of the logged-in user, or nil for a guest.
func (s *Store) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Restore loads the session from its slot. A missing, unreadable, or empty
// slot leaves the guest state.
func (s *Store) Restore(_ context.Context) error {
	data, err := s.slots.Get(s.key)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.set(nil)
			return nil
		}
		return fmt.Errorf("session: restore: %w", err)
	}
	var u *models.User
	if err := json.Unmarshal(data, &u); err != nil {
		s.logger.Warn("session: discarding unreadable slot",
			slog.String("key", s.key), slog.String("error", err.Error()))
		s.set(nil)
		return nil
	}
	// A null slot, or a user without an email, is the guest state.
	if u == nil || u.Email == "" {
		s.set(nil)
		return nil
	}
	s.set(u)
	return nil
}

// Reload re-reads the slot after an outside change.
func (s *Store) Reload(ctx context.Context) error {
	return s.Restore(ctx)
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate requires both fields.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required),
		validation.Field(&c.Password, validation.Required),
	)
}

// Registration is the sign-up form.
type Registration struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate requires every field and matching passwords.
func (r Registration) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.ConfirmPassword, validation.Required),
	); err != nil {
		return apperr.FromFieldErrors(err, MsgFillAllFields)
	}
	if r.Password != r.ConfirmPassword {
		return apperr.Invalid("confirmPassword", MsgPasswordMismatch)
	}
	return nil
}

// Login accepts any non-empty email and password and starts a session.
func (s *Store) Login(ctx context.Context, c Credentials) (models.User, error) {
	if err := c.Validate(); err != nil {
		return models.User{}, apperr.FromFieldErrors(err, MsgFillAllFields)
	}
	return s.start(ctx, c.Email)
}

// Register validates the sign-up form and starts a session.
func (s *Store) Register(ctx context.Context, r Registration) (models.User, error) {
	if err := r.Validate(); err != nil {
		return models.User{}, err
	}
	return s.start(ctx, r.Email)
}

// Logout ends the session and clears the slot.
func (s *Store) Logout(_ context.Context) error {
	if err := s.slots.Delete(s.key); err != nil {
		return fmt.Errorf("session: logout: %w", err)
	}
	s.set(nil)
	return nil
}

func (s *Store) start(_ context.Context, email string) (models.User, error) {
	u := models.User{Name: s.displayName, Email: email}
	data, err := json.Marshal(u)
	if err != nil {
		return models.User{}, fmt.Errorf("session: encode: %w", err)
	}
	if err := s.slots.Set(s.key, data); err != nil {
		return models.User{}, fmt.Errorf("session: persist: %w", err)
	}
	s.set(&u)
	s.logger.Info("session: started", slog.String("email", email))
	return u, nil
}

func (s *Store) set(u *models.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	if s.onChange != nil {
		s.onChange(s.Current())
	}
}
