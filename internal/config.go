package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/noteshub/internal/session"
	"github.com/starford/noteshub/internal/storage"
	"github.com/starford/noteshub/internal/upload"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Session SessionConfig     `yaml:"session"`
	Upload  UploadConfig      `yaml:"upload"`
	Seed    SeedConfig        `yaml:"seed"`
	Events  EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := c.Upload.Validate(); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	return c.Events.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SessionConfig selects where the session slot is persisted.
//
// Backend is "fs" (default: one JSON file per slot under Path) or "sqlite"
// (a key/value table in the database file at Path). Watch reloads the
// session when another process rewrites the slot; it only applies to the
// file backend.
type SessionConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	Key     string `yaml:"key"`
	Watch   bool   `yaml:"watch"`
}

// Validate validates the session configuration.
func (c *SessionConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = storage.BackendFS
	}
	if c.Key == "" {
		c.Key = session.DefaultKey
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(storage.BackendFS, storage.BackendSQLite)),
		validation.Field(&c.Path, validation.Required),
	)
}

// WatchEnabled reports whether the slot watcher should run.
func (c *SessionConfig) WatchEnabled() bool {
	return c.Watch && c.Backend == storage.BackendFS
}

// UploadConfig bounds uploads and sets the simulated transfer latency.
type UploadConfig struct {
	MaxBytes        int64         `yaml:"max_bytes"`
	UploadLatency   time.Duration `yaml:"upload_latency"`
	DownloadLatency time.Duration `yaml:"download_latency"`
}

// Validate validates the upload configuration.
func (c *UploadConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.UploadLatency, validation.Min(time.Duration(0))),
		validation.Field(&c.DownloadLatency, validation.Min(time.Duration(0))),
	)
}

// SeedConfig points at an alternative seed dataset. An empty Path uses the
// built-in notes.
type SeedConfig struct {
	Path string `yaml:"path"`
}

// EventsConfig tunes the SSE broker.
type EventsConfig struct {
	Throttle time.Duration `yaml:"throttle"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Throttle, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Session: SessionConfig{
			Backend: storage.BackendFS,
			Path:    "./data/slots",
			Key:     session.DefaultKey,
			Watch:   true,
		},
		Upload: UploadConfig{
			MaxBytes:        upload.DefaultMaxBytes,
			UploadLatency:   2 * time.Second,
			DownloadLatency: 1500 * time.Millisecond,
		},
		Events: EventsConfig{
			Throttle: 2 * time.Second,
		},
	}
}
