package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/starford/noteshub/pkg/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
}

func TestSessionConfig_EmptyBackendDefaultsFS(t *testing.T) {
	cfg := SessionConfig{Path: "slots"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty backend should default to fs: %v", err)
	}
	if cfg.Backend != "fs" {
		t.Errorf("backend = %q, want fs", cfg.Backend)
	}
	if cfg.Key != "notesHubUser" {
		t.Errorf("key = %q, want notesHubUser", cfg.Key)
	}
}

func TestSessionConfig_InvalidBackend(t *testing.T) {
	cfg := SessionConfig{Backend: "redis", Path: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown backend should fail validation")
	}
}

func TestSessionConfig_MissingPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Session.Path = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("missing session path should fail")
	}
	if !strings.Contains(err.Error(), "session") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSessionConfig_WatchOnlyForFS(t *testing.T) {
	cfg := SessionConfig{Backend: "sqlite", Path: "x.db", Watch: true}
	if cfg.WatchEnabled() {
		t.Error("watcher should not run for sqlite")
	}
	cfg.Backend = "fs"
	if !cfg.WatchEnabled() {
		t.Error("watcher should run for fs")
	}
}

func TestUploadConfig_Invalid(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Upload.MaxBytes = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero max bytes should fail")
	}

	cfg = NewDefaultConfig()
	cfg.Upload.DownloadLatency = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative latency should fail")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("NOTESHUB_TEST_PORT", "9191")
	data := `
app:
  log_level: debug
  http:
    port: ${NOTESHUB_TEST_PORT}
session:
  backend: sqlite
  path: ./slots.db
upload:
  max_bytes: 1048576
  upload_latency: 250ms
events:
  throttle: 1s
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9191 {
		t.Errorf("port = %d, want 9191", cfg.App.HTTP.Port)
	}
	if cfg.App.LogLevel.String() != "DEBUG" {
		t.Errorf("log level = %s", cfg.App.LogLevel)
	}
	if cfg.Session.Backend != "sqlite" || cfg.Session.Key != "notesHubUser" {
		t.Errorf("session = %+v", cfg.Session)
	}
	if cfg.Upload.MaxBytes != 1<<20 || cfg.Upload.UploadLatency != 250*time.Millisecond {
		t.Errorf("upload = %+v", cfg.Upload)
	}
	// Unset keys keep their defaults.
	if cfg.Upload.DownloadLatency != 1500*time.Millisecond {
		t.Errorf("download latency = %s", cfg.Upload.DownloadLatency)
	}
}
