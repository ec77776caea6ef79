package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/starford/noteshub/internal/apperr"
)

func TestSQLiteRoundTrip(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "slots.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Get("notesHubUser"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("empty get err = %v", err)
	}
	if err := db.Set("notesHubUser", []byte("one")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := db.Set("notesHubUser", []byte("two")); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err := db.Get("notesHubUser")
	if err != nil || string(got) != "two" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := db.Delete("notesHubUser"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Get("notesHubUser"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("after delete err = %v", err)
	}
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()
	for _, tc := range []struct {
		backend, path string
	}{
		{BackendFS, filepath.Join(dir, "slots")},
		{BackendSQLite, filepath.Join(dir, "slots.db")},
	} {
		p, err := Open(tc.backend, tc.path)
		if err != nil {
			t.Fatalf("Open(%s): %v", tc.backend, err)
		}
		_ = p.Close()
	}
	if _, err := Open("redis", dir); err == nil {
		t.Error("unknown backend should fail")
	}
}
