// Package testutil provides shared test helpers for setting up stores and drafts directories.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/dagaz/internal/noteservice"
	"github.com/starford/dagaz/internal/notestore"
	"github.com/starford/dagaz/internal/revision"
	"github.com/starford/dagaz/internal/storage"
)

// TestStore creates a temporary SQLite note store that is automatically cleaned up.
func TestStore(t *testing.T) *notestore.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "dagaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := notestore.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestDrafts creates a temporary drafts directory with a storage.Drafts store.
func TestDrafts(t *testing.T) (string, *storage.Drafts) {
	t.Helper()
	dir := t.TempDir()
	drafts, err := storage.NewDrafts(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, drafts
}

// TestService wires a temporary store, drafts dir, and a fresh revision
// counter into a service.
func TestService(t *testing.T) *noteservice.Service {
	t.Helper()
	store := TestStore(t)
	_, drafts := TestDrafts(t)
	return noteservice.NewService(store, drafts, &revision.Counter{})
}
