// Package noteservice is the caller-side glue over the record store: it
// owns the revision counter, bumps it after every successful mutation, and
// hands the new value back with each result so dependent views can decide
// when to re-fetch.
package noteservice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/notestore"
	"github.com/starford/dagaz/internal/revision"
	"github.com/starford/dagaz/internal/storage"
)

// Service coordinates the record store, the drafts store, and the revision
// counter.
type Service struct {
	store  *notestore.Store
	drafts *storage.Drafts
	rev    *revision.Counter
}

// NewService creates a new note service. rev is owned by the service for
// the life of the process and starts at 0.
func NewService(store *notestore.Store, drafts *storage.Drafts, rev *revision.Counter) *Service {
	return &Service{store: store, drafts: drafts, rev: rev}
}

// CreateNote inserts a note and returns it with the revision reached by
// this mutation.
func (s *Service) CreateNote(_ context.Context, title, body string) (models.Note, int64, error) {
	n, err := s.store.Insert(title, body)
	if err != nil {
		return models.Note{}, 0, err
	}
	return n, s.rev.Bump(), nil
}

// UpdateNote replaces title and body of an existing note.
func (s *Service) UpdateNote(_ context.Context, id int64, title, body string) (models.Note, int64, error) {
	n, err := s.store.Update(id, title, body)
	if err != nil {
		return models.Note{}, 0, err
	}
	return n, s.rev.Bump(), nil
}

// DeleteNote removes a note and returns the revision reached.
func (s *Service) DeleteNote(_ context.Context, id int64) (int64, error) {
	if err := s.store.Delete(id); err != nil {
		return 0, err
	}
	return s.rev.Bump(), nil
}

// ListNotes returns a full snapshot with the revision it belongs to.
// The revision is read before the snapshot: a write that lands in between
// is already included in the list but makes the returned revision look
// stale, costing at most one redundant re-fetch — never a missed update.
func (s *Service) ListNotes(_ context.Context) ([]models.Note, int64, error) {
	rev := s.rev.Current()
	notes, err := s.store.ListAll()
	if err != nil {
		return nil, 0, err
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, rev, nil
}

// Revision returns the latest revision for polling callers.
func (s *Service) Revision(_ context.Context) int64 {
	return s.rev.Current()
}

// Invalidate bumps the revision without a store mutation. The entry layer
// calls this when the drafts watcher observes an external edit.
func (s *Service) Invalidate() int64 {
	return s.rev.Bump()
}

// SaveDraft atomically replaces a draft document. When ifMatch is non-empty
// it must equal the checksum of the current content, otherwise the write is
// rejected with apperr.ErrConflict and the file stays untouched. Returns
// the new checksum and the revision reached.
func (s *Service) SaveDraft(_ context.Context, name string, content []byte, ifMatch string) (string, int64, error) {
	if ifMatch != "" {
		existing, err := s.drafts.Read(name)
		switch {
		case err == nil:
			if ifMatch != sha256sum(existing) {
				return "", 0, fmt.Errorf("draft %s: checksum mismatch: %w", name, apperr.ErrConflict)
			}
		case errors.Is(err, os.ErrNotExist):
			return "", 0, fmt.Errorf("draft %s: precondition on missing draft: %w", name, apperr.ErrConflict)
		default:
			return "", 0, err
		}
	}
	if err := s.drafts.Write(name, content); err != nil {
		return "", 0, err
	}
	return sha256sum(content), s.rev.Bump(), nil
}

// GetDraft returns a draft's content and checksum.
func (s *Service) GetDraft(_ context.Context, name string) ([]byte, string, error) {
	data, err := s.drafts.Read(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("draft %s: %w", name, apperr.ErrNotFound)
		}
		return nil, "", err
	}
	return data, sha256sum(data), nil
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
