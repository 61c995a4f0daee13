// Package storage implements atomic file persistence: a writer that
// replaces a file all-or-nothing, and a drafts store rooted at a directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteAtomic replaces the content of path with content such that a
// concurrent reader, or a crash at any instant, never observes a partially
// written file: the file holds either the previous content or the new one.
//
// The temp file is created in the same directory as path because rename is
// only atomic when source and destination live on the same filesystem
// volume. Data is fsynced before the rename so the swap cannot become
// visible ahead of the bytes being durable. On any failure before the
// rename the temp file is removed and path is left untouched. Failures are
// never retried here.
func WriteAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".dagaz-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true

	// Fsync the directory so the rename itself survives power loss.
	// Not every filesystem supports this; failure is non-fatal because
	// the file content is already durable.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
