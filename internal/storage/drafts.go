package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Drafts is a file store for free-form draft documents rooted at a single
// directory. Every write goes through WriteAtomic; the payload is opaque.
// Concurrent writers to the same name are not ordered here — one fully
// formed version wins — so callers needing ordering must serialize
// themselves (the service layer does this with checksum preconditions).
type Drafts struct {
	root string // absolute path to the drafts directory
}

// NewDrafts creates a Drafts store rooted at the given directory.
// The directory must already exist.
func NewDrafts(root string) (*Drafts, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &Drafts{root: abs}, nil
}

// safePath resolves a relative name against the root and rejects any
// result that escapes it (directory traversal).
func (d *Drafts) safePath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("storage: empty draft name")
	}
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", name)
	}
	joined := filepath.Join(d.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, d.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes drafts root: %s", name)
	}
	return abs, nil
}

// Write atomically replaces the draft with the given content.
func (d *Drafts) Write(name string, content []byte) error {
	abs, err := d.safePath(name)
	if err != nil {
		return err
	}
	return WriteAtomic(abs, content)
}

// Read returns the raw bytes of a draft. A missing draft surfaces as a
// wrapped os.ErrNotExist.
func (d *Drafts) Read(name string) ([]byte, error) {
	abs, err := d.safePath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}

// Delete removes a draft.
func (d *Drafts) Delete(name string) error {
	abs, err := d.safePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}
