package notestore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
)

// maxBodyRunes bounds the body length in Unicode code points.
const maxBodyRunes = 2000

// normalize trims surrounding whitespace and enforces the store-side
// constraints. Validation happens here regardless of what any caller
// already checked: a caller bug must not be able to write invalid data.
func normalize(title, body string) (string, string, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)

	if err := validation.Validate(title,
		validation.Required.Error("cannot be empty"),
	); err != nil {
		return "", "", &apperr.FieldError{Field: "title", Reason: err.Error()}
	}
	if err := validation.Validate(body,
		validation.Required.Error("cannot be empty"),
		validation.RuneLength(1, maxBodyRunes).Error(fmt.Sprintf("must be at most %d characters", maxBodyRunes)),
	); err != nil {
		return "", "", &apperr.FieldError{Field: "body", Reason: err.Error()}
	}
	return title, body, nil
}

// Insert validates and stores a new note, assigning its id and creation
// time. The returned record is the authoritative copy.
func (s *Store) Insert(title, body string) (models.Note, error) {
	title, body, err := normalize(title, body)
	if err != nil {
		return models.Note{}, err
	}

	now := time.Now().UTC()
	res, err := s.conn.Exec(
		`INSERT INTO notes (title, body, created_at) VALUES (?, ?, ?)`,
		title, body, now,
	)
	if err != nil {
		return models.Note{}, mapSQLiteErr("insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Note{}, mapSQLiteErr("insert id", err)
	}
	return models.Note{ID: id, Title: title, Body: body, CreatedAt: now}, nil
}

// Update validates and replaces title and body of an existing note.
// The id and created_at columns are never touched. Zero rows affected is a
// caller-visible failure, not a silent no-op.
func (s *Store) Update(id int64, title, body string) (models.Note, error) {
	title, body, err := normalize(title, body)
	if err != nil {
		return models.Note{}, err
	}

	res, err := s.conn.Exec(
		`UPDATE notes SET title = ?, body = ? WHERE id = ?`,
		title, body, id,
	)
	if err != nil {
		return models.Note{}, mapSQLiteErr("update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Note{}, mapSQLiteErr("update rows", err)
	}
	if n == 0 {
		return models.Note{}, fmt.Errorf("notestore: update note %d: %w", id, apperr.ErrNotFound)
	}
	return s.Get(id)
}

// Delete removes the note with the given id. Deleting a missing id reports
// apperr.ErrNotFound (a documented decision; consistent with Update).
func (s *Store) Delete(id int64) error {
	res, err := s.conn.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return mapSQLiteErr("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapSQLiteErr("delete rows", err)
	}
	if n == 0 {
		return fmt.Errorf("notestore: delete note %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// Get returns a single note by id.
func (s *Store) Get(id int64) (models.Note, error) {
	var n models.Note
	err := s.conn.QueryRow(
		`SELECT id, title, body, created_at FROM notes WHERE id = ?`, id,
	).Scan(&n.ID, &n.Title, &n.Body, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Note{}, fmt.Errorf("notestore: note %d: %w", id, apperr.ErrNotFound)
		}
		return models.Note{}, mapSQLiteErr("get", err)
	}
	return n, nil
}

// ListAll returns a full snapshot of all notes ordered by id descending
// (most recent first). The snapshot is stale the moment any write lands.
func (s *Store) ListAll() ([]models.Note, error) {
	rows, err := s.conn.Query(`SELECT id, title, body, created_at FROM notes ORDER BY id DESC`)
	if err != nil {
		return nil, mapSQLiteErr("list", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.CreatedAt); err != nil {
			return nil, mapSQLiteErr("list scan", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteErr("list rows", err)
	}
	return out, nil
}
