package api

import "github.com/starford/dagaz/internal/models"

// NoteRequest is the request body for creating or updating a note.
type NoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NoteResponse wraps a single note with the revision the mutation reached.
type NoteResponse struct {
	Note     models.Note `json:"note"`
	Revision int64       `json:"revision"`
}

// NoteListResponse wraps a full snapshot. Clients cache it together with
// Revision and re-fetch when GET /revision reports a different value.
type NoteListResponse struct {
	Notes    []models.Note `json:"notes"`
	Revision int64         `json:"revision"`
}

// RevisionResponse is the polling payload for cache invalidation.
type RevisionResponse struct {
	Revision int64 `json:"revision"`
}

// DraftResponse wraps a draft document and its checksum (also sent as ETag).
type DraftResponse struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Checksum string `json:"checksum"`
}

// SaveDraftRequest is the request body for PUT /drafts/{name}.
type SaveDraftRequest struct {
	Content string `json:"content"`
}

// SaveDraftResponse is returned after a successful draft write.
type SaveDraftResponse struct {
	Name     string `json:"name"`
	Checksum string `json:"checksum"`
	Revision int64  `json:"revision"`
}
