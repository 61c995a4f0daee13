package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// noteID parses the {id} URL parameter.
func noteID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// writeError maps the apperr taxonomy onto HTTP statuses. Validation
// failures carry corrective guidance; store failures stay opaque.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		var fe *apperr.FieldError
		if errors.As(err, &fe) {
			writeJSON(w, http.StatusBadRequest, errorBody(fe.Error()))
		} else {
			writeJSON(w, http.StatusBadRequest, errorBody("title and note cannot be empty"))
		}
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
	case errors.Is(err, apperr.ErrBusy):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("store busy, try again"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListNotes handles GET /notes. Returns the full snapshot together with the
// revision it belongs to.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, rev, err := h.svc.ListNotes(r.Context())
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Revision: rev})
}

// CreateNote handles POST /notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	note, rev, err := h.svc.CreateNote(r.Context(), req.Title, req.Body)
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, NoteResponse{Note: note, Revision: rev})
}

// UpdateNote handles PUT /notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id, err := noteID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	note, rev, err := h.svc.UpdateNote(r.Context(), id, req.Title, req.Body)
	if err != nil {
		writeError(w, "update note", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteResponse{Note: note, Revision: rev})
}

// DeleteNote handles DELETE /notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := noteID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}
	if _, err := h.svc.DeleteNote(r.Context(), id); err != nil {
		writeError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Revision handles GET /revision, the cache-invalidation polling endpoint.
func (h *Handler) Revision(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RevisionResponse{Revision: h.svc.Revision(r.Context())})
}

// GetDraft handles GET /drafts/{name}.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, cs, err := h.svc.GetDraft(r.Context(), name)
	if err != nil {
		writeError(w, "get draft", err)
		return
	}
	w.Header().Set("ETag", `"`+cs+`"`)
	writeJSON(w, http.StatusOK, DraftResponse{Name: name, Content: string(data), Checksum: cs})
}

// SaveDraft handles PUT /drafts/{name} with optional If-Match checksum
// precondition.
func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	name := chi.URLParam(r, "name")
	var req SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	cs, rev, err := h.svc.SaveDraft(r.Context(), name, []byte(req.Content), ifMatch)
	if err != nil {
		writeError(w, "save draft", err)
		return
	}
	w.Header().Set("ETag", `"`+cs+`"`)
	writeJSON(w, http.StatusOK, SaveDraftResponse{Name: name, Checksum: cs, Revision: rev})
}
