package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/starford/dagaz/internal/noteservice"
	"github.com/starford/dagaz/internal/testutil"
)

// testEnv sets up a temp store, drafts dir, service, and router.
// An empty token means disabled auth.
func testEnv(t *testing.T, authToken string) (*noteservice.Service, http.Handler) {
	t.Helper()
	svc := testutil.TestService(t)
	router := NewRouter(svc, authToken != "", authToken)
	return svc, router
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndListNotes(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/notes", NoteRequest{Title: "Groceries", Body: "Milk, eggs"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created NoteResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.Note.ID == 0 || created.Revision != 1 {
		t.Errorf("created = %+v", created)
	}

	w = doJSON(t, router, http.MethodGet, "/notes", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Notes) != 1 || list.Notes[0].Title != "Groceries" || list.Notes[0].Body != "Milk, eggs" {
		t.Errorf("list = %+v", list)
	}
	if list.Notes[0].CreatedAt.IsZero() {
		t.Error("created_at missing in list payload")
	}
	if list.Revision != created.Revision {
		t.Errorf("list revision = %d, want %d", list.Revision, created.Revision)
	}
}

func TestCreateValidationGuidance(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/notes", NoteRequest{Title: "", Body: "x"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "title") {
		t.Errorf("body should name the offending field: %s", w.Body.String())
	}
}

func TestUpdateMissingNote(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPut, "/notes/9999", NoteRequest{Title: "a", Body: "b"}, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}

	// Store unchanged.
	w = doJSON(t, router, http.MethodGet, "/notes", nil, nil)
	var list NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Notes) != 0 {
		t.Errorf("list = %+v, want empty", list.Notes)
	}
}

func TestDeleteTwice(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/notes", NoteRequest{Title: "bye", Body: "gone"}, nil)
	var created NoteResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	url := "/notes/" + strconv.FormatInt(created.Note.ID, 10)
	w = doJSON(t, router, http.MethodDelete, url, nil, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("first delete = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodDelete, url, nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", w.Code)
	}
}

func TestRevisionPolling(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodGet, "/revision", nil, nil)
	var r0 RevisionResponse
	_ = json.Unmarshal(w.Body.Bytes(), &r0)
	if r0.Revision != 0 {
		t.Errorf("initial revision = %d, want 0", r0.Revision)
	}

	for i := 0; i < 3; i++ {
		doJSON(t, router, http.MethodPost, "/notes", NoteRequest{Title: "t", Body: "b"}, nil)
	}

	w = doJSON(t, router, http.MethodGet, "/revision", nil, nil)
	var r1 RevisionResponse
	_ = json.Unmarshal(w.Body.Bytes(), &r1)
	if r1.Revision != 3 {
		t.Errorf("revision after 3 inserts = %d, want 3", r1.Revision)
	}
}

func TestDraftRoundTripAndConflict(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPut, "/drafts/scratch.txt", SaveDraftRequest{Content: "v1"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("save status = %d, body = %s", w.Code, w.Body.String())
	}
	var saved SaveDraftResponse
	_ = json.Unmarshal(w.Body.Bytes(), &saved)

	w = doJSON(t, router, http.MethodGet, "/drafts/scratch.txt", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var draft DraftResponse
	_ = json.Unmarshal(w.Body.Bytes(), &draft)
	if draft.Content != "v1" || draft.Checksum != saved.Checksum {
		t.Errorf("draft = %+v", draft)
	}

	// Save with matching If-Match succeeds.
	w = doJSON(t, router, http.MethodPut, "/drafts/scratch.txt", SaveDraftRequest{Content: "v2"},
		map[string]string{"If-Match": `"` + saved.Checksum + `"`})
	if w.Code != http.StatusOK {
		t.Fatalf("save v2 = %d, body = %s", w.Code, w.Body.String())
	}

	// Stale If-Match is rejected with 409.
	w = doJSON(t, router, http.MethodPut, "/drafts/scratch.txt", SaveDraftRequest{Content: "v3"},
		map[string]string{"If-Match": `"` + saved.Checksum + `"`})
	if w.Code != http.StatusConflict {
		t.Errorf("stale save = %d, want 409", w.Code)
	}
}

func TestDraftNotFound(t *testing.T) {
	_, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodGet, "/drafts/missing.txt", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestInvalidIDRejected(t *testing.T) {
	_, router := testEnv(t, "")
	w := doJSON(t, router, http.MethodPut, "/notes/abc", NoteRequest{Title: "a", Body: "b"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAuthTokenMode(t *testing.T) {
	_, router := testEnv(t, "secret")

	w := doJSON(t, router, http.MethodGet, "/notes", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d, want 401", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/notes", nil, map[string]string{"Authorization": "Bearer wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token = %d, want 401", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/notes", nil, map[string]string{"Authorization": "Bearer secret"})
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}
