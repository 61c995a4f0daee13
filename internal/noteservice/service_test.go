package noteservice

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/notestore"
	"github.com/starford/dagaz/internal/revision"
	"github.com/starford/dagaz/internal/storage"
)

func testService(t *testing.T) *Service {
	t.Helper()

	dbFile, err := os.CreateTemp("", "dagaz-svc-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := notestore.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	drafts, err := storage.NewDrafts(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	return NewService(store, drafts, &revision.Counter{})
}

func TestMutationsBumpRevision(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	// Three inserts yield strictly increasing revisions.
	var revs []int64
	for _, title := range []string{"a", "b", "c"} {
		_, rev, err := svc.CreateNote(ctx, title, "body")
		if err != nil {
			t.Fatalf("CreateNote: %v", err)
		}
		revs = append(revs, rev)
	}
	if !(revs[0] < revs[1] && revs[1] < revs[2]) {
		t.Errorf("revisions not strictly increasing: %v", revs)
	}

	notes, rev, err := svc.ListNotes(ctx)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 3 {
		t.Errorf("len = %d, want 3", len(notes))
	}
	if rev != revs[2] {
		t.Errorf("list revision = %d, want %d", rev, revs[2])
	}
}

func TestFailedMutationDoesNotBump(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	before := svc.Revision(ctx)
	if _, _, err := svc.CreateNote(ctx, "", "x"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if _, err := svc.DeleteNote(ctx, 9999); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if after := svc.Revision(ctx); after != before {
		t.Errorf("revision moved from %d to %d on failed mutations", before, after)
	}
}

func TestUpdateAndDeleteFlow(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	n, rev1, err := svc.CreateNote(ctx, "title", "body")
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	updated, rev2, err := svc.UpdateNote(ctx, n.ID, "new title", "new body")
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if updated.Title != "new title" || rev2 != rev1+1 {
		t.Errorf("update result = %+v at revision %d", updated, rev2)
	}

	rev3, err := svc.DeleteNote(ctx, n.ID)
	if err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if rev3 != rev2+1 {
		t.Errorf("delete revision = %d, want %d", rev3, rev2+1)
	}

	notes, _, _ := svc.ListNotes(ctx)
	if len(notes) != 0 {
		t.Errorf("expected empty list, got %d", len(notes))
	}
}

func TestSaveAndGetDraft(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	cs, rev, err := svc.SaveDraft(ctx, "scratch.txt", []byte("v1"), "")
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if cs == "" || rev == 0 {
		t.Errorf("checksum = %q, revision = %d", cs, rev)
	}

	data, gotCS, err := svc.GetDraft(ctx, "scratch.txt")
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if string(data) != "v1" || gotCS != cs {
		t.Errorf("draft = %q checksum %q", data, gotCS)
	}
}

func TestSaveDraftChecksumPrecondition(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	cs1, _, err := svc.SaveDraft(ctx, "doc.txt", []byte("v1"), "")
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	// Matching precondition succeeds.
	if _, _, err := svc.SaveDraft(ctx, "doc.txt", []byte("v2"), cs1); err != nil {
		t.Fatalf("SaveDraft with matching checksum: %v", err)
	}

	// Stale precondition is rejected and the file stays on v2.
	if _, _, err := svc.SaveDraft(ctx, "doc.txt", []byte("v3"), cs1); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
	data, _, _ := svc.GetDraft(ctx, "doc.txt")
	if string(data) != "v2" {
		t.Errorf("draft after rejected write = %q, want v2", data)
	}
}

func TestGetDraftNotFound(t *testing.T) {
	svc := testService(t)
	if _, _, err := svc.GetDraft(context.Background(), "missing.txt"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestInvalidateBumpsWithoutMutation(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	before := svc.Revision(ctx)
	if got := svc.Invalidate(); got != before+1 {
		t.Errorf("Invalidate = %d, want %d", got, before+1)
	}
}
