package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"intellidocs-backend/internal/llm"
)

type fakeStore struct {
	mu      sync.Mutex
	saved   []string
	objects map[string][]byte
	deleted []string
	saveErr error
}

func (f *fakeStore) Save(ctx context.Context, ownerID, fileName string, r io.Reader) (string, int64, string, error) {
	if f.saveErr != nil {
		return "", 0, "", f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := ownerID + "/" + fileName
	f.mu.Lock()
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.saved = append(f.saved, key)
	f.objects[key] = data
	f.mu.Unlock()
	return key, int64(len(data)), "application/pdf", nil
}

func (f *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	f.mu.Lock()
	data, ok := f.objects[storageKey]
	f.mu.Unlock()
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (f *fakeStore) Delete(ctx context.Context, storageKey string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, storageKey)
	f.mu.Unlock()
	return nil
}

type fixedAnalyzer struct {
	analysis llm.Analysis
	err      error
}

func (f fixedAnalyzer) Analyze(ctx context.Context, text string) (llm.Analysis, error) {
	return f.analysis, f.err
}

func newTestService(analyzer llm.Client) (*Service, *MemoryRepo, *fakeStore) {
	repo := NewMemoryRepo()
	store := &fakeStore{}
	svc := NewService(repo, store, analyzer)
	svc.Extract = func(data []byte, contentType string) (string, error) {
		return string(data), nil
	}
	return svc, repo, store
}

func TestUploadPersistsAfterAllStages(t *testing.T) {
	svc, repo, store := newTestService(fixedAnalyzer{analysis: llm.Analysis{
		Title: "T", Summary: "S", Keywords: []string{"k"},
	}})

	doc, err := svc.Upload(context.Background(), "owner-1", "file.pdf", []byte("text"), "application/pdf")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !ValidID(doc.ID) {
		t.Fatalf("expected a valid generated id, got %q", doc.ID)
	}
	if doc.StorageKey == "" {
		t.Fatalf("expected a storage key")
	}

	stored, err := repo.GetByID(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Analysis.Title != "T" {
		t.Fatalf("expected persisted analysis, got %+v", stored.Analysis)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 archived object, got %d", len(store.saved))
	}
}

func TestUploadDiscardsArchiveWhenAnalysisFails(t *testing.T) {
	svc, repo, store := newTestService(fixedAnalyzer{err: llm.ErrUnavailable})

	_, err := svc.Upload(context.Background(), "owner-1", "file.pdf", []byte("text"), "application/pdf")
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	docs, err := repo.ListByOwner(context.Background(), "owner-1", ListLimit)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no persisted documents, got %d", len(docs))
	}
	if len(store.deleted) != 1 {
		t.Fatalf("expected archived object discarded, got %v", store.deleted)
	}
}

func TestGetByIDHidesOtherOwners(t *testing.T) {
	svc, repo, _ := newTestService(fixedAnalyzer{})
	doc := Document{ID: "11111111-1111-1111-1111-111111111111", OwnerID: "owner-1", Filename: "f.pdf"}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), doc.ID, "owner-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), doc.ID, "owner-1"); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
}

func TestOpenFileHonorsOwnership(t *testing.T) {
	svc, _, _ := newTestService(fixedAnalyzer{analysis: llm.Analysis{Title: "T", Summary: "S", Keywords: []string{"k"}}})

	doc, err := svc.Upload(context.Background(), "owner-1", "file.pdf", []byte("archived text"), "application/pdf")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if _, _, err := svc.OpenFile(context.Background(), doc.ID, "owner-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}

	got, rc, err := svc.OpenFile(context.Background(), doc.ID, "owner-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "archived text" {
		t.Fatalf("expected archived bytes, got %q", data)
	}
	if got.ID != doc.ID {
		t.Fatalf("expected the owning document returned")
	}
}

func TestUpdateByIDRejectsEmptyPatchBeforeStore(t *testing.T) {
	svc, _, _ := newTestService(fixedAnalyzer{})

	_, err := svc.UpdateByID(context.Background(), "11111111-1111-1111-1111-111111111111", "owner-1", AnalysisPatch{})
	if !errors.Is(err, ErrEmptyPatch) {
		t.Fatalf("expected ErrEmptyPatch, got %v", err)
	}
}

func TestUpdateByIDRejectsMalformedID(t *testing.T) {
	svc, _, _ := newTestService(fixedAnalyzer{})

	title := "x"
	_, err := svc.UpdateByID(context.Background(), "not-an-id", "owner-1", AnalysisPatch{Title: &title})
	if !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestDeleteByIDRemovesArchivedObject(t *testing.T) {
	svc, repo, store := newTestService(fixedAnalyzer{})
	doc := Document{
		ID:         "11111111-1111-1111-1111-111111111111",
		OwnerID:    "owner-1",
		Filename:   "f.pdf",
		StorageKey: "owner-1/f.pdf",
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.DeleteByID(context.Background(), doc.ID, "owner-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "owner-1/f.pdf" {
		t.Fatalf("expected archived object removed, got %v", store.deleted)
	}
	if _, err := repo.GetByID(context.Background(), doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}
}

func TestListIsNewestFirstAndCapped(t *testing.T) {
	svc, _, _ := newTestService(fixedAnalyzer{analysis: llm.Analysis{Title: "T", Summary: "S", Keywords: []string{"k"}}})

	for i := 0; i < ListLimit+5; i++ {
		if _, err := svc.Upload(context.Background(), "owner-1", "f.pdf", []byte("text"), "application/pdf"); err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
	}

	docs, err := svc.List(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != ListLimit {
		t.Fatalf("expected %d documents, got %d", ListLimit, len(docs))
	}
	for i := 1; i < len(docs); i++ {
		if docs[i].CreatedAt.After(docs[i-1].CreatedAt) {
			t.Fatalf("expected newest-first ordering")
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\docs\cv.pdf`, "cv.pdf"},
		{"  spaced.pdf  ", "spaced.pdf"},
		{"", "upload.pdf"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
