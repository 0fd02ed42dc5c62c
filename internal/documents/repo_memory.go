package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo used for tests and local runs without a
// database.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Document)}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[doc.ID] = cloneDocument(doc)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.byID[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return cloneDocument(doc), nil
}

func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]Document, 0)
	for _, doc := range r.byID {
		if doc.OwnerID == ownerID {
			docs = append(docs, cloneDocument(doc))
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].ID > docs[j].ID
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (r *MemoryRepo) UpdateAnalysis(ctx context.Context, id string, patch AnalysisPatch) error {
	if patch.IsEmpty() {
		return ErrEmptyPatch
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if patch.Title != nil {
		doc.Analysis.Title = *patch.Title
	}
	if patch.Summary != nil {
		doc.Analysis.Summary = *patch.Summary
	}
	if patch.Keywords != nil {
		doc.Analysis.Keywords = append([]string(nil), *patch.Keywords...)
	}
	r.byID[id] = doc
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return 0, nil
	}
	delete(r.byID, id)
	return 1, nil
}

func cloneDocument(doc Document) Document {
	doc.Analysis.Keywords = append([]string(nil), doc.Analysis.Keywords...)
	return doc
}
