package documents

import "context"

// Repo defines persistence operations for documents. Callers validate
// identifiers before any by-id call.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]Document, error)
	UpdateAnalysis(ctx context.Context, id string, patch AnalysisPatch) error
	Delete(ctx context.Context, id string) (int64, error)
}
