package documents

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"intellidocs-backend/internal/extract"
	"intellidocs-backend/internal/llm"
	"intellidocs-backend/internal/shared/metrics"
	"intellidocs-backend/internal/shared/storage/object"
	"intellidocs-backend/internal/shared/telemetry"
)

// ListLimit caps the number of documents returned by a listing.
const ListLimit = 100

// ExtractFunc turns raw file bytes into plain text.
type ExtractFunc func(data []byte, contentType string) (string, error)

// Service implements the document workflow: extract text from an upload,
// archive the original, analyze the text and persist the result. An upload is
// all-or-nothing: no record is written unless every stage succeeds.
type Service struct {
	Repo     Repo
	Store    object.ObjectStore
	Analyzer llm.Client
	Extract  ExtractFunc
}

func NewService(repo Repo, store object.ObjectStore, analyzer llm.Client) *Service {
	return &Service{
		Repo:     repo,
		Store:    store,
		Analyzer: analyzer,
		Extract:  extract.Text,
	}
}

// Upload runs the full pipeline for one file on behalf of ownerID. Errors
// from the extraction and analysis stages pass through unwrapped so callers
// can map them to distinct responses.
func (s *Service) Upload(ctx context.Context, ownerID, filename string, data []byte, contentType string) (Document, error) {
	metrics.IncUploadStarted()

	text, err := s.Extract(data, contentType)
	if err != nil {
		metrics.IncUploadFailed()
		return Document{}, err
	}

	storageKey, sizeBytes, _, err := s.Store.Save(ctx, ownerID, filename, bytes.NewReader(data))
	if err != nil {
		metrics.IncUploadFailed()
		return Document{}, err
	}

	metrics.IncAnalysisStarted()
	started := metrics.NowMillis()
	analysis, err := s.Analyzer.Analyze(ctx, text)
	metrics.ObserveAnalysisDurationMs(metrics.NowMillis() - started)
	if err != nil {
		metrics.IncAnalysisFailed()
		metrics.IncUploadFailed()
		s.discard(ctx, storageKey)
		return Document{}, err
	}
	metrics.IncAnalysisCompleted()

	doc := Document{
		ID:       uuid.NewString(),
		OwnerID:  ownerID,
		Filename: filename,
		Analysis: Analysis{
			Title:    analysis.Title,
			Summary:  analysis.Summary,
			Keywords: analysis.Keywords,
		},
		StorageKey: storageKey,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		metrics.IncUploadFailed()
		s.discard(ctx, storageKey)
		return Document{}, err
	}

	metrics.IncUploadCompleted()
	telemetry.Info("document.uploaded", map[string]any{
		"documentId": doc.ID,
		"ownerId":    ownerID,
		"sizeBytes":  sizeBytes,
	})
	return doc, nil
}

// List returns the owner's documents, newest first, capped at ListLimit.
func (s *Service) List(ctx context.Context, ownerID string) ([]Document, error) {
	return s.Repo.ListByOwner(ctx, ownerID, ListLimit)
}

// OpenFile streams the archived original of an owned document. The caller
// closes the reader.
func (s *Service) OpenFile(ctx context.Context, id, ownerID string) (Document, io.ReadCloser, error) {
	doc, err := s.GetByID(ctx, id, ownerID)
	if err != nil {
		return Document{}, nil, err
	}
	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return Document{}, nil, err
	}
	return doc, rc, nil
}

// GetByID returns the document only when it exists and belongs to ownerID.
func (s *Service) GetByID(ctx context.Context, id, ownerID string) (Document, error) {
	if !ValidID(id) {
		return Document{}, ErrInvalidID
	}
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if doc.OwnerID != ownerID {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// UpdateByID applies a partial analysis update and returns the fresh state.
// An empty patch is rejected before any store call.
func (s *Service) UpdateByID(ctx context.Context, id, ownerID string, patch AnalysisPatch) (Document, error) {
	if !ValidID(id) {
		return Document{}, ErrInvalidID
	}
	if patch.IsEmpty() {
		return Document{}, ErrEmptyPatch
	}
	if _, err := s.GetByID(ctx, id, ownerID); err != nil {
		return Document{}, err
	}
	if err := s.Repo.UpdateAnalysis(ctx, id, patch); err != nil {
		return Document{}, err
	}
	return s.Repo.GetByID(ctx, id)
}

// DeleteByID removes the document and its archived file.
func (s *Service) DeleteByID(ctx context.Context, id, ownerID string) error {
	doc, err := s.GetByID(ctx, id, ownerID)
	if err != nil {
		return err
	}
	count, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.discard(ctx, doc.StorageKey)
	return nil
}

// discard removes an archived file, logging rather than failing: the record
// outcome already decided the request.
func (s *Service) discard(ctx context.Context, storageKey string) {
	if storageKey == "" {
		return
	}
	if err := s.Store.Delete(ctx, storageKey); err != nil {
		telemetry.Warn("document.discard_failed", map[string]any{
			"storageKey": storageKey,
			"error":      err.Error(),
		})
	}
}

// SanitizeFilename trims path components from a client-supplied filename.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "upload.pdf"
	}
	return name
}
