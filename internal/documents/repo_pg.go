package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo persists documents in Postgres. Keywords are stored as a JSONB
// array so partial updates replace the whole list atomically.
type PGRepo struct {
	DB *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: db}
}

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	keywords, err := json.Marshal(keywordsOrEmpty(doc.Analysis.Keywords))
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO documents (
			id, owner_id, filename,
			analysis_title, analysis_summary, analysis_keywords,
			storage_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, doc.ID, doc.OwnerID, doc.Filename,
		doc.Analysis.Title, doc.Analysis.Summary, keywords,
		doc.StorageKey, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, owner_id, filename,
		       analysis_title, analysis_summary, analysis_keywords,
		       storage_key, created_at
		FROM documents
		WHERE id = $1
	`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Document, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, filename,
		       analysis_title, analysis_summary, analysis_keywords,
		       storage_key, created_at
		FROM documents
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (r *PGRepo) UpdateAnalysis(ctx context.Context, id string, patch AnalysisPatch) error {
	if patch.IsEmpty() {
		return ErrEmptyPatch
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.Title != nil {
		sets = append(sets, "analysis_title = "+next(*patch.Title))
	}
	if patch.Summary != nil {
		sets = append(sets, "analysis_summary = "+next(*patch.Summary))
	}
	if patch.Keywords != nil {
		keywords, err := json.Marshal(keywordsOrEmpty(*patch.Keywords))
		if err != nil {
			return fmt.Errorf("marshal keywords: %w", err)
		}
		sets = append(sets, "analysis_keywords = "+next(keywords))
	}

	query := "UPDATE documents SET " + strings.Join(sets, ", ") + " WHERE id = " + next(id)
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete document: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete document: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var keywords []byte
	err := row.Scan(
		&doc.ID, &doc.OwnerID, &doc.Filename,
		&doc.Analysis.Title, &doc.Analysis.Summary, &keywords,
		&doc.StorageKey, &doc.CreatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &doc.Analysis.Keywords); err != nil {
			return Document{}, fmt.Errorf("unmarshal keywords: %w", err)
		}
	}
	if doc.Analysis.Keywords == nil {
		doc.Analysis.Keywords = []string{}
	}
	return doc, nil
}

func keywordsOrEmpty(keywords []string) []string {
	if keywords == nil {
		return []string{}
	}
	return keywords
}
