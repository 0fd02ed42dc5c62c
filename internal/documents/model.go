package documents

import (
	"time"

	"github.com/google/uuid"
)

// Analysis is the structured result attached to a document at upload.
type Analysis struct {
	Title    string
	Summary  string
	Keywords []string
}

// Document represents an analyzed upload owned by a user. The owner is fixed
// at creation and never reassigned.
type Document struct {
	ID         string
	OwnerID    string
	Filename   string
	Analysis   Analysis
	StorageKey string
	CreatedAt  time.Time
}

// AnalysisPatch is a partial update touching only the provided analysis
// fields. Nil means "leave unchanged".
type AnalysisPatch struct {
	Title    *string
	Summary  *string
	Keywords *[]string
}

// IsEmpty reports whether the patch carries no recognized fields.
func (p AnalysisPatch) IsEmpty() bool {
	return p.Title == nil && p.Summary == nil && p.Keywords == nil
}

// ValidID reports whether id matches the store's identifier format. The
// concrete scheme (UUID) stays behind this helper so it can be swapped.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
