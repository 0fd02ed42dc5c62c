package documents

import "time"

// AnalysisBody is the analysis sub-object in document payloads.
type AnalysisBody struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
}

// DocumentResponse is the outward-facing representation of a document.
// The identifier is always the string form, never the store's native type.
type DocumentResponse struct {
	ID        string       `json:"id"`
	Filename  string       `json:"filename"`
	Analysis  AnalysisBody `json:"analysis"`
	OwnerID   string       `json:"owner_id"`
	CreatedAt time.Time    `json:"created_at"`
}

func toResponse(doc Document) DocumentResponse {
	keywords := doc.Analysis.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return DocumentResponse{
		ID:       doc.ID,
		Filename: doc.Filename,
		Analysis: AnalysisBody{
			Title:    doc.Analysis.Title,
			Summary:  doc.Analysis.Summary,
			Keywords: keywords,
		},
		OwnerID:   doc.OwnerID,
		CreatedAt: doc.CreatedAt,
	}
}
