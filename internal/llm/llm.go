package llm

import (
	"context"
	"errors"
)

// Analysis is the structured result attached to a document.
type Analysis struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
}

// Client abstracts generative-language providers for document analysis.
// Implementations own prompt transport and response recovery; callers only
// see the structured result.
type Client interface {
	Analyze(ctx context.Context, text string) (Analysis, error)
}

// ErrUnavailable covers every analysis failure shape: transport errors,
// responses with no recoverable JSON, and schema mismatches. Callers treat
// them identically; there is no retry at this layer.
var ErrUnavailable = errors.New("analysis unavailable")

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("analysis provider not configured")

// PlaceholderClient is a stub used when no provider is configured.
type PlaceholderClient struct{}

// Analyze returns ErrNotConfigured.
func (PlaceholderClient) Analyze(ctx context.Context, text string) (Analysis, error) {
	_ = ctx
	_ = text
	return Analysis{}, ErrNotConfigured
}
