package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSONObject returns the first balanced {...} span in raw, skipping
// any surrounding prose or code-fence markers the provider may emit despite
// the JSON-only instruction. Braces inside JSON strings are ignored.
func ExtractJSONObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseAnalysis recovers a structured Analysis from a raw provider response.
// Any failure shape collapses to ErrUnavailable.
func ParseAnalysis(raw string) (Analysis, error) {
	span, ok := ExtractJSONObject(raw)
	if !ok {
		return Analysis{}, fmt.Errorf("%w: no JSON object in response", ErrUnavailable)
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(span), &analysis); err != nil {
		return Analysis{}, fmt.Errorf("%w: parse response: %v", ErrUnavailable, err)
	}

	if strings.TrimSpace(analysis.Title) == "" ||
		strings.TrimSpace(analysis.Summary) == "" ||
		len(analysis.Keywords) == 0 {
		return Analysis{}, fmt.Errorf("%w: response missing required fields", ErrUnavailable)
	}
	return analysis, nil
}
