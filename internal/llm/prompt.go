package llm

import (
	"fmt"
	"strings"
)

// MaxInputChars bounds the text submitted for analysis. A cost and latency
// control, not a correctness requirement.
const MaxInputChars = 8000

const promptTemplate = `Analyze the following text and return EXCLUSIVELY a valid JSON object with this structure:
- "title": a fitting, concise title for the document.
- "summary": an executive summary of 3 or 4 key sentences.
- "keywords": a list of 5 to 7 important keywords.

Do not include code fences or any text outside the JSON object. The response must be only the JSON.

Document text:
---
%s
---`

// BuildPrompt renders the fixed analysis instruction around a bounded prefix
// of the document text.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, Truncate(text, MaxInputChars))
}

// Truncate returns at most limit characters of s.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit])
}
