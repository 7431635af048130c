package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrMalformedResponse marks model output that did not contain a parseable
// JSON object. Stage processors catch it and apply their documented fallback.
var ErrMalformedResponse = eris.New("llm: malformed response")

// ExtractJSON parses a JSON object out of raw model output, stripping one
// markdown code fence pair (with an optional language tag) if present.
func ExtractJSON(text string, v any) error {
	cleaned := stripFences(strings.TrimSpace(text))
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// stripFences returns the content between the first pair of triple-backtick
// fences, dropping a leading "json" language tag. Unfenced text passes through.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
