package analyze

import (
	"errors"
	"strings"
)

// ErrNoJSON is returned when a model reply contains no JSON object.
var ErrNoJSON = errors.New("no JSON object found in reply")

// extractJSONSpan locates the JSON object inside a free-form model reply:
// everything from the first '{' through the last '}'. Markdown code fences
// around the reply are stripped first.
func extractJSONSpan(text string) (string, error) {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		// Without a closing fence (e.g. a max_tokens-truncated reply),
		// keep everything after the opening fence.
		endIdx := len(lines)
		for i := len(lines) - 1; i > 0; i-- {
			if strings.TrimSpace(lines[i]) == "```" {
				endIdx = i
				break
			}
		}
		text = strings.Join(lines[1:endIdx], "\n")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSON
	}

	return text[start : end+1], nil
}
