// Package extract recovers structured JSON records from free-form LLM output.
// Models wrap payloads in prose, markdown fences, or emit several candidate
// blocks; the fallback chain here tries the cheapest strategy first and only
// pays for exhaustive brace scanning when it has to.
package extract

import (
	"encoding/json"
	"sort"
	"strings"
)

// Error is returned when no parseable, valid structured payload can be found.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "extraction failed: " + e.Reason
}

// ValidateFunc decides whether a parsed candidate conforms to the expected
// record shape. A nil ValidateFunc accepts any JSON object or array.
type ValidateFunc func(data json.RawMessage) bool

// JSON extracts the first JSON payload from raw that both parses and passes
// validation. Fallback order:
//  1. the entire trimmed response
//  2. the interior of a fenced code block
//  3. the first top-level brace-matched span
//  4. every balanced brace span, longest first
func JSON(raw string, validate ValidateFunc) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &Error{Reason: "empty response"}
	}

	if data, ok := tryCandidate(trimmed, validate); ok {
		return data, nil
	}

	if inner, ok := fencedBlock(trimmed); ok {
		if data, ok := tryCandidate(inner, validate); ok {
			return data, nil
		}
	}

	if span, ok := firstBraceSpan(trimmed); ok {
		if data, ok := tryCandidate(span, validate); ok {
			return data, nil
		}
	}

	for _, span := range balancedSpans(trimmed) {
		if data, ok := tryCandidate(span, validate); ok {
			return data, nil
		}
	}

	return nil, &Error{Reason: "no parseable structured payload found"}
}

// tryCandidate accepts a candidate only if it is valid JSON and passes
// validation. This is what keeps an earlier, malformed candidate from
// shadowing a later valid one.
func tryCandidate(candidate string, validate ValidateFunc) (json.RawMessage, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || !json.Valid([]byte(candidate)) {
		return nil, false
	}
	data := json.RawMessage(candidate)
	if validate != nil && !validate(data) {
		return nil, false
	}
	return data, true
}

// fencedBlock returns the interior of the first markdown code fence.
// A language identifier on the opening fence line is skipped.
func fencedBlock(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}

	rest := text[start+3:]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		firstLine := strings.TrimSpace(rest[:nl])
		// Treat a short brace-free first line as a language tag ("json", "JSON").
		if len(firstLine) < 20 && !strings.ContainsAny(firstLine, "{ ") {
			rest = rest[nl+1:]
		}
	}

	end := strings.Index(rest, "```")
	if end < 0 {
		return strings.TrimSpace(rest), strings.TrimSpace(rest) != ""
	}
	inner := strings.TrimSpace(rest[:end])
	return inner, inner != ""
}

// firstBraceSpan returns the first top-level {...} span, matching braces while
// skipping string literals and escapes.
func firstBraceSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	end, ok := matchBrace(text, start)
	if !ok {
		return "", false
	}
	return text[start : end+1], true
}

// balancedSpans returns every balanced {...} span in the text, ordered by
// descending length so the most complete candidate is tried first.
func balancedSpans(text string) []string {
	var spans []string
	seen := make(map[string]bool)

	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		if end, ok := matchBrace(text, i); ok {
			span := text[i : end+1]
			if !seen[span] {
				seen[span] = true
				spans = append(spans, span)
			}
		}
	}

	sort.SliceStable(spans, func(a, b int) bool {
		return len(spans[a]) > len(spans[b])
	})
	return spans
}

// matchBrace finds the index of the brace closing the one at start.
func matchBrace(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
