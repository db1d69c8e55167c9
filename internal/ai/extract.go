package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Fence and brace regexes compiled once at package init. (?s) lets the fence
// interiors and the brace span cross newlines.
var (
	reJSONFence = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	reAnyFence  = regexp.MustCompile("(?s)```\\s*(.*?)```")
	reBraceSpan = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON recovers a structured JSON value from free-form model output.
// Attempts, in order: the whole string, a ```json fenced block, any fenced
// block, the first greedy {...} span. Returns the raw value and true on the
// first attempt that parses; (nil, false) when nothing in the text parses.
// It never returns an error and does not validate the parsed shape — callers
// must check key presence and array-ness themselves.
func ExtractJSON(text string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}

	if raw, ok := tryParse(trimmed); ok {
		return raw, true
	}

	if m := reJSONFence.FindStringSubmatch(trimmed); m != nil {
		if raw, ok := tryParse(m[1]); ok {
			return raw, true
		}
	}

	if m := reAnyFence.FindStringSubmatch(trimmed); m != nil {
		if raw, ok := tryParse(m[1]); ok {
			return raw, true
		}
	}

	if m := reBraceSpan.FindString(trimmed); m != "" {
		if raw, ok := tryParse(m); ok {
			return raw, true
		}
	}

	return nil, false
}

// ExtractStringList decodes text into a []string, accepting either a bare
// JSON array or an array recovered by ExtractJSON. Returns nil, false when
// the text holds no string array.
func ExtractStringList(text string) ([]string, bool) {
	raw, ok := ExtractJSON(text)
	if !ok {
		return nil, false
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	return list, true
}

func tryParse(s string) (json.RawMessage, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	// Only objects and arrays count as structured values; a bare string or
	// number is indistinguishable from prose for our callers.
	switch v.(type) {
	case map[string]any, []any:
		return json.RawMessage(s), true
	default:
		return nil, false
	}
}
