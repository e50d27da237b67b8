package filter

import (
	"encoding/json"
	"errors"
	"strings"
)

// parsePathArray extracts a JSON array of strings from a model reply.
// Models wrap answers in code fences or objects often enough that
// strict parsing would defeat the filter, so three shapes are
// accepted: a bare array, an array inside the reply text, and an
// object carrying the array under a known key.
func parsePathArray(reply string) ([]string, error) {
	reply = strings.TrimSpace(stripCodeFence(reply))
	if reply == "" {
		return nil, errors.New("empty reply")
	}

	var paths []string
	if err := json.Unmarshal([]byte(reply), &paths); err == nil {
		return paths, nil
	}

	// Object wrapper: {"files": [...]} / {"core_files": [...]}.
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(reply), &wrapper); err == nil {
		for _, key := range []string{"files", "core_files", "paths", "core"} {
			if raw, ok := wrapper[key]; ok {
				if err := json.Unmarshal(raw, &paths); err == nil {
					return paths, nil
				}
			}
		}
		return nil, errors.New("object reply carried no recognizable path array")
	}

	// Array embedded in prose: take the first bracketed span that
	// parses.
	if start := strings.IndexByte(reply, '['); start >= 0 {
		if end := strings.LastIndexByte(reply, ']'); end > start {
			if err := json.Unmarshal([]byte(reply[start:end+1]), &paths); err == nil {
				return paths, nil
			}
		}
	}

	return nil, errors.New("no JSON path array found")
}

// stripCodeFence removes a surrounding ``` block, with or without a
// language tag.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
		// Drop the language tag line ("json").
		if !strings.ContainsAny(trimmed[:i], "[{") {
			trimmed = trimmed[i+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
