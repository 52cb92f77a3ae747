// Copyright CrisisWatch Labs, 2026. All rights reserved.

package synthesize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON pulls a JSON object candidate out of a model response.
// Responses routinely arrive wrapped in markdown fences or surrounded by
// prose; this strips the wrapping without validating the payload.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if i := strings.Index(text, "```json"); i >= 0 {
		rest := text[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		text = rest
	} else if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+len("```"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		// Drop a leading language identifier such as "json".
		rest = strings.TrimSpace(rest)
		lower := strings.ToLower(rest)
		if strings.HasPrefix(lower, "json") {
			rest = rest[4:]
		}
		text = rest
	}

	return strings.TrimSpace(text)
}

// Decode parses a model response into out, tolerating the usual defects.
// It tries four stages in order: the raw text as strict JSON, the text
// with markdown fences stripped, the span between the first "{" and the
// last "}", and finally gives up with an error so the caller can fall
// back to unstructured handling.
func Decode(text string, out any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("empty response")
	}

	if err := json.Unmarshal([]byte(text), out); err == nil {
		return nil
	}

	stripped := ExtractJSON(text)
	if err := json.Unmarshal([]byte(stripped), out); err == nil {
		return nil
	}

	start := strings.IndexByte(stripped, '{')
	end := strings.LastIndexByte(stripped, '}')
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(stripped[start:end+1]), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no parseable JSON object in response")
}
