package openai

import (
	"strings"

	"github.com/casualjim/loom/internal/wire"
	"github.com/tidwall/gjson"
)

// extractText probes the known buffered response shapes in fixed order and
// returns the first non-empty text. The order runs from the most specific
// shape to the barest fallback, so a well-formed vendor answer never falls
// through to a generic field:
//
//  1. completions: choices.0.message.content
//  2. responses convenience: top-level output_text
//  3. responses structured: text of output_text/text parts across output items
//  4. gemini-style: candidates.0.content.parts minus thought parts
//  5. bare content field
//  6. bare text field
func extractText(body []byte) (string, bool) {
	if v := gjson.GetBytes(body, "choices.0.message.content"); v.Type == gjson.String && v.String() != "" {
		return v.String(), true
	}

	if v := gjson.GetBytes(body, "output_text"); v.Type == gjson.String && v.String() != "" {
		return v.String(), true
	}

	if output := gjson.GetBytes(body, "output"); output.IsArray() {
		var sb strings.Builder
		for _, item := range output.Array() {
			content := item.Get("content")
			if !content.IsArray() {
				continue
			}
			for _, part := range content.Array() {
				switch part.Get("type").String() {
				case "output_text", "text":
					sb.WriteString(part.Get("text").String())
				}
			}
		}
		if sb.Len() > 0 {
			return sb.String(), true
		}
	}

	if text, ok := wire.JoinParts(gjson.GetBytes(body, "candidates.0.content.parts")); ok {
		return text, true
	}

	if v := gjson.GetBytes(body, "content"); v.Type == gjson.String && v.String() != "" {
		return v.String(), true
	}
	if v := gjson.GetBytes(body, "text"); v.Type == gjson.String && v.String() != "" {
		return v.String(), true
	}

	return "", false
}
