package responses

import (
	"strings"

	"github.com/tidwall/gjson"
)

// extractText probes the responses shapes: the convenience output_text
// field, then the structured output list, then the bare fallbacks.
func extractText(body []byte) (string, bool) {
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

	if v := gjson.GetBytes(body, "content"); v.Type == gjson.String && v.String() != "" {
		return v.String(), true
	}
	if v := gjson.GetBytes(body, "text"); v.Type == gjson.String && v.String() != "" {
		return v.String(), true
	}

	return "", false
}
