package wire

import (
	"strings"

	"github.com/casualjim/loom/provider"
	"github.com/tidwall/gjson"
)

// ExtractUsage probes the known token-counter shapes: the OpenAI usage
// object (completions and responses field names) and the Gemini
// usageMetadata object. Absent counters stay zero.
func ExtractUsage(body []byte) provider.Usage {
	if u := gjson.GetBytes(body, "usage"); u.Exists() {
		prompt := u.Get("prompt_tokens")
		if !prompt.Exists() {
			prompt = u.Get("input_tokens")
		}
		completion := u.Get("completion_tokens")
		if !completion.Exists() {
			completion = u.Get("output_tokens")
		}
		return provider.Usage{
			PromptTokens:     prompt.Int(),
			CompletionTokens: completion.Int(),
			ThoughtsTokens:   u.Get("completion_tokens_details.reasoning_tokens").Int(),
			TotalTokens:      u.Get("total_tokens").Int(),
		}
	}
	if um := gjson.GetBytes(body, "usageMetadata"); um.Exists() {
		return provider.Usage{
			PromptTokens:     um.Get("promptTokenCount").Int(),
			CompletionTokens: um.Get("candidatesTokenCount").Int(),
			ThoughtsTokens:   um.Get("thoughtsTokenCount").Int(),
			TotalTokens:      um.Get("totalTokenCount").Int(),
		}
	}
	return provider.Usage{}
}

// ExtractFinishReason probes the known completion-reason fields, in the same
// family order the text extraction uses.
func ExtractFinishReason(body []byte) string {
	for _, path := range []string{
		"choices.0.finish_reason",
		"candidates.0.finishReason",
		"status",
	} {
		if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// JoinParts concatenates the text of a Gemini parts array, skipping thought
// parts. The second return reports whether any text part was present.
func JoinParts(parts gjson.Result) (string, bool) {
	if !parts.IsArray() {
		return "", false
	}
	var sb strings.Builder
	for _, part := range parts.Array() {
		if part.Get("thought").Bool() {
			continue
		}
		if txt := part.Get("text"); txt.Type == gjson.String {
			sb.WriteString(txt.String())
		}
	}
	return sb.String(), sb.Len() > 0
}
