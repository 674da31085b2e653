package openai

import (
	"bytes"
	"strings"

	"github.com/casualjim/loom/internal/wire"
	"github.com/casualjim/loom/provider"
	"github.com/tidwall/gjson"
)

const doneSentinel = "[DONE]"

// ParseStreamChunk decodes one SSE frame payload. The decode order mirrors
// what mixed fleets actually emit: the done sentinel, gateway comment lines,
// responses event envelopes, completions deltas, gemini-style candidates, and
// finally the generic delta/text fallbacks. Frames that match nothing, or
// that are not JSON at all, yield nil and are skipped by the caller.
func (p *Provider) ParseStreamChunk(frame []byte) *provider.StreamChunk {
	payload := bytes.TrimSpace(frame)
	if len(payload) == 0 {
		return nil
	}
	if string(payload) == doneSentinel {
		return &provider.StreamChunk{Done: true}
	}
	// Gateway chatter such as ": OPENROUTER PROCESSING".
	if payload[0] == ':' {
		return nil
	}
	if !gjson.ValidBytes(payload) {
		return nil
	}
	jv := gjson.ParseBytes(payload)

	if typ := jv.Get("type").String(); typ != "" {
		switch {
		case typ == "response.output_text.delta":
			return &provider.StreamChunk{Content: jv.Get("delta").String()}
		case typ == "response.completed", strings.HasSuffix(typ, ".done"):
			return &provider.StreamChunk{Done: true}
		}
	}

	if choice := jv.Get("choices.0"); choice.Exists() {
		content := choice.Get("delta.content").String()
		done := choice.Get("finish_reason").String() != "" || jv.Get("done").Bool()
		if content == "" && !done {
			return nil
		}
		return &provider.StreamChunk{Content: content, Done: done}
	}

	if parts := jv.Get("candidates.0.content.parts"); parts.Exists() {
		text, ok := wire.JoinParts(parts)
		done := jv.Get("candidates.0.finishReason").String() != ""
		if !ok && !done {
			return nil
		}
		return &provider.StreamChunk{Content: text, Done: done}
	}

	if v := jv.Get("delta.text"); v.Type == gjson.String {
		return &provider.StreamChunk{Content: v.String(), Done: jv.Get("done").Bool()}
	}
	if v := jv.Get("text"); v.Type == gjson.String {
		return &provider.StreamChunk{Content: v.String(), Done: jv.Get("done").Bool()}
	}

	return nil
}
