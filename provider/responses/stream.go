package responses

import (
	"bytes"
	"strings"

	"github.com/casualjim/loom/provider"
	"github.com/tidwall/gjson"
)

const doneSentinel = "[DONE]"

// ParseStreamChunk decodes one SSE frame of the responses event stream. Only
// text deltas and completion events become chunks; lifecycle events, comment
// lines and malformed frames are skipped.
func (p *Provider) ParseStreamChunk(frame []byte) *provider.StreamChunk {
	payload := bytes.TrimSpace(frame)
	if len(payload) == 0 {
		return nil
	}
	if string(payload) == doneSentinel {
		return &provider.StreamChunk{Done: true}
	}
	if payload[0] == ':' {
		return nil
	}
	if !gjson.ValidBytes(payload) {
		return nil
	}

	jv := gjson.ParseBytes(payload)
	switch typ := jv.Get("type").String(); {
	case typ == "response.output_text.delta":
		return &provider.StreamChunk{Content: jv.Get("delta").String()}
	case typ == "response.completed", strings.HasSuffix(typ, ".done"):
		return &provider.StreamChunk{Done: true}
	default:
		return nil
	}
}
