package provider

import (
	"context"

	"github.com/casualjim/loom/messages"
)

// Provider is the uniform contract every vendor adapter implements.
// Implementations own the full round trip for one endpoint/model pairing:
// building the vendor wire body from neutral messages, authenticating,
// enforcing the per-attempt timeout policy, recovering from the vendor quirks
// they know about, and normalizing what comes back.
type Provider interface {
	// CallAPI performs one logical call against the upstream model. The
	// thread is the ordered conversation history, oldest first; params may be
	// nil when the caller has no generation controls to pass.
	//
	// In buffered mode the result carries a normalized *AIResponse. In
	// streaming mode it carries the open response body instead; the caller
	// reads SSE frames from it, feeds each one to ParseStreamChunk, and must
	// close it when done.
	//
	// Errors are one of *ConfigError (bad configuration, nothing was sent),
	// *UpstreamError (non-success status after recovery was exhausted), or
	// *EmptyResponseError (success status, no extractable content). Transport
	// and context errors pass through wrapped.
	CallAPI(ctx context.Context, thread []messages.Message, params *CallParams, stream bool) (*CallResult, error)

	// ParseStreamChunk decodes a single SSE frame payload into a neutral
	// chunk. It returns nil for frames that carry nothing user-visible:
	// vendor keep-alive comments, role announcements, malformed JSON,
	// unrecognized shapes. A nil return means skip, never abort.
	ParseStreamChunk(frame []byte) *StreamChunk
}
