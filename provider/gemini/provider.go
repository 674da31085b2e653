// Package gemini implements the adapter for Gemini-style endpoints, plus an
// OpenAI-compatible fallback for gateways that proxy image-capable models
// through the completions shape. Besides the plain Provider contract it
// exposes Generate, which keeps the full candidate structure: images, thought
// traces and prompt-feedback block reasons survive normalization instead of
// being flattened into text.
package gemini

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/casualjim/loom/internal/wire"
	"github.com/casualjim/loom/messages"
	"github.com/casualjim/loom/pkg/slogx"
	"github.com/casualjim/loom/provider"
	"github.com/fogfish/opts"
	"github.com/tidwall/gjson"
)

// Backend selects the wire family the endpoint behind the base URL speaks.
type Backend int

const (
	BackendGemini Backend = iota
	BackendOpenAI
)

func (b Backend) String() string {
	if b == BackendOpenAI {
		return "openai"
	}
	return "gemini"
}

var (
	// HTTPClient overrides the client used for upstream calls.
	HTTPClient = opts.ForName[Provider, *http.Client]("client")
	// WithBackend pins the wire family instead of detecting it from the base
	// URL.
	WithBackend = opts.ForName[Provider, Backend]("backend")
)

// Provider talks to Gemini-style endpoints. The backend is fixed at
// construction: a base URL addressing an OpenAI-compatible surface flips the
// adapter into completions-shaped requests while keeping the same normalized
// results.
type Provider struct {
	client  *http.Client
	backend Backend
	base    provider.Base
	log     *slog.Logger
}

var _ provider.Provider = (*Provider)(nil)

func New(cfg provider.Config, options ...opts.Option[Provider]) *Provider {
	p := &Provider{
		backend: detectBackend(cfg.BaseURL),
		log:     slog.Default().With(slogx.LoggerName("gemini"), slog.String("model", cfg.Model)),
	}
	if err := opts.Apply(p, options); err != nil {
		panic(err)
	}
	p.base = provider.NewBase(cfg, p.client)
	return p
}

// detectBackend reads the wire family off the base URL: completions paths and
// /openai/ segments mean an OpenAI-compatible gateway, everything else is
// treated as a native Gemini endpoint.
func detectBackend(baseURL string) Backend {
	lower := strings.ToLower(baseURL)
	if strings.Contains(lower, "/chat/completions") || strings.Contains(lower, "/openai") {
		return BackendOpenAI
	}
	return BackendGemini
}

var versionSegment = regexp.MustCompile(`/v\d+[a-z0-9]*`)

// resolveURL builds the generateContent URL for a native Gemini endpoint. A
// base URL that already addresses a generateContent verb is honored as-is,
// apart from the streaming switch.
func resolveURL(baseURL, model string, stream bool) string {
	verb := ":generateContent"
	if stream {
		verb = ":streamGenerateContent?alt=sse"
	}

	trimmed := strings.TrimRight(baseURL, "/")
	if idx := strings.LastIndex(trimmed, ":generateContent"); idx >= 0 {
		return trimmed[:idx] + verb
	}
	if idx := strings.LastIndex(trimmed, ":streamGenerateContent"); idx >= 0 {
		return trimmed[:idx] + verb
	}
	if versionSegment.MatchString(trimmed) {
		return trimmed + "/models/" + model + verb
	}
	return trimmed + "/v1beta/models/" + model + verb
}

// CallAPI implements the plain text contract over the native backend:
// buffered calls normalize candidate text, streaming calls hand back the SSE
// body. The OpenAI backend routes through the completions shape instead.
func (p *Provider) CallAPI(ctx context.Context, thread []messages.Message, params *provider.CallParams, stream bool) (*provider.CallResult, error) {
	cfg := p.base.Config()

	var body []byte
	var url string
	var err error
	if p.backend == BackendOpenAI {
		url = openaiURL(cfg.BaseURL)
		body, err = p.buildOpenAIBody(thread, params, stream, false)
	} else {
		url = resolveURL(cfg.BaseURL, cfg.Model, stream)
		body, err = p.buildGeminiBody(thread, params, false)
	}
	if err != nil {
		return nil, err
	}

	raw, strm, err := p.base.Post(ctx, url, body, stream)
	if err != nil {
		return nil, err
	}
	if stream {
		return &provider.CallResult{Stream: strm}, nil
	}

	result, err := p.normalize(raw)
	if err != nil {
		return nil, err
	}
	// A blocked prompt is a structurally successful call. The plain-text
	// contract has no separate channel for it, so the block reason travels
	// in the finish reason instead of masquerading as an empty response.
	if result.Blocked() {
		return &provider.CallResult{Response: &provider.AIResponse{
			Content:      result.Text,
			FinishReason: "blocked:" + result.BlockReason,
			Usage:        result.Usage,
		}}, nil
	}
	if result.Text == "" {
		return nil, &provider.EmptyResponseError{Model: cfg.Model}
	}
	return &provider.CallResult{Response: &provider.AIResponse{
		Content:      result.Text,
		FinishReason: result.FinishReason,
		Usage:        result.Usage,
	}}, nil
}

// ParseStreamChunk decodes one frame of a streamGenerateContent SSE stream.
// Thought parts never reach the chunk text.
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
	if cand := jv.Get("candidates.0"); cand.Exists() {
		text, ok := wire.JoinParts(cand.Get("content.parts"))
		done := cand.Get("finishReason").String() != ""
		if !ok && !done {
			return nil
		}
		return &provider.StreamChunk{Content: text, Done: done}
	}
	if choice := jv.Get("choices.0"); choice.Exists() {
		content := choice.Get("delta.content").String()
		done := choice.Get("finish_reason").String() != ""
		if content == "" && !done {
			return nil
		}
		return &provider.StreamChunk{Content: content, Done: done}
	}
	return nil
}

const doneSentinel = "[DONE]"
