// Package responses implements the adapter for vendors that only speak the
// OpenAI responses dialect. It is deliberately a baseline: one attempt per
// call, no quirk corrections, because the endpoints that expose this shape
// are first-party and do not need them.
package responses

import (
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
	json "github.com/goccy/go-json"
)

// HTTPClient overrides the client used for upstream calls.
var HTTPClient = opts.ForName[Provider, *http.Client]("client")

// Provider speaks the responses wire shape and nothing else.
type Provider struct {
	client *http.Client
	base   provider.Base
	log    *slog.Logger
}

var _ provider.Provider = (*Provider)(nil)

func New(cfg provider.Config, options ...opts.Option[Provider]) *Provider {
	p := &Provider{
		log: slog.Default().With(slogx.LoggerName("responses"), slog.String("model", cfg.Model)),
	}
	if err := opts.Apply(p, options); err != nil {
		panic(err)
	}
	p.base = provider.NewBase(cfg, p.client)
	return p
}

var versionSegment = regexp.MustCompile(`/v\d+[a-z0-9]*`)

func resolveURL(baseURL string) string {
	trimmed := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(trimmed, "/responses") {
		return trimmed
	}
	if versionSegment.MatchString(trimmed) {
		return trimmed + "/responses"
	}
	return trimmed + "/v1/responses"
}

// CallAPI performs exactly one attempt. Failures come back as-is; there is no
// correction loop here.
func (p *Provider) CallAPI(ctx context.Context, thread []messages.Message, params *provider.CallParams, stream bool) (*provider.CallResult, error) {
	body, err := p.buildBody(thread, params, stream)
	if err != nil {
		return nil, err
	}

	raw, strm, err := p.base.Post(ctx, resolveURL(p.base.Config().BaseURL), body, stream)
	if err != nil {
		return nil, err
	}
	if stream {
		return &provider.CallResult{Stream: strm}, nil
	}

	text, ok := extractText(raw)
	if !ok {
		return nil, &provider.EmptyResponseError{Model: p.base.Config().Model}
	}
	return &provider.CallResult{Response: &provider.AIResponse{
		Content:      wire.CleanText(text),
		FinishReason: wire.ExtractFinishReason(raw),
		Usage:        wire.ExtractUsage(raw),
	}}, nil
}

type request struct {
	Model           string          `json:"model"`
	Input           []inputItem     `json:"input"`
	Instructions    string          `json:"instructions,omitempty"`
	Stream          bool            `json:"stream,omitempty"`
	Temperature     *float64        `json:"temperature,omitempty"`
	TopP            *float64        `json:"top_p,omitempty"`
	MaxOutputTokens *int64          `json:"max_output_tokens,omitempty"`
	Reasoning       *reasoningParam `json:"reasoning,omitempty"`
}

type reasoningParam struct {
	Effort string `json:"effort"`
}

type inputItem struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type inputPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// buildBody separates system messages into the instructions field and
// renders everything else as input items.
func (p *Provider) buildBody(thread []messages.Message, params *provider.CallParams, stream bool) ([]byte, error) {
	req := request{
		Model:  p.base.Config().Model,
		Input:  make([]inputItem, 0, len(thread)),
		Stream: stream,
	}
	var instructions []string
	for _, msg := range thread {
		if msg.Role == messages.RoleSystem {
			if txt := msg.Text(); txt != "" {
				instructions = append(instructions, txt)
			}
			continue
		}
		req.Input = append(req.Input, encodeInputItem(msg))
	}
	req.Instructions = strings.Join(instructions, "\n")

	if params != nil {
		req.Temperature = params.Temperature
		req.TopP = params.TopP
		req.MaxOutputTokens = params.MaxTokens
		if params.ReasoningEffort != nil {
			req.Reasoning = &reasoningParam{Effort: *params.ReasoningEffort}
		}
	}
	return json.Marshal(req)
}

func encodeInputItem(msg messages.Message) inputItem {
	role := string(msg.Role.Normalize())
	if len(msg.Content.Parts) == 0 && len(msg.Attachments) == 0 {
		return inputItem{Role: role, Content: msg.Content.Content}
	}

	parts := make([]inputPart, 0, 1+len(msg.Content.Parts)+len(msg.Attachments))
	if msg.Content.Content != "" {
		parts = append(parts, inputPart{Type: "input_text", Text: msg.Content.Content})
	}
	for _, part := range msg.Content.Parts {
		switch part := part.(type) {
		case messages.TextPart:
			parts = append(parts, inputPart{Type: "input_text", Text: part.Text})
		case messages.InlineImagePart:
			parts = append(parts, inputPart{Type: "input_image", ImageURL: part.DataURL()})
		case messages.ImageURLPart:
			parts = append(parts, inputPart{Type: "input_image", ImageURL: part.URL})
		}
	}
	for _, att := range msg.Attachments {
		switch part := att.Part().(type) {
		case messages.InlineImagePart:
			parts = append(parts, inputPart{Type: "input_image", ImageURL: part.DataURL()})
		case messages.ImageURLPart:
			parts = append(parts, inputPart{Type: "input_image", ImageURL: part.URL})
		}
	}
	return inputItem{Role: role, Content: parts}
}
