package openai

import (
	"strings"

	"github.com/casualjim/loom/messages"
	"github.com/casualjim/loom/provider"
	json "github.com/goccy/go-json"
)

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	Stream              bool          `json:"stream,omitempty"`
	Temperature         *float64      `json:"temperature,omitempty"`
	TopP                *float64      `json:"top_p,omitempty"`
	MaxTokens           *int64        `json:"max_tokens,omitempty"`
	MaxCompletionTokens *int64        `json:"max_completion_tokens,omitempty"`
	FrequencyPenalty    *float64      `json:"frequency_penalty,omitempty"`
	PresencePenalty     *float64      `json:"presence_penalty,omitempty"`
	ReasoningEffort     *string       `json:"reasoning_effort,omitempty"`
}

type chatMessage struct {
	Role string `json:"role"`
	// Content is either a plain string or a list of typed parts; vendors
	// reject empty part lists, so plain text stays a string.
	Content any `json:"content"`
}

type chatPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type responsesRequest struct {
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

// buildBody renders the thread and params into the wire body for the
// adapter's dialect, honoring the token-limit field the model is known to
// accept right now.
func (p *Provider) buildBody(thread []messages.Message, params *provider.CallParams, stream bool) ([]byte, error) {
	model := p.base.Config().Model
	if p.dialect == DialectResponses {
		return json.Marshal(p.responsesRequest(model, thread, params, stream))
	}
	return json.Marshal(p.chatRequest(model, thread, params, stream))
}

func (p *Provider) chatRequest(model string, thread []messages.Message, params *provider.CallParams, stream bool) chatRequest {
	req := chatRequest{
		Model:    model,
		Messages: encodeMessages(thread),
		Stream:   stream,
	}
	if params == nil {
		return req
	}
	req.Temperature = params.Temperature
	req.TopP = params.TopP
	req.FrequencyPenalty = params.FrequencyPenalty
	req.PresencePenalty = params.PresencePenalty
	req.ReasoningEffort = params.ReasoningEffort
	if params.MaxTokens != nil {
		if p.useMaxCompletionTokens.Load() {
			req.MaxCompletionTokens = params.MaxTokens
		} else {
			req.MaxTokens = params.MaxTokens
		}
	}
	return req
}

// responsesRequest lifts every system message out of the input list into the
// single instructions field, which is where the responses dialect wants them.
func (p *Provider) responsesRequest(model string, thread []messages.Message, params *provider.CallParams, stream bool) responsesRequest {
	req := responsesRequest{
		Model:  model,
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
	if params == nil {
		return req
	}
	req.Temperature = params.Temperature
	req.TopP = params.TopP
	req.MaxOutputTokens = params.MaxTokens
	if params.ReasoningEffort != nil {
		req.Reasoning = &reasoningParam{Effort: *params.ReasoningEffort}
	}
	return req
}

func encodeMessages(thread []messages.Message) []chatMessage {
	out := make([]chatMessage, 0, len(thread))
	for _, msg := range thread {
		out = append(out, encodeMessage(msg))
	}
	return out
}

// encodeMessage keeps plain text as a string body and switches to a typed
// part list as soon as the message carries images, preserving part order and
// appending attachments after the text.
func encodeMessage(msg messages.Message) chatMessage {
	role := string(msg.Role.Normalize())
	if len(msg.Content.Parts) == 0 && len(msg.Attachments) == 0 {
		return chatMessage{Role: role, Content: msg.Content.Content}
	}

	parts := make([]chatPart, 0, 1+len(msg.Content.Parts)+len(msg.Attachments))
	if msg.Content.Content != "" {
		parts = append(parts, chatPart{Type: "text", Text: msg.Content.Content})
	}
	for _, part := range msg.Content.Parts {
		switch part := part.(type) {
		case messages.TextPart:
			parts = append(parts, chatPart{Type: "text", Text: part.Text})
		case messages.InlineImagePart:
			parts = append(parts, chatPart{Type: "image_url", ImageURL: &chatImageURL{URL: part.DataURL()}})
		case messages.ImageURLPart:
			parts = append(parts, chatPart{Type: "image_url", ImageURL: &chatImageURL{URL: part.URL}})
		}
	}
	for _, att := range msg.Attachments {
		switch part := att.Part().(type) {
		case messages.InlineImagePart:
			parts = append(parts, chatPart{Type: "image_url", ImageURL: &chatImageURL{URL: part.DataURL()}})
		case messages.ImageURLPart:
			parts = append(parts, chatPart{Type: "image_url", ImageURL: &chatImageURL{URL: part.URL}})
		}
	}
	return chatMessage{Role: role, Content: parts}
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
