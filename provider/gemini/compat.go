package gemini

import (
	"errors"
	"strings"

	"github.com/casualjim/loom/internal/wire"
	"github.com/casualjim/loom/messages"
	"github.com/casualjim/loom/provider"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// completionsRequest is the body shape for the OpenAI-compatible backend.
// Modalities asks gateways that can draw to return images alongside text.
type completionsRequest struct {
	Model            string          `json:"model"`
	Messages         []compatMessage `json:"messages"`
	Stream           bool            `json:"stream,omitempty"`
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"top_p,omitempty"`
	MaxTokens        *int64          `json:"max_tokens,omitempty"`
	FrequencyPenalty *float64        `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64        `json:"presence_penalty,omitempty"`
	Modalities       []string        `json:"modalities,omitempty"`
}

type compatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type compatPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *compatImageURL `json:"image_url,omitempty"`
}

type compatImageURL struct {
	URL string `json:"url"`
}

// openaiURL resolves the completions URL the same way the completions
// adapter does: endpoint suffixes win verbatim, version segments get the
// path appended, bare hosts get /v1 first.
func openaiURL(baseURL string) string {
	trimmed := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(trimmed, "/completions") {
		return trimmed
	}
	if versionSegment.MatchString(trimmed) {
		return trimmed + "/chat/completions"
	}
	return trimmed + "/v1/chat/completions"
}

func (p *Provider) buildOpenAIBody(thread []messages.Message, params *provider.CallParams, stream, withImages bool) ([]byte, error) {
	req := completionsRequest{
		Model:    p.base.Config().Model,
		Messages: make([]compatMessage, 0, len(thread)),
		Stream:   stream,
	}
	for _, msg := range thread {
		req.Messages = append(req.Messages, encodeCompatMessage(msg))
	}
	if params != nil {
		req.Temperature = params.Temperature
		req.TopP = params.TopP
		req.MaxTokens = params.MaxTokens
		req.FrequencyPenalty = params.FrequencyPenalty
		req.PresencePenalty = params.PresencePenalty
	}
	if withImages {
		req.Modalities = []string{"text", "image"}
	}
	return json.Marshal(req)
}

func encodeCompatMessage(msg messages.Message) compatMessage {
	role := string(msg.Role.Normalize())
	if len(msg.Content.Parts) == 0 && len(msg.Attachments) == 0 {
		return compatMessage{Role: role, Content: msg.Content.Content}
	}

	parts := make([]compatPart, 0, 1+len(msg.Content.Parts)+len(msg.Attachments))
	if msg.Content.Content != "" {
		parts = append(parts, compatPart{Type: "text", Text: msg.Content.Content})
	}
	for _, part := range msg.Content.Parts {
		parts = appendCompatPart(parts, part)
	}
	for _, att := range msg.Attachments {
		parts = appendCompatPart(parts, att.Part())
	}
	return compatMessage{Role: role, Content: parts}
}

func appendCompatPart(parts []compatPart, part messages.ContentPart) []compatPart {
	switch part := part.(type) {
	case messages.TextPart:
		return append(parts, compatPart{Type: "text", Text: part.Text})
	case messages.InlineImagePart:
		return append(parts, compatPart{Type: "image_url", ImageURL: &compatImageURL{URL: part.DataURL()}})
	case messages.ImageURLPart:
		return append(parts, compatPart{Type: "image_url", ImageURL: &compatImageURL{URL: part.URL}})
	}
	return parts
}

// normalizeOpenAI reshapes a completions response into the candidate form.
// Gateways disagree on where images land, so it probes all the shapes seen
// in the wild: image_url items inside an array content, a message-level
// images list, and bare b64_json payloads. A content_filter finish reason
// becomes the blocked-response signal.
func normalizeOpenAI(raw []byte) (*Result, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("invalid completions response")
	}
	jv := gjson.ParseBytes(raw)

	result := &Result{
		Usage:        wire.ExtractUsage(raw),
		FinishReason: jv.Get("choices.0.finish_reason").String(),
	}
	if result.FinishReason == "content_filter" {
		result.BlockReason = "SAFETY"
	}

	message := jv.Get("choices.0.message")
	if !message.Exists() {
		return result, nil
	}

	candidate := Candidate{FinishReason: result.FinishReason}
	var text strings.Builder

	content := message.Get("content")
	switch {
	case content.IsArray():
		for _, item := range content.Array() {
			switch item.Get("type").String() {
			case "text":
				text.WriteString(item.Get("text").String())
				candidate.Parts = append(candidate.Parts, Part{Text: item.Get("text").String()})
			case "image_url":
				if img, ok := parseDataURL(item.Get("image_url.url").String()); ok {
					result.Images = append(result.Images, img)
					candidate.Parts = append(candidate.Parts, Part{Image: &img})
				}
			}
		}
	case content.Type == gjson.String && content.String() != "":
		text.WriteString(content.String())
		candidate.Parts = append(candidate.Parts, Part{Text: content.String()})
	}

	for _, item := range message.Get("images").Array() {
		var img InlineImage
		var ok bool
		if b64 := item.Get("b64_json"); b64.Exists() {
			img, ok = InlineImage{MimeType: "image/png", Data: b64.String()}, b64.String() != ""
		} else {
			img, ok = parseDataURL(item.Get("image_url.url").String())
		}
		if ok {
			result.Images = append(result.Images, img)
			candidate.Parts = append(candidate.Parts, Part{Image: &img})
		}
	}

	result.Text = wire.CleanText(text.String())
	result.Candidates = append(result.Candidates, candidate)
	return result, nil
}

// parseDataURL splits a data:<mime>;base64,<payload> URL into an inline
// image. Remote URLs have no inline payload and are skipped.
func parseDataURL(url string) (InlineImage, bool) {
	if !strings.HasPrefix(url, "data:") {
		return InlineImage{}, false
	}
	rest := strings.TrimPrefix(url, "data:")
	mime, payload, found := strings.Cut(rest, ";base64,")
	if !found || payload == "" {
		return InlineImage{}, false
	}
	if mime == "" {
		mime = "image/png"
	}
	return InlineImage{MimeType: mime, Data: payload}, true
}
