package gemini

import (
	"strings"

	"github.com/casualjim/loom/messages"
	"github.com/casualjim/loom/provider"
	json "github.com/goccy/go-json"
)

type generateRequest struct {
	Contents          []wireContent     `json:"contents"`
	SystemInstruction *wireInstruction  `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type wireInstruction struct {
	Parts []wirePart `json:"parts"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type wirePart struct {
	Text       string        `json:"text,omitempty"`
	Thought    bool          `json:"thought,omitempty"`
	InlineData *wireInline   `json:"inlineData,omitempty"`
	FileData   *wireFileData `json:"fileData,omitempty"`
}

type wireInline struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type wireFileData struct {
	MimeType string `json:"mimeType,omitempty"`
	FileURI  string `json:"fileUri"`
}

type generationConfig struct {
	Temperature        *float64 `json:"temperature,omitempty"`
	TopP               *float64 `json:"topP,omitempty"`
	MaxOutputTokens    *int64   `json:"maxOutputTokens,omitempty"`
	PresencePenalty    *float64 `json:"presencePenalty,omitempty"`
	FrequencyPenalty   *float64 `json:"frequencyPenalty,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

func (g generationConfig) isZero() bool {
	return g.Temperature == nil && g.TopP == nil && g.MaxOutputTokens == nil &&
		g.PresencePenalty == nil && g.FrequencyPenalty == nil && len(g.ResponseModalities) == 0
}

type generateResponse struct {
	Candidates     []wireCandidate `json:"candidates,omitempty"`
	PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *usageMetadata  `json:"usageMetadata,omitempty"`
}

type wireCandidate struct {
	Content      *wireContent `json:"content,omitempty"`
	FinishReason string       `json:"finishReason,omitempty"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type usageMetadata struct {
	PromptTokenCount     int64 `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount int64 `json:"candidatesTokenCount,omitempty"`
	ThoughtsTokenCount   int64 `json:"thoughtsTokenCount,omitempty"`
	TotalTokenCount      int64 `json:"totalTokenCount,omitempty"`
}

// buildGeminiBody renders the thread for the native endpoint: system text
// becomes the systemInstruction, user/assistant turns become contents with
// the model role, images travel as inlineData or fileData parts. withImages
// additionally requests both output modalities, which image-capable models
// require before they will draw anything.
func (p *Provider) buildGeminiBody(thread []messages.Message, params *provider.CallParams, withImages bool) ([]byte, error) {
	req := generateRequest{Contents: make([]wireContent, 0, len(thread))}

	var system []string
	for _, msg := range thread {
		if msg.Role == messages.RoleSystem {
			if txt := msg.Text(); txt != "" {
				system = append(system, txt)
			}
			continue
		}
		req.Contents = append(req.Contents, encodeContent(msg))
	}
	if len(system) > 0 {
		req.SystemInstruction = &wireInstruction{Parts: []wirePart{{Text: strings.Join(system, "\n")}}}
	}

	cfg := generationConfig{}
	if params != nil {
		cfg.Temperature = params.Temperature
		cfg.TopP = params.TopP
		cfg.MaxOutputTokens = params.MaxTokens
		cfg.PresencePenalty = params.PresencePenalty
		cfg.FrequencyPenalty = params.FrequencyPenalty
	}
	if withImages {
		cfg.ResponseModalities = []string{"TEXT", "IMAGE"}
	}
	if !cfg.isZero() {
		req.GenerationConfig = &cfg
	}

	return json.Marshal(req)
}

func encodeContent(msg messages.Message) wireContent {
	role := "user"
	if msg.Role.Normalize() == messages.RoleAssistant {
		role = "model"
	}

	parts := make([]wirePart, 0, 1+len(msg.Content.Parts)+len(msg.Attachments))
	if msg.Content.Content != "" {
		parts = append(parts, wirePart{Text: msg.Content.Content})
	}
	for _, part := range msg.Content.Parts {
		switch part := part.(type) {
		case messages.TextPart:
			parts = append(parts, wirePart{Text: part.Text})
		case messages.InlineImagePart:
			parts = append(parts, wirePart{InlineData: &wireInline{MimeType: part.MimeType, Data: part.Data}})
		case messages.ImageURLPart:
			parts = append(parts, wirePart{FileData: &wireFileData{FileURI: part.URL}})
		}
	}
	for _, att := range msg.Attachments {
		switch part := att.Part().(type) {
		case messages.InlineImagePart:
			parts = append(parts, wirePart{InlineData: &wireInline{MimeType: part.MimeType, Data: part.Data}})
		case messages.ImageURLPart:
			parts = append(parts, wirePart{FileData: &wireFileData{FileURI: part.URL}})
		}
	}
	return wireContent{Role: role, Parts: parts}
}
