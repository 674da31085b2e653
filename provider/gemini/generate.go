package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/casualjim/loom/internal/wire"
	"github.com/casualjim/loom/messages"
	"github.com/casualjim/loom/provider"
	json "github.com/goccy/go-json"
)

// Result is the normalized outcome of a drawing call. Text, Images and
// Thoughts are taken from the first candidate; the full candidate list stays
// reachable for callers that want the alternatives. BlockReason is set when
// the vendor refused the prompt, which is a successful call structurally:
// check it before deciding the model produced nothing.
type Result struct {
	Candidates   []Candidate
	Text         string
	Images       []InlineImage
	Thoughts     []Thought
	BlockReason  string
	FinishReason string
	Usage        provider.Usage

	_ struct{} // require keyed usage
}

// Blocked reports whether the vendor refused to answer the prompt.
func (r *Result) Blocked() bool { return r.BlockReason != "" }

// Candidate is one generated alternative: an ordered list of parts plus the
// reason generation stopped.
type Candidate struct {
	Parts        []Part
	FinishReason string

	_ struct{}
}

// Part is one element of a candidate: text, an inline image, or either of
// those flagged as internal reasoning.
type Part struct {
	Text    string
	Thought bool
	Image   *InlineImage

	_ struct{}
}

// InlineImage is a base64 image payload with its mime type.
type InlineImage struct {
	MimeType string
	Data     string // base64

	_ struct{}
}

// Thought is one entry of the thought-trace: reasoning the model emitted
// before the answer. Either Text or Image is set.
type Thought struct {
	Text  string
	Image *InlineImage

	_ struct{}
}

// Generate performs a buffered drawing call, requesting both output
// modalities and keeping the full candidate structure. Unlike CallAPI, a
// call that yields only images, only thoughts, or a block reason is a
// success; EmptyResponseError fires only when the response carries nothing
// at all.
func (p *Provider) Generate(ctx context.Context, thread []messages.Message, params *provider.CallParams) (*Result, error) {
	cfg := p.base.Config()

	var body []byte
	var url string
	var err error
	if p.backend == BackendOpenAI {
		url = openaiURL(cfg.BaseURL)
		body, err = p.buildOpenAIBody(thread, params, false, true)
	} else {
		url = resolveURL(cfg.BaseURL, cfg.Model, false)
		body, err = p.buildGeminiBody(thread, params, true)
	}
	if err != nil {
		return nil, err
	}

	raw, _, err := p.base.Post(ctx, url, body, false)
	if err != nil {
		return nil, err
	}
	result, err := p.normalize(raw)
	if err != nil {
		return nil, err
	}
	if result.Text == "" && len(result.Images) == 0 && len(result.Thoughts) == 0 && result.BlockReason == "" {
		return nil, &provider.EmptyResponseError{Model: cfg.Model}
	}
	return result, nil
}

// normalize converts a raw buffered response into the shared candidate shape
// for whichever backend produced it.
func (p *Provider) normalize(raw []byte) (*Result, error) {
	if p.backend == BackendOpenAI {
		return normalizeOpenAI(raw)
	}
	return normalizeGemini(raw)
}

// normalizeGemini decodes a native generateContent response. Primary outputs
// come from the first candidate: thought parts feed the thought-trace,
// inline data feeds Images, the remaining text parts concatenate into Text.
func normalizeGemini(raw []byte) (*Result, error) {
	var resp generateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode generateContent response: %w", err)
	}

	result := &Result{}
	if resp.PromptFeedback != nil {
		result.BlockReason = resp.PromptFeedback.BlockReason
	}
	if resp.UsageMetadata != nil {
		result.Usage = provider.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			ThoughtsTokens:   resp.UsageMetadata.ThoughtsTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}

	for _, cand := range resp.Candidates {
		candidate := Candidate{FinishReason: cand.FinishReason}
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				candidate.Parts = append(candidate.Parts, fromWirePart(part))
			}
		}
		result.Candidates = append(result.Candidates, candidate)
	}
	if len(result.Candidates) == 0 {
		return result, nil
	}

	result.FinishReason = result.Candidates[0].FinishReason
	var text strings.Builder
	for _, part := range result.Candidates[0].Parts {
		switch {
		case part.Thought:
			result.Thoughts = append(result.Thoughts, Thought{Text: part.Text, Image: part.Image})
		case part.Image != nil:
			result.Images = append(result.Images, *part.Image)
		case part.Text != "":
			text.WriteString(part.Text)
		}
	}
	result.Text = wire.CleanText(text.String())
	return result, nil
}

func fromWirePart(part wirePart) Part {
	out := Part{Text: part.Text, Thought: part.Thought}
	if part.InlineData != nil {
		out.Image = &InlineImage{MimeType: part.InlineData.MimeType, Data: part.InlineData.Data}
	}
	return out
}
