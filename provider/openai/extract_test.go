package openai

import (
	"testing"

	"github.com/casualjim/loom/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{
			name: "completions message",
			body: `{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`,
			want: "hello",
			ok:   true,
		},
		{
			name: "responses convenience field",
			body: `{"output_text":"hello"}`,
			want: "hello",
			ok:   true,
		},
		{
			name: "responses structured output",
			body: `{"output":[{"type":"message","content":[{"type":"output_text","text":"hel"},{"type":"output_text","text":"lo"}]}]}`,
			want: "hello",
			ok:   true,
		},
		{
			name: "responses structured output with plain text parts",
			body: `{"output":[{"content":[{"type":"text","text":"hi"}]}]}`,
			want: "hi",
			ok:   true,
		},
		{
			name: "responses reasoning items skipped",
			body: `{"output":[{"type":"reasoning","summary":[]},{"type":"message","content":[{"type":"output_text","text":"answer"}]}]}`,
			want: "answer",
			ok:   true,
		},
		{
			name: "gemini candidates",
			body: `{"candidates":[{"content":{"parts":[{"text":"hel"},{"text":"lo"}]}}]}`,
			want: "hello",
			ok:   true,
		},
		{
			name: "gemini thought parts skipped",
			body: `{"candidates":[{"content":{"parts":[{"thought":true,"text":"reasoning"},{"text":"visible"}]}}]}`,
			want: "visible",
			ok:   true,
		},
		{
			name: "bare content field",
			body: `{"content":"hello"}`,
			want: "hello",
			ok:   true,
		},
		{
			name: "bare text field",
			body: `{"text":"hello"}`,
			want: "hello",
			ok:   true,
		},
		{
			name: "completions shape wins over bare text",
			body: `{"choices":[{"message":{"content":"from choices"}}],"text":"from text"}`,
			want: "from choices",
			ok:   true,
		},
		{
			name: "output_text wins over candidates",
			body: `{"output_text":"from responses","candidates":[{"content":{"parts":[{"text":"from gemini"}]}}]}`,
			want: "from responses",
			ok:   true,
		},
		{
			name: "empty completions content falls through to bare text",
			body: `{"choices":[{"message":{"content":""}}],"text":"fallback"}`,
			want: "fallback",
			ok:   true,
		},
		{
			name: "nothing extractable",
			body: `{"choices":[{"message":{"content":""}}]}`,
			ok:   false,
		},
		{
			name: "content is an object not a string",
			body: `{"content":{"parts":[]}}`,
			ok:   false,
		},
		{
			name: "empty body",
			body: `{}`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractText([]byte(tt.body))
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseResponse_Normalizes(t *testing.T) {
	p := New(provider.Config{BaseURL: "https://api.openai.com/v1", APIKey: "sk-test", Model: "gpt-4o-mini"})

	resp, err := p.parseResponse([]byte(`{
		"choices":[{"message":{"content":"  <think>let me see</think>Paris  "},"finish_reason":"stop"}],
		"usage":{"prompt_tokens":4,"completion_tokens":2,"total_tokens":6}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Paris", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.EqualValues(t, 6, resp.Usage.TotalTokens)
}
