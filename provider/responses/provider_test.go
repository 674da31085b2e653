package responses

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casualjim/loom/messages"
	"github.com/casualjim/loom/provider"
	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func setupTestServer(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(provider.Config{
		BaseURL: server.URL + "/v1",
		APIKey:  "sk-test",
		Model:   "gpt-4.1",
	}, HTTPClient(server.Client()))
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://api.openai.com/v1/responses", resolveURL("https://api.openai.com"))
	assert.Equal(t, "https://api.openai.com/v1/responses", resolveURL("https://api.openai.com/v1"))
	assert.Equal(t, "https://api.openai.com/v1/responses", resolveURL("https://api.openai.com/v1/responses"))
	assert.Equal(t, "https://proxy.internal/v2/responses", resolveURL("https://proxy.internal/v2/"))
}

func TestCallAPI_Buffered(t *testing.T) {
	var gotBody []byte
	p := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/responses", r.URL.Path)
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{
			"output":[{"type":"message","content":[{"type":"output_text","text":"Hello!"}]}],
			"status":"completed",
			"usage":{"input_tokens":7,"output_tokens":2,"total_tokens":9}
		}`))
	})

	thread := []messages.Message{
		messages.System("Be nice."),
		messages.User("hi"),
	}
	result, err := p.CallAPI(context.Background(), thread, &provider.CallParams{MaxTokens: swag.Int64(256)}, false)
	require.NoError(t, err)
	require.NotNil(t, result.Response)

	assert.Equal(t, "Hello!", result.Response.Content)
	assert.Equal(t, "completed", result.Response.FinishReason)
	assert.Equal(t, provider.Usage{PromptTokens: 7, CompletionTokens: 2, TotalTokens: 9}, result.Response.Usage)

	assert.Equal(t, "Be nice.", gjson.GetBytes(gotBody, "instructions").String())
	assert.EqualValues(t, 256, gjson.GetBytes(gotBody, "max_output_tokens").Int())
	require.EqualValues(t, 1, gjson.GetBytes(gotBody, "input.#").Int())
	assert.Equal(t, "user", gjson.GetBytes(gotBody, "input.0.role").String())
}

func TestCallAPI_NoCorrectionRetries(t *testing.T) {
	attempts := 0
	p := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Unsupported parameter: 'max_tokens'. Use 'max_completion_tokens' instead.","param":"max_tokens","code":"unsupported_parameter"}}`))
	})

	_, err := p.CallAPI(context.Background(), []messages.Message{messages.User("hi")}, nil, false)

	var ue *provider.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusBadRequest, ue.Status)
	assert.Equal(t, 1, attempts)
}

func TestCallAPI_EmptyResponse(t *testing.T) {
	p := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output":[],"status":"completed"}`))
	})

	_, err := p.CallAPI(context.Background(), []messages.Message{messages.User("hi")}, nil, false)

	var ee *provider.EmptyResponseError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "gpt-4.1", ee.Model)
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{
			name: "convenience field",
			body: `{"output_text":"hi"}`,
			want: "hi",
			ok:   true,
		},
		{
			name: "structured output",
			body: `{"output":[{"content":[{"type":"output_text","text":"a"},{"type":"text","text":"b"}]}]}`,
			want: "ab",
			ok:   true,
		},
		{
			name: "bare content",
			body: `{"content":"plain"}`,
			want: "plain",
			ok:   true,
		},
		{
			name: "bare text",
			body: `{"text":"plain"}`,
			want: "plain",
			ok:   true,
		},
		{
			name: "nothing",
			body: `{"output":[]}`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractText([]byte(tt.body))
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStreamChunk(t *testing.T) {
	p := &Provider{}

	tests := []struct {
		name  string
		frame string
		want  *provider.StreamChunk
	}{
		{
			name:  "delta",
			frame: `{"type":"response.output_text.delta","delta":"He"}`,
			want:  &provider.StreamChunk{Content: "He"},
		},
		{
			name:  "completed",
			frame: `{"type":"response.completed"}`,
			want:  &provider.StreamChunk{Done: true},
		},
		{
			name:  "segment done",
			frame: `{"type":"response.output_text.done","text":"He"}`,
			want:  &provider.StreamChunk{Done: true},
		},
		{
			name:  "sentinel",
			frame: "[DONE]",
			want:  &provider.StreamChunk{Done: true},
		},
		{
			name:  "lifecycle ignored",
			frame: `{"type":"response.in_progress"}`,
			want:  nil,
		},
		{
			name:  "comment ignored",
			frame: ": keepalive",
			want:  nil,
		},
		{
			name:  "malformed ignored",
			frame: `{"type":`,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ParseStreamChunk([]byte(tt.frame)))
		})
	}
}

func TestModel_Memoized(t *testing.T) {
	cfg := provider.Config{BaseURL: "https://resp-memo.test/v1", APIKey: "sk-test", Model: "gpt-4.1"}
	assert.Same(t, Model(cfg), Model(cfg))
	assert.Equal(t, "gpt-4.1-mini", Named(cfg, "gpt-4.1-mini").Name())
}
