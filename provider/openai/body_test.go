package openai

import (
	"testing"

	"github.com/casualjim/loom/messages"
	"github.com/casualjim/loom/provider"
	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func testProvider(t *testing.T, dialect Dialect) *Provider {
	t.Helper()
	return New(provider.Config{
		BaseURL: "https://api.openai.com/v1",
		APIKey:  "sk-test",
		Model:   "gpt-4o-mini",
	}, WithDialect(dialect))
}

func TestBuildBody_PlainText(t *testing.T) {
	p := testProvider(t, DialectCompletions)

	body, err := p.buildBody([]messages.Message{messages.User("hello")}, nil, false)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", gjson.GetBytes(body, "model").String())
	assert.Equal(t, "user", gjson.GetBytes(body, "messages.0.role").String())
	assert.Equal(t, "hello", gjson.GetBytes(body, "messages.0.content").String())
	assert.Equal(t, gjson.String, gjson.GetBytes(body, "messages.0.content").Type)
	// No generation controls were given, so none are on the wire.
	for _, key := range []string{"temperature", "top_p", "max_tokens", "max_completion_tokens", "frequency_penalty", "presence_penalty", "reasoning_effort", "stream"} {
		assert.False(t, gjson.GetBytes(body, key).Exists(), key)
	}
}

func TestBuildBody_ModelRoleNormalized(t *testing.T) {
	p := testProvider(t, DialectCompletions)

	msg := messages.Assistant("previous reply")
	msg.Role = messages.RoleModel
	body, err := p.buildBody([]messages.Message{msg}, nil, false)
	require.NoError(t, err)

	assert.Equal(t, "assistant", gjson.GetBytes(body, "messages.0.role").String())
}

func TestBuildBody_AttachmentOnlyMessage(t *testing.T) {
	p := testProvider(t, DialectCompletions)

	msg := messages.User("").WithAttachments(messages.Attachment{
		Name:     "cat.png",
		MimeType: "image/png",
		Data:     "Y2F0cGl4ZWxz",
	})
	body, err := p.buildBody([]messages.Message{msg}, nil, false)
	require.NoError(t, err)

	parts := gjson.GetBytes(body, "messages.0.content")
	require.True(t, parts.IsArray())
	require.NotZero(t, len(parts.Array()))
	assert.Equal(t, "image_url", parts.Get("0.type").String())
	assert.Equal(t, "data:image/png;base64,Y2F0cGl4ZWxz", parts.Get("0.image_url.url").String())
}

func TestBuildBody_TextWithAttachments(t *testing.T) {
	p := testProvider(t, DialectCompletions)

	msg := messages.User("what is in this picture?").WithAttachments(
		messages.Attachment{Name: "a.png", MimeType: "image/png", Data: "YQ=="},
		messages.Attachment{URL: "https://example.com/b.jpg"},
	)
	body, err := p.buildBody([]messages.Message{msg}, nil, false)
	require.NoError(t, err)

	parts := gjson.GetBytes(body, "messages.0.content").Array()
	require.Len(t, parts, 3)
	assert.Equal(t, "text", parts[0].Get("type").String())
	assert.Equal(t, "what is in this picture?", parts[0].Get("text").String())
	assert.Equal(t, "data:image/png;base64,YQ==", parts[1].Get("image_url.url").String())
	assert.Equal(t, "https://example.com/b.jpg", parts[2].Get("image_url.url").String())
}

func TestBuildBody_PartsKeepOrder(t *testing.T) {
	p := testProvider(t, DialectCompletions)

	msg := messages.UserParts(
		messages.Text("before"),
		messages.ImageURL("https://example.com/x.png"),
		messages.Text("after"),
	)
	body, err := p.buildBody([]messages.Message{msg}, nil, false)
	require.NoError(t, err)

	parts := gjson.GetBytes(body, "messages.0.content").Array()
	require.Len(t, parts, 3)
	assert.Equal(t, "before", parts[0].Get("text").String())
	assert.Equal(t, "image_url", parts[1].Get("type").String())
	assert.Equal(t, "after", parts[2].Get("text").String())
}

func TestBuildBody_TokenFieldSelection(t *testing.T) {
	p := testProvider(t, DialectCompletions)
	params := &provider.CallParams{MaxTokens: swag.Int64(512)}

	body, err := p.buildBody([]messages.Message{messages.User("hi")}, params, false)
	require.NoError(t, err)
	assert.EqualValues(t, 512, gjson.GetBytes(body, "max_tokens").Int())
	assert.False(t, gjson.GetBytes(body, "max_completion_tokens").Exists())

	p.useMaxCompletionTokens.Store(true)
	body, err = p.buildBody([]messages.Message{messages.User("hi")}, params, false)
	require.NoError(t, err)
	assert.EqualValues(t, 512, gjson.GetBytes(body, "max_completion_tokens").Int())
	assert.False(t, gjson.GetBytes(body, "max_tokens").Exists())
}

func TestBuildBody_AllParams(t *testing.T) {
	p := testProvider(t, DialectCompletions)
	params := &provider.CallParams{
		Temperature:      swag.Float64(0.7),
		TopP:             swag.Float64(0.9),
		MaxTokens:        swag.Int64(100),
		FrequencyPenalty: swag.Float64(0.5),
		PresencePenalty:  swag.Float64(-0.5),
		ReasoningEffort:  swag.String("high"),
	}

	body, err := p.buildBody([]messages.Message{messages.User("hi")}, params, true)
	require.NoError(t, err)

	assert.Equal(t, 0.7, gjson.GetBytes(body, "temperature").Float())
	assert.Equal(t, 0.9, gjson.GetBytes(body, "top_p").Float())
	assert.EqualValues(t, 100, gjson.GetBytes(body, "max_tokens").Int())
	assert.Equal(t, 0.5, gjson.GetBytes(body, "frequency_penalty").Float())
	assert.Equal(t, -0.5, gjson.GetBytes(body, "presence_penalty").Float())
	assert.Equal(t, "high", gjson.GetBytes(body, "reasoning_effort").String())
	assert.True(t, gjson.GetBytes(body, "stream").Bool())
}

func TestBuildBody_ResponsesInstructions(t *testing.T) {
	p := testProvider(t, DialectResponses)

	thread := []messages.Message{
		messages.System("Be brief."),
		messages.User("hi"),
		messages.Assistant("hello"),
		messages.System("Answer in French."),
		messages.User("encore"),
	}
	body, err := p.buildBody(thread, nil, false)
	require.NoError(t, err)

	assert.Equal(t, "Be brief.\nAnswer in French.", gjson.GetBytes(body, "instructions").String())
	input := gjson.GetBytes(body, "input").Array()
	require.Len(t, input, 3)
	assert.Equal(t, "user", input[0].Get("role").String())
	assert.Equal(t, "assistant", input[1].Get("role").String())
	for _, item := range input {
		assert.NotEqual(t, "system", item.Get("role").String())
	}
}

func TestBuildBody_ResponsesImageParts(t *testing.T) {
	p := testProvider(t, DialectResponses)

	msg := messages.User("describe").WithAttachments(messages.Attachment{URL: "https://example.com/x.png"})
	body, err := p.buildBody([]messages.Message{msg}, &provider.CallParams{ReasoningEffort: swag.String("low")}, false)
	require.NoError(t, err)

	parts := gjson.GetBytes(body, "input.0.content").Array()
	require.Len(t, parts, 2)
	assert.Equal(t, "input_text", parts[0].Get("type").String())
	assert.Equal(t, "input_image", parts[1].Get("type").String())
	assert.Equal(t, "https://example.com/x.png", parts[1].Get("image_url").String())
	assert.Equal(t, "low", gjson.GetBytes(body, "reasoning.effort").String())
}
