package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceFences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "no fences",
			text: "plain text",
			want: "plain text",
		},
		{
			name: "balanced",
			text: "before ```go\ncode\n``` after",
			want: "before ```go\ncode\n``` after",
		},
		{
			name: "dangling open fence",
			text: "```go\nfunc main() {",
			want: "```go\nfunc main() {\n```",
		},
		{
			name: "three fences",
			text: "```go\na\n```\ntext\n```python\nb",
			want: "```go\na\n```\ntext\n```python\nb\n```",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BalanceFences(tt.text)
			assert.Equal(t, tt.want, got)
			assert.Zero(t, strings.Count(got, "```")%2, "result must have balanced fences")
		})
	}
}

func TestExtractArtifact(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *Artifact
	}{
		{
			name: "no block",
			text: "just prose",
			want: nil,
		},
		{
			name: "opener without newline yet",
			text: "here: ```go",
			want: nil,
		},
		{
			name: "unterminated block",
			text: "```go\nfunc main() {",
			want: nil,
		},
		{
			name: "complete block",
			text: "intro\n```go\nfunc main() {}\n```\noutro",
			want: &Artifact{Language: "go", Content: "func main() {}"},
		},
		{
			name: "no language",
			text: "```\nplain\n```",
			want: &Artifact{Content: "plain"},
		},
		{
			name: "first block wins",
			text: "```python\nfirst\n```\n```go\nsecond\n```",
			want: &Artifact{Language: "python", Content: "first"},
		},
		{
			name: "empty body",
			text: "```sh\n```",
			want: &Artifact{Language: "sh"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractArtifact(tt.text))
		})
	}
}

func TestAccumulator_StreamingDetection(t *testing.T) {
	acc := New()

	// Fence arrives split across chunks; nothing well formed yet.
	acc.Append("Here you go:\n``")
	acc.Append("`go\nfunc main() {")
	assert.Nil(t, acc.Artifact())

	// Display view patches the dangling fence without touching raw text.
	assert.Equal(t, "Here you go:\n```go\nfunc main() {", acc.Text())
	assert.Equal(t, "Here you go:\n```go\nfunc main() {\n```", acc.DisplayText())

	// Closing fence lands: artifact appears and the display patch is gone.
	acc.Append("}\n```\ndone")
	art := acc.Artifact()
	require.NotNil(t, art)
	assert.Equal(t, "go", art.Language)
	assert.Equal(t, "func main() {}", art.Content)
	assert.Equal(t, acc.Text(), acc.DisplayText())
}

func TestAccumulator_ArtifactSurvivesLaterText(t *testing.T) {
	acc := New()
	acc.Append("```sql\nselect 1;\n```")
	require.NotNil(t, acc.Artifact())

	acc.Append("\nand some trailing prose")
	art := acc.Artifact()
	require.NotNil(t, art)
	assert.Equal(t, "sql", art.Language)
	assert.Equal(t, "select 1;", art.Content)
}

func TestAccumulator_Reset(t *testing.T) {
	acc := New()
	acc.Append("```go\nx\n```")
	require.NotNil(t, acc.Artifact())

	acc.Reset()
	assert.Empty(t, acc.Text())
	assert.Zero(t, acc.Len())
	assert.Nil(t, acc.Artifact())
}

func TestAccumulator_EmptyChunkIsNoop(t *testing.T) {
	acc := New()
	acc.Append("")
	assert.Empty(t, acc.Text())
	assert.Nil(t, acc.Artifact())
}
