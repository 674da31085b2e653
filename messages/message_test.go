package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Normalize(t *testing.T) {
	assert.Equal(t, RoleAssistant, RoleModel.Normalize())
	assert.Equal(t, RoleAssistant, RoleAssistant.Normalize())
	assert.Equal(t, RoleUser, RoleUser.Normalize())
	assert.Equal(t, RoleSystem, RoleSystem.Normalize())
}

func TestMessage_Sendable(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{
			name: "plain text",
			msg:  User("hello"),
			want: true,
		},
		{
			name: "whitespace only",
			msg:  User("   "),
			want: false,
		},
		{
			name: "empty",
			msg:  Message{Role: RoleUser},
			want: false,
		},
		{
			name: "parts only",
			msg:  UserParts(Text("hi")),
			want: true,
		},
		{
			name: "attachments only",
			msg: Message{Role: RoleUser}.WithAttachments(
				Attachment{MimeType: "image/png", Data: "AAA="},
			),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.msg.Sendable())
		})
	}
}

func TestMessage_Text(t *testing.T) {
	assert.Equal(t, "hello", User("hello").Text())

	msg := UserParts(
		Text("one "),
		ImageURL("https://example.com/cat.png"),
		Text("two"),
	)
	assert.Equal(t, "one two", msg.Text())
}

func TestMessage_Constructors(t *testing.T) {
	u := User("hi")
	require.NotEqual(t, [16]byte{}, [16]byte(u.ID))
	assert.Equal(t, RoleUser, u.Role)
	assert.False(t, u.Timestamp.IsZero())

	s := System("instructions")
	assert.Equal(t, RoleSystem, s.Role)
	assert.Equal(t, "instructions", s.Content.Content)

	a := Assistant("answer")
	assert.Equal(t, RoleAssistant, a.Role)
}

func TestAttachment_Part(t *testing.T) {
	t.Run("url wins over inline data", func(t *testing.T) {
		att := Attachment{
			MimeType: "image/png",
			Data:     "AAA=",
			URL:      "https://example.com/cat.png",
		}
		part, ok := att.Part().(ImageURLPart)
		require.True(t, ok)
		assert.Equal(t, "https://example.com/cat.png", part.URL)
	})

	t.Run("inline data", func(t *testing.T) {
		att := Attachment{MimeType: "image/png", Data: "AAA="}
		part, ok := att.Part().(InlineImagePart)
		require.True(t, ok)
		assert.Equal(t, "image/png", part.MimeType)
		assert.Equal(t, "AAA=", part.Data)
	})
}
