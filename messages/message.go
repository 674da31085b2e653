package messages

import (
	"strings"
	"time"

	"github.com/casualjim/loom/pkg/uuidx"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleModel is a presentation-layer synonym for RoleAssistant used by
	// Gemini-style conversations. Adapters normalize it before encoding.
	RoleModel Role = "model"
)

// Normalize maps presentation-layer roles onto the roles vendors accept on
// the wire. Today that only folds RoleModel into RoleAssistant.
func (r Role) Normalize() Role {
	if r == RoleModel {
		return RoleAssistant
	}
	return r
}

func (r Role) String() string { return string(r) }

// Message is the vendor-neutral chat message. Content holds either a plain
// string or an ordered list of typed parts; Attachments carry files the user
// added, which adapters expand into image parts when encoding.
type Message struct {
	ID          uuid.UUID       `json:"id"`
	Role        Role            `json:"role"`
	Content     ContentOrParts  `json:"content"`
	Attachments []Attachment    `json:"attachments,omitempty"`
	Timestamp   strfmt.DateTime `json:"timestamp,omitempty"`
	_           struct{}        // require keyed usage
}

// Sendable reports whether the message carries anything an adapter can
// encode. A message destined for the wire must never have empty text and
// empty attachments at the same time.
func (m Message) Sendable() bool {
	if strings.TrimSpace(m.Content.Content) != "" {
		return true
	}
	if len(m.Content.Parts) > 0 {
		return true
	}
	return len(m.Attachments) > 0
}

// Text returns the textual content of the message: the plain string when
// set, otherwise the concatenation of its text parts.
func (m Message) Text() string {
	if m.Content.Content != "" {
		return m.Content.Content
	}
	var sb strings.Builder
	for _, part := range m.Content.Parts {
		if tp, ok := part.(TextPart); ok {
			sb.WriteString(tp.Text)
		}
	}
	return sb.String()
}

// WithAttachments returns a copy of the message with the attachments set.
func (m Message) WithAttachments(attachments ...Attachment) Message {
	m.Attachments = attachments
	return m
}

// Attachment is a file carried alongside a message. Either URL or the
// inline MimeType/Data pair is set; URL wins when both are present.
type Attachment struct {
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Data     string `json:"data,omitempty"` // base64 payload
	URL      string `json:"url,omitempty"`
	_        struct{}
}

// Part expands the attachment into the content part it encodes as.
func (a Attachment) Part() ContentPart {
	if a.URL != "" {
		return ImageURLPart{URL: a.URL}
	}
	return InlineImagePart{MimeType: a.MimeType, Data: a.Data}
}

// User creates a user message with plain text content.
func User(text string) Message {
	return newMessage(RoleUser, ContentOrParts{Content: text})
}

// UserParts creates a user message from ordered content parts.
func UserParts(parts ...ContentPart) Message {
	return newMessage(RoleUser, ContentOrParts{Parts: parts})
}

// System creates a system message with plain text content.
func System(text string) Message {
	return newMessage(RoleSystem, ContentOrParts{Content: text})
}

// Assistant creates an assistant message with plain text content.
func Assistant(text string) Message {
	return newMessage(RoleAssistant, ContentOrParts{Content: text})
}

func newMessage(role Role, content ContentOrParts) Message {
	return Message{
		ID:        uuidx.New(),
		Role:      role,
		Content:   content,
		Timestamp: strfmt.DateTime(time.Now()),
	}
}
