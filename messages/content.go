package messages

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var jsonNull = []byte(`null`)

// ContentOrParts represents either a simple string content or an ordered
// collection of content parts. It serializes to a JSON string when Content
// is set, otherwise to an array of typed parts.
type ContentOrParts struct {
	Content string        // plain string content, used when the message is just text
	Parts   []ContentPart // ordered parts (text, inline image, image URL)
	_       struct{}      // require keyed usage
}

// MarshalJSON returns Content as a JSON string when non-empty, otherwise the
// Parts array, otherwise null.
func (c ContentOrParts) MarshalJSON() ([]byte, error) {
	if strings.TrimSpace(c.Content) != "" {
		return json.Marshal(c.Content)
	}
	if c.Parts == nil {
		return jsonNull, nil
	}
	return json.Marshal(c.Parts)
}

// UnmarshalJSON handles both string content and arrays of typed parts.
func (c *ContentOrParts) UnmarshalJSON(input []byte) error {
	if !gjson.ValidBytes(input) {
		return fmt.Errorf("invalid json: %s", input)
	}
	jv := gjson.ParseBytes(input)
	if jv.IsArray() {
		aj := jv.Array()
		parts := make([]ContentPart, len(aj))
		for idx, ajv := range aj {
			tpe := ajv.Get("type").String()
			switch tpe {
			case "text":
				var part TextPart
				if err := part.UnmarshalJSON([]byte(ajv.Raw)); err != nil {
					return fmt.Errorf("invalid text part at %d: %w", idx, err)
				}
				parts[idx] = part
			case "inline_image":
				var part InlineImagePart
				if err := part.UnmarshalJSON([]byte(ajv.Raw)); err != nil {
					return fmt.Errorf("invalid inline image part at %d: %w", idx, err)
				}
				parts[idx] = part
			case "image_url":
				var part ImageURLPart
				if err := part.UnmarshalJSON([]byte(ajv.Raw)); err != nil {
					return fmt.Errorf("invalid image url part at %d: %w", idx, err)
				}
				parts[idx] = part
			default:
				return fmt.Errorf("content part at %d has an unknown type %q", idx, tpe)
			}
		}
		c.Parts = parts
		return nil
	}
	c.Content = jv.String()
	return nil
}

// ContentPart is an interface that marks structs as valid content parts.
// Implementations are TextPart, InlineImagePart and ImageURLPart. Order
// within a message is significant: text and images may interleave.
type ContentPart interface {
	contentPart()
}

// Text creates a new TextPart with the given text.
func Text(text string) TextPart {
	return TextPart{Text: text}
}

// TextPart is a text-only content part.
type TextPart struct {
	Text string   `json:"text"`
	_    struct{} // require keyed usage
}

func (TextPart) contentPart() {}

var tpJSON = []byte(`{"type":"text"}`)

// MarshalJSON serializes the text content with a "type":"text" tag.
func (t TextPart) MarshalJSON() ([]byte, error) {
	return sjson.SetBytes(tpJSON, "text", t.Text)
}

// UnmarshalJSON extracts the required 'text' field.
func (t *TextPart) UnmarshalJSON(input []byte) error {
	text := gjson.GetBytes(input, "text")
	if !text.Exists() {
		return errors.New("missing required field 'text'")
	}
	t.Text = text.String()
	return nil
}

// InlineImage creates a new InlineImagePart carrying base64 image data.
func InlineImage(mimeType, data string) InlineImagePart {
	return InlineImagePart{MimeType: mimeType, Data: data}
}

// InlineImagePart is an image carried inline as base64 data with its mime
// type.
type InlineImagePart struct {
	MimeType string   `json:"mime_type"`
	Data     string   `json:"data"` // base64 payload
	_        struct{} // require keyed usage
}

func (InlineImagePart) contentPart() {}

// DataURL renders the part as a data URL, the form OpenAI-style bodies
// expect for inline images.
func (i InlineImagePart) DataURL() string {
	return "data:" + i.MimeType + ";base64," + i.Data
}

var iipJSON = []byte(`{"type":"inline_image"}`)

// MarshalJSON serializes mime type and data with a "type":"inline_image" tag.
func (i InlineImagePart) MarshalJSON() ([]byte, error) {
	result, err := sjson.SetBytes(iipJSON, "mime_type", i.MimeType)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(result, "data", i.Data)
}

// UnmarshalJSON extracts the required 'mime_type' and 'data' fields.
func (i *InlineImagePart) UnmarshalJSON(input []byte) error {
	mimeType := gjson.GetBytes(input, "mime_type")
	data := gjson.GetBytes(input, "data")
	if !mimeType.Exists() || !data.Exists() {
		return errors.New("inline_image requires both 'mime_type' and 'data' fields")
	}
	i.MimeType = mimeType.String()
	i.Data = data.String()
	return nil
}

// ImageURL creates a new ImageURLPart with the given URL.
func ImageURL(url string) ImageURLPart {
	return ImageURLPart{URL: url}
}

// ImageURLPart is an image referenced by URL.
type ImageURLPart struct {
	URL string   `json:"url"`
	_   struct{} // require keyed usage
}

func (ImageURLPart) contentPart() {}

var iupJSON = []byte(`{"type":"image_url"}`)

// MarshalJSON serializes the URL with a "type":"image_url" tag.
func (i ImageURLPart) MarshalJSON() ([]byte, error) {
	return sjson.SetBytes(iupJSON, "url", i.URL)
}

// UnmarshalJSON extracts the required 'url' field.
func (i *ImageURLPart) UnmarshalJSON(input []byte) error {
	uri := gjson.GetBytes(input, "url")
	if !uri.Exists() {
		return errors.New("missing required field 'url'")
	}
	i.URL = uri.String()
	return nil
}
