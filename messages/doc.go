// Package messages provides the vendor-neutral message model shared by every
// provider adapter: a chat message with a role, flexible content, and
// optional attachments.
//
// Design decisions:
//   - Flexible content: a message holds either a plain string or an ordered
//     list of typed parts (text, inline base64 image, image URL), so text and
//     images can interleave the way multimodal bodies require
//   - Closed part set: content parts are a marker-interface variant set;
//     adapters switch over the concrete types when encoding wire bodies
//   - Presentation roles: RoleModel exists for Gemini-style conversations and
//     normalizes to RoleAssistant before anything reaches the wire
//   - JSON interop: custom gjson/sjson codecs tag every part with a "type"
//     discriminator so events survive a round trip through a broker
//   - Keyed initialization: struct{} padding fields force keyed literals
//
// Example usage:
//
//	// Simple text message
//	msg := messages.User("Hello, world!")
//
//	// Interleaved text and image parts
//	msg := messages.UserParts(
//	    messages.Text("What is in this picture?"),
//	    messages.InlineImage("image/png", base64Data),
//	)
//
//	// Attachments expand into image parts at encode time
//	msg := messages.User("Describe these").WithAttachments(
//	    messages.Attachment{MimeType: "image/jpeg", Data: base64Data},
//	)
//
// A message that will be sent must satisfy Sendable: it never has empty text
// and empty attachments at the same time.
package messages
