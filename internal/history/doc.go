// Package history provides the insertion-ordered message store backing a
// conversation. It keeps every exchanged message addressable by id so the
// edit, resend, and regenerate operations can splice the timeline without
// rebuilding it.
//
// Design decisions:
//   - Ordered map storage: messages stay in insertion order and remain
//     addressable by id in O(1)
//   - Snapshot reads: Messages and Before return copies, so callers can
//     build wire threads while the stream commits new entries
//   - In-place edits: ReplaceContent swaps a message's content without
//     disturbing its position in the timeline
//   - Thread safety: a single lock guards the store; the streaming pump
//     commits from its own goroutine while consumers read
//
// Timeline operations:
//   - Add: append a message (or update it, keeping its slot)
//   - TruncateAfter: drop everything after a message, for resend
//   - Before: every message strictly before one, for regenerate
//   - ReplaceContent: swap one message's content, for edit/regenerate
//
// Example usage:
//
//	mem := history.New()
//	mem.Add(messages.System("be brief"))
//	prompt := messages.User("hello")
//	mem.Add(prompt)
//
//	// resend: discard everything after the prompt, then re-issue
//	mem.TruncateAfter(prompt.ID)
//	thread := mem.Messages()
//
// The package is internal; the conversation API owns all mutation.
package history
