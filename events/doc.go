// Package events defines the pub/sub event vocabulary a conversation emits
// while a model call runs, with sender tracking and a symmetric JSON codec so
// events survive a broker hop intact.
//
// Design decisions:
//   - Closed set: Event is a marker interface over a fixed set of concrete
//     types, so consumers can switch exhaustively
//   - Rich metadata: every event carries run/turn IDs, and most carry sender,
//     timestamp, and optional structured metadata
//   - Efficient JSON: custom marshaling over pre-allocated type markers, so
//     the type tag is never forgotten and never re-treed
//   - Error context: Error events preserve run/turn identity for debugging
//     and satisfy the error interface themselves
//
// Event hierarchy:
//   - Event: base interface for all pub/sub events
//     ├── Delim: stream boundary markers ("start", "end")
//     ├── Request: a committed user message opening a turn
//     ├── Chunk: incremental reply fragments while streaming
//     ├── Artifact: live artifact detection results mid-stream
//     ├── Response: the resolved reply closing a turn
//     └── Error: terminal failures with preserved context
//
// Example usage:
//
//	event := events.Request{
//	    RunID:   conversationID,
//	    TurnID:  turnID,
//	    Message: messages.User("Hello"),
//	    Sender:  "user",
//	}
//
//	data, _ := events.ToJSON(event)
//	back, _ := events.FromJSON(data)
//
//	switch e := back.(type) {
//	case events.Request:
//	    // a turn opened
//	case events.Chunk:
//	    // streamed fragment
//	case events.Error:
//	    // the turn failed
//	}
//
// Subscribers implement Hook; the broker decodes events and fans them out to
// the matching hook method.
package events
