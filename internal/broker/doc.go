// Package broker implements topic-based pub/sub distribution of conversation
// events, with an in-process implementation and a NATS-backed one behind the
// same interfaces.
//
// Design decisions:
//   - Context-first: all operations accept context.Context for cancellation
//   - Topic-based: one topic per conversation keeps streams isolated
//   - Hook integration: subscribers implement events.Hook; the broker owns
//     decoding and dispatch
//   - Subscription management: explicit lifecycle with unique IDs and cleanup
//   - Slow subscribers: a subscriber that cannot keep up is dropped rather
//     than allowed to stall the publisher
//
// Interface hierarchy:
//   - Broker: top-level interface for accessing topics
//     └── Topic: publishing/subscribing to one event stream
//     └── Subscription: managing one subscriber's attachment
//
// Example usage:
//
//	broker := broker.Local()
//	topic := broker.Topic(ctx, conversationID.String())
//
//	sub, err := topic.Subscribe(ctx, hook)
//	if err != nil {
//	    return err
//	}
//	defer sub.Unsubscribe()
//
//	if err := topic.Publish(ctx, events.Chunk{...}); err != nil {
//	    return err
//	}
//
// The package is internal; the conversation API wraps it and re-exports only
// what callers need.
package broker
