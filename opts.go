package loom

import (
	"github.com/casualjim/loom/internal/broker"
	"github.com/casualjim/loom/provider"
	"github.com/fogfish/opts"
	"github.com/nats-io/nats.go"
)

var (
	// SystemPrompt seeds the conversation with a system-role message. It is
	// committed to the timeline before anything else, so resend and regenerate
	// always keep it.
	SystemPrompt = opts.ForName[Conversation, string]("systemPrompt")

	// Sender names the user-side author on published request events.
	// It defaults to "User".
	Sender = opts.ForName[Conversation, string]("sender")

	// Params sets the generation controls passed to the provider on every
	// exchange. Nil fields are omitted from wire bodies.
	Params = opts.ForName[Conversation, *provider.CallParams]("params")

	// Streaming switches exchanges to streamed delivery: subscribers receive
	// chunk and artifact events while the reply arrives.
	Streaming = opts.ForName[Conversation, bool]("stream")
)

// WithNATS distributes the conversation's events over the given NATS
// connection instead of the in-process broker, so subscribers in other
// processes can follow along.
func WithNATS(nc *nats.Conn) opts.Option[Conversation] {
	return opts.Type[Conversation](func(c *Conversation) error {
		c.broker = broker.NATS(nc)
		return nil
	})
}
