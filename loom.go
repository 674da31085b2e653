package loom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/casualjim/loom/api"
	"github.com/casualjim/loom/events"
	"github.com/casualjim/loom/internal/broker"
	"github.com/casualjim/loom/internal/history"
	"github.com/casualjim/loom/messages"
	"github.com/casualjim/loom/pkg/slogx"
	"github.com/casualjim/loom/pkg/ssex"
	"github.com/casualjim/loom/pkg/uuidx"
	"github.com/casualjim/loom/provider"
	"github.com/casualjim/loom/transcript"
	"github.com/fogfish/opts"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// ErrBusy is returned when a call is refused because a previous call for the
// same conversation is still in flight. Serialization happens here, not in
// the adapters: one conversation runs one exchange at a time.
var ErrBusy = errors.New("conversation has a call in flight")

// Conversation orchestrates exchanges with one model: it keeps the message
// timeline, serializes calls, runs the streaming pump, and fans events out to
// subscribers. All methods are safe for concurrent use; concurrent sends
// lose with ErrBusy rather than queue.
type Conversation struct {
	id           uuid.UUID
	model        api.Model
	systemPrompt string
	sender       string
	params       *provider.CallParams
	stream       bool
	memory       *history.Memory
	broker       broker.Broker
	topic        broker.Topic
	inFlight     atomic.Bool
	log          *slog.Logger
}

// New creates a conversation against the given model handle. The conversation
// id also names its event topic. When a system prompt is configured it is
// committed as the first timeline message.
func New(model api.Model, options ...opts.Option[Conversation]) *Conversation {
	c := &Conversation{
		id:     uuidx.New(),
		model:  model,
		sender: "User",
		memory: history.New(),
	}
	if err := opts.Apply(c, options); err != nil {
		panic(err)
	}
	c.log = slog.Default().With(
		slogx.LoggerName("loom"),
		slogx.Stringer("conversation", c.id),
		slog.String("model", model.Name()),
	)
	if c.broker == nil {
		c.broker = broker.Local()
	}
	c.topic = c.broker.Topic(context.Background(), c.id.String())
	if c.systemPrompt != "" {
		c.memory.Add(messages.System(c.systemPrompt))
	}
	return c
}

// ID returns the conversation identifier.
func (c *Conversation) ID() uuid.UUID {
	return c.id
}

// Model returns the model handle this conversation talks to.
func (c *Conversation) Model() api.Model {
	return c.model
}

// Messages returns a snapshot of the timeline, oldest first.
func (c *Conversation) Messages() []messages.Message {
	return c.memory.Messages()
}

// Subscribe attaches a hook to this conversation's event stream. The caller
// owns the subscription and must Unsubscribe when done.
func (c *Conversation) Subscribe(ctx context.Context, hook Hook) (Subscription, error) {
	return c.topic.Subscribe(ctx, hook)
}

// SendText commits text as a user message and runs one exchange.
func (c *Conversation) SendText(ctx context.Context, text string) (*provider.AIResponse, error) {
	return c.Send(ctx, messages.User(text))
}

// Send commits msg to the timeline and runs one exchange against the model,
// blocking until the reply resolves. In buffered mode the normalized response
// comes straight back; in streaming mode chunk and artifact events are
// published to subscribers while frames arrive, and the accumulated response
// is returned once the stream ends. Either way the reply is committed as an
// assistant message and a response event is published.
func (c *Conversation) Send(ctx context.Context, msg messages.Message) (*provider.AIResponse, error) {
	if msg.Role == "" {
		msg.Role = messages.RoleUser
	}
	if !msg.Sendable() {
		return nil, fmt.Errorf("message %s has no content and no attachments", msg.ID)
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.inFlight.Store(false)

	turnID := uuidx.New()
	c.memory.Add(msg)
	c.publish(ctx, events.Request{
		RunID:     c.id,
		TurnID:    turnID,
		Message:   msg,
		Sender:    c.sender,
		Timestamp: now(),
	})

	resp, err := c.turn(ctx, turnID, c.memory.Messages())
	if err != nil {
		return nil, err
	}
	c.commitReply(ctx, turnID, resp)
	return resp, nil
}

// Resend re-issues a user message: every later message in the timeline is
// discarded, then the exchange runs again with the shortened thread. Combine
// with Edit to change the prompt first.
func (c *Conversation) Resend(ctx context.Context, id uuid.UUID) (*provider.AIResponse, error) {
	msg, ok := c.memory.Get(id)
	if !ok {
		return nil, fmt.Errorf("message %s not found", id)
	}
	if msg.Role.Normalize() != messages.RoleUser {
		return nil, fmt.Errorf("resend needs a user message, %s has role %s", id, msg.Role)
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.inFlight.Store(false)

	if !c.memory.TruncateAfter(id) {
		return nil, fmt.Errorf("message %s not found", id)
	}
	turnID := uuidx.New()
	c.publish(ctx, events.Request{
		RunID:     c.id,
		TurnID:    turnID,
		Message:   msg,
		Sender:    c.sender,
		Timestamp: now(),
	})

	resp, err := c.turn(ctx, turnID, c.memory.Messages())
	if err != nil {
		return nil, err
	}
	c.commitReply(ctx, turnID, resp)
	return resp, nil
}

// Edit replaces the text of a message in place. Editing discards nothing on
// its own; pair it with Resend to re-issue the shortened thread.
func (c *Conversation) Edit(id uuid.UUID, text string) error {
	if !c.memory.ReplaceContent(id, messages.ContentOrParts{Content: text}) {
		return fmt.Errorf("message %s not found", id)
	}
	return nil
}

// Regenerate re-runs the exchange that produced an assistant message, using
// every message strictly before it, and swaps that message's text for the new
// reply. Messages after it stay where they are.
func (c *Conversation) Regenerate(ctx context.Context, id uuid.UUID) (*provider.AIResponse, error) {
	msg, ok := c.memory.Get(id)
	if !ok {
		return nil, fmt.Errorf("message %s not found", id)
	}
	if msg.Role.Normalize() != messages.RoleAssistant {
		return nil, fmt.Errorf("regenerate needs an assistant message, %s has role %s", id, msg.Role)
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.inFlight.Store(false)

	thread, ok := c.memory.Before(id)
	if !ok {
		return nil, fmt.Errorf("message %s not found", id)
	}
	turnID := uuidx.New()
	resp, err := c.turn(ctx, turnID, thread)
	if err != nil {
		return nil, err
	}
	c.memory.ReplaceContent(id, messages.ContentOrParts{Content: resp.Content})
	c.publish(ctx, events.Response{
		RunID:     c.id,
		TurnID:    turnID,
		Response:  *resp,
		Sender:    c.model.Name(),
		Timestamp: now(),
	})
	return resp, nil
}

// turn runs one exchange and publishes an error event when it fails, so
// subscribers can tell "model finished" from "call broke" without watching
// the method's return value.
func (c *Conversation) turn(ctx context.Context, turnID uuid.UUID, thread []messages.Message) (*provider.AIResponse, error) {
	resp, err := c.execute(ctx, turnID, thread)
	if err != nil {
		// Published without the turn's cancellation: a cancelled turn still
		// owes its subscribers the error event.
		c.publish(context.WithoutCancel(ctx), events.Error{
			RunID:     c.id,
			TurnID:    turnID,
			Err:       err,
			Sender:    c.model.Name(),
			Timestamp: now(),
		})
		return nil, err
	}
	return resp, nil
}

func (c *Conversation) execute(ctx context.Context, turnID uuid.UUID, thread []messages.Message) (*provider.AIResponse, error) {
	prov := c.model.Provider()
	result, err := prov.CallAPI(ctx, thread, c.params, c.stream)
	if err != nil {
		return nil, err
	}
	if result.Response != nil {
		return result.Response, nil
	}
	return c.pump(ctx, turnID, prov, result.Stream)
}

// pump drains one SSE stream: frames are decoded by the adapter, appended to
// the transcript, and published as chunk events. Artifact detection runs on
// every append and publishes whenever the detected block changes, so
// subscribers can render a live preview mid-stream. Reading stops at the
// first done chunk; trailing frames are the vendor's business.
func (c *Conversation) pump(ctx context.Context, turnID uuid.UUID, prov provider.Provider, stream io.ReadCloser) (*provider.AIResponse, error) {
	defer stream.Close()

	c.publish(ctx, events.Delim{RunID: c.id, TurnID: turnID, Delim: "start"})
	defer c.publish(context.WithoutCancel(ctx), events.Delim{RunID: c.id, TurnID: turnID, Delim: "end"})

	acc := transcript.New()
	var lastArtifact *transcript.Artifact

	sc := ssex.NewScanner(stream)
	for sc.Next() {
		chunk := prov.ParseStreamChunk(sc.Frame())
		if chunk == nil {
			continue
		}
		acc.Append(chunk.Content)
		c.publish(ctx, events.Chunk{
			RunID:     c.id,
			TurnID:    turnID,
			Chunk:     *chunk,
			Sender:    c.model.Name(),
			Timestamp: now(),
		})
		if art := acc.Artifact(); art != nil && (lastArtifact == nil || *art != *lastArtifact) {
			lastArtifact = art
			c.publish(ctx, events.Artifact{
				RunID:     c.id,
				TurnID:    turnID,
				Artifact:  *art,
				Sender:    c.model.Name(),
				Timestamp: now(),
			})
		}
		if chunk.Done {
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	return &provider.AIResponse{Content: acc.Text()}, nil
}

func (c *Conversation) commitReply(ctx context.Context, turnID uuid.UUID, resp *provider.AIResponse) {
	c.memory.Add(messages.Assistant(resp.Content))
	c.publish(ctx, events.Response{
		RunID:     c.id,
		TurnID:    turnID,
		Response:  *resp,
		Sender:    c.model.Name(),
		Timestamp: now(),
	})
}

func (c *Conversation) publish(ctx context.Context, event events.Event) {
	if err := c.topic.Publish(ctx, event); err != nil {
		c.log.WarnContext(ctx, "failed to publish event", slogx.Error(err))
	}
}

func now() strfmt.DateTime {
	return strfmt.DateTime(time.Now())
}
