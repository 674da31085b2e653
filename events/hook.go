package events

import (
	"context"
	"log/slog"
	"slices"

	"github.com/casualjim/loom/messages"
	"github.com/casualjim/loom/pkg/slogx"
	"github.com/casualjim/loom/provider"
	"github.com/casualjim/loom/transcript"
	json "github.com/goccy/go-json"
)

// Hook is the subscriber-side view of a conversation's event stream. It is
// deliberately designed without a base no-op implementation so consumers make
// an explicit decision about every event kind; when a new kind is added,
// implementations fail to compile until they handle it.
type Hook interface {
	OnUserPrompt(context.Context, messages.Message)

	OnChunk(context.Context, provider.StreamChunk)

	OnArtifact(context.Context, transcript.Artifact)

	OnResponse(context.Context, provider.AIResponse)

	OnError(context.Context, error)

	// OnClose is the final callback a hook receives: the subscription has
	// detached and no further events will be delivered.
	OnClose(context.Context)
}

// LoggingHook returns a hook that logs every event through slog, useful as a
// second hook in a composite during development.
func LoggingHook() Hook {
	return &loggingHook{}
}

type loggingHook struct{}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func (loggingHook) OnUserPrompt(ctx context.Context, msg messages.Message) {
	slog.InfoContext(ctx, "user prompt", "message", mustJSON(msg))
}

func (loggingHook) OnChunk(ctx context.Context, chunk provider.StreamChunk) {
	slog.InfoContext(ctx, "stream chunk", "chunk", mustJSON(chunk))
}

func (loggingHook) OnArtifact(ctx context.Context, artifact transcript.Artifact) {
	slog.InfoContext(ctx, "artifact detected", "artifact", mustJSON(artifact))
}

func (loggingHook) OnResponse(ctx context.Context, resp provider.AIResponse) {
	slog.InfoContext(ctx, "completion result", "response", mustJSON(resp))
}

func (loggingHook) OnError(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "completion error", slogx.Error(err))
}

func (loggingHook) OnClose(ctx context.Context) {
	slog.InfoContext(ctx, "event stream closed")
}

func NewCompositeHook(hooks ...Hook) Hook {
	return CompositeHook(hooks)
}

// CompositeHook fans every event out to each hook in order. It is a utility
// for combining hooks, not a way around implementing the full interface.
type CompositeHook []Hook

func (c CompositeHook) OnUserPrompt(ctx context.Context, msg messages.Message) {
	for h := range slices.Values(c) {
		h.OnUserPrompt(ctx, msg)
	}
}

func (c CompositeHook) OnChunk(ctx context.Context, chunk provider.StreamChunk) {
	for h := range slices.Values(c) {
		h.OnChunk(ctx, chunk)
	}
}

func (c CompositeHook) OnArtifact(ctx context.Context, artifact transcript.Artifact) {
	for h := range slices.Values(c) {
		h.OnArtifact(ctx, artifact)
	}
}

func (c CompositeHook) OnResponse(ctx context.Context, resp provider.AIResponse) {
	for h := range slices.Values(c) {
		h.OnResponse(ctx, resp)
	}
}

func (c CompositeHook) OnError(ctx context.Context, err error) {
	for h := range slices.Values(c) {
		h.OnError(ctx, err)
	}
}

func (c CompositeHook) OnClose(ctx context.Context) {
	for h := range slices.Values(c) {
		h.OnClose(ctx)
	}
}
