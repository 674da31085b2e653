package broker

import (
	"context"
	"fmt"

	"github.com/casualjim/loom/events"
)

// forwardToHook drains a subscription channel into hook callbacks until the
// channel closes or the context ends, then signals OnClose. Both broker
// implementations share it so subscribers observe identical dispatch
// semantics either way: OnClose runs after the last delivered event, no
// callback follows it.
func forwardToHook(ctx context.Context, ch <-chan events.Event, hook events.Hook) {
	defer hook.OnClose(context.WithoutCancel(ctx))
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			forwardEvent(ctx, event, hook)
		case <-ctx.Done():
			return
		}
	}
}

func forwardEvent(ctx context.Context, event events.Event, hook events.Hook) {
	switch event := event.(type) {
	case events.Delim:
		// stream control markers are not forwarded to hooks
	case events.Request:
		hook.OnUserPrompt(ctx, event.Message)
	case events.Chunk:
		hook.OnChunk(ctx, event.Chunk)
	case events.Artifact:
		hook.OnArtifact(ctx, event.Artifact)
	case events.Response:
		hook.OnResponse(ctx, event.Response)
	case events.Error:
		hook.OnError(ctx, event.Err)
	default:
		panic(fmt.Sprintf("unknown event type: %T", event))
	}
}
