/*
Package loom lets one client talk to multiple, incompatible generative-AI
HTTP APIs through a single contract, buffered or streamed, while the
per-vendor quirks are absorbed below the surface.

The package implements this through several key abstractions:

  - Messages: a vendor-neutral chat message model with text, typed content
    parts, and attachments
  - Providers: one adapter per wire dialect (OpenAI completions, OpenAI
    responses, Gemini), all behind the same two-method contract
  - Conversations: the controller that keeps the timeline, serializes
    calls, and runs the streaming pump
  - Events: the fan-out layer that delivers chunks, artifacts, responses,
    and errors to subscribers
  - Transcript: incremental accumulation with live artifact extraction

# Basic Usage

A typical session builds a model handle, wraps it in a conversation, and
sends prompts:

	cfg := provider.Config{
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		APIKey:  os.Getenv("OPENAI_API_KEY"),
	}

	conv := loom.New(openai.GPT4oMini(cfg),
		loom.SystemPrompt("You are terse."),
		loom.Streaming(true),
	)

	sub, err := conv.Subscribe(ctx, hook)
	if err != nil {
		// Handle error
	}
	defer sub.Unsubscribe()

	resp, err := conv.SendText(ctx, "Why is the sky blue?")

# Architecture

The flow of one exchange:

 1. The conversation commits the user message and publishes a request event
 2. The adapter encodes the neutral thread into its vendor body and posts
    it with a per-attempt timeout; known rejection patterns trigger one
    bounded correction each before anything surfaces
 3. Buffered calls come back as a normalized response; streamed calls hand
    the open SSE body to the pump
 4. The pump decodes each frame through the adapter, accumulates text,
    balances code fences for display, re-runs artifact extraction, and
    publishes chunk and artifact events as they happen
 5. The reply is committed to the timeline and a response event closes the
    exchange; failures publish an error event instead

Timeline surgery follows the consumer contract: Edit swaps a message's text
and discards nothing, Resend discards everything after a user message before
re-issuing, and Regenerate re-runs an assistant message from the messages
strictly before it, replacing only its text.

# Integration

Loom integrates with:

  - NATS for cross-process event distribution (WithNATS)
  - Any OpenAI-completions, OpenAI-responses, or Gemini-style HTTP endpoint

# Thread Safety

Conversations are safe for concurrent use. Exchanges are serialized: while
one is in flight, further sends fail fast with ErrBusy rather than queue.
Hooks must be implemented in a thread-safe manner when shared.

For component details, see the package documentation of messages, provider,
events, and transcript.
*/
package loom
