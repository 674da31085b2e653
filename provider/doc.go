// Package provider defines the uniform contract for talking to generative AI
// HTTP APIs (OpenAI-style completions, responses, Gemini, and the gateways
// that imitate them) plus the plumbing every adapter shares: configuration,
// authentication, timeout policy, and the normalized result shapes.
//
// Design decisions:
//   - One contract, many dialects: vendors differ in wire bodies, field
//     names, and streaming framing; callers see a single CallAPI surface
//   - Quirk recovery lives in adapters: parameter renames and role
//     restrictions are corrected by retrying, never surfaced to callers
//   - Per-attempt budgets: every attempt gets a fresh wall-clock timeout,
//     sized up for reasoning models that stall before the first byte
//   - Errors carry class, not prose: *ConfigError, *UpstreamError and
//     *EmptyResponseError say what failed; transport errors pass through
//   - Streaming is caller-driven: CallAPI hands back the open body, the
//     caller frames it and feeds each frame to ParseStreamChunk
//
// Key concepts:
//   - Provider: the adapter contract (CallAPI + ParseStreamChunk)
//   - Config: endpoint, credentials and model addressing, immutable per adapter
//   - CallParams: optional generation controls, nil means omit
//   - AIResponse / StreamChunk: the normalized buffered and streamed outputs
//
// Example usage:
//
//	cfg := provider.Config{
//		BaseURL: "https://api.openai.com/v1",
//		APIKey:  os.Getenv("OPENAI_API_KEY"),
//		Model:   "gpt-4o-mini",
//	}
//	prov := openai.New(cfg)
//
//	result, err := prov.CallAPI(ctx, thread, &provider.CallParams{
//		Temperature: swag.Float64(0.2),
//	}, false)
//	if err != nil {
//		return err
//	}
//	fmt.Println(result.Response.Content)
package provider
