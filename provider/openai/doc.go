// Package openai implements the provider contract for the OpenAI wire
// dialects: chat completions and responses. It serves both first-party
// endpoints and the long tail of OpenAI-compatible gateways, which is where
// most of its behavior comes from.
//
// Design decisions:
//   - Dialect at construction: the wire shape is read off the base URL once
//     (or pinned with WithDialect); per-call dispatch never happens
//   - Corrective retries: the two rejection classes these endpoints are known
//     for are absorbed by re-issuing a rewritten request, at most once each
//     per call — a renamed token-limit parameter and a refused system role
//   - Sticky corrections: a model that rejected max_tokens has the switch to
//     max_completion_tokens remembered on the adapter instance, so later
//     calls start from what the vendor already said
//   - Tolerant decoding: buffered extraction and stream decoding probe the
//     known response families in a fixed order, because gateways answer in
//     whichever shape their backend happens to produce
//   - Memoized handles: Model and Named return one shared handle per
//     endpoint/model pairing, which is what scopes the sticky state
//
// Example usage:
//
//	cfg := provider.Config{
//		BaseURL: "https://api.openai.com/v1",
//		APIKey:  os.Getenv("OPENAI_API_KEY"),
//	}
//
//	model := openai.GPT4oMini(cfg)
//	result, err := model.Provider().CallAPI(ctx, thread, &provider.CallParams{
//		MaxTokens: swag.Int64(2048),
//	}, false)
//	if err != nil {
//		return err
//	}
//	fmt.Println(result.Response.Content)
//
// URL resolution follows the configured base URL's lead: a URL already
// addressing a completions or responses endpoint is used verbatim, one with
// a version segment gets the dialect path appended, and a bare host gets
// /v1 first. A base URL pointing at /responses flips the adapter into the
// responses dialect.
package openai
