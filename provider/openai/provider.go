package openai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/casualjim/loom/internal/wire"
	"github.com/casualjim/loom/messages"
	"github.com/casualjim/loom/pkg/slogx"
	"github.com/casualjim/loom/provider"
	"github.com/fogfish/opts"
)

// Dialect selects which OpenAI wire shape the adapter speaks. Most
// OpenAI-compatible gateways only understand the completions shape, so that
// is the default; the responses shape is picked up from the base URL or
// forced with an option.
type Dialect int

const (
	DialectCompletions Dialect = iota
	DialectResponses
)

func (d Dialect) String() string {
	if d == DialectResponses {
		return "responses"
	}
	return "completions"
}

var (
	// HTTPClient overrides the client used for upstream calls, mainly so
	// tests can inject one wired to a local server.
	HTTPClient = opts.ForName[Provider, *http.Client]("client")
	// WithDialect pins the wire shape instead of detecting it from the base
	// URL.
	WithDialect = opts.ForName[Provider, Dialect]("dialect")
)

// Provider speaks the OpenAI wire dialects: chat completions and responses.
// One instance serves one endpoint/model pairing and carries what it learned
// about that pairing across calls, so a quirk discovered once is not
// rediscovered on every request.
type Provider struct {
	client  *http.Client
	dialect Dialect
	base    provider.Base
	log     *slog.Logger

	// useMaxCompletionTokens remembers that this model rejected max_tokens.
	// It starts from the reasoning-model heuristic and flips to true when the
	// vendor says so; it never flips back.
	useMaxCompletionTokens atomic.Bool
}

var _ provider.Provider = (*Provider)(nil)

// New builds an adapter for cfg. The dialect is detected from the base URL
// unless an option pins it. Construction never dials out; configuration
// problems surface on the first call.
func New(cfg provider.Config, options ...opts.Option[Provider]) *Provider {
	p := &Provider{
		dialect: detectDialect(cfg.BaseURL),
		log:     slog.Default().With(slogx.LoggerName("openai"), slog.String("model", cfg.Model)),
	}
	if err := opts.Apply(p, options); err != nil {
		panic(err)
	}
	p.base = provider.NewBase(cfg, p.client)
	p.useMaxCompletionTokens.Store(initialTokenField(cfg))
	return p
}

// initialTokenField seeds the token-limit parameter name before the vendor
// has said anything: explicit per-model configuration wins, then the
// reasoning-model heuristic.
func initialTokenField(cfg provider.Config) bool {
	if mc, ok := cfg.ModelConfigFor(cfg.Model); ok && mc.MaxCompletionTokens {
		return true
	}
	return provider.IsThinkingModel(cfg.Model)
}

// versionSegment matches a version path element such as /v1 or /v1beta.
var versionSegment = regexp.MustCompile(`/v\d+[a-z0-9]*`)

// detectDialect reads the wire shape off the base URL: anything addressing a
// responses endpoint speaks the responses dialect.
func detectDialect(baseURL string) Dialect {
	if strings.Contains(baseURL, "/responses") {
		return DialectResponses
	}
	return DialectCompletions
}

// resolveURL turns the configured base URL into the request URL:
//
//  1. a URL that already targets a completions or responses endpoint is used
//     verbatim
//  2. a URL with a version segment gets the dialect path appended
//  3. anything else gets /v1 plus the dialect path
func resolveURL(baseURL string, d Dialect) string {
	trimmed := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(trimmed, "/completions") || strings.HasSuffix(trimmed, "/responses") {
		return trimmed
	}
	path := "/chat/completions"
	if d == DialectResponses {
		path = "/responses"
	}
	if versionSegment.MatchString(trimmed) {
		return trimmed + path
	}
	return trimmed + "/v1" + path
}

func (p *Provider) url() string {
	return resolveURL(p.base.Config().BaseURL, p.dialect)
}

// CallAPI performs one logical call, transparently absorbing the two quirk
// classes this family of vendors is known for. Each correction fires at most
// once per call: a rejected token-limit parameter flips the adapter to
// max_completion_tokens for good, and a rejected system role folds the system
// messages into the first user message for this attempt onward. Every
// attempt, retries included, gets a fresh timeout budget.
func (p *Provider) CallAPI(ctx context.Context, thread []messages.Message, params *provider.CallParams, stream bool) (*provider.CallResult, error) {
	msgs := thread
	var tokenFieldFixed, rolesFixed bool

	for {
		body, err := p.buildBody(msgs, params, stream)
		if err != nil {
			return nil, err
		}

		raw, strm, err := p.base.Post(ctx, p.url(), body, stream)
		if err == nil {
			if stream {
				return &provider.CallResult{Stream: strm}, nil
			}
			resp, perr := p.parseResponse(raw)
			if perr != nil {
				return nil, perr
			}
			return &provider.CallResult{Response: resp}, nil
		}

		var ue *provider.UpstreamError
		if !errors.As(err, &ue) {
			return nil, err
		}

		switch {
		case !tokenFieldFixed && p.dialect == DialectCompletions && rejectsMaxTokens(ue.Body):
			tokenFieldFixed = true
			p.useMaxCompletionTokens.Store(true)
			p.log.DebugContext(ctx, "model rejected max_tokens, switching to max_completion_tokens")
		case !rolesFixed && p.rejectsSystemRole(ue.Body):
			rolesFixed = true
			msgs = mergeSystemMessages(msgs)
			p.log.DebugContext(ctx, "model rejected system role, folding system messages into user prompt")
		default:
			return nil, err
		}
	}
}

func (p *Provider) parseResponse(raw []byte) (*provider.AIResponse, error) {
	text, ok := extractText(raw)
	if !ok {
		return nil, &provider.EmptyResponseError{Model: p.base.Config().Model}
	}
	return &provider.AIResponse{
		Content:      wire.CleanText(text),
		FinishReason: wire.ExtractFinishReason(raw),
		Usage:        wire.ExtractUsage(raw),
	}, nil
}
