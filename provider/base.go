package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/casualjim/loom/pkg/slogx"
)

// Base carries the request plumbing shared by every vendor adapter: bearer
// authentication, the per-model timeout policy, and the success/failure
// split. Adapters embed or hold one and keep their dialect logic on top.
type Base struct {
	cfg    Config
	client *http.Client
	log    *slog.Logger
}

// NewBase builds the shared plumbing for cfg. A nil client gets a fresh
// http.Client; timeouts come from the per-attempt context, not the client.
func NewBase(cfg Config, client *http.Client) Base {
	if client == nil {
		client = &http.Client{}
	}
	return Base{
		cfg:    cfg,
		client: client,
		log:    slog.Default().With(slogx.LoggerName("provider")),
	}
}

// Config returns the configuration the base was built from.
func (b *Base) Config() Config { return b.cfg }

// Post performs one upstream attempt with a fresh wall-clock budget sized for
// the configured model. It validates the config first, so misconfiguration
// surfaces as *ConfigError before any traffic.
//
// Non-success statuses drain the body and come back as *UpstreamError. On
// success, buffered mode returns the fully read body bytes; streaming mode
// returns the open body, wired so that closing it also releases the
// attempt's deadline.
func (b *Base) Post(ctx context.Context, url string, payload []byte, stream bool) ([]byte, io.ReadCloser, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, TimeoutFor(b.cfg.Model))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	b.log.DebugContext(ctx, "calling upstream", slog.String("url", url), slog.String("model", b.cfg.Model), slog.Bool("stream", stream))

	resp, err := b.client.Do(req)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("upstream request: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer cancel()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		return nil, nil, &UpstreamError{Status: resp.StatusCode, Body: string(raw)}
	}

	if stream {
		return nil, &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
	}

	defer cancel()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read upstream response: %w", err)
	}
	return raw, nil, nil
}

// Get performs an authenticated GET with the default timeout budget, used for
// discovery endpoints rather than generation calls.
func (b *Base) Get(ctx context.Context, url string) ([]byte, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultCallTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(raw)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}
	return raw, nil
}

// cancelOnClose ties a streaming body to its attempt deadline: closing the
// body cancels the context so the connection and timer are released together.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	c.cancel()
	return c.ReadCloser.Close()
}
