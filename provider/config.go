package provider

import (
	"strings"
)

// Config describes one provider endpoint: where to reach it, how to
// authenticate, and which model to address. A Config is owned exclusively by
// the adapter instance built from it and never mutated afterwards; learned
// corrections live on the adapter, not here.
type Config struct {
	// BaseURL is the vendor endpoint. It may point at the API root, at a
	// versioned root, or at a concrete completions/responses endpoint; the
	// adapter resolves the final URL from it.
	BaseURL string
	// APIKey is sent as a bearer token on every request.
	APIKey string
	// Model is the vendor model identifier requests are addressed to.
	Model string
	// Models optionally carries per-model capability hints for models served
	// by this endpoint.
	Models []ModelConfig

	_ struct{} // require keyed usage
}

// ModelConfig is an explicit capability record for one model id, used to seed
// adapter behavior ahead of the vendor telling us at runtime.
type ModelConfig struct {
	ID string
	// MaxCompletionTokens marks models whose token limit parameter is named
	// max_completion_tokens rather than max_tokens.
	MaxCompletionTokens bool
	Capabilities        []string

	_ struct{} // require keyed usage
}

// ModelConfigFor returns the explicit record for a model id, if one exists.
func (c Config) ModelConfigFor(id string) (ModelConfig, bool) {
	for _, mc := range c.Models {
		if mc.ID == id {
			return mc, true
		}
	}
	return ModelConfig{}, false
}

// Validate reports the first missing required field as a *ConfigError.
// Adapters call it before building a request so that misconfiguration never
// reaches the network.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return &ConfigError{Missing: "base URL"}
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return &ConfigError{Missing: "API key"}
	}
	return nil
}
