package openai

import (
	"sync"

	"github.com/casualjim/loom/api"
	"github.com/casualjim/loom/provider"
	"github.com/casualjim/loom/provider/models"
	"github.com/fogfish/opts"
)

func GPT4oMini(cfg provider.Config, options ...opts.Option[Provider]) api.Model {
	return Named(cfg, "gpt-4o-mini", options...)
}

func GPT4o(cfg provider.Config, options ...opts.Option[Provider]) api.Model {
	return Named(cfg, "gpt-4o", options...)
}

func O1(cfg provider.Config, options ...opts.Option[Provider]) api.Model {
	return Named(cfg, "o1", options...)
}

func O3Mini(cfg provider.Config, options ...opts.Option[Provider]) api.Model {
	return Named(cfg, "o3-mini", options...)
}

// Named returns the model handle for the given model id at cfg's endpoint,
// overriding whatever cfg.Model says.
func Named(cfg provider.Config, name string, options ...opts.Option[Provider]) api.Model {
	cfg.Model = name
	return Model(cfg, options...)
}

// Model returns the memoized handle for cfg's endpoint/model pairing,
// creating it on first use. Memoization keeps learned quirk corrections on
// one adapter instance instead of rediscovering them per call site; the
// adapter itself is built lazily on first Provider().
func Model(cfg provider.Config, options ...opts.Option[Provider]) api.Model {
	return models.GetOrAdd(models.Key("openai", cfg.BaseURL, cfg.Model), func() api.Model {
		return &model{
			cfg:     cfg,
			options: options,
		}
	})
}

var _ api.Model = (*model)(nil)

type model struct {
	cfg     provider.Config
	options []opts.Option[Provider]

	prov     provider.Provider
	provOnce sync.Once
}

func (m *model) Name() string {
	return m.cfg.Model
}

func (m *model) Provider() provider.Provider {
	m.provOnce.Do(func() {
		m.prov = New(m.cfg, m.options...)
	})
	return m.prov
}
