package responses

import (
	"sync"

	"github.com/casualjim/loom/api"
	"github.com/casualjim/loom/provider"
	"github.com/casualjim/loom/provider/models"
	"github.com/fogfish/opts"
)

// Named returns the model handle for the given model id at cfg's endpoint.
func Named(cfg provider.Config, name string, options ...opts.Option[Provider]) api.Model {
	cfg.Model = name
	return Model(cfg, options...)
}

// Model returns the memoized handle for cfg's endpoint/model pairing.
func Model(cfg provider.Config, options ...opts.Option[Provider]) api.Model {
	return models.GetOrAdd(models.Key("responses", cfg.BaseURL, cfg.Model), func() api.Model {
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
