package api

import "github.com/casualjim/loom/provider"

// Model pairs a model identifier with the provider adapter that serves it.
// Handles are cheap: the adapter behind Provider is built lazily and shared.
type Model interface {
	Name() string
	Provider() provider.Provider
}
