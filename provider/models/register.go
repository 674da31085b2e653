// Package models keeps the process-wide model handle catalog and the
// discovery helpers: listing model identifiers from a provider endpoint and
// filtering the ones that look image-capable.
package models

import (
	"github.com/casualjim/loom/api"
	"github.com/casualjim/loom/internal/registry"
)

// Global is the catalog every adapter package memoizes its handles into, so
// a provider/model pairing maps to exactly one adapter instance no matter
// how many call sites construct it. Learned quirk corrections live on the
// adapter, and this guarantee is what keeps them from leaking across
// configurations.
var Global = registry.New[api.Model]()

// Key renders the catalog key for a model at an endpoint. The adapter
// family is part of the key: the same endpoint/model pairing reached
// through two wire dialects is two adapters.
func Key(family, baseURL, model string) string {
	return family + "|" + baseURL + "|" + model
}

// GetOrAdd returns the handle registered under key, building and
// registering it on first use.
func GetOrAdd(key string, modelF func() api.Model) api.Model {
	m, _ := Global.GetOrAdd(key, modelF)
	return m
}

// Get looks up a previously registered handle.
func Get(key string) (api.Model, bool) {
	return Global.Get(key)
}

// Add registers a handle under key, replacing any previous entry.
func Add(key string, model api.Model) {
	Global.Add(key, model)
}

// Del removes the entry under key.
func Del(key string) {
	Global.Del(key)
}
