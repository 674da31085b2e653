// Package registry provides the concurrency-safe named registry the module
// hangs process-wide state off. Its one instance today is the model-handle
// catalog in provider/models.
package registry

import "github.com/alphadose/haxmap"

// Registry is a string-keyed collection of T, safe for concurrent use
// without external locking.
type Registry[T any] struct {
	values *haxmap.Map[string, T]
}

func New[T any]() *Registry[T] {
	return &Registry[T]{
		values: haxmap.New[string, T](),
	}
}

// Get returns the value registered under name.
func (r *Registry[T]) Get(name string) (T, bool) {
	return r.values.Get(name)
}

// Add registers value under name, replacing any previous entry.
func (r *Registry[T]) Add(name string, value T) {
	r.values.Set(name, value)
}

// GetOrAdd returns the value under name, computing and registering it when
// absent. Only one computation wins under concurrent first use; the bool
// reports whether the value was already present.
func (r *Registry[T]) GetOrAdd(name string, valueFn func() T) (T, bool) {
	return r.values.GetOrCompute(name, valueFn)
}

// Del removes the entry under name.
func (r *Registry[T]) Del(name string) {
	r.values.Del(name)
}
