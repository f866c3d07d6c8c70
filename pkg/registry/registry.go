package registry

import (
	"sync"

	"github.com/aretw0/narrative/pkg/domain"
	"github.com/aretw0/narrative/pkg/scheme"
)

// Registry maps deterministic keys to the callbacks they stand for.
// It is additive only: entries are never removed.
// Safe for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]any
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		fns: make(map[string]any),
	}
}

var defaultRegistry = New()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a callback under key.
// If the key exists, it is overwritten.
func (r *Registry) Register(key string, fn any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[key] = fn
}

// Resolve looks up a callback. A miss is not an error: the reference simply
// stays a bare key.
func (r *Registry) Resolve(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[key]
	return fn, ok
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fns)
}

// ResolveTransform looks up a transform callback.
func (r *Registry) ResolveTransform(key string) (scheme.TransformFunc, bool) {
	v, ok := r.Resolve(key)
	if !ok {
		return nil, false
	}
	switch fn := v.(type) {
	case scheme.TransformFunc:
		return fn, true
	case func(string, string, map[string]any) (string, error):
		return fn, true
	}
	return nil, false
}

// ResolveMerge looks up a merge callback.
func (r *Registry) ResolveMerge(key string) (scheme.MergeFunc, bool) {
	v, ok := r.Resolve(key)
	if !ok {
		return nil, false
	}
	switch fn := v.(type) {
	case scheme.MergeFunc:
		return fn, true
	case func(string, string, map[string]any) (scheme.MergeResult, error):
		return fn, true
	}
	return nil, false
}

// ResolveMatch looks up a serialization predicate.
func (r *Registry) ResolveMatch(key string) (scheme.MatchFunc, bool) {
	v, ok := r.Resolve(key)
	if !ok {
		return nil, false
	}
	switch fn := v.(type) {
	case scheme.MatchFunc:
		return fn, true
	case func(domain.EntityBase) bool:
		return fn, true
	}
	return nil, false
}

// ResolveSerialize looks up a serialization producer.
func (r *Registry) ResolveSerialize(key string) (scheme.SerializeFunc, bool) {
	v, ok := r.Resolve(key)
	if !ok {
		return nil, false
	}
	switch fn := v.(type) {
	case scheme.SerializeFunc:
		return fn, true
	case func(domain.EntityBase) ([]scheme.SerializedModelFile, error):
		return fn, true
	}
	return nil, false
}
