package utils

import (
	"maps"
	"slices"
	"sync"
)

// Registry holds an inner map[K]V with a mutex to protect accesses.
type Registry[K comparable, V any] struct {
	mut     sync.RWMutex
	entries map[K]V
}

// NewRegistry returns a Registry[K, V] pointer.
func NewRegistry[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{entries: make(map[K]V)}
}

// RegistrySet adds a new entry to the Registry. It errors with ErrNameInUse if name is already registered.
func RegistrySet[K comparable, V any](registry *Registry[K, V], name K, value V) error {
	registry.mut.Lock()
	defer registry.mut.Unlock()
	if _, conflict := registry.entries[name]; conflict {
		return NewError(0, ErrNameInUse, "%v already registered", name)
	}
	registry.entries[name] = value
	return nil
}

// RegistryGet returns the value referenced by name and a bool indicating if this value
// exists in the Registry.
func RegistryGet[K comparable, V any](registry *Registry[K, V], name K) (V, bool) {
	registry.mut.RLock()
	defer registry.mut.RUnlock()
	rv, ok := registry.entries[name]
	return rv, ok
}

// RegistryNames returns the sorted names of the Registry entries.
func RegistryNames[K interface {
	comparable
	~string
}, V any](registry *Registry[K, V]) []K {
	registry.mut.RLock()
	defer registry.mut.RUnlock()
	return slices.Sorted(maps.Keys(registry.entries))
}
