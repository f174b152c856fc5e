// Package registry tracks the streams that are currently open so a
// shutdown can reach every one of them.
package registry

import "sync"

// Registry is a mutex-guarded set.  A stream is present iff it is open
// and owned by an active session.
type Registry[T comparable] struct {
	mu   sync.Mutex
	list map[T]struct{}
}

// New returns an empty Registry.
func New[T comparable]() *Registry[T] {
	return &Registry[T]{list: make(map[T]struct{})}
}

// Register adds s.  It reports false and does nothing if s is already
// present.
func (r *Registry[T]) Register(s T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.list[s]; ok {
		return false
	}
	r.list[s] = struct{}{}
	return true
}

// Deregister removes s.  It reports false if s was not present.
func (r *Registry[T]) Deregister(s T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.list[s]; !ok {
		return false
	}
	delete(r.list, s)
	return true
}

// Len returns the number of registered streams.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.list)
}

// All returns a snapshot of the registered streams in no particular
// order.  The registry may change while the caller walks the slice.
func (r *Registry[T]) All() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(r.list))
	for s := range r.list {
		out = append(out, s)
	}
	return out
}
