package catalog

import "sync/atomic"

// Handle is a shared reference to the current snapshot. Reloads replace the
// snapshot atomically; in-flight searches keep reading the one they started
// with. Never hands out a mutable view.
type Handle struct {
	current atomic.Pointer[Snapshot]
}

// NewHandle creates a handle holding the given snapshot.
func NewHandle(s *Snapshot) *Handle {
	h := &Handle{}
	h.current.Store(s)
	return h
}

// Snapshot returns the current snapshot. Never nil once the handle is built.
func (h *Handle) Snapshot() *Snapshot { return h.current.Load() }

// Swap atomically replaces the current snapshot.
func (h *Handle) Swap(s *Snapshot) { h.current.Store(s) }

// Len returns the variable count of the current snapshot.
func (h *Handle) Len() int { return h.Snapshot().Len() }
