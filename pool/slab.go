// File: pool/slab.go
// Package pool implements the slab-style connection registry and send queues.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "github.com/momentics/hioload-echo/api"

// slot holds one registry entry.
type slot[T any] struct {
	val  T
	used bool
}

// Slab is an arena of slots addressed by index, with a free-index stack so
// removed slots are reused. It is not safe for concurrent use.
type Slab[T any] struct {
	slots    []slot[T]
	free     []int
	capacity int
	live     int
}

// NewSlab creates a slab holding at most capacity live entries.
func NewSlab[T any](capacity int) *Slab[T] {
	hint := capacity
	if hint > 1024 {
		hint = 1024
	}
	return &Slab[T]{
		slots:    make([]slot[T], 0, hint),
		capacity: capacity,
	}
}

// Insert stores v and returns its index.
// It returns api.ErrRegistryFull when capacity live entries already exist.
func (s *Slab[T]) Insert(v T) (int, error) {
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[idx] = slot[T]{val: v, used: true}
		s.live++
		return idx, nil
	}
	if len(s.slots) >= s.capacity {
		return 0, api.ErrRegistryFull
	}
	s.slots = append(s.slots, slot[T]{val: v, used: true})
	s.live++
	return len(s.slots) - 1, nil
}

// Get returns the entry at idx, if live.
func (s *Slab[T]) Get(idx int) (T, bool) {
	if idx < 0 || idx >= len(s.slots) || !s.slots[idx].used {
		var zero T
		return zero, false
	}
	return s.slots[idx].val, true
}

// Contains reports whether idx resolves to a live entry.
func (s *Slab[T]) Contains(idx int) bool {
	_, ok := s.Get(idx)
	return ok
}

// Remove frees idx and returns the entry it held.
// Removing an index that is not live reports false and changes nothing.
func (s *Slab[T]) Remove(idx int) (T, bool) {
	v, ok := s.Get(idx)
	if !ok {
		return v, false
	}
	s.slots[idx] = slot[T]{}
	s.free = append(s.free, idx)
	s.live--
	return v, true
}

// Len returns the number of live entries.
func (s *Slab[T]) Len() int { return s.live }

// Cap returns the maximum number of live entries.
func (s *Slab[T]) Cap() int { return s.capacity }

// Range calls fn for each live entry until fn returns false.
func (s *Slab[T]) Range(fn func(idx int, v T) bool) {
	for i := range s.slots {
		if !s.slots[i].used {
			continue
		}
		if !fn(i, s.slots[i].val) {
			return
		}
	}
}
