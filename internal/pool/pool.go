// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package pool provides strongly-typed object pooling for the buffers used
// to encode HTTP responses and build worker replies.
package pool

import (
	"bytes"
	"strings"
	"sync"
)

// maxRetained is the largest buffer capacity returned to [Bytes].
// Larger buffers are dropped so one big task response does not pin memory.
const maxRetained = 64 << 10

// Resetter is implemented by pooled values that must be cleared before reuse.
type Resetter interface {
	Reset()
}

// Pool is a generic wrapper around [sync.Pool].
type Pool[T any] struct {
	p    sync.Pool
	keep func(T) bool
}

// New returns a new [Pool] for T that uses fn to construct new values when the pool is empty.
func New[T any](fn func() T) *Pool[T] {
	return &Pool[T]{
		p: sync.Pool{
			New: func() any {
				return fn()
			},
		},
	}
}

// Get gets a T from the pool, or creates a new one if the pool is empty.
func (p *Pool[T]) Get() T {
	return p.p.Get().(T)
}

// Put resets x and returns it to the pool.
func (p *Pool[T]) Put(x T) {
	if p.keep != nil && !p.keep(x) {
		return
	}
	if r, ok := any(x).(Resetter); ok {
		r.Reset()
	}
	p.p.Put(x)
}

// Bytes pools the [*bytes.Buffer] values used to encode responses.
var Bytes = &Pool[*bytes.Buffer]{
	p: sync.Pool{
		New: func() any { return new(bytes.Buffer) },
	},
	keep: func(b *bytes.Buffer) bool { return b.Cap() <= maxRetained },
}

// String pools the [*strings.Builder] values used to build reply text.
var String = New(func() *strings.Builder {
	return &strings.Builder{}
})
