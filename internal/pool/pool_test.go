// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package pool

import (
	"bytes"
	"testing"
)

func TestPool_PutResets(t *testing.T) {
	t.Parallel()

	p := New(func() *bytes.Buffer { return new(bytes.Buffer) })
	b := p.Get()
	b.WriteString("hello")
	p.Put(b)

	if b.Len() != 0 {
		t.Errorf("Put did not reset buffer, Len() = %d", b.Len())
	}
}

func TestBytes_DropsLargeBuffers(t *testing.T) {
	t.Parallel()

	b := Bytes.Get()
	b.Grow(maxRetained * 2)
	b.WriteString("payload")
	Bytes.Put(b)

	// Oversized buffers are not reset because they are never returned to the pool.
	if b.Len() == 0 {
		t.Error("oversized buffer was reset and retained")
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	sb := String.Get()
	sb.WriteString("abc")
	if got := sb.String(); got != "abc" {
		t.Errorf("String() = %q, want %q", got, "abc")
	}
	String.Put(sb)
	if sb.Len() != 0 {
		t.Errorf("Put did not reset builder, Len() = %d", sb.Len())
	}
}
