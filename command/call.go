// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

import "sync"

// Call is a one-shot rendezvous between a caller goroutine and the
// worker. The caller constructs a Call, attaches it to a synchronous
// command, enqueues the command and blocks in Wait; the worker resolves
// the Call while executing the command, before dequeuing the next one.
//
// Resolve is safe to invoke more than once; only the first resolution
// is observed. This lets queue teardown resolve every outstanding Call
// with an error without racing the worker.
//
// A Call must never be waited on from the worker goroutine itself:
// the worker cannot execute the command it is blocked behind.
type Call[T any] struct {
	once sync.Once
	ch   chan callResult[T]
}

type callResult[T any] struct {
	value T
	err   error
}

// NewCall creates an unresolved Call.
func NewCall[T any]() *Call[T] {
	return &Call[T]{ch: make(chan callResult[T], 1)}
}

// Resolve completes the call. Subsequent resolutions are no-ops.
func (c *Call[T]) Resolve(value T, err error) {
	c.once.Do(func() {
		c.ch <- callResult[T]{value: value, err: err}
	})
}

// Wait blocks until the call is resolved and returns its result.
func (c *Call[T]) Wait() (T, error) {
	r := <-c.ch
	return r.value, r.err
}
