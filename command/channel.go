// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

import "sync"

// Channel is an unbounded multi-producer, single-consumer FIFO queue of
// commands. Any goroutine may Enqueue; only the worker calls PopAll.
//
// Enqueue never blocks beyond the insertion critical section. PopAll
// removes everything queued so far atomically, preserving submission
// order: no command is observed out of order, lost or duplicated.
type Channel struct {
	mu     sync.Mutex
	cmds   []Command
	closed bool
	wake   chan struct{}
}

// NewChannel creates an empty command channel.
func NewChannel() *Channel {
	return &Channel{
		cmds: make([]Command, 0, 64),
		wake: make(chan struct{}, 1),
	}
}

// Enqueue appends a command to the tail and wakes the consumer.
// It reports whether the command was accepted; false means the channel
// is closed and the command was dropped.
func (c *Channel) Enqueue(cmd Command) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.cmds = append(c.cmds, cmd)
	c.mu.Unlock()

	c.signal()
	return true
}

// PopAll removes and returns all currently queued commands in
// submission order, appending to buf to reuse its capacity.
// Only the consumer goroutine may call PopAll.
func (c *Channel) PopAll(buf []Command) []Command {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf = append(buf, c.cmds...)
	clear(c.cmds)
	c.cmds = c.cmds[:0]
	return buf
}

// Wake returns the channel the consumer blocks on between drains.
// A receive means at least one Enqueue or Close happened since the last
// drain; spurious wakes are possible and harmless.
func (c *Channel) Wake() <-chan struct{} {
	return c.wake
}

// Close marks the channel closed. Subsequent Enqueue calls are rejected;
// commands already queued remain available to PopAll.
func (c *Channel) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.signal()
}

// Closed reports whether the channel has been closed.
func (c *Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Channel) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Outbox is the outbound message queue: written by the worker, drained
// by caller goroutines during an explicit poll.
type Outbox struct {
	mu   sync.Mutex
	msgs []Message
}

// NewOutbox creates an empty outbox.
func NewOutbox() *Outbox {
	return &Outbox{msgs: make([]Message, 0, 64)}
}

// Post appends a message.
func (o *Outbox) Post(m Message) {
	o.mu.Lock()
	o.msgs = append(o.msgs, m)
	o.mu.Unlock()
}

// PopAll removes and returns all queued messages in post order,
// appending to buf to reuse its capacity.
func (o *Outbox) PopAll(buf []Message) []Message {
	o.mu.Lock()
	defer o.mu.Unlock()

	buf = append(buf, o.msgs...)
	o.msgs = o.msgs[:0]
	return buf
}
