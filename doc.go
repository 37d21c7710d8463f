// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package motion provides a command-queue runtime for driving a 2D
// vector animation engine from many goroutines while keeping every
// engine and GPU resource confined to a single worker.
//
// # Overview
//
// Animation engines and GPU contexts are single-threaded: their objects
// must only ever be touched by the thread that created them. motion
// wraps that constraint in a Queue. Each Queue owns one worker
// goroutine; the worker creates the render context, imports files,
// instantiates artboards, advances state machines and draws frames.
// Callers on any goroutine enqueue typed commands and never touch
// engine state directly.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/motion"
//	    "github.com/gogpu/motion/engine/softengine"
//	)
//
//	opts := motion.DefaultOptions()
//	opts.Engine = softengine.New()
//	q, err := motion.New(opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer q.Close()
//
//	q.LoadFile(data, func(file motion.FileHandle, err error) {
//	    // runs during a later q.Poll()
//	})
//	q.Poll()
//
// # Command protocol
//
// Three interaction shapes cover every operation:
//
//   - Fire-and-forget: setters, advances, deletes and pointer events
//     return once the command is queued. Failures are logged.
//   - Synchronous rendezvous: resource creation (artboards, state
//     machines, render targets, draw registrations) blocks the caller
//     until the worker has executed the command and returns the new
//     handle directly.
//   - Asynchronous request: reads and file/asset imports take a
//     completion callback. The worker posts the result to a message
//     queue; the callback fires during a subsequent Poll, on the
//     goroutine that called Poll.
//
// Commands from one goroutine execute in submission order. Handles are
// never reused within a queue, so a stale handle fails cleanly instead
// of aliasing a newer resource.
//
// # Backends
//
// Render contexts come from a priority-ordered backend registry. The
// software backend (always available) draws into CPU pixel buffers; a
// blank import of the gpu package registers the wgpu-backed context at
// higher priority:
//
//	import _ "github.com/gogpu/motion/gpu"
package motion
