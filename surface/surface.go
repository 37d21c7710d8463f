// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface abstracts the render context and drawable targets the
// motion command server draws into.
//
// A Context owns the engine factory and all GPU state for one queue. It
// is created inside the worker goroutine during queue construction and
// every call on it happens on that goroutine; implementations do not
// need to be safe for concurrent use.
//
// Backends register themselves in a priority-ordered registry, in the
// manner of database/sql drivers: software backends register at low
// priority, GPU backends at high priority, and the queue picks the best
// available one (or a specific one by name).
package surface

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/motion/engine"
)

// Options configures context creation.
type Options struct {
	// DeviceProvider optionally shares a GPU device owned by a host
	// application instead of creating a dedicated one. Backends that
	// cannot use a shared device ignore it.
	DeviceProvider gpucontext.DeviceProvider
}

// Target is one drawable destination owned by a context.
type Target interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Destroy releases the target's resources.
	Destroy()
}

// Context is the render context: the GPU device (or software
// equivalent), the engine factory bound to it, and frame sequencing.
type Context interface {
	// Name returns the backend name the context was created from.
	Name() string

	// Factory returns the live engine factory bound to this context.
	// The returned factory always reports Live; contexts never hand out
	// placeholder factories.
	Factory() engine.Factory

	// NewTarget creates a drawable target of the given size.
	NewTarget(w, h int) (Target, error)

	// BeginFrame starts a frame on the target and returns the renderer
	// engine content draws into. The renderer is valid until Flush.
	BeginFrame(t Target) (engine.Renderer, error)

	// Flush completes the current frame, submitting any pending work.
	Flush() error

	// ReadPixels copies the target's pixels into buf as tightly packed
	// RGBA rows. buf must hold at least Width*Height*4 bytes.
	ReadPixels(t Target, buf []byte) error

	// Close releases the context and everything it owns.
	Close() error
}
