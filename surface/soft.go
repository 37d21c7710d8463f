// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/motion/engine"
)

// SoftwareBackend is the name of the always-available CPU backend.
const SoftwareBackend = "software"

func init() {
	Register(SoftwareBackend, 10, newSoftwareContext, nil)
}

// ErrContextClosed is returned by operations on a closed context.
var ErrContextClosed = errors.New("surface: context closed")

// softFactory is the software backend's engine factory. It allocates
// nothing GPU-side, so it is always live.
type softFactory struct{}

func (softFactory) Live() bool { return true }

// softContext is the CPU render context: targets are pixmaps and frames
// are painted directly into their pixels.
type softContext struct {
	painter *Painter
	closed  bool
}

func newSoftwareContext(Options) (Context, error) {
	// The software backend cannot use a shared GPU device; the option
	// is deliberately ignored.
	return &softContext{}, nil
}

// Name returns the backend name.
func (c *softContext) Name() string { return SoftwareBackend }

// Factory returns the context's always-live factory.
func (c *softContext) Factory() engine.Factory { return softFactory{} }

// NewTarget creates a CPU pixmap target.
func (c *softContext) NewTarget(w, h int) (Target, error) {
	if c.closed {
		return nil, ErrContextClosed
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("surface: invalid target size %dx%d", w, h)
	}
	return NewPixmapTarget(w, h), nil
}

// BeginFrame clears the target and returns a painter over its pixels.
func (c *softContext) BeginFrame(t Target) (engine.Renderer, error) {
	if c.closed {
		return nil, ErrContextClosed
	}
	pt, ok := t.(*PixmapTarget)
	if !ok {
		return nil, fmt.Errorf("surface: target %T is not a pixmap target", t)
	}
	c.painter = NewPainter(pt.Image())
	c.painter.Reset()
	return c.painter, nil
}

// Flush completes the frame. CPU painting is immediate, so there is
// nothing to submit.
func (c *softContext) Flush() error {
	if c.closed {
		return ErrContextClosed
	}
	c.painter = nil
	return nil
}

// ReadPixels copies the target's pixels into buf as tight RGBA rows.
func (c *softContext) ReadPixels(t Target, buf []byte) error {
	if c.closed {
		return ErrContextClosed
	}
	pt, ok := t.(*PixmapTarget)
	if !ok {
		return fmt.Errorf("surface: target %T is not a pixmap target", t)
	}
	return pt.ReadInto(buf)
}

// Close releases the context.
func (c *softContext) Close() error {
	c.closed = true
	c.painter = nil
	return nil
}
