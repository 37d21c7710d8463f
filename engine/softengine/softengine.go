// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package softengine is a CPU reference implementation of the engine
// interfaces, for headless use and tests.
//
// Files are JSON documents describing artboards built from solid-color
// rectangles, linear animations that interpolate fill colors, state
// machines with bool/number/trigger inputs and a time-based activity
// budget, and view models with typed property schemas and named preset
// instances.
//
// The package implements real engine semantics at toy fidelity: enough
// behavior to exercise every queue operation end to end without a
// native runtime.
package softengine

import (
	"errors"
	"fmt"

	"github.com/go-text/typesetting/font"

	"github.com/gogpu/motion/decode"
	"github.com/gogpu/motion/engine"
)

// Common engine errors.
var (
	// ErrNotFound is returned when a named artboard, animation, state
	// machine, view model, input or property does not exist.
	ErrNotFound = errors.New("softengine: not found")

	// ErrTypeMismatch is returned when a property is accessed with the
	// wrong value type.
	ErrTypeMismatch = errors.New("softengine: property type mismatch")

	// ErrDeadFactory is returned when file import is attempted without
	// a live factory.
	ErrDeadFactory = errors.New("softengine: factory is not live")

	// ErrClosed is returned by operations on a closed file.
	ErrClosed = errors.New("softengine: file closed")
)

// Engine implements engine.Engine over JSON-encoded files.
type Engine struct{}

// New creates a softengine instance.
func New() *Engine { return &Engine{} }

var _ engine.Engine = (*Engine)(nil)

// Load parses a JSON file. The factory must be live; softengine
// allocates no renderer resources but holds callers to the same
// contract as a native engine.
func (e *Engine) Load(data []byte, f engine.Factory) (engine.File, error) {
	if f == nil || !f.Live() {
		return nil, ErrDeadFactory
	}
	def, err := parseFile(data)
	if err != nil {
		return nil, err
	}
	return &file{def: def}, nil
}

// DecodeImage decodes a raster image asset.
func (e *Engine) DecodeImage(data []byte, f engine.Factory) (engine.Asset, error) {
	if f == nil || !f.Live() {
		return nil, ErrDeadFactory
	}
	img, format, err := decode.Image(data)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &imageAsset{format: format, width: b.Dx(), height: b.Dy()}, nil
}

// DecodeAudio decodes a WAV audio asset.
func (e *Engine) DecodeAudio(data []byte) (engine.Asset, error) {
	clip, err := decode.WAV(data)
	if err != nil {
		return nil, err
	}
	return &audioAsset{clip: clip}, nil
}

// DecodeFont decodes a TTF/OTF font asset.
func (e *Engine) DecodeFont(data []byte) (engine.Asset, error) {
	parsed, err := decode.Font(data)
	if err != nil {
		return nil, err
	}
	return &fontAsset{font: parsed}, nil
}

// imageAsset is a decoded image. softengine keeps only the metadata; a
// native engine would keep factory-owned texture data.
type imageAsset struct {
	format        string
	width, height int
}

func (a *imageAsset) Close() {}

// String describes the asset for logs.
func (a *imageAsset) String() string {
	return fmt.Sprintf("image(%s %dx%d)", a.format, a.width, a.height)
}

type audioAsset struct {
	clip *decode.Audio
}

func (a *audioAsset) Close() {}

type fontAsset struct {
	font *font.Font
}

func (a *fontAsset) Close() {}
