// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package engine defines the capability set the motion command server
// consumes from a 2D vector animation engine.
//
// The engine itself (file decoding, path rasterization, state-machine
// evaluation, animation curve interpolation) is an external collaborator.
// This package only names the entry points the server drives: file import,
// artboard/state-machine/animation lifecycle, view-model data binding,
// pointer forwarding, and drawing.
//
// All engine objects are confined to the worker goroutine of the queue
// that created them. Implementations do not need to be safe for
// concurrent use; the command server guarantees strictly sequential
// access.
package engine

// Factory allocates renderer-native resources (paths, paints, images)
// for one render context. A file must be imported with the factory of
// the context that will draw it: assets decoded during import are bound
// to factory-owned GPU resources.
//
// Live distinguishes a real, context-backed factory from a placeholder.
// Import and draw paths must only ever see live factories; drawing
// content imported against a placeholder silently produces blank frames.
type Factory interface {
	// Live reports whether the factory is backed by a usable render
	// context.
	Live() bool
}

// Engine is the root entry point: it imports encoded files and decodes
// standalone assets.
type Engine interface {
	// Load imports an encoded file. The factory binds decoded assets to
	// the render context that will draw the file's content.
	Load(data []byte, f Factory) (File, error)

	// DecodeImage decodes an encoded image asset against the factory.
	DecodeImage(data []byte, f Factory) (Asset, error)

	// DecodeAudio decodes an encoded audio asset.
	DecodeAudio(data []byte) (Asset, error)

	// DecodeFont decodes an encoded font asset.
	DecodeFont(data []byte) (Asset, error)
}

// Asset is a decoded image, audio clip or font, held by the registry
// until its handle is deleted.
type Asset interface {
	// Close releases the asset.
	Close()
}

// File is an imported animation file. It enumerates and instantiates
// artboards and view models.
type File interface {
	// ArtboardNames returns the names of all artboards in the file.
	ArtboardNames() []string

	// Artboard instantiates the artboard with the given name.
	// An empty name instantiates the file's default artboard.
	Artboard(name string) (Artboard, error)

	// ViewModelNames returns the names of all view models in the file.
	ViewModelNames() []string

	// BlankViewModelInstance creates an instance of the named view model
	// with all properties at their zero values.
	BlankViewModelInstance(viewModel string) (ViewModelInstance, error)

	// DefaultViewModelInstance creates an instance of the named view
	// model populated with the view model's default instance values.
	DefaultViewModelInstance(viewModel string) (ViewModelInstance, error)

	// NamedViewModelInstance creates an instance populated from the
	// named preset instance of the view model.
	NamedViewModelInstance(viewModel, instance string) (ViewModelInstance, error)

	// Close releases the file. Artboards instantiated from the file are
	// owned by their own handles and are not released here.
	Close()
}

// Artboard is one instantiated artboard: the drawable scene graph plus
// its transform and constraint state.
type Artboard interface {
	// Name returns the artboard's name.
	Name() string

	// Size returns the artboard's current width and height.
	Size() (w, h float32)

	// Resize changes the artboard's dimensions.
	Resize(w, h float32)

	// StateMachine instantiates the named state machine.
	// An empty name instantiates the artboard's default state machine.
	StateMachine(name string) (StateMachine, error)

	// Animation instantiates the named linear animation.
	// An empty name instantiates the artboard's first animation.
	Animation(name string) (Animation, error)

	// Advance steps the artboard's own transform and constraint graph
	// by dt seconds. It must be called at most once per frame, and only
	// when no state machine is advancing the same artboard that frame
	// (state machines advance the artboard themselves).
	Advance(dt float32)

	// Draw renders the artboard's current state into the renderer.
	Draw(r Renderer)

	// Bind attaches a view-model instance to the artboard's data-binding
	// context.
	Bind(vmi ViewModelInstance) error

	// Close releases the artboard.
	Close()
}

// StateMachine is one instantiated state machine driving an artboard.
type StateMachine interface {
	// Advance runs the simulation by dt seconds, including any
	// animations the machine drives and the owning artboard's transform
	// graph. It reports whether the machine still needs future
	// advancement (pending transitions or running animations).
	Advance(dt float32) bool

	// SetBool sets a boolean input.
	SetBool(name string, v bool) error

	// SetNumber sets a numeric input.
	SetNumber(name string, v float64) error

	// Bool reads a boolean input.
	Bool(name string) (bool, error)

	// Number reads a numeric input.
	Number(name string) (float64, error)

	// FireTrigger fires a trigger input.
	FireTrigger(name string) error

	// Pointer forwarding, in artboard coordinates.
	PointerMove(x, y float32)
	PointerDown(x, y float32)
	PointerUp(x, y float32)
	PointerExit(x, y float32)

	// Bind attaches a view-model instance to the machine's data-binding
	// context.
	Bind(vmi ViewModelInstance) error

	// Close releases the state machine.
	Close()
}

// Animation is one instantiated linear (timeline) animation.
type Animation interface {
	// Name returns the animation's name.
	Name() string

	// Advance moves the playhead by dt seconds, honoring loop mode and
	// direction. It reports whether the animation is still running.
	Advance(dt float32) bool

	// Apply mixes the animation's current time into the owning artboard.
	// Apply does not advance the artboard's transform graph; the caller
	// sequences that separately.
	Apply()

	// SetLoop sets the loop mode.
	SetLoop(mode LoopMode)

	// SetDirection sets the playback direction.
	SetDirection(dir Direction)

	// Close releases the animation.
	Close()
}

// ViewModelInstance is a bound set of data-binding property values.
// Properties are addressed by slash-separated paths ("group/speed"),
// resolved with exact or case-folded matching per PathMatch.
type ViewModelInstance interface {
	// Value reads the property at path.
	Value(path string, m PathMatch) (Value, error)

	// SetValue writes the property at path. The value's type must match
	// the property's declared type.
	SetValue(path string, m PathMatch, v Value) error

	// FireTrigger fires the trigger property at path.
	FireTrigger(path string, m PathMatch) error

	// ListSize returns the length of the list property at path.
	ListSize(path string, m PathMatch) (int, error)

	// ListAppend appends v to the list property at path.
	ListAppend(path string, m PathMatch, v Value) error

	// ListRemove removes the element at index from the list property.
	ListRemove(path string, m PathMatch, index int) error

	// SetInstance binds another view-model instance as the nested
	// instance property at path.
	SetInstance(path string, m PathMatch, nested ViewModelInstance) error

	// Close releases the instance.
	Close()
}

// Renderer receives an artboard's draw output for one frame. Instances
// are created by a surface context's BeginFrame and become invalid when
// the frame is flushed.
type Renderer interface {
	// Save pushes the current transform onto a stack.
	Save()

	// Restore pops the transform stack.
	Restore()

	// Transform post-multiplies the current transform by the given
	// 2x3 affine matrix.
	Transform(m Matrix)
}

// RectFiller is the draw capability engines paint with: an
// axis-aligned rectangle in artboard coordinates, filled with a solid
// color under the renderer's current transform. Every surface backend's
// renderer implements it; engines obtain it by type-asserting the
// Renderer passed to Artboard.Draw.
type RectFiller interface {
	// FillRect fills the rectangle (x, y, w, h), mapped through the
	// current transform, with the packed 0xAARRGGBB color.
	FillRect(x, y, w, h float64, color uint32)
}
