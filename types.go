// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package motion

import (
	"github.com/gogpu/motion/command"
	"github.com/gogpu/motion/engine"
)

// Handle types, re-exported so callers only import the root package.
type (
	// FileHandle identifies an imported file.
	FileHandle = command.FileHandle
	// ArtboardHandle identifies an instantiated artboard.
	ArtboardHandle = command.ArtboardHandle
	// StateMachineHandle identifies an instantiated state machine.
	StateMachineHandle = command.StateMachineHandle
	// AnimationHandle identifies an instantiated linear animation.
	AnimationHandle = command.AnimationHandle
	// ViewModelInstanceHandle identifies a view-model instance.
	ViewModelInstanceHandle = command.ViewModelInstanceHandle
	// RenderTargetHandle identifies a render target.
	RenderTargetHandle = command.RenderTargetHandle
	// DrawKey identifies one registered artboard/target draw binding.
	DrawKey = command.DrawKey
	// AssetHandle identifies a decoded image, audio or font asset.
	AssetHandle = command.AssetHandle
)

// Layout and playback types, re-exported from the engine package.
type (
	// Fit specifies how artboard content is scaled into a frame.
	Fit = engine.Fit
	// Alignment specifies where scaled content sits inside a frame.
	Alignment = engine.Alignment
	// LoopMode specifies animation end-of-timeline behavior.
	LoopMode = engine.LoopMode
	// Direction specifies animation playback direction.
	Direction = engine.Direction
	// Value is a tagged view-model property value.
	Value = engine.Value
	// Matrix is a 2x3 affine transform.
	Matrix = engine.Matrix
)

// Fit modes.
const (
	FitContain   = engine.FitContain
	FitCover     = engine.FitCover
	FitFill      = engine.FitFill
	FitWidth     = engine.FitWidth
	FitHeight    = engine.FitHeight
	FitNone      = engine.FitNone
	FitScaleDown = engine.FitScaleDown
	FitLayout    = engine.FitLayout
)

// Standard alignments.
var (
	AlignTopLeft      = engine.AlignTopLeft
	AlignTopCenter    = engine.AlignTopCenter
	AlignTopRight     = engine.AlignTopRight
	AlignCenterLeft   = engine.AlignCenterLeft
	AlignCenter       = engine.AlignCenter
	AlignCenterRight  = engine.AlignCenterRight
	AlignBottomLeft   = engine.AlignBottomLeft
	AlignBottomCenter = engine.AlignBottomCenter
	AlignBottomRight  = engine.AlignBottomRight
)

// Loop modes.
const (
	LoopOneShot  = engine.LoopOneShot
	LoopLoop     = engine.LoopLoop
	LoopPingPong = engine.LoopPingPong
)

// Playback directions.
const (
	DirectionBackwards = engine.DirectionBackwards
	DirectionAuto      = engine.DirectionAuto
	DirectionForwards  = engine.DirectionForwards
)

// Value constructors.
var (
	// StringValue constructs a string Value.
	StringValue = engine.StringValue
	// NumberValue constructs a number Value.
	NumberValue = engine.NumberValue
	// BoolValue constructs a boolean Value.
	BoolValue = engine.BoolValue
	// ColorValue constructs a color Value from packed 0xAARRGGBB.
	ColorValue = engine.ColorValue
	// EnumValue constructs an enum Value.
	EnumValue = engine.EnumValue
)

// Layout describes how an artboard is placed inside a frame, for
// mapping pointer positions back into artboard coordinates. It must
// match the layout the frame was drawn with.
type Layout struct {
	// Fit is the scaling mode the draw used.
	Fit Fit
	// Align is the alignment the draw used.
	Align Alignment
	// Width and Height are the frame dimensions in pixels.
	Width, Height float32
	// ScaleFactor is the layout scale factor (FitLayout only).
	ScaleFactor float32
}

// SpriteDraw is one artboard placement inside a batch draw: the draw
// key supplies the artboard and its fit/alignment, Transform is applied
// on top.
type SpriteDraw = command.SpriteDraw
