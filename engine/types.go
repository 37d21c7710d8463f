// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// representing the transformation:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{
		A: sx, B: 0, C: 0,
		D: 0, E: sy, F: 0,
	}
}

// Mul returns the matrix product m * n.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.D,
		B: m.A*n.B + m.B*n.E,
		C: m.A*n.C + m.B*n.F + m.C,
		D: m.D*n.A + m.E*n.D,
		E: m.D*n.B + m.E*n.E,
		F: m.D*n.C + m.E*n.F + m.F,
	}
}

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// Invert returns the inverse matrix and whether m is invertible.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.A*m.E - m.B*m.D
	if det == 0 {
		return Identity(), false
	}
	inv := 1 / det
	return Matrix{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.E*m.C) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.D*m.C - m.A*m.F) * inv,
	}, true
}

// --------------------------------------------------------------------------
// Layout
// --------------------------------------------------------------------------

// Fit specifies how artboard content is scaled into a frame.
type Fit uint8

const (
	// FitContain scales uniformly so the whole artboard is visible.
	FitContain Fit = iota
	// FitCover scales uniformly so the artboard covers the whole frame.
	FitCover
	// FitFill scales non-uniformly to exactly fill the frame.
	FitFill
	// FitWidth scales uniformly to match the frame width.
	FitWidth
	// FitHeight scales uniformly to match the frame height.
	FitHeight
	// FitNone performs no scaling.
	FitNone
	// FitScaleDown is FitContain, but never scales up.
	FitScaleDown
	// FitLayout resizes the artboard itself to the frame, scaled by the
	// caller-provided layout scale factor.
	FitLayout
)

// fitNames maps Fit values to their string representation.
var fitNames = [...]string{
	FitContain:   "Contain",
	FitCover:     "Cover",
	FitFill:      "Fill",
	FitWidth:     "Width",
	FitHeight:    "Height",
	FitNone:      "None",
	FitScaleDown: "ScaleDown",
	FitLayout:    "Layout",
}

// String returns the string representation of a Fit.
func (f Fit) String() string {
	if int(f) < len(fitNames) {
		return fitNames[f]
	}
	return "Unknown"
}

// Alignment specifies where scaled content sits inside a frame.
// X and Y range over [-1, 1]: -1 is left/top, 0 is center, 1 is
// right/bottom.
type Alignment struct {
	X, Y float64
}

// Standard alignments.
var (
	AlignTopLeft      = Alignment{-1, -1}
	AlignTopCenter    = Alignment{0, -1}
	AlignTopRight     = Alignment{1, -1}
	AlignCenterLeft   = Alignment{-1, 0}
	AlignCenter       = Alignment{0, 0}
	AlignCenterRight  = Alignment{1, 0}
	AlignBottomLeft   = Alignment{-1, 1}
	AlignBottomCenter = Alignment{0, 1}
	AlignBottomRight  = Alignment{1, 1}
)

// --------------------------------------------------------------------------
// Animation playback
// --------------------------------------------------------------------------

// LoopMode specifies what an animation does when its playhead reaches
// the end of the timeline.
type LoopMode uint8

const (
	// LoopOneShot plays once and stops.
	LoopOneShot LoopMode = iota
	// LoopLoop wraps back to the start.
	LoopLoop
	// LoopPingPong reverses direction at each end.
	LoopPingPong
)

// loopModeNames maps LoopMode values to their string representation.
var loopModeNames = [...]string{
	LoopOneShot:  "OneShot",
	LoopLoop:     "Loop",
	LoopPingPong: "PingPong",
}

// String returns the string representation of a LoopMode.
func (m LoopMode) String() string {
	if int(m) < len(loopModeNames) {
		return loopModeNames[m]
	}
	return "Unknown"
}

// Direction specifies animation playback direction.
type Direction int8

const (
	// DirectionBackwards plays the timeline in reverse.
	DirectionBackwards Direction = -1
	// DirectionAuto keeps the direction authored in the file.
	DirectionAuto Direction = 0
	// DirectionForwards plays the timeline forward.
	DirectionForwards Direction = 1
)

// --------------------------------------------------------------------------
// View-model properties
// --------------------------------------------------------------------------

// PathMatch selects how property paths are resolved.
type PathMatch uint8

const (
	// MatchExact requires byte-for-byte path equality.
	MatchExact PathMatch = iota
	// MatchFold resolves paths case-insensitively (Unicode case folding).
	MatchFold
)

// PropertyType identifies the declared type of a view-model property.
type PropertyType uint8

const (
	// PropertyString is a string property.
	PropertyString PropertyType = iota
	// PropertyNumber is a floating-point property.
	PropertyNumber
	// PropertyBool is a boolean property.
	PropertyBool
	// PropertyColor is a packed 0xAARRGGBB color property.
	PropertyColor
	// PropertyEnum is a named enum value property.
	PropertyEnum
	// PropertyTrigger is a fire-only trigger property.
	PropertyTrigger
	// PropertyList is a list of view-model instances or values.
	PropertyList
	// PropertyInstance is a nested view-model instance property.
	PropertyInstance
)

// propertyTypeNames maps PropertyType values to their string representation.
var propertyTypeNames = [...]string{
	PropertyString:   "String",
	PropertyNumber:   "Number",
	PropertyBool:     "Bool",
	PropertyColor:    "Color",
	PropertyEnum:     "Enum",
	PropertyTrigger:  "Trigger",
	PropertyList:     "List",
	PropertyInstance: "Instance",
}

// String returns the string representation of a PropertyType.
func (t PropertyType) String() string {
	if int(t) < len(propertyTypeNames) {
		return propertyTypeNames[t]
	}
	return "Unknown"
}

// Value is a tagged view-model property value. Only the field matching
// Type is meaningful.
type Value struct {
	// Type is the value's property type.
	Type PropertyType
	// Str holds PropertyString and PropertyEnum payloads.
	Str string
	// Num holds PropertyNumber payloads.
	Num float64
	// Bool holds PropertyBool payloads.
	Bool bool
	// Color holds PropertyColor payloads as 0xAARRGGBB.
	Color uint32
}

// StringValue constructs a string Value.
func StringValue(s string) Value { return Value{Type: PropertyString, Str: s} }

// NumberValue constructs a number Value.
func NumberValue(n float64) Value { return Value{Type: PropertyNumber, Num: n} }

// BoolValue constructs a boolean Value.
func BoolValue(b bool) Value { return Value{Type: PropertyBool, Bool: b} }

// ColorValue constructs a color Value from packed 0xAARRGGBB.
func ColorValue(c uint32) Value { return Value{Type: PropertyColor, Color: c} }

// EnumValue constructs an enum Value.
func EnumValue(name string) Value { return Value{Type: PropertyEnum, Str: name} }

// Equal reports whether two values have the same type and payload.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case PropertyString, PropertyEnum:
		return v.Str == o.Str
	case PropertyNumber:
		return v.Num == o.Num
	case PropertyBool:
		return v.Bool == o.Bool
	case PropertyColor:
		return v.Color == o.Color
	default:
		return false
	}
}
