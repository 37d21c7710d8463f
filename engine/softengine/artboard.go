// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package softengine

import (
	"fmt"

	"github.com/gogpu/motion/engine"
)

// artboard is one instantiated artboard: an independent copy of the
// definition's fill stack, so animations on one instance never bleed
// into another.
type artboard struct {
	def   *artboardDef
	name  string
	w, h  float32
	baseW float32
	baseH float32
	fills []fillDef
	bound engine.ViewModelInstance
}

var _ engine.Artboard = (*artboard)(nil)

func newArtboard(def *artboardDef) *artboard {
	fills := make([]fillDef, len(def.Fills))
	copy(fills, def.Fills)
	return &artboard{
		def:   def,
		name:  def.Name,
		w:     def.Width,
		h:     def.Height,
		baseW: def.Width,
		baseH: def.Height,
		fills: fills,
	}
}

// Name returns the artboard's name.
func (a *artboard) Name() string { return a.name }

// Size returns the current dimensions.
func (a *artboard) Size() (w, h float32) { return a.w, a.h }

// Resize changes the artboard's dimensions. Content authored against
// the original size is scaled proportionally at draw time.
func (a *artboard) Resize(w, h float32) {
	if w > 0 && h > 0 {
		a.w, a.h = w, h
	}
}

// StateMachine instantiates the named machine; empty name means the
// first one.
func (a *artboard) StateMachine(name string) (engine.StateMachine, error) {
	if len(a.def.Machines) == 0 {
		return nil, fmt.Errorf("%w: artboard %q has no state machines", ErrNotFound, a.name)
	}
	if name == "" {
		return newMachine(a, &a.def.Machines[0]), nil
	}
	for i := range a.def.Machines {
		if a.def.Machines[i].Name == name {
			return newMachine(a, &a.def.Machines[i]), nil
		}
	}
	return nil, fmt.Errorf("%w: state machine %q", ErrNotFound, name)
}

// Animation instantiates the named animation; empty name means the
// first one.
func (a *artboard) Animation(name string) (engine.Animation, error) {
	if len(a.def.Animations) == 0 {
		return nil, fmt.Errorf("%w: artboard %q has no animations", ErrNotFound, a.name)
	}
	if name == "" {
		return newAnimation(a, &a.def.Animations[0]), nil
	}
	for i := range a.def.Animations {
		if a.def.Animations[i].Name == name {
			return newAnimation(a, &a.def.Animations[i]), nil
		}
	}
	return nil, fmt.Errorf("%w: animation %q", ErrNotFound, name)
}

// Advance steps the transform and constraint graph. softengine's
// artboards have no constraints, so this only needs to exist.
func (a *artboard) Advance(dt float32) {}

// Draw paints the fill stack in order. Content is scaled from the
// authored size to the current size.
func (a *artboard) Draw(r engine.Renderer) {
	rf, ok := r.(engine.RectFiller)
	if !ok {
		return
	}
	r.Save()
	if a.w != a.baseW || a.h != a.baseH {
		r.Transform(engine.Scale(float64(a.w/a.baseW), float64(a.h/a.baseH)))
	}
	for _, f := range a.fills {
		rf.FillRect(f.X, f.Y, f.W, f.H, f.Color)
	}
	r.Restore()
}

// Bind attaches a view-model instance to the artboard.
func (a *artboard) Bind(vmi engine.ViewModelInstance) error {
	a.bound = vmi
	return nil
}

// Close releases the artboard.
func (a *artboard) Close() {
	a.fills = nil
	a.bound = nil
}
