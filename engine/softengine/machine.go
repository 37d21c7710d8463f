// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package softengine

import (
	"encoding/json"
	"fmt"

	"github.com/gogpu/motion/engine"
)

// machine is one instantiated state machine. It models activity with a
// time budget: every input write, trigger and pointer event re-arms the
// machine for SettleAfter seconds, and Advance drains the budget.
type machine struct {
	ab  *artboard
	def *machineDef

	bools    map[string]bool
	numbers  map[string]float64
	triggers map[string]struct{}

	remaining float64
	bound     engine.ViewModelInstance
}

var _ engine.StateMachine = (*machine)(nil)

func newMachine(ab *artboard, def *machineDef) *machine {
	m := &machine{
		ab:       ab,
		def:      def,
		bools:    make(map[string]bool),
		numbers:  make(map[string]float64),
		triggers: make(map[string]struct{}),
		// Machines start armed: a freshly created machine needs at
		// least one advance to evaluate its entry state.
		remaining: def.SettleAfter,
	}
	for _, in := range def.Inputs {
		switch in.Type {
		case "bool":
			v := false
			if in.Value != nil {
				_ = json.Unmarshal(in.Value, &v)
			}
			m.bools[in.Name] = v
		case "number":
			v := 0.0
			if in.Value != nil {
				_ = json.Unmarshal(in.Value, &v)
			}
			m.numbers[in.Name] = v
		case "trigger":
			m.triggers[in.Name] = struct{}{}
		}
	}
	return m
}

// Advance drains the activity budget by dt seconds and reports whether
// the machine still needs future advancement. It also increments the
// configured frame counter on the bound view-model instance, modeling
// an engine that writes data-binding values during simulation.
func (m *machine) Advance(dt float32) bool {
	if dt > 0 {
		m.remaining -= float64(dt)
		m.countFrame()
	}
	m.ab.Advance(dt)
	return m.remaining > 0
}

func (m *machine) countFrame() {
	if m.def.Counts == "" || m.bound == nil {
		return
	}
	v, err := m.bound.Value(m.def.Counts, engine.MatchExact)
	if err != nil || v.Type != engine.PropertyNumber {
		return
	}
	_ = m.bound.SetValue(m.def.Counts, engine.MatchExact, engine.NumberValue(v.Num+1))
}

// arm re-starts the activity budget.
func (m *machine) arm() {
	m.remaining = m.def.SettleAfter
}

// SetBool sets a boolean input.
func (m *machine) SetBool(name string, v bool) error {
	if _, ok := m.bools[name]; !ok {
		return fmt.Errorf("%w: bool input %q", ErrNotFound, name)
	}
	m.bools[name] = v
	m.arm()
	return nil
}

// SetNumber sets a numeric input.
func (m *machine) SetNumber(name string, v float64) error {
	if _, ok := m.numbers[name]; !ok {
		return fmt.Errorf("%w: number input %q", ErrNotFound, name)
	}
	m.numbers[name] = v
	m.arm()
	return nil
}

// Bool reads a boolean input.
func (m *machine) Bool(name string) (bool, error) {
	v, ok := m.bools[name]
	if !ok {
		return false, fmt.Errorf("%w: bool input %q", ErrNotFound, name)
	}
	return v, nil
}

// Number reads a numeric input.
func (m *machine) Number(name string) (float64, error) {
	v, ok := m.numbers[name]
	if !ok {
		return 0, fmt.Errorf("%w: number input %q", ErrNotFound, name)
	}
	return v, nil
}

// FireTrigger fires a trigger input.
func (m *machine) FireTrigger(name string) error {
	if _, ok := m.triggers[name]; !ok {
		return fmt.Errorf("%w: trigger %q", ErrNotFound, name)
	}
	m.arm()
	return nil
}

// Pointer events re-arm the machine; hit testing is out of scope for
// the reference engine.
func (m *machine) PointerMove(x, y float32) { m.arm() }
func (m *machine) PointerDown(x, y float32) { m.arm() }
func (m *machine) PointerUp(x, y float32)   { m.arm() }
func (m *machine) PointerExit(x, y float32) { m.arm() }

// Bind attaches a view-model instance to the machine.
func (m *machine) Bind(vmi engine.ViewModelInstance) error {
	m.bound = vmi
	return nil
}

// Close releases the machine.
func (m *machine) Close() {
	m.bound = nil
	m.ab = nil
}
