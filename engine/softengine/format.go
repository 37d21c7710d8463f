// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package softengine

import (
	"encoding/json"
	"fmt"

	"github.com/gogpu/motion/engine"
)

// fileDef is the root of the JSON file format.
type fileDef struct {
	Artboards  []artboardDef  `json:"artboards"`
	ViewModels []viewModelDef `json:"viewModels"`
}

// artboardDef describes one artboard: a stack of solid-color fills plus
// the animations and state machines authored on it.
type artboardDef struct {
	Name       string         `json:"name"`
	Width      float32        `json:"width"`
	Height     float32        `json:"height"`
	Fills      []fillDef      `json:"fills"`
	Animations []animationDef `json:"animations"`
	Machines   []machineDef   `json:"machines"`
}

// fillDef is one solid-color rectangle in artboard coordinates.
type fillDef struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Color uint32  `json:"color"`
}

// animationDef interpolates one fill's color over a timeline.
type animationDef struct {
	Name     string  `json:"name"`
	Duration float64 `json:"duration"`
	Fill     int     `json:"fill"`
	From     uint32  `json:"from"`
	To       uint32  `json:"to"`
}

// machineDef describes a state machine: typed inputs and an activity
// budget. Every input write, trigger or pointer event re-arms the
// machine for SettleAfter seconds of simulated time.
type machineDef struct {
	Name        string     `json:"name"`
	Inputs      []inputDef `json:"inputs"`
	SettleAfter float64    `json:"settleAfter"`

	// Counts names a number property on the bound view-model instance
	// that each nonzero-delta advance increments. Empty disables it.
	Counts string `json:"counts"`
}

// inputDef is one state machine input.
type inputDef struct {
	Name string `json:"name"`
	Type string `json:"type"` // bool, number, trigger
	// Value is the initial value for bool and number inputs.
	Value json.RawMessage `json:"value"`
}

// viewModelDef is a view-model schema plus its named preset instances.
type viewModelDef struct {
	Name       string        `json:"name"`
	Properties []propertyDef `json:"properties"`
	Instances  []instanceDef `json:"instances"`
}

// propertyDef declares one property: a name, a type, and the default
// instance value.
type propertyDef struct {
	Name string `json:"name"`
	// Type is one of string, number, bool, color, enum, trigger, list,
	// instance.
	Type string `json:"type"`
	// Value is the default-instance value, absent for trigger/list.
	Value json.RawMessage `json:"value"`
	// ViewModel names the referenced schema for instance properties.
	ViewModel string `json:"viewModel"`
}

// instanceDef is a named preset: default values with overrides.
type instanceDef struct {
	Name   string                     `json:"name"`
	Values map[string]json.RawMessage `json:"values"`
}

func parseFile(data []byte) (*fileDef, error) {
	var def fileDef
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("softengine: parse file: %w", err)
	}
	for i := range def.Artboards {
		ab := &def.Artboards[i]
		if ab.Width <= 0 || ab.Height <= 0 {
			return nil, fmt.Errorf("softengine: artboard %q has invalid size %gx%g",
				ab.Name, ab.Width, ab.Height)
		}
		for _, anim := range ab.Animations {
			if anim.Fill < 0 || anim.Fill >= len(ab.Fills) {
				return nil, fmt.Errorf("softengine: animation %q targets fill %d of %d",
					anim.Name, anim.Fill, len(ab.Fills))
			}
			if anim.Duration <= 0 {
				return nil, fmt.Errorf("softengine: animation %q has duration %g",
					anim.Name, anim.Duration)
			}
		}
		for _, m := range ab.Machines {
			for _, in := range m.Inputs {
				switch in.Type {
				case "bool", "number", "trigger":
				default:
					return nil, fmt.Errorf("softengine: machine %q input %q has unknown type %q",
						m.Name, in.Name, in.Type)
				}
			}
		}
	}
	for _, vm := range def.ViewModels {
		for _, p := range vm.Properties {
			if _, err := propertyType(p.Type); err != nil {
				return nil, fmt.Errorf("softengine: view model %q: %w", vm.Name, err)
			}
		}
	}
	return &def, nil
}

// propertyType maps the JSON type names onto engine property types.
func propertyType(s string) (engine.PropertyType, error) {
	switch s {
	case "string":
		return engine.PropertyString, nil
	case "number":
		return engine.PropertyNumber, nil
	case "bool":
		return engine.PropertyBool, nil
	case "color":
		return engine.PropertyColor, nil
	case "enum":
		return engine.PropertyEnum, nil
	case "trigger":
		return engine.PropertyTrigger, nil
	case "list":
		return engine.PropertyList, nil
	case "instance":
		return engine.PropertyInstance, nil
	default:
		return 0, fmt.Errorf("%w: property type %q", ErrNotFound, s)
	}
}

// decodeValue converts a JSON raw value into a typed engine value.
func decodeValue(t engine.PropertyType, raw json.RawMessage) (engine.Value, error) {
	switch t {
	case engine.PropertyString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return engine.Value{}, fmt.Errorf("%w: want string", ErrTypeMismatch)
		}
		return engine.StringValue(s), nil
	case engine.PropertyNumber:
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return engine.Value{}, fmt.Errorf("%w: want number", ErrTypeMismatch)
		}
		return engine.NumberValue(n), nil
	case engine.PropertyBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return engine.Value{}, fmt.Errorf("%w: want bool", ErrTypeMismatch)
		}
		return engine.BoolValue(b), nil
	case engine.PropertyColor:
		var c uint32
		if err := json.Unmarshal(raw, &c); err != nil {
			return engine.Value{}, fmt.Errorf("%w: want color", ErrTypeMismatch)
		}
		return engine.ColorValue(c), nil
	case engine.PropertyEnum:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return engine.Value{}, fmt.Errorf("%w: want enum name", ErrTypeMismatch)
		}
		return engine.EnumValue(s), nil
	default:
		return engine.Value{}, fmt.Errorf("%w: type %s takes no value", ErrTypeMismatch, t)
	}
}

// zeroValue returns the blank-instance value for a property type.
func zeroValue(t engine.PropertyType) engine.Value {
	switch t {
	case engine.PropertyString:
		return engine.StringValue("")
	case engine.PropertyNumber:
		return engine.NumberValue(0)
	case engine.PropertyBool:
		return engine.BoolValue(false)
	case engine.PropertyColor:
		return engine.ColorValue(0)
	case engine.PropertyEnum:
		return engine.EnumValue("")
	default:
		return engine.Value{Type: t}
	}
}
