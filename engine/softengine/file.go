// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package softengine

import (
	"fmt"

	"github.com/gogpu/motion/engine"
)

// file implements engine.File over a parsed JSON document.
type file struct {
	def    *fileDef
	closed bool
}

var _ engine.File = (*file)(nil)

// ArtboardNames returns the names of all artboards in the file.
func (f *file) ArtboardNames() []string {
	names := make([]string, len(f.def.Artboards))
	for i, ab := range f.def.Artboards {
		names[i] = ab.Name
	}
	return names
}

// Artboard instantiates the named artboard; an empty name instantiates
// the first one. Each call yields an independent instance.
func (f *file) Artboard(name string) (engine.Artboard, error) {
	if f.closed {
		return nil, ErrClosed
	}
	def, err := f.artboardDef(name)
	if err != nil {
		return nil, err
	}
	return newArtboard(def), nil
}

func (f *file) artboardDef(name string) (*artboardDef, error) {
	if len(f.def.Artboards) == 0 {
		return nil, fmt.Errorf("%w: file has no artboards", ErrNotFound)
	}
	if name == "" {
		return &f.def.Artboards[0], nil
	}
	for i := range f.def.Artboards {
		if f.def.Artboards[i].Name == name {
			return &f.def.Artboards[i], nil
		}
	}
	return nil, fmt.Errorf("%w: artboard %q", ErrNotFound, name)
}

// ViewModelNames returns the names of all view models in the file.
func (f *file) ViewModelNames() []string {
	names := make([]string, len(f.def.ViewModels))
	for i, vm := range f.def.ViewModels {
		names[i] = vm.Name
	}
	return names
}

// BlankViewModelInstance creates an instance with zero-valued
// properties.
func (f *file) BlankViewModelInstance(viewModel string) (engine.ViewModelInstance, error) {
	return f.newInstance(viewModel, "", false)
}

// DefaultViewModelInstance creates an instance with the schema's
// default values.
func (f *file) DefaultViewModelInstance(viewModel string) (engine.ViewModelInstance, error) {
	return f.newInstance(viewModel, "", true)
}

// NamedViewModelInstance creates an instance from a named preset:
// default values with the preset's overrides applied.
func (f *file) NamedViewModelInstance(viewModel, instance string) (engine.ViewModelInstance, error) {
	if instance == "" {
		return nil, fmt.Errorf("%w: empty instance name", ErrNotFound)
	}
	return f.newInstance(viewModel, instance, true)
}

func (f *file) newInstance(viewModel, preset string, defaults bool) (engine.ViewModelInstance, error) {
	if f.closed {
		return nil, ErrClosed
	}
	var schema *viewModelDef
	for i := range f.def.ViewModels {
		if f.def.ViewModels[i].Name == viewModel {
			schema = &f.def.ViewModels[i]
			break
		}
	}
	if schema == nil {
		return nil, fmt.Errorf("%w: view model %q", ErrNotFound, viewModel)
	}

	var presetDef *instanceDef
	if preset != "" {
		for i := range schema.Instances {
			if schema.Instances[i].Name == preset {
				presetDef = &schema.Instances[i]
				break
			}
		}
		if presetDef == nil {
			return nil, fmt.Errorf("%w: view model %q has no instance %q",
				ErrNotFound, viewModel, preset)
		}
	}

	inst := &vmInstance{props: make(map[string]*property, len(schema.Properties))}
	for i := range schema.Properties {
		pd := &schema.Properties[i]
		t, err := propertyType(pd.Type)
		if err != nil {
			return nil, err
		}
		p := &property{name: pd.Name, typ: t, value: zeroValue(t)}

		if defaults && pd.Value != nil {
			v, err := decodeValue(t, pd.Value)
			if err != nil {
				return nil, fmt.Errorf("softengine: property %q default: %w", pd.Name, err)
			}
			p.value = v
		}
		if presetDef != nil {
			if raw, ok := presetDef.Values[pd.Name]; ok {
				v, err := decodeValue(t, raw)
				if err != nil {
					return nil, fmt.Errorf("softengine: preset %q property %q: %w",
						preset, pd.Name, err)
				}
				p.value = v
			}
		}
		inst.props[pd.Name] = p
		inst.order = append(inst.order, p)
	}
	return inst, nil
}

// Close releases the file. Artboards and instances created from it stay
// valid; they copied what they need.
func (f *file) Close() {
	f.closed = true
}
