// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package softengine

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/gogpu/motion/engine"
)

// folder performs Unicode case folding for fuzzy path matching.
var folder = cases.Fold()

// property is one live property slot on an instance.
type property struct {
	name   string
	typ    engine.PropertyType
	value  engine.Value
	list   []engine.Value
	nested engine.ViewModelInstance
}

// vmInstance implements engine.ViewModelInstance: a property store
// addressed by slash-separated paths, descending through nested
// instances.
type vmInstance struct {
	props map[string]*property
	order []*property
}

var _ engine.ViewModelInstance = (*vmInstance)(nil)

// resolve finds the property for a path, descending into nested
// instances for all but the last segment. It returns the owning
// instance too, so a multi-level write lands on the right store.
func (v *vmInstance) resolve(path string, m engine.PathMatch) (*property, error) {
	head, rest, nested := strings.Cut(path, "/")
	p, err := v.property(head, m)
	if err != nil {
		return nil, err
	}
	if !nested {
		return p, nil
	}
	if p.typ != engine.PropertyInstance {
		return nil, fmt.Errorf("%w: %q is %s, not an instance", ErrTypeMismatch, head, p.typ)
	}
	if p.nested == nil {
		return nil, fmt.Errorf("%w: instance %q is unset", ErrNotFound, head)
	}
	inner, ok := p.nested.(*vmInstance)
	if !ok {
		return nil, fmt.Errorf("%w: foreign nested instance in %q", ErrTypeMismatch, head)
	}
	return inner.resolve(rest, m)
}

func (v *vmInstance) property(name string, m engine.PathMatch) (*property, error) {
	if p, ok := v.props[name]; ok {
		return p, nil
	}
	if m == engine.MatchFold {
		want := folder.String(name)
		for _, p := range v.order {
			if folder.String(p.name) == want {
				return p, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: property %q", ErrNotFound, name)
}

// Value reads the property at path.
func (v *vmInstance) Value(path string, m engine.PathMatch) (engine.Value, error) {
	p, err := v.resolve(path, m)
	if err != nil {
		return engine.Value{}, err
	}
	switch p.typ {
	case engine.PropertyTrigger, engine.PropertyList, engine.PropertyInstance:
		return engine.Value{}, fmt.Errorf("%w: %q (%s) has no scalar value",
			ErrTypeMismatch, path, p.typ)
	}
	return p.value, nil
}

// SetValue writes the property at path. The value's type must match the
// declared type.
func (v *vmInstance) SetValue(path string, m engine.PathMatch, val engine.Value) error {
	p, err := v.resolve(path, m)
	if err != nil {
		return err
	}
	if val.Type != p.typ {
		return fmt.Errorf("%w: %q is %s, got %s", ErrTypeMismatch, path, p.typ, val.Type)
	}
	p.value = val
	return nil
}

// FireTrigger fires the trigger property at path.
func (v *vmInstance) FireTrigger(path string, m engine.PathMatch) error {
	p, err := v.resolve(path, m)
	if err != nil {
		return err
	}
	if p.typ != engine.PropertyTrigger {
		return fmt.Errorf("%w: %q is %s, not Trigger", ErrTypeMismatch, path, p.typ)
	}
	return nil
}

// ListSize returns the length of the list property at path.
func (v *vmInstance) ListSize(path string, m engine.PathMatch) (int, error) {
	p, err := v.listProperty(path, m)
	if err != nil {
		return 0, err
	}
	return len(p.list), nil
}

// ListAppend appends a value to the list property at path.
func (v *vmInstance) ListAppend(path string, m engine.PathMatch, val engine.Value) error {
	p, err := v.listProperty(path, m)
	if err != nil {
		return err
	}
	p.list = append(p.list, val)
	return nil
}

// ListRemove removes the element at index from the list property.
func (v *vmInstance) ListRemove(path string, m engine.PathMatch, index int) error {
	p, err := v.listProperty(path, m)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(p.list) {
		return fmt.Errorf("%w: list index %d of %d", ErrNotFound, index, len(p.list))
	}
	p.list = append(p.list[:index], p.list[index+1:]...)
	return nil
}

func (v *vmInstance) listProperty(path string, m engine.PathMatch) (*property, error) {
	p, err := v.resolve(path, m)
	if err != nil {
		return nil, err
	}
	if p.typ != engine.PropertyList {
		return nil, fmt.Errorf("%w: %q is %s, not List", ErrTypeMismatch, path, p.typ)
	}
	return p, nil
}

// SetInstance binds another instance as the nested instance property at
// path.
func (v *vmInstance) SetInstance(path string, m engine.PathMatch, nested engine.ViewModelInstance) error {
	p, err := v.resolve(path, m)
	if err != nil {
		return err
	}
	if p.typ != engine.PropertyInstance {
		return fmt.Errorf("%w: %q is %s, not Instance", ErrTypeMismatch, path, p.typ)
	}
	p.nested = nested
	return nil
}

// Close releases the instance.
func (v *vmInstance) Close() {
	v.props = nil
	v.order = nil
}
