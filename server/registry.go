// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"errors"
	"fmt"

	"github.com/gogpu/motion/command"
	"github.com/gogpu/motion/engine"
	"github.com/gogpu/motion/surface"
)

// Common registry errors.
var (
	// ErrInvalidHandle is returned when a command references a handle
	// that was never created, was already deleted, or is of the wrong
	// kind for the operation.
	ErrInvalidHandle = errors.New("server: invalid handle")
)

// artboardEntry pairs an artboard with the file it was created from,
// so file deletion can cascade.
type artboardEntry struct {
	ab   engine.Artboard
	file command.FileHandle
}

// machineEntry tracks one state machine and its settle state.
type machineEntry struct {
	sm       engine.StateMachine
	artboard command.ArtboardHandle

	// playing is true while the machine is in the active set. It flips
	// to false only after the machine has reported settled and the
	// settle grace has been exhausted with nonzero-delta advances.
	playing bool

	// grace counts the remaining nonzero-delta advances to run after
	// the machine first reports settled, before trusting the report.
	grace int
}

// animationEntry tracks one linear animation and its owning artboard.
type animationEntry struct {
	anim     engine.Animation
	artboard command.ArtboardHandle
	running  bool
}

// instanceEntry pairs a view-model instance with its creating file.
type instanceEntry struct {
	vmi  engine.ViewModelInstance
	file command.FileHandle
}

// drawEntry is one registered artboard/target draw binding.
type drawEntry struct {
	target      command.RenderTargetHandle
	artboard    command.ArtboardHandle
	fit         engine.Fit
	align       engine.Alignment
	scaleFactor float32
}

// registry owns every live engine resource, keyed by handle.
//
// The registry is manipulated exclusively inside worker-goroutine
// command handlers; single-writer ownership is what makes it lock-free.
// Handles come from one monotonic counter, so no two resources of any
// kind ever share a handle value and stale handles always miss.
type registry struct {
	next uint64

	files      map[command.FileHandle]engine.File
	artboards  map[command.ArtboardHandle]*artboardEntry
	machines   map[command.StateMachineHandle]*machineEntry
	animations map[command.AnimationHandle]*animationEntry
	instances  map[command.ViewModelInstanceHandle]*instanceEntry
	targets    map[command.RenderTargetHandle]surface.Target
	draws      map[command.DrawKey]*drawEntry
	assets     map[command.AssetHandle]engine.Asset
}

func newRegistry() *registry {
	return &registry{
		files:      make(map[command.FileHandle]engine.File),
		artboards:  make(map[command.ArtboardHandle]*artboardEntry),
		machines:   make(map[command.StateMachineHandle]*machineEntry),
		animations: make(map[command.AnimationHandle]*animationEntry),
		instances:  make(map[command.ViewModelInstanceHandle]*instanceEntry),
		targets:    make(map[command.RenderTargetHandle]surface.Target),
		draws:      make(map[command.DrawKey]*drawEntry),
		assets:     make(map[command.AssetHandle]engine.Asset),
	}
}

// nextHandle allocates the next handle value. Zero is never returned.
func (r *registry) nextHandle() command.Handle {
	r.next++
	return command.Handle(r.next)
}

// --------------------------------------------------------------------------
// Lookups
// --------------------------------------------------------------------------

func (r *registry) file(h command.FileHandle) (engine.File, error) {
	f, ok := r.files[h]
	if !ok {
		return nil, fmt.Errorf("%w: file %d", ErrInvalidHandle, h)
	}
	return f, nil
}

func (r *registry) artboard(h command.ArtboardHandle) (*artboardEntry, error) {
	e, ok := r.artboards[h]
	if !ok {
		return nil, fmt.Errorf("%w: artboard %d", ErrInvalidHandle, h)
	}
	return e, nil
}

func (r *registry) machine(h command.StateMachineHandle) (*machineEntry, error) {
	e, ok := r.machines[h]
	if !ok {
		return nil, fmt.Errorf("%w: state machine %d", ErrInvalidHandle, h)
	}
	return e, nil
}

func (r *registry) animation(h command.AnimationHandle) (*animationEntry, error) {
	e, ok := r.animations[h]
	if !ok {
		return nil, fmt.Errorf("%w: animation %d", ErrInvalidHandle, h)
	}
	return e, nil
}

func (r *registry) instance(h command.ViewModelInstanceHandle) (*instanceEntry, error) {
	e, ok := r.instances[h]
	if !ok {
		return nil, fmt.Errorf("%w: view-model instance %d", ErrInvalidHandle, h)
	}
	return e, nil
}

func (r *registry) target(h command.RenderTargetHandle) (surface.Target, error) {
	t, ok := r.targets[h]
	if !ok {
		return nil, fmt.Errorf("%w: render target %d", ErrInvalidHandle, h)
	}
	return t, nil
}

func (r *registry) draw(k command.DrawKey) (*drawEntry, error) {
	d, ok := r.draws[k]
	if !ok {
		return nil, fmt.Errorf("%w: draw key %d", ErrInvalidHandle, k)
	}
	return d, nil
}

func (r *registry) asset(h command.AssetHandle) (engine.Asset, error) {
	a, ok := r.assets[h]
	if !ok {
		return nil, fmt.Errorf("%w: asset %d", ErrInvalidHandle, h)
	}
	return a, nil
}

// machineAdvancing reports whether any state machine in the active set
// drives the given artboard. Linear animations only advance the
// artboard's own transform graph when no machine does.
func (r *registry) machineAdvancing(ab command.ArtboardHandle) bool {
	for _, e := range r.machines {
		if e.artboard == ab && e.playing {
			return true
		}
	}
	return false
}

// --------------------------------------------------------------------------
// Deletion (cascading)
//
// Deletion cascades from the creating ancestor: deleting a file deletes
// every artboard and view-model instance created from it; deleting an
// artboard deletes its state machines, animations, and draw bindings.
// The policy is uniform across resource kinds.
// --------------------------------------------------------------------------

func (r *registry) deleteFile(h command.FileHandle) error {
	f, err := r.file(h)
	if err != nil {
		return err
	}
	for ah, e := range r.artboards {
		if e.file == h {
			r.deleteArtboardLocked(ah, e)
		}
	}
	for vh, e := range r.instances {
		if e.file == h {
			e.vmi.Close()
			delete(r.instances, vh)
		}
	}
	f.Close()
	delete(r.files, h)
	return nil
}

func (r *registry) deleteArtboard(h command.ArtboardHandle) error {
	e, err := r.artboard(h)
	if err != nil {
		return err
	}
	r.deleteArtboardLocked(h, e)
	return nil
}

func (r *registry) deleteArtboardLocked(h command.ArtboardHandle, e *artboardEntry) {
	for mh, m := range r.machines {
		if m.artboard == h {
			m.sm.Close()
			delete(r.machines, mh)
		}
	}
	for ah, a := range r.animations {
		if a.artboard == h {
			a.anim.Close()
			delete(r.animations, ah)
		}
	}
	for dk, d := range r.draws {
		if d.artboard == h {
			delete(r.draws, dk)
		}
	}
	e.ab.Close()
	delete(r.artboards, h)
}

func (r *registry) deleteMachine(h command.StateMachineHandle) error {
	e, err := r.machine(h)
	if err != nil {
		return err
	}
	e.sm.Close()
	delete(r.machines, h)
	return nil
}

func (r *registry) deleteAnimation(h command.AnimationHandle) error {
	e, err := r.animation(h)
	if err != nil {
		return err
	}
	e.anim.Close()
	delete(r.animations, h)
	return nil
}

func (r *registry) deleteInstance(h command.ViewModelInstanceHandle) error {
	e, err := r.instance(h)
	if err != nil {
		return err
	}
	e.vmi.Close()
	delete(r.instances, h)
	return nil
}

func (r *registry) deleteTarget(h command.RenderTargetHandle) error {
	t, err := r.target(h)
	if err != nil {
		return err
	}
	for dk, d := range r.draws {
		if d.target == h {
			delete(r.draws, dk)
		}
	}
	t.Destroy()
	delete(r.targets, h)
	return nil
}

func (r *registry) deleteAsset(h command.AssetHandle) error {
	a, err := r.asset(h)
	if err != nil {
		return err
	}
	a.Close()
	delete(r.assets, h)
	return nil
}

// releaseAll tears down every live resource, children before parents.
// Called once during worker shutdown.
func (r *registry) releaseAll() {
	for _, e := range r.machines {
		e.sm.Close()
	}
	for _, e := range r.animations {
		e.anim.Close()
	}
	for _, e := range r.instances {
		e.vmi.Close()
	}
	for _, e := range r.artboards {
		e.ab.Close()
	}
	for _, f := range r.files {
		f.Close()
	}
	for _, t := range r.targets {
		t.Destroy()
	}
	for _, a := range r.assets {
		a.Close()
	}
	clear(r.machines)
	clear(r.animations)
	clear(r.instances)
	clear(r.artboards)
	clear(r.files)
	clear(r.targets)
	clear(r.draws)
	clear(r.assets)
}
