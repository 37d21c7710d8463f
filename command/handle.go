// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

// Handle is an opaque identifier for one live engine resource.
//
// Handles are allocated from a single monotonically increasing 64-bit
// counter per queue and are never reused within the queue's lifetime,
// so a stale handle is always detected as "not found" rather than
// aliasing a newer resource. Zero is reserved as the invalid sentinel;
// valid handles start at one.
type Handle uint64

// InvalidHandle is the sentinel value for an invalid handle.
const InvalidHandle Handle = 0

// FileHandle identifies an imported file.
type FileHandle Handle

// ArtboardHandle identifies an instantiated artboard.
type ArtboardHandle Handle

// StateMachineHandle identifies an instantiated state machine.
type StateMachineHandle Handle

// AnimationHandle identifies an instantiated linear animation.
type AnimationHandle Handle

// ViewModelInstanceHandle identifies a view-model instance.
type ViewModelInstanceHandle Handle

// RenderTargetHandle identifies a render target.
type RenderTargetHandle Handle

// DrawKey identifies one registered artboard/target draw binding.
type DrawKey Handle

// AssetHandle identifies a decoded image, audio or font asset.
type AssetHandle Handle

// IsValid reports whether the handle refers to a created resource.
func (h FileHandle) IsValid() bool { return h != 0 }

// IsValid reports whether the handle refers to a created resource.
func (h ArtboardHandle) IsValid() bool { return h != 0 }

// IsValid reports whether the handle refers to a created resource.
func (h StateMachineHandle) IsValid() bool { return h != 0 }

// IsValid reports whether the handle refers to a created resource.
func (h AnimationHandle) IsValid() bool { return h != 0 }

// IsValid reports whether the handle refers to a created resource.
func (h ViewModelInstanceHandle) IsValid() bool { return h != 0 }

// IsValid reports whether the handle refers to a created resource.
func (h RenderTargetHandle) IsValid() bool { return h != 0 }

// IsValid reports whether the key refers to a registered draw binding.
func (h DrawKey) IsValid() bool { return h != 0 }

// IsValid reports whether the handle refers to a decoded asset.
func (h AssetHandle) IsValid() bool { return h != 0 }
