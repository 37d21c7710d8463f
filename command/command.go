// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package command defines the wire protocol between the motion queue
// façade and its command server: typed Command records flowing from
// caller goroutines to the worker, Message records flowing back, and
// the channels that carry them.
//
// Commands are immutable once constructed; ownership transfers to the
// channel on enqueue and the worker consumes each exactly once.
package command

import "github.com/gogpu/motion/engine"

// Kind identifies the type of a command.
type Kind uint8

const (
	// Queue lifecycle
	KindStop    Kind = iota // Stop the worker loop
	KindRunOnce             // Run a closure on the worker and wait

	// Files
	KindLoadFile   // Import a file from bytes
	KindDeleteFile // Release a file

	// Artboards
	KindCreateArtboard // Instantiate an artboard from a file
	KindResizeArtboard // Change artboard dimensions
	KindDeleteArtboard // Release an artboard

	// State machines
	KindCreateStateMachine  // Instantiate a state machine
	KindAdvanceStateMachine // Advance a state machine's simulation
	KindSetBoolInput        // Set a boolean input
	KindSetNumberInput      // Set a numeric input
	KindFireTrigger         // Fire a trigger input
	KindGetBoolInput        // Read a boolean input
	KindGetNumberInput      // Read a numeric input
	KindDeleteStateMachine  // Release a state machine

	// Animations
	KindCreateAnimation  // Instantiate a linear animation
	KindAdvanceAnimation // Advance and apply an animation
	KindSetLoopMode      // Set an animation's loop mode
	KindSetDirection     // Set an animation's playback direction
	KindDeleteAnimation  // Release an animation

	// View-model instances
	KindCreateViewModelInstance // Instantiate a view model
	KindSetProperty             // Write a property value
	KindGetProperty             // Read a property value
	KindFirePropertyTrigger     // Fire a trigger property
	KindListAppend              // Append to a list property
	KindListRemove              // Remove from a list property
	KindGetListSize             // Read a list property's length
	KindSetNestedInstance       // Bind a nested view-model instance
	KindSubscribeProperty       // Subscribe to property changes
	KindUnsubscribeProperty     // Cancel a property subscription
	KindBindViewModel           // Bind an instance to an artboard or machine
	KindDeleteViewModelInstance // Release a view-model instance

	// Pointer input
	KindPointerMove // Forward a pointer move
	KindPointerDown // Forward a pointer press
	KindPointerUp   // Forward a pointer release
	KindPointerExit // Forward a pointer exit

	// Rendering
	KindCreateRenderTarget  // Create a drawable render target
	KindDestroyRenderTarget // Release a render target
	KindRegisterDraw        // Bind an artboard to a target, yielding a draw key
	KindUnregisterDraw      // Release a draw key
	KindDraw                // Draw one registered binding
	KindDrawToBuffer        // Draw and read pixels back into a caller buffer
	KindDrawSprites         // Draw a batch of sprites to one target

	// Asset decoding
	KindDecodeImage // Decode an image asset
	KindDecodeAudio // Decode an audio asset
	KindDecodeFont  // Decode a font asset
	KindDeleteAsset // Release a decoded asset
)

// kindNames maps Kind values to their string representation.
var kindNames = [...]string{
	KindStop:                    "Stop",
	KindRunOnce:                 "RunOnce",
	KindLoadFile:                "LoadFile",
	KindDeleteFile:              "DeleteFile",
	KindCreateArtboard:          "CreateArtboard",
	KindResizeArtboard:          "ResizeArtboard",
	KindDeleteArtboard:          "DeleteArtboard",
	KindCreateStateMachine:      "CreateStateMachine",
	KindAdvanceStateMachine:     "AdvanceStateMachine",
	KindSetBoolInput:            "SetBoolInput",
	KindSetNumberInput:          "SetNumberInput",
	KindFireTrigger:             "FireTrigger",
	KindGetBoolInput:            "GetBoolInput",
	KindGetNumberInput:          "GetNumberInput",
	KindDeleteStateMachine:      "DeleteStateMachine",
	KindCreateAnimation:         "CreateAnimation",
	KindAdvanceAnimation:        "AdvanceAnimation",
	KindSetLoopMode:             "SetLoopMode",
	KindSetDirection:            "SetDirection",
	KindDeleteAnimation:         "DeleteAnimation",
	KindCreateViewModelInstance: "CreateViewModelInstance",
	KindSetProperty:             "SetProperty",
	KindGetProperty:             "GetProperty",
	KindFirePropertyTrigger:     "FirePropertyTrigger",
	KindListAppend:              "ListAppend",
	KindListRemove:              "ListRemove",
	KindGetListSize:             "GetListSize",
	KindSetNestedInstance:       "SetNestedInstance",
	KindSubscribeProperty:       "SubscribeProperty",
	KindUnsubscribeProperty:     "UnsubscribeProperty",
	KindBindViewModel:           "BindViewModel",
	KindDeleteViewModelInstance: "DeleteViewModelInstance",
	KindPointerMove:             "PointerMove",
	KindPointerDown:             "PointerDown",
	KindPointerUp:               "PointerUp",
	KindPointerExit:             "PointerExit",
	KindCreateRenderTarget:      "CreateRenderTarget",
	KindDestroyRenderTarget:     "DestroyRenderTarget",
	KindRegisterDraw:            "RegisterDraw",
	KindUnregisterDraw:          "UnregisterDraw",
	KindDraw:                    "Draw",
	KindDrawToBuffer:            "DrawToBuffer",
	KindDrawSprites:             "DrawSprites",
	KindDecodeImage:             "DecodeImage",
	KindDecodeAudio:             "DecodeAudio",
	KindDecodeFont:              "DecodeFont",
	KindDeleteAsset:             "DeleteAsset",
}

// String returns the string representation of a Kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Command is the interface implemented by all command records.
type Command interface {
	// CommandKind returns the discriminant for this command.
	CommandKind() Kind
}

// --------------------------------------------------------------------------
// Queue lifecycle
// --------------------------------------------------------------------------

// Stop terminates the worker loop. Commands already queued behind it
// are discarded; commands ahead of it execute normally.
type Stop struct{}

// CommandKind implements Command.
func (Stop) CommandKind() Kind { return KindStop }

// RunOnce executes Fn on the worker goroutine and resolves Done when it
// returns. Fn receives no arguments; closures capture what they need.
type RunOnce struct {
	Fn   func() error
	Done *Call[struct{}]
}

// CommandKind implements Command.
func (RunOnce) CommandKind() Kind { return KindRunOnce }

// --------------------------------------------------------------------------
// Files
// --------------------------------------------------------------------------

// LoadFile imports an encoded file. The result arrives as a Message
// carrying the new file handle, correlated by Req.
type LoadFile struct {
	Req  uint64
	Data []byte
}

// CommandKind implements Command.
func (LoadFile) CommandKind() Kind { return KindLoadFile }

// DeleteFile releases a file and, cascading, every artboard created
// from it.
type DeleteFile struct {
	File FileHandle
}

// CommandKind implements Command.
func (DeleteFile) CommandKind() Kind { return KindDeleteFile }

// --------------------------------------------------------------------------
// Artboards
// --------------------------------------------------------------------------

// CreateArtboard instantiates an artboard from a file. An empty Name
// instantiates the file's default artboard. Synchronous: the worker
// resolves Done with the new handle.
type CreateArtboard struct {
	File FileHandle
	Name string
	Done *Call[ArtboardHandle]
}

// CommandKind implements Command.
func (CreateArtboard) CommandKind() Kind { return KindCreateArtboard }

// ResizeArtboard changes an artboard's dimensions.
type ResizeArtboard struct {
	Artboard ArtboardHandle
	W, H     float32
}

// CommandKind implements Command.
func (ResizeArtboard) CommandKind() Kind { return KindResizeArtboard }

// DeleteArtboard releases an artboard and, cascading, its state
// machines, animations and bound view-model instances.
type DeleteArtboard struct {
	Artboard ArtboardHandle
}

// CommandKind implements Command.
func (DeleteArtboard) CommandKind() Kind { return KindDeleteArtboard }

// --------------------------------------------------------------------------
// State machines
// --------------------------------------------------------------------------

// CreateStateMachine instantiates a state machine on an artboard.
// An empty Name instantiates the artboard's default machine.
type CreateStateMachine struct {
	Artboard ArtboardHandle
	Name     string
	Done     *Call[StateMachineHandle]
}

// CommandKind implements Command.
func (CreateStateMachine) CommandKind() Kind { return KindCreateStateMachine }

// AdvanceStateMachine advances a state machine's simulation by Delta
// seconds. Fire-and-forget; settle transitions are reported as
// unsolicited Messages.
type AdvanceStateMachine struct {
	Machine StateMachineHandle
	Delta   float32
}

// CommandKind implements Command.
func (AdvanceStateMachine) CommandKind() Kind { return KindAdvanceStateMachine }

// SetBoolInput sets a boolean input on a state machine.
type SetBoolInput struct {
	Machine StateMachineHandle
	Input   string
	Value   bool
}

// CommandKind implements Command.
func (SetBoolInput) CommandKind() Kind { return KindSetBoolInput }

// SetNumberInput sets a numeric input on a state machine.
type SetNumberInput struct {
	Machine StateMachineHandle
	Input   string
	Value   float64
}

// CommandKind implements Command.
func (SetNumberInput) CommandKind() Kind { return KindSetNumberInput }

// FireTrigger fires a trigger input on a state machine.
type FireTrigger struct {
	Machine StateMachineHandle
	Input   string
}

// CommandKind implements Command.
func (FireTrigger) CommandKind() Kind { return KindFireTrigger }

// GetBoolInput reads a boolean input; the result arrives as a Message
// correlated by Req.
type GetBoolInput struct {
	Req     uint64
	Machine StateMachineHandle
	Input   string
}

// CommandKind implements Command.
func (GetBoolInput) CommandKind() Kind { return KindGetBoolInput }

// GetNumberInput reads a numeric input; the result arrives as a Message
// correlated by Req.
type GetNumberInput struct {
	Req     uint64
	Machine StateMachineHandle
	Input   string
}

// CommandKind implements Command.
func (GetNumberInput) CommandKind() Kind { return KindGetNumberInput }

// DeleteStateMachine releases a state machine.
type DeleteStateMachine struct {
	Machine StateMachineHandle
}

// CommandKind implements Command.
func (DeleteStateMachine) CommandKind() Kind { return KindDeleteStateMachine }

// --------------------------------------------------------------------------
// Animations
// --------------------------------------------------------------------------

// CreateAnimation instantiates a linear animation on an artboard.
// An empty Name instantiates the artboard's first animation.
type CreateAnimation struct {
	Artboard ArtboardHandle
	Name     string
	Done     *Call[AnimationHandle]
}

// CommandKind implements Command.
func (CreateAnimation) CommandKind() Kind { return KindCreateAnimation }

// AdvanceAnimation advances an animation by Delta seconds and applies
// it to its artboard.
type AdvanceAnimation struct {
	Animation AnimationHandle
	Delta     float32
}

// CommandKind implements Command.
func (AdvanceAnimation) CommandKind() Kind { return KindAdvanceAnimation }

// SetLoopMode sets an animation's loop mode.
type SetLoopMode struct {
	Animation AnimationHandle
	Mode      engine.LoopMode
}

// CommandKind implements Command.
func (SetLoopMode) CommandKind() Kind { return KindSetLoopMode }

// SetDirection sets an animation's playback direction.
type SetDirection struct {
	Animation AnimationHandle
	Direction engine.Direction
}

// CommandKind implements Command.
func (SetDirection) CommandKind() Kind { return KindSetDirection }

// DeleteAnimation releases an animation.
type DeleteAnimation struct {
	Animation AnimationHandle
}

// CommandKind implements Command.
func (DeleteAnimation) CommandKind() Kind { return KindDeleteAnimation }

// --------------------------------------------------------------------------
// View-model instances
// --------------------------------------------------------------------------

// InstanceMode selects how a view-model instance is initialized.
type InstanceMode uint8

const (
	// InstanceBlank creates an instance with zero-valued properties.
	InstanceBlank InstanceMode = iota
	// InstanceDefault creates an instance from the view model's default.
	InstanceDefault
	// InstanceNamed creates an instance from a named preset.
	InstanceNamed
)

// CreateViewModelInstance instantiates a view model from a file.
type CreateViewModelInstance struct {
	File      FileHandle
	ViewModel string
	Mode      InstanceMode
	Instance  string // preset name, InstanceNamed only
	Done      *Call[ViewModelInstanceHandle]
}

// CommandKind implements Command.
func (CreateViewModelInstance) CommandKind() Kind { return KindCreateViewModelInstance }

// SetProperty writes a property value by path.
type SetProperty struct {
	Target ViewModelInstanceHandle
	Path   string
	Match  engine.PathMatch
	Value  engine.Value
}

// CommandKind implements Command.
func (SetProperty) CommandKind() Kind { return KindSetProperty }

// GetProperty reads a property value by path; the result arrives as a
// Message correlated by Req.
type GetProperty struct {
	Req    uint64
	Target ViewModelInstanceHandle
	Path   string
	Match  engine.PathMatch
}

// CommandKind implements Command.
func (GetProperty) CommandKind() Kind { return KindGetProperty }

// FirePropertyTrigger fires a trigger property by path.
type FirePropertyTrigger struct {
	Target ViewModelInstanceHandle
	Path   string
	Match  engine.PathMatch
}

// CommandKind implements Command.
func (FirePropertyTrigger) CommandKind() Kind { return KindFirePropertyTrigger }

// ListAppend appends a value to a list property.
type ListAppend struct {
	Target ViewModelInstanceHandle
	Path   string
	Match  engine.PathMatch
	Value  engine.Value
}

// CommandKind implements Command.
func (ListAppend) CommandKind() Kind { return KindListAppend }

// ListRemove removes the element at Index from a list property.
type ListRemove struct {
	Target ViewModelInstanceHandle
	Path   string
	Match  engine.PathMatch
	Index  int
}

// CommandKind implements Command.
func (ListRemove) CommandKind() Kind { return KindListRemove }

// GetListSize reads a list property's length; the result arrives as a
// Message correlated by Req.
type GetListSize struct {
	Req    uint64
	Target ViewModelInstanceHandle
	Path   string
	Match  engine.PathMatch
}

// CommandKind implements Command.
func (GetListSize) CommandKind() Kind { return KindGetListSize }

// SetNestedInstance binds another view-model instance as a nested
// instance property.
type SetNestedInstance struct {
	Target ViewModelInstanceHandle
	Path   string
	Match  engine.PathMatch
	Nested ViewModelInstanceHandle
}

// CommandKind implements Command.
func (SetNestedInstance) CommandKind() Kind { return KindSetNestedInstance }

// SubscribeProperty registers a recurring property-change subscription.
// The worker re-reads the property after every advance and emits a
// Message tagged with Req each time the value changes.
type SubscribeProperty struct {
	Req    uint64
	Target ViewModelInstanceHandle
	Path   string
	Match  engine.PathMatch
}

// CommandKind implements Command.
func (SubscribeProperty) CommandKind() Kind { return KindSubscribeProperty }

// UnsubscribeProperty cancels the subscription registered with Req.
type UnsubscribeProperty struct {
	Req uint64
}

// CommandKind implements Command.
func (UnsubscribeProperty) CommandKind() Kind { return KindUnsubscribeProperty }

// BindViewModel attaches a view-model instance to an artboard
// (Machine zero) or to a state machine (Machine nonzero).
type BindViewModel struct {
	Artboard ArtboardHandle
	Machine  StateMachineHandle
	Target   ViewModelInstanceHandle
}

// CommandKind implements Command.
func (BindViewModel) CommandKind() Kind { return KindBindViewModel }

// DeleteViewModelInstance releases a view-model instance.
type DeleteViewModelInstance struct {
	Target ViewModelInstanceHandle
}

// CommandKind implements Command.
func (DeleteViewModelInstance) CommandKind() Kind { return KindDeleteViewModelInstance }

// --------------------------------------------------------------------------
// Pointer input
// --------------------------------------------------------------------------

// Pointer forwards one pointer event to a state machine. X and Y are in
// frame coordinates; Fit, Align, FrameW, FrameH and ScaleFactor describe
// how the artboard is laid out in the frame so the worker can map the
// position into artboard space.
type Pointer struct {
	Event       Kind // KindPointerMove, KindPointerDown, KindPointerUp or KindPointerExit
	Machine     StateMachineHandle
	X, Y        float32
	Fit         engine.Fit
	Align       engine.Alignment
	FrameW      float32
	FrameH      float32
	ScaleFactor float32
}

// CommandKind implements Command.
func (p Pointer) CommandKind() Kind { return p.Event }

// --------------------------------------------------------------------------
// Rendering
// --------------------------------------------------------------------------

// CreateRenderTarget creates a drawable target of the given size on the
// worker's render context.
type CreateRenderTarget struct {
	W, H int
	Done *Call[RenderTargetHandle]
}

// CommandKind implements Command.
func (CreateRenderTarget) CommandKind() Kind { return KindCreateRenderTarget }

// DestroyRenderTarget releases a render target and unregisters any draw
// keys bound to it.
type DestroyRenderTarget struct {
	Target RenderTargetHandle
}

// CommandKind implements Command.
func (DestroyRenderTarget) CommandKind() Kind { return KindDestroyRenderTarget }

// RegisterDraw binds an artboard to a render target with a layout,
// yielding a draw key for subsequent Draw commands.
type RegisterDraw struct {
	Target      RenderTargetHandle
	Artboard    ArtboardHandle
	Fit         engine.Fit
	Align       engine.Alignment
	ScaleFactor float32
	Done        *Call[DrawKey]
}

// CommandKind implements Command.
func (RegisterDraw) CommandKind() Kind { return KindRegisterDraw }

// UnregisterDraw releases a draw key.
type UnregisterDraw struct {
	Key DrawKey
}

// CommandKind implements Command.
func (UnregisterDraw) CommandKind() Kind { return KindUnregisterDraw }

// Draw renders one registered artboard/target binding. Fire-and-forget;
// failures are logged and reported as error Messages when Req is set.
type Draw struct {
	Req uint64 // optional correlation for completion/error reporting
	Key DrawKey
}

// CommandKind implements Command.
func (Draw) CommandKind() Kind { return KindDraw }

// DrawToBuffer renders a registered binding and reads the target's
// pixels back into Buf (RGBA, W*H*4 bytes). Synchronous: the caller
// owns Buf again once Done resolves.
type DrawToBuffer struct {
	Key  DrawKey
	Buf  []byte
	Done *Call[struct{}]
}

// CommandKind implements Command.
func (DrawToBuffer) CommandKind() Kind { return KindDrawToBuffer }

// SpriteDraw is one artboard placement inside a batch draw.
type SpriteDraw struct {
	Key       DrawKey
	Transform engine.Matrix
}

// DrawSprites renders a batch of sprites into one target in order.
// An empty batch is rejected.
type DrawSprites struct {
	Req     uint64
	Target  RenderTargetHandle
	Sprites []SpriteDraw
}

// CommandKind implements Command.
func (DrawSprites) CommandKind() Kind { return KindDrawSprites }

// --------------------------------------------------------------------------
// Asset decoding
// --------------------------------------------------------------------------

// DecodeAsset decodes an image, audio or font asset on the worker so the
// result can bind to the render context's factory. The result arrives as
// a Message carrying the new asset handle, correlated by Req.
type DecodeAsset struct {
	Op   Kind // KindDecodeImage, KindDecodeAudio or KindDecodeFont
	Req  uint64
	Data []byte
}

// CommandKind implements Command.
func (d DecodeAsset) CommandKind() Kind { return d.Op }

// DeleteAsset releases a decoded asset.
type DeleteAsset struct {
	Asset AssetHandle
}

// CommandKind implements Command.
func (DeleteAsset) CommandKind() Kind { return KindDeleteAsset }
