// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package motion

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/motion/command"
	"github.com/gogpu/motion/engine"
	"github.com/gogpu/motion/server"
	"github.com/gogpu/motion/surface"
)

// Common queue errors.
var (
	// ErrClosed is returned by operations on a closed queue, and
	// delivered to callbacks whose requests were still pending when the
	// queue closed.
	ErrClosed = errors.New("motion: queue closed")

	// ErrInvalidHandle is the sentinel wrapped by handle-lookup
	// failures reported through callbacks.
	ErrInvalidHandle = server.ErrInvalidHandle
)

// Queue is the public face of one command queue: a worker goroutine
// that owns a render context, an animation engine's resources and a
// handle registry, driven through typed commands.
//
// All methods are safe for concurrent use. Fire-and-forget methods
// return once the command is queued; Create* methods block until the
// worker has executed the command; methods taking a callback deliver
// their result during a later Poll, on the goroutine that polls.
type Queue struct {
	srv   *server.Server
	ch    *command.Channel
	out   *command.Outbox
	match engine.PathMatch

	onSettled func(StateMachineHandle)

	mu      sync.Mutex
	reqID   uint64
	pending map[uint64]func(command.Message)
	subs    map[uint64]func(Value, error)
	closed  bool
}

// New creates a queue and starts its worker. The render context is
// created on the worker goroutine before New returns; if context
// creation fails, New fails and no queue exists.
func New(opts Options) (*Queue, error) {
	srv := server.New(server.Config{
		Engine:      opts.Engine,
		Backend:     opts.Backend,
		Surface:     surface.Options{DeviceProvider: opts.DeviceProvider},
		SettleGrace: opts.settleGrace(),
		Log:         opts.logger(),
	})
	if err := srv.Start(); err != nil {
		return nil, err
	}
	return &Queue{
		srv:       srv,
		ch:        srv.Channel(),
		out:       srv.Outbox(),
		match:     opts.PathMatch,
		onSettled: opts.OnSettled,
		pending:   make(map[uint64]func(command.Message)),
		subs:      make(map[uint64]func(Value, error)),
	}, nil
}

// Close stops the worker. Commands queued before Close execute;
// commands queued after are rejected with ErrClosed. Every request
// still pending when the worker stops has its callback invoked with
// ErrClosed, so no caller waits forever. Close blocks until the worker
// has released all resources, and is idempotent.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		// A concurrent Close won the race; still honor the contract
		// that Close does not return before the worker has stopped.
		<-q.srv.Done()
		return nil
	}
	q.closed = true
	q.mu.Unlock()

	q.ch.Enqueue(command.Stop{})
	q.ch.Close()
	<-q.srv.Done()

	// Deliver the replies the worker produced before stopping, then
	// fail everything that never got one.
	q.Poll()

	q.mu.Lock()
	pending := q.pending
	subs := q.subs
	q.pending = make(map[uint64]func(command.Message))
	q.subs = make(map[uint64]func(Value, error))
	q.mu.Unlock()

	for _, fn := range pending {
		fn(command.Message{Kind: command.MsgError, Err: ErrClosed})
	}
	for _, fn := range subs {
		fn(Value{}, ErrClosed)
	}
	return nil
}

// Poll drains the queue's outbound messages, invoking completion
// callbacks, subscription updates and the OnSettled notification on the
// calling goroutine. It returns the number of messages processed.
func (q *Queue) Poll() int {
	msgs := q.out.PopAll(nil)
	for _, m := range msgs {
		q.dispatch(m)
	}
	return len(msgs)
}

func (q *Queue) dispatch(m command.Message) {
	switch m.Kind {
	case command.MsgSettled:
		if q.onSettled != nil {
			q.onSettled(StateMachineHandle(m.Handle))
		}
	case command.MsgPropertyUpdate:
		q.mu.Lock()
		fn := q.subs[m.Req]
		q.mu.Unlock()
		if fn != nil {
			fn(m.Value, nil)
		}
	case command.MsgError:
		// The failed request may be a one-shot or a subscription; a
		// failed subscription is delivered once and removed.
		q.mu.Lock()
		fn := q.pending[m.Req]
		delete(q.pending, m.Req)
		sub := q.subs[m.Req]
		delete(q.subs, m.Req)
		q.mu.Unlock()
		if fn != nil {
			fn(m)
		}
		if sub != nil {
			sub(Value{}, m.Err)
		}
	default:
		q.mu.Lock()
		fn := q.pending[m.Req]
		delete(q.pending, m.Req)
		q.mu.Unlock()
		if fn != nil {
			fn(m)
		}
	}
}

// Context returns the queue's render context. The context is owned by
// the worker goroutine: callers may inspect its name and capabilities
// but must route all rendering through queue commands.
func (q *Queue) Context() surface.Context { return q.srv.Context() }

// RunOnce executes fn on the worker goroutine, after every command
// queued before it, and returns fn's error. It must not be called from
// a callback running on the worker.
func (q *Queue) RunOnce(fn func() error) error {
	_, err := roundTrip(q, func(call *command.Call[struct{}]) command.Command {
		return command.RunOnce{Fn: fn, Done: call}
	})
	return err
}

// --------------------------------------------------------------------------
// Plumbing
// --------------------------------------------------------------------------

func (q *Queue) enqueue(cmd command.Command) error {
	if !q.ch.Enqueue(cmd) {
		return ErrClosed
	}
	return nil
}

// roundTrip enqueues a synchronous command and blocks until the worker
// resolves it.
func roundTrip[T any](q *Queue, build func(*command.Call[T]) command.Command) (T, error) {
	call := command.NewCall[T]()
	if err := q.enqueue(build(call)); err != nil {
		var zero T
		return zero, err
	}
	v, err := call.Wait()
	if errors.Is(err, server.ErrStopped) {
		err = ErrClosed
	}
	return v, err
}

// async allocates a correlation id, registers the completion adapter
// and enqueues the command built with that id. If it returns an error
// the adapter is never invoked.
func (q *Queue) async(fn func(command.Message), build func(req uint64) command.Command) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.reqID++
	req := q.reqID
	q.pending[req] = fn
	q.mu.Unlock()

	if err := q.enqueue(build(req)); err != nil {
		q.mu.Lock()
		delete(q.pending, req)
		q.mu.Unlock()
		return err
	}
	return nil
}

func closedErr(err error) error {
	if errors.Is(err, server.ErrStopped) {
		return ErrClosed
	}
	return err
}

// --------------------------------------------------------------------------
// Files
// --------------------------------------------------------------------------

// LoadFile imports an encoded file on the worker. fn receives the new
// file handle, or the import error, during a later Poll.
func (q *Queue) LoadFile(data []byte, fn func(FileHandle, error)) error {
	return q.async(func(m command.Message) {
		if fn == nil {
			return
		}
		if m.Err != nil {
			fn(0, closedErr(m.Err))
			return
		}
		fn(FileHandle(m.Handle), nil)
	}, func(req uint64) command.Command {
		return command.LoadFile{Req: req, Data: data}
	})
}

// DeleteFile releases a file and everything created from it: artboards
// (with their state machines, animations and draw registrations) and
// view-model instances.
func (q *Queue) DeleteFile(file FileHandle) error {
	return q.enqueue(command.DeleteFile{File: file})
}

// --------------------------------------------------------------------------
// Artboards
// --------------------------------------------------------------------------

// CreateDefaultArtboard instantiates the file's default artboard.
func (q *Queue) CreateDefaultArtboard(file FileHandle) (ArtboardHandle, error) {
	return q.CreateArtboardByName(file, "")
}

// CreateArtboardByName instantiates the named artboard from a file.
func (q *Queue) CreateArtboardByName(file FileHandle, name string) (ArtboardHandle, error) {
	return roundTrip(q, func(call *command.Call[command.ArtboardHandle]) command.Command {
		return command.CreateArtboard{File: file, Name: name, Done: call}
	})
}

// ResizeArtboard changes an artboard's dimensions.
func (q *Queue) ResizeArtboard(ab ArtboardHandle, w, h float32) error {
	return q.enqueue(command.ResizeArtboard{Artboard: ab, W: w, H: h})
}

// DeleteArtboard releases an artboard and its state machines,
// animations and draw registrations.
func (q *Queue) DeleteArtboard(ab ArtboardHandle) error {
	return q.enqueue(command.DeleteArtboard{Artboard: ab})
}

// --------------------------------------------------------------------------
// State machines
// --------------------------------------------------------------------------

// CreateDefaultStateMachine instantiates an artboard's default state
// machine.
func (q *Queue) CreateDefaultStateMachine(ab ArtboardHandle) (StateMachineHandle, error) {
	return q.CreateStateMachineByName(ab, "")
}

// CreateStateMachineByName instantiates the named state machine on an
// artboard.
func (q *Queue) CreateStateMachineByName(ab ArtboardHandle, name string) (StateMachineHandle, error) {
	return roundTrip(q, func(call *command.Call[command.StateMachineHandle]) command.Command {
		return command.CreateStateMachine{Artboard: ab, Name: name, Done: call}
	})
}

// AdvanceStateMachine advances a state machine's simulation by dt
// seconds. When a machine stops needing advancement it is reported,
// once, through Options.OnSettled.
func (q *Queue) AdvanceStateMachine(sm StateMachineHandle, dt float32) error {
	return q.enqueue(command.AdvanceStateMachine{Machine: sm, Delta: dt})
}

// SetBoolInput sets a boolean input on a state machine.
func (q *Queue) SetBoolInput(sm StateMachineHandle, input string, v bool) error {
	return q.enqueue(command.SetBoolInput{Machine: sm, Input: input, Value: v})
}

// SetNumberInput sets a numeric input on a state machine.
func (q *Queue) SetNumberInput(sm StateMachineHandle, input string, v float64) error {
	return q.enqueue(command.SetNumberInput{Machine: sm, Input: input, Value: v})
}

// FireTrigger fires a trigger input on a state machine.
func (q *Queue) FireTrigger(sm StateMachineHandle, input string) error {
	return q.enqueue(command.FireTrigger{Machine: sm, Input: input})
}

// BoolInput reads a boolean input; fn receives the value during a later
// Poll.
func (q *Queue) BoolInput(sm StateMachineHandle, input string, fn func(bool, error)) error {
	return q.async(func(m command.Message) {
		if fn == nil {
			return
		}
		if m.Err != nil {
			fn(false, closedErr(m.Err))
			return
		}
		fn(m.Value.Bool, nil)
	}, func(req uint64) command.Command {
		return command.GetBoolInput{Req: req, Machine: sm, Input: input}
	})
}

// NumberInput reads a numeric input; fn receives the value during a
// later Poll.
func (q *Queue) NumberInput(sm StateMachineHandle, input string, fn func(float64, error)) error {
	return q.async(func(m command.Message) {
		if fn == nil {
			return
		}
		if m.Err != nil {
			fn(0, closedErr(m.Err))
			return
		}
		fn(m.Value.Num, nil)
	}, func(req uint64) command.Command {
		return command.GetNumberInput{Req: req, Machine: sm, Input: input}
	})
}

// DeleteStateMachine releases a state machine.
func (q *Queue) DeleteStateMachine(sm StateMachineHandle) error {
	return q.enqueue(command.DeleteStateMachine{Machine: sm})
}

// --------------------------------------------------------------------------
// Animations
// --------------------------------------------------------------------------

// CreateDefaultAnimation instantiates an artboard's first animation.
func (q *Queue) CreateDefaultAnimation(ab ArtboardHandle) (AnimationHandle, error) {
	return q.CreateAnimationByName(ab, "")
}

// CreateAnimationByName instantiates the named linear animation on an
// artboard.
func (q *Queue) CreateAnimationByName(ab ArtboardHandle, name string) (AnimationHandle, error) {
	return roundTrip(q, func(call *command.Call[command.AnimationHandle]) command.Command {
		return command.CreateAnimation{Artboard: ab, Name: name, Done: call}
	})
}

// AdvanceAnimation moves an animation's playhead by dt seconds and
// applies it to its artboard.
func (q *Queue) AdvanceAnimation(anim AnimationHandle, dt float32) error {
	return q.enqueue(command.AdvanceAnimation{Animation: anim, Delta: dt})
}

// SetLoopMode sets an animation's loop mode.
func (q *Queue) SetLoopMode(anim AnimationHandle, mode LoopMode) error {
	return q.enqueue(command.SetLoopMode{Animation: anim, Mode: mode})
}

// SetDirection sets an animation's playback direction.
func (q *Queue) SetDirection(anim AnimationHandle, dir Direction) error {
	return q.enqueue(command.SetDirection{Animation: anim, Direction: dir})
}

// DeleteAnimation releases an animation.
func (q *Queue) DeleteAnimation(anim AnimationHandle) error {
	return q.enqueue(command.DeleteAnimation{Animation: anim})
}

// --------------------------------------------------------------------------
// View-model instances
// --------------------------------------------------------------------------

// CreateBlankViewModelInstance creates an instance of the named view
// model with zero-valued properties.
func (q *Queue) CreateBlankViewModelInstance(file FileHandle, viewModel string) (ViewModelInstanceHandle, error) {
	return q.createInstance(file, viewModel, command.InstanceBlank, "")
}

// CreateDefaultViewModelInstance creates an instance populated with the
// view model's default instance values.
func (q *Queue) CreateDefaultViewModelInstance(file FileHandle, viewModel string) (ViewModelInstanceHandle, error) {
	return q.createInstance(file, viewModel, command.InstanceDefault, "")
}

// CreateNamedViewModelInstance creates an instance populated from the
// named preset instance of the view model.
func (q *Queue) CreateNamedViewModelInstance(file FileHandle, viewModel, instance string) (ViewModelInstanceHandle, error) {
	return q.createInstance(file, viewModel, command.InstanceNamed, instance)
}

func (q *Queue) createInstance(file FileHandle, viewModel string, mode command.InstanceMode, instance string) (ViewModelInstanceHandle, error) {
	return roundTrip(q, func(call *command.Call[command.ViewModelInstanceHandle]) command.Command {
		return command.CreateViewModelInstance{
			File:      file,
			ViewModel: viewModel,
			Mode:      mode,
			Instance:  instance,
			Done:      call,
		}
	})
}

// SetStringProperty writes a string property by path.
func (q *Queue) SetStringProperty(vmi ViewModelInstanceHandle, path, v string) error {
	return q.setProperty(vmi, path, StringValue(v))
}

// SetNumberProperty writes a number property by path.
func (q *Queue) SetNumberProperty(vmi ViewModelInstanceHandle, path string, v float64) error {
	return q.setProperty(vmi, path, NumberValue(v))
}

// SetBoolProperty writes a boolean property by path.
func (q *Queue) SetBoolProperty(vmi ViewModelInstanceHandle, path string, v bool) error {
	return q.setProperty(vmi, path, BoolValue(v))
}

// SetColorProperty writes a color property by path, packed 0xAARRGGBB.
func (q *Queue) SetColorProperty(vmi ViewModelInstanceHandle, path string, v uint32) error {
	return q.setProperty(vmi, path, ColorValue(v))
}

// SetEnumProperty writes an enum property by path.
func (q *Queue) SetEnumProperty(vmi ViewModelInstanceHandle, path, v string) error {
	return q.setProperty(vmi, path, EnumValue(v))
}

func (q *Queue) setProperty(vmi ViewModelInstanceHandle, path string, v Value) error {
	return q.enqueue(command.SetProperty{Target: vmi, Path: path, Match: q.match, Value: v})
}

// FirePropertyTrigger fires a trigger property by path.
func (q *Queue) FirePropertyTrigger(vmi ViewModelInstanceHandle, path string) error {
	return q.enqueue(command.FirePropertyTrigger{Target: vmi, Path: path, Match: q.match})
}

// Property reads a property by path; fn receives the tagged value
// during a later Poll.
func (q *Queue) Property(vmi ViewModelInstanceHandle, path string, fn func(Value, error)) error {
	return q.async(func(m command.Message) {
		if fn == nil {
			return
		}
		if m.Err != nil {
			fn(Value{}, closedErr(m.Err))
			return
		}
		fn(m.Value, nil)
	}, func(req uint64) command.Command {
		return command.GetProperty{Req: req, Target: vmi, Path: path, Match: q.match}
	})
}

// StringProperty reads a string property by path.
func (q *Queue) StringProperty(vmi ViewModelInstanceHandle, path string, fn func(string, error)) error {
	return q.Property(vmi, path, func(v Value, err error) {
		if err == nil && v.Type != engine.PropertyString {
			err = fmt.Errorf("motion: property %q is %s, not String", path, v.Type)
		}
		if err != nil {
			fn("", err)
			return
		}
		fn(v.Str, nil)
	})
}

// NumberProperty reads a number property by path.
func (q *Queue) NumberProperty(vmi ViewModelInstanceHandle, path string, fn func(float64, error)) error {
	return q.Property(vmi, path, func(v Value, err error) {
		if err == nil && v.Type != engine.PropertyNumber {
			err = fmt.Errorf("motion: property %q is %s, not Number", path, v.Type)
		}
		if err != nil {
			fn(0, err)
			return
		}
		fn(v.Num, nil)
	})
}

// BoolProperty reads a boolean property by path.
func (q *Queue) BoolProperty(vmi ViewModelInstanceHandle, path string, fn func(bool, error)) error {
	return q.Property(vmi, path, func(v Value, err error) {
		if err == nil && v.Type != engine.PropertyBool {
			err = fmt.Errorf("motion: property %q is %s, not Bool", path, v.Type)
		}
		if err != nil {
			fn(false, err)
			return
		}
		fn(v.Bool, nil)
	})
}

// ColorProperty reads a color property by path, packed 0xAARRGGBB.
func (q *Queue) ColorProperty(vmi ViewModelInstanceHandle, path string, fn func(uint32, error)) error {
	return q.Property(vmi, path, func(v Value, err error) {
		if err == nil && v.Type != engine.PropertyColor {
			err = fmt.Errorf("motion: property %q is %s, not Color", path, v.Type)
		}
		if err != nil {
			fn(0, err)
			return
		}
		fn(v.Color, nil)
	})
}

// EnumProperty reads an enum property by path.
func (q *Queue) EnumProperty(vmi ViewModelInstanceHandle, path string, fn func(string, error)) error {
	return q.Property(vmi, path, func(v Value, err error) {
		if err == nil && v.Type != engine.PropertyEnum {
			err = fmt.Errorf("motion: property %q is %s, not Enum", path, v.Type)
		}
		if err != nil {
			fn("", err)
			return
		}
		fn(v.Str, nil)
	})
}

// ListAppend appends a value to a list property.
func (q *Queue) ListAppend(vmi ViewModelInstanceHandle, path string, v Value) error {
	return q.enqueue(command.ListAppend{Target: vmi, Path: path, Match: q.match, Value: v})
}

// ListRemove removes the element at index from a list property.
func (q *Queue) ListRemove(vmi ViewModelInstanceHandle, path string, index int) error {
	return q.enqueue(command.ListRemove{Target: vmi, Path: path, Match: q.match, Index: index})
}

// ListSize reads a list property's length; fn receives it during a
// later Poll.
func (q *Queue) ListSize(vmi ViewModelInstanceHandle, path string, fn func(int, error)) error {
	return q.async(func(m command.Message) {
		if fn == nil {
			return
		}
		if m.Err != nil {
			fn(0, closedErr(m.Err))
			return
		}
		fn(m.Size, nil)
	}, func(req uint64) command.Command {
		return command.GetListSize{Req: req, Target: vmi, Path: path, Match: q.match}
	})
}

// SetNestedInstance binds another view-model instance as the nested
// instance property at path.
func (q *Queue) SetNestedInstance(vmi ViewModelInstanceHandle, path string, nested ViewModelInstanceHandle) error {
	return q.enqueue(command.SetNestedInstance{Target: vmi, Path: path, Match: q.match, Nested: nested})
}

// SubscribeProperty registers a recurring subscription on a property.
// After every state machine or animation advance the worker re-reads
// the property and, when the value changed, delivers it to fn during a
// later Poll. The returned id cancels the subscription via
// UnsubscribeProperty. A subscription that fails (bad path, deleted
// instance, queue closed) receives the error once and is removed.
func (q *Queue) SubscribeProperty(vmi ViewModelInstanceHandle, path string, fn func(Value, error)) (uint64, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return 0, ErrClosed
	}
	q.reqID++
	id := q.reqID
	q.subs[id] = fn
	q.mu.Unlock()

	cmd := command.SubscribeProperty{Req: id, Target: vmi, Path: path, Match: q.match}
	if err := q.enqueue(cmd); err != nil {
		q.mu.Lock()
		delete(q.subs, id)
		q.mu.Unlock()
		return 0, err
	}
	return id, nil
}

// UnsubscribeProperty cancels a property subscription.
func (q *Queue) UnsubscribeProperty(id uint64) error {
	q.mu.Lock()
	delete(q.subs, id)
	q.mu.Unlock()
	return q.enqueue(command.UnsubscribeProperty{Req: id})
}

// BindToArtboard attaches a view-model instance to an artboard's
// data-binding context.
func (q *Queue) BindToArtboard(ab ArtboardHandle, vmi ViewModelInstanceHandle) error {
	return q.enqueue(command.BindViewModel{Artboard: ab, Target: vmi})
}

// BindToStateMachine attaches a view-model instance to a state
// machine's data-binding context.
func (q *Queue) BindToStateMachine(sm StateMachineHandle, vmi ViewModelInstanceHandle) error {
	return q.enqueue(command.BindViewModel{Machine: sm, Target: vmi})
}

// DeleteViewModelInstance releases a view-model instance and cancels
// its subscriptions.
func (q *Queue) DeleteViewModelInstance(vmi ViewModelInstanceHandle) error {
	return q.enqueue(command.DeleteViewModelInstance{Target: vmi})
}

// --------------------------------------------------------------------------
// Pointer input
// --------------------------------------------------------------------------

// PointerMove forwards a pointer move at frame position (x, y) to a
// state machine. layout must describe how the machine's artboard is
// drawn into the frame; the worker inverts it to find the artboard-space
// position.
func (q *Queue) PointerMove(sm StateMachineHandle, x, y float32, layout Layout) error {
	return q.pointer(command.KindPointerMove, sm, x, y, layout)
}

// PointerDown forwards a pointer press.
func (q *Queue) PointerDown(sm StateMachineHandle, x, y float32, layout Layout) error {
	return q.pointer(command.KindPointerDown, sm, x, y, layout)
}

// PointerUp forwards a pointer release.
func (q *Queue) PointerUp(sm StateMachineHandle, x, y float32, layout Layout) error {
	return q.pointer(command.KindPointerUp, sm, x, y, layout)
}

// PointerExit forwards the pointer leaving the frame.
func (q *Queue) PointerExit(sm StateMachineHandle, x, y float32, layout Layout) error {
	return q.pointer(command.KindPointerExit, sm, x, y, layout)
}

func (q *Queue) pointer(kind command.Kind, sm StateMachineHandle, x, y float32, layout Layout) error {
	return q.enqueue(command.Pointer{
		Event:       kind,
		Machine:     sm,
		X:           x,
		Y:           y,
		Fit:         layout.Fit,
		Align:       layout.Align,
		FrameW:      layout.Width,
		FrameH:      layout.Height,
		ScaleFactor: layout.ScaleFactor,
	})
}

// --------------------------------------------------------------------------
// Rendering
// --------------------------------------------------------------------------

// CreateRenderTarget creates a drawable target of the given size on the
// worker's render context.
func (q *Queue) CreateRenderTarget(w, h int) (RenderTargetHandle, error) {
	return roundTrip(q, func(call *command.Call[command.RenderTargetHandle]) command.Command {
		return command.CreateRenderTarget{W: w, H: h, Done: call}
	})
}

// DestroyRenderTarget releases a render target and unregisters draws
// bound to it.
func (q *Queue) DestroyRenderTarget(t RenderTargetHandle) error {
	return q.enqueue(command.DestroyRenderTarget{Target: t})
}

// RegisterDraw binds an artboard to a render target with a fit and
// alignment, returning the key subsequent draws refer to.
func (q *Queue) RegisterDraw(t RenderTargetHandle, ab ArtboardHandle, fit Fit, align Alignment, scaleFactor float32) (DrawKey, error) {
	return roundTrip(q, func(call *command.Call[command.DrawKey]) command.Command {
		return command.RegisterDraw{
			Target:      t,
			Artboard:    ab,
			Fit:         fit,
			Align:       align,
			ScaleFactor: scaleFactor,
			Done:        call,
		}
	})
}

// UnregisterDraw releases a draw key.
func (q *Queue) UnregisterDraw(key DrawKey) error {
	return q.enqueue(command.UnregisterDraw{Key: key})
}

// Draw renders one registered binding. A nil fn makes the draw
// fire-and-forget (failures are logged); otherwise fn receives the
// outcome during a later Poll.
func (q *Queue) Draw(key DrawKey, fn func(error)) error {
	if fn == nil {
		return q.enqueue(command.Draw{Key: key})
	}
	return q.async(func(m command.Message) {
		fn(closedErr(m.Err))
	}, func(req uint64) command.Command {
		return command.Draw{Req: req, Key: key}
	})
}

// DrawToBuffer renders a registered binding and reads the target's
// pixels back into buf as tightly packed RGBA rows. buf must hold at
// least width*height*4 bytes for the binding's target; short buffers
// fail before any drawing happens. DrawToBuffer blocks until the pixels
// are in buf.
func (q *Queue) DrawToBuffer(key DrawKey, buf []byte) error {
	_, err := roundTrip(q, func(call *command.Call[struct{}]) command.Command {
		return command.DrawToBuffer{Key: key, Buf: buf, Done: call}
	})
	return err
}

// DrawSprites renders a batch of sprite placements into one target, in
// order, within a single frame. An empty batch is an error. A nil fn
// makes the batch fire-and-forget.
func (q *Queue) DrawSprites(t RenderTargetHandle, sprites []SpriteDraw, fn func(error)) error {
	if fn == nil {
		return q.enqueue(command.DrawSprites{Target: t, Sprites: sprites})
	}
	return q.async(func(m command.Message) {
		fn(closedErr(m.Err))
	}, func(req uint64) command.Command {
		return command.DrawSprites{Req: req, Target: t, Sprites: sprites}
	})
}

// --------------------------------------------------------------------------
// Assets
// --------------------------------------------------------------------------

// DecodeImage decodes an encoded image on the worker, bound to the
// render context's factory. fn receives the asset handle during a later
// Poll.
func (q *Queue) DecodeImage(data []byte, fn func(AssetHandle, error)) error {
	return q.decodeAsset(command.KindDecodeImage, data, fn)
}

// DecodeAudio decodes an encoded audio clip on the worker.
func (q *Queue) DecodeAudio(data []byte, fn func(AssetHandle, error)) error {
	return q.decodeAsset(command.KindDecodeAudio, data, fn)
}

// DecodeFont decodes an encoded font on the worker.
func (q *Queue) DecodeFont(data []byte, fn func(AssetHandle, error)) error {
	return q.decodeAsset(command.KindDecodeFont, data, fn)
}

func (q *Queue) decodeAsset(op command.Kind, data []byte, fn func(AssetHandle, error)) error {
	return q.async(func(m command.Message) {
		if fn == nil {
			return
		}
		if m.Err != nil {
			fn(0, closedErr(m.Err))
			return
		}
		fn(AssetHandle(m.Handle), nil)
	}, func(req uint64) command.Command {
		return command.DecodeAsset{Op: op, Req: req, Data: data}
	})
}

// DeleteAsset releases a decoded asset.
func (q *Queue) DeleteAsset(a AssetHandle) error {
	return q.enqueue(command.DeleteAsset{Asset: a})
}
