// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"errors"
	"fmt"

	"github.com/gogpu/motion/command"
	"github.com/gogpu/motion/engine"
)

// ErrDeadFactory is returned when the render context cannot supply a
// live factory for file import or asset decoding. It should never
// occur with a well-formed context implementation; the check exists so
// a placeholder factory can never silently produce blank content.
var ErrDeadFactory = errors.New("server: render context factory is not live")

// exec runs one command to completion. Every handler validates its
// handle lookups first and short-circuits to an error report; nothing
// in here may take down the worker loop.
func (s *Server) exec(cmd command.Command) {
	switch c := cmd.(type) {
	case command.RunOnce:
		var err error
		if c.Fn != nil {
			err = c.Fn()
		}
		c.Done.Resolve(struct{}{}, err)

	// Files
	case command.LoadFile:
		s.execLoadFile(c)
	case command.DeleteFile:
		if err := s.reg.deleteFile(c.File); err != nil {
			s.fail(0, command.KindDeleteFile, err)
		}

	// Artboards
	case command.CreateArtboard:
		c.Done.Resolve(s.execCreateArtboard(c))
	case command.ResizeArtboard:
		e, err := s.reg.artboard(c.Artboard)
		if err != nil {
			s.fail(0, command.KindResizeArtboard, err)
			return
		}
		e.ab.Resize(c.W, c.H)
	case command.DeleteArtboard:
		if err := s.reg.deleteArtboard(c.Artboard); err != nil {
			s.fail(0, command.KindDeleteArtboard, err)
		}

	// State machines
	case command.CreateStateMachine:
		c.Done.Resolve(s.execCreateStateMachine(c))
	case command.AdvanceStateMachine:
		s.execAdvanceStateMachine(c)
	case command.SetBoolInput:
		s.withMachine(c.Machine, command.KindSetBoolInput, func(e *machineEntry) error {
			return e.sm.SetBool(c.Input, c.Value)
		})
	case command.SetNumberInput:
		s.withMachine(c.Machine, command.KindSetNumberInput, func(e *machineEntry) error {
			return e.sm.SetNumber(c.Input, c.Value)
		})
	case command.FireTrigger:
		s.withMachine(c.Machine, command.KindFireTrigger, func(e *machineEntry) error {
			return e.sm.FireTrigger(c.Input)
		})
	case command.GetBoolInput:
		s.execGetBoolInput(c)
	case command.GetNumberInput:
		s.execGetNumberInput(c)
	case command.DeleteStateMachine:
		if err := s.reg.deleteMachine(c.Machine); err != nil {
			s.fail(0, command.KindDeleteStateMachine, err)
		}

	// Animations
	case command.CreateAnimation:
		c.Done.Resolve(s.execCreateAnimation(c))
	case command.AdvanceAnimation:
		s.execAdvanceAnimation(c)
	case command.SetLoopMode:
		e, err := s.reg.animation(c.Animation)
		if err != nil {
			s.fail(0, command.KindSetLoopMode, err)
			return
		}
		e.anim.SetLoop(c.Mode)
	case command.SetDirection:
		e, err := s.reg.animation(c.Animation)
		if err != nil {
			s.fail(0, command.KindSetDirection, err)
			return
		}
		e.anim.SetDirection(c.Direction)
	case command.DeleteAnimation:
		if err := s.reg.deleteAnimation(c.Animation); err != nil {
			s.fail(0, command.KindDeleteAnimation, err)
		}

	// View-model instances
	case command.CreateViewModelInstance:
		c.Done.Resolve(s.execCreateInstance(c))
	case command.SetProperty:
		s.withInstance(c.Target, command.KindSetProperty, func(e *instanceEntry) error {
			return e.vmi.SetValue(c.Path, c.Match, c.Value)
		})
	case command.GetProperty:
		s.execGetProperty(c)
	case command.FirePropertyTrigger:
		s.withInstance(c.Target, command.KindFirePropertyTrigger, func(e *instanceEntry) error {
			return e.vmi.FireTrigger(c.Path, c.Match)
		})
	case command.ListAppend:
		s.withInstance(c.Target, command.KindListAppend, func(e *instanceEntry) error {
			return e.vmi.ListAppend(c.Path, c.Match, c.Value)
		})
	case command.ListRemove:
		s.withInstance(c.Target, command.KindListRemove, func(e *instanceEntry) error {
			return e.vmi.ListRemove(c.Path, c.Match, c.Index)
		})
	case command.GetListSize:
		s.execGetListSize(c)
	case command.SetNestedInstance:
		s.execSetNestedInstance(c)
	case command.SubscribeProperty:
		s.execSubscribe(c)
	case command.UnsubscribeProperty:
		delete(s.subs, c.Req)
	case command.BindViewModel:
		s.execBindViewModel(c)
	case command.DeleteViewModelInstance:
		if err := s.reg.deleteInstance(c.Target); err != nil {
			s.fail(0, command.KindDeleteViewModelInstance, err)
		}
		for req, sub := range s.subs {
			if sub.target == c.Target {
				delete(s.subs, req)
			}
		}

	// Pointer input
	case command.Pointer:
		s.execPointer(c)

	// Rendering
	case command.CreateRenderTarget:
		c.Done.Resolve(s.execCreateRenderTarget(c))
	case command.DestroyRenderTarget:
		if err := s.reg.deleteTarget(c.Target); err != nil {
			s.fail(0, command.KindDestroyRenderTarget, err)
		}
	case command.RegisterDraw:
		c.Done.Resolve(s.execRegisterDraw(c))
	case command.UnregisterDraw:
		delete(s.reg.draws, c.Key)
	case command.Draw:
		if err := s.execDraw(c.Key); err != nil {
			s.fail(c.Req, command.KindDraw, err)
			return
		}
		if c.Req != 0 {
			s.post(command.Message{Kind: command.MsgDrawDone, Req: c.Req})
		}
	case command.DrawToBuffer:
		c.Done.Resolve(struct{}{}, s.execDrawToBuffer(c))
	case command.DrawSprites:
		if err := s.execDrawSprites(c); err != nil {
			s.fail(c.Req, command.KindDrawSprites, err)
			return
		}
		if c.Req != 0 {
			s.post(command.Message{Kind: command.MsgDrawDone, Req: c.Req})
		}

	// Asset decoding
	case command.DecodeAsset:
		s.execDecodeAsset(c)
	case command.DeleteAsset:
		if err := s.reg.deleteAsset(c.Asset); err != nil {
			s.fail(0, command.KindDeleteAsset, err)
		}

	default:
		s.log.Warn("unknown command", "kind", cmd.CommandKind().String())
	}
}

// liveFactory resolves the render context's factory, refusing anything
// that is not live. File import and asset decoding must never bind to a
// placeholder: content imported against one draws blank frames while
// reporting success.
func (s *Server) liveFactory() (engine.Factory, error) {
	f := s.ctx.Factory()
	if f == nil || !f.Live() {
		return nil, ErrDeadFactory
	}
	return f, nil
}

// --------------------------------------------------------------------------
// Files
// --------------------------------------------------------------------------

func (s *Server) execLoadFile(c command.LoadFile) {
	factory, err := s.liveFactory()
	if err != nil {
		s.fail(c.Req, command.KindLoadFile, err)
		return
	}
	f, err := s.cfg.Engine.Load(c.Data, factory)
	if err != nil {
		s.fail(c.Req, command.KindLoadFile, fmt.Errorf("load file: %w", err))
		return
	}
	h := command.FileHandle(s.reg.nextHandle())
	s.reg.files[h] = f
	s.post(command.Message{Kind: command.MsgFileLoaded, Req: c.Req, Handle: command.Handle(h)})
}

// --------------------------------------------------------------------------
// Creation handlers (synchronous rendezvous)
// --------------------------------------------------------------------------

func (s *Server) execCreateArtboard(c command.CreateArtboard) (command.ArtboardHandle, error) {
	f, err := s.reg.file(c.File)
	if err != nil {
		return 0, err
	}
	ab, err := f.Artboard(c.Name)
	if err != nil {
		return 0, fmt.Errorf("create artboard %q: %w", c.Name, err)
	}
	h := command.ArtboardHandle(s.reg.nextHandle())
	s.reg.artboards[h] = &artboardEntry{ab: ab, file: c.File}
	return h, nil
}

func (s *Server) execCreateStateMachine(c command.CreateStateMachine) (command.StateMachineHandle, error) {
	e, err := s.reg.artboard(c.Artboard)
	if err != nil {
		return 0, err
	}
	sm, err := e.ab.StateMachine(c.Name)
	if err != nil {
		return 0, fmt.Errorf("create state machine %q: %w", c.Name, err)
	}
	h := command.StateMachineHandle(s.reg.nextHandle())
	s.reg.machines[h] = &machineEntry{
		sm:       sm,
		artboard: c.Artboard,
		playing:  true,
		grace:    s.cfg.SettleGrace,
	}
	return h, nil
}

func (s *Server) execCreateAnimation(c command.CreateAnimation) (command.AnimationHandle, error) {
	e, err := s.reg.artboard(c.Artboard)
	if err != nil {
		return 0, err
	}
	anim, err := e.ab.Animation(c.Name)
	if err != nil {
		return 0, fmt.Errorf("create animation %q: %w", c.Name, err)
	}
	h := command.AnimationHandle(s.reg.nextHandle())
	s.reg.animations[h] = &animationEntry{anim: anim, artboard: c.Artboard, running: true}
	return h, nil
}

func (s *Server) execCreateInstance(c command.CreateViewModelInstance) (command.ViewModelInstanceHandle, error) {
	f, err := s.reg.file(c.File)
	if err != nil {
		return 0, err
	}
	var vmi engine.ViewModelInstance
	switch c.Mode {
	case command.InstanceBlank:
		vmi, err = f.BlankViewModelInstance(c.ViewModel)
	case command.InstanceDefault:
		vmi, err = f.DefaultViewModelInstance(c.ViewModel)
	case command.InstanceNamed:
		vmi, err = f.NamedViewModelInstance(c.ViewModel, c.Instance)
	default:
		err = fmt.Errorf("unknown instance mode %d", c.Mode)
	}
	if err != nil {
		return 0, fmt.Errorf("create view-model instance %q: %w", c.ViewModel, err)
	}
	h := command.ViewModelInstanceHandle(s.reg.nextHandle())
	s.reg.instances[h] = &instanceEntry{vmi: vmi, file: c.File}
	return h, nil
}

func (s *Server) execCreateRenderTarget(c command.CreateRenderTarget) (command.RenderTargetHandle, error) {
	if c.W <= 0 || c.H <= 0 {
		return 0, fmt.Errorf("invalid render target size %dx%d", c.W, c.H)
	}
	t, err := s.ctx.NewTarget(c.W, c.H)
	if err != nil {
		return 0, fmt.Errorf("create render target: %w", err)
	}
	h := command.RenderTargetHandle(s.reg.nextHandle())
	s.reg.targets[h] = t
	return h, nil
}

func (s *Server) execRegisterDraw(c command.RegisterDraw) (command.DrawKey, error) {
	if _, err := s.reg.target(c.Target); err != nil {
		return 0, err
	}
	if _, err := s.reg.artboard(c.Artboard); err != nil {
		return 0, err
	}
	k := command.DrawKey(s.reg.nextHandle())
	s.reg.draws[k] = &drawEntry{
		target:      c.Target,
		artboard:    c.Artboard,
		fit:         c.Fit,
		align:       c.Align,
		scaleFactor: c.ScaleFactor,
	}
	return k, nil
}

// --------------------------------------------------------------------------
// Reads (asynchronous request/reply)
// --------------------------------------------------------------------------

func (s *Server) execGetBoolInput(c command.GetBoolInput) {
	e, err := s.reg.machine(c.Machine)
	if err != nil {
		s.fail(c.Req, command.KindGetBoolInput, err)
		return
	}
	v, err := e.sm.Bool(c.Input)
	if err != nil {
		s.fail(c.Req, command.KindGetBoolInput, err)
		return
	}
	s.post(command.Message{Kind: command.MsgBoolInput, Req: c.Req, Value: engine.BoolValue(v)})
}

func (s *Server) execGetNumberInput(c command.GetNumberInput) {
	e, err := s.reg.machine(c.Machine)
	if err != nil {
		s.fail(c.Req, command.KindGetNumberInput, err)
		return
	}
	v, err := e.sm.Number(c.Input)
	if err != nil {
		s.fail(c.Req, command.KindGetNumberInput, err)
		return
	}
	s.post(command.Message{Kind: command.MsgNumberInput, Req: c.Req, Value: engine.NumberValue(v)})
}

func (s *Server) execGetProperty(c command.GetProperty) {
	e, err := s.reg.instance(c.Target)
	if err != nil {
		s.fail(c.Req, command.KindGetProperty, err)
		return
	}
	v, err := e.vmi.Value(c.Path, c.Match)
	if err != nil {
		s.fail(c.Req, command.KindGetProperty, err)
		return
	}
	s.post(command.Message{Kind: command.MsgProperty, Req: c.Req, Value: v})
}

func (s *Server) execGetListSize(c command.GetListSize) {
	e, err := s.reg.instance(c.Target)
	if err != nil {
		s.fail(c.Req, command.KindGetListSize, err)
		return
	}
	n, err := e.vmi.ListSize(c.Path, c.Match)
	if err != nil {
		s.fail(c.Req, command.KindGetListSize, err)
		return
	}
	s.post(command.Message{Kind: command.MsgListSize, Req: c.Req, Size: n})
}

// --------------------------------------------------------------------------
// Bindings and subscriptions
// --------------------------------------------------------------------------

func (s *Server) execSetNestedInstance(c command.SetNestedInstance) {
	e, err := s.reg.instance(c.Target)
	if err != nil {
		s.fail(0, command.KindSetNestedInstance, err)
		return
	}
	nested, err := s.reg.instance(c.Nested)
	if err != nil {
		s.fail(0, command.KindSetNestedInstance, err)
		return
	}
	if err := e.vmi.SetInstance(c.Path, c.Match, nested.vmi); err != nil {
		s.fail(0, command.KindSetNestedInstance, err)
	}
}

func (s *Server) execBindViewModel(c command.BindViewModel) {
	e, err := s.reg.instance(c.Target)
	if err != nil {
		s.fail(0, command.KindBindViewModel, err)
		return
	}
	if c.Machine != 0 {
		m, err := s.reg.machine(c.Machine)
		if err != nil {
			s.fail(0, command.KindBindViewModel, err)
			return
		}
		if err := m.sm.Bind(e.vmi); err != nil {
			s.fail(0, command.KindBindViewModel, err)
		}
		return
	}
	ab, err := s.reg.artboard(c.Artboard)
	if err != nil {
		s.fail(0, command.KindBindViewModel, err)
		return
	}
	if err := ab.ab.Bind(e.vmi); err != nil {
		s.fail(0, command.KindBindViewModel, err)
	}
}

func (s *Server) execSubscribe(c command.SubscribeProperty) {
	e, err := s.reg.instance(c.Target)
	if err != nil {
		s.fail(c.Req, command.KindSubscribeProperty, err)
		return
	}
	sub := &subscription{target: c.Target, path: c.Path, match: c.Match}
	// Prime with the current value so the first update reflects an
	// actual change, and so a bad path fails at subscribe time.
	v, err := e.vmi.Value(c.Path, c.Match)
	if err != nil {
		s.fail(c.Req, command.KindSubscribeProperty, err)
		return
	}
	sub.last = v
	sub.primed = true
	s.subs[c.Req] = sub
}

// notifySubscribers re-reads every subscribed property and emits an
// update message for each one whose value changed. Called after every
// advance, which is when engine-side writes become observable.
func (s *Server) notifySubscribers() {
	for req, sub := range s.subs {
		e, err := s.reg.instance(sub.target)
		if err != nil {
			// Instance deleted out from under the subscription.
			delete(s.subs, req)
			continue
		}
		v, err := e.vmi.Value(sub.path, sub.match)
		if err != nil {
			continue
		}
		if sub.primed && v.Equal(sub.last) {
			continue
		}
		sub.last = v
		sub.primed = true
		s.post(command.Message{Kind: command.MsgPropertyUpdate, Req: req, Value: v})
	}
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func (s *Server) withMachine(h command.StateMachineHandle, kind command.Kind, fn func(*machineEntry) error) {
	e, err := s.reg.machine(h)
	if err != nil {
		s.fail(0, kind, err)
		return
	}
	if err := fn(e); err != nil {
		s.fail(0, kind, err)
		return
	}
	// Input writes wake a settled machine: transitions may now fire.
	e.playing = true
	e.grace = s.cfg.SettleGrace
}

func (s *Server) withInstance(h command.ViewModelInstanceHandle, kind command.Kind, fn func(*instanceEntry) error) {
	e, err := s.reg.instance(h)
	if err != nil {
		s.fail(0, kind, err)
		return
	}
	if err := fn(e); err != nil {
		s.fail(0, kind, err)
	}
}

func (s *Server) execDecodeAsset(c command.DecodeAsset) {
	var (
		a   engine.Asset
		err error
	)
	switch c.Op {
	case command.KindDecodeImage:
		var factory engine.Factory
		factory, err = s.liveFactory()
		if err == nil {
			a, err = s.cfg.Engine.DecodeImage(c.Data, factory)
		}
	case command.KindDecodeAudio:
		a, err = s.cfg.Engine.DecodeAudio(c.Data)
	case command.KindDecodeFont:
		a, err = s.cfg.Engine.DecodeFont(c.Data)
	default:
		err = fmt.Errorf("unknown decode op %s", c.Op)
	}
	if err != nil {
		s.fail(c.Req, c.Op, err)
		return
	}
	h := command.AssetHandle(s.reg.nextHandle())
	s.reg.assets[h] = a
	s.post(command.Message{Kind: command.MsgAssetDecoded, Req: c.Req, Handle: command.Handle(h)})
}
