// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package server implements the motion command server: the single
// worker goroutine that owns the render context, the handle registry
// and every engine resource, and executes commands strictly in
// submission order.
//
// Callers never touch this package directly; the motion.Queue façade
// owns a Server and talks to it through the command channel and the
// message outbox.
package server

import (
	"errors"
	"log/slog"

	"github.com/gogpu/motion/command"
	"github.com/gogpu/motion/engine"
	"github.com/gogpu/motion/surface"
)

// Common server errors.
var (
	// ErrStopped is returned for commands discarded because the worker
	// was stopped before reaching them.
	ErrStopped = errors.New("server: queue stopped")

	// ErrEmptyBatch is returned when a batch draw carries no sprites.
	ErrEmptyBatch = errors.New("server: empty sprite batch")

	// ErrNilEngine is returned by Start when no engine was configured.
	ErrNilEngine = errors.New("server: nil engine")
)

// Config configures a Server.
type Config struct {
	// Engine is the animation engine the server drives. Required.
	Engine engine.Engine

	// Backend names the surface backend to use. Empty selects the
	// highest-priority available backend.
	Backend string

	// Surface carries backend creation options (shared GPU device).
	Surface surface.Options

	// SettleGrace is the number of extra nonzero-delta advances to run
	// after a state machine first reports settled, before trusting the
	// report. Values below zero are treated as the default of one.
	SettleGrace int

	// Log receives the server's diagnostics. Nil disables logging.
	Log *slog.Logger
}

// subscription is one live property-change subscription.
type subscription struct {
	target command.ViewModelInstanceHandle
	path   string
	match  engine.PathMatch
	last   engine.Value
	primed bool
}

// Server is the command server: worker goroutine state. All fields
// except the two channels are owned by the worker goroutine.
type Server struct {
	cfg Config
	log *slog.Logger

	ch  *command.Channel
	out *command.Outbox

	// Worker-owned state.
	ctx  surface.Context
	reg  *registry
	subs map[uint64]*subscription

	done chan struct{}
}

// New creates a Server. The worker does not run until Start.
func New(cfg Config) *Server {
	if cfg.SettleGrace < 0 {
		cfg.SettleGrace = 1
	}
	log := cfg.Log
	if log == nil {
		log = slog.New(nopLogHandler{})
	}
	return &Server{
		cfg:  cfg,
		log:  log,
		ch:   command.NewChannel(),
		out:  command.NewOutbox(),
		reg:  newRegistry(),
		subs: make(map[uint64]*subscription),
		done: make(chan struct{}),
	}
}

// Channel returns the command channel callers enqueue into.
func (s *Server) Channel() *command.Channel { return s.ch }

// Outbox returns the outbound message queue callers poll.
func (s *Server) Outbox() *command.Outbox { return s.out }

// Done is closed when the worker goroutine has terminated and all
// resources, including the render context, have been released.
func (s *Server) Done() <-chan struct{} { return s.done }

// Context returns the render context. Valid after Start succeeds.
// The context is owned by the worker; callers may hold the reference
// for identity and capability queries but must route all rendering
// through commands.
func (s *Server) Context() surface.Context { return s.ctx }

// Start launches the worker goroutine and blocks until it has created
// the render context. If context creation fails, the worker exits and
// Start returns the failure: a queue never exists half-constructed.
func (s *Server) Start() error {
	if s.cfg.Engine == nil {
		return ErrNilEngine
	}

	started := command.NewCall[struct{}]()
	go s.run(started)
	_, err := started.Wait()
	return err
}

// run is the worker loop. It owns the render context and the registry
// for its entire lifetime.
func (s *Server) run(started *command.Call[struct{}]) {
	defer close(s.done)

	ctx, err := s.newContext()
	if err != nil {
		s.ch.Close()
		started.Resolve(struct{}{}, err)
		return
	}
	s.ctx = ctx
	started.Resolve(struct{}{}, nil)

	s.log.Info("command server started", "backend", ctx.Name())

	var cmds []command.Command
	for {
		cmds = s.ch.PopAll(cmds[:0])
		if len(cmds) == 0 {
			<-s.ch.Wake()
			continue
		}
		for i, cmd := range cmds {
			if cmd.CommandKind() == command.KindStop {
				s.shutdown(cmds[i+1:])
				return
			}
			s.exec(cmd)
		}
	}
}

func (s *Server) newContext() (surface.Context, error) {
	if s.cfg.Backend != "" {
		return surface.NewContextByName(s.cfg.Backend, s.cfg.Surface)
	}
	return surface.NewContext(s.cfg.Surface)
}

// shutdown rejects commands queued behind the stop command, releases
// all resources, and closes the render context.
func (s *Server) shutdown(discarded []command.Command) {
	// Close the channel before the final drain. Every Enqueue either
	// serialized before Close, leaving its command for PopAll below, or
	// after it, in which case the caller saw the rejection. Nothing is
	// accepted and then silently dropped.
	s.ch.Close()

	for _, cmd := range discarded {
		s.reject(cmd)
	}
	for _, cmd := range s.ch.PopAll(nil) {
		s.reject(cmd)
	}

	s.reg.releaseAll()
	clear(s.subs)
	if err := s.ctx.Close(); err != nil {
		s.log.Warn("render context close failed", "err", err)
	}
	s.log.Info("command server stopped")
}

// reject resolves a discarded command's completion mechanism with
// ErrStopped, so no caller hangs on a command that will never execute.
func (s *Server) reject(cmd command.Command) {
	switch c := cmd.(type) {
	case command.RunOnce:
		c.Done.Resolve(struct{}{}, ErrStopped)
	case command.CreateArtboard:
		c.Done.Resolve(0, ErrStopped)
	case command.CreateStateMachine:
		c.Done.Resolve(0, ErrStopped)
	case command.CreateAnimation:
		c.Done.Resolve(0, ErrStopped)
	case command.CreateViewModelInstance:
		c.Done.Resolve(0, ErrStopped)
	case command.CreateRenderTarget:
		c.Done.Resolve(0, ErrStopped)
	case command.RegisterDraw:
		c.Done.Resolve(0, ErrStopped)
	case command.DrawToBuffer:
		c.Done.Resolve(struct{}{}, ErrStopped)
	case command.LoadFile:
		s.post(command.Message{Kind: command.MsgError, Req: c.Req, Err: ErrStopped})
	case command.GetBoolInput:
		s.post(command.Message{Kind: command.MsgError, Req: c.Req, Err: ErrStopped})
	case command.GetNumberInput:
		s.post(command.Message{Kind: command.MsgError, Req: c.Req, Err: ErrStopped})
	case command.GetProperty:
		s.post(command.Message{Kind: command.MsgError, Req: c.Req, Err: ErrStopped})
	case command.GetListSize:
		s.post(command.Message{Kind: command.MsgError, Req: c.Req, Err: ErrStopped})
	case command.DecodeAsset:
		s.post(command.Message{Kind: command.MsgError, Req: c.Req, Err: ErrStopped})
	}
}

// post enqueues an outbound message.
func (s *Server) post(m command.Message) {
	s.out.Post(m)
}

// fail reports a failed request: an error message when the command was
// correlated, and a log line either way. Handler failures never stop
// the worker loop.
func (s *Server) fail(req uint64, kind command.Kind, err error) {
	s.log.Warn("command failed", "kind", kind.String(), "err", err)
	if req != 0 {
		s.post(command.Message{Kind: command.MsgError, Req: req, Err: err})
	}
}
