// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package motion

import (
	"log/slog"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/motion/engine"
)

// Options configures a Queue. Start from DefaultOptions and set Engine;
// everything else has a usable default.
type Options struct {
	// Engine is the animation engine the queue drives. Required.
	Engine engine.Engine

	// Backend names the surface backend to create the render context
	// from. Empty selects the highest-priority available backend.
	Backend string

	// DeviceProvider optionally shares a GPU device owned by a host
	// application with the queue's render context, instead of letting
	// the backend create a dedicated device. Ignored by backends that
	// cannot share devices (the software backend).
	DeviceProvider gpucontext.DeviceProvider

	// SettleGraceFrames is the number of extra nonzero-delta advances a
	// state machine that reports settled must sit through before the
	// queue trusts the report and emits the settled notification.
	// Zero selects the default of one; negative disables the grace
	// window entirely.
	SettleGraceFrames int

	// PathMatch selects how view-model property paths are resolved:
	// engine.MatchExact (default) or engine.MatchFold for
	// case-insensitive matching.
	PathMatch engine.PathMatch

	// OnSettled, when non-nil, is invoked during Poll for every state
	// machine that settled since the previous Poll.
	OnSettled func(StateMachineHandle)

	// Logger receives the queue's diagnostics. Nil uses the package
	// logger configured via SetLogger.
	Logger *slog.Logger
}

// DefaultOptions returns the default queue options. Engine must still
// be set by the caller.
func DefaultOptions() Options {
	return Options{
		SettleGraceFrames: 1,
	}
}

// settleGrace maps the exported knob onto the worker's non-negative
// grace count.
func (o Options) settleGrace() int {
	switch {
	case o.SettleGraceFrames == 0:
		return 1
	case o.SettleGraceFrames < 0:
		return 0
	default:
		return o.SettleGraceFrames
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return Logger()
}
