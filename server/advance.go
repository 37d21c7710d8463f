// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import "github.com/gogpu/motion/command"

// execAdvanceStateMachine runs one simulation step and manages the
// machine's settle state.
//
// A machine's own "needs more advancement" report is untrustworthy on
// the frame it first turns false: transitions scheduled by the last
// input write may not have fired yet. So settling requires the report
// to stay false through a grace window of nonzero-delta advances.
// Zero-delta advances evaluate the machine without consuming grace;
// they cannot settle a machine.
func (s *Server) execAdvanceStateMachine(c command.AdvanceStateMachine) {
	e, err := s.reg.machine(c.Machine)
	if err != nil {
		s.fail(0, command.KindAdvanceStateMachine, err)
		return
	}

	needs := e.sm.Advance(c.Delta)
	switch {
	case needs:
		e.playing = true
		e.grace = s.cfg.SettleGrace
	case c.Delta > 0:
		if e.grace > 0 {
			e.grace--
		} else if e.playing {
			e.playing = false
			s.post(command.Message{
				Kind:   command.MsgSettled,
				Handle: command.Handle(c.Machine),
			})
		}
	}

	s.notifySubscribers()
}

// execAdvanceAnimation moves an animation's playhead and applies it to
// the owning artboard. The artboard's transform graph is advanced here
// only when no playing state machine owns that job for the artboard.
func (s *Server) execAdvanceAnimation(c command.AdvanceAnimation) {
	e, err := s.reg.animation(c.Animation)
	if err != nil {
		s.fail(0, command.KindAdvanceAnimation, err)
		return
	}

	e.running = e.anim.Advance(c.Delta)
	e.anim.Apply()

	if ab, err := s.reg.artboard(e.artboard); err == nil {
		if !s.reg.machineAdvancing(e.artboard) {
			ab.ab.Advance(c.Delta)
		}
	}

	s.notifySubscribers()
}
