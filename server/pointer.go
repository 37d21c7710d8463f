// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"github.com/gogpu/motion/command"
	"github.com/gogpu/motion/engine"
)

// execPointer maps one pointer event from frame coordinates into
// artboard space and forwards it to the target state machine. The
// mapping inverts the same fit/alignment transform draws use, so a
// pointer position over drawn content lands on that content.
func (s *Server) execPointer(c command.Pointer) {
	e, err := s.reg.machine(c.Machine)
	if err != nil {
		s.fail(0, c.Event, err)
		return
	}
	ab, err := s.reg.artboard(e.artboard)
	if err != nil {
		s.fail(0, c.Event, err)
		return
	}

	cw, ch := ab.ab.Size()
	m := engine.AlignMatrix(c.Fit, c.Align,
		float64(c.FrameW), float64(c.FrameH),
		float64(cw), float64(ch), float64(c.ScaleFactor))
	inv, ok := m.Invert()
	if !ok {
		// A degenerate layout (zero-area content or frame) has no
		// meaningful hit surface; drop the event.
		return
	}
	fx, fy := inv.Apply(float64(c.X), float64(c.Y))
	x, y := float32(fx), float32(fy)

	switch c.Event {
	case command.KindPointerMove:
		e.sm.PointerMove(x, y)
	case command.KindPointerDown:
		e.sm.PointerDown(x, y)
	case command.KindPointerUp:
		e.sm.PointerUp(x, y)
	case command.KindPointerExit:
		e.sm.PointerExit(x, y)
	}

	// Pointer input can start transitions the same way input writes do.
	e.playing = true
	e.grace = s.cfg.SettleGrace
}
