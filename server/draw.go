// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package server

import (
	"fmt"

	"github.com/gogpu/motion/command"
	"github.com/gogpu/motion/engine"
	"github.com/gogpu/motion/surface"
)

// execDraw renders one registered artboard/target binding.
func (s *Server) execDraw(key command.DrawKey) error {
	d, err := s.reg.draw(key)
	if err != nil {
		return err
	}
	if _, err := s.liveFactory(); err != nil {
		return err
	}
	t, err := s.reg.target(d.target)
	if err != nil {
		return err
	}
	ab, err := s.reg.artboard(d.artboard)
	if err != nil {
		return err
	}

	r, err := s.ctx.BeginFrame(t)
	if err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	s.drawAligned(r, d, t, ab)
	if err := s.ctx.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// drawAligned draws one artboard into the current frame with the
// binding's fit/alignment transform.
func (s *Server) drawAligned(r engine.Renderer, d *drawEntry, t surface.Target, ab *artboardEntry) {
	cw, ch := ab.ab.Size()
	m := engine.AlignMatrix(d.fit, d.align,
		float64(t.Width()), float64(t.Height()),
		float64(cw), float64(ch), float64(d.scaleFactor))

	r.Save()
	r.Transform(m)
	ab.ab.Draw(r)
	r.Restore()
}

// execDrawToBuffer renders a binding and reads the target's pixels back
// into the caller's buffer. The buffer is validated before any drawing
// happens so a short buffer never costs a wasted frame.
func (s *Server) execDrawToBuffer(c command.DrawToBuffer) error {
	d, err := s.reg.draw(c.Key)
	if err != nil {
		return err
	}
	t, err := s.reg.target(d.target)
	if err != nil {
		return err
	}
	if need := t.Width() * t.Height() * 4; len(c.Buf) < need {
		return fmt.Errorf("server: pixel buffer too small: need %d bytes, have %d", need, len(c.Buf))
	}
	if err := s.execDraw(c.Key); err != nil {
		return err
	}
	return s.ctx.ReadPixels(t, c.Buf)
}

// execDrawSprites renders a batch of sprite placements into one target
// in submission order, all within a single frame.
func (s *Server) execDrawSprites(c command.DrawSprites) error {
	if len(c.Sprites) == 0 {
		return ErrEmptyBatch
	}
	if _, err := s.liveFactory(); err != nil {
		return err
	}
	t, err := s.reg.target(c.Target)
	if err != nil {
		return err
	}

	// Resolve every sprite before starting the frame so a bad key in
	// the middle of a batch cannot leave a half-drawn frame behind.
	type resolved struct {
		d  *drawEntry
		ab *artboardEntry
		tm engine.Matrix
	}
	batch := make([]resolved, 0, len(c.Sprites))
	for _, sp := range c.Sprites {
		d, err := s.reg.draw(sp.Key)
		if err != nil {
			return err
		}
		ab, err := s.reg.artboard(d.artboard)
		if err != nil {
			return err
		}
		batch = append(batch, resolved{d: d, ab: ab, tm: sp.Transform})
	}

	r, err := s.ctx.BeginFrame(t)
	if err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	for _, sp := range batch {
		cw, ch := sp.ab.ab.Size()
		m := sp.tm.Mul(engine.AlignMatrix(sp.d.fit, sp.d.align,
			float64(t.Width()), float64(t.Height()),
			float64(cw), float64(ch), float64(sp.d.scaleFactor)))

		r.Save()
		r.Transform(m)
		sp.ab.ab.Draw(r)
		r.Restore()
	}
	if err := s.ctx.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
