// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package softengine

import "github.com/gogpu/motion/engine"

// animation is one instantiated timeline: it interpolates a fill's
// color between two endpoints over the definition's duration.
type animation struct {
	ab   *artboard
	def  *animationDef
	time float64
	mode engine.LoopMode
	dir  engine.Direction
	// pong is true while a ping-pong timeline runs backwards.
	pong bool
}

var _ engine.Animation = (*animation)(nil)

func newAnimation(ab *artboard, def *animationDef) *animation {
	return &animation{ab: ab, def: def, mode: engine.LoopOneShot, dir: engine.DirectionAuto}
}

// Name returns the animation's name.
func (an *animation) Name() string { return an.def.Name }

// Advance moves the playhead by dt seconds and reports whether the
// animation keeps running. One-shot timelines stop at the boundary;
// loop and ping-pong timelines never stop on their own.
func (an *animation) Advance(dt float32) bool {
	dur := an.def.Duration
	step := float64(dt)
	if an.dir == engine.DirectionBackwards {
		step = -step
	}
	if an.pong {
		step = -step
	}
	an.time += step

	switch an.mode {
	case engine.LoopOneShot:
		if an.time <= 0 {
			an.time = 0
			return an.dir != engine.DirectionBackwards && step > 0
		}
		if an.time >= dur {
			an.time = dur
			return false
		}
		return true

	case engine.LoopLoop:
		for an.time >= dur {
			an.time -= dur
		}
		for an.time < 0 {
			an.time += dur
		}
		return true

	case engine.LoopPingPong:
		for an.time > dur || an.time < 0 {
			if an.time > dur {
				an.time = 2*dur - an.time
				an.pong = !an.pong
			}
			if an.time < 0 {
				an.time = -an.time
				an.pong = !an.pong
			}
		}
		return true
	}
	return false
}

// Apply mixes the current playhead into the artboard: the target fill's
// color is interpolated between the endpoints.
func (an *animation) Apply() {
	if an.def.Fill < 0 || an.def.Fill >= len(an.ab.fills) {
		return
	}
	progress := an.time / an.def.Duration
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	an.ab.fills[an.def.Fill].Color = lerpColor(an.def.From, an.def.To, progress)
}

// SetLoop sets the loop mode.
func (an *animation) SetLoop(mode engine.LoopMode) { an.mode = mode }

// SetDirection sets the playback direction.
func (an *animation) SetDirection(dir engine.Direction) { an.dir = dir }

// Close releases the animation.
func (an *animation) Close() { an.ab = nil }

// lerpColor interpolates two packed 0xAARRGGBB colors per channel.
func lerpColor(from, to uint32, t float64) uint32 {
	mix := func(shift uint) uint32 {
		a := float64((from >> shift) & 0xFF)
		b := float64((to >> shift) & 0xFF)
		return (uint32(a+(b-a)*t) & 0xFF) << shift
	}
	return mix(24) | mix(16) | mix(8) | mix(0)
}
