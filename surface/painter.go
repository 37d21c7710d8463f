// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/motion/engine"
)

// Painter is a CPU renderer over an *image.RGBA. It implements
// engine.Renderer and engine.RectFiller and is the frame renderer of
// the software backend; the wgpu backend reuses it for rasterization
// before uploading.
//
// Fills are solid-color with source-over blending. General affine
// transforms are supported: a transformed rectangle is rasterized by
// testing pixel centers against the rectangle through the inverse
// transform.
type Painter struct {
	dst   *image.RGBA
	cur   engine.Matrix
	stack []engine.Matrix
}

// NewPainter creates a painter drawing into img with an identity
// transform.
func NewPainter(img *image.RGBA) *Painter {
	return &Painter{dst: img, cur: engine.Identity()}
}

// Reset clears the image to transparent black and resets the transform
// stack. Called at the start of each frame.
func (p *Painter) Reset() {
	draw.Draw(p.dst, p.dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
	p.cur = engine.Identity()
	p.stack = p.stack[:0]
}

// Save pushes the current transform.
func (p *Painter) Save() {
	p.stack = append(p.stack, p.cur)
}

// Restore pops the transform stack. Restore on an empty stack resets to
// identity.
func (p *Painter) Restore() {
	if n := len(p.stack); n > 0 {
		p.cur = p.stack[n-1]
		p.stack = p.stack[:n-1]
		return
	}
	p.cur = engine.Identity()
}

// Transform post-multiplies the current transform.
func (p *Painter) Transform(m engine.Matrix) {
	p.cur = p.cur.Mul(m)
}

// FillRect fills the rectangle (x, y, w, h) mapped through the current
// transform with the packed 0xAARRGGBB color, source-over.
func (p *Painter) FillRect(x, y, w, h float64, argb uint32) {
	if w <= 0 || h <= 0 {
		return
	}
	a := uint8(argb >> 24)
	if a == 0 {
		return
	}
	c := color.RGBA{
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
		A: a,
	}

	// Bounding box of the transformed corners, clipped to the image.
	x0, y0 := p.cur.Apply(x, y)
	x1, y1 := p.cur.Apply(x+w, y)
	x2, y2 := p.cur.Apply(x, y+h)
	x3, y3 := p.cur.Apply(x+w, y+h)
	minX := int(math.Floor(min(min(x0, x1), min(x2, x3))))
	maxX := int(math.Ceil(max(max(x0, x1), max(x2, x3))))
	minY := int(math.Floor(min(min(y0, y1), min(y2, y3))))
	maxY := int(math.Ceil(max(max(y0, y1), max(y2, y3))))

	b := p.dst.Bounds()
	minX = max(minX, b.Min.X)
	minY = max(minY, b.Min.Y)
	maxX = min(maxX, b.Max.X)
	maxY = min(maxY, b.Max.Y)
	if minX >= maxX || minY >= maxY {
		return
	}

	inv, ok := p.cur.Invert()
	if !ok {
		return
	}

	src := image.NewUniform(c)
	for py := minY; py < maxY; py++ {
		// Find the covered span on this row by testing pixel centers
		// against the untransformed rectangle.
		runStart := -1
		for px := minX; px < maxX; px++ {
			ux, uy := inv.Apply(float64(px)+0.5, float64(py)+0.5)
			inside := ux >= x && ux < x+w && uy >= y && uy < y+h
			if inside && runStart < 0 {
				runStart = px
			}
			if (!inside || px == maxX-1) && runStart >= 0 {
				runEnd := px
				if inside {
					runEnd = px + 1
				}
				r := image.Rect(runStart, py, runEnd, py+1)
				draw.Draw(p.dst, r, src, image.Point{}, draw.Over)
				runStart = -1
			}
		}
	}
}
