// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
)

// ErrBufferTooSmall is returned by pixel readback when the destination
// buffer cannot hold Width*Height*4 bytes.
var ErrBufferTooSmall = errors.New("surface: buffer too small")

// PixmapTarget is a CPU-backed render target using *image.RGBA.
//
// Software contexts draw directly into its pixel storage; readback is a
// plain copy. It is also useful in tests as a stand-in for GPU targets.
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget creates a new CPU-backed render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Image returns the backing image. The image is shared, not copied.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// ReadInto copies the target's pixels into buf as tightly packed RGBA
// rows. It performs no partial write: if buf is too small, nothing is
// copied and ErrBufferTooSmall is returned.
func (t *PixmapTarget) ReadInto(buf []byte) error {
	w, h := t.Width(), t.Height()
	need := w * h * 4
	if len(buf) < need {
		return fmt.Errorf("%w: need %d bytes for %dx%d, have %d",
			ErrBufferTooSmall, need, w, h, len(buf))
	}
	rowBytes := w * 4
	for y := 0; y < h; y++ {
		src := t.img.Pix[y*t.img.Stride : y*t.img.Stride+rowBytes]
		copy(buf[y*rowBytes:], src)
	}
	return nil
}

// Destroy releases the target. For pixmap targets this drops the
// backing image reference.
func (t *PixmapTarget) Destroy() {
	t.img = nil
}
