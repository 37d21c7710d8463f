// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

// AlignMatrix computes the transform that places artboard content of
// size (contentW, contentH) into a frame of size (frameW, frameH)
// according to fit and alignment. scaleFactor only applies to FitLayout.
//
// The same matrix is used in both directions: forward to position draw
// output, inverted to map frame-space pointer coordinates back into
// artboard space.
func AlignMatrix(fit Fit, a Alignment, frameW, frameH, contentW, contentH, scaleFactor float64) Matrix {
	if contentW <= 0 || contentH <= 0 || frameW <= 0 || frameH <= 0 {
		return Identity()
	}

	sx, sy := 1.0, 1.0
	switch fit {
	case FitFill:
		sx = frameW / contentW
		sy = frameH / contentH
	case FitContain:
		s := min(frameW/contentW, frameH/contentH)
		sx, sy = s, s
	case FitCover:
		s := max(frameW/contentW, frameH/contentH)
		sx, sy = s, s
	case FitWidth:
		s := frameW / contentW
		sx, sy = s, s
	case FitHeight:
		s := frameH / contentH
		sx, sy = s, s
	case FitNone:
		// No scaling.
	case FitScaleDown:
		s := min(frameW/contentW, frameH/contentH)
		if s > 1 {
			s = 1
		}
		sx, sy = s, s
	case FitLayout:
		if scaleFactor <= 0 {
			scaleFactor = 1
		}
		sx, sy = scaleFactor, scaleFactor
	}

	tx := (frameW - contentW*sx) * (a.X + 1) / 2
	ty := (frameH - contentH*sy) * (a.Y + 1) / 2
	return Translate(tx, ty).Mul(Scale(sx, sy))
}
