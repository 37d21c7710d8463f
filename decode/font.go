// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package decode

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
)

// Font parses a TTF or OTF font. The returned *font.Font is read-only
// and safe for concurrent use; callers needing shaping state wrap it in
// a font.Face per user.
func Font(data []byte) (*font.Font, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode font: %w", err)
	}
	return face.Font, nil
}
