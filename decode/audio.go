// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// Common audio decoding errors.
var (
	// ErrNotWAV is returned when the data is not a RIFF/WAVE stream.
	ErrNotWAV = errors.New("decode: not a WAV stream")

	// ErrUnsupportedWAV is returned for WAV encodings other than
	// uncompressed PCM.
	ErrUnsupportedWAV = errors.New("decode: unsupported WAV encoding")
)

// Audio is a decoded PCM audio clip.
type Audio struct {
	// Channels is the channel count (1 mono, 2 stereo).
	Channels int
	// SampleRate is the sample rate in Hz.
	SampleRate int
	// BitsPerSample is the sample width (8 or 16).
	BitsPerSample int
	// Data is the raw interleaved PCM sample data.
	Data []byte
}

// Duration returns the clip length.
func (a *Audio) Duration() time.Duration {
	bytesPerSec := a.SampleRate * a.Channels * a.BitsPerSample / 8
	if bytesPerSec == 0 {
		return 0
	}
	return time.Duration(len(a.Data)) * time.Second / time.Duration(bytesPerSec)
}

// WAV decodes an uncompressed PCM RIFF/WAVE stream. Chunks other than
// fmt and data are skipped.
func WAV(data []byte) (*Audio, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	var a Audio
	haveFmt := false
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		off += 8
		if size < 0 || off+size > len(data) {
			return nil, fmt.Errorf("%w: truncated %q chunk", ErrNotWAV, id)
		}
		chunk := data[off : off+size]

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: short fmt chunk", ErrNotWAV)
			}
			format := binary.LittleEndian.Uint16(chunk[0:2])
			if format != 1 { // PCM
				return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedWAV, format)
			}
			a.Channels = int(binary.LittleEndian.Uint16(chunk[2:4]))
			a.SampleRate = int(binary.LittleEndian.Uint32(chunk[4:8]))
			a.BitsPerSample = int(binary.LittleEndian.Uint16(chunk[14:16]))
			if a.Channels == 0 || a.SampleRate == 0 ||
				(a.BitsPerSample != 8 && a.BitsPerSample != 16) {
				return nil, fmt.Errorf("%w: %d ch, %d Hz, %d bit",
					ErrUnsupportedWAV, a.Channels, a.SampleRate, a.BitsPerSample)
			}
			haveFmt = true
		case "data":
			a.Data = chunk
		}

		// Chunks are word-aligned.
		off += size + size%2
	}

	if !haveFmt || a.Data == nil {
		return nil, fmt.Errorf("%w: missing fmt or data chunk", ErrNotWAV)
	}
	return &a, nil
}
