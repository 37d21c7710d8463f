// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"
)

// wav builds a RIFF/WAVE stream from a fmt block and sample data.
func wav(formatTag, channels uint16, rate uint32, bits uint16, samples []byte, extra ...[]byte) []byte {
	var buf bytes.Buffer
	w := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }

	buf.WriteString("RIFF")
	w(uint32(0)) // size, patched below
	buf.WriteString("WAVE")

	for _, chunk := range extra {
		buf.Write(chunk)
	}

	buf.WriteString("fmt ")
	w(uint32(16))
	w(formatTag)
	w(channels)
	w(rate)
	w(rate * uint32(channels) * uint32(bits) / 8)
	w(channels * bits / 8)
	w(bits)

	buf.WriteString("data")
	w(uint32(len(samples)))
	buf.Write(samples)

	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	return out
}

func TestWAVDecodesPCM(t *testing.T) {
	samples := make([]byte, 44100*2) // one second of 16-bit mono
	a, err := WAV(wav(1, 1, 44100, 16, samples))
	if err != nil {
		t.Fatalf("WAV: %v", err)
	}
	if a.Channels != 1 || a.SampleRate != 44100 || a.BitsPerSample != 16 {
		t.Fatalf("fmt = %d ch, %d Hz, %d bit", a.Channels, a.SampleRate, a.BitsPerSample)
	}
	if len(a.Data) != len(samples) {
		t.Fatalf("data length = %d, want %d", len(a.Data), len(samples))
	}
	if a.Duration() != time.Second {
		t.Fatalf("Duration = %v, want 1s", a.Duration())
	}
}

func TestWAVSkipsUnknownChunks(t *testing.T) {
	// A 3-byte LIST chunk before fmt exercises word alignment: the
	// parser must skip the pad byte to find the next chunk header.
	list := []byte("LIST\x03\x00\x00\x00abc\x00")
	a, err := WAV(wav(1, 2, 22050, 8, []byte{1, 2, 3, 4}, list))
	if err != nil {
		t.Fatalf("WAV: %v", err)
	}
	if a.Channels != 2 || a.BitsPerSample != 8 {
		t.Fatalf("fmt = %d ch, %d bit", a.Channels, a.BitsPerSample)
	}
}

func TestWAVRejectsNonRIFF(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("OggS"), []byte("RIFFxxxxMIDI")} {
		if _, err := WAV(data); !errors.Is(err, ErrNotWAV) {
			t.Errorf("WAV(%q) = %v, want ErrNotWAV", data, err)
		}
	}
}

func TestWAVRejectsTruncatedChunk(t *testing.T) {
	data := wav(1, 1, 8000, 16, []byte{0, 0})
	if _, err := WAV(data[:len(data)-1]); !errors.Is(err, ErrNotWAV) {
		t.Fatalf("truncated = %v, want ErrNotWAV", err)
	}
}

func TestWAVRejectsNonPCM(t *testing.T) {
	if _, err := WAV(wav(3, 1, 8000, 16, nil)); !errors.Is(err, ErrUnsupportedWAV) {
		t.Fatalf("float format = %v, want ErrUnsupportedWAV", err)
	}
	if _, err := WAV(wav(1, 1, 8000, 24, nil)); !errors.Is(err, ErrUnsupportedWAV) {
		t.Fatalf("24-bit = %v, want ErrUnsupportedWAV", err)
	}
	if _, err := WAV(wav(1, 0, 8000, 16, nil)); !errors.Is(err, ErrUnsupportedWAV) {
		t.Fatalf("zero channels = %v, want ErrUnsupportedWAV", err)
	}
}

func TestWAVRequiresFmtAndData(t *testing.T) {
	if _, err := WAV([]byte("RIFF\x04\x00\x00\x00WAVE")); !errors.Is(err, ErrNotWAV) {
		t.Fatalf("no chunks = %v, want ErrNotWAV", err)
	}
}

func TestImageDetectsFormat(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xFF, A: 0xFF})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, format, err := Image(buf.Bytes())
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if format != "png" {
		t.Fatalf("format = %q, want png", format)
	}
	if b := decoded.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 2x2", b)
	}
}

func TestImageRejectsGarbage(t *testing.T) {
	if _, _, err := Image([]byte("definitely not an image")); err == nil {
		t.Fatal("garbage decoded as image")
	}
}

func TestFontRejectsGarbage(t *testing.T) {
	if _, err := Font([]byte("definitely not a font")); err == nil {
		t.Fatal("garbage parsed as font")
	}
}
