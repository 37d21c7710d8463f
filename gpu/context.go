// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/motion/engine"
	"github.com/gogpu/motion/surface"
)

// Common backend errors.
var (
	// ErrNoAdapter is returned when no usable GPU adapter is found.
	ErrNoAdapter = errors.New("gpu: no GPU adapters found")

	// ErrBadProvider is returned when a device provider does not expose
	// HAL device and queue handles.
	ErrBadProvider = errors.New("gpu: device provider does not expose HAL types")

	// ErrContextClosed is returned by operations on a closed context.
	ErrContextClosed = errors.New("gpu: context closed")
)

// halProvider is the capability a shared device provider must expose.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// context is the wgpu render context. All methods run on the queue's
// worker goroutine.
type context struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// external is true when the device is shared with a host
	// application; shared resources are not destroyed on Close.
	external bool

	painter *surface.Painter
	frame   *target
	closed  bool
}

var _ surface.Context = (*context)(nil)

func newContext(opts surface.Options) (surface.Context, error) {
	c := &context{}
	if opts.DeviceProvider != nil {
		if err := c.adoptDevice(opts.DeviceProvider); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err := c.openDevice(); err != nil {
		return nil, err
	}
	return c, nil
}

// adoptDevice shares the host application's device. The provider must
// expose the underlying HAL handles.
func (c *context) adoptDevice(provider any) error {
	hp, ok := provider.(halProvider)
	if !ok {
		return ErrBadProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("%w: HalDevice is not hal.Device", ErrBadProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("%w: HalQueue is not hal.Queue", ErrBadProvider)
	}
	c.device = device
	c.queue = queue
	c.external = true
	return nil
}

// openDevice acquires a dedicated device, preferring discrete and
// integrated adapters over software rasterizers.
func (c *context) openDevice() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: no HAL backend", ErrNoAdapter)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("gpu: open device: %w", err)
	}
	c.instance = instance
	c.device = openDev.Device
	c.queue = openDev.Queue
	return nil
}

// Name returns the backend name.
func (c *context) Name() string { return BackendName }

// Factory returns the context-bound engine factory. It is live while
// the context's device is.
func (c *context) Factory() engine.Factory { return factory{c: c} }

type factory struct {
	c *context
}

// Live reports whether the factory's context still holds a device.
func (f factory) Live() bool { return !f.c.closed && f.c.device != nil }

// NewTarget creates a texture-backed render target.
func (c *context) NewTarget(w, h int) (surface.Target, error) {
	if c.closed {
		return nil, ErrContextClosed
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("gpu: invalid target size %dx%d", w, h)
	}
	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label: "motion_target",
		Size: hal.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture: %w", err)
	}
	return &target{
		ctx: c,
		tex: tex,
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
		w:   w,
		h:   h,
	}, nil
}

// BeginFrame clears the target's staging image and returns a painter
// over it. The pixels reach the texture on Flush.
func (c *context) BeginFrame(t surface.Target) (engine.Renderer, error) {
	if c.closed {
		return nil, ErrContextClosed
	}
	gt, ok := t.(*target)
	if !ok {
		return nil, fmt.Errorf("gpu: target %T is not a wgpu target", t)
	}
	c.frame = gt
	c.painter = surface.NewPainter(gt.img)
	c.painter.Reset()
	return c.painter, nil
}

// Flush uploads the frame's pixels to the target texture.
func (c *context) Flush() error {
	if c.closed {
		return ErrContextClosed
	}
	gt := c.frame
	c.frame = nil
	c.painter = nil
	if gt == nil {
		return nil
	}
	c.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: gt.tex, MipLevel: 0},
		gt.img.Pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(gt.w * 4),
			RowsPerImage: uint32(gt.h),
		},
		&hal.Extent3D{
			Width:              uint32(gt.w),
			Height:             uint32(gt.h),
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

// ReadPixels copies the target texture into buf as tight RGBA rows,
// through a staging buffer with 256-byte-aligned rows.
func (c *context) ReadPixels(t surface.Target, buf []byte) error {
	if c.closed {
		return ErrContextClosed
	}
	gt, ok := t.(*target)
	if !ok {
		return fmt.Errorf("gpu: target %T is not a wgpu target", t)
	}
	need := gt.w * gt.h * 4
	if len(buf) < need {
		return fmt.Errorf("%w: need %d bytes for %dx%d, have %d",
			surface.ErrBufferTooSmall, need, gt.w, gt.h, len(buf))
	}

	w, h := uint32(gt.w), uint32(gt.h)
	bytesPerRow := w * 4
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "motion_readback",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer c.device.DestroyBuffer(staging)

	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "motion_readback",
	})
	if err != nil {
		return fmt.Errorf("gpu: create encoder: %w", err)
	}
	if err := encoder.BeginEncoding("motion_readback"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	// WriteTexture leaves the texture in the transfer-destination
	// layout; the copy needs transfer-source.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: gt.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopyDst,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(gt.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  alignedBytesPerRow,
			RowsPerImage: h,
		},
		TextureBase: hal.ImageCopyTexture{Texture: gt.tex, MipLevel: 0},
		Size:        hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: gt.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageCopyDst,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer c.device.FreeCommandBuffer(cmdBuf)

	fence, err := c.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer c.device.DestroyFence(fence)

	if err := c.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	fenceOK, err := c.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("gpu: wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, stagingSize)
	if err := c.queue.ReadBuffer(staging, 0, readback); err != nil {
		return fmt.Errorf("gpu: readback: %w", err)
	}

	// Strip row padding.
	if alignedBytesPerRow == bytesPerRow {
		copy(buf[:need], readback[:need])
		return nil
	}
	for row := uint32(0); row < h; row++ {
		src := int(row) * int(alignedBytesPerRow)
		dst := int(row) * int(bytesPerRow)
		copy(buf[dst:dst+int(bytesPerRow)], readback[src:src+int(bytesPerRow)])
	}
	return nil
}

// Close releases the context. Shared devices belong to the host and are
// left alone.
func (c *context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.painter = nil
	c.frame = nil
	if !c.external {
		if c.device != nil {
			c.device.Destroy()
		}
		if c.instance != nil {
			c.instance.Destroy()
		}
	}
	c.device = nil
	c.queue = nil
	c.instance = nil
	return nil
}

// target is a texture-backed render target with a CPU staging image.
type target struct {
	ctx *context
	tex hal.Texture
	img *image.RGBA
	w   int
	h   int
}

var _ surface.Target = (*target)(nil)

// Width returns the target width in pixels.
func (t *target) Width() int { return t.w }

// Height returns the target height in pixels.
func (t *target) Height() int { return t.h }

// Format returns the texture format.
func (t *target) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Destroy releases the texture.
func (t *target) Destroy() {
	if t.tex != nil && !t.ctx.closed && t.ctx.device != nil {
		t.ctx.device.DestroyTexture(t.tex)
	}
	t.tex = nil
	t.img = nil
}
