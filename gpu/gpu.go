// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu provides the wgpu-backed surface backend: render targets
// are GPU textures, frames are rasterized on the CPU and uploaded, and
// pixel readback round-trips through a staging buffer.
//
// The backend registers itself under the name "wgpu" at high priority;
// enabling it is a blank import:
//
//	import _ "github.com/gogpu/motion/gpu"
//
// A host application that already owns a GPU device can share it
// through Options.DeviceProvider; the provider must expose the
// underlying HAL device and queue. Without a provider the backend opens
// its own device, preferring discrete over integrated adapters.
package gpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/motion/surface"
)

// BackendName is the registry name of the wgpu backend.
const BackendName = "wgpu"

func init() {
	surface.Register(BackendName, 100, newContext, available)
}

// available reports whether a HAL backend exists in this build.
// Adapter enumeration is deferred to context creation; a backend that
// registers available but finds no adapters fails construction and the
// registry falls through to the software backend.
func available() bool {
	_, ok := hal.GetBackend(gputypes.BackendVulkan)
	return ok
}
