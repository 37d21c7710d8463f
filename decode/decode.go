// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package decode provides host-side decoders for the asset kinds an
// animation engine references: raster images, fonts and audio clips.
//
// The decoders are stateless; engines wrap the decoded results in their
// own asset types. Everything here runs on the queue's worker goroutine
// so decoded assets can bind to that queue's render context.
package decode
