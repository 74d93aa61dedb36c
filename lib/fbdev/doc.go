// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fbdev opens a Linux framebuffer device (/dev/fb0, or
// /dev/graphics/fb0 on Android) read-only and maps its pages into
// memory.
//
// The device's variable screen info (FBIOGET_VSCREENINFO) describes the
// visible resolution, bits per pixel, and channel bit fields; the fixed
// screen info (FBIOGET_FSCREENINFO) gives the row stride and the size
// of video memory. Both are read with raw ioctls through
// golang.org/x/sys/unix (pure Go, no cgo).
//
// Android devices page-flip between two buffers. [Device.ActiveOffset]
// re-issues FBIOGET_VSCREENINFO on every call and returns the current
// yoffset so the caller can locate the front buffer inside the mapping.
// The mapping itself is created once and never written.
package fbdev
