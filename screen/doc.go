// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package screen turns a native 16-bit framebuffer into the pixel
// buffer a remote viewer is served from, tracking which region changed
// between observations.
//
// [Tracker] owns two buffers sized to the visible screen: a comparison
// snapshot of the last native words it saw, and the remote buffer in
// RFB 5-5-5 format. A [Tracker.Scan] walks the active native page one
// 32-bit word (two pixels) at a time, transcodes only words that
// changed, and returns the bounding [Rect] of the change. The remote
// buffer is handed to the protocol layer once at startup and mutated
// in place afterwards.
//
// [EncodeCapture] snapshots the remote buffer for the control socket,
// optionally compressed, with a BLAKE3 digest over the raw pixels.
package screen
