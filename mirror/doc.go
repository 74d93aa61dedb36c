// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package mirror runs the synchronization loop between the local
// framebuffer and remote viewers.
//
// An [Engine] owns the change tracker, the input injector, and a
// [Protocol], the remote-display server it feeds. The loop has two
// states. Idle: no viewer is attached and the loop blocks inside the
// protocol's event processing until one connects. Active: every scan
// interval the loop lets the protocol service its viewers, and if any
// viewer has asked for an update, scans the framebuffer and marks the
// changed rectangle for delivery. When the last viewer detaches, both
// buffers are blanked so the next viewer receives a full frame.
//
// Everything that touches device files or the protocol happens on the
// goroutine running [Engine.Run]; viewer input callbacks arrive on it
// from inside ProcessEvents. The control socket handlers registered by
// [Engine.RegisterActions] run on their own goroutines and only read
// published status, copy the remote buffer under the tracker's lock,
// or leave requests for the loop to carry out.
package mirror
