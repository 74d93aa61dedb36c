// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mirror

import (
	"context"
	"time"

	"github.com/bureau-foundation/fbvnc/screen"
)

// InputHandler receives viewer input. Calls are made synchronously
// from inside Protocol.ProcessEvents.
type InputHandler interface {
	HandleKey(sym uint32, pressed bool)
	HandlePointer(mask, x, y int)
}

// Viewer is one attached remote client.
type Viewer interface {
	// HasRequestedRegion reports whether the viewer is waiting for a
	// framebuffer update.
	HasRequestedRegion() bool
}

// Protocol is the remote-display server. Implementations are driven
// from a single goroutine.
type Protocol interface {
	// Init starts serving a width x height screen from buffer, which
	// holds two bytes per pixel and stays valid until Close.
	Init(width, height int, buffer []byte, handler InputHandler) error

	// MarkDirty schedules rect for delivery to viewers.
	MarkDirty(rect screen.Rect)

	// ProcessEvents services connections and viewer messages for up
	// to timeout, returning early once something was handled or ctx
	// is done. It returns ctx.Err() when ctx ends the wait.
	ProcessEvents(ctx context.Context, timeout time.Duration) error

	// Viewers lists the attached viewers.
	Viewers() []Viewer

	// CloseViewers disconnects every viewer. The server keeps
	// listening.
	CloseViewers()

	// Close stops the server.
	Close() error
}
