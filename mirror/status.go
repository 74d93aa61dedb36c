// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mirror

import (
	"time"

	"github.com/bureau-foundation/fbvnc/screen"
)

// State is the loop state.
type State string

const (
	StateStarting State = "starting"
	StateIdle     State = "idle"
	StateActive   State = "active"
	StateStopped  State = "stopped"
)

// Region is a rectangle in status reports.
type Region struct {
	X      int `cbor:"x"`
	Y      int `cbor:"y"`
	Width  int `cbor:"width"`
	Height int `cbor:"height"`
}

func regionOf(rect screen.Rect) Region {
	if rect.Empty() {
		return Region{}
	}
	return Region{X: rect.MinX, Y: rect.MinY, Width: rect.Width(), Height: rect.Height()}
}

// Status is a snapshot of the loop, served by the "status" action.
type Status struct {
	State   State `cbor:"state"`
	Viewers int   `cbor:"viewers"`

	Width  int `cbor:"width"`
	Height int `cbor:"height"`

	KeyboardDevice string `cbor:"keyboard_device"`
	TouchDevice    string `cbor:"touch_device"`

	// Cycles counts active-state iterations.
	Cycles uint64 `cbor:"cycles"`

	// Scans counts framebuffer comparisons; DirtyFrames counts the
	// ones that found a change.
	Scans       uint64 `cbor:"scans"`
	DirtyFrames uint64 `cbor:"dirty_frames"`
	ScanErrors  uint64 `cbor:"scan_errors"`

	// Disconnects counts viewer disconnects requested by F11 or the
	// control socket.
	Disconnects uint64 `cbor:"disconnects"`

	LastDirty Region    `cbor:"last_dirty"`
	LastScan  time.Time `cbor:"last_scan"`
	StartedAt time.Time `cbor:"started_at"`
}
