// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package screen

import (
	"fmt"
	"math"
)

// Rect is a pixel rectangle with exclusive right and bottom edges.
type Rect struct {
	MinX, MinY int
	MaxX, MaxY int
}

// EmptyRect returns the sentinel that grows to fit the first point.
func EmptyRect() Rect {
	return Rect{MinX: math.MaxInt, MinY: math.MaxInt, MaxX: -1, MaxY: -1}
}

// FullRect covers a whole screen.
func FullRect(width, height int) Rect {
	return Rect{MinX: 0, MinY: 0, MaxX: width, MaxY: height}
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// Width is zero for an empty rect.
func (r Rect) Width() int {
	if r.Empty() {
		return 0
	}
	return r.MaxX - r.MinX
}

// Height is zero for an empty rect.
func (r Rect) Height() int {
	if r.Empty() {
		return 0
	}
	return r.MaxY - r.MinY
}

func (r Rect) String() string {
	if r.Empty() {
		return "(empty)"
	}
	return fmt.Sprintf("%dx%d+%d+%d", r.Width(), r.Height(), r.MinX, r.MinY)
}
