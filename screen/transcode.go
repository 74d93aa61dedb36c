// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package screen

// pairMask keeps the low five bits of each 16-bit half of a word.
const pairMask = 0x001f001f

// Shifts are the right-shifts that bring the top five bits of each
// native channel down to bit 0.
type Shifts struct {
	Red   uint
	Green uint
	Blue  uint
}

// ShiftsFor derives the shifts from a validated geometry. RGB565 gives
// {11, 6, 0}.
func ShiftsFor(g Geometry) Shifts {
	return Shifts{
		Red:   uint(g.Red.Offset + g.Red.Length - remoteBitsPerSample),
		Green: uint(g.Green.Offset + g.Green.Length - remoteBitsPerSample),
		Blue:  uint(g.Blue.Offset + g.Blue.Length - remoteBitsPerSample),
	}
}

// TranscodeWord converts two packed native pixels to two packed remote
// pixels: red in bits 0-4, green in 5-9, blue in 10-14 of each half.
func TranscodeWord(word uint32, s Shifts) uint32 {
	return (word>>s.Red)&pairMask |
		((word>>s.Green)&pairMask)<<5 |
		((word>>s.Blue)&pairMask)<<10
}

// The two alternating words of a dark gray checkerboard, and the flat
// word they are rewritten to. Some RFB encoders render the pattern as
// a visible moiré.
const (
	checkerboardEven = 0x18e320e4
	checkerboardOdd  = 0x20e418e3
	checkerboardFlat = 0x18e318e3
)

// UndoCheckerboard flattens the checkerboard words. Any other word is
// returned unchanged.
func UndoCheckerboard(word uint32) uint32 {
	if word == checkerboardEven || word == checkerboardOdd {
		return checkerboardFlat
	}
	return word
}
