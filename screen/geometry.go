// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package screen

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/fbvnc/lib/fbdev"
)

// ErrUnsupportedDepth is returned by [Geometry.Validate] for any pixel
// depth other than 16 bits.
var ErrUnsupportedDepth = errors.New("screen: only 16 bits per pixel is supported")

// remoteBitsPerSample is the channel width of the remote format.
const remoteBitsPerSample = 5

// pixelsPerWord is how many 16-bit pixels one 32-bit word holds.
const pixelsPerWord = 2

// Channel locates one color channel inside a native pixel value.
type Channel struct {
	Offset int
	Length int
}

// Geometry describes the native display. It is read once at startup
// and not changed afterwards.
type Geometry struct {
	Width        int
	Height       int
	BitsPerPixel int

	// LineLength is the native row stride in bytes. Zero means rows
	// are tightly packed.
	LineLength int

	Red   Channel
	Green Channel
	Blue  Channel

	// BufferCount is the number of native pages mapped.
	BufferCount int
}

// FromDevice reads the geometry of an open framebuffer.
func FromDevice(device *fbdev.Device) Geometry {
	info := device.Info()
	return Geometry{
		Width:        int(info.XRes),
		Height:       int(info.YRes),
		BitsPerPixel: int(info.BitsPerPixel),
		LineLength:   device.LineLength(),
		Red:          Channel{Offset: int(info.Red.Offset), Length: int(info.Red.Length)},
		Green:        Channel{Offset: int(info.Green.Offset), Length: int(info.Green.Length)},
		Blue:         Channel{Offset: int(info.Blue.Offset), Length: int(info.Blue.Length)},
		BufferCount:  device.Pages(),
	}
}

// Validate reports whether the tracker can mirror this geometry.
func (g Geometry) Validate() error {
	if g.BitsPerPixel != 16 {
		return fmt.Errorf("%w: got %d", ErrUnsupportedDepth, g.BitsPerPixel)
	}
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("screen: invalid size %dx%d", g.Width, g.Height)
	}
	if g.Width%pixelsPerWord != 0 {
		return fmt.Errorf("screen: width %d is not a multiple of %d pixels", g.Width, pixelsPerWord)
	}
	stride := g.stride()
	if stride < g.Width*2 || stride%4 != 0 {
		return fmt.Errorf("screen: line length %d cannot hold %d word-aligned pixels", stride, g.Width)
	}
	channels := []struct {
		name    string
		channel Channel
	}{{"red", g.Red}, {"green", g.Green}, {"blue", g.Blue}}
	for _, entry := range channels {
		if entry.channel.Length < remoteBitsPerSample || entry.channel.Offset+entry.channel.Length > g.BitsPerPixel {
			return fmt.Errorf("screen: %s channel offset %d length %d does not fit a 5-bit sample",
				entry.name, entry.channel.Offset, entry.channel.Length)
		}
	}
	return nil
}

// stride returns the row stride in bytes.
func (g Geometry) stride() int {
	if g.LineLength > 0 {
		return g.LineLength
	}
	return g.Width * g.BitsPerPixel / 8
}

// strideWords is the native row stride in 32-bit words.
func (g Geometry) strideWords() int { return g.stride() / 4 }

// wordsPerRow is the number of words covering one visible row.
func (g Geometry) wordsPerRow() int { return g.Width / pixelsPerWord }

// wordCount is the number of words covering the visible screen.
func (g Geometry) wordCount() int { return g.wordsPerRow() * g.Height }

// RemoteSize is the remote buffer size in bytes: two bytes per pixel,
// tightly packed.
func (g Geometry) RemoteSize() int { return g.wordCount() * 4 }
