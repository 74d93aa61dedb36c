// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package screen

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Source is the native pixel memory being mirrored.
type Source interface {
	// Words returns every mapped page as 32-bit words. Pages are
	// stacked vertically with the geometry's row stride.
	Words() []uint32

	// ActiveOffset returns the first row of the page currently
	// being displayed.
	ActiveOffset() (int, error)
}

// TrackerOptions configures a Tracker.
type TrackerOptions struct {
	// Checkerboard enables [UndoCheckerboard] on changed words.
	Checkerboard bool

	Logger *slog.Logger
}

// Tracker detects changes in a Source and keeps the remote buffer in
// sync with it.
//
// Scan, Blank, and CopyRemote serialize on an internal mutex so the
// control socket can snapshot the remote buffer while the sync loop
// runs. The remote byte slice returned by RemoteBytes is read by the
// protocol layer without the lock; that read happens on the sync loop
// goroutine, between scans.
type Tracker struct {
	source   Source
	geometry Geometry
	shifts   Shifts
	options  TrackerOptions
	logger   *slog.Logger

	mu      sync.Mutex
	compare []uint32
	remote  *remoteBuffer
}

// NewTracker validates geometry and allocates both buffers. The first
// Scan after construction reports every non-black word as changed.
func NewTracker(source Source, geometry Geometry, options TrackerOptions) (*Tracker, error) {
	if err := geometry.Validate(); err != nil {
		return nil, err
	}
	remote, err := newRemoteBuffer(geometry.RemoteSize())
	if err != nil {
		return nil, err
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracker{
		source:   source,
		geometry: geometry,
		shifts:   ShiftsFor(geometry),
		options:  options,
		logger:   logger,
		compare:  make([]uint32, geometry.wordCount()),
		remote:   remote,
	}, nil
}

// Geometry returns the geometry the tracker was built for.
func (t *Tracker) Geometry() Geometry { return t.geometry }

// RemoteBytes returns the remote buffer: Width*Height pixels of two
// bytes each, row-major, no padding. The slice stays valid until Close.
func (t *Tracker) RemoteBytes() []byte { return t.remote.data }

// Scan compares the active native page against the last snapshot,
// transcodes every changed word into the remote buffer, and returns the
// bounding rectangle of the change. The rectangle covers whole words,
// so its width is always even.
//
// A fault while reading the native mapping (a driver tearing it down)
// stops the walk. The bounds accumulated up to that point are returned
// together with the error so the caller can still flush them.
func (t *Tracker) Scan() (Rect, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var changed bounds
	err := t.walk(&changed)
	return changed.rect(), err
}

// walk runs one comparison pass, recording changed word positions in
// changed.
func (t *Tracker) walk(changed *bounds) (err error) {
	wordsPerRow := t.geometry.wordsPerRow()
	strideWords := t.geometry.strideWords()
	native := t.source.Words()
	if need := (t.geometry.Height-1)*strideWords + wordsPerRow; len(native) < need {
		return fmt.Errorf("native mapping holds %d words, one page needs %d", len(native), need)
	}
	base := t.pageBase(len(native), strideWords)

	y := 0
	old := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(old)
		if r := recover(); r != nil {
			err = fmt.Errorf("page fault reading framebuffer row %d: %v", y, r)
		}
	}()

	remote := t.remote.words
	for ; y < t.geometry.Height; y++ {
		start := base + y*strideWords
		row := native[start : start+wordsPerRow]
		snapshot := t.compare[y*wordsPerRow : (y+1)*wordsPerRow]
		for x, word := range row {
			if word == snapshot[x] {
				continue
			}
			snapshot[x] = word
			if t.options.Checkerboard {
				word = UndoCheckerboard(word)
			}
			remote[y*wordsPerRow+x] = TranscodeWord(word, t.shifts)
			changed.add(x*pixelsPerWord, y)
		}
	}
	return nil
}

// pageBase returns the word index of the first row of the active
// page. Any offset that would read past the mapping falls back to the
// first page.
func (t *Tracker) pageBase(nativeLength, strideWords int) int {
	offset, err := t.source.ActiveOffset()
	if err != nil {
		t.logger.Debug("active page query failed, scanning first page", "error", err)
		return 0
	}
	last := (offset+t.geometry.Height-1)*strideWords + t.geometry.wordsPerRow()
	if offset < 0 || last > nativeLength {
		t.logger.Debug("active page outside mapping, scanning first page",
			"offset", offset,
			"mapped_rows", nativeLength/strideWords,
		)
		return 0
	}
	return offset * strideWords
}

// bounds accumulates the extent of changed words. Minimum and maximum
// are tracked independently, so the result is the tight box around
// every change regardless of the order changes are seen in.
type bounds struct {
	set        bool
	minX, minY int
	maxX, maxY int
}

func (b *bounds) add(x, y int) {
	if !b.set {
		*b = bounds{set: true, minX: x, minY: y, maxX: x, maxY: y}
		return
	}
	b.minX = min(b.minX, x)
	b.maxX = max(b.maxX, x)
	b.minY = min(b.minY, y)
	b.maxY = max(b.maxY, y)
}

// rect converts word positions to a rect with exclusive edges. A word
// at x covers pixels x and x+1.
func (b *bounds) rect() Rect {
	if !b.set {
		return EmptyRect()
	}
	return Rect{
		MinX: b.minX,
		MinY: b.minY,
		MaxX: b.maxX + pixelsPerWord,
		MaxY: b.maxY + 1,
	}
}

// Blank zeroes both buffers. The next Scan reports the whole non-black
// screen as changed, which is what a newly attached viewer needs.
func (t *Tracker) Blank() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.compare)
	t.remote.clear()
}

// CopyRemote copies the remote buffer into dst, allocating when dst is
// too small, and returns the filled slice.
func (t *Tracker) CopyRemote(dst []byte) []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := len(t.remote.data)
	if cap(dst) < size {
		dst = make([]byte, size)
	}
	dst = dst[:size]
	copy(dst, t.remote.data)
	return dst
}

// Close releases the remote buffer. The protocol layer must be closed
// first.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remote.close()
}
