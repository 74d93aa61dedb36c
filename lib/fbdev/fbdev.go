// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fbdev

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ErrNotMapped is returned by operations on a closed Device.
var ErrNotMapped = errors.New("fbdev: device not mapped")

// Device is an open, read-only, memory-mapped framebuffer.
//
// Device is not safe for concurrent use; the sync loop owns it.
type Device struct {
	path string
	fd   int
	data []byte // mmap'd MAP_SHARED, PROT_READ

	info       VarScreenInfo
	lineLength int
	pages      int
}

// Open opens the framebuffer at path and maps up to buffers pages of
// pixel data. A page is one visible screen (line length times visible
// rows). The mapping is clamped to the video memory size the driver
// reports, so asking for two pages on a single-buffered device maps
// one.
//
// Any failure here is fatal for the server: there is nothing to mirror
// without a display.
func Open(path string, buffers int) (*Device, error) {
	if buffers < 1 {
		buffers = 1
	}

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("opening framebuffer %s: %w", path, err)
	}

	varInfo, err := readVarScreenInfo(fd)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("reading screen info from %s: %w", path, err)
	}

	// Some drivers (and the Android emulator) do not implement the
	// fixed info ioctl. Fall back to a tightly packed row.
	lineLength := int(varInfo.XRes * varInfo.BitsPerPixel / 8)
	memoryLength := 0
	if fixInfo, err := readFixScreenInfo(fd); err == nil {
		if fixInfo.LineLength != 0 {
			lineLength = int(fixInfo.LineLength)
		}
		memoryLength = int(fixInfo.SMemLen)
	}

	pageLength := lineLength * int(varInfo.YRes)
	if pageLength <= 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("framebuffer %s reports empty geometry %dx%d@%d",
			path, varInfo.XRes, varInfo.YRes, varInfo.BitsPerPixel)
	}
	pages := pagesToMap(buffers, pageLength, memoryLength)

	data, err := unix.Mmap(fd, 0, pages*pageLength, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("memory-mapping %d page(s) of %s: %w", pages, path, err)
	}

	return &Device{
		path:       path,
		fd:         fd,
		data:       data,
		info:       varInfo,
		lineLength: lineLength,
		pages:      pages,
	}, nil
}

// pagesToMap clamps the requested page count to what fits in the
// driver's video memory. memoryLength zero means unknown.
func pagesToMap(requested, pageLength, memoryLength int) int {
	if memoryLength <= 0 {
		return requested
	}
	available := memoryLength / pageLength
	if available < 1 {
		return 1
	}
	if available < requested {
		return available
	}
	return requested
}

// Path returns the device path passed to Open.
func (d *Device) Path() string { return d.path }

// Info returns the variable screen info read at Open.
func (d *Device) Info() VarScreenInfo { return d.info }

// LineLength returns the row stride in bytes.
func (d *Device) LineLength() int { return d.lineLength }

// Pages returns the number of mapped screen pages.
func (d *Device) Pages() int { return d.pages }

// Words returns the mapping as native-endian 32-bit words. Each word
// holds two 16-bit pixels. The slice aliases device memory and must not
// be used after Close.
func (d *Device) Words() []uint32 {
	if len(d.data) < 4 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&d.data[0])), len(d.data)/4)
}

// ActiveOffset re-reads the screen info and returns the row offset
// (yoffset) of the page currently being scanned out.
func (d *Device) ActiveOffset() (int, error) {
	if d.data == nil {
		return 0, ErrNotMapped
	}
	info, err := readVarScreenInfo(d.fd)
	if err != nil {
		return 0, err
	}
	return int(info.YOffset), nil
}

// Close unmaps the framebuffer and closes the device. Safe to call
// more than once.
func (d *Device) Close() error {
	if d.data == nil {
		return nil
	}
	var errs []error
	if err := unix.Munmap(d.data); err != nil {
		errs = append(errs, fmt.Errorf("unmapping %s: %w", d.path, err))
	}
	if err := unix.Close(d.fd); err != nil {
		errs = append(errs, fmt.Errorf("closing %s: %w", d.path, err))
	}
	d.data = nil
	d.fd = -1
	return errors.Join(errs...)
}
