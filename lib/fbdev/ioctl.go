// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fbdev

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Framebuffer ioctl numbers from include/uapi/linux/fb.h. 0x46 is 'F'.
// These predate the _IOC encoding and are plain constants.
const (
	ioctlGetVarScreenInfo = 0x4600
	ioctlGetFixScreenInfo = 0x4602
)

// BitField mirrors struct fb_bitfield: a color channel's position
// inside a pixel value, counted from the least significant bit.
type BitField struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// VarScreenInfo mirrors struct fb_var_screeninfo (160 bytes).
type VarScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Alpha  BitField
	NonStd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	PixClock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HSyncLen, VSyncLen       uint32
	Sync                     uint32
	VMode                    uint32
	Rotate                   uint32
	Colorspace               uint32
	_                        [4]uint32
}

// FixScreenInfo mirrors struct fb_fix_screeninfo. The two physical
// addresses are unsigned long in the kernel, hence uintptr.
type FixScreenInfo struct {
	ID           [16]byte
	SMemStart    uintptr
	SMemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MMIOStart    uintptr
	MMIOLen      uint32
	Accel        uint32
	Capabilities uint16
	_            [2]uint16
}

// readVarScreenInfo issues FBIOGET_VSCREENINFO on fd.
func readVarScreenInfo(fd int) (VarScreenInfo, error) {
	var info VarScreenInfo
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(fd),
		uintptr(ioctlGetVarScreenInfo),
		uintptr(unsafe.Pointer(&info)),
	)
	if errno != 0 {
		return VarScreenInfo{}, fmt.Errorf("FBIOGET_VSCREENINFO: %w", errno)
	}
	return info, nil
}

// readFixScreenInfo issues FBIOGET_FSCREENINFO on fd.
func readFixScreenInfo(fd int) (FixScreenInfo, error) {
	var info FixScreenInfo
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(fd),
		uintptr(ioctlGetFixScreenInfo),
		uintptr(unsafe.Pointer(&info)),
	)
	if errno != 0 {
		return FixScreenInfo{}, fmt.Errorf("FBIOGET_FSCREENINFO: %w", errno)
	}
	return info, nil
}
