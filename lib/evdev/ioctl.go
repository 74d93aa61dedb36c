// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package evdev

import (
	"bytes"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl request encoding (the kernel's _IOC macro).
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocRead = 2
)

func ioc(direction, kind, number, size uint32) uintptr {
	return uintptr(direction<<iocDirShift | kind<<iocTypeShift | number<<iocNRShift | size<<iocSizeShift)
}

// AbsInfo mirrors struct input_absinfo.
type AbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// nameBufferSize matches the 128-byte buffer the kernel's own tools
// use for EVIOCGNAME.
const nameBufferSize = 128

// eviocgname encodes EVIOCGNAME(len) = _IOC(_IOC_READ, 'E', 0x06, len).
func eviocgname(length int) uintptr {
	return ioc(iocRead, 'E', 0x06, uint32(length))
}

// eviocgabs encodes EVIOCGABS(abs) = _IOR('E', 0x40 + abs, struct input_absinfo).
func eviocgabs(axis uint16) uintptr {
	return ioc(iocRead, 'E', 0x40+uint32(axis), uint32(unsafe.Sizeof(AbsInfo{})))
}

// readName issues EVIOCGNAME on fd and returns the device name.
func readName(fd uintptr) (string, error) {
	buffer := make([]byte, nameBufferSize)
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		fd,
		eviocgname(len(buffer)),
		uintptr(unsafe.Pointer(&buffer[0])),
	)
	if errno != 0 {
		return "", fmt.Errorf("EVIOCGNAME: %w", errno)
	}
	if end := bytes.IndexByte(buffer, 0); end >= 0 {
		buffer = buffer[:end]
	}
	return string(buffer), nil
}

// readAbsInfo issues EVIOCGABS for axis on fd.
func readAbsInfo(fd uintptr, axis uint16) (AbsInfo, error) {
	var info AbsInfo
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		fd,
		eviocgabs(axis),
		uintptr(unsafe.Pointer(&info)),
	)
	if errno != 0 {
		return AbsInfo{}, fmt.Errorf("EVIOCGABS(0x%02x): %w", axis, errno)
	}
	return info, nil
}
