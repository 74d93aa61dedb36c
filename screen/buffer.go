// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package screen

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// remoteBuffer is the pixel memory served to viewers. It lives in an
// anonymous mapping outside the Go heap because the C protocol library
// keeps a pointer to it for the life of the server, which cgo forbids
// for Go-allocated memory.
type remoteBuffer struct {
	data  []byte
	words []uint32
}

func newRemoteBuffer(size int) (*remoteBuffer, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("allocating %d-byte remote buffer: %w", size, err)
	}
	return &remoteBuffer{
		data:  data,
		words: unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), size/4),
	}, nil
}

func (b *remoteBuffer) clear() {
	clear(b.words)
}

func (b *remoteBuffer) close() error {
	if b.data == nil {
		return nil
	}
	err := unix.Munmap(b.data)
	b.data = nil
	b.words = nil
	return err
}
