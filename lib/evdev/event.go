// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package evdev

import (
	"fmt"
	"io"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Event is one input event before encoding.
type Event struct {
	Time  time.Time
	Type  uint16
	Code  uint16
	Value int32
}

// rawEvent mirrors struct input_event for the running ABI.
type rawEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// EventSize is the size in bytes of one encoded event.
const EventSize = int(unsafe.Sizeof(rawEvent{}))

// Encode returns the native-layout bytes of event.
func Encode(event Event) []byte {
	raw := rawEvent{
		Time:  unix.NsecToTimeval(event.Time.UnixNano()),
		Type:  event.Type,
		Code:  event.Code,
		Value: event.Value,
	}
	encoded := make([]byte, EventSize)
	copy(encoded, unsafe.Slice((*byte)(unsafe.Pointer(&raw)), EventSize))
	return encoded
}

// Decode parses one native-layout event from data, which must be at
// least EventSize bytes.
func Decode(data []byte) (Event, error) {
	if len(data) < EventSize {
		return Event{}, fmt.Errorf("evdev: short event record: %d bytes, want %d", len(data), EventSize)
	}
	var raw rawEvent
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&raw)), EventSize), data)
	return Event{
		Time:  time.Unix(raw.Time.Unix()),
		Type:  raw.Type,
		Code:  raw.Code,
		Value: raw.Value,
	}, nil
}

// WriteEvent encodes event and writes it to w in one call.
func WriteEvent(w io.Writer, event Event) error {
	written, err := w.Write(Encode(event))
	if err != nil {
		return err
	}
	if written != EventSize {
		return fmt.Errorf("evdev: short write: %d of %d bytes", written, EventSize)
	}
	return nil
}
