// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package evdev

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unsafe"
)

func TestEventSizeMatchesABI(t *testing.T) {
	want := 24
	if unsafe.Sizeof(uintptr(0)) == 4 {
		want = 16
	}
	if EventSize != want {
		t.Errorf("EventSize = %d, want %d", EventSize, want)
	}
}

func TestEncodeLayout(t *testing.T) {
	stamp := time.Unix(1700000000, 250000*1000)
	encoded := Encode(Event{Time: stamp, Type: EvAbs, Code: AbsY, Value: -7})
	if len(encoded) != EventSize {
		t.Fatalf("encoded length = %d, want %d", len(encoded), EventSize)
	}

	// The type/code/value triple sits after the timeval.
	tail := encoded[EventSize-8:]
	if got := binary.NativeEndian.Uint16(tail[0:2]); got != EvAbs {
		t.Errorf("type = %d, want %d", got, EvAbs)
	}
	if got := binary.NativeEndian.Uint16(tail[2:4]); got != AbsY {
		t.Errorf("code = %d, want %d", got, AbsY)
	}
	if got := int32(binary.NativeEndian.Uint32(tail[4:8])); got != -7 {
		t.Errorf("value = %d, want -7", got)
	}
}

func TestEncodeDecodeTimestamp(t *testing.T) {
	stamp := time.Unix(1700000123, 456789*1000)
	decoded, err := Decode(Encode(Event{Time: stamp, Type: EvKey, Code: BtnTouch, Value: 1}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !decoded.Time.Equal(stamp) {
		t.Errorf("Time = %v, want %v", decoded.Time, stamp)
	}
	if decoded.Type != EvKey || decoded.Code != BtnTouch || decoded.Value != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestDecodeShortRecord(t *testing.T) {
	if _, err := Decode(make([]byte, EventSize-1)); err == nil {
		t.Fatal("Decode accepted a short record")
	}
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) - 1, nil }

type failingWriter struct{}

var errBusy = errors.New("device busy")

func (failingWriter) Write(p []byte) (int, error) { return 0, errBusy }

func TestWriteEvent(t *testing.T) {
	var buffer bytes.Buffer
	if err := WriteEvent(&buffer, Event{Type: EvSyn, Code: SynReport}); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	if buffer.Len() != EventSize {
		t.Errorf("wrote %d bytes, want %d", buffer.Len(), EventSize)
	}

	if err := WriteEvent(shortWriter{}, Event{}); err == nil {
		t.Error("WriteEvent accepted a short write")
	}
	if err := WriteEvent(failingWriter{}, Event{}); !errors.Is(err, errBusy) {
		t.Errorf("WriteEvent error = %v, want errBusy", err)
	}
}

func TestDeviceWritesRecordsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event0")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("creating fake device: %v", err)
	}

	device, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, event := range []Event{
		{Type: EvKey, Code: KeyA, Value: 1},
		{Type: EvKey, Code: KeyA, Value: 0},
	} {
		if err := device.WriteEvent(event); err != nil {
			t.Fatalf("WriteEvent: %v", err)
		}
	}
	if err := device.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fake device: %v", err)
	}
	if len(data) != 2*EventSize {
		t.Fatalf("file holds %d bytes, want %d", len(data), 2*EventSize)
	}
	second, err := Decode(data[EventSize:])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if second.Code != KeyA || second.Value != 0 {
		t.Errorf("second record = %+v, want KeyA release", second)
	}
}

func TestReadNameOnRegularFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event0")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("creating fake device: %v", err)
	}
	if _, err := ReadName(path); err == nil {
		t.Fatal("ReadName on a regular file succeeded; EVIOCGNAME should fail")
	}
}

func TestIoctlEncoding(t *testing.T) {
	// Reference values from <linux/input.h> on Linux.
	if got := eviocgname(128); got != 0x80804506 {
		t.Errorf("EVIOCGNAME(128) = %#x, want 0x80804506", got)
	}
	if got := eviocgabs(AbsX); got != 0x80184540 {
		t.Errorf("EVIOCGABS(ABS_X) = %#x, want 0x80184540", got)
	}
	if got := eviocgabs(AbsY); got != 0x80184541 {
		t.Errorf("EVIOCGABS(ABS_Y) = %#x, want 0x80184541", got)
	}
}
