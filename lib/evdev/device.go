// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package evdev

import (
	"fmt"
	"os"
)

// Device is an open input event device file.
type Device struct {
	path string
	file *os.File
}

// Open opens an input device for writing events. Querying identity
// and axis ranges works on the same descriptor.
func Open(path string) (*Device, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening input device %s: %w", path, err)
	}
	return &Device{path: path, file: file}, nil
}

// Path returns the device path.
func (d *Device) Path() string { return d.path }

// Name returns the device's human-readable name (EVIOCGNAME).
func (d *Device) Name() (string, error) {
	return readName(d.file.Fd())
}

// AbsInfo returns the range of an absolute axis (EVIOCGABS).
func (d *Device) AbsInfo(axis uint16) (AbsInfo, error) {
	return readAbsInfo(d.file.Fd(), axis)
}

// WriteEvent writes one event record.
func (d *Device) WriteEvent(event Event) error {
	if err := WriteEvent(d.file, event); err != nil {
		return fmt.Errorf("writing event to %s: %w", d.path, err)
	}
	return nil
}

// Close closes the device file.
func (d *Device) Close() error {
	return d.file.Close()
}

// ReadName opens path read-only, queries its name, and closes it. This
// is the probe the device locator runs over /dev/input/event*.
func ReadName(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return readName(file.Fd())
}
