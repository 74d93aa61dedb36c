// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package input

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/fbvnc/lib/evdev"
)

// ErrNoDevice is returned by OpenKeyboard and OpenTouch when no path
// was configured or discovered.
var ErrNoDevice = errors.New("input: no device path")

// nopCloser is returned for disabled channels so callers can always
// defer Close.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenKeyboard opens a keyboard node for injection.
func OpenKeyboard(path string) (Target, io.Closer, error) {
	if path == "" {
		return Target{}, nopCloser{}, ErrNoDevice
	}
	device, err := evdev.Open(path)
	if err != nil {
		return Target{Path: path}, nopCloser{}, err
	}
	return Target{Path: path, Sink: device}, device, nil
}

// OpenTouch opens a touch node and reads its X and Y ranges. A node
// that does not report ranges (the emulator's virtual touch device)
// gets zero ranges, which disables scaling.
func OpenTouch(path string, logger *slog.Logger) (Target, io.Closer, error) {
	if path == "" {
		return Target{}, nopCloser{}, ErrNoDevice
	}
	device, err := evdev.Open(path)
	if err != nil {
		return Target{Path: path}, nopCloser{}, err
	}
	target := Target{Path: path, Sink: device}

	x, errX := device.AbsInfo(evdev.AbsX)
	y, errY := device.AbsInfo(evdev.AbsY)
	if errX != nil || errY != nil {
		logger.Info("touch device reports no axis ranges, passing coordinates through",
			"path", path,
			"error", errors.Join(errX, errY),
		)
		return target, device, nil
	}
	target.X = x
	target.Y = y
	logger.Info("touch device ranges",
		"path", path,
		"x", fmt.Sprintf("%d-%d", x.Minimum, x.Maximum),
		"y", fmt.Sprintf("%d-%d", y.Minimum, y.Maximum),
	)
	return target, device, nil
}
