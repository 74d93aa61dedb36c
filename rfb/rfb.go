// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package rfb serves the mirrored screen to VNC viewers through
// libvncserver.
//
// The binding is compiled only with the libvncserver build tag (and
// cgo), since it needs the C library and headers at build time:
//
//	go build -tags libvncserver ./cmd/fbvncserver
//
// Without the tag, [Server.Init] returns [ErrUnavailable] so that the
// rest of the module builds and tests on machines without the library.
//
// The server is configured for 16-bit truecolor with five bits per
// sample, matching the buffer that package screen produces. The pixel
// buffer is owned by the caller and must stay valid until Close.
package rfb

import (
	"errors"
	"log/slog"

	"github.com/bureau-foundation/fbvnc/mirror"
)

// ErrUnavailable is returned when the binary was built without
// libvncserver support.
var ErrUnavailable = errors.New("rfb: built without libvncserver (rebuild with -tags libvncserver)")

const (
	bitsPerSample   = 5
	samplesPerPixel = 2
	bytesPerPixel   = 2
)

// Options configures a Server.
type Options struct {
	// Port is the TCP port to listen on.
	Port int

	// DesktopName is shown in viewer title bars.
	DesktopName string

	// AlwaysShared lets viewers connect without disconnecting others.
	AlwaysShared bool

	Logger *slog.Logger
}

func (o *Options) applyDefaults() {
	if o.Port == 0 {
		o.Port = 5901
	}
	if o.DesktopName == "" {
		o.DesktopName = "Android"
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
}

var _ mirror.Protocol = (*Server)(nil)

// viewer is a point-in-time view of one client.
type viewer struct {
	requested bool
}

func (v viewer) HasRequestedRegion() bool { return v.requested }
