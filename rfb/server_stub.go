// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !libvncserver || !cgo

package rfb

import (
	"context"
	"time"

	"github.com/bureau-foundation/fbvnc/mirror"
	"github.com/bureau-foundation/fbvnc/screen"
)

// Server stands in for the libvncserver binding. Init always fails.
type Server struct {
	options Options
}

// New returns a server whose Init reports ErrUnavailable.
func New(options Options) *Server {
	options.applyDefaults()
	return &Server{options: options}
}

func (s *Server) Init(width, height int, buffer []byte, handler mirror.InputHandler) error {
	return ErrUnavailable
}

func (s *Server) MarkDirty(rect screen.Rect) {}

func (s *Server) ProcessEvents(ctx context.Context, timeout time.Duration) error {
	return ErrUnavailable
}

func (s *Server) Viewers() []mirror.Viewer { return nil }

func (s *Server) CloseViewers() {}

func (s *Server) Close() error { return nil }
