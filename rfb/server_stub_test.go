// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !libvncserver || !cgo

package rfb

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStubServerUnavailable(t *testing.T) {
	server := New(Options{})
	if err := server.Init(4, 2, make([]byte, 16), nil); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Init() = %v, want ErrUnavailable", err)
	}
	if err := server.ProcessEvents(context.Background(), time.Millisecond); !errors.Is(err, ErrUnavailable) {
		t.Errorf("ProcessEvents() = %v, want ErrUnavailable", err)
	}
	if viewers := server.Viewers(); len(viewers) != 0 {
		t.Errorf("Viewers() = %v, want none", viewers)
	}
	if err := server.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	server := New(Options{})
	if server.options.Port != 5901 {
		t.Errorf("default port = %d, want 5901", server.options.Port)
	}
	if server.options.DesktopName != "Android" {
		t.Errorf("default desktop name = %q, want Android", server.options.DesktopName)
	}
	if server.options.Logger == nil {
		t.Error("default logger is nil")
	}
}

func TestViewerRequestedRegion(t *testing.T) {
	if !(viewer{requested: true}).HasRequestedRegion() {
		t.Error("requesting viewer reports no region")
	}
	if (viewer{}).HasRequestedRegion() {
		t.Error("idle viewer reports a region")
	}
}
