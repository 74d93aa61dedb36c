// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/fbvnc/lib/codec"
	"github.com/bureau-foundation/fbvnc/lib/service"
	"github.com/bureau-foundation/fbvnc/lib/testutil"
	"github.com/bureau-foundation/fbvnc/mirror"
	"github.com/bureau-foundation/fbvnc/screen"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		command string
		wantErr bool
	}{
		{name: "status", args: []string{"status"}, command: "status"},
		{name: "disconnect with socket", args: []string{"--socket", "/tmp/x.sock", "disconnect"}, command: "disconnect"},
		{name: "capture", args: []string{"capture", "-o", "shot.png"}, command: "capture"},
		{name: "capture without output", args: []string{"capture"}, wantErr: true},
		{name: "capture bad format", args: []string{"capture", "-o", "x", "--format", "bmp"}, wantErr: true},
		{name: "no command", args: nil, wantErr: true},
		{name: "unknown command", args: []string{"reboot"}, wantErr: true},
		{name: "two commands", args: []string{"status", "disconnect"}, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			opts, err := parseFlags(test.args)
			if test.wantErr {
				if err == nil {
					t.Fatalf("parseFlags(%q) succeeded, want error", test.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFlags(%q): %v", test.args, err)
			}
			if opts.command != test.command {
				t.Errorf("command = %q, want %q", opts.command, test.command)
			}
		})
	}
}

// gradient returns a width x height RGB555 frame where red follows x.
func gradient(width, height int) []byte {
	pixels := make([]byte, width*height*2)
	for y := range height {
		for x := range width {
			value := uint16(x % 32)
			offset := (y*width + x) * 2
			pixels[offset] = byte(value)
			pixels[offset+1] = byte(value >> 8)
		}
	}
	return pixels
}

func startFakeServer(t *testing.T) string {
	t.Helper()
	socketPath := filepath.Join(testutil.SocketDir(t), "fbvnc.sock")
	server := service.NewSocketServer(socketPath, slog.New(slog.DiscardHandler))

	geometry := screen.Geometry{Width: 32, Height: 4, BitsPerPixel: 16}
	server.Handle(mirror.ActionStatus, func(ctx context.Context, raw []byte) (any, error) {
		return mirror.Status{State: mirror.StateActive, Viewers: 2, Width: 32, Height: 4, TouchDevice: "/dev/input/event1"}, nil
	})
	server.Handle(mirror.ActionCapture, func(ctx context.Context, raw []byte) (any, error) {
		var request mirror.CaptureRequest
		if err := codec.Unmarshal(raw, &request); err != nil {
			return nil, err
		}
		return screen.EncodeCapture(geometry, gradient(32, 4), request.Compression)
	})
	server.Handle(mirror.ActionDisconnect, func(ctx context.Context, raw []byte) (any, error) {
		return mirror.DisconnectResponse{Viewers: 2}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()
	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "waiting for control socket")
	t.Cleanup(func() {
		cancel()
		testutil.RequireReceive(t, done, 5*time.Second, "waiting for Serve to return")
	})
	return socketPath
}

func TestStatus(t *testing.T) {
	socketPath := startFakeServer(t)
	var stdout bytes.Buffer
	if err := run([]string{"--socket", socketPath, "status"}, &stdout); err != nil {
		t.Fatalf("status: %v", err)
	}
	output := stdout.String()
	for _, want := range []string{"state:        active", "viewers:      2", "screen:       32x4", "keyboard:     (disabled)", "touch:        /dev/input/event1"} {
		if !strings.Contains(output, want) {
			t.Errorf("status output missing %q:\n%s", want, output)
		}
	}
}

func TestStatusRaw(t *testing.T) {
	socketPath := startFakeServer(t)
	var stdout bytes.Buffer
	if err := run([]string{"--socket", socketPath, "--raw", "status"}, &stdout); err != nil {
		t.Fatalf("status --raw: %v", err)
	}
	if output := stdout.String(); !strings.Contains(output, `"state"`) || !strings.Contains(output, `"active"`) {
		t.Errorf("diagnostic output = %s", stdout.String())
	}
}

func TestCapture(t *testing.T) {
	socketPath := startFakeServer(t)

	for _, compression := range []string{"zstd", "lz4", "none"} {
		t.Run(compression, func(t *testing.T) {
			directory := t.TempDir()

			rawPath := filepath.Join(directory, "frame.raw")
			var stdout bytes.Buffer
			if err := run([]string{"--socket", socketPath, "capture", "--compression", compression, "--format", "raw", "-o", rawPath}, &stdout); err != nil {
				t.Fatalf("capture raw: %v", err)
			}
			data, err := os.ReadFile(rawPath)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(data, gradient(32, 4)) {
				t.Error("raw capture differs from the served frame")
			}

			pngPath := filepath.Join(directory, "frame.png")
			if err := run([]string{"--socket", socketPath, "capture", "--compression", compression, "-o", pngPath}, &stdout); err != nil {
				t.Fatalf("capture png: %v", err)
			}
			file, err := os.Open(pngPath)
			if err != nil {
				t.Fatal(err)
			}
			defer file.Close()
			img, err := png.Decode(file)
			if err != nil {
				t.Fatalf("decoding png: %v", err)
			}
			if bounds := img.Bounds(); bounds.Dx() != 32 || bounds.Dy() != 4 {
				t.Errorf("png is %dx%d, want 32x4", bounds.Dx(), bounds.Dy())
			}
			red, _, _, _ := img.At(31, 0).RGBA()
			if red>>8 != 0xff {
				t.Errorf("red at x=31 = %#x, want full intensity", red>>8)
			}
		})
	}
}

func TestDisconnect(t *testing.T) {
	socketPath := startFakeServer(t)
	var stdout bytes.Buffer
	if err := run([]string{"--socket", socketPath, "disconnect"}, &stdout); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if got := stdout.String(); got != "disconnecting 2 viewer(s)\n" {
		t.Errorf("output = %q", got)
	}
}

func TestExpand5(t *testing.T) {
	tests := []struct {
		sample uint16
		want   uint8
	}{
		{0, 0},
		{1, 8},
		{16, 132},
		{31, 255},
	}
	for _, test := range tests {
		if got := expand5(test.sample); got != test.want {
			t.Errorf("expand5(%d) = %d, want %d", test.sample, got, test.want)
		}
	}
}
