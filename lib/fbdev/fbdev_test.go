// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fbdev

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"unsafe"
)

func TestStructSizesMatchKernelABI(t *testing.T) {
	if size := unsafe.Sizeof(VarScreenInfo{}); size != 160 {
		t.Errorf("sizeof(fb_var_screeninfo) = %d, want 160", size)
	}
	// fb_fix_screeninfo is 68 bytes on 32-bit and 80 on 64-bit.
	want := uintptr(80)
	if unsafe.Sizeof(uintptr(0)) == 4 {
		want = 68
	}
	if size := unsafe.Sizeof(FixScreenInfo{}); size != want {
		t.Errorf("sizeof(fb_fix_screeninfo) = %d, want %d", size, want)
	}
}

func TestPagesToMap(t *testing.T) {
	const page = 480 * 2 * 800
	tests := []struct {
		name      string
		requested int
		memory    int
		want      int
	}{
		{"unknown memory size", 2, 0, 2},
		{"double buffered", 2, 2 * page, 2},
		{"single buffered device", 2, page, 1},
		{"triple buffered device, two requested", 2, 3 * page, 2},
		{"memory smaller than one page", 2, page / 2, 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := pagesToMap(test.requested, page, test.memory); got != test.want {
				t.Errorf("pagesToMap(%d, %d, %d) = %d, want %d",
					test.requested, page, test.memory, got, test.want)
			}
		})
	}
}

func TestOpenMissingDevice(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "fb0"), 2)
	if err == nil {
		t.Fatal("Open on a missing path succeeded")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want it to wrap ErrNotExist", err)
	}
}

func TestOpenRegularFileFailsScreenInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fb0")
	if err := os.WriteFile(path, make([]byte, 4096), 0o600); err != nil {
		t.Fatalf("writing fake device: %v", err)
	}
	if _, err := Open(path, 1); err == nil {
		t.Fatal("Open on a regular file succeeded; FBIOGET_VSCREENINFO should fail")
	}
}

func TestClosedDevice(t *testing.T) {
	var device Device
	if _, err := device.ActiveOffset(); !errors.Is(err, ErrNotMapped) {
		t.Errorf("ActiveOffset on unmapped device = %v, want ErrNotMapped", err)
	}
	if err := device.Close(); err != nil {
		t.Errorf("Close on unmapped device = %v, want nil", err)
	}
	if words := device.Words(); words != nil {
		t.Errorf("Words on unmapped device = %d words, want nil", len(words))
	}
}
