// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build libvncserver && cgo

package rfb

// Files with //export may only declare C in their preamble, so the
// callbacks live apart from the helpers in server.go.

/*
#include <stdint.h>
#include <rfb/rfb.h>

uintptr_t fbvnc_client_handle(rfbClientPtr cl);
*/
import "C"

import (
	"runtime/cgo"

	"github.com/bureau-foundation/fbvnc/mirror"
)

func handlerFor(cl C.rfbClientPtr) mirror.InputHandler {
	return cgo.Handle(C.fbvnc_client_handle(cl)).Value().(mirror.InputHandler)
}

//export fbvncKeyEvent
func fbvncKeyEvent(down C.rfbBool, key C.rfbKeySym, cl C.rfbClientPtr) {
	handlerFor(cl).HandleKey(uint32(key), down != 0)
}

//export fbvncPointerEvent
func fbvncPointerEvent(buttonMask C.int, x C.int, y C.int, cl C.rfbClientPtr) {
	handlerFor(cl).HandlePointer(int(buttonMask), int(x), int(y))
}
