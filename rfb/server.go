// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build libvncserver && cgo

package rfb

/*
#cgo pkg-config: libvncserver
#include <stdint.h>
#include <stdlib.h>
#include <rfb/rfb.h>

extern void fbvncKeyEvent(rfbBool down, rfbKeySym key, rfbClientPtr cl);
extern void fbvncPointerEvent(int buttonMask, int x, int y, rfbClientPtr cl);

static rfbScreenInfoPtr fbvnc_new_screen(int width, int height, int bitsPerSample, int samplesPerPixel, int bytesPerPixel) {
	return rfbGetScreen(NULL, NULL, width, height, bitsPerSample, samplesPerPixel, bytesPerPixel);
}

static void fbvnc_attach(rfbScreenInfoPtr screen, uintptr_t handle) {
	screen->screenData = (void *)handle;
	screen->kbdAddEvent = fbvncKeyEvent;
	screen->ptrAddEvent = fbvncPointerEvent;
}

uintptr_t fbvnc_client_handle(rfbClientPtr cl) {
	return (uintptr_t)cl->screen->screenData;
}

// rfbInitServer is a macro in some library configurations.
static int fbvnc_init(rfbScreenInfoPtr screen) {
	rfbInitServer(screen);
	return screen->listenSock >= 0;
}

static int fbvnc_client_count(rfbScreenInfoPtr screen) {
	int count = 0;
	rfbClientPtr cl;
	for (cl = screen->clientHead; cl; cl = cl->next) {
		count++;
	}
	return count;
}

static int fbvnc_client_requested(rfbScreenInfoPtr screen, int index) {
	rfbClientPtr cl = screen->clientHead;
	while (cl && index-- > 0) {
		cl = cl->next;
	}
	return cl && !sraRgnEmpty(cl->requestedRegion);
}

static void fbvnc_close_clients(rfbScreenInfoPtr screen) {
	rfbClientIteratorPtr iterator = rfbGetClientIterator(screen);
	rfbClientPtr cl;
	while ((cl = rfbClientIteratorNext(iterator)) != NULL) {
		rfbCloseClient(cl);
	}
	rfbReleaseClientIterator(iterator);
}

static void fbvnc_cleanup(rfbScreenInfoPtr screen) {
	rfbShutdownServer(screen, TRUE);
	screen->frameBuffer = NULL;
	screen->desktopName = NULL;
	rfbScreenCleanup(screen);
}
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"runtime/cgo"
	"time"
	"unsafe"

	"github.com/bureau-foundation/fbvnc/mirror"
	"github.com/bureau-foundation/fbvnc/screen"
)

// processSlice bounds a single blocking call into the library so a
// cancelled context is noticed promptly.
const processSlice = 250 * time.Millisecond

// Server is a libvncserver screen. All methods must be called from one
// goroutine.
type Server struct {
	options Options

	screen      C.rfbScreenInfoPtr
	desktopName *C.char
	handle      cgo.Handle
}

// New returns an unstarted server.
func New(options Options) *Server {
	options.applyDefaults()
	return &Server{options: options}
}

// Init creates the libvncserver screen over buffer and starts
// listening.
func (s *Server) Init(width, height int, buffer []byte, handler mirror.InputHandler) error {
	if s.screen != nil {
		return errors.New("rfb: server already initialized")
	}
	if need := width * height * bytesPerPixel; len(buffer) < need {
		return fmt.Errorf("rfb: buffer holds %d bytes, %dx%d needs %d", len(buffer), width, height, need)
	}

	rfbScreen := C.fbvnc_new_screen(C.int(width), C.int(height), bitsPerSample, samplesPerPixel, bytesPerPixel)
	if rfbScreen == nil {
		return errors.New("rfb: rfbGetScreen failed")
	}
	s.screen = rfbScreen
	s.desktopName = C.CString(s.options.DesktopName)
	s.handle = cgo.NewHandle(handler)

	rfbScreen.desktopName = s.desktopName
	rfbScreen.frameBuffer = (*C.char)(unsafe.Pointer(&buffer[0]))
	rfbScreen.port = C.int(s.options.Port)
	if s.options.AlwaysShared {
		rfbScreen.alwaysShared = C.TRUE
	}
	C.fbvnc_attach(rfbScreen, C.uintptr_t(s.handle))

	if C.fbvnc_init(rfbScreen) == 0 {
		return fmt.Errorf("rfb: cannot listen on port %d", s.options.Port)
	}
	s.options.Logger.Info("vnc server listening",
		"port", s.options.Port,
		"desktop", s.options.DesktopName,
		"width", width,
		"height", height,
	)
	return nil
}

// MarkDirty implements mirror.Protocol.
func (s *Server) MarkDirty(rect screen.Rect) {
	if s.screen == nil || rect.Empty() {
		return
	}
	C.rfbMarkRectAsModified(s.screen, C.int(rect.MinX), C.int(rect.MinY), C.int(rect.MaxX), C.int(rect.MaxY))
}

// ProcessEvents implements mirror.Protocol. The wait is split into
// slices of at most processSlice; it ends early after any slice that
// handled socket activity.
func (s *Server) ProcessEvents(ctx context.Context, timeout time.Duration) error {
	if s.screen == nil {
		return errors.New("rfb: server not initialized")
	}
	deadline := time.Now().Add(timeout)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		remaining := min(time.Until(deadline), processSlice)
		if remaining < 0 {
			remaining = 0
		}
		if C.rfbProcessEvents(s.screen, C.long(remaining.Microseconds())) != 0 {
			return nil
		}
		if time.Until(deadline) <= 0 {
			return nil
		}
	}
}

// Viewers implements mirror.Protocol.
func (s *Server) Viewers() []mirror.Viewer {
	if s.screen == nil {
		return nil
	}
	count := int(C.fbvnc_client_count(s.screen))
	viewers := make([]mirror.Viewer, count)
	for index := range viewers {
		viewers[index] = viewer{requested: C.fbvnc_client_requested(s.screen, C.int(index)) != 0}
	}
	return viewers
}

// CloseViewers implements mirror.Protocol.
func (s *Server) CloseViewers() {
	if s.screen == nil {
		return
	}
	C.fbvnc_close_clients(s.screen)
}

// Close disconnects every viewer, stops listening, and frees the
// screen. The pixel buffer is not touched.
func (s *Server) Close() error {
	if s.screen == nil {
		return nil
	}
	C.fbvnc_cleanup(s.screen)
	s.screen = nil
	C.free(unsafe.Pointer(s.desktopName))
	s.desktopName = nil
	s.handle.Delete()
	return nil
}
