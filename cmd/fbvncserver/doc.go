// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// fbvncserver mirrors a Linux framebuffer to VNC viewers and injects
// their keyboard and pointer input into evdev devices. It is meant to
// run on an Android device or emulator as root:
//
//	fbvncserver [-k /dev/input/eventN] [-t /dev/input/eventN] [--config file]
//
// Input devices not given on the command line are found by probing
// /dev/input/event0 through event4 for a name containing a keyword
// ("VNC", "key", "qwerty" for the keyboard; "touch", "qwerty" for
// touch), falling back to event2 and event1.
//
// The framebuffer is compared against the last frame sent every 100ms
// while a viewer is connected; only the bounding box of changed pixels
// is marked for update. With no viewer connected the server just waits
// for connections.
//
// When control.socket is set, a unix socket serves status, capture,
// and disconnect requests (see fbvnc-ctl).
package main
