// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package evdev writes synthetic events to Linux input device files
// (/dev/input/eventN) and queries device identity and axis ranges.
//
// An event is the kernel's struct input_event: a struct timeval
// followed by a 16-bit type, a 16-bit code, and a signed 32-bit value.
// The timeval is 8 bytes on 32-bit ABIs and 16 bytes on 64-bit ABIs, so
// the record is 16 or 24 bytes; [EventSize] reports the size for the
// running binary. Records are written in native byte order with a
// single write(2) each, so the kernel never sees a partial event.
//
// Only the event types and codes the server needs are defined here.
// The values are stable kernel UAPI (include/uapi/linux/input.h and
// input-event-codes.h).
package evdev
