// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package input turns remote keyboard and pointer events into
// synthetic evdev events on the device's own input nodes.
//
// Key symbols (X11 keysyms as carried by RFB) are translated to kernel
// key codes by [KeysymToScanCode], an ordered list of rules. The
// pointer is treated as a finger: a primary-button event becomes a tap
// (touch down then up) at the pointer position, rescaled into the
// touch controller's coordinate range.
//
// [Locator] picks the keyboard and touch nodes by matching device
// names against a priority-ordered list of substrings.
package input
