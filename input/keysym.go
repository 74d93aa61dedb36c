// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package input

import "github.com/bureau-foundation/fbvnc/lib/evdev"

// KeyAction is an out-of-band request carried by a key instead of a
// key code.
type KeyAction int

const (
	// ActionNone means the key (if mapped) is injected normally.
	ActionNone KeyAction = iota

	// ActionShutdownSession asks the caller to disconnect the remote
	// viewers. Bound to F11.
	ActionShutdownSession
)

func (a KeyAction) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionShutdownSession:
		return "shutdown-session"
	default:
		return "unknown"
	}
}

// keysymRule translates sym when it falls in the rule's domain. The
// returned code may be zero for symbols the rule owns but leaves
// unmapped; that still stops the search.
type keysymRule func(sym uint32) (code uint16, action KeyAction, matched bool)

// keysymRules are tried in order; the first match wins. Digits come
// before the fixed table, so the table's '2' and '3' entries are never
// reached and those keys type digits.
var keysymRules = []keysymRule{
	digitKeysym,
	cursorKeysym,
	modifierKeysym,
	letterKeysym,
	fixedKeysym,
}

// KeysymToScanCode translates a key symbol. A zero code with
// ActionNone means the symbol is unmapped and nothing should be
// injected.
func KeysymToScanCode(sym uint32) (uint16, KeyAction) {
	for _, rule := range keysymRules {
		if code, action, matched := rule(sym); matched {
			return code, action
		}
	}
	return 0, ActionNone
}

// digitKeysym maps '1'..'9' to KEY_1..KEY_9 and '0' to KEY_0, which
// follows KEY_9 in the kernel's numbering.
func digitKeysym(sym uint32) (uint16, KeyAction, bool) {
	if sym < '0' || sym > '9' {
		return 0, ActionNone, false
	}
	offset := int(sym&0xf) - 1
	if offset < 0 {
		offset += 10
	}
	return evdev.Key1 + uint16(offset), ActionNone, true
}

// cursorKeys covers XK_Home (0xff50) through XK_Begin (0xff58). Prior
// and Next drive the phone's soft keys.
var cursorKeys = [...]uint16{
	evdev.KeyHome, evdev.KeyLeft, evdev.KeyUp, evdev.KeyRight, evdev.KeyDown,
	evdev.KeySoft1, evdev.KeySoft2, evdev.KeyEnd, 0,
}

func cursorKeysym(sym uint32) (uint16, KeyAction, bool) {
	if sym < 0xff50 || sym > 0xff58 {
		return 0, ActionNone, false
	}
	return cursorKeys[sym&0xf], ActionNone, true
}

// modifierKeys is indexed by the low nibble of XK_Shift_L (0xffe1)
// through XK_Hyper_R (0xffee), so entry 0 is unused by the range and
// Hyper_R (nibble 14) falls past the end.
var modifierKeys = [...]uint16{
	evdev.KeyLeftShift, evdev.KeyLeftShift,
	evdev.KeyCompose, evdev.KeyCompose,
	evdev.KeyLeftShift, evdev.KeyLeftShift,
	0, 0,
	evdev.KeyLeftAlt, evdev.KeyRightAlt,
	0, 0, 0, 0,
}

func modifierKeysym(sym uint32) (uint16, KeyAction, bool) {
	if sym < 0xffe1 || sym > 0xffee {
		return 0, ActionNone, false
	}
	index := sym & 0xf
	if int(index) >= len(modifierKeys) {
		return 0, ActionNone, true
	}
	return modifierKeys[index], ActionNone, true
}

// letterKeys is in alphabetical order; the kernel numbers letters by
// QWERTY position.
var letterKeys = [...]uint16{
	evdev.KeyA, evdev.KeyB, evdev.KeyC, evdev.KeyD, evdev.KeyE,
	evdev.KeyF, evdev.KeyG, evdev.KeyH, evdev.KeyI, evdev.KeyJ,
	evdev.KeyK, evdev.KeyL, evdev.KeyM, evdev.KeyN, evdev.KeyO,
	evdev.KeyP, evdev.KeyQ, evdev.KeyR, evdev.KeyS, evdev.KeyT,
	evdev.KeyU, evdev.KeyV, evdev.KeyW, evdev.KeyX, evdev.KeyY, evdev.KeyZ,
}

func letterKeysym(sym uint32) (uint16, KeyAction, bool) {
	if !(sym >= 'A' && sym <= 'Z') && !(sym >= 'a' && sym <= 'z') {
		return 0, ActionNone, false
	}
	// Clearing bit 5 folds lower case onto upper case.
	return letterKeys[(sym&0x5f)-'A'], ActionNone, true
}

// fixedKeys holds the remaining single symbols. Several map two
// symbols of a US keyboard key (unshifted and shifted) to one phone
// key.
var fixedKeys = map[uint32]uint16{
	0x0003: evdev.KeyCenter,
	0x0020: evdev.KeySpace,
	0x0023: evdev.KeySharp, // '#'
	0x0033: evdev.KeySharp, // '3', shadowed by the digit rule
	0x002c: evdev.KeyComma,
	0x003c: evdev.KeyComma, // '<'
	0x002e: evdev.KeyDot,
	0x003e: evdev.KeyDot, // '>'
	0x002f: evdev.KeySlash,
	0x003f: evdev.KeySlash, // '?'
	0x0032: evdev.KeyEmail, // '2', shadowed by the digit rule
	0x0040: evdev.KeyEmail, // '@'
	0x002a: evdev.KeyStar,
	0xff08: evdev.KeyBackspace,
	0xff09: evdev.KeyTab,
	0xff0d: evdev.KeyEnter,
	0xff1b: evdev.KeyBack, // Escape
	0xffbe: evdev.KeyF1,
	0xffbf: evdev.KeyF2,
	0xffc0: evdev.KeyF3,
	0xffc5: evdev.KeyF4, // F8
}

// keysymF11 ends the remote session instead of typing.
const keysymF11 = 0xffc8

func fixedKeysym(sym uint32) (uint16, KeyAction, bool) {
	if sym == keysymF11 {
		return 0, ActionShutdownSession, true
	}
	code, ok := fixedKeys[sym]
	return code, ActionNone, ok
}
