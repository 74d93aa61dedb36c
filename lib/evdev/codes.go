// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package evdev

// Event types.
const (
	EvSyn uint16 = 0x00
	EvKey uint16 = 0x01
	EvAbs uint16 = 0x03
)

// Synchronization codes.
const (
	SynReport uint16 = 0x00
)

// Absolute axes.
const (
	AbsX uint16 = 0x00
	AbsY uint16 = 0x01
)

// Buttons.
const (
	BtnTouch uint16 = 0x14a
)

// Key codes. Values KeyStar through KeyCenter are the Android kernel's
// additions for feature phones; mainline kernels leave 227–232 for
// other keys, and generic input stacks ignore them.
const (
	KeyEsc       uint16 = 1
	Key1         uint16 = 2
	Key2         uint16 = 3
	Key3         uint16 = 4
	Key4         uint16 = 5
	Key5         uint16 = 6
	Key6         uint16 = 7
	Key7         uint16 = 8
	Key8         uint16 = 9
	Key9         uint16 = 10
	Key0         uint16 = 11
	KeyBackspace uint16 = 14
	KeyTab       uint16 = 15
	KeyQ         uint16 = 16
	KeyW         uint16 = 17
	KeyE         uint16 = 18
	KeyR         uint16 = 19
	KeyT         uint16 = 20
	KeyY         uint16 = 21
	KeyU         uint16 = 22
	KeyI         uint16 = 23
	KeyO         uint16 = 24
	KeyP         uint16 = 25
	KeyEnter     uint16 = 28
	KeyA         uint16 = 30
	KeyS         uint16 = 31
	KeyD         uint16 = 32
	KeyF         uint16 = 33
	KeyG         uint16 = 34
	KeyH         uint16 = 35
	KeyJ         uint16 = 36
	KeyK         uint16 = 37
	KeyL         uint16 = 38
	KeyLeftShift uint16 = 42
	KeyZ         uint16 = 44
	KeyX         uint16 = 45
	KeyC         uint16 = 46
	KeyV         uint16 = 47
	KeyB         uint16 = 48
	KeyN         uint16 = 49
	KeyM         uint16 = 50
	KeyComma     uint16 = 51
	KeyDot       uint16 = 52
	KeySlash     uint16 = 53
	KeyLeftAlt   uint16 = 56
	KeySpace     uint16 = 57
	KeyF1        uint16 = 59
	KeyF2        uint16 = 60
	KeyF3        uint16 = 61
	KeyF4        uint16 = 62
	KeyRightAlt  uint16 = 100
	KeyHome      uint16 = 102
	KeyUp        uint16 = 103
	KeyLeft      uint16 = 105
	KeyRight     uint16 = 106
	KeyEnd       uint16 = 107
	KeyDown      uint16 = 108
	KeyCompose   uint16 = 127
	KeyBack      uint16 = 158
	KeyEmail     uint16 = 215
	KeyStar      uint16 = 227
	KeySharp     uint16 = 228
	KeySoft1     uint16 = 229
	KeySoft2     uint16 = 230
	KeyCenter    uint16 = 232
)
