// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package input

import (
	"log/slog"

	"github.com/bureau-foundation/fbvnc/lib/clock"
	"github.com/bureau-foundation/fbvnc/lib/evdev"
)

// Sink receives encoded input events. *evdev.Device implements it.
type Sink interface {
	WriteEvent(evdev.Event) error
}

// Target is one injection channel. A nil Sink disables the channel.
type Target struct {
	Path string
	Sink Sink

	// X and Y are the touch controller's axis ranges. A zero Maximum
	// means coordinates are passed through unscaled, which is what
	// the Android emulator expects.
	X evdev.AbsInfo
	Y evdev.AbsInfo
}

// InjectorConfig configures an Injector.
type InjectorConfig struct {
	Keyboard Target
	Touch    Target

	// Width and Height are the screen size in pixels, the range of
	// incoming pointer coordinates.
	Width  int
	Height int

	Clock  clock.Clock
	Logger *slog.Logger
}

// Injector writes keyboard and touch events. It is not safe for
// concurrent use; every call comes from the sync loop goroutine.
type Injector struct {
	keyboard Target
	touch    Target
	width    int
	height   int
	clock    clock.Clock
	logger   *slog.Logger
}

// NewInjector returns an injector for config. Missing Clock and
// Logger default to wall time and a discarding logger.
func NewInjector(config InjectorConfig) *Injector {
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Injector{
		keyboard: config.Keyboard,
		touch:    config.Touch,
		width:    config.Width,
		height:   config.Height,
		clock:    config.Clock,
		logger:   config.Logger,
	}
}

// HandleKey translates a key symbol and injects it. The returned
// action is for the caller to carry out; the key itself is not
// injected when an action is returned.
func (i *Injector) HandleKey(sym uint32, pressed bool) KeyAction {
	code, action := KeysymToScanCode(sym)
	if action != ActionNone {
		i.logger.Debug("key action", "keysym", sym, "action", action.String())
		return action
	}
	if code == 0 {
		i.logger.Debug("unmapped keysym", "keysym", sym, "pressed", pressed)
		return ActionNone
	}
	i.InjectKey(code, pressed)
	return ActionNone
}

// InjectKey writes one key event. Write failures are logged and
// dropped: a busy device must not stop the loop.
func (i *Injector) InjectKey(code uint16, pressed bool) {
	if i.keyboard.Sink == nil {
		i.logger.Debug("keyboard unavailable, dropping key", "code", code)
		return
	}
	value := int32(0)
	if pressed {
		value = 1
	}
	i.write(i.keyboard, evdev.EvKey, code, value)
	i.logger.Debug("injected key", "code", code, "pressed", pressed)
}

// HandlePointer turns a primary-button event into a tap at (x, y).
// Movement and other buttons are ignored.
func (i *Injector) HandlePointer(mask int, x, y int) {
	if mask&1 == 0 {
		return
	}
	i.InjectTouch(true, x, y)
	i.InjectTouch(false, x, y)
}

// InjectTouch writes one touch report: BTN_TOUCH, ABS_X, ABS_Y, then
// SYN_REPORT, each stamped when written.
func (i *Injector) InjectTouch(down bool, x, y int) {
	if i.touch.Sink == nil {
		i.logger.Debug("touch unavailable, dropping touch", "x", x, "y", y)
		return
	}
	x = scaleAxis(x, i.width, i.touch.X)
	y = scaleAxis(y, i.height, i.touch.Y)

	value := int32(0)
	if down {
		value = 1
	}
	i.write(i.touch, evdev.EvKey, evdev.BtnTouch, value)
	i.write(i.touch, evdev.EvAbs, evdev.AbsX, int32(x))
	i.write(i.touch, evdev.EvAbs, evdev.AbsY, int32(y))
	i.write(i.touch, evdev.EvSyn, evdev.SynReport, 0)
	i.logger.Debug("injected touch", "x", x, "y", y, "down", down)
}

// scaleAxis maps a screen coordinate onto an axis range. A zero
// maximum passes the coordinate through.
func scaleAxis(position, extent int, axis evdev.AbsInfo) int {
	if axis.Maximum == 0 || extent <= 0 {
		return position
	}
	return int(axis.Minimum) + position*int(axis.Maximum-axis.Minimum)/extent
}

func (i *Injector) write(target Target, eventType, code uint16, value int32) {
	err := target.Sink.WriteEvent(evdev.Event{
		Time:  i.clock.Now(),
		Type:  eventType,
		Code:  code,
		Value: value,
	})
	if err != nil {
		i.logger.Warn("input event write failed",
			"device", target.Path,
			"type", eventType,
			"code", code,
			"error", err,
		)
	}
}
