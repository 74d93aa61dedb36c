// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/fbvnc/input"
	"github.com/bureau-foundation/fbvnc/lib/clock"
	"github.com/bureau-foundation/fbvnc/screen"
)

const (
	// DefaultInterval is the scan period while a viewer is attached.
	DefaultInterval = 100 * time.Millisecond

	// DefaultIdleWait bounds one blocking wait for the first viewer.
	// The protocol returns as soon as a client connects, so this only
	// sets how often an idle loop wakes with nothing to do.
	DefaultIdleWait = time.Hour

	// flushWait is the event-processing slice after marking a change,
	// so the update goes out before the next scan interval.
	flushWait = 10 * time.Millisecond
)

// Config configures an Engine.
type Config struct {
	Tracker  *screen.Tracker
	Injector *input.Injector
	Protocol Protocol

	// Interval is the scan period in the active state.
	// Zero means DefaultInterval.
	Interval time.Duration

	// IdleWait is the wait per idle iteration. Zero means
	// DefaultIdleWait.
	IdleWait time.Duration

	// KeyboardDevice and TouchDevice are reported in status only.
	KeyboardDevice string
	TouchDevice    string

	Clock  clock.Clock
	Logger *slog.Logger
}

// Engine is the mirroring context: tracker, injector, and protocol,
// plus the status it publishes. It implements [InputHandler] for the
// protocol.
type Engine struct {
	tracker  *screen.Tracker
	injector *input.Injector
	protocol Protocol
	interval time.Duration
	idleWait time.Duration
	clock    clock.Clock
	logger   *slog.Logger

	// disconnectRequested is set by F11 and the control socket and
	// consumed by the loop.
	disconnectRequested atomic.Bool

	statusMu sync.Mutex
	status   Status
}

// New validates config and returns an engine ready to Run.
func New(config Config) (*Engine, error) {
	var errs []error
	if config.Tracker == nil {
		errs = append(errs, errors.New("mirror: Tracker is required"))
	}
	if config.Injector == nil {
		errs = append(errs, errors.New("mirror: Injector is required"))
	}
	if config.Protocol == nil {
		errs = append(errs, errors.New("mirror: Protocol is required"))
	}
	if config.Interval < 0 || config.IdleWait < 0 {
		errs = append(errs, errors.New("mirror: negative wait"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if config.Interval == 0 {
		config.Interval = DefaultInterval
	}
	if config.IdleWait == 0 {
		config.IdleWait = DefaultIdleWait
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	geometry := config.Tracker.Geometry()
	return &Engine{
		tracker:  config.Tracker,
		injector: config.Injector,
		protocol: config.Protocol,
		interval: config.Interval,
		idleWait: config.IdleWait,
		clock:    config.Clock,
		logger:   config.Logger,
		status: Status{
			State:          StateStarting,
			Width:          geometry.Width,
			Height:         geometry.Height,
			KeyboardDevice: config.KeyboardDevice,
			TouchDevice:    config.TouchDevice,
		},
	}, nil
}

// Run initializes the protocol over the tracker's remote buffer and
// runs the loop until ctx is cancelled. It returns nil on
// cancellation and an error if the protocol fails. The caller closes
// the protocol, tracker, and devices afterwards.
func (e *Engine) Run(ctx context.Context) error {
	geometry := e.tracker.Geometry()
	if err := e.protocol.Init(geometry.Width, geometry.Height, e.tracker.RemoteBytes(), e); err != nil {
		return fmt.Errorf("initializing remote display server: %w", err)
	}

	// The remote buffer starts black; the first viewer gets the whole
	// screen.
	e.protocol.MarkDirty(screen.FullRect(geometry.Width, geometry.Height))

	e.updateStatus(func(status *Status) {
		status.StartedAt = e.clock.Now()
	})
	e.logger.Info("mirroring framebuffer",
		"width", geometry.Width,
		"height", geometry.Height,
		"interval", e.interval,
	)
	defer e.setState(StateStopped, 0)

	for ctx.Err() == nil {
		e.runPending()
		if err := e.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			return fmt.Errorf("processing viewer events: %w", err)
		}
	}
	return nil
}

// cycle runs one loop iteration in whichever state the viewer count
// puts it.
func (e *Engine) cycle(ctx context.Context) error {
	viewers := e.protocol.Viewers()
	if len(viewers) == 0 {
		e.enterIdle()
		return e.protocol.ProcessEvents(ctx, e.idleWait)
	}

	e.setState(StateActive, len(viewers))
	if err := e.protocol.ProcessEvents(ctx, e.interval); err != nil {
		return err
	}
	e.updateStatus(func(status *Status) { status.Cycles++ })

	viewers = e.protocol.Viewers()
	if len(viewers) == 0 {
		e.enterIdle()
		return nil
	}
	if !anyRequested(viewers) {
		return nil
	}
	return e.scan(ctx)
}

// scan compares the framebuffer once and pushes any change out.
func (e *Engine) scan(ctx context.Context) error {
	dirty, err := e.tracker.Scan()
	now := e.clock.Now()
	if err != nil {
		e.logger.Error("framebuffer scan failed", "error", err)
	}
	e.updateStatus(func(status *Status) {
		status.Scans++
		status.LastScan = now
		if err != nil {
			status.ScanErrors++
		}
		if !dirty.Empty() {
			status.DirtyFrames++
			status.LastDirty = regionOf(dirty)
		}
	})
	if dirty.Empty() {
		return nil
	}

	e.logger.Debug("framebuffer changed", "rect", dirty.String())
	e.protocol.MarkDirty(dirty)
	return e.protocol.ProcessEvents(ctx, flushWait)
}

func anyRequested(viewers []Viewer) bool {
	for _, viewer := range viewers {
		if viewer.HasRequestedRegion() {
			return true
		}
	}
	return false
}

// runPending carries out requests left by input callbacks and the
// control socket.
func (e *Engine) runPending() {
	if !e.disconnectRequested.Swap(false) {
		return
	}
	viewers := len(e.protocol.Viewers())
	if viewers == 0 {
		return
	}
	e.logger.Info("disconnecting viewers", "viewers", viewers)
	e.protocol.CloseViewers()
	e.updateStatus(func(status *Status) { status.Disconnects++ })
}

// RequestDisconnect asks the loop to disconnect every viewer before
// its next cycle. Safe to call from any goroutine.
func (e *Engine) RequestDisconnect() {
	e.disconnectRequested.Store(true)
}

// HandleKey implements InputHandler.
func (e *Engine) HandleKey(sym uint32, pressed bool) {
	if action := e.injector.HandleKey(sym, pressed); action == input.ActionShutdownSession {
		e.RequestDisconnect()
	}
}

// HandlePointer implements InputHandler.
func (e *Engine) HandlePointer(mask, x, y int) {
	e.injector.HandlePointer(mask, x, y)
}

// Status returns a copy of the published status.
func (e *Engine) Status() Status {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	return e.status
}

func (e *Engine) updateStatus(update func(*Status)) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	update(&e.status)
}

// enterIdle switches to the idle state. Leaving the active state
// blanks both buffers, so whoever connects next is sent every pixel.
func (e *Engine) enterIdle() {
	if e.Status().State == StateActive {
		e.tracker.Blank()
	}
	e.setState(StateIdle, 0)
}

// setState records the state and viewer count, logging transitions.
func (e *Engine) setState(state State, viewers int) {
	e.statusMu.Lock()
	previous := e.status.State
	e.status.State = state
	e.status.Viewers = viewers
	e.statusMu.Unlock()

	if previous == state {
		return
	}
	switch {
	case previous == StateActive && state == StateIdle:
		e.logger.Info("last viewer detached, screen blanked")
	case state == StateActive:
		e.logger.Info("viewer attached", "viewers", viewers)
	default:
		e.logger.Debug("loop state", "from", previous, "to", state)
	}
}
