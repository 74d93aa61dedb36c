// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mirror

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bureau-foundation/fbvnc/input"
	"github.com/bureau-foundation/fbvnc/lib/clock"
	"github.com/bureau-foundation/fbvnc/lib/evdev"
	"github.com/bureau-foundation/fbvnc/screen"
)

const (
	testInterval = 100 * time.Millisecond
	testIdleWait = time.Minute
)

var testEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// frameSource is a single-page framebuffer in memory.
type frameSource struct {
	words []uint32
}

func (s *frameSource) Words() []uint32 { return s.words }

func (s *frameSource) ActiveOffset() (int, error) { return 0, nil }

type fakeViewer struct {
	requested bool
}

func (v fakeViewer) HasRequestedRegion() bool { return v.requested }

// fakeProtocol records what the loop asks of it. Each ProcessEvents
// call runs the next step; once the steps run out it cancels the
// loop's context.
type fakeProtocol struct {
	width, height int
	buffer        []byte
	handler       InputHandler
	initErr       error

	viewers      []Viewer
	waits        []time.Duration
	dirty        []screen.Rect
	closeViewers int

	steps   []func(*fakeProtocol)
	failAt  int
	failErr error
	cancel  context.CancelFunc
}

func (p *fakeProtocol) Init(width, height int, buffer []byte, handler InputHandler) error {
	p.width, p.height, p.buffer, p.handler = width, height, buffer, handler
	return p.initErr
}

func (p *fakeProtocol) MarkDirty(rect screen.Rect) { p.dirty = append(p.dirty, rect) }

func (p *fakeProtocol) ProcessEvents(ctx context.Context, timeout time.Duration) error {
	call := len(p.waits)
	p.waits = append(p.waits, timeout)
	if p.failErr != nil && call == p.failAt {
		return p.failErr
	}
	if call < len(p.steps) {
		p.steps[call](p)
		return nil
	}
	p.cancel()
	return ctx.Err()
}

func (p *fakeProtocol) Viewers() []Viewer { return append([]Viewer(nil), p.viewers...) }

func (p *fakeProtocol) CloseViewers() {
	p.closeViewers++
	p.viewers = nil
}

func (p *fakeProtocol) Close() error { return nil }

// recordingSink collects injected events.
type recordingSink struct {
	events []evdev.Event
}

func (s *recordingSink) WriteEvent(event evdev.Event) error {
	s.events = append(s.events, event)
	return nil
}

type testRig struct {
	engine   *Engine
	protocol *fakeProtocol
	source   *frameSource
	tracker  *screen.Tracker
	keyboard *recordingSink
}

func newTestRig(t *testing.T, steps ...func(*fakeProtocol)) *testRig {
	t.Helper()
	geometry := screen.Geometry{
		Width:        4,
		Height:       2,
		BitsPerPixel: 16,
		Red:          screen.Channel{Offset: 11, Length: 5},
		Green:        screen.Channel{Offset: 5, Length: 6},
		Blue:         screen.Channel{Offset: 0, Length: 5},
		BufferCount:  1,
	}
	source := &frameSource{words: make([]uint32, 4)}
	tracker, err := screen.NewTracker(source, geometry, screen.TrackerOptions{})
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	t.Cleanup(func() { tracker.Close() })

	keyboard := &recordingSink{}
	fake := clock.Fake(testEpoch)
	injector := input.NewInjector(input.InjectorConfig{
		Keyboard: input.Target{Path: "/dev/input/event2", Sink: keyboard},
		Width:    geometry.Width,
		Height:   geometry.Height,
		Clock:    fake,
	})

	protocol := &fakeProtocol{steps: steps}
	engine, err := New(Config{
		Tracker:  tracker,
		Injector: injector,
		Protocol: protocol,
		Interval: testInterval,
		IdleWait: testIdleWait,
		Clock:    fake,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testRig{engine: engine, protocol: protocol, source: source, tracker: tracker, keyboard: keyboard}
}

func (r *testRig) run(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.protocol.cancel = cancel
	if err := r.engine.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func allZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

func TestRunIdleActiveIdle(t *testing.T) {
	var blankedAfterDetach bool
	rig := newTestRig(t,
		// Idle wait: a viewer connects and the screen changes.
		func(p *fakeProtocol) {
			p.viewers = []Viewer{fakeViewer{requested: true}}
		},
		// Active interval; the scan that follows finds the change.
		func(p *fakeProtocol) {},
		// Flush after marking the change.
		func(p *fakeProtocol) {},
		// Active interval; nothing changed.
		func(p *fakeProtocol) {},
		// Active interval; the viewer leaves.
		func(p *fakeProtocol) { p.viewers = nil },
		// Idle again.
		func(p *fakeProtocol) {},
	)
	rig.source.words[3] = 0xffffffff
	rig.protocol.steps[5] = func(p *fakeProtocol) {
		blankedAfterDetach = allZero(rig.tracker.RemoteBytes())
	}

	rig.run(t)

	wantWaits := []time.Duration{testIdleWait, testInterval, flushWait, testInterval, testInterval, testIdleWait, testIdleWait}
	if len(rig.protocol.waits) != len(wantWaits) {
		t.Fatalf("ProcessEvents waits = %v, want %v", rig.protocol.waits, wantWaits)
	}
	for i, want := range wantWaits {
		if rig.protocol.waits[i] != want {
			t.Errorf("wait %d = %v, want %v", i, rig.protocol.waits[i], want)
		}
	}

	wantDirty := []screen.Rect{
		screen.FullRect(4, 2),
		{MinX: 2, MinY: 1, MaxX: 4, MaxY: 2},
	}
	if len(rig.protocol.dirty) != len(wantDirty) {
		t.Fatalf("MarkDirty calls = %v, want %v", rig.protocol.dirty, wantDirty)
	}
	for i, want := range wantDirty {
		if rig.protocol.dirty[i] != want {
			t.Errorf("MarkDirty %d = %+v, want %+v", i, rig.protocol.dirty[i], want)
		}
	}

	if !blankedAfterDetach {
		t.Error("remote buffer not blanked after the last viewer detached")
	}

	status := rig.engine.Status()
	if status.State != StateStopped {
		t.Errorf("state = %s, want stopped", status.State)
	}
	if status.Cycles != 3 || status.Scans != 2 || status.DirtyFrames != 1 {
		t.Errorf("counters cycles=%d scans=%d dirty=%d, want 3/2/1", status.Cycles, status.Scans, status.DirtyFrames)
	}
	if status.LastDirty != (Region{X: 2, Y: 1, Width: 2, Height: 1}) {
		t.Errorf("last dirty = %+v", status.LastDirty)
	}
	if !status.StartedAt.Equal(testEpoch) {
		t.Errorf("started at %v, want %v", status.StartedAt, testEpoch)
	}
}

func TestRunInitializesProtocolWithRemoteBuffer(t *testing.T) {
	rig := newTestRig(t)
	rig.run(t)

	if rig.protocol.width != 4 || rig.protocol.height != 2 {
		t.Errorf("Init size = %dx%d, want 4x2", rig.protocol.width, rig.protocol.height)
	}
	if len(rig.protocol.buffer) != 16 || &rig.protocol.buffer[0] != &rig.tracker.RemoteBytes()[0] {
		t.Error("protocol was not given the tracker's remote buffer")
	}
	if rig.protocol.handler != rig.engine {
		t.Error("protocol input handler is not the engine")
	}
}

func TestNextViewerSeesFullScreenAfterBlank(t *testing.T) {
	rig := newTestRig(t,
		func(p *fakeProtocol) { p.viewers = []Viewer{fakeViewer{requested: true}} },
		// The scan after this interval sees the whole screen.
		func(p *fakeProtocol) {},
		func(p *fakeProtocol) {},
		// Detach; the loop blanks.
		func(p *fakeProtocol) { p.viewers = nil },
		func(p *fakeProtocol) { p.viewers = []Viewer{fakeViewer{requested: true}} },
		// The scan after this interval sees the whole screen again.
		func(p *fakeProtocol) {},
		func(p *fakeProtocol) {},
	)
	for i := range rig.source.words {
		rig.source.words[i] = 0x12341234
	}
	rig.run(t)

	full := screen.FullRect(4, 2)
	want := []screen.Rect{full, full, full}
	if len(rig.protocol.dirty) != len(want) {
		t.Fatalf("MarkDirty calls = %v, want %v", rig.protocol.dirty, want)
	}
	for i := range want {
		if rig.protocol.dirty[i] != want[i] {
			t.Errorf("MarkDirty %d = %+v, want %+v", i, rig.protocol.dirty[i], want[i])
		}
	}
}

func TestRunSkipsScanWithoutRequestedRegion(t *testing.T) {
	rig := newTestRig(t,
		func(p *fakeProtocol) { p.viewers = []Viewer{fakeViewer{}, fakeViewer{}} },
		func(p *fakeProtocol) {},
		func(p *fakeProtocol) {},
	)
	rig.source.words[0] = 0xffffffff
	rig.run(t)

	if len(rig.protocol.dirty) != 1 {
		t.Errorf("MarkDirty calls = %v, want only the initial full screen", rig.protocol.dirty)
	}
	if status := rig.engine.Status(); status.Scans != 0 {
		t.Errorf("scans = %d, want 0", status.Scans)
	}
}

func TestF11DisconnectsViewers(t *testing.T) {
	rig := newTestRig(t,
		func(p *fakeProtocol) { p.viewers = []Viewer{fakeViewer{}} },
		func(p *fakeProtocol) { p.handler.HandleKey(0xffc8, true) },
		func(p *fakeProtocol) {},
	)
	rig.run(t)

	if rig.protocol.closeViewers != 1 {
		t.Errorf("CloseViewers called %d times, want 1", rig.protocol.closeViewers)
	}
	if status := rig.engine.Status(); status.Disconnects != 1 {
		t.Errorf("disconnects = %d, want 1", status.Disconnects)
	}
	if len(rig.keyboard.events) != 0 {
		t.Errorf("F11 injected %d key events", len(rig.keyboard.events))
	}
}

func TestDisconnectBlanksForNextViewer(t *testing.T) {
	rig := newTestRig(t,
		func(p *fakeProtocol) { p.viewers = []Viewer{fakeViewer{requested: true}} },
		func(p *fakeProtocol) {},
		func(p *fakeProtocol) { p.handler.HandleKey(0xffc8, true) },
		func(p *fakeProtocol) {},
	)
	rig.source.words[0] = 0xffffffff
	var blanked bool
	rig.protocol.steps[3] = func(p *fakeProtocol) {
		blanked = allZero(rig.tracker.RemoteBytes())
	}
	rig.run(t)

	if !blanked {
		t.Error("remote buffer not blanked after viewers were disconnected")
	}
}

func TestDisconnectWhileIdleIsDropped(t *testing.T) {
	rig := newTestRig(t,
		func(p *fakeProtocol) {},
		func(p *fakeProtocol) {},
	)
	rig.engine.RequestDisconnect()
	rig.run(t)

	if rig.protocol.closeViewers != 0 {
		t.Errorf("CloseViewers called %d times with no viewers", rig.protocol.closeViewers)
	}
	if rig.engine.disconnectRequested.Load() {
		t.Error("disconnect request left pending")
	}
}

func TestViewerInputReachesDevices(t *testing.T) {
	rig := newTestRig(t,
		func(p *fakeProtocol) {
			p.handler.HandleKey('a', true)
			p.handler.HandleKey('a', false)
			p.handler.HandleKey(0x1234, true)
		},
	)
	rig.run(t)

	if len(rig.keyboard.events) != 2 {
		t.Fatalf("keyboard received %d events, want 2", len(rig.keyboard.events))
	}
	if rig.keyboard.events[0].Code != evdev.KeyA || rig.keyboard.events[0].Value != 1 {
		t.Errorf("first event = %+v, want KEY_A press", rig.keyboard.events[0])
	}
}

func TestRunInitError(t *testing.T) {
	rig := newTestRig(t)
	rig.protocol.initErr = errors.New("port in use")

	err := rig.engine.Run(context.Background())
	if !errors.Is(err, rig.protocol.initErr) {
		t.Errorf("Run() = %v, want init error", err)
	}
}

func TestRunProtocolError(t *testing.T) {
	rig := newTestRig(t, func(p *fakeProtocol) { p.viewers = []Viewer{fakeViewer{}} })
	failure := errors.New("select failed")
	rig.protocol.failAt = 1
	rig.protocol.failErr = failure

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rig.protocol.cancel = cancel
	if err := rig.engine.Run(ctx); !errors.Is(err, failure) {
		t.Errorf("Run() = %v, want protocol error", err)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("New(Config{}) succeeded")
	}
}
