// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestFakeClockFrozenUntilAdvance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Fake(start)

	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}
	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("second Now() = %v, want frozen %v", got, start)
	}

	c.Advance(100 * time.Millisecond)
	if got, want := c.Now(), start.Add(100*time.Millisecond); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockStep(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Fake(start)
	c.SetStep(time.Microsecond)

	first := c.Now()
	second := c.Now()
	third := c.Now()

	if !first.Equal(start) {
		t.Errorf("first reading = %v, want %v", first, start)
	}
	if second.Sub(first) != time.Microsecond || third.Sub(second) != time.Microsecond {
		t.Errorf("readings not stepped by 1µs: %v %v %v", first, second, third)
	}
}

func TestRealClockMovesForward(t *testing.T) {
	c := Real()
	before := c.Now()
	after := c.Now()
	if after.Before(before) {
		t.Fatalf("real clock went backwards: %v then %v", before, after)
	}
}
