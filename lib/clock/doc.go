// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Production code accepts a Clock instead of calling time.Now. In
// production, Real() provides the standard library behavior. In tests,
// Fake() provides a clock that only moves when told to:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	c.SetStep(time.Microsecond) // each reading is 1µs after the last
//	injector := input.NewInjector(input.Config{Clock: c, ...})
//
// The input injector stamps every evdev record with its own reading,
// so a stepping fake clock lets tests verify that the four records of
// a touch report carry independent, ordered timestamps.
package clock
