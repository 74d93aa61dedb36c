// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the wall clock for testability. Production code
// injects Real(); tests inject Fake() and move time explicitly.
//
// Components that stamp input events or record when a scan ran take a
// Clock field instead of calling time.Now directly, so tests can
// assert exact timestamps.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
