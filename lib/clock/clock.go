// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock supplies the time source for deadline waits. The viewer
// launcher bounds its readiness wait and the snapshot watcher bounds
// its file wait through this interface; tests substitute a FakeClock
// so those deadlines fire deterministically instead of on the wall
// clock.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once
	// duration d has elapsed. If d <= 0 the channel receives
	// immediately.
	After(d time.Duration) <-chan time.Time
}
