// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for deadline waits.
//
// igvctl has two places that wait on the wall clock with a timeout:
// the viewer launcher waiting for the readiness banner, and the
// snapshot watcher waiting for a file to land. Both take a Clock so
// tests can drive the deadline with a FakeClock instead of sleeping:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	w, _ := snapwatch.New(dir, snapwatch.WithClock(c))
//	// start the wait in a goroutine, then:
//	c.WaitForTimers(1)
//	c.Advance(time.Minute)
//
// WaitForTimers blocks until the waiting goroutine has registered its
// deadline, which removes the race between registration and Advance.
package clock
