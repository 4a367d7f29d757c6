// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// Fake returns a FakeClock frozen at the given time. Time moves only
// when Advance is called.
//
// FakeClock is safe for concurrent use by multiple goroutines.
func Fake(initial time.Time) *FakeClock {
	c := &FakeClock{current: initial}
	c.registered = sync.NewCond(&c.mu)
	return c
}

// FakeClock is a deterministic Clock for tests. After registers a
// pending deadline; Advance moves the clock and delivers on every
// channel whose deadline has passed.
type FakeClock struct {
	mu         sync.Mutex
	current    time.Time
	pending    []pendingAfter
	registered *sync.Cond
}

type pendingAfter struct {
	deadline time.Time
	channel  chan time.Time
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After returns a channel that receives the fake time once the clock
// has been advanced past the deadline. If d <= 0 the channel receives
// immediately and no deadline is registered.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.current
		return channel
	}
	c.pending = append(c.pending, pendingAfter{
		deadline: c.current.Add(d),
		channel:  channel,
	})
	c.registered.Broadcast()
	return channel
}

// Advance moves the clock forward by d and delivers the fake time on
// every pending channel whose deadline is now due. Channels are
// buffered, so delivery never blocks on the receiver.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.current.Add(d)
	remaining := c.pending[:0]
	for _, p := range c.pending {
		if p.deadline.After(c.current) {
			remaining = append(remaining, p)
			continue
		}
		p.channel <- c.current
	}
	c.pending = remaining
}

// WaitForTimers blocks until at least n deadlines are registered and
// not yet fired. Call it before Advance when the After call happens on
// another goroutine, so the deadline cannot be missed:
//
//	go func() { <-clock.After(time.Minute); ... }()
//	clock.WaitForTimers(1)
//	clock.Advance(time.Minute)
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.pending) < n {
		c.registered.Wait()
	}
}
