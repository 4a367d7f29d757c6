// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"

	"github.com/seqview/igvctl/lib/testutil"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	clock := Fake(epoch)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
}

func TestFakeClockAfterFiresOnAdvance(t *testing.T) {
	clock := Fake(epoch)
	channel := clock.After(3 * time.Second)

	select {
	case <-channel:
		t.Fatal("After fired before Advance")
	default:
	}

	clock.Advance(3 * time.Second)

	select {
	case fired := <-channel:
		if want := epoch.Add(3 * time.Second); !fired.Equal(want) {
			t.Fatalf("fired at %v, want %v", fired, want)
		}
	default:
		t.Fatal("After did not fire after Advance")
	}
}

func TestFakeClockAfterImmediate(t *testing.T) {
	clock := Fake(epoch)
	for _, d := range []time.Duration{0, -time.Second} {
		select {
		case <-clock.After(d):
		default:
			t.Fatalf("After(%v) should fire immediately", d)
		}
	}
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("immediate fire moved the clock to %v", got)
	}
}

func TestFakeClockAfterPartialAdvance(t *testing.T) {
	clock := Fake(epoch)
	channel := clock.After(5 * time.Second)

	clock.Advance(3 * time.Second)
	select {
	case <-channel:
		t.Fatal("After fired before its deadline")
	default:
	}

	clock.Advance(2 * time.Second)
	select {
	case <-channel:
	default:
		t.Fatal("After did not fire at the exact deadline")
	}
}

func TestFakeClockIndependentDeadlines(t *testing.T) {
	clock := Fake(epoch)
	short := clock.After(1 * time.Second)
	long := clock.After(10 * time.Second)

	clock.Advance(1 * time.Second)

	select {
	case <-short:
	default:
		t.Fatal("short deadline did not fire")
	}
	select {
	case <-long:
		t.Fatal("long deadline fired early")
	default:
	}

	clock.Advance(9 * time.Second)
	select {
	case <-long:
	default:
		t.Fatal("long deadline did not fire")
	}
}

func TestFakeClockAfterUnblocksWaiter(t *testing.T) {
	clock := Fake(epoch)

	done := make(chan struct{})
	go func() {
		<-clock.After(3 * time.Second)
		close(done)
	}()

	clock.WaitForTimers(1)
	clock.Advance(3 * time.Second)

	testutil.RequireClosed(t, done, time.Second, "After waiter did not unblock")
}

func TestRealClockAfter(t *testing.T) {
	testutil.RequireReceive(t, Real().After(time.Millisecond), time.Second, "real After never fired")
	if Real().Now().IsZero() {
		t.Fatal("real Now() returned the zero time")
	}
}
