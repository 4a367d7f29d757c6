// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// RequireReceive reads one value from ch, or fails the test once
// timeout elapses. what describes the awaited event in the failure
// message, with optional Sprintf args.
//
//	err := testutil.RequireReceive(t, errs, 5*time.Second, "waiting for %s", name)
func RequireReceive[T any](t interface {
	Helper()
	Fatalf(format string, args ...any)
}, ch <-chan T, timeout time.Duration, what string, args ...any) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed without a value: %s", fmt.Sprintf(what, args...))
		}
		return v
	case <-time.After(timeout):
		t.Fatalf("timed out after %v: %s", timeout, fmt.Sprintf(what, args...))
	}
	panic("unreachable")
}

// RequireClosed waits for ch to close (or deliver a value), or fails
// the test once timeout elapses. For done channels that signal by
// closing.
func RequireClosed(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, ch <-chan struct{}, timeout time.Duration, what string, args ...any) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("timed out after %v: %s", timeout, fmt.Sprintf(what, args...))
	}
}
