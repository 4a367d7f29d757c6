// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapwatch blocks until the viewer finishes writing a
// snapshot file. The viewer acknowledges a snapshot command before
// the image hits the disk, so "wait for the file" is a separate
// concern from "send the command".
//
// A Watcher holds an inotify watch on the snapshot directory. Create
// the Watcher before sending the snapshot command: events queue on
// the watch descriptor from that moment, so a write that completes
// before Wait is called is still observed. Writes that finished
// before New are not.
package snapwatch

import (
	"context"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/seqview/igvctl/lib/clock"
)

// pollIntervalMilliseconds bounds how long Wait blocks in poll(2)
// before rechecking its context and deadline.
const pollIntervalMilliseconds = 100

// Watcher watches one directory for completed file writes.
type Watcher struct {
	directory string
	fd        int
	clk       clock.Clock

	mu     sync.Mutex
	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithClock substitutes the clock used for Wait deadlines. Tests use
// a fake clock to fire timeouts deterministically.
func WithClock(c clock.Clock) Option {
	return func(w *Watcher) { w.clk = c }
}

// New opens an inotify watch on directory. The watch is on the
// directory rather than any one file: tools that write a temp file
// and rename it into place create a new inode, which a file-level
// watch on the old inode would miss.
func New(directory string, options ...Option) (*Watcher, error) {
	absolute, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", directory, err)
	}

	watcher := &Watcher{directory: absolute, clk: clock.Real()}
	for _, option := range options {
		option(watcher)
	}

	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("creating inotify instance: %w", err)
	}
	if _, err := unix.InotifyAddWatch(fd, absolute, unix.IN_CLOSE_WRITE|unix.IN_MOVED_TO); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("watching %s: %w", absolute, err)
	}
	watcher.fd = fd

	return watcher, nil
}

// Directory returns the absolute path being watched.
func (w *Watcher) Directory() string { return w.directory }

// Wait blocks until a file named filename is close-written or moved
// into the watched directory, the timeout elapses, or the context is
// canceled. A timeout of zero waits indefinitely.
//
// Events for other filenames in the directory are consumed and
// ignored, so a Watcher serves one Wait at a time.
func (w *Watcher) Wait(ctx context.Context, filename string, timeout time.Duration) error {
	var deadline <-chan time.Time
	if timeout > 0 {
		deadline = w.clk.After(timeout)
	}

	buffer := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", filename, ctx.Err())
		case <-deadline:
			return fmt.Errorf("no completed write of %s in %s within %v", filename, w.directory, timeout)
		default:
		}

		descriptors := []unix.PollFd{{Fd: int32(w.fd), Events: unix.POLLIN}}
		count, err := unix.Poll(descriptors, pollIntervalMilliseconds)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("polling snapshot directory: %w", err)
		}
		if count == 0 {
			continue
		}

		bytesRead, err := unix.Read(w.fd, buffer)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return fmt.Errorf("reading inotify events: %w", err)
		}

		if eventsMatchFile(buffer[:bytesRead], filename) {
			return nil
		}
	}
}

// Close releases the inotify descriptor. Safe to call more than once.
// Do not call concurrently with Wait.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return unix.Close(w.fd)
}

// eventsMatchFile reports whether any inotify event in the buffer
// names the target file. Layout from inotify(7):
//
//	struct inotify_event {
//	    int32_t  wd;     // offset 0
//	    uint32_t mask;   // offset 4
//	    uint32_t cookie; // offset 8
//	    uint32_t len;    // offset 12
//	    char     name[]; // offset 16, null-padded to alignment
//	};
func eventsMatchFile(buffer []byte, target string) bool {
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buffer) {
		nameLength := int(binary.NativeEndian.Uint32(buffer[offset+12 : offset+16]))
		eventSize := unix.SizeofInotifyEvent + nameLength
		if offset+eventSize > len(buffer) {
			break
		}

		if nameLength > 0 {
			nameBytes := buffer[offset+unix.SizeofInotifyEvent : offset+eventSize]
			if nullTerminatedString(nameBytes) == target {
				return true
			}
		}

		offset += eventSize
	}
	return false
}

// nullTerminatedString extracts a string from a null-padded byte
// slice, stopping at the first null byte.
func nullTerminatedString(data []byte) string {
	for i, b := range data {
		if b == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}
