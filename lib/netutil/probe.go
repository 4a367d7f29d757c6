// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"net"
	"strconv"
	"syscall"
	"time"
)

// ProbeResult classifies what a port probe learned.
type ProbeResult int

const (
	// ProbeFree means the port actively refused the connection:
	// nothing is listening.
	ProbeFree ProbeResult = iota

	// ProbeInUse means something accepted (or is accepting on) the
	// port.
	ProbeInUse

	// ProbeInconclusive means the probe could not tell: the dial timed
	// out or failed for a reason other than refusal. Callers should
	// proceed with a warning rather than block on an answer the probe
	// cannot give.
	ProbeInconclusive
)

// String returns the probe result name for log output.
func (r ProbeResult) String() string {
	switch r {
	case ProbeFree:
		return "free"
	case ProbeInUse:
		return "in-use"
	case ProbeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// ProbePort checks whether a TCP listener is accepting connections on
// host:port. A completed dial means the port is taken; a refused dial
// means it is free. Timeouts and unreachable-host errors are reported
// as inconclusive instead of guessing.
func ProbePort(host string, port int, timeout time.Duration) ProbeResult {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err == nil {
		conn.Close()
		return ProbeInUse
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && errno == syscall.ECONNREFUSED {
		return ProbeFree
	}
	return ProbeInconclusive
}
