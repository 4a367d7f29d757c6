// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package igv

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConnected is returned by command methods called on a session
// with no live connection: before Connect, after Close, or after the
// exit command has shut the transport down. Reconnect with Connect.
var ErrNotConnected = errors.New("igv: not connected")

// ArgumentError reports a command argument that cannot be rendered as
// protocol text. It is raised before any network I/O. Callers can use
// errors.As to extract the offending command and value:
//
//	var argErr *igv.ArgumentError
//	if errors.As(err, &argErr) {
//	    log.Printf("bad argument to %s: %v", argErr.Command, argErr.Value)
//	}
type ArgumentError struct {
	// Command is the wire command name being encoded.
	Command string
	// Value is the rejected argument.
	Value any
	// Reason overrides the default message when set (e.g. a missing
	// required argument rather than an unrepresentable one).
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("igv: %s: %s", e.Command, e.Reason)
	}
	return fmt.Sprintf("igv: %s: argument %v (type %T) is not representable as command text", e.Command, e.Value, e.Value)
}

// OptionError reports a command option outside its documented value
// set, rejected before any network I/O. Valid lists the accepted
// values.
type OptionError struct {
	// Command is the wire command name.
	Command string
	// Value is the rejected option.
	Value string
	// Valid is the full set of accepted options.
	Valid []string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("igv: %s: option %q is not one of %s", e.Command, e.Value, strings.Join(e.Valid, ", "))
}

// ConnectionError reports a transport failure: the dial was refused or
// timed out, or an established socket failed mid-exchange. The
// underlying cause is available through Unwrap.
type ConnectionError struct {
	// Op is the failing operation: "dial", "write", or "read".
	Op string
	// Addr is the viewer address in host:port form.
	Addr string
	// Err is the underlying network error.
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("igv: %s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// PortInUseError reports that the launch preflight found the viewer's
// target port already bound, so spawning another viewer on it would be
// doomed.
type PortInUseError struct {
	// Port is the occupied TCP port.
	Port int
}

func (e *PortInUseError) Error() string {
	return fmt.Sprintf("igv: port %d is already in use", e.Port)
}
