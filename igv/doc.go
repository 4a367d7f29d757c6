// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package igv drives the Integrative Genomics Viewer over its batch
// command port: a line-oriented request/response protocol on TCP
// (one command per line, one response line per command, LF-terminated
// both ways, port 60151 by default).
//
// The package is organized around the flow of a command:
//
//   - command.go renders a command name plus arguments into exactly
//     one protocol line (nil arguments dropped, paths expanded unless
//     they carry a URI scheme, booleans as literal true/false).
//   - conn.go owns the TCP connection and the synchronous
//     write-line/read-line exchange.
//   - session.go is the façade: one method per batch command, the
//     snapshot-directory cache, and the append-only command history.
//   - launch.go spawns the viewer as a detached child in its own
//     process group, watches its combined output for the readiness
//     line, and signals the group on Terminate.
//   - script.go replays plain batch script files through a session.
//
// A Session is strictly synchronous: every command blocks until the
// viewer answers, and only one request may be outstanding at a time.
// Sessions share nothing and are not safe for concurrent use; give
// each goroutine its own.
//
// Typical use against a running viewer:
//
//	session, err := igv.Open(ctx, igv.WithPort(60151))
//	if err != nil { ... }
//	defer session.Close()
//	session.Genome("hg19")
//	session.Load("/data/sample.bam")
//	session.Goto("chr1:10,000-20,000")
//	session.Snapshot("")
//
// Or spawning a fresh viewer and cleaning up on every exit path:
//
//	err := igv.WithSession(ctx, func(session *igv.Session) error {
//	    _, err := session.Echo("ready?")
//	    return err
//	})
//
// The viewer's responses are free-form text with no structured error
// channel; commands conventionally answer "OK" or the requested value,
// and error text passes through to the caller unparsed.
package igv
