// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides small networking helpers shared by the
// client transport and the process launcher: classification of
// expected connection-close errors, and the TCP port preflight probe
// used before spawning a viewer.
package netutil
