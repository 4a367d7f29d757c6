// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for igvctl.
//
// Configuration is loaded from a single file specified by either the
// IGVCTL_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic
// file search; with nothing specified the built-in defaults stand,
// which describe a stock viewer on the standard local port.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No other
// environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Viewer, Snapshots, Playbooks
//   - [Default] -- the zero-file defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other igvctl packages.
package config
