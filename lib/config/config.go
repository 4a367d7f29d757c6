// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for igvctl.
type Config struct {
	// Viewer configures how the viewer is reached and launched.
	Viewer ViewerConfig `yaml:"viewer"`

	// Snapshots configures snapshot output handling.
	Snapshots SnapshotsConfig `yaml:"snapshots"`

	// Playbooks configures playbook discovery and substitution.
	Playbooks PlaybooksConfig `yaml:"playbooks"`
}

// ViewerConfig configures the viewer connection and launch.
type ViewerConfig struct {
	// Host is the address the viewer listens on.
	// Default: 127.0.0.1
	Host string `yaml:"host"`

	// Port is the viewer's batch command port.
	// Default: 60151
	Port int `yaml:"port"`

	// Binary is the viewer executable, a bare name resolved via PATH
	// or an absolute path.
	// Default: igv
	Binary string `yaml:"binary"`

	// PortFlag is the command-line flag carrying the port when
	// launching.
	// Default: --port
	PortFlag string `yaml:"port_flag"`

	// ExtraArgs are appended to the viewer command line after the
	// port flag.
	ExtraArgs []string `yaml:"extra_args"`

	// ReadyTimeout bounds the wait for the viewer's readiness banner
	// when launching. Duration string; empty waits indefinitely.
	// Default: 2m
	ReadyTimeout string `yaml:"ready_timeout"`

	// DialTimeout bounds the TCP connect to the viewer.
	// Default: 10s
	DialTimeout string `yaml:"dial_timeout"`
}

// SnapshotsConfig configures snapshot output handling.
type SnapshotsConfig struct {
	// Dir is where snapshots are saved. Empty means the working
	// directory of the invocation.
	Dir string `yaml:"dir"`

	// WaitTimeout bounds how long snapshot --wait watches for the
	// image file to land on disk. Duration string.
	// Default: 30s
	WaitTimeout string `yaml:"wait_timeout"`

	// ArchiveDir is where snapshot archives are written. Empty means
	// alongside the snapshot directory.
	ArchiveDir string `yaml:"archive_dir"`
}

// PlaybooksConfig configures playbook discovery and substitution.
type PlaybooksConfig struct {
	// Dir is where bare playbook names are resolved.
	// Default: . (the working directory)
	Dir string `yaml:"dir"`

	// Vars are substitution values available to playbooks as ${NAME}.
	// Playbook-local defaults and process environment fill in the
	// rest.
	Vars map[string]string `yaml:"vars"`
}

// Default returns the default configuration. These defaults are a
// usable zero configuration: a stock viewer on the standard local
// port. A config file only needs to state what differs.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Host:         "127.0.0.1",
			Port:         60151,
			Binary:       "igv",
			PortFlag:     "--port",
			ReadyTimeout: "2m",
			DialTimeout:  "10s",
		},
		Snapshots: SnapshotsConfig{
			WaitTimeout: "30s",
		},
		Playbooks: PlaybooksConfig{
			Dir: ".",
		},
	}
}

// Load loads configuration from the IGVCTL_CONFIG environment
// variable. Unlike LoadFile, a missing variable is not an error: the
// defaults stand alone, so Load degrades to Default(). A set but
// unreadable path is an error.
func Load() (*Config, error) {
	configPath := os.Getenv("IGVCTL_CONFIG")
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merged over
// the defaults.
//
// The config file is the single source of truth. Environment
// variables do not override config values; the only expansion
// performed is ${VAR} and ${VAR:-default} in path-valued fields for
// portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// path-valued fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Viewer.Binary = expandVars(c.Viewer.Binary, vars)
	c.Snapshots.Dir = expandVars(c.Snapshots.Dir, vars)
	c.Snapshots.ArchiveDir = expandVars(c.Snapshots.ArchiveDir, vars)
	c.Playbooks.Dir = expandVars(c.Playbooks.Dir, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors, reporting all of them
// at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Viewer.Host == "" {
		errs = append(errs, fmt.Errorf("viewer.host is required"))
	}
	if c.Viewer.Port < 1 || c.Viewer.Port > 65535 {
		errs = append(errs, fmt.Errorf("viewer.port %d outside 1-65535", c.Viewer.Port))
	}
	if c.Viewer.Binary == "" {
		errs = append(errs, fmt.Errorf("viewer.binary is required"))
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"viewer.ready_timeout", c.Viewer.ReadyTimeout},
		{"viewer.dial_timeout", c.Viewer.DialTimeout},
		{"snapshots.wait_timeout", c.Snapshots.WaitTimeout},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.ParseDuration(field.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", field.name, field.value))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ReadyTimeout returns the parsed launch readiness bound, zero when
// unset. Call Validate first; an unparseable value reads as zero.
func (c *ViewerConfig) ReadyTimeoutDuration() time.Duration {
	return parseDurationOrZero(c.ReadyTimeout)
}

// DialTimeoutDuration returns the parsed connect bound, zero when
// unset.
func (c *ViewerConfig) DialTimeoutDuration() time.Duration {
	return parseDurationOrZero(c.DialTimeout)
}

// WaitTimeoutDuration returns the parsed snapshot wait bound, zero
// when unset.
func (c *SnapshotsConfig) WaitTimeoutDuration() time.Duration {
	return parseDurationOrZero(c.WaitTimeout)
}

func parseDurationOrZero(value string) time.Duration {
	if value == "" {
		return 0
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return parsed
}

// EnsurePaths creates the configured output directories if they don't
// exist.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Snapshots.Dir, c.Snapshots.ArchiveDir} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}

// ResolveBinary returns the full path of the configured viewer
// binary. A value containing a path separator must point at an
// existing file; a bare name is resolved via PATH.
func (c *ViewerConfig) ResolveBinary() (string, error) {
	if strings.ContainsRune(c.Binary, os.PathSeparator) {
		if _, err := os.Stat(c.Binary); err != nil {
			return "", fmt.Errorf("viewer binary %s: %w", c.Binary, err)
		}
		return c.Binary, nil
	}
	path, err := exec.LookPath(c.Binary)
	if err != nil {
		return "", fmt.Errorf("viewer binary %s not found in PATH", c.Binary)
	}
	return path, nil
}
