// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/seqview/igvctl/igv"
	"github.com/seqview/igvctl/lib/config"
)

// targetFlags carries the flags shared by every command that needs to
// know which viewer to talk to: an optional config file plus host and
// port overrides. Flag values win over the config file, which wins
// over built-in defaults.
type targetFlags struct {
	configFile string
	host       string
	port       int
}

// register adds the shared flags to a command's flag set.
func (t *targetFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&t.configFile, "config", "", "config file (default $IGVCTL_CONFIG)")
	flagSet.StringVar(&t.host, "host", "", "viewer host (overrides config)")
	flagSet.IntVar(&t.port, "port", 0, "viewer batch port (overrides config)")
}

// resolve loads the configuration, applies the flag overrides, and
// validates the result.
func (t *targetFlags) resolve() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if t.configFile != "" {
		cfg, err = config.LoadFile(t.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if t.host != "" {
		cfg.Viewer.Host = t.host
	}
	if t.port != 0 {
		cfg.Viewer.Port = t.port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// connect resolves the configuration and opens a session to the
// viewer it describes. The caller owns the session and must Close it.
func (t *targetFlags) connect(ctx context.Context, logger *slog.Logger) (*igv.Session, *config.Config, error) {
	cfg, err := t.resolve()
	if err != nil {
		return nil, nil, err
	}
	session, err := dial(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return session, cfg, nil
}

// dial opens a session to the viewer a resolved config describes.
func dial(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*igv.Session, error) {
	return igv.Open(ctx,
		igv.WithHost(cfg.Viewer.Host),
		igv.WithPort(cfg.Viewer.Port),
		igv.WithDialTimeout(cfg.Viewer.DialTimeoutDuration()),
		igv.WithLogger(logger),
	)
}

// address formats the viewer endpoint for display.
func address(cfg *config.Config) string {
	return net.JoinHostPort(cfg.Viewer.Host, strconv.Itoa(cfg.Viewer.Port))
}
