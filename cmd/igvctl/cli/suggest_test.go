// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		from, to string
		distance int
	}{
		{"", "", 0},
		{"", "igv", 3},
		{"genome", "genome", 0},
		{"genome", "gnome", 1}, // dropped letter
		{"locus", "locys", 1},  // substitution
		{"load", "loads", 1},   // insertion
		{"goto", "gtoo", 2},    // transposition costs two edits
		{"snapshot", "snapsht", 1},
		{"batch", "bath", 1},
		{"console", "consoel", 2},
	}

	for _, test := range tests {
		t.Run(test.from+"->"+test.to, func(t *testing.T) {
			// Edit distance is symmetric; check both directions so a
			// regression in either argument order shows up.
			if got := levenshtein(test.from, test.to); got != test.distance {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.from, test.to, got, test.distance)
			}
			if got := levenshtein(test.to, test.from); got != test.distance {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.to, test.from, got, test.distance)
			}
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "launch"},
		{Name: "stop"},
		{Name: "status"},
		{Name: "exec"},
		{Name: "batch"},
		{Name: "run"},
		{Name: "snapshot"},
		{Name: "console"},
		{Name: "version"},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"lanch", "launch"},
		{"statu", "status"},
		{"snapshto", "snapshot"},
		{"consoel", "console"},
		{"vrsion", "version"},
		{"exce", "exec"},
		{"lch", "launch"}, // distance 3 sits exactly at the threshold
		{"zzzzzzzzz", ""}, // nothing within range
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			if got := suggestCommand(test.input, commands); got != test.want {
				t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("suggest", pflag.ContinueOnError)
	flagSet.String("config", "", "")
	flagSet.Int("port", 0, "")
	flagSet.String("host", "", "")
	flagSet.Bool("wait", false, "")
	flagSet.String("report", "", "")

	tests := []struct {
		input []string
		want  string
	}{
		{[]string{"--confg"}, "--config"},
		{[]string{"-confg"}, "--config"},
		{[]string{"--prot"}, "--port"},
		{[]string{"--wiat"}, "--wait"},
		{[]string{"--confg=igvctl.yaml"}, "--config"}, // value attached with =
		{[]string{"--port"}, ""},                      // defined flags need no suggestion
		{[]string{"nightly-qc"}, ""},                  // positional argument, not a flag
		{[]string{"--zzzzzzzzz"}, ""},                 // nothing close
		{[]string{"--zzzzzzzzz", "--confg"}, ""},      // only the first unknown flag is considered
	}

	for _, test := range tests {
		t.Run(strings.Join(test.input, " "), func(t *testing.T) {
			if got := suggestFlag(test.input, flagSet); got != test.want {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}
