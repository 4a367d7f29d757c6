// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

type stateRecord struct {
	PID     int    `json:"pid"`
	Port    int    `json:"port"`
	Binary  string `json:"binary,omitempty"`
	Started int64  `json:"started_at"`
}

func TestRoundTrip(t *testing.T) {
	original := stateRecord{PID: 4242, Port: 60151, Binary: "/usr/bin/igv", Started: 1700000000}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var decoded stateRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip = %+v, want %+v", decoded, original)
	}
}

// Deterministic encoding: identical logical values produce identical
// bytes regardless of map construction order.
func TestDeterministicMapEncoding(t *testing.T) {
	first := map[string]int{"port": 60151, "pid": 4242, "attempts": 3}
	second := map[string]int{}
	second["attempts"] = 3
	second["pid"] = 4242
	second["port"] = 60151

	firstBytes, err := Marshal(first)
	if err != nil {
		t.Fatalf("Marshal(first) error: %v", err)
	}
	secondBytes, err := Marshal(second)
	if err != nil {
		t.Fatalf("Marshal(second) error: %v", err)
	}
	if !bytes.Equal(firstBytes, secondBytes) {
		t.Errorf("encodings differ: %x vs %x", firstBytes, secondBytes)
	}
}

// Older readers must tolerate fields added by newer writers.
func TestUnknownFieldsIgnored(t *testing.T) {
	type extended struct {
		PID     int    `json:"pid"`
		Port    int    `json:"port"`
		Comment string `json:"comment"`
	}
	data, err := Marshal(extended{PID: 7, Port: 60151, Comment: "added later"})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	type narrow struct {
		PID  int `json:"pid"`
		Port int `json:"port"`
	}
	var decoded narrow
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if decoded.PID != 7 || decoded.Port != 60151 {
		t.Errorf("decoded = %+v, want pid 7 port 60151", decoded)
	}
}
