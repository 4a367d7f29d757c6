// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package igv

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

// sortOptions is the value set the sort command accepts. Anything else
// is rejected with an OptionError before touching the network.
var sortOptions = []string{"base", "position", "strand", "quality", "sample", "readGroup"}

// encodeCommand renders one batch command line: the wire name followed
// by its arguments in order, space-joined, trimmed of leading and
// trailing whitespace. Nil arguments are dropped entirely rather than
// emitted as empty tokens, so optional trailing arguments can be
// threaded through as nil. Every argument must be text-representable;
// anything else is an ArgumentError.
func encodeCommand(name string, args ...any) (string, error) {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, arg := range args {
		if arg == nil {
			continue
		}
		text, err := argText(name, arg)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

// argText coerces a single argument to its protocol text. Strings pass
// through verbatim, booleans become the literal tokens true/false (the
// form the viewer's preference setters expect), and numerics render in
// their shortest decimal form.
func argText(command string, arg any) (string, error) {
	switch value := arg.(type) {
	case string:
		return value, nil
	case bool:
		return strconv.FormatBool(value), nil
	case int:
		return strconv.Itoa(value), nil
	case int64:
		return strconv.FormatInt(value, 10), nil
	case uint:
		return strconv.FormatUint(uint64(value), 10), nil
	case uint64:
		return strconv.FormatUint(value, 10), nil
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	case fmt.Stringer:
		return value.String(), nil
	default:
		return "", &ArgumentError{Command: command, Value: arg}
	}
}

// optionalArg adapts a trailing optional string parameter to the
// encoder's nil-elision: an empty string encodes as nothing at all,
// not as an empty token.
func optionalArg(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// looksLikeURL reports whether value carries a URI scheme. Values the
// URL parser rejects outright are treated as filesystem paths.
func looksLikeURL(value string) bool {
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	return parsed.Scheme != ""
}

// normalizePath expands value to an absolute filesystem path unless it
// carries a URI scheme, letting commands like load accept remote URLs
// and local paths through the same parameter. If absolutization fails,
// the value passes through unchanged.
func normalizePath(value string) string {
	if looksLikeURL(value) {
		return value
	}
	absolute, err := filepath.Abs(value)
	if err != nil {
		return value
	}
	return absolute
}
