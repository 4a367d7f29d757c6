// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError carries a process exit code through the error return of a
// command handler. main exits with Code without printing the error
// text; a command returning one is expected to have written its own
// report already.
//
// status uses this to exit 1 when the viewer is not answering: the
// report itself is the output, and an extra line on stderr would just
// repeat it.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode is the interface hook main checks for on returned errors,
// separating "handled non-zero exit" from "unexpected error to
// display".
func (e *ExitError) ExitCode() int {
	return e.Code
}
