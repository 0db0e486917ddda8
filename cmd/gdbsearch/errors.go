// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "errors"

// exitCode classifies an error for the process exit code: 1 for
// usage/configuration errors, 2 for a fatal debugger interaction error.
// Anything else (a bare cobra usage error, for instance) also exits 1.
type exitCode int

const (
	exitUsage exitCode = 1
	exitFatal exitCode = 2
)

// fatalRunError wraps an error that occurred while actually driving the
// debugger, as opposed to a flag/config problem caught before the search
// started.
type fatalRunError struct{ err error }

func (e *fatalRunError) Error() string { return e.err.Error() }
func (e *fatalRunError) Unwrap() error { return e.err }

func exitCodeFor(err error) int {
	var fatal *fatalRunError
	if errors.As(err, &fatal) {
		return int(exitFatal)
	}
	return int(exitUsage)
}
