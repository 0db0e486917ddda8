// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gdbsearch drives an external source-level debugger through a
// target program, recursively tracing call frames and recording lines
// whose measured metric changed enough to satisfy a delta predicate, then
// renders the findings as a hyperlinked HTML report.
package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gdbsearch:", err)
		return exitCodeFor(err)
	}
	return 0
}
