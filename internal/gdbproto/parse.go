// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdbproto

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// This file isolates every pattern that depends on the exact text the
// debugger emits: the prompt marker, the breakpoint-confirmation prefix,
// the "info proc" row layout, and the " at FILE:LINE" suffix on backtrace
// frame-top lines. Targeting a different debugger, or the same debugger's
// machine-interface mode, should require changing only this file.

// DefaultPrompt is gdb's interactive prompt.
const DefaultPrompt = "(gdb) "

// DefaultEntrySymbol is the function gdb breaks on to reach a fresh,
// reproducible starting state.
const DefaultEntrySymbol = "main"

var breakpointConfirmed = regexp.MustCompile(`^Breakpoint \d+ at `)

// IsBreakpointConfirmation reports whether line is gdb's confirmation that
// a breakpoint was set ("Breakpoint 1 at 0x...: file foo.c, line 3.").
func IsBreakpointConfirmation(line string) bool {
	return breakpointConfirmed.MatchString(line)
}

// ParsePid extracts the target's pid from the response to "info proc",
// whose first row is expected to read "process <pid>".
func ParsePid(lines []string) (int, error) {
	if len(lines) == 0 {
		return 0, fmt.Errorf("gdbproto: empty response to info proc")
	}
	fields := strings.Fields(lines[0])
	if len(fields) < 2 || fields[0] != "process" {
		return 0, fmt.Errorf("gdbproto: unrecognized info proc response: %q", lines[0])
	}
	pid, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("gdbproto: unparseable pid %q: %w", fields[1], err)
	}
	return pid, nil
}

// ParseFrameLocation splits a backtrace frame-top line's trailing
// " at FILE:LINE" suffix into its file and line number. It reports ok=false
// if the line carries no such suffix (e.g. a frame with no debug info).
func ParseFrameLocation(frameTop string) (file string, line int, ok bool) {
	idx := strings.LastIndex(frameTop, " at ")
	if idx < 0 {
		return "", 0, false
	}
	loc := frameTop[idx+len(" at "):]
	sep := strings.LastIndex(loc, ":")
	if sep < 0 {
		return "", 0, false
	}
	file = loc[:sep]
	n, err := strconv.Atoi(loc[sep+1:])
	if err != nil {
		return "", 0, false
	}
	return file, n, true
}

// FramePrefix returns the portion of a frame-top line up to (but not
// including) its first colon, used to detect that a step-into left the
// frame identity unchanged (the descent failed).
func FramePrefix(frameTop string) string {
	if idx := strings.IndexByte(frameTop, ':'); idx >= 0 {
		return frameTop[:idx]
	}
	return frameTop
}

var frameAtAddr = regexp.MustCompile(`frame at (0x[0-9a-fA-F]+)`)

// ParseFrameAddress extracts the stack frame pointer address from the
// response to "info frame", gdb's own stable-per-frame identifier. It
// returns ok=false if no such address could be found, in which case the
// caller should fall back to treating the frame as having no identity.
func ParseFrameAddress(infoFrameLines []string) (addr string, ok bool) {
	for _, l := range infoFrameLines {
		if m := frameAtAddr.FindStringSubmatch(l); m != nil {
			return m[1], true
		}
	}
	return "", false
}
