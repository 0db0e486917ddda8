// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package probe provides the registry of named MetricProbes and the
// reference Linux /proc-based probes.
//
// A probe must be pure with respect to the state of the target process: it
// may read /proc-style counters for the target's pid but must never write
// to the target or otherwise perturb it.
package probe

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrUnavailable is returned by a Func when the underlying counter cannot
// be read for the target pid (process exited, /proc not mounted, field
// missing). FrameTracer treats it as fatal for the current call path.
var ErrUnavailable = errors.New("probe: metric unavailable")

// Session is the subset of debugger state a MetricProbe may read. The
// reference /proc-based probes below ignore it, but it lets a probe read
// backtrace or frame-address state instead of (or in addition to)
// /proc-style counters.
type Session interface {
	Backtrace() ([]string, error)
	CurrentFrameAddress() (addr string, ok bool, err error)
}

// Func samples one scalar characteristic of the running target process.
type Func func(sess Session, pid int) (int64, error)

// DefaultName is the probe selected when the CLI is given none.
const DefaultName = "private_mem"

var registry = map[string]Func{
	"private_dirty": privateDirty,
	"private_mem":   privateMem,
	"io_rchar":      ioField("rchar:"),
	"io_wchar":      ioField("wchar:"),
	"fd_count":      fdCount,
}

// Lookup returns the registered probe by name, or false if unknown.
func Lookup(name string) (Func, bool) {
	f, ok := registry[name]
	return f, ok
}

// Names returns the registered probe names in sorted order, replacing the
// original's introspection over globals() with an explicit, static list.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a probe in the registry. Intended for test
// doubles and for programs embedding this package with extra probes; the
// CLI itself only ever looks probes up by name.
func Register(name string, f Func) {
	registry[name] = f
}

func sumPrefixedFields(filename, prefix string, fieldIndex int) (int64, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer f.Close()

	var total int64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		fields := strings.Fields(line)
		if fieldIndex >= len(fields) {
			continue
		}
		v, err := strconv.ParseInt(fields[fieldIndex], 10, 64)
		if err != nil {
			continue
		}
		total += v
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return total, nil
}

func privateDirty(sess Session, pid int) (int64, error) {
	return sumPrefixedFields(fmt.Sprintf("/proc/%d/smaps", pid), "Private_Dirty:", 1)
}

func privateMem(sess Session, pid int) (int64, error) {
	return sumPrefixedFields(fmt.Sprintf("/proc/%d/smaps", pid), "Private_", 1)
}

func ioField(prefix string) Func {
	return func(sess Session, pid int) (int64, error) {
		return sumPrefixedFields(fmt.Sprintf("/proc/%d/io", pid), prefix, 1)
	}
}

// fdCount counts the entries in /proc/<pid>/fd without recursing into
// subdirectories.
func fdCount(sess Session, pid int) (int64, error) {
	dir := fmt.Sprintf("/proc/%d/fd", pid)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return int64(len(entries)), nil
}
