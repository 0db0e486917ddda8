// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package search implements the SearchDriver: it owns the FIFO queue of
// CallPaths still to be explored, restarts the debugger for each one,
// walks to the designated frame, traces it, and applies the delta
// predicate to enqueue children.
package search

import (
	"fmt"
	"log/slog"

	"github.com/askervin/gdbsearch/internal/callpath"
	"github.com/askervin/gdbsearch/internal/gdbproto"
	"github.com/askervin/gdbsearch/internal/predicate"
	"github.com/askervin/gdbsearch/internal/probe"
	"github.com/askervin/gdbsearch/internal/report"
	"github.com/askervin/gdbsearch/internal/source"
	"github.com/askervin/gdbsearch/internal/tracer"
)

// debugSession is the subset of gdbproto.Session the Driver depends on,
// named so tests can substitute a fake debugger instead of spawning one.
type debugSession interface {
	RunToEntry() error
	QueryPid() (int, error)
	Backtrace() ([]string, error)
	CurrentFrameAddress() (addr string, ok bool, err error)
	StepOneSourceLine() (string, error)
	StepInto() error
	Quit()
}

// Context is the constructed-once, injected bundle shared across the
// whole run, replacing the original tool's module-level globals
// (_all_findings, _file_not_found, _depth_fullpath_file_row_values).
type Context struct {
	GdbCommand string
	Probe      probe.Func
	Predicate  *predicate.Predicate
	Resolver   *source.Resolver
	Store      *report.Store
	MaxDepth   int // 0 means unbounded
	Logger     *slog.Logger

	// newSession overrides how a Driver spawns a debugger session; nil
	// means gdbproto.Start(GdbCommand). Tests substitute a fake session.
	newSession func(gdbCommand string) (debugSession, error)
}

// Driver owns the FIFO work queue and drives it to completion.
type Driver struct {
	ctx   *Context
	queue []callpath.Path

	explored int
	aborted  int
}

// New creates a Driver seeded with the given initial call paths.
func New(ctx *Context, initial []callpath.Path) *Driver {
	if ctx.Logger == nil {
		ctx.Logger = slog.Default()
	}
	if ctx.newSession == nil {
		ctx.newSession = func(gdbCommand string) (debugSession, error) {
			return gdbproto.Start(gdbCommand)
		}
	}
	d := &Driver{ctx: ctx}
	d.queue = append(d.queue, initial...)
	return d
}

// Stats summarizes one completed Run.
type Stats struct {
	PathsExplored int
	PathsAborted  int
	FindingsTotal int
}

// Run drains the queue, processing paths in FIFO order until it is empty.
// A path that encounters any fatal condition is abandoned cleanly and
// processing continues with the next path (the search as a whole always
// completes).
func (d *Driver) Run() Stats {
	for len(d.queue) > 0 {
		if d.ctx.MaxDepth > 0 {
			// Drop any queued path longer than the depth bound instead of
			// exploring it; paths exactly at the bound are still explored.
			var kept []callpath.Path
			for _, p := range d.queue {
				if len(p) <= d.ctx.MaxDepth {
					kept = append(kept, p)
				}
			}
			d.queue = kept
			if len(d.queue) == 0 {
				break
			}
		}

		path := d.queue[0]
		d.queue = d.queue[1:]
		d.explored++

		if err := d.processPath(path); err != nil {
			d.aborted++
			d.ctx.Logger.Warn("path abandoned", "path", path.String(), "error", err)
		}
	}
	return Stats{PathsExplored: d.explored, PathsAborted: d.aborted, FindingsTotal: d.ctx.Store.Len()}
}

// processPath starts a fresh debugger session for path, walks it down to
// the target frame, traces that frame, and enqueues children whose delta
// satisfies the predicate.
func (d *Driver) processPath(path callpath.Path) error {
	sess, err := d.ctx.newSession(d.ctx.GdbCommand)
	if err != nil {
		return fmt.Errorf("spawning debugger: %w", err)
	}
	defer sess.Quit()

	if err := sess.RunToEntry(); err != nil {
		return fmt.Errorf("running to entry: %w", err)
	}
	pid, err := sess.QueryPid()
	if err != nil {
		return fmt.Errorf("querying target pid: %w", err)
	}

	ok, err := walkToFrame(sess, path)
	if err != nil {
		return fmt.Errorf("walking to frame: %w", err)
	}
	if !ok {
		d.ctx.Logger.Info("descent failed, path abandoned", "path", path.String())
		return nil
	}

	d.ctx.Logger.Debug("inspecting frame", "path", path.String())
	samples, err := tracer.Trace(sess, pid, d.ctx.Probe)
	if err != nil {
		return fmt.Errorf("tracing frame: %w", err)
	}

	if len(path) == 0 && len(samples) > 0 {
		if file, _, ok := gdbproto.ParseFrameLocation(samples[0].FrameTop); ok {
			d.ctx.Store.EnsurePage(file, callpath.Root())
		}
	}

	for k := 1; k < len(samples); k++ {
		prev, curr := samples[k-1], samples[k]
		if !d.ctx.Predicate.Eval(curr.Metric, prev.Metric) {
			continue
		}

		file, line, ok := gdbproto.ParseFrameLocation(curr.FrameTop)
		if !ok {
			d.ctx.Logger.Info("could not parse frame location, finding skipped", "frametop", curr.FrameTop)
			continue
		}
		d.ctx.Logger.Debug("frame location", "file", file, "line", line)
		if _, ok := d.ctx.Resolver.Resolve(file); !ok {
			if d.ctx.Store.MarkUnresolved(file) {
				d.ctx.Logger.Info("source file unresolved, not descending", "file", file)
			}
			continue
		}

		d.ctx.Store.Add(report.Finding{
			SourceFile:     file,
			Line:           line,
			PrevMetric:     prev.Metric,
			NewMetric:      curr.Metric,
			ParentCallPath: path,
			StepIndex:      k,
		})
		d.queue = append(d.queue, path.Append(k))
	}
	return nil
}

// walkToFrame descends to the frame addressed by path: for each index in
// path, it issues that many stepOneSourceLine calls, then one stepInto,
// verifying each time that the step-into actually descended into a new
// frame.
func walkToFrame(sess debugSession, path callpath.Path) (bool, error) {
	for _, steps := range path {
		for i := 0; i < steps; i++ {
			if _, err := sess.StepOneSourceLine(); err != nil {
				return false, err
			}
		}
		before, err := sess.Backtrace()
		if err != nil {
			return false, err
		}
		if len(before) == 0 {
			return false, fmt.Errorf("empty backtrace before step-into")
		}
		if err := sess.StepInto(); err != nil {
			return false, err
		}
		after, err := sess.Backtrace()
		if err != nil {
			return false, err
		}
		if len(after) == 0 {
			return false, nil
		}
		if gdbproto.FramePrefix(after[0]) == gdbproto.FramePrefix(before[0]) {
			// The step-into did not change frame identity: this path
			// has been traced to the bottom.
			return false, nil
		}
	}
	return true, nil
}
