// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tracer implements FrameTracer: given a debugger positioned at
// the first source line of a function, it single-steps through the
// function, sampling a MetricProbe before and after each line, until the
// frame is exited either by return (backtrace depth decreases) or by a
// tail-call-like frame replacement (same depth, different frame identity).
package tracer

import (
	"fmt"

	"github.com/askervin/gdbsearch/internal/probe"
)

// Sample is one (frameTop, metric, sourceLine) observation. The first
// sample of a frame always carries an empty SourceLine.
type Sample struct {
	FrameTop   string
	Metric     int64
	SourceLine string
}

// Session is the subset of gdbproto.Session that FrameTracer depends on,
// named so tests can substitute a fake debugger.
type Session interface {
	Backtrace() ([]string, error)
	CurrentFrameAddress() (addr string, ok bool, err error)
	StepOneSourceLine() (string, error)
}

// Trace single-steps the current frame of sess, sampling probeFn(sess, pid)
// before and after every line, and returns the resulting sample sequence.
//
// A one-line function yields exactly one sample (the initial one) and no
// further steps; this is an expected edge case, not an error.
func Trace(sess Session, pid int, probeFn probe.Func) ([]Sample, error) {
	bt0, err := sess.Backtrace()
	if err != nil {
		return nil, fmt.Errorf("tracer: initial backtrace: %w", err)
	}
	if len(bt0) == 0 {
		return nil, fmt.Errorf("tracer: empty backtrace at frame entry")
	}
	frame0, ok0, err := sess.CurrentFrameAddress()
	if err != nil {
		return nil, fmt.Errorf("tracer: initial frame address: %w", err)
	}

	m0, err := probeFn(sess, pid)
	if err != nil {
		return nil, fmt.Errorf("tracer: initial probe sample: %w", err)
	}
	samples := []Sample{{FrameTop: bt0[0], Metric: m0, SourceLine: ""}}

	depth0 := len(bt0)
	for {
		line, err := sess.StepOneSourceLine()
		if err != nil {
			return nil, fmt.Errorf("tracer: step: %w", err)
		}
		bt, err := sess.Backtrace()
		if err != nil {
			return nil, fmt.Errorf("tracer: backtrace after step: %w", err)
		}
		if len(bt) == 0 || len(bt) != depth0 {
			break
		}
		frame, ok, err := sess.CurrentFrameAddress()
		if err != nil {
			return nil, fmt.Errorf("tracer: frame address after step: %w", err)
		}
		if ok != ok0 || frame != frame0 {
			break
		}
		m, err := probeFn(sess, pid)
		if err != nil {
			return nil, fmt.Errorf("tracer: probe sample: %w", err)
		}
		samples = append(samples, Sample{FrameTop: bt[0], Metric: m, SourceLine: line})
	}
	return samples, nil
}
