// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askervin/gdbsearch/internal/probe"
)

// fakeSession scripts a sequence of backtraces/frame-addresses/step
// responses, one per call, so tests can drive FrameTracer without a real
// debugger.
type fakeSession struct {
	backtraces []error2Strings
	frames     []frameResp
	steps      []error2String
	btIdx      int
	frameIdx   int
	stepIdx    int
}

type error2Strings struct {
	lines []string
	err   error
}

type error2String struct {
	line string
	err  error
}

type frameResp struct {
	addr string
	ok   bool
	err  error
}

func (f *fakeSession) Backtrace() ([]string, error) {
	r := f.backtraces[f.btIdx]
	f.btIdx++
	return r.lines, r.err
}

func (f *fakeSession) CurrentFrameAddress() (string, bool, error) {
	r := f.frames[f.frameIdx]
	f.frameIdx++
	return r.addr, r.ok, r.err
}

func (f *fakeSession) StepOneSourceLine() (string, error) {
	r := f.steps[f.stepIdx]
	f.stepIdx++
	return r.line, r.err
}

func constProbe(value int64) probe.Func {
	return func(sess probe.Session, pid int) (int64, error) {
		return value, nil
	}
}

func sequenceProbe(values ...int64) probe.Func {
	i := 0
	return func(sess probe.Session, pid int) (int64, error) {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v, nil
	}
}

func TestTraceOneLineFunction(t *testing.T) {
	// Frame exits on the very first step: depth drops immediately.
	sess := &fakeSession{
		backtraces: []error2Strings{
			{lines: []string{"#0  foo () at a.c:10"}}, // initial
			{lines: []string{}},                        // after step: exited
		},
		frames: []frameResp{
			{addr: "0x1", ok: true},
		},
		steps: []error2String{
			{line: ""},
		},
	}
	samples, err := Trace(sess, 123, constProbe(0))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "#0  foo () at a.c:10", samples[0].FrameTop)
	assert.Equal(t, "", samples[0].SourceLine)
}

func TestTraceMultiLineFunctionDetectsReturn(t *testing.T) {
	sess := &fakeSession{
		backtraces: []error2Strings{
			{lines: []string{"#0  foo () at a.c:10", "#1  main () at a.c:20"}}, // initial, depth 2
			{lines: []string{"#0  foo () at a.c:11", "#1  main () at a.c:20"}}, // after step 1
			{lines: []string{"#0  main () at a.c:21"}},                        // after step 2: returned
		},
		frames: []frameResp{
			{addr: "0xAA", ok: true}, // initial
			{addr: "0xAA", ok: true}, // after step 1, same frame
		},
		steps: []error2String{
			{line: "10   int x = 1;"},
			{line: "11   return x;"},
		},
	}
	samples, err := Trace(sess, 123, sequenceProbe(0, 100))
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, int64(0), samples[0].Metric)
	assert.Equal(t, int64(100), samples[1].Metric)
	assert.Equal(t, "10   int x = 1;", samples[1].SourceLine)
}

func TestTraceDetectsTailCallFrameReplacement(t *testing.T) {
	sess := &fakeSession{
		backtraces: []error2Strings{
			{lines: []string{"#0  foo () at a.c:10", "#1  main () at a.c:20"}},
			{lines: []string{"#0  bar () at b.c:5", "#1  main () at a.c:20"}}, // same depth, different frame
		},
		frames: []frameResp{
			{addr: "0xAA", ok: true},
			{addr: "0xBB", ok: true}, // different identity -> stop
		},
		steps: []error2String{
			{line: "10  tailcall();"},
		},
	}
	samples, err := Trace(sess, 1, constProbe(5))
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}
