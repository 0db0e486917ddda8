// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askervin/gdbsearch/internal/callpath"
)

func TestStoreAddAndFindingsForFile(t *testing.T) {
	s := NewStore()
	s.Add(Finding{SourceFile: "a.c", Line: 10, PrevMetric: 0, NewMetric: 100, ParentCallPath: callpath.Root(), StepIndex: 2})
	s.Add(Finding{SourceFile: "a.c", Line: 20, PrevMetric: 0, NewMetric: 50, ParentCallPath: callpath.Root(), StepIndex: 5})
	s.Add(Finding{SourceFile: "b.c", Line: 1, PrevMetric: 0, NewMetric: 1, ParentCallPath: callpath.Path{2}, StepIndex: 0})

	assert.Equal(t, []string{"a.c", "b.c"}, s.Files())
	assert.Len(t, s.FindingsForFile("a.c"), 2)
	assert.Equal(t, 3, s.Len())
}

func TestStoreOrderedByDepthThenPathThenFileThenLine(t *testing.T) {
	s := NewStore()
	s.Add(Finding{SourceFile: "z.c", Line: 1, ParentCallPath: callpath.Path{1}, StepIndex: 0})
	s.Add(Finding{SourceFile: "a.c", Line: 5, ParentCallPath: callpath.Root(), StepIndex: 0})
	s.Add(Finding{SourceFile: "a.c", Line: 1, ParentCallPath: callpath.Root(), StepIndex: 1})

	ordered := s.Ordered()
	require.Len(t, ordered, 3)
	assert.Equal(t, 0, len(ordered[0].ParentCallPath))
	assert.Equal(t, 1, ordered[0].Line)
	assert.Equal(t, 5, ordered[1].Line)
	assert.Equal(t, callpath.Path{1}, ordered[2].ParentCallPath)
}

func TestPagesGroupsByFileAndParentPath(t *testing.T) {
	s := NewStore()
	s.Add(Finding{SourceFile: "a.c", Line: 1, ParentCallPath: callpath.Root(), StepIndex: 0})
	s.Add(Finding{SourceFile: "a.c", Line: 2, ParentCallPath: callpath.Root(), StepIndex: 1})
	s.Add(Finding{SourceFile: "b.c", Line: 1, ParentCallPath: callpath.Path{0}, StepIndex: 0})

	pages := s.Pages()
	require.Len(t, pages, 2)
	assert.Equal(t, "a.c", pages[0].SourceFile)
	assert.Len(t, pages[0].Findings, 2)
	assert.Equal(t, "b.c", pages[1].SourceFile)
}

func TestEnsurePageSurvivesWithZeroFindings(t *testing.T) {
	s := NewStore()
	s.EnsurePage("main.c", callpath.Root())

	pages := s.Pages()
	require.Len(t, pages, 1)
	assert.Equal(t, "main.c", pages[0].SourceFile)
	assert.Empty(t, pages[0].Findings)
}

func TestMarkUnresolvedOnlyFirstTime(t *testing.T) {
	s := NewStore()
	assert.True(t, s.MarkUnresolved("missing.c"))
	assert.False(t, s.MarkUnresolved("missing.c"))
}

func TestFindingChildPathAndDelta(t *testing.T) {
	f := Finding{ParentCallPath: callpath.Path{1, 2}, StepIndex: 3, PrevMetric: 10, NewMetric: 40}
	assert.Equal(t, callpath.Path{1, 2, 3}, f.ChildPath())
	assert.Equal(t, int64(30), f.Delta())
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := NewStore()
	s.Add(Finding{SourceFile: "a.c", Line: 3, PrevMetric: 1, NewMetric: 9, ParentCallPath: callpath.Path{0}, StepIndex: 2})
	s.EnsurePage("a.c", callpath.Root())

	dir := t.TempDir() + "/raw.msgpack"
	require.NoError(t, WriteRawDataFile(dir, s))

	loaded, err := ReadRawDataFile(dir)
	require.NoError(t, err)

	assert.Equal(t, s.Len(), loaded.Len())
	assert.ElementsMatch(t, s.Pages(), loaded.Pages())
}
