// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report implements the ReportStore: aggregation of Findings
// keyed by (sourceFile, parentCallPath), raw-data persistence for the
// -d/-l CLI flags, and the hyperlinked HTML renderer.
package report

import (
	"sort"
	"sync"

	"github.com/askervin/gdbsearch/internal/callpath"
)

// Finding is one recorded delta: a line whose measurement changed enough
// to satisfy the search's delta predicate.
type Finding struct {
	SourceFile     string
	Line           int
	PrevMetric     int64
	NewMetric      int64
	ParentCallPath callpath.Path
	StepIndex      int
}

// Delta is the magnitude the renderer's score bars are proportional to.
func (f Finding) Delta() int64 { return f.NewMetric - f.PrevMetric }

// ChildPath is the call path reached by descending from this finding's
// line: ParentCallPath with StepIndex appended.
func (f Finding) ChildPath() callpath.Path { return f.ParentCallPath.Append(f.StepIndex) }

// Store is the FindingIndex: Findings grouped by source file, and a
// depth-ordered sequence used by the renderer to emit one page per
// (sourceFile, parentCallPath). Safe for concurrent use, though the search
// driver itself is single-threaded.
type Store struct {
	mu         sync.Mutex
	byFile     map[string][]Finding
	ordered    []Finding // append order; Ordered() returns a sorted copy
	unresolved map[string]bool
	emptyPages map[emptyPageKey]Page
}

type emptyPageKey struct {
	file   string
	parent string
}

// NewStore creates an empty FindingIndex.
func NewStore() *Store {
	return &Store{
		byFile:     make(map[string][]Finding),
		unresolved: make(map[string]bool),
		emptyPages: make(map[emptyPageKey]Page),
	}
}

// EnsurePage guarantees that a (sourceFile, parentCallPath) page is
// rendered even if it ends up with zero Findings, so a search that finds
// nothing still produces a root page.
func (s *Store) EnsurePage(sourceFile string, parent callpath.Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := emptyPageKey{file: sourceFile, parent: parent.Encode()}
	s.emptyPages[key] = Page{SourceFile: sourceFile, ParentCallPath: parent}
}

// Add records a Finding. Findings are append-only.
func (s *Store) Add(f Finding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byFile[f.SourceFile] = append(s.byFile[f.SourceFile], f)
	s.ordered = append(s.ordered, f)
}

// MarkUnresolved records that sourceFile could not be located by the
// SourceResolver, so the driver logs it at most once.
func (s *Store) MarkUnresolved(sourceFile string) (firstTime bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unresolved[sourceFile] {
		return false
	}
	s.unresolved[sourceFile] = true
	return true
}

// Files returns every source file with at least one Finding.
func (s *Store) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	files := make([]string, 0, len(s.byFile))
	for f := range s.byFile {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// FindingsForFile returns every Finding recorded against sourceFile, in
// append order.
func (s *Store) FindingsForFile(sourceFile string) []Finding {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Finding, len(s.byFile[sourceFile]))
	copy(out, s.byFile[sourceFile])
	return out
}

// EmptyPageList returns every page registered via EnsurePage, regardless
// of whether it ended up with any Findings. Used by raw-data persistence
// so a page with zero findings (e.g. a no-op root page) survives a
// -d / -l round trip.
func (s *Store) EmptyPageList() []Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Page, 0, len(s.emptyPages))
	for _, p := range s.emptyPages {
		out = append(out, p)
	}
	return out
}

// Len reports the total number of recorded findings.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ordered)
}

// Ordered returns every Finding sorted by (depth, parentCallPath,
// sourceFile, lineNumber), the order the renderer walks in.
func (s *Store) Ordered() []Finding {
	s.mu.Lock()
	out := make([]Finding, len(s.ordered))
	copy(out, s.ordered)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if len(a.ParentCallPath) != len(b.ParentCallPath) {
			return len(a.ParentCallPath) < len(b.ParentCallPath)
		}
		if c := comparePaths(a.ParentCallPath, b.ParentCallPath); c != 0 {
			return c < 0
		}
		if a.SourceFile != b.SourceFile {
			return a.SourceFile < b.SourceFile
		}
		return a.Line < b.Line
	})
	return out
}

// Pages groups the ordered findings by (SourceFile, ParentCallPath),
// preserving the (depth, parentCallPath, sourceFile, lineNumber) order,
// and includes every page registered via EnsurePage even if it has zero
// Findings.
func (s *Store) Pages() []Page {
	ordered := s.Ordered()
	byKey := make(map[emptyPageKey]*Page)
	var pages []*Page

	pageFor := func(file string, parent callpath.Path) *Page {
		key := emptyPageKey{file: file, parent: parent.Encode()}
		if p, ok := byKey[key]; ok {
			return p
		}
		p := &Page{SourceFile: file, ParentCallPath: parent}
		pages = append(pages, p)
		byKey[key] = p
		return p
	}

	s.mu.Lock()
	empty := make([]Page, 0, len(s.emptyPages))
	for _, p := range s.emptyPages {
		empty = append(empty, p)
	}
	s.mu.Unlock()
	sort.Slice(empty, func(i, j int) bool {
		if empty[i].SourceFile != empty[j].SourceFile {
			return empty[i].SourceFile < empty[j].SourceFile
		}
		return empty[i].ParentCallPath.Encode() < empty[j].ParentCallPath.Encode()
	})
	for _, p := range empty {
		pageFor(p.SourceFile, p.ParentCallPath)
	}

	for _, f := range ordered {
		p := pageFor(f.SourceFile, f.ParentCallPath)
		p.Findings = append(p.Findings, f)
	}

	out := make([]Page, len(pages))
	for i, p := range pages {
		out[i] = *p
	}
	return out
}

// Page is one (sourceFile, parentCallPath) group of Findings: the unit the
// HTML renderer turns into a single page.
type Page struct {
	SourceFile     string
	ParentCallPath callpath.Path
	Findings       []Finding
}

func comparePaths(a, b callpath.Path) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
