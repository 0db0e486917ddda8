// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askervin/gdbsearch/internal/callpath"
)

func TestRenderWritesRootPageAndChildLink(t *testing.T) {
	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "main.c")
	require.NoError(t, os.WriteFile(srcPath, []byte("int main() {\n  foo();\n  return 0;\n}\n"), 0o644))

	s := NewStore()
	s.Add(Finding{
		SourceFile:     "main.c",
		Line:           2,
		PrevMetric:     0,
		NewMetric:      100,
		ParentCallPath: callpath.Root(),
		StepIndex:      1,
	})

	outDir := t.TempDir()
	r := NewRenderer(outDir, func(name string) (string, bool) {
		if name == "main.c" {
			return srcPath, true
		}
		return "", false
	})
	require.NoError(t, r.Render(s))

	rootPage, err := os.ReadFile(filepath.Join(outDir, "gdbsearch.html"))
	require.NoError(t, err)
	content := string(rootPage)
	assert.Contains(t, content, "foo();")
	assert.Contains(t, content, `href="gdbsearch1.html"`)
	assert.Contains(t, content, "#########################") // full bar: only finding on the page
}

func TestRenderSkipsUnresolvedSource(t *testing.T) {
	s := NewStore()
	s.Add(Finding{SourceFile: "missing.c", Line: 1, ParentCallPath: callpath.Root(), StepIndex: 0})

	outDir := t.TempDir()
	r := NewRenderer(outDir, func(string) (string, bool) { return "", false })
	require.NoError(t, r.Render(s))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRenderEmptyPageHasNoAnchors(t *testing.T) {
	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "noop.c")
	require.NoError(t, os.WriteFile(srcPath, []byte("int main() { return 0; }\n"), 0o644))

	s := NewStore()
	s.EnsurePage("noop.c", callpath.Root())

	outDir := t.TempDir()
	r := NewRenderer(outDir, func(string) (string, bool) { return srcPath, true })
	require.NoError(t, r.Render(s))

	page, err := os.ReadFile(filepath.Join(outDir, "gdbsearch.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(page), `<a id="f`)
}
