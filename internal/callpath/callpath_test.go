// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package callpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAndPageFilename(t *testing.T) {
	assert.Equal(t, "", Root().Encode())
	assert.Equal(t, "gdbsearch.html", Root().PageFilename())

	p := Path{2, 0, 1}
	assert.Equal(t, "2-0-1", p.Encode())
	assert.Equal(t, "gdbsearch2-0-1.html", p.PageFilename())
}

func TestEncodeBijection(t *testing.T) {
	paths := []Path{Root(), {0}, {1}, {0, 0}, {0, 1}, {1, 0}, {2, 0, 1}}
	seen := map[string]bool{}
	for _, p := range paths {
		f := p.PageFilename()
		assert.False(t, seen[f], "collision for %v -> %s", p, f)
		seen[f] = true
	}
}

func TestAppendDoesNotMutateReceiver(t *testing.T) {
	base := Path{1, 2}
	child := base.Append(3)
	assert.Equal(t, Path{1, 2}, base)
	assert.Equal(t, Path{1, 2, 3}, child)
}

func TestParseInitialPathsDefault(t *testing.T) {
	paths, err := ParseInitialPaths("")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.True(t, paths[0].Equal(Root()))
}

func TestParseInitialPaths(t *testing.T) {
	paths, err := ParseInitialPaths("[[2],[0,1]]")
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, Path{2}, paths[0])
	assert.Equal(t, Path{0, 1}, paths[1])
}

func TestParseInitialPathsRejectsNegative(t *testing.T) {
	_, err := ParseInitialPaths("[[-1]]")
	assert.Error(t, err)
}

func TestParseInitialPathsRejectsGarbage(t *testing.T) {
	_, err := ParseInitialPaths("not json")
	assert.Error(t, err)
}
