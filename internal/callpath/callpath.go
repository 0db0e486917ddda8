// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package callpath implements CallPath, the key of exploration for the
// search driver: an ordered sequence of non-negative integers addressing a
// function frame reached by alternating line-steps and step-intos from the
// program entry.
package callpath

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Path is an immutable call path. The empty Path denotes the program entry
// function.
type Path []int

// Root is the path to the program entry function.
func Root() Path { return nil }

// Append returns a new path with step appended, leaving p unmodified.
func (p Path) Append(step int) Path {
	next := make(Path, len(p)+1)
	copy(next, p)
	next[len(p)] = step
	return next
}

// String renders the path the way Python's list repr would, for logging.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Encode produces the page-name fragment for this path: elements joined
// with '-', any nested subpaths joined with '.', brackets and whitespace
// stripped. The root path encodes to the empty string.
func (p Path) Encode() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "-")
}

// PageFilename returns the HTML filename for this path: "gdbsearch.html"
// for the root path, "gdbsearch<encoded>.html" otherwise.
func (p Path) PageFilename() string {
	return "gdbsearch" + p.Encode() + ".html"
}

// Equal reports whether p and q denote the same path.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// ParseInitialPaths parses the CLI's initialPaths literal: a JSON-syntax
// list of lists of non-negative integers, e.g. "[[2],[0,1]]". This is a
// strict superset of the original tool's Python-literal syntax for this
// particular shape (both are just nested integer lists).
func ParseInitialPaths(literal string) ([]Path, error) {
	literal = strings.TrimSpace(literal)
	if literal == "" {
		return []Path{Root()}, nil
	}
	var raw [][]int
	if err := json.Unmarshal([]byte(literal), &raw); err != nil {
		return nil, fmt.Errorf("callpath: invalid initial paths %q: %w", literal, err)
	}
	paths := make([]Path, len(raw))
	for i, r := range raw {
		for _, v := range r {
			if v < 0 {
				return nil, fmt.Errorf("callpath: negative step index in %q", literal)
			}
		}
		paths[i] = Path(r)
	}
	return paths, nil
}
