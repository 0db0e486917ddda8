// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package source resolves bare filenames reported by the debugger into
// readable paths on the local filesystem, searching a configured list of
// directories and caching both positive and negative results.
package source

import (
	"os"
	"path/filepath"
	"sync"
)

// Resolver maps bare filenames to readable paths.
//
// A Resolver is safe for concurrent use, though the rest of this system is
// single-threaded; callers such as the renderer, which re-resolves files
// across many pages, still benefit from the cache.
type Resolver struct {
	dirs []string

	mu    sync.Mutex
	cache map[string]string // bareName -> resolved path; absent key = not yet looked up
	miss  map[string]bool   // bareName -> true once resolution has failed
}

// New creates a Resolver that searches dirs, in order, when a bare filename
// is not directly readable.
func New(dirs []string) *Resolver {
	return &Resolver{
		dirs:  append([]string(nil), dirs...),
		cache: make(map[string]string),
		miss:  make(map[string]bool),
	}
}

// Resolve returns the readable path for bareName, or ok=false if no
// readable file could be found. Once a name is marked unresolved it is
// never reconsidered.
func (r *Resolver) Resolve(bareName string) (path string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, found := r.cache[bareName]; found {
		return p, true
	}
	if r.miss[bareName] {
		return "", false
	}

	if isReadable(bareName) {
		r.cache[bareName] = bareName
		return bareName, true
	}
	for _, dir := range r.dirs {
		candidate := filepath.Join(dir, bareName)
		if isReadable(candidate) {
			r.cache[bareName] = candidate
			return candidate, true
		}
	}
	r.miss[bareName] = true
	return "", false
}

// Unresolved reports the set of bare filenames that have failed to
// resolve so far, sorted by first-seen order is not guaranteed; callers
// that need the set for "log once per filename" behavior should track
// membership with this, not rely on iteration order.
func (r *Resolver) Unresolved() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.miss))
	for n := range r.miss {
		names = append(names, n)
	}
	return names
}

func isReadable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
