// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askervin/gdbsearch/internal/probe"
)

func TestProbesCmdListsRegistry(t *testing.T) {
	cmd := newProbesCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	err := cmd.Execute()
	assert.NoError(t, err)

	for _, name := range probe.Names() {
		assert.Contains(t, buf.String(), name)
	}
}
