// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultExpression(t *testing.T) {
	pr := Default()
	assert.True(t, pr.Eval(101, 100))
	assert.False(t, pr.Eval(100, 100))
	assert.False(t, pr.Eval(99, 100))
}

func TestParseAndEval(t *testing.T) {
	cases := []struct {
		expr   string
		n, p   int64
		result bool
	}{
		{"n > p", 200, 100, true},
		{"n > p + 100000", 100001, 1, false},
		{"n > p + 100000", 100102, 1, true},
		{"n >= p", 100, 100, true},
		{"n <= p", 100, 100, true},
		{"n == p", 5, 5, true},
		{"n != p", 5, 6, true},
		{"n - p > 50", 151, 100, true},
		{"n - p > 50", 150, 100, false},
		{"n > (p + 1) * 2", 11, 4, true},
		{"n > -p", 10, -5, true},
	}
	for _, c := range cases {
		pr, err := Parse(c.expr)
		require.NoError(t, err, c.expr)
		assert.Equal(t, c.result, pr.Eval(c.n, c.p), "%s with n=%d p=%d", c.expr, c.n, c.p)
	}
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{
		"",
		"n >",
		"n > q",
		"n > p)",
		"(n > p",
		"n > p extra",
	} {
		_, err := Parse(expr)
		assert.Error(t, err, expr)
	}
}
