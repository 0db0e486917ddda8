// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package predicate parses the delta-predicate expression accepted by the
// -e flag into a small AST and evaluates it against the two free variables
// n (new measurement) and p (previous measurement).
//
// The grammar is intentionally tiny: numeric operators {+ - *} build up
// values from n, p and integer literals, and a single top-level comparison
// operator {< <= > >= == !=} reduces the expression to a boolean.
package predicate

import (
	"fmt"
	"strings"
	"text/scanner"
)

// Predicate is a parsed delta expression ready for repeated evaluation.
type Predicate struct {
	src string
	cmp *cmpNode
}

// Default is the predicate used when -e is not given: "n > p".
func Default() *Predicate {
	p, err := Parse("n > p")
	if err != nil {
		panic("predicate: default expression failed to parse: " + err.Error())
	}
	return p
}

// String returns the original source expression.
func (pr *Predicate) String() string { return pr.src }

// Eval reports whether the predicate holds for the given new/previous pair.
func (pr *Predicate) Eval(n, p int64) bool {
	return pr.cmp.eval(n, p)
}

// numNode is a numeric-valued AST node.
type numNode interface {
	eval(n, p int64) int64
}

type litNode int64

func (l litNode) eval(n, p int64) int64 { return int64(l) }

type varNode byte // 'n' or 'p'

func (v varNode) eval(n, p int64) int64 {
	if v == 'n' {
		return n
	}
	return p
}

type negNode struct{ x numNode }

func (e negNode) eval(n, p int64) int64 { return -e.x.eval(n, p) }

type binNode struct {
	op   byte // '+' '-' '*'
	l, r numNode
}

func (e binNode) eval(n, p int64) int64 {
	l, r := e.l.eval(n, p), e.r.eval(n, p)
	switch e.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	}
	panic("predicate: unreachable operator " + string(e.op))
}

// cmpNode is the sole boolean-valued node: a relational comparison of two
// numeric subtrees.
type cmpNode struct {
	op   string // "<" "<=" ">" ">=" "==" "!="
	l, r numNode
}

func (e *cmpNode) eval(n, p int64) bool {
	l, r := e.l.eval(n, p), e.r.eval(n, p)
	switch e.op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	case "==":
		return l == r
	case "!=":
		return l != r
	}
	panic("predicate: unreachable relational operator " + e.op)
}

// Parse compiles a delta-predicate expression such as "n > p + 100".
func Parse(expr string) (*Predicate, error) {
	ps := &exprParser{src: expr}
	ps.sc.Init(strings.NewReader(expr))
	ps.sc.Mode = scanner.ScanIdents | scanner.ScanInts
	ps.sc.Error = func(*scanner.Scanner, string) {} // errors surface via EOF/unexpected-token checks below
	ps.next()

	cmp, err := ps.parseComparison()
	if err != nil {
		return nil, fmt.Errorf("predicate: %q: %w", expr, err)
	}
	if ps.tok != scanner.EOF {
		return nil, fmt.Errorf("predicate: %q: unexpected trailing input %q", expr, ps.text)
	}
	return &Predicate{src: expr, cmp: cmp}, nil
}

type exprParser struct {
	src  string
	sc   scanner.Scanner
	tok  rune
	text string
}

func (p *exprParser) next() {
	p.tok = p.sc.Scan()
	p.text = p.sc.TokenText()
}

func (p *exprParser) parseComparison() (*cmpNode, error) {
	l, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	op, err := p.parseRelOp()
	if err != nil {
		return nil, err
	}
	r, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	return &cmpNode{op: op, l: l, r: r}, nil
}

func (p *exprParser) parseRelOp() (string, error) {
	switch p.tok {
	case '<':
		p.next()
		if p.tok == '=' {
			p.next()
			return "<=", nil
		}
		return "<", nil
	case '>':
		p.next()
		if p.tok == '=' {
			p.next()
			return ">=", nil
		}
		return ">", nil
	case '=':
		p.next()
		if p.tok != '=' {
			return "", fmt.Errorf("expected '==', got bare '='")
		}
		p.next()
		return "==", nil
	case '!':
		p.next()
		if p.tok != '=' {
			return "", fmt.Errorf("expected '!=', got bare '!'")
		}
		p.next()
		return "!=", nil
	}
	return "", fmt.Errorf("expected a comparison operator, got %q", p.text)
}

func (p *exprParser) parseSum() (numNode, error) {
	l, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok == '+' || p.tok == '-' {
		op := byte(p.tok)
		p.next()
		r, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		l = binNode{op: op, l: l, r: r}
	}
	return l, nil
}

func (p *exprParser) parseTerm() (numNode, error) {
	l, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.tok == '*' {
		p.next()
		r, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		l = binNode{op: '*', l: l, r: r}
	}
	return l, nil
}

func (p *exprParser) parseFactor() (numNode, error) {
	switch p.tok {
	case '-':
		p.next()
		x, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return negNode{x: x}, nil
	case '(':
		p.next()
		x, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.tok != ')' {
			return nil, fmt.Errorf("expected ')', got %q", p.text)
		}
		p.next()
		return x, nil
	case scanner.Ident:
		switch p.text {
		case "n", "p":
			v := varNode(p.text[0])
			p.next()
			return v, nil
		default:
			return nil, fmt.Errorf("unknown identifier %q (only n and p are defined)", p.text)
		}
	case scanner.Int:
		var v int64
		if _, err := fmt.Sscanf(p.text, "%d", &v); err != nil {
			return nil, fmt.Errorf("bad integer literal %q", p.text)
		}
		p.next()
		return litNode(v), nil
	}
	return nil, fmt.Errorf("unexpected token %q", p.text)
}
