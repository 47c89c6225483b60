// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "fmt"

// placeholderValue is substituted for an undefined label during pass
// 1, forcing any addressing-mode size decision that depends on it to
// pick the wider (non-zero-page) form, since 0x100 exceeds a byte.
const placeholderValue = 0x100

// eval evaluates the grammar:
//
//	expr   := term (('+'|'-') term)*
//	term   := factor ('*' factor)*
//	factor := '<' factor | '>' factor | '[' expr ']' | '-' primary | '+' primary | primary
//	primary:= '*' | INT | STRING(len 1) | LABEL
func (p *parser) evalExpr() (int, error) {
	v, err := p.evalTerm()
	if err != nil {
		return 0, err
	}
	for {
		t, err := p.lx.peek()
		if err != nil {
			return 0, err
		}
		switch t.kind {
		case tPLUS:
			p.lx.next()
			rhs, err := p.evalTerm()
			if err != nil {
				return 0, err
			}
			v += rhs
		case tMINUS:
			p.lx.next()
			rhs, err := p.evalTerm()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

func (p *parser) evalTerm() (int, error) {
	v, err := p.evalFactor()
	if err != nil {
		return 0, err
	}
	for {
		t, err := p.lx.peek()
		if err != nil {
			return 0, err
		}
		if t.kind != tSTAR {
			return v, nil
		}
		p.lx.next()
		rhs, err := p.evalFactor()
		if err != nil {
			return 0, err
		}
		v *= rhs
	}
}

func (p *parser) evalFactor() (int, error) {
	t, err := p.lx.peek()
	if err != nil {
		return 0, err
	}
	switch t.kind {
	case tLARROW:
		p.lx.next()
		v, err := p.evalFactor()
		if err != nil {
			return 0, err
		}
		return v & 0xFF, nil
	case tRARROW:
		p.lx.next()
		v, err := p.evalFactor()
		if err != nil {
			return 0, err
		}
		return (v >> 8) & 0xFF, nil
	case tLSQUARE:
		p.lx.next()
		v, err := p.evalExpr()
		if err != nil {
			return 0, err
		}
		close, err := p.lx.next()
		if err != nil {
			return 0, err
		}
		if close.kind != tRSQUARE {
			return 0, p.errorf(close.line, "expected ']'")
		}
		return v, nil
	case tMINUS:
		p.lx.next()
		v, err := p.evalPrimary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	case tPLUS:
		p.lx.next()
		return p.evalPrimary()
	default:
		return p.evalPrimary()
	}
}

func (p *parser) evalPrimary() (int, error) {
	t, err := p.lx.next()
	if err != nil {
		return 0, err
	}
	switch t.kind {
	case tSTAR:
		return p.pc, nil
	case tINT:
		return t.ival, nil
	case tSTRING:
		if len(t.str) != 1 {
			return 0, p.errorf(t.line, "string literal in expression must have length 1")
		}
		return int(t.str[0]), nil
	case tLABEL:
		return p.lookupSymbol(t.str, t.line)
	default:
		return 0, p.errorf(t.line, fmt.Sprintf("unexpected token in expression"))
	}
}

// lookupSymbol resolves a label used inside an expression, applying
// the pass-1 placeholder/suppression rule (spec 4.1).
func (p *parser) lookupSymbol(name string, line int) (int, error) {
	if v, ok := p.symbols[name]; ok {
		return v, nil
	}
	if p.pass1 {
		return placeholderValue, nil
	}
	return 0, p.errorf(line, fmt.Sprintf("undefined label %q", name))
}
