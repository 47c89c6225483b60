// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"

	"github.com/napobear/sixfive/cpu"
)

// operandShape is the syntactic form an operand was parsed in, before
// it has been matched against the instruction's available addressing
// modes (spec 4.1's operand table).
type operandShape struct {
	none    bool // no operand at all
	acc     bool // explicit "A"
	imm     bool // "#expr"
	indirect bool // "(expr)", "(expr,X)", or "(expr),Y"
	indexedX bool
	indexedY bool
	value   int
}

// parseOperand recognizes the syntactic shape of an instruction's
// operand and evaluates any expression it contains.
func (p *parser) parseOperand() (operandShape, error) {
	t, err := p.lx.peek()
	if err != nil {
		return operandShape{}, err
	}

	if t.kind == tEOL {
		return operandShape{none: true}, nil
	}

	if t.kind == tAREG {
		p.lx.next()
		return operandShape{acc: true}, nil
	}

	if t.kind == tHASH {
		p.lx.next()
		v, err := p.evalExpr()
		if err != nil {
			return operandShape{}, err
		}
		return operandShape{imm: true, value: v}, nil
	}

	if t.kind == tLPAREN {
		p.lx.next()
		v, err := p.evalExpr()
		if err != nil {
			return operandShape{}, err
		}
		next, err := p.lx.next()
		if err != nil {
			return operandShape{}, err
		}
		switch next.kind {
		case tCOMMA:
			xreg, err := p.lx.next()
			if err != nil {
				return operandShape{}, err
			}
			if xreg.kind != tXREG {
				return operandShape{}, p.errorf(xreg.line, "expected X register in indexed-indirect operand")
			}
			closeParen, err := p.lx.next()
			if err != nil {
				return operandShape{}, err
			}
			if closeParen.kind != tRPAREN {
				return operandShape{}, p.errorf(closeParen.line, "expected ')'")
			}
			return operandShape{indirect: true, indexedX: true, value: v}, nil
		case tRPAREN:
			after, err := p.lx.peek()
			if err != nil {
				return operandShape{}, err
			}
			if after.kind == tCOMMA {
				p.lx.next()
				yreg, err := p.lx.next()
				if err != nil {
					return operandShape{}, err
				}
				if yreg.kind != tYREG {
					return operandShape{}, p.errorf(yreg.line, "expected Y register in indirect-indexed operand")
				}
				return operandShape{indirect: true, indexedY: true, value: v}, nil
			}
			return operandShape{indirect: true, value: v}, nil
		default:
			return operandShape{}, p.errorf(next.line, "malformed indirect operand")
		}
	}

	v, err := p.evalExpr()
	if err != nil {
		return operandShape{}, err
	}
	shape := operandShape{value: v}
	next, err := p.lx.peek()
	if err != nil {
		return operandShape{}, err
	}
	if next.kind == tCOMMA {
		p.lx.next()
		reg, err := p.lx.next()
		if err != nil {
			return operandShape{}, err
		}
		switch reg.kind {
		case tXREG:
			shape.indexedX = true
		case tYREG:
			shape.indexedY = true
		default:
			return operandShape{}, p.errorf(reg.line, "expected X or Y register")
		}
	}
	return shape, nil
}

// resolveMode matches a parsed operand shape against the addressing
// modes an instruction supports, applying the mode-down-shift rule
// (ZPageX->AbsX, ZPageY->AbsY) described in spec 4.1.
func resolveMode(m cpu.Mnemonic, shape operandShape) (cpu.Mode, error) {
	variants := cpu.Variants(m)
	has := func(mode cpu.Mode) bool { _, ok := variants[mode]; return ok }

	switch {
	case shape.none:
		if has(cpu.Acc) && !has(cpu.Imp) {
			return cpu.Acc, nil
		}
		if has(cpu.Imp) {
			return cpu.Imp, nil
		}
		return 0, fmt.Errorf("instruction requires an operand")

	case shape.acc:
		if has(cpu.Acc) {
			return cpu.Acc, nil
		}
		return 0, fmt.Errorf("addressing mode not allowed for instruction")

	case shape.imm:
		if has(cpu.Imm) {
			return cpu.Imm, nil
		}
		return 0, fmt.Errorf("addressing mode not allowed for instruction")

	case shape.indirect && shape.indexedX:
		if has(cpu.IndX) {
			return cpu.IndX, nil
		}
		return 0, fmt.Errorf("addressing mode not allowed for instruction")

	case shape.indirect && shape.indexedY:
		if has(cpu.IndY) {
			return cpu.IndY, nil
		}
		return 0, fmt.Errorf("addressing mode not allowed for instruction")

	case shape.indirect:
		if has(cpu.Ind) {
			return cpu.Ind, nil
		}
		return 0, fmt.Errorf("addressing mode not allowed for instruction")

	default:
		if has(cpu.Jump) {
			return cpu.Jump, nil
		}
		zpage := shape.value >= 0 && shape.value <= 0xFF
		switch {
		case shape.indexedX:
			if zpage && has(cpu.ZPageX) {
				return cpu.ZPageX, nil
			}
			if has(cpu.AbsX) {
				return cpu.AbsX, nil
			}
			if has(cpu.ZPageX) {
				return cpu.ZPageX, nil
			}
		case shape.indexedY:
			if zpage && has(cpu.ZPageY) {
				return cpu.ZPageY, nil
			}
			if has(cpu.AbsY) {
				return cpu.AbsY, nil
			}
			if has(cpu.ZPageY) {
				return cpu.ZPageY, nil
			}
		default:
			if zpage && has(cpu.ZPage) {
				return cpu.ZPage, nil
			}
			if has(cpu.Abs) {
				return cpu.Abs, nil
			}
			if has(cpu.ZPage) {
				return cpu.ZPage, nil
			}
		}
		return 0, fmt.Errorf("addressing mode not allowed for instruction")
	}
}
