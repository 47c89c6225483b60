// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements the two-pass assembler: it translates source
// text into a byte stream the cpu package can load and execute.
package asm

import (
	"fmt"
	"io"
	"os"

	"github.com/napobear/sixfive/cpu"
)

// AsmError is a single diagnostic produced during pass 2.
type AsmError struct {
	File string
	Line int
	Msg  string
}

func (e *AsmError) Error() string {
	return fmt.Sprintf("%s (%d): error: %s", e.File, e.Line, e.Msg)
}

// Result is the output of a completed assembly.
type Result struct {
	Code   []byte
	Origin int
	Errors []*AsmError
}

// parser holds the state threaded through a single pass over the
// source: the lexer, the label table being built or consulted, and
// the running address counter used for '*' and label definitions.
type parser struct {
	lx      *lexer
	file    string
	pass1   bool
	symbols map[string]int
	pc      int
	errs    []*AsmError
	log     func(string)
}

func (p *parser) errorf(line int, msg string) error {
	e := &AsmError{File: p.file, Line: line, Msg: msg}
	if !p.pass1 {
		p.errs = append(p.errs, e)
	}
	return e
}

// wrap converts any error surfaced mid-statement (including a raw
// lexer error) into a recorded AsmError.
func (p *parser) wrap(err error) error {
	if _, ok := err.(*AsmError); ok {
		return err
	}
	if el, ok := err.(*errLex); ok {
		return p.errorf(el.line, el.msg)
	}
	return p.errorf(p.lx.lineNum, err.Error())
}

func (p *parser) expectEOL() error {
	t, err := p.lx.next()
	if err != nil {
		return p.wrap(err)
	}
	if t.kind != tEOL && t.kind != tEOF {
		return p.errorf(t.line, "unexpected trailing tokens")
	}
	return nil
}

func (p *parser) skipToEOL() {
	for {
		t, err := p.lx.next()
		if err != nil {
			continue
		}
		if t.kind == tEOL || t.kind == tEOF {
			return
		}
	}
}

// parseLine parses and assembles exactly one source line, returning
// the bytes it emits (nil for label-only or directive-only lines).
func (p *parser) parseLine() ([]byte, error) {
	t, err := p.lx.peek()
	if err != nil {
		return nil, p.wrap(err)
	}

	if t.kind == tEOL {
		p.lx.next()
		return nil, nil
	}

	if t.kind == tSTAR {
		p.lx.next()
		p.skipToEOL()
		return nil, nil
	}

	if t.kind == tLABEL {
		p.lx.next()
		name := t.str
		nt, err := p.lx.peek()
		if err != nil {
			return nil, p.wrap(err)
		}
		switch nt.kind {
		case tEQU:
			p.lx.next()
			v, err := p.evalExpr()
			if err != nil {
				return nil, p.wrap(err)
			}
			p.symbols[name] = v
			if err := p.expectEOL(); err != nil {
				return nil, err
			}
			return nil, nil
		case tCOLON:
			p.lx.next()
			p.symbols[name] = p.pc
		default:
			p.symbols[name] = p.pc
		}
		return p.parseMnemonicPart()
	}

	if t.kind == tMNEMONIC {
		return p.parseMnemonicPart()
	}

	return nil, p.wrap(p.errorf(t.line, "expected a label or mnemonic"))
}

func (p *parser) parseMnemonicPart() ([]byte, error) {
	t, err := p.lx.peek()
	if err != nil {
		return nil, p.wrap(err)
	}
	if t.kind == tEOL || t.kind == tEOF {
		return nil, nil
	}
	if t.kind != tMNEMONIC {
		return nil, p.wrap(p.errorf(t.line, "expected a mnemonic"))
	}
	p.lx.next()

	if pseudo := lookupPseudo(t.str); pseudo != pseudoNone {
		code, err := p.parsePseudo(pseudo, t.line)
		if err != nil {
			return code, err
		}
		return code, p.expectEOL()
	}

	m, _ := cpu.LookupMnemonic(t.str)
	code, err := p.assembleInstruction(m, t.line)
	if err != nil {
		return code, err
	}
	return code, p.expectEOL()
}

func (p *parser) parsePseudo(op pseudoOp, line int) ([]byte, error) {
	var out []byte
	for {
		t, err := p.lx.peek()
		if err != nil {
			return out, p.wrap(err)
		}
		if t.kind == tSTRING {
			p.lx.next()
			for i := 0; i < len(t.str); i++ {
				if op == pseudoByte {
					out = append(out, t.str[i])
				} else {
					out = append(out, t.str[i], 0)
				}
			}
		} else {
			v, err := p.evalExpr()
			if err != nil {
				return out, p.wrap(err)
			}
			if op == pseudoByte {
				if v < -128 || v > 255 {
					return out, p.errorf(line, "value out of range for .BYTE")
				}
				out = append(out, byte(v&0xFF))
			} else {
				if v < 0 || v > 0xFFFF {
					return out, p.errorf(line, "value out of range for .WORD")
				}
				out = append(out, byte(v&0xFF), byte((v>>8)&0xFF))
			}
		}
		nt, err := p.lx.peek()
		if err != nil {
			return out, p.wrap(err)
		}
		if nt.kind != tCOMMA {
			return out, nil
		}
		p.lx.next()
	}
}

var branchMnemonics = map[cpu.Mnemonic]bool{
	cpu.BCC: true, cpu.BCS: true, cpu.BEQ: true, cpu.BMI: true,
	cpu.BNE: true, cpu.BPL: true, cpu.BVC: true, cpu.BVS: true,
}

func (p *parser) assembleInstruction(m cpu.Mnemonic, line int) ([]byte, error) {
	if branchMnemonics[m] {
		return p.assembleBranch(m, line)
	}

	shape, err := p.parseOperand()
	if err != nil {
		return nil, p.wrap(err)
	}
	mode, err := resolveMode(m, shape)
	if err != nil {
		return nil, p.errorf(line, err.Error())
	}
	inst := cpu.LookupVariant(m, mode)
	if inst == nil {
		return nil, p.errorf(line, "addressing mode not allowed for instruction")
	}

	switch mode {
	case cpu.Imp, cpu.Acc:
		return []byte{inst.Opcode}, nil
	case cpu.Abs, cpu.AbsX, cpu.AbsY, cpu.Jump, cpu.Ind:
		if shape.value < 0 || shape.value > 0xFFFF {
			return nil, p.errorf(line, "address out of range")
		}
		return []byte{inst.Opcode, byte(shape.value & 0xFF), byte((shape.value >> 8) & 0xFF)}, nil
	default: // Imm, ZPage, ZPageX, ZPageY, IndX, IndY
		if shape.value < -128 || shape.value > 255 {
			return nil, p.errorf(line, "value out of range")
		}
		return []byte{inst.Opcode, byte(shape.value & 0xFF)}, nil
	}
}

// assembleBranch implements the branch-operand grammar of spec 4.1:
// a bare INT is an already-resolved displacement, a LABEL is a target
// address from which a displacement relative to the displacement
// byte's own address is computed and truncated to 8 bits.
func (p *parser) assembleBranch(m cpu.Mnemonic, line int) ([]byte, error) {
	inst := cpu.LookupVariant(m, cpu.Branch)
	t, err := p.lx.next()
	if err != nil {
		return nil, p.wrap(err)
	}
	var disp byte
	switch t.kind {
	case tINT:
		if t.ival < -128 || t.ival > 255 {
			return nil, p.errorf(line, "branch displacement out of range")
		}
		disp = byte(t.ival & 0xFF)
	case tLABEL:
		target, err := p.lookupSymbol(t.str, t.line)
		if err != nil {
			return nil, p.wrap(err)
		}
		dispByteAddr := p.pc + 1
		disp = byte((target - dispByteAddr) & 0xFF)
	default:
		return nil, p.errorf(t.line, "branch operand must be an integer or a label")
	}
	return []byte{inst.Opcode, disp}, nil
}

// runPass executes one full pass over source, returning the bytes
// emitted (meaningful only for pass 2; pass 1 discards them).
func runPass(p *parser, source string, origin int) []byte {
	p.lx = newLexer(source)
	p.pc = origin
	var code []byte
	for {
		t, err := p.lx.peek()
		if err != nil {
			p.wrap(err)
			p.skipToEOL()
			continue
		}
		if t.kind == tEOF {
			return code
		}
		startLine := t.line
		bytes, err := p.parseLine()
		if err != nil {
			p.skipToEOL()
			if p.log != nil {
				p.log(fmt.Sprintf("line %d: %v", startLine, err))
			}
			continue
		}
		code = append(code, bytes...)
		p.pc += len(bytes)
	}
}

// Assemble reads 6502 assembly source from r and translates it into a
// byte stream, starting at the given origin. Diagnostics are
// accumulated in the returned Result rather than returned as an error;
// the only error Assemble itself returns is an I/O failure reading r.
// When verbose is true, pass-level progress is written to stdout, in
// the style of the reference command-line tool's status banners.
func Assemble(r io.Reader, filename string, origin int, verbose bool) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	source := string(data)

	var logf func(string)
	if verbose {
		logf = func(msg string) { fmt.Fprintln(os.Stdout, msg) }
	}

	symbols := make(map[string]int)

	if logf != nil {
		logf(fmt.Sprintf("assembling %s, pass 1", filename))
	}
	pass1 := &parser{file: filename, pass1: true, symbols: symbols}
	runPass(pass1, source, origin)

	if logf != nil {
		logf(fmt.Sprintf("assembling %s, pass 2", filename))
	}
	pass2 := &parser{file: filename, pass1: false, symbols: symbols, log: logf}
	code := runPass(pass2, source, origin)

	return &Result{Code: code, Origin: origin, Errors: pass2.errs}, nil
}
