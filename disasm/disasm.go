// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a disassembler for the cpu package's
// instruction set.
package disasm

import (
	"fmt"
	"strings"

	"github.com/napobear/sixfive/cpu"
)

// modeFormat holds the operand format string for every addressing
// mode. "%s" stands for the mnemonic; the remaining verbs are filled
// in per mode by Disassemble.
var modeFormat = map[cpu.Mode]string{
	cpu.Imp:    "%s",
	cpu.Acc:    "%s",
	cpu.Imm:    "%s #$%02X",
	cpu.ZPage:  "%s $%02X",
	cpu.ZPageX: "%s $%02X,X",
	cpu.ZPageY: "%s $%02X,Y",
	cpu.Abs:    "%s $%04X",
	cpu.AbsX:   "%s $%04X,X",
	cpu.AbsY:   "%s $%04X,Y",
	cpu.IndX:   "%s ($%02X,X)",
	cpu.IndY:   "%s ($%02X),Y",
	cpu.Ind:    "%s ($%04X)",
	cpu.Jump:   "%s $%04X",
}

// Line is one disassembled instruction: its address, raw bytes, and
// formatted mnemonic/operand text.
type Line struct {
	Addr uint16
	Raw  []byte
	Text string
}

// byteReader is the minimal read-only view of memory the disassembler
// needs; cpu.Memory satisfies it.
type byteReader interface {
	LoadByte(addr int) byte
}

// Disassemble formats the single instruction found at addr and
// returns it as a Line; the next instruction starts at addr plus
// len(Line.Raw). An opcode with no
// catalogue entry is rendered as a one-byte ".BYTE" pseudo-op, per
// spec 4.2.
func Disassemble(mem byteReader, addr uint16) Line {
	opcode := mem.LoadByte(int(addr))
	inst := cpu.Lookup(opcode)
	if inst == nil {
		return Line{
			Addr: addr,
			Raw:  []byte{opcode},
			Text: fmt.Sprintf(".BYTE $%02X", opcode),
		}
	}

	raw := make([]byte, inst.Length)
	for i := range raw {
		raw[i] = mem.LoadByte(int(addr) + i)
	}

	var text string
	switch inst.Mode {
	case cpu.Imp, cpu.Acc:
		text = inst.Mnemonic.String()
	case cpu.Imm, cpu.ZPage, cpu.ZPageX, cpu.ZPageY, cpu.IndX, cpu.IndY:
		text = fmt.Sprintf(modeFormat[inst.Mode], inst.Mnemonic.String(), raw[1])
	case cpu.Abs, cpu.AbsX, cpu.AbsY, cpu.Ind, cpu.Jump:
		operand := uint16(raw[1]) | uint16(raw[2])<<8
		text = fmt.Sprintf(modeFormat[inst.Mode], inst.Mnemonic.String(), operand)
	case cpu.Branch:
		// Displayed relative to the address following the displacement
		// byte, the ordinary disassembly convention. This is distinct
		// from the simulator's own execution-time branch arithmetic,
		// which is relative to the displacement byte itself; see
		// DESIGN.md.
		nextPC := int(addr) + int(inst.Length)
		target := uint16(nextPC + int(int8(raw[1])))
		text = fmt.Sprintf("%s $%04X", inst.Mnemonic.String(), target)
	}

	return Line{Addr: addr, Raw: raw, Text: text}
}

// FormatLine renders a Line the way the command-line tool prints it:
// a 4-digit address, up to 3 space-padded hex byte columns, and the
// formatted instruction text (spec 4.2).
func FormatLine(l Line) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04X: ", l.Addr)
	for i := 0; i < 3; i++ {
		if i < len(l.Raw) {
			fmt.Fprintf(&b, "%02X ", l.Raw[i])
		} else {
			b.WriteString("   ")
		}
	}
	b.WriteString(" ")
	b.WriteString(l.Text)
	return b.String()
}

// DisassembleRange disassembles every instruction from addr up to (but
// not including) end, in program order.
func DisassembleRange(mem byteReader, addr, end uint16) []Line {
	var lines []Line
	for addr < end {
		l := Disassemble(mem, addr)
		lines = append(lines, l)
		addr += uint16(len(l.Raw))
	}
	return lines
}
