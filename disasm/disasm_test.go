// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disasm

import (
	"strings"
	"testing"
)

// testMem is a code image whose first byte sits at testBase.
type testMem []byte

const testBase = 0x0200

func (m testMem) LoadByte(addr int) byte { return m[addr-testBase] }

func TestDisassembleImmediate(t *testing.T) {
	mem := testMem{0xA9, 0x05}
	l := Disassemble(mem, 0x0200)
	if l.Text != "LDA #$05" {
		t.Errorf("Text = %q, want %q", l.Text, "LDA #$05")
	}
	if len(l.Raw) != 2 {
		t.Errorf("len(Raw) = %d, want 2", len(l.Raw))
	}
}

func TestDisassembleAbsolute(t *testing.T) {
	mem := testMem{0x4C, 0x00, 0x10}
	l := Disassemble(mem, 0x0200)
	if l.Text != "JMP $1000" {
		t.Errorf("Text = %q, want %q", l.Text, "JMP $1000")
	}
}

func TestDisassembleIndirectX(t *testing.T) {
	mem := testMem{0xA1, 0x10}
	l := Disassemble(mem, 0x0200)
	if l.Text != "LDA ($10,X)" {
		t.Errorf("Text = %q, want %q", l.Text, "LDA ($10,X)")
	}
}

func TestDisassembleIndirectY(t *testing.T) {
	mem := testMem{0x91, 0x20}
	l := Disassemble(mem, 0x0200)
	if l.Text != "STA ($20),Y" {
		t.Errorf("Text = %q, want %q", l.Text, "STA ($20),Y")
	}
}

// Branch target display is relative to the address after the
// displacement byte, not the simulator's own execution-time base.
func TestDisassembleBranchForward(t *testing.T) {
	mem := testMem{0xF0, 0x05}
	l := Disassemble(mem, 0x0200)
	if l.Text != "BEQ $0207" {
		t.Errorf("Text = %q, want %q", l.Text, "BEQ $0207")
	}
}

func TestDisassembleBranchBackward(t *testing.T) {
	mem := testMem{0xEA, 0xD0, 0xFE} // NOP at $0200, BNE at $0201
	l := Disassemble(mem, 0x0201)
	if l.Text != "BNE $0201" {
		t.Errorf("Text = %q, want %q", l.Text, "BNE $0201")
	}
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	mem := testMem{0x02}
	l := Disassemble(mem, 0x0200)
	if l.Text != ".BYTE $02" {
		t.Errorf("Text = %q, want %q", l.Text, ".BYTE $02")
	}
	if len(l.Raw) != 1 {
		t.Errorf("len(Raw) = %d, want 1", len(l.Raw))
	}
}

func TestDisassembleAccumulator(t *testing.T) {
	mem := testMem{0x0A}
	l := Disassemble(mem, 0x0200)
	if l.Text != "ASL" {
		t.Errorf("Text = %q, want %q", l.Text, "ASL")
	}
}

func TestFormatLinePadsMissingBytes(t *testing.T) {
	l := Disassemble(testMem{0xEA}, 0x0200)
	out := FormatLine(l)
	if !strings.HasPrefix(out, "0200: EA    ") {
		t.Errorf("FormatLine = %q, want a prefix of %q", out, "0200: EA    ")
	}
	if !strings.Contains(out, "NOP") {
		t.Errorf("FormatLine = %q, missing mnemonic", out)
	}
}

func TestDisassembleRange(t *testing.T) {
	mem := testMem{0xA9, 0x01, 0x85, 0x10, 0x00}
	lines := DisassembleRange(mem, 0x0200, 0x0205)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	if lines[0].Text != "LDA #$01" || lines[1].Text != "STA $10" || lines[2].Text != "BRK" {
		t.Errorf("unexpected lines: %+v", lines)
	}
}
