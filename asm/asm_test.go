// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"strings"
	"testing"

	"github.com/napobear/sixfive/cpu"
)

func assembleString(t *testing.T, src string) *Result {
	t.Helper()
	r, err := Assemble(strings.NewReader(src), "test.asm", 0x0200, false)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return r
}

func expectCode(t *testing.T, r *Result, want ...byte) {
	t.Helper()
	if len(r.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
	if len(r.Code) != len(want) {
		t.Fatalf("code length = %d, want %d (code=% X, want=% X)", len(r.Code), len(want), r.Code, want)
	}
	for i := range want {
		if r.Code[i] != want[i] {
			t.Fatalf("code[%d] = %02X, want %02X (code=% X, want=% X)", i, r.Code[i], want[i], r.Code, want)
		}
	}
}

// Scenario 1: LDA #$05 ; STA $10 ; BRK
func TestAssembleStoreAccumulator(t *testing.T) {
	r := assembleString(t, "LDA #$05\nSTA $10\nBRK\n")
	expectCode(t, r, 0xA9, 0x05, 0x85, 0x10, 0x00)
}

// Scenario 2: LDX #$03 ; loop: DEX ; BNE loop ; BRK
// The displacement byte sits at $0204 and loop is $0202, so it is
// $0202 - $0204 = -2 = 0xFE (relative to the displacement byte itself,
// not the canonical next-instruction-relative 0xFD).
func TestAssembleCountdownLoop(t *testing.T) {
	r := assembleString(t, "LDX #$03\nloop: DEX\nBNE loop\nBRK\n")
	expectCode(t, r, 0xA2, 0x03, 0xCA, 0xD0, 0xFE, 0x00)
}

// Scenario 6: .BYTE "Hi",0
func TestAssembleByteStringLiteral(t *testing.T) {
	r := assembleString(t, `.BYTE "Hi",0`+"\n")
	expectCode(t, r, 0x48, 0x69, 0x00)
}

func TestAssembleWordLiteral(t *testing.T) {
	r := assembleString(t, ".WORD $1234\n")
	expectCode(t, r, 0x34, 0x12)
}

func TestAssembleForwardLabelReference(t *testing.T) {
	src := "JMP skip\nBRK\nskip: BRK\n"
	r := assembleString(t, src)
	expectCode(t, r, 0x4C, 0x04, 0x02, 0x00, 0x00)
}

func TestAssembleExplicitLabelAssignment(t *testing.T) {
	src := "val = $42\nLDA #val\n"
	r := assembleString(t, src)
	expectCode(t, r, 0xA9, 0x42)
}

// An indexed operand whose value exceeds $FF selects the absolute
// indexed form (LDA $1000,Y -> AbsY).
func TestAssembleAbsoluteIndexedSelection(t *testing.T) {
	src := "LDA $1000,Y\n"
	r := assembleString(t, src)
	expectCode(t, r, 0xB9, 0x00, 0x10)
}

func TestAssembleZeroPageIndexedSelection(t *testing.T) {
	src := "LDA $10,X\n"
	r := assembleString(t, src)
	expectCode(t, r, 0xB5, 0x10)
}

func TestAssembleIndirectXAndY(t *testing.T) {
	src := "LDA ($10,X)\nSTA ($20),Y\n"
	r := assembleString(t, src)
	expectCode(t, r, 0xA1, 0x10, 0x91, 0x20)
}

func TestAssembleAccumulatorShift(t *testing.T) {
	src := "ASL\nASL A\n"
	r := assembleString(t, src)
	expectCode(t, r, 0x0A, 0x0A)
}

// Backward branch: displacement relative to the displacement byte's
// own address (spec 4.1/9, a deliberate deviation from canonical
// branch arithmetic).
func TestAssembleBackwardBranchDisplacement(t *testing.T) {
	src := "loop: NOP\nBNE loop\n"
	r := assembleString(t, src)
	// NOP at $0200; BNE opcode at $0201, displacement byte at $0202.
	// disp = loop($0200) - $0202 = -2 = 0xFE.
	expectCode(t, r, 0xEA, 0xD0, 0xFE)
}

func TestAssembleBranchWithIntegerOperand(t *testing.T) {
	src := "BEQ $7F\n"
	r := assembleString(t, src)
	expectCode(t, r, 0xF0, 0x7F)
}

func TestAssembleExpressionOperators(t *testing.T) {
	src := "LDA #<$1234\nLDX #>$1234\n"
	r := assembleString(t, src)
	expectCode(t, r, 0xA9, 0x34, 0xA2, 0x12)
}

func TestAssembleCurrentAddressOperator(t *testing.T) {
	src := "JMP *\n"
	r := assembleString(t, src)
	expectCode(t, r, 0x4C, 0x00, 0x02)
}

func TestAssembleUndefinedLabelReportsError(t *testing.T) {
	r := assembleString(t, "LDA missing\n")
	if len(r.Errors) == 0 {
		t.Fatal("expected an undefined-label error")
	}
	msg := r.Errors[0].Error()
	if !strings.Contains(msg, "test.asm (1): error:") {
		t.Errorf("error message %q does not match the expected format", msg)
	}
}

func TestAssembleBadAddressingModeReportsError(t *testing.T) {
	r := assembleString(t, "LDX ($10,X)\n") // LDX has no IndX form
	if len(r.Errors) == 0 {
		t.Fatal("expected an addressing-mode error")
	}
}

func TestAssembleContinuesAfterError(t *testing.T) {
	r := assembleString(t, "LDA missing\nLDA #$01\n")
	if len(r.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(r.Errors))
	}
	if len(r.Code) != 2 || r.Code[0] != 0xA9 || r.Code[1] != 0x01 {
		t.Errorf("second line was not assembled after the first failed: % X", r.Code)
	}
}

func TestAssembleIsIdempotentAcrossRuns(t *testing.T) {
	src := "start: LDA #$01\nSTA target\nJMP start\ntarget = $20\n"
	r1 := assembleString(t, src)
	r2 := assembleString(t, src)
	if len(r1.Errors) != 0 || len(r2.Errors) != 0 {
		t.Fatalf("unexpected errors: %v / %v", r1.Errors, r2.Errors)
	}
	if string(r1.Code) != string(r2.Code) {
		t.Errorf("assembling the same source twice produced different code: % X vs % X", r1.Code, r2.Code)
	}
}

func TestAssembleEveryImpliedMnemonicRoundTrips(t *testing.T) {
	// Every no-operand (Imp) instruction assembles to its single opcode
	// byte; this walks the full catalogue's implied-mode entries as a
	// broad smoke test of the mnemonic table wired into the lexer.
	names := []string{
		"BRK", "CLC", "CLD", "CLI", "CLV", "DEX", "DEY", "INX", "INY",
		"NOP", "PHA", "PHP", "PHX", "PHY", "PLA", "PLP", "PLX", "PLY",
		"RTI", "RTS", "SEC", "SED", "SEI", "TAX", "TAY", "TSX", "TXA",
		"TXS", "TYA",
	}
	src := strings.Join(names, "\n") + "\n"
	r := assembleString(t, src)
	if len(r.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
	if len(r.Code) != len(names) {
		t.Fatalf("len(Code) = %d, want %d", len(r.Code), len(names))
	}
	for i, name := range names {
		inst := cpu.Lookup(r.Code[i])
		if inst == nil || inst.Mnemonic.String() != name || inst.Mode != cpu.Imp {
			t.Errorf("%s assembled to %02X, which does not decode back to %s", name, r.Code[i], name)
		}
	}
}
