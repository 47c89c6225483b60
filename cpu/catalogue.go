// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Mode identifies an addressing mode.
type Mode byte

// Addressing modes supported by the catalogue.
const (
	Imp    Mode = iota // implied, no operand
	Acc                // accumulator
	Imm                // #byte
	ZPage              // $zz
	ZPageX             // $zz,X
	ZPageY             // $zz,Y
	Abs                // $hhll
	AbsX               // $hhll,X
	AbsY               // $hhll,Y
	IndX               // ($zz,X)
	IndY               // ($zz),Y
	Ind                // ($hhll)
	Branch             // signed 8-bit PC-relative
	Jump               // absolute 16-bit (JMP/JSR)
)

// Instruction describes one populated entry of the opcode catalogue.
type Instruction struct {
	Mnemonic Mnemonic
	Mode     Mode
	Opcode   byte
	Length   byte // total instruction length in bytes, including the opcode
}

// Defined reports whether an opcode byte has a catalogue entry.
func (i *Instruction) Defined() bool {
	return i != nil
}

// catalogue maps every opcode byte (0x00-0xFF) to its instruction, or to
// nil if the opcode is undefined.
var catalogue [256]*Instruction

// variants maps a mnemonic to every addressing-mode variant it supports,
// the table the assembler's operand parser selects an opcode from.
var variants [numMnemonics]map[Mode]*Instruction

type catalogueRow struct {
	mnemonic Mnemonic
	mode     Mode
	opcode   byte
}

// modeLength is the instruction length, in bytes, implied by an
// addressing mode alone (spec.md 3.3).
func modeLength(mode Mode) byte {
	switch mode {
	case Imp, Acc:
		return 1
	case Abs, AbsX, AbsY, Jump, Ind:
		return 3
	default:
		return 2
	}
}

// catalogueRows is the single source of truth the assembler,
// disassembler, and simulator are all generated from. The opcode
// assignments are taken from the reference assembler's own per-mnemonic
// code-emission table, which is internally self-consistent for every
// entry; see DESIGN.md for why this table (rather than a second,
// independently hand-maintained disassembly table) is authoritative.
var catalogueRows = []catalogueRow{
	{ADC, Imm, 0x69}, {ADC, ZPage, 0x65}, {ADC, ZPageX, 0x75}, {ADC, Abs, 0x6D}, {ADC, AbsX, 0x7D}, {ADC, AbsY, 0x79}, {ADC, IndX, 0x61}, {ADC, IndY, 0x71},
	{AND, Imm, 0x29}, {AND, ZPage, 0x25}, {AND, ZPageX, 0x35}, {AND, Abs, 0x2D}, {AND, AbsX, 0x3D}, {AND, AbsY, 0x39}, {AND, IndX, 0x21}, {AND, IndY, 0x31},
	{ASL, ZPage, 0x06}, {ASL, ZPageX, 0x16}, {ASL, Abs, 0x0E}, {ASL, AbsX, 0x1E}, {ASL, Acc, 0x0A},
	{BCC, Branch, 0x90},
	{BCS, Branch, 0xB0},
	{BEQ, Branch, 0xF0},
	{BIT, ZPage, 0x24}, {BIT, Abs, 0x2C},
	{BMI, Branch, 0x30},
	{BNE, Branch, 0xD0},
	{BPL, Branch, 0x10},
	{BRK, Imp, 0x00},
	{BVC, Branch, 0x50},
	{BVS, Branch, 0x70},
	{CLC, Imp, 0x18},
	{CLD, Imp, 0xD8},
	{CLI, Imp, 0x58},
	{CLV, Imp, 0xB8},
	{CMP, Imm, 0xC9}, {CMP, ZPage, 0xC5}, {CMP, ZPageX, 0xD5}, {CMP, Abs, 0xCD}, {CMP, AbsX, 0xDD}, {CMP, AbsY, 0xD9}, {CMP, IndX, 0xC1}, {CMP, IndY, 0xD1},
	{CPX, Imm, 0xE0}, {CPX, ZPage, 0xE4}, {CPX, Abs, 0xEC},
	{CPY, Imm, 0xC0}, {CPY, ZPage, 0xC4}, {CPY, Abs, 0xCC},
	{DEC, ZPage, 0xC6}, {DEC, ZPageX, 0xD6}, {DEC, Abs, 0xCE}, {DEC, AbsX, 0xDE},
	{DEX, Imp, 0xCA},
	{DEY, Imp, 0x88},
	{EOR, Imm, 0x49}, {EOR, ZPage, 0x45}, {EOR, ZPageX, 0x55}, {EOR, Abs, 0x4D}, {EOR, AbsX, 0x5D}, {EOR, AbsY, 0x59}, {EOR, IndX, 0x41}, {EOR, IndY, 0x51},
	{INC, ZPage, 0xE6}, {INC, ZPageX, 0xF6}, {INC, Abs, 0xEE}, {INC, AbsX, 0xFE},
	{INX, Imp, 0xE8},
	{INY, Imp, 0xC8},
	{JMP, Jump, 0x4C}, {JMP, Ind, 0x6C},
	{JSR, Jump, 0x20},
	{LDA, Imm, 0xA9}, {LDA, ZPage, 0xA5}, {LDA, ZPageX, 0xB5}, {LDA, Abs, 0xAD}, {LDA, AbsX, 0xBD}, {LDA, AbsY, 0xB9}, {LDA, IndX, 0xA1}, {LDA, IndY, 0xB1},
	{LDX, Imm, 0xA2}, {LDX, ZPage, 0xA6}, {LDX, ZPageY, 0xB6}, {LDX, Abs, 0xAE}, {LDX, AbsY, 0xBE},
	{LDY, Imm, 0xA0}, {LDY, ZPage, 0xA4}, {LDY, ZPageX, 0xB4}, {LDY, Abs, 0xAC}, {LDY, AbsX, 0xBC},
	{LSR, ZPage, 0x46}, {LSR, ZPageX, 0x56}, {LSR, Abs, 0x4E}, {LSR, AbsX, 0x5E}, {LSR, Acc, 0x4A},
	{NOP, Imp, 0xEA},
	{ORA, Imm, 0x09}, {ORA, ZPage, 0x05}, {ORA, ZPageX, 0x15}, {ORA, Abs, 0x0D}, {ORA, AbsX, 0x1D}, {ORA, AbsY, 0x19}, {ORA, IndX, 0x01}, {ORA, IndY, 0x11},
	{PHA, Imp, 0x48},
	{PHP, Imp, 0x08},
	{PHX, Imp, 0xDA},
	{PHY, Imp, 0x5A},
	{PLA, Imp, 0x68},
	{PLP, Imp, 0x28},
	{PLX, Imp, 0xFA},
	{PLY, Imp, 0x7A},
	{ROL, ZPage, 0x26}, {ROL, ZPageX, 0x36}, {ROL, Abs, 0x2E}, {ROL, AbsX, 0x3E}, {ROL, Acc, 0x2A},
	{ROR, ZPage, 0x66}, {ROR, ZPageX, 0x76}, {ROR, Abs, 0x6E}, {ROR, AbsX, 0x7E}, {ROR, Acc, 0x6A},
	{RTI, Imp, 0x40},
	{RTS, Imp, 0x60},
	{SBC, Imm, 0xE9}, {SBC, ZPage, 0xE5}, {SBC, ZPageX, 0xF5}, {SBC, Abs, 0xED}, {SBC, AbsX, 0xFD}, {SBC, AbsY, 0xF9}, {SBC, IndX, 0xE1}, {SBC, IndY, 0xF1},
	{SEC, Imp, 0x38},
	{SED, Imp, 0xF8},
	{SEI, Imp, 0x78},
	{STA, ZPage, 0x85}, {STA, ZPageX, 0x95}, {STA, Abs, 0x8D}, {STA, AbsX, 0x9D}, {STA, AbsY, 0x99}, {STA, IndX, 0x81}, {STA, IndY, 0x91},
	{STX, ZPage, 0x86}, {STX, ZPageY, 0x96}, {STX, Abs, 0x8E},
	{STY, ZPage, 0x84}, {STY, ZPageX, 0x94}, {STY, Abs, 0x8C},
	{SYS, Imm, 0xFF},
	{TAX, Imp, 0xAA},
	{TAY, Imp, 0xA8},
	{TSX, Imp, 0xBA},
	{TXA, Imp, 0x8A},
	{TXS, Imp, 0x9A},
	{TYA, Imp, 0x98},
}

func init() {
	for m := range variants {
		variants[m] = make(map[Mode]*Instruction)
	}
	for _, row := range catalogueRows {
		inst := &Instruction{
			Mnemonic: row.mnemonic,
			Mode:     row.mode,
			Opcode:   row.opcode,
			Length:   modeLength(row.mode),
		}
		if catalogue[row.opcode] != nil {
			panic("cpu: duplicate opcode in catalogue: " + inst.Mnemonic.String())
		}
		catalogue[row.opcode] = inst
		variants[row.mnemonic][row.mode] = inst
	}
}

// Lookup returns the catalogue entry for an opcode byte, or nil if the
// opcode is undefined.
func Lookup(opcode byte) *Instruction {
	return catalogue[opcode]
}

// LookupVariant returns the catalogue entry for a (mnemonic, mode) pair,
// or nil if that mnemonic has no form using that addressing mode.
func LookupVariant(m Mnemonic, mode Mode) *Instruction {
	return variants[m][mode]
}

// Variants returns every addressing-mode variant defined for a mnemonic.
func Variants(m Mnemonic) map[Mode]*Instruction {
	return variants[m]
}
