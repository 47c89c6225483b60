// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Registers holds the full register state of the simulated processor.
type Registers struct {
	A  byte   // accumulator
	X  byte   // X index register
	Y  byte   // Y index register
	SP byte   // stack pointer ($100 + SP is the stack memory location)
	PC uint16 // program counter

	Decimal          bool // PS: BCD arithmetic mode
	InterruptDisable bool // PS: interrupt disable (stored, not acted on)
	Carry            bool // PS: carry / unsigned overflow
	Zero             bool // PS: zero result
	Sign             bool // PS: negative (bit 7 of last result)
	Overflow         bool // PS: signed overflow
}

// Bits assigned to the processor status byte. These positions are the
// ones PHP/PLP round-trip and are not the historical 6502 P layout.
const (
	DecimalBit          = 1 << 0
	InterruptDisableBit = 1 << 1
	CarryBit            = 1 << 2
	ZeroBit             = 1 << 3
	SignBit             = 1 << 4
	OverflowBit         = 1 << 5
)

// SavePS packs the processor status flags into a byte.
func (r *Registers) SavePS() byte {
	var ps byte
	if r.Decimal {
		ps |= DecimalBit
	}
	if r.InterruptDisable {
		ps |= InterruptDisableBit
	}
	if r.Carry {
		ps |= CarryBit
	}
	if r.Zero {
		ps |= ZeroBit
	}
	if r.Sign {
		ps |= SignBit
	}
	if r.Overflow {
		ps |= OverflowBit
	}
	return ps
}

// RestorePS unpacks a processor status byte into the individual flags.
func (r *Registers) RestorePS(ps byte) {
	r.Decimal = ps&DecimalBit != 0
	r.InterruptDisable = ps&InterruptDisableBit != 0
	r.Carry = ps&CarryBit != 0
	r.Zero = ps&ZeroBit != 0
	r.Sign = ps&SignBit != 0
	r.Overflow = ps&OverflowBit != 0
}

// setFlagsFromOp sets Z and N from a result byte, the update rule shared
// by most data-moving and arithmetic instructions.
func (r *Registers) setFlagsFromOp(v byte) {
	r.Zero = v == 0
	r.Sign = v&0x80 != 0
}

// Init resets all registers to their power-on values.
func (r *Registers) Init(pc uint16) {
	r.A = 0
	r.X = 0
	r.Y = 0
	r.SP = 0xFF
	r.PC = pc
	r.RestorePS(0)
}
