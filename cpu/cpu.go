// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements the instruction set and execution engine of
// the simulated 6502 variant: registers, flat memory, the opcode
// catalogue, and the instruction-level interpreter.
package cpu

import "fmt"

// CPU holds all simulator state: registers, memory, the breakpoint
// set, and the host I/O escape hatches used by `.SYS`.
type CPU struct {
	Reg   Registers
	Mem   *Memory
	Debug *Debugger

	In  CharSource
	Out CharSink

	// Trace is true whenever the run loop must stop and prompt before
	// executing the next instruction (set by the caller, by BRK, and by
	// a breakpoint hit; cleared by the trace prompt's "continue" command).
	Trace bool

	// BRKHit is set by the BRK handler and cleared by the Prompter once
	// it has announced the break; it lets the trace front-end print
	// "!BRK" only when trace mode was entered via BRK, not via a
	// breakpoint or caller-seeded trace flag.
	BRKHit bool
}

// NewCPU creates a CPU bound to mem, with PC initialized to basePC.
func NewCPU(mem *Memory, basePC uint16) *CPU {
	c := &CPU{
		Mem:   mem,
		Debug: NewDebugger(),
	}
	c.Reg.Init(basePC)
	return c
}

// SetHost installs the character source/sink backing `.SYS #0`/`#1`.
func (c *CPU) SetHost(in CharSource, out CharSink) {
	c.In = in
	c.Out = out
}

// fetchByte reads the byte at PC and advances PC by one.
func (c *CPU) fetchByte() byte {
	v := c.Mem.LoadByte(int(c.Reg.PC))
	c.Reg.PC++
	return v
}

// fetchWord reads a little-endian word at PC and advances PC by two.
func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(lo) | uint16(hi)<<8
}

// effectiveAddress computes the effective address for every addressing
// mode that names a memory location (spec 4.3), advancing PC past the
// operand bytes it consumes.
func (c *CPU) effectiveAddress(mode Mode) int {
	switch mode {
	case ZPage:
		return int(c.fetchByte())
	case ZPageX:
		return int(offsetZeroPage(c.fetchByte(), c.Reg.X))
	case ZPageY:
		return int(offsetZeroPage(c.fetchByte(), c.Reg.Y))
	case Abs:
		return int(c.fetchWord())
	case AbsX:
		return int(c.fetchWord()) + int(c.Reg.X)
	case AbsY:
		return int(c.fetchWord()) + int(c.Reg.Y)
	case IndX:
		p := int(c.fetchByte()) + int(c.Reg.X)
		lo := c.Mem.LoadByte(p)
		hi := c.Mem.LoadByte(p + 1)
		return int(uint16(lo) | uint16(hi)<<8)
	case IndY:
		p := int(c.fetchByte())
		lo := c.Mem.LoadByte(p)
		hi := c.Mem.LoadByte(p + 1)
		base := int(uint16(lo) | uint16(hi)<<8)
		return base + int(c.Reg.Y)
	case Ind:
		ptr := int(c.fetchWord())
		lo := c.Mem.LoadByte(ptr)
		hi := c.Mem.LoadByte(ptr + 1)
		return int(uint16(lo) | uint16(hi)<<8)
	default:
		panic(fmt.Sprintf("cpu: effectiveAddress called with non-address mode %v", mode))
	}
}

// readOperand reads the value an instruction operates on, handling the
// Imm and Acc special cases that are not memory addresses.
func (c *CPU) readOperand(inst *Instruction) byte {
	switch inst.Mode {
	case Imm:
		return c.fetchByte()
	case Acc:
		return c.Reg.A
	default:
		return c.Mem.LoadByte(c.effectiveAddress(inst.Mode))
	}
}

// readModifyWrite executes a read-modify-write instruction (ASL, LSR,
// ROL, ROR, INC, DEC), which may target the accumulator or a memory
// cell depending on addressing mode.
func (c *CPU) readModifyWrite(inst *Instruction, f func(old byte) byte) {
	if inst.Mode == Acc {
		c.Reg.A = f(c.Reg.A)
		return
	}
	addr := c.effectiveAddress(inst.Mode)
	v := f(c.Mem.LoadByte(addr))
	c.Mem.StoreByte(addr, v)
}

// push8/pop8/push16/pop16 implement the stack discipline of spec 4.3:
// page 1, SP decrementing on push, the specific push16 byte order JSR
// and RTS depend on.
func (c *CPU) push8(v byte) {
	c.Mem.StoreByte(0x100+int(c.Reg.SP), v)
	c.Reg.SP--
}

func (c *CPU) pop8() byte {
	c.Reg.SP++
	return c.Mem.LoadByte(0x100 + int(c.Reg.SP))
}

func (c *CPU) push16(v uint16) {
	c.Mem.StoreByte(0x100+int(c.Reg.SP), byte(v>>8))
	c.Mem.StoreByte(0x100+int(c.Reg.SP)-1, byte(v))
	c.Reg.SP -= 2
}

func (c *CPU) pop16() uint16 {
	c.Reg.SP += 2
	hi := c.Mem.LoadByte(0x100 + int(c.Reg.SP))
	lo := c.Mem.LoadByte(0x100 + int(c.Reg.SP) - 1)
	return uint16(lo) | uint16(hi)<<8
}

// branch reads the signed displacement at PC. If taken, PC is set to
// the displacement byte's own address plus the sign-extended
// displacement (not the address of the following instruction); if not
// taken, PC simply advances past the displacement byte. This
// intentionally diverges from canonical 6502 branch arithmetic; see
// DESIGN.md.
func (c *CPU) branch(taken bool) {
	d := c.Mem.LoadByte(int(c.Reg.PC))
	if taken {
		c.Reg.PC = uint16(int(c.Reg.PC) + int(int8(d)))
	} else {
		c.Reg.PC++
	}
}

// addWithCarry implements spec 4.3's ADC formula, binary and decimal.
func (c *CPU) addWithCarry(a, m byte) byte {
	carry := 0
	if c.Reg.Carry {
		carry = 1
	}
	t := int(a) + int(m) + carry
	if !c.Reg.Decimal {
		c.Reg.Carry = t > 0xFF
		c.Reg.Overflow = a < 128 && m < 128 && t >= 128
	} else {
		if t&0x0F > 0x09 {
			t += 0x06
		}
		if t&0xF0 > 0x90 {
			t += 0x60
		}
		c.Reg.Carry = t > 0x99
	}
	return byte(t & 0xFF)
}

// subWithCarry implements spec 4.3's SBC formula, binary and decimal.
func (c *CPU) subWithCarry(a, m byte) byte {
	borrow := 1
	if c.Reg.Carry {
		borrow = 0
	}
	t := int(a) - int(m) - borrow
	if !c.Reg.Decimal {
		c.Reg.Carry = t <= 0xFF
		c.Reg.Overflow = a < 128 && m < 128 && t >= 128
	} else {
		if t&0x0F > 0x09 {
			t += 0x06
		}
		if t&0xF0 > 0x90 {
			t += 0x60
		}
		c.Reg.Carry = t > 0x99
	}
	return byte(t & 0xFF)
}

// compare implements the CMP/CPX/CPY rule of spec 4.3: N is taken from
// the unmodified register, not from the subtraction, which is a
// deliberate deviation from canonical 6502 behavior. See DESIGN.md.
func (c *CPU) compare(reg, m byte) {
	c.Reg.Zero = reg == m
	c.Reg.Carry = reg >= m
	c.Reg.Sign = reg&0x80 != 0
}

// Step fetches, decodes, and executes exactly one instruction. Fatal
// conditions (address overflow, unknown opcode) are raised internally
// via panic and recovered here so callers always see a normal error.
func (c *CPU) Step() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(*FatalError); ok {
				err = fe
				return
			}
			panic(r)
		}
	}()

	opcode := c.fetchByte()
	inst := Lookup(opcode)
	if inst == nil {
		panic(&FatalError{Kind: ErrUnknownOpcode, Address: uint32(opcode)})
	}
	handler := mnemonicHandlers[inst.Mnemonic]
	if handler == nil {
		panic(&FatalError{Kind: ErrUnknownOpcode, Address: uint32(opcode)})
	}
	handler(c, inst)
	return nil
}

// Run executes instructions starting at the current PC until PC
// reaches the memory image's end position, a trace prompt requests
// quit, or a fatal error occurs. trace seeds initial trace mode;
// prompter supplies the interactive front-end. BRK can switch trace
// mode on mid-run regardless of how Run was started, so prompter must
// never be nil.
func (c *CPU) Run(trace bool, prompter Prompter) error {
	c.Trace = trace
	for int(c.Reg.PC) < c.Mem.EndPos() {
		if c.Trace || c.Debug.Has(c.Reg.PC) {
			c.Trace = true
			switch prompter.Prompt(c) {
			case PromptQuit:
				return nil
			case PromptResume, PromptAdvance:
			}
		}
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// mnemonicHandlers is the dispatch table, indexed by mnemonic rather
// than opcode: the addressing mode carried in the catalogue entry
// tells each handler how to resolve its operand.
var mnemonicHandlers [numMnemonics]func(c *CPU, inst *Instruction)

func init() {
	h := &mnemonicHandlers

	h[ADC] = func(c *CPU, inst *Instruction) {
		m := c.readOperand(inst)
		c.Reg.A = c.addWithCarry(c.Reg.A, m)
		c.Reg.setFlagsFromOp(c.Reg.A)
	}
	h[SBC] = func(c *CPU, inst *Instruction) {
		m := c.readOperand(inst)
		c.Reg.A = c.subWithCarry(c.Reg.A, m)
		c.Reg.setFlagsFromOp(c.Reg.A)
	}
	h[AND] = func(c *CPU, inst *Instruction) {
		c.Reg.A &= c.readOperand(inst)
		c.Reg.setFlagsFromOp(c.Reg.A)
	}
	h[ORA] = func(c *CPU, inst *Instruction) {
		c.Reg.A |= c.readOperand(inst)
		c.Reg.setFlagsFromOp(c.Reg.A)
	}
	h[EOR] = func(c *CPU, inst *Instruction) {
		c.Reg.A ^= c.readOperand(inst)
		c.Reg.setFlagsFromOp(c.Reg.A)
	}
	h[ASL] = func(c *CPU, inst *Instruction) {
		c.readModifyWrite(inst, func(old byte) byte {
			c.Reg.Carry = old&0x80 != 0
			v := byte(int(old)<<1) & 0xFE
			c.Reg.setFlagsFromOp(v)
			return v
		})
	}
	h[LSR] = func(c *CPU, inst *Instruction) {
		c.readModifyWrite(inst, func(old byte) byte {
			c.Reg.Carry = old&0x01 != 0
			v := old >> 1
			c.Reg.setFlagsFromOp(v)
			return v
		})
	}
	h[ROL] = func(c *CPU, inst *Instruction) {
		c.readModifyWrite(inst, func(old byte) byte {
			carryIn := byte(0)
			if c.Reg.Carry {
				carryIn = 1
			}
			c.Reg.Carry = old&0x80 != 0
			v := (old << 1) | carryIn
			c.Reg.setFlagsFromOp(v)
			return v
		})
	}
	h[ROR] = func(c *CPU, inst *Instruction) {
		c.readModifyWrite(inst, func(old byte) byte {
			carryIn := byte(0)
			if c.Reg.Carry {
				carryIn = 0x80
			}
			c.Reg.Carry = old&0x01 != 0
			v := (old >> 1) | carryIn
			c.Reg.setFlagsFromOp(v)
			return v
		})
	}
	h[INC] = func(c *CPU, inst *Instruction) {
		c.readModifyWrite(inst, func(old byte) byte {
			v := old + 1
			c.Reg.setFlagsFromOp(v)
			return v
		})
	}
	h[DEC] = func(c *CPU, inst *Instruction) {
		c.readModifyWrite(inst, func(old byte) byte {
			v := old - 1
			c.Reg.setFlagsFromOp(v)
			return v
		})
	}
	h[INX] = func(c *CPU, inst *Instruction) { c.Reg.X++; c.Reg.setFlagsFromOp(c.Reg.X) }
	h[INY] = func(c *CPU, inst *Instruction) { c.Reg.Y++; c.Reg.setFlagsFromOp(c.Reg.Y) }
	h[DEX] = func(c *CPU, inst *Instruction) { c.Reg.X--; c.Reg.setFlagsFromOp(c.Reg.X) }
	h[DEY] = func(c *CPU, inst *Instruction) { c.Reg.Y--; c.Reg.setFlagsFromOp(c.Reg.Y) }

	h[BIT] = func(c *CPU, inst *Instruction) {
		addr := c.effectiveAddress(inst.Mode)
		v := c.Mem.LoadByte(addr) & c.Reg.A
		c.Reg.Zero = v == 0
		c.Reg.Sign = v&0x80 != 0
		c.Reg.Overflow = v&0x40 != 0
	}

	h[CMP] = func(c *CPU, inst *Instruction) { c.compare(c.Reg.A, c.readOperand(inst)) }
	h[CPX] = func(c *CPU, inst *Instruction) { c.compare(c.Reg.X, c.readOperand(inst)) }
	h[CPY] = func(c *CPU, inst *Instruction) { c.compare(c.Reg.Y, c.readOperand(inst)) }

	h[LDA] = func(c *CPU, inst *Instruction) { c.Reg.A = c.readOperand(inst); c.Reg.setFlagsFromOp(c.Reg.A) }
	h[LDX] = func(c *CPU, inst *Instruction) { c.Reg.X = c.readOperand(inst); c.Reg.setFlagsFromOp(c.Reg.X) }
	h[LDY] = func(c *CPU, inst *Instruction) { c.Reg.Y = c.readOperand(inst); c.Reg.setFlagsFromOp(c.Reg.Y) }

	h[STA] = func(c *CPU, inst *Instruction) { c.Mem.StoreByte(c.effectiveAddress(inst.Mode), c.Reg.A) }
	h[STX] = func(c *CPU, inst *Instruction) { c.Mem.StoreByte(c.effectiveAddress(inst.Mode), c.Reg.X) }
	h[STY] = func(c *CPU, inst *Instruction) { c.Mem.StoreByte(c.effectiveAddress(inst.Mode), c.Reg.Y) }

	h[TAX] = func(c *CPU, inst *Instruction) { c.Reg.X = c.Reg.A; c.Reg.setFlagsFromOp(c.Reg.X) }
	h[TAY] = func(c *CPU, inst *Instruction) { c.Reg.Y = c.Reg.A; c.Reg.setFlagsFromOp(c.Reg.Y) }
	h[TXA] = func(c *CPU, inst *Instruction) { c.Reg.A = c.Reg.X; c.Reg.setFlagsFromOp(c.Reg.A) }
	h[TYA] = func(c *CPU, inst *Instruction) { c.Reg.A = c.Reg.Y; c.Reg.setFlagsFromOp(c.Reg.A) }
	h[TSX] = func(c *CPU, inst *Instruction) { c.Reg.X = c.Reg.SP; c.Reg.setFlagsFromOp(c.Reg.X) }
	h[TXS] = func(c *CPU, inst *Instruction) { c.Reg.SP = c.Reg.X }

	h[PHA] = func(c *CPU, inst *Instruction) { c.push8(c.Reg.A) }
	h[PHP] = func(c *CPU, inst *Instruction) { c.push8(c.Reg.SavePS()) }
	h[PHX] = func(c *CPU, inst *Instruction) { c.push8(c.Reg.X) }
	h[PHY] = func(c *CPU, inst *Instruction) { c.push8(c.Reg.Y) }
	h[PLA] = func(c *CPU, inst *Instruction) { c.Reg.A = c.pop8(); c.Reg.setFlagsFromOp(c.Reg.A) }
	h[PLP] = func(c *CPU, inst *Instruction) { c.Reg.RestorePS(c.pop8()) }
	h[PLX] = func(c *CPU, inst *Instruction) { c.Reg.X = c.pop8(); c.Reg.setFlagsFromOp(c.Reg.X) }
	h[PLY] = func(c *CPU, inst *Instruction) { c.Reg.Y = c.pop8(); c.Reg.setFlagsFromOp(c.Reg.Y) }

	h[CLC] = func(c *CPU, inst *Instruction) { c.Reg.Carry = false }
	h[CLD] = func(c *CPU, inst *Instruction) { c.Reg.Decimal = false }
	h[CLI] = func(c *CPU, inst *Instruction) { c.Reg.InterruptDisable = false }
	h[CLV] = func(c *CPU, inst *Instruction) { c.Reg.Overflow = false }
	h[SEC] = func(c *CPU, inst *Instruction) { c.Reg.Carry = true }
	h[SED] = func(c *CPU, inst *Instruction) { c.Reg.Decimal = true }
	h[SEI] = func(c *CPU, inst *Instruction) { c.Reg.InterruptDisable = true }

	h[BCC] = func(c *CPU, inst *Instruction) { c.branch(!c.Reg.Carry) }
	h[BCS] = func(c *CPU, inst *Instruction) { c.branch(c.Reg.Carry) }
	h[BEQ] = func(c *CPU, inst *Instruction) { c.branch(c.Reg.Zero) }
	h[BNE] = func(c *CPU, inst *Instruction) { c.branch(!c.Reg.Zero) }
	h[BMI] = func(c *CPU, inst *Instruction) { c.branch(c.Reg.Sign) }
	h[BPL] = func(c *CPU, inst *Instruction) { c.branch(!c.Reg.Sign) }
	h[BVC] = func(c *CPU, inst *Instruction) { c.branch(!c.Reg.Overflow) }
	h[BVS] = func(c *CPU, inst *Instruction) { c.branch(c.Reg.Overflow) }

	h[JMP] = func(c *CPU, inst *Instruction) {
		if inst.Mode == Ind {
			c.Reg.PC = uint16(c.effectiveAddress(Ind))
			return
		}
		c.Reg.PC = c.fetchWord()
	}
	h[JSR] = func(c *CPU, inst *Instruction) {
		target := c.Mem.LoadWord(int(c.Reg.PC))
		c.push16(c.Reg.PC + 2)
		c.Reg.PC = target
	}
	h[RTS] = func(c *CPU, inst *Instruction) { c.Reg.PC = c.pop16() }
	h[RTI] = func(c *CPU, inst *Instruction) {
		c.Reg.RestorePS(c.pop8())
		c.Reg.PC = c.pop16()
	}

	h[NOP] = func(c *CPU, inst *Instruction) {}

	h[BRK] = func(c *CPU, inst *Instruction) { c.Trace = true; c.BRKHit = true }

	h[SYS] = func(c *CPU, inst *Instruction) {
		selector := c.fetchByte()
		switch selector {
		case 0x00:
			if c.In != nil {
				ch, err := c.In.ReadChar()
				if err == nil {
					c.Reg.A = ch
				}
			}
		case 0x01:
			if c.Out != nil {
				c.Out.WriteChar(c.Reg.A)
			}
		}
	}
}
