// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"io"
	"os"

	"github.com/napobear/sixfive/asm"
	"github.com/napobear/sixfive/cpu"
	"github.com/napobear/sixfive/disasm"
)

// AssembleFile assembles srcPath and writes the resulting object code
// to objPath. It returns the assembler's diagnostics (empty on
// success) and an error only for an I/O failure outside the
// assembler's own error-reporting path.
func AssembleFile(srcPath, objPath string, verbose bool) ([]*asm.AsmError, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	result, err := asm.Assemble(src, srcPath, cpu.DefaultBasePC, verbose)
	if err != nil {
		return nil, err
	}
	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	if len(result.Errors) > 0 {
		return result.Errors, nil
	}

	out, err := os.Create(objPath)
	if err != nil {
		return result.Errors, err
	}
	defer out.Close()
	if err := SaveObject(out, result.Code); err != nil {
		return result.Errors, err
	}
	return result.Errors, nil
}

// DisassembleFile reads an object file and writes its formatted
// disassembly listing to w.
func DisassembleFile(objPath string, w io.Writer) error {
	f, err := os.Open(objPath)
	if err != nil {
		return err
	}
	defer f.Close()

	code, err := LoadObject(f)
	if err != nil {
		return err
	}

	mem := cpu.NewMemory(cpu.DefaultMemorySize)
	mem.Load(cpu.DefaultBasePC, code)
	for _, l := range disasm.DisassembleRange(mem, cpu.DefaultBasePC, uint16(mem.EndPos())) {
		fmt.Fprintln(w, disasm.FormatLine(l))
	}
	return nil
}

// LoadAndRun loads an object file into a fresh CPU and runs it,
// optionally starting in trace mode. The caller supplies the trace
// front-end; BRK can switch the run into trace mode at any time, so
// prompter must never be nil.
func LoadAndRun(objPath string, trace bool, prompter cpu.Prompter, in io.Reader, out io.Writer) (*cpu.CPU, error) {
	f, err := os.Open(objPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	code, err := LoadObject(f)
	if err != nil {
		return nil, err
	}

	mem := cpu.NewMemory(cpu.DefaultMemorySize)
	mem.Load(cpu.DefaultBasePC, code)
	c := cpu.NewCPU(mem, cpu.DefaultBasePC)
	c.SetHost(cpu.NewCharSource(in), cpu.NewCharSink(out))

	if err := c.Run(trace, prompter); err != nil {
		return c, err
	}
	return c, nil
}

// PrintRegisters prints the post-run register and flag dump in the
// reference tool's format.
func PrintRegisters(w io.Writer, c *cpu.CPU) {
	fmt.Fprintf(w, "  A  = $%02X\n", c.Reg.A)
	fmt.Fprintf(w, "  X  = $%02X\n", c.Reg.X)
	fmt.Fprintf(w, "  Y  = $%02X\n", c.Reg.Y)
	fmt.Fprintf(w, "  SP = $%04X\n", 0x100+int(c.Reg.SP))
	fmt.Fprintf(w, "  PC = $%04X\n", c.Reg.PC)
	fmt.Fprintf(w, "  D%d : C%d : I%d : N%d : Z%d : O%d\n",
		boolBit(c.Reg.Decimal), boolBit(c.Reg.Carry), boolBit(c.Reg.InterruptDisable),
		boolBit(c.Reg.Sign), boolBit(c.Reg.Zero), boolBit(c.Reg.Overflow))
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}
