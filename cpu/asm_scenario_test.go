// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// In package cpu_test (not cpu) because it imports asm, which itself
// imports cpu; an internal cpu-package test file cannot do that
// without an import cycle.
package cpu_test

import (
	"strings"
	"testing"

	"github.com/napobear/sixfive/asm"
	"github.com/napobear/sixfive/cpu"
)

// Scenario 2: LDX #$03 ; loop: DEX ; BNE loop ; BRK. Assembled rather
// than hand-encoded: this simulator's branch displacement is relative
// to the displacement byte's own address, not the canonical
// next-instruction address, so the only byte sequence that is
// guaranteed consistent with cpu.CPU's branch execution is whatever
// asm.Assemble itself emits for this source.
func TestScenarioCountdownLoop(t *testing.T) {
	src := "LDX #$03\nloop: DEX\nBNE loop\nBRK\n"
	result, err := asm.Assemble(strings.NewReader(src), "scenario2.asm", cpu.DefaultBasePC, false)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected assembly errors: %v", result.Errors)
	}

	mem := cpu.NewMemory(cpu.DefaultMemorySize)
	mem.Load(cpu.DefaultBasePC, result.Code)
	c := cpu.NewCPU(mem, cpu.DefaultBasePC)

	const maxSteps = 50
	for i := 0; i < maxSteps; i++ {
		if int(c.Reg.PC) >= c.Mem.EndPos() {
			t.Fatalf("ran off the end of the image without hitting BRK")
		}
		if err := c.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
		if c.Trace {
			break
		}
	}

	if c.Reg.X != 0x00 {
		t.Errorf("X = %02X, want 00", c.Reg.X)
	}
	if !c.Reg.Zero {
		t.Error("Zero = false, want true")
	}
	if c.Reg.Sign {
		t.Error("Sign = true, want false")
	}
}
