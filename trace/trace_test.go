// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/napobear/sixfive/cpu"
)

func newTestCPU(t *testing.T, code ...byte) *cpu.CPU {
	t.Helper()
	mem := cpu.NewMemory(cpu.DefaultMemorySize)
	mem.Load(cpu.DefaultBasePC, code)
	return cpu.NewCPU(mem, cpu.DefaultBasePC)
}

func TestEmptyLineAdvancesOneInstruction(t *testing.T) {
	c := newTestCPU(t, 0xA9, 0x05, 0x00) // LDA #$05 ; BRK
	out := &bytes.Buffer{}
	d := NewDebugger(strings.NewReader("\n"), out, cpu.DefaultBasePC)

	result := d.Prompt(c)
	if result != cpu.PromptAdvance {
		t.Fatalf("result = %v, want PromptAdvance", result)
	}
	if !strings.Contains(out.String(), "LDA #$05") {
		t.Errorf("output missing disassembly line: %q", out.String())
	}
	if !strings.Contains(out.String(), "PC:0200") {
		t.Errorf("output missing trace line: %q", out.String())
	}
}

func TestQuitStopsTheRun(t *testing.T) {
	c := newTestCPU(t, 0x00)
	d := NewDebugger(strings.NewReader("q\n"), &bytes.Buffer{}, cpu.DefaultBasePC)
	if result := d.Prompt(c); result != cpu.PromptQuit {
		t.Fatalf("result = %v, want PromptQuit", result)
	}
}

func TestContinueLeavesTraceMode(t *testing.T) {
	c := newTestCPU(t, 0x00)
	c.Trace = true
	d := NewDebugger(strings.NewReader("continue\n"), &bytes.Buffer{}, cpu.DefaultBasePC)
	if result := d.Prompt(c); result != cpu.PromptResume {
		t.Fatalf("result = %v, want PromptResume", result)
	}
	if c.Trace {
		t.Error("Trace still true after continue")
	}
}

func TestRestartResetsPCToBasePC(t *testing.T) {
	c := newTestCPU(t, 0x00)
	c.Reg.PC = cpu.DefaultBasePC + 10
	out := &bytes.Buffer{}
	d := NewDebugger(strings.NewReader("r\n"), out, cpu.DefaultBasePC)
	result := d.Prompt(c)
	if result != cpu.PromptResume {
		t.Fatalf("result = %v, want PromptResume", result)
	}
	if c.Reg.PC != cpu.DefaultBasePC {
		t.Errorf("PC = %04X, want %04X (not 0)", c.Reg.PC, cpu.DefaultBasePC)
	}
	if !strings.Contains(out.String(), "Restarting...") {
		t.Error("missing Restarting... banner")
	}
}

func TestBreakpointAddDeleteAndList(t *testing.T) {
	c := newTestCPU(t, 0x00)
	out := &bytes.Buffer{}
	d := NewDebugger(strings.NewReader("b 250\nbl\nd 250\nbl\nq\n"), out, cpu.DefaultBasePC)
	d.Prompt(c)
	text := out.String()
	if !strings.Contains(text, "$0250") {
		t.Errorf("breakpoint list missing $0250: %q", text)
	}
}

func TestListDisassemblesAheadWithoutRunning(t *testing.T) {
	c := newTestCPU(t, 0xA9, 0x01, 0xA9, 0x02, 0xA9, 0x03, 0xA9, 0x04, 0xA9, 0x05, 0x00)
	out := &bytes.Buffer{}
	d := NewDebugger(strings.NewReader("list\nq\n"), out, cpu.DefaultBasePC)
	d.Prompt(c)
	if c.Reg.PC != cpu.DefaultBasePC {
		t.Errorf("PC moved from listing: %04X", c.Reg.PC)
	}
	count := strings.Count(out.String(), "LDA #$0")
	if count != 5 {
		t.Errorf("list printed %d LDA lines, want 5", count)
	}
}

func TestListStopsBeforeReadingPastMemoryEnd(t *testing.T) {
	mem := cpu.NewMemory(cpu.DefaultMemorySize)
	c := cpu.NewCPU(mem, cpu.DefaultBasePC)
	c.Reg.PC = uint16(cpu.DefaultMemorySize - 1)

	out := &bytes.Buffer{}
	d := NewDebugger(strings.NewReader("list\nq\n"), out, c.Reg.PC)
	result := d.Prompt(c)
	if result != cpu.PromptQuit {
		t.Fatalf("result = %v, want PromptQuit", result)
	}
}

func TestPromptNearMemoryEndDoesNotPanic(t *testing.T) {
	mem := cpu.NewMemory(cpu.DefaultMemorySize)
	c := cpu.NewCPU(mem, cpu.DefaultBasePC)
	c.Reg.PC = uint16(cpu.DefaultMemorySize - 1)

	d := NewDebugger(strings.NewReader("q\n"), &bytes.Buffer{}, c.Reg.PC)
	if result := d.Prompt(c); result != cpu.PromptQuit {
		t.Fatalf("result = %v, want PromptQuit", result)
	}
}

// Regression test for a prior bug: CPU.Run(false, nil) panicked on a
// nil Prompter as soon as BRK flipped Trace on mid-run in execute mode
// (a real Prompter must always be supplied, even for -x).
func TestRunStartedWithoutTraceStillStopsAtBRK(t *testing.T) {
	code := []byte{
		0xA9, 0x40, // LDA #$40
		0x20, 0x06, 0x02, // JSR $0206
		0x00,       // BRK
		0xA2, 0x11, // LDX #$11
		0x60, // RTS
	}
	c := newTestCPU(t, code...)
	out := &bytes.Buffer{}
	d := NewDebugger(strings.NewReader("q\n"), out, cpu.DefaultBasePC)

	if err := c.Run(false, d); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "!BRK") {
		t.Errorf("BRK never announced: %q", out.String())
	}
}

func TestHelpPrintsCommandSummary(t *testing.T) {
	c := newTestCPU(t, 0x00)
	out := &bytes.Buffer{}
	d := NewDebugger(strings.NewReader("?\nq\n"), out, cpu.DefaultBasePC)
	d.Prompt(c)
	if !strings.Contains(out.String(), "commands:") {
		t.Errorf("missing help banner: %q", out.String())
	}
}

func TestUnrecognizedCommandReprompts(t *testing.T) {
	c := newTestCPU(t, 0xA9, 0x05, 0x00)
	d := NewDebugger(strings.NewReader("zzz\n\n"), &bytes.Buffer{}, cpu.DefaultBasePC)
	result := d.Prompt(c)
	if result != cpu.PromptAdvance {
		t.Fatalf("result = %v, want PromptAdvance", result)
	}
}

func TestBRKHitPrintsBanner(t *testing.T) {
	c := newTestCPU(t, 0x00)
	c.BRKHit = true
	out := &bytes.Buffer{}
	d := NewDebugger(strings.NewReader("q\n"), out, cpu.DefaultBasePC)
	d.Prompt(c)
	if !strings.Contains(out.String(), "!BRK") {
		t.Errorf("missing !BRK banner: %q", out.String())
	}
	if c.BRKHit {
		t.Error("BRKHit still true after Prompt announced it")
	}
}

func TestEOFOnInputQuits(t *testing.T) {
	c := newTestCPU(t, 0x00)
	d := NewDebugger(strings.NewReader(""), &bytes.Buffer{}, cpu.DefaultBasePC)
	if result := d.Prompt(c); result != cpu.PromptQuit {
		t.Fatalf("result = %v, want PromptQuit", result)
	}
}
