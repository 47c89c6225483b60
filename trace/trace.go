// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trace implements the interactive Step: prompt that drives a
// cpu.CPU in single-step mode: disassembly-ahead, breakpoints, and the
// free-run/restart/quit transitions out of trace mode.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/prefixtree"

	"github.com/napobear/sixfive/cpu"
	"github.com/napobear/sixfive/disasm"
)

// action is what a command handler tells Prompt to do next: keep
// reading commands at the current prompt, or return the given result
// to CPU.Run.
type action struct {
	result cpu.PromptResult
	done   bool
}

type handlerFunc func(d *Debugger, c *cpu.CPU, args string, off *uint16) action

type command struct {
	name        string
	shortcut    string
	description string
	handler     handlerFunc
}

type commands struct {
	list []command
	tree *prefixtree.Tree
}

type commandResult struct {
	cmd      *command
	args     string
	helpText string
}

func newCommands(list []command) *commands {
	c := &commands{
		list: list,
		tree: prefixtree.New(),
	}
	for i, cc := range c.list {
		c.tree.Add(cc.name, &c.list[i])
		if cc.shortcut != "" {
			c.tree.Add(cc.shortcut, &c.list[i])
		}
	}
	return c
}

func (c *commands) find(line string) (commandResult, error) {
	ss := strings.SplitN(strings.TrimSpace(line), " ", 2)

	var args string
	name := ss[0]
	if len(ss) > 1 {
		args = strings.TrimSpace(ss[1])
	}

	if name == "" {
		return commandResult{}, nil
	}
	if name == "?" {
		return c.getHelp(), nil
	}

	ci, err := c.tree.Find(name)
	if err != nil {
		return commandResult{}, err
	}
	return commandResult{cmd: ci.(*command), args: args}, nil
}

func (c *commands) getHelp() commandResult {
	lines := []string{"Step: commands:\n"}
	for _, cc := range c.list {
		name := cc.name
		if cc.shortcut != "" {
			name = fmt.Sprintf("%s (%s)", cc.name, cc.shortcut)
		}
		lines = append(lines, fmt.Sprintf("  %-16s  %s\n", name, cc.description))
	}
	return commandResult{helpText: strings.Join(lines, "")}
}

// Debugger is the Step: prompt front-end; it implements cpu.Prompter.
type Debugger struct {
	in     *bufio.Scanner
	out    io.Writer
	cmds   *commands
	basePC uint16
}

// NewDebugger builds a Step: prompt reading commands from in and
// writing the trace line, disassembly, and prompt text to out. basePC
// is the address "restart" resets PC to.
func NewDebugger(in io.Reader, out io.Writer, basePC uint16) *Debugger {
	d := &Debugger{
		in:     bufio.NewScanner(in),
		out:    out,
		basePC: basePC,
	}
	d.cmds = newCommands([]command{
		{name: "b", description: "set breakpoint at hex address", handler: cmdBreak},
		{name: "d", description: "clear breakpoint at hex address", handler: cmdDelete},
		{name: "bl", description: "list breakpoint addresses", handler: cmdBreakList},
		{name: "list", shortcut: "l", description: "disassemble the next 5 instructions", handler: cmdList},
		{name: "continue", shortcut: "c", description: "leave trace mode and resume", handler: cmdContinue},
		{name: "restart", shortcut: "r", description: "reset PC and continue", handler: cmdRestart},
		{name: "quit", shortcut: "q", description: "stop the run", handler: cmdQuit},
		{name: "help", shortcut: "h", description: "print this summary", handler: cmdHelp},
	})
	return d
}

// Prompt implements cpu.Prompter. It prints the next instruction's
// disassembly and the CPU's register/flag state, then reads commands
// from the Step: prompt until one of them yields a PromptResult.
func (d *Debugger) Prompt(c *cpu.CPU) cpu.PromptResult {
	if c.BRKHit {
		fmt.Fprintln(d.out, "!BRK")
		c.BRKHit = false
	}
	if inBounds(c, c.Reg.PC) {
		line := disasm.Disassemble(c.Mem, c.Reg.PC)
		fmt.Fprintln(d.out, disasm.FormatLine(line))
	}
	printTraceLine(d.out, c)

	off := c.Reg.PC
	for {
		fmt.Fprint(d.out, "Step: ")
		if !d.in.Scan() {
			return cpu.PromptQuit
		}
		res, err := d.cmds.find(strings.ToLower(strings.TrimSpace(d.in.Text())))
		if err != nil {
			fmt.Fprintf(d.out, "unrecognized command\n")
			continue
		}
		if res.helpText != "" {
			fmt.Fprint(d.out, res.helpText)
			continue
		}
		if res.cmd == nil {
			return cpu.PromptAdvance
		}
		act := res.cmd.handler(d, c, res.args, &off)
		if act.done {
			return act.result
		}
	}
}

// maxInstLen is the widest instruction encoding (a 1-byte opcode plus
// a 16-bit absolute/indirect operand). inBounds guards every
// disassembly call against reading past the memory image, the way the
// original trace loop bounds its listing offset against len(mem).
const maxInstLen = 3

func inBounds(c *cpu.CPU, addr uint16) bool {
	return int(addr)+maxInstLen <= c.Mem.Size()
}

func printTraceLine(w io.Writer, c *cpu.CPU) {
	fmt.Fprintf(w, "PC:%04X A:%02X X:%02X Y:%02X SP:%04X D%d C%d I%d N%d Z%d O%d\n",
		c.Reg.PC, c.Reg.A, c.Reg.X, c.Reg.Y, 0x100+uint16(c.Reg.SP),
		bit(c.Reg.Decimal), bit(c.Reg.Carry), bit(c.Reg.InterruptDisable),
		bit(c.Reg.Sign), bit(c.Reg.Zero), bit(c.Reg.Overflow))
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseHexAddr(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "$"), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", s)
	}
	return uint16(v), nil
}

func cmdBreak(d *Debugger, c *cpu.CPU, args string, off *uint16) action {
	addr, err := parseHexAddr(args)
	if err != nil {
		fmt.Fprintln(d.out, err)
		return action{}
	}
	c.Debug.Add(addr)
	return action{}
}

func cmdDelete(d *Debugger, c *cpu.CPU, args string, off *uint16) action {
	addr, err := parseHexAddr(args)
	if err != nil {
		fmt.Fprintln(d.out, err)
		return action{}
	}
	if !c.Debug.Remove(addr) {
		fmt.Fprintf(d.out, "no breakpoint at $%04X\n", addr)
	}
	return action{}
}

func cmdBreakList(d *Debugger, c *cpu.CPU, args string, off *uint16) action {
	addrs := c.Debug.List()
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	for _, a := range addrs {
		fmt.Fprintf(d.out, "$%04X\n", a)
	}
	return action{}
}

// cmdList disassembles the next 5 instructions starting at *off
// without executing anything, advancing *off past them. A fresh
// Prompt call always starts this pointer over from the current PC
// (spec 4.4).
func cmdList(d *Debugger, c *cpu.CPU, args string, off *uint16) action {
	for i := 0; i < 5; i++ {
		if !inBounds(c, *off) {
			break
		}
		l := disasm.Disassemble(c.Mem, *off)
		fmt.Fprintln(d.out, disasm.FormatLine(l))
		*off += uint16(len(l.Raw))
	}
	return action{}
}

func cmdContinue(d *Debugger, c *cpu.CPU, args string, off *uint16) action {
	c.Trace = false
	return action{result: cpu.PromptResume, done: true}
}

// cmdRestart fixes the reference tool's restart defect (spec 9): it
// resets PC to basePC, not 0.
func cmdRestart(d *Debugger, c *cpu.CPU, args string, off *uint16) action {
	fmt.Fprintln(d.out, "Restarting...")
	c.Reg.PC = d.basePC
	return action{result: cpu.PromptResume, done: true}
}

func cmdQuit(d *Debugger, c *cpu.CPU, args string, off *uint16) action {
	return action{result: cpu.PromptQuit, done: true}
}

func cmdHelp(d *Debugger, c *cpu.CPU, args string, off *uint16) action {
	fmt.Fprint(d.out, d.cmds.getHelp().helpText)
	return action{}
}
