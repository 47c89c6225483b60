// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Debugger tracks the flat, address-only breakpoint set used by the
// run loop (spec 4.4 only names address breakpoints, never data
// breakpoints).
type Debugger struct {
	breaks map[uint16]bool
}

// NewDebugger creates an empty breakpoint set.
func NewDebugger() *Debugger {
	return &Debugger{breaks: make(map[uint16]bool)}
}

// Add sets a breakpoint at addr.
func (d *Debugger) Add(addr uint16) {
	d.breaks[addr] = true
}

// Remove clears a breakpoint at addr. It reports whether one was set.
func (d *Debugger) Remove(addr uint16) bool {
	if !d.breaks[addr] {
		return false
	}
	delete(d.breaks, addr)
	return true
}

// Has reports whether a breakpoint is set at addr.
func (d *Debugger) Has(addr uint16) bool {
	return d.breaks[addr]
}

// List returns every breakpoint address, in no particular order.
func (d *Debugger) List() []uint16 {
	addrs := make([]uint16, 0, len(d.breaks))
	for a := range d.breaks {
		addrs = append(addrs, a)
	}
	return addrs
}

// PromptResult tells CPU.Run what to do after a trace prompt returns.
type PromptResult int

const (
	// PromptAdvance executes exactly one instruction and re-checks the
	// trace/breakpoint condition before prompting again.
	PromptAdvance PromptResult = iota

	// PromptResume executes one instruction and leaves the prompt loop
	// for this run (the Prompter itself decides whether trace mode
	// stays on, e.g. "continue" turns it off, "restart" leaves it on).
	PromptResume

	// PromptQuit stops the run loop entirely.
	PromptQuit
)

// Prompter is implemented by an interactive trace front-end. CPU.Run
// calls Prompt whenever trace mode is active or PC has a breakpoint,
// before executing the next instruction.
type Prompter interface {
	Prompt(c *CPU) PromptResult
}
