// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "fmt"

// ErrKind distinguishes the handful of fatal conditions the simulator
// can raise (spec 7's error taxonomy, simulator row).
type ErrKind int

const (
	// ErrAddressOverflow means a computed effective address fell
	// outside the memory image.
	ErrAddressOverflow ErrKind = iota

	// ErrUnknownOpcode means the run loop fetched a byte with no
	// catalogue entry.
	ErrUnknownOpcode
)

// FatalError is a condition that halts the simulator immediately. It is
// raised internally via panic (mirroring the reference tool's
// print-and-terminate behavior) and recovered in CPU.Step, so callers
// of Step and Run see it as a normal error return.
type FatalError struct {
	Kind    ErrKind
	Address uint32
}

func (e *FatalError) Error() string {
	switch e.Kind {
	case ErrAddressOverflow:
		return fmt.Sprintf("!Address reference overflow: $%04X", e.Address)
	case ErrUnknownOpcode:
		return fmt.Sprintf("!Unknown opcode: $%02X", e.Address)
	default:
		return "!Fatal simulator error"
	}
}
