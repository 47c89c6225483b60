// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "github.com/napobear/sixfive/cpu"

// pseudoOp identifies an assembler directive that does not correspond
// to a catalogue opcode (spec 3.3).
type pseudoOp int

const (
	pseudoNone pseudoOp = iota
	pseudoByte
	pseudoWord
)

var pseudoNames = map[string]pseudoOp{
	".BYTE": pseudoByte,
	".WORD": pseudoWord,
}

// isMnemonicWord reports whether an uppercased word names a real
// opcode mnemonic or a pseudo-op, the set of words the lexer treats
// specially rather than as a label.
func isMnemonicWord(upper string) bool {
	if _, ok := cpu.LookupMnemonic(upper); ok {
		return true
	}
	_, ok := pseudoNames[upper]
	return ok
}

// lookupPseudo returns the pseudo-op named by an uppercased word, or
// pseudoNone if it does not name one.
func lookupPseudo(upper string) pseudoOp {
	return pseudoNames[upper]
}
