// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// tokenKind identifies the lexical class of a token (spec 4.1).
type tokenKind byte

const (
	tEOF tokenKind = iota
	tEOL
	tINT
	tSTRING
	tMNEMONIC
	tLABEL
	tHASH
	tCOMMA
	tLPAREN
	tRPAREN
	tLSQUARE
	tRSQUARE
	tAREG
	tXREG
	tYREG
	tCOLON
	tEQU
	tSTAR
	tPLUS
	tMINUS
	tLARROW
	tRARROW
)

// token is a single lexical unit produced by the lexer.
type token struct {
	kind tokenKind
	str  string // LABEL/MNEMONIC/STRING text, or the literal source text
	ival int    // decoded value for tINT
	line int
}
