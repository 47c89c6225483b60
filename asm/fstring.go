// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// An fstring is a string that keeps track of the source line number it
// was cut from, so diagnostics can report the line.
type fstring struct {
	line int    // 1-based line number
	str  string // the remaining substring of interest
}

func newFstring(line int, str string) fstring {
	return fstring{line, str}
}

func (l fstring) consume(n int) fstring {
	return fstring{l.line, l.str[n:]}
}

func (l fstring) trunc(n int) fstring {
	return fstring{l.line, l.str[:n]}
}

func (l *fstring) isEmpty() bool {
	return len(l.str) == 0
}

func (l *fstring) startsWithChar(c byte) bool {
	return len(l.str) > 0 && l.str[0] == c
}

func (l fstring) consumeWhitespace() fstring {
	return l.consume(l.scanWhile(whitespace))
}

func (l *fstring) scanWhile(fn func(c byte) bool) int {
	i := 0
	for ; i < len(l.str) && fn(l.str[i]); i++ {
	}
	return i
}

func (l *fstring) consumeWhile(fn func(c byte) bool) (consumed, remain fstring) {
	i := l.scanWhile(fn)
	return l.trunc(i), l.consume(i)
}

// stripComment truncates the line at its first unquoted ';'.
func (l fstring) stripComment() fstring {
	var quote byte
	for i := 0; i < len(l.str); i++ {
		c := l.str[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if stringQuote(c) {
			quote = c
			continue
		}
		if c == ';' {
			return l.trunc(i)
		}
	}
	return l
}

//
// character helper functions
//

func whitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

func alpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func decimal(c byte) bool {
	return c >= '0' && c <= '9'
}

func hexadecimal(c byte) bool {
	return decimal(c) || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

// labelStartChar matches the first character of a label or mnemonic
// identifier: a letter or a leading dot (spec 3.4).
func labelStartChar(c byte) bool {
	return alpha(c) || c == '.'
}

// labelChar matches any character after the first in a label.
func labelChar(c byte) bool {
	return alpha(c) || decimal(c) || c == '.' || c == '_'
}

func stringQuote(c byte) bool {
	return c == '"' || c == '\''
}
