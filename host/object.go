// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host wires the cpu, asm, and disasm packages to the
// command-line tool: object-file persistence and the assemble/
// disassemble/execute/trace orchestration each CLI mode drives.
package host

import (
	"encoding/json"
	"fmt"
	"io"
)

// SaveObject writes code as a plain JSON array of byte values, the
// same shape the reference tool's object files use (spec 6.2).
func SaveObject(w io.Writer, code []byte) error {
	ints := make([]int, len(code))
	for i, b := range code {
		ints[i] = int(b)
	}
	return json.NewEncoder(w).Encode(ints)
}

// LoadObject reads a JSON array of byte values back into a byte slice.
func LoadObject(r io.Reader) ([]byte, error) {
	var ints []int
	if err := json.NewDecoder(r).Decode(&ints); err != nil {
		return nil, fmt.Errorf("malformed object file: %w", err)
	}
	code := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 0xFF {
			return nil, fmt.Errorf("malformed object file: byte value %d out of range at index %d", v, i)
		}
		code[i] = byte(v)
	}
	return code, nil
}
