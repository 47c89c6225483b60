// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"bufio"
	"io"
)

// CharSource supplies the single blocking character read used by
// `.SYS #0`. It exists so the simulator never needs to put a real
// terminal into raw mode: a test harness can feed scripted input, and
// the CLI can back it with stdin.
type CharSource interface {
	ReadChar() (byte, error)
}

// CharSink accepts the single character write used by `.SYS #1`.
type CharSink interface {
	WriteChar(c byte) error
}

// readerCharSource adapts an io.Reader into a CharSource.
type readerCharSource struct {
	r *bufio.Reader
}

// NewCharSource wraps r as a CharSource.
func NewCharSource(r io.Reader) CharSource {
	return &readerCharSource{r: bufio.NewReader(r)}
}

func (s *readerCharSource) ReadChar() (byte, error) {
	return s.r.ReadByte()
}

// writerCharSink adapts an io.Writer into a CharSink.
type writerCharSink struct {
	w io.Writer
}

// NewCharSink wraps w as a CharSink.
func NewCharSink(w io.Writer) CharSink {
	return &writerCharSink{w: w}
}

func (s *writerCharSink) WriteChar(c byte) error {
	_, err := s.w.Write([]byte{c})
	return err
}
