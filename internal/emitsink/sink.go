/*
   Emitsink - an indent-aware output sink wrapping an io.Writer and
   latching the first write error.

   Copyright (c) 2026, Foad Sojoodi Farimani

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

// Package emitsink is the output sink of §4.6: the only thing the code
// generator is allowed to assume about its destination is raw append,
// newline-with-indent, and indent-right/indent-left.
package emitsink

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

const indentUnit = "    "

// Sink wraps an io.Writer, tracking indent depth and the first error
// encountered so callers can write in a straight line and check once
// at the end of a routine.
type Sink struct {
	w      io.Writer
	depth  int
	Err    error
}

// New wraps w in a fresh Sink at indent depth zero.
func New(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Write appends raw text verbatim. Once Err is set, Write is a no-op
// and Err keeps the first error, matching the latch-first-error contract.
func (s *Sink) Write(text string) {
	if s.Err != nil {
		return
	}
	if _, err := io.WriteString(s.w, text); err != nil {
		s.Err = errors.Wrap(err, "emitsink: write failed")
	}
}

// Newline emits "\n" followed by the current indent.
func (s *Sink) Newline() {
	s.Write("\n" + strings.Repeat(indentUnit, s.depth))
}

// IndentRight increases the indent depth used by subsequent Newlines.
func (s *Sink) IndentRight() {
	s.depth++
}

// IndentLeft decreases the indent depth. A call at depth zero is a
// programming error in the caller and is clamped rather than panicking,
// since an over-indented fragment is still useful for diagnosing the bug.
func (s *Sink) IndentLeft() {
	if s.depth > 0 {
		s.depth--
	}
}
