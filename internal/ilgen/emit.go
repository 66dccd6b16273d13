/*
   IL code generator - statement-level emission helpers shared by the
   operator table, call lowering and the walker.

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

package ilgen

import (
	"github.com/Foadsf/matiec/internal/emitsink"
	"github.com/Foadsf/matiec/internal/ilast"
	"github.com/Foadsf/matiec/internal/plctype"
	"github.com/Foadsf/matiec/internal/typequery"
)

// sinkWriter adds statement-shaped conveniences on top of the raw
// append/newline/indent primitives emitsink.Sink exposes; the core
// still never assumes anything beyond those primitives.
type sinkWriter struct {
	s *emitsink.Sink
}

func newSinkWriter(s *emitsink.Sink) *sinkWriter { return &sinkWriter{s: s} }

// writeStmt appends one terminated statement followed by a newline at
// the current indent.
func (w *sinkWriter) writeStmt(text string) {
	w.s.Write(text + ";")
	w.s.Newline()
}

// writeAssign is sugar for the overwhelmingly common "lhs = rhs;" shape.
func (w *sinkWriter) writeAssign(lhs, rhs string) {
	w.writeStmt(lhs + " = " + rhs)
}

// writeCompound emits "lhs op= rhs;", the shape the bitwise and
// arithmetic operators lower to (e.g. "CR.BOOLvar |= v3;").
func (w *sinkWriter) writeCompound(lhs, op, rhs string) {
	w.writeStmt(lhs + " " + op + "= " + rhs)
}

// writeGuarded emits "if (cond) lhs = rhs;" as a single statement, the
// shape S/R lower to: the guard has exactly one substatement, so no
// brace block is needed.
func (w *sinkWriter) writeGuarded(cond, lhs, rhs string) {
	w.writeStmt("if (" + cond + ") " + lhs + " = " + rhs)
}

// writeLabel emits a label target immediately before the following
// statement, on its own line.
func (w *sinkWriter) writeLabel(name string) {
	w.s.Write(name + ":")
	w.s.Newline()
}

// writeGoto emits an unconditional jump.
func (w *sinkWriter) writeGoto(label string) {
	w.writeStmt("goto " + label)
}

// writeGuardedGoto emits "if (cond) goto label;".
func (w *sinkWriter) writeGuardedGoto(cond, label string) {
	w.writeStmt("if (" + cond + ") goto " + label)
}

// LowerOne lowers a single straight-line instruction directly against
// sink, for callers (the interactive console) that want to emit and
// inspect one instruction at a time rather than a whole routine.
func LowerOne(sink *emitsink.Sink, cr *CR, policy Policy, q typequery.Service,
	op ilast.Opcode, operand *ilast.Operand, operandType plctype.PlcType, pos ilast.Pos) error {
	return lowerSimple(newSinkWriter(sink), cr, policy, q, op, operand, operandType, pos)
}

func (w *sinkWriter) raw(text string)    { w.s.Write(text) }
func (w *sinkWriter) newline()           { w.s.Newline() }
func (w *sinkWriter) indentRight()       { w.s.IndentRight() }
func (w *sinkWriter) indentLeft()        { w.s.IndentLeft() }
