/*
   IL code generator - fatal diagnostic taxonomy.

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
	"fmt"

	"github.com/Foadsf/matiec/internal/ilast"
	"github.com/Foadsf/matiec/internal/plctype"
)

// Kind discriminates the fatal-error taxonomy of §7. Every Kind
// terminates emission of the current compilation unit; none are
// retried or locally recovered.
type Kind uint8

const (
	MalformedAST Kind = iota
	ResolutionFailure
	TypeRuleViolation
	UnsupportedFeature
)

func (k Kind) String() string {
	switch k {
	case MalformedAST:
		return "malformed AST"
	case ResolutionFailure:
		return "resolution failure"
	case TypeRuleViolation:
		return "type rule violation"
	case UnsupportedFeature:
		return "unsupported feature"
	default:
		return "unknown"
	}
}

// Error is the concrete error type of every fatal diagnostic the core
// returns; the only other error Emit can return is the output sink's
// latched write error, passed through as is. It
// carries the opcode, CR type and operand type in play, and the AST
// position, so a caller can render a precise diagnostic without
// re-deriving context from a wrapped stack.
type Error struct {
	Kind        Kind
	Opcode      ilast.Opcode
	CRType      plctype.PlcType
	OperandType plctype.PlcType
	Pos         ilast.Pos
	Msg         string
	Cause       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (op=%s cr=%s operand=%s pos=%d:%d)",
		e.Kind, e.Msg, e.Opcode, e.CRType, e.OperandType, e.Pos.Line, e.Pos.Col)
}

func (e *Error) Unwrap() error { return e.Cause }

func newErr(kind Kind, op ilast.Opcode, pos ilast.Pos, msg string, args ...any) *Error {
	return &Error{Kind: kind, Opcode: op, Pos: pos, Msg: fmt.Sprintf(msg, args...)}
}

func (e *Error) withTypes(cr, operand plctype.PlcType) *Error {
	e.CRType = cr
	e.OperandType = operand
	return e
}
