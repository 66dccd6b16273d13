/*
   Type query facade - the narrow, pure-query view of the external type
   system the code generator consults.

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

// Package typequery is the type query facade of §4.5: a pure,
// side-effect-free view over the external type system. It never emits
// text and never mutates anything it is given.
package typequery

import (
	"fmt"

	"github.com/Foadsf/matiec/internal/ilast"
	"github.com/Foadsf/matiec/internal/plctype"
)

// Service is the interface the walker consults. A real compiler wires
// this to its scope/symbol resolver and standard-function table; tests
// and the demo driver use the Default implementation below.
type Service interface {
	TypeOf(operand ilast.Operand, scope ilast.Scope) (plctype.PlcType, error)
	IsBool(t plctype.PlcType) bool
	IsBinary(t plctype.PlcType) bool
	IsInteger(t plctype.PlcType) bool
	IsNum(t plctype.PlcType) bool
	IsTime(t plctype.PlcType) bool
	SameType(a, b plctype.PlcType) bool
	StandardFunctionReturnType(name string, crType plctype.PlcType) (plctype.PlcType, bool)
}

// StdFunc describes one entry of the standard-function table consulted
// for calls that do not resolve against the user function table.
type StdFunc struct {
	Name       string
	ReturnType plctype.PlcType
	// ReturnTypeOf, when non-nil, computes the return type from the
	// CR type presented as the function's first argument (e.g. the
	// numeric conversion family); takes precedence over ReturnType.
	ReturnTypeOf func(crType plctype.PlcType) plctype.PlcType
}

// Default is a small, self-contained Service: it resolves constants by
// their carried type, variables via the scope, and standard functions
// via a caller-supplied table. It has no notion of a user function
// table (that lookup happens one level up, in ilgen's call lowering,
// against a symbols.Table) and only serves the pure type queries.
type Default struct {
	StdFuncs map[string]StdFunc
}

// NewDefault builds a Default service seeded with the handful of
// standard functions exercised by the demo driver and tests (sqrt,
// abs, trunc). A real integration replaces this table wholesale.
func NewDefault() *Default {
	return &Default{
		StdFuncs: map[string]StdFunc{
			"SQRT": {Name: "SQRT", ReturnTypeOf: func(crType plctype.PlcType) plctype.PlcType {
				if plctype.Same(crType, plctype.Lreal) {
					return plctype.Lreal
				}
				return plctype.Real
			}},
			"ABS": {Name: "ABS", ReturnTypeOf: func(crType plctype.PlcType) plctype.PlcType { return crType }},
			"TRUNC": {Name: "TRUNC", ReturnType: plctype.Dint},
		},
	}
}

func (d *Default) TypeOf(operand ilast.Operand, scope ilast.Scope) (plctype.PlcType, error) {
	switch operand.Kind {
	case ilast.OperandConstant:
		return operand.Type, nil
	case ilast.OperandVariable:
		if scope == nil {
			return plctype.PlcType{}, fmt.Errorf("typequery: no scope to resolve variable %q", operand.Name)
		}
		t, ok := scope.VariableType(operand.Name)
		if !ok {
			return plctype.PlcType{}, fmt.Errorf("typequery: undeclared variable %q", operand.Name)
		}
		return t, nil
	default:
		return plctype.PlcType{}, fmt.Errorf("typequery: malformed operand")
	}
}

func (d *Default) IsBool(t plctype.PlcType) bool    { return plctype.IsBool(t) }
func (d *Default) IsBinary(t plctype.PlcType) bool  { return plctype.IsBinary(t) }
func (d *Default) IsInteger(t plctype.PlcType) bool { return plctype.IsInteger(t) }
func (d *Default) IsNum(t plctype.PlcType) bool     { return plctype.IsNum(t) }
func (d *Default) IsTime(t plctype.PlcType) bool    { return plctype.IsTime(t) }
func (d *Default) SameType(a, b plctype.PlcType) bool { return plctype.Same(a, b) }

func (d *Default) StandardFunctionReturnType(name string, crType plctype.PlcType) (plctype.PlcType, bool) {
	fn, ok := d.StdFuncs[name]
	if !ok {
		return plctype.PlcType{}, false
	}
	if fn.ReturnTypeOf != nil {
		return fn.ReturnTypeOf(crType), true
	}
	return fn.ReturnType, true
}
