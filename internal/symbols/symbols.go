/*
   Symbols - read-only declaration tables for functions, function-block
   types and function-block instances.

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

// Package symbols is a minimal, in-memory stand-in for the upstream
// declaration symbol tables (§1 external collaborators): function
// signatures, function-block type signatures, and the mapping from an
// FB instance name to its declared type. The real compiler's tables
// are far larger; the code generator only ever reads the shapes here.
package symbols

import "github.com/Foadsf/matiec/internal/plctype"

// Param is one formal parameter of a function or FB type.
type Param struct {
	Name      string
	Type      plctype.PlcType
	Direction ParamDirection
	Default   string // rendered default literal, empty if none declared
}

// ParamDirection is a formal parameter's passing mode. Call-site Args
// carry no direction of their own; direction is a property of the
// declared formal they resolve against.
type ParamDirection uint8

const (
	In ParamDirection = iota
	Out
	InOut
	ExtRef
)

// FuncDecl is a function's signature: ordered formals and return type.
type FuncDecl struct {
	Name       string
	Params     []Param
	ReturnType plctype.PlcType
}

// FBTypeDecl is a function-block type's signature: ordered formals.
// FB calls have no return type; OUT/INOUT formals become instance
// fields copied back to the caller.
type FBTypeDecl struct {
	Name   string
	Params []Param
}

// Table is the read-only set of declarations consulted during
// emission of one compilation unit.
type Table struct {
	Functions   map[string]FuncDecl
	FBTypes     map[string]FBTypeDecl
	FBInstances map[string]string // instance name -> FB type name
}

// NewTable builds an empty table ready for population by a loader.
func NewTable() *Table {
	return &Table{
		Functions:   map[string]FuncDecl{},
		FBTypes:     map[string]FBTypeDecl{},
		FBInstances: map[string]string{},
	}
}

// FindFunction resolves a function name.
func (t *Table) FindFunction(name string) (FuncDecl, bool) {
	d, ok := t.Functions[name]
	return d, ok
}

// FindFBType resolves an FB type name.
func (t *Table) FindFBType(name string) (FBTypeDecl, bool) {
	d, ok := t.FBTypes[name]
	return d, ok
}

// FBInstanceType resolves an FB instance name to its declared type name.
func (t *Table) FBInstanceType(instance string) (string, bool) {
	n, ok := t.FBInstances[instance]
	return n, ok
}
