/*
   IL AST - the typed Instruction List node shapes consumed by the
   code generator.

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

// Package ilast holds the node shapes of an already-typed Instruction
// List AST: the external collaborator the code generator walks. The
// real upstream parser builds these; this package only describes the
// shape so the generator, and its tests, can construct them directly.
package ilast

import "github.com/Foadsf/matiec/internal/plctype"

// Pos locates a node in the original source for diagnostics.
type Pos struct {
	Line, Col int
}

// Opcode is one member of the closed IL opcode set.
type Opcode string

const (
	LD    Opcode = "LD"
	LDN   Opcode = "LDN"
	ST    Opcode = "ST"
	STN   Opcode = "STN"
	NOT   Opcode = "NOT"
	S     Opcode = "S"
	R     Opcode = "R"
	AND   Opcode = "AND"
	OR    Opcode = "OR"
	XOR   Opcode = "XOR"
	ANDN  Opcode = "ANDN"
	ORN   Opcode = "ORN"
	XORN  Opcode = "XORN"
	ADD   Opcode = "ADD"
	SUB   Opcode = "SUB"
	MUL   Opcode = "MUL"
	DIV   Opcode = "DIV"
	MOD   Opcode = "MOD"
	GT    Opcode = "GT"
	GE    Opcode = "GE"
	EQ    Opcode = "EQ"
	LE    Opcode = "LE"
	LT    Opcode = "LT"
	NE    Opcode = "NE"
	JMP   Opcode = "JMP"
	JMPC  Opcode = "JMPC"
	JMPCN Opcode = "JMPCN"
	RET   Opcode = "RET"
	RETC  Opcode = "RETC"
	RETCN Opcode = "RETCN"
	CAL   Opcode = "CAL"
	CALC  Opcode = "CALC"
	CALCN Opcode = "CALCN"

	// FB parameter-binding pseudo-operators: valid only inside a CAL
	// argument list, where they name a single FB input port.
	S1  Opcode = "S1"
	R1  Opcode = "R1"
	CLK Opcode = "CLK"
	CU  Opcode = "CU"
	CD  Opcode = "CD"
	PV  Opcode = "PV"
	IN  Opcode = "IN"
	PT  Opcode = "PT"
)

// OperandKind distinguishes a literal from a variable reference.
type OperandKind uint8

const (
	OperandConstant OperandKind = iota
	OperandVariable
)

// Operand is either a Constant (literal + its type) or a Variable
// reference (symbolic name, resolved to a type via the scope).
type Operand struct {
	Kind    OperandKind
	Literal string         // set when Kind == OperandConstant
	Type    plctype.PlcType // set when Kind == OperandConstant; else resolved via scope
	Name    string         // set when Kind == OperandVariable; dotted path allowed
	Pos     Pos
}

// Arg is one actual argument in a call, either positional (Name == "")
// or formal ("name := value").
type Arg struct {
	Name  string
	Value Operand
}

// InstrKind discriminates the Instruction sum type.
type InstrKind uint8

const (
	InstrLabelOnly InstrKind = iota
	InstrSimple
	InstrJump
	InstrReturn
	InstrFuncCall
	InstrFBCall
	InstrExpression
)

// Instruction is one line of an IL list. Only the fields relevant to
// Kind are populated; the rest are zero.
type Instruction struct {
	Kind  InstrKind
	Label string // optional label preceding this instruction
	Pos   Pos

	Op Opcode

	// InstrSimple
	Operand *Operand // nil for bare operators (NOT, RET, ...)

	// InstrJump
	JumpLabel string

	// InstrFuncCall
	FuncName string
	Args     []Arg

	// InstrFBCall
	FBInstance string

	// InstrExpression: op ( initialOperand ; inner... )
	InitialOperand *Operand
	Inner          []Instruction
}

// Routine is a sequence of Instructions plus the enclosing scope.
type Routine struct {
	Name  string
	List  []Instruction
	Scope Scope
}

// Scope locates the enclosing function/FB/program for variable and
// instance lookups. The real upstream scope is far richer; the code
// generator only ever needs these two query points.
type Scope interface {
	// VariableType resolves a dotted variable path to its PlcType.
	VariableType(name string) (plctype.PlcType, bool)
	// FBInstanceTypeName resolves an FB instance name to its declared
	// FB type name (for lookup in the FB type table).
	FBInstanceTypeName(instance string) (string, bool)
}
