/*
   IL code generator - the instruction walker (§4.4): the single-pass
   emitter that drives a routine's IL list through the operator table
   and call lowering.

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
	"github.com/Foadsf/matiec/internal/symbols"
	"github.com/Foadsf/matiec/internal/typequery"
)

// Generator holds the collaborators the walker needs for one
// compilation unit: a type query service and a read-only declaration
// table. It is safe to reuse across routines; each Emit call gets its
// own CR, backup CR and temp factory.
type Generator struct {
	Query   typequery.Service
	Symbols *symbols.Table
	Policy  Policy
}

// NewGenerator builds a Generator with the default naming policy.
func NewGenerator(q typequery.Service, syms *symbols.Table) *Generator {
	return &Generator{Query: q, Symbols: syms, Policy: DefaultPolicy()}
}

// Emit walks routine.List and writes the emitted fragment to out. It
// declares the backup CR and primary CR, walks every instruction, then
// emits the end label and its no-op trailing statement.
func (g *Generator) Emit(routine ilast.Routine, out *emitsink.Sink) error {
	w := newSinkWriter(out)
	cr := NewCR(g.Policy.CRName)
	backup := NewCR(g.Policy.CRBackupName)
	factory := NewTempFactory("IL_TEMP_VAR_" + routine.Name)

	w.raw("{ " + declUnionType() + " " + cr.Name + ", " + backup.Name + ";")
	w.newline()

	if err := g.walkList(routine.List, routine.Scope, cr, backup, factory, w); err != nil {
		return err
	}

	w.writeLabel(g.Policy.EndLabel)
	if cr.Valid {
		access := cr.RenderAccess(g.Policy)
		w.writeAssign(access, access)
	} else {
		w.writeStmt("/* no-op */")
	}
	w.raw("}")
	w.newline()
	return out.Err
}

// declUnionType names the CR's emitted union type; a real integration
// wires this to the surrounding type-declaration generator's chosen
// name instead.
func declUnionType() string { return "IL_DEFVAR_T" }

// walkList drives one IL list (top-level or nested) over cr, emitting
// each instruction in order.
func (g *Generator) walkList(list []ilast.Instruction, scope ilast.Scope, cr, backup *CR, factory *TempFactory, w *sinkWriter) error {
	for i := range list {
		if err := g.walkOne(&list[i], scope, cr, backup, factory, w); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) walkOne(instr *ilast.Instruction, scope ilast.Scope, cr, backup *CR, factory *TempFactory, w *sinkWriter) error {
	if instr.Label != "" {
		w.writeLabel(instr.Label)
	}

	switch instr.Kind {
	case ilast.InstrLabelOnly:
		return nil

	case ilast.InstrSimple:
		var operandType plctype.PlcType
		if instr.Operand != nil {
			t, err := g.Query.TypeOf(*instr.Operand, scope)
			if err != nil {
				e := newErr(MalformedAST, instr.Op, instr.Pos, "%v", err)
				e.Cause = err
				return e
			}
			operandType = t
		}
		return lowerSimple(w, cr, g.Policy, g.Query, instr.Op, instr.Operand, operandType, instr.Pos)

	case ilast.InstrJump:
		switch instr.Op {
		case ilast.JMP:
			w.writeGoto(instr.JumpLabel)
			return nil
		case ilast.JMPC, ilast.JMPCN:
			t, ok := cr.PeekType()
			if !ok || !g.Query.IsBool(t) {
				return newErr(TypeRuleViolation, instr.Op, instr.Pos, "JMPC/JMPCN requires CR BOOL").withTypes(t, plctype.PlcType{})
			}
			cond := cr.RenderAccess(g.Policy)
			if instr.Op == ilast.JMPCN {
				cond = "!" + cond
			}
			w.writeGuardedGoto(cond, instr.JumpLabel)
			return nil
		}
		return newErr(MalformedAST, instr.Op, instr.Pos, "unknown jump opcode")

	case ilast.InstrReturn:
		switch instr.Op {
		case ilast.RET:
			w.writeGoto(g.Policy.EndLabel)
			return nil
		case ilast.RETC, ilast.RETCN:
			t, ok := cr.PeekType()
			if !ok || !g.Query.IsBool(t) {
				return newErr(TypeRuleViolation, instr.Op, instr.Pos, "RETC/RETCN requires CR BOOL").withTypes(t, plctype.PlcType{})
			}
			cond := cr.RenderAccess(g.Policy)
			if instr.Op == ilast.RETCN {
				cond = "!" + cond
			}
			w.writeGuardedGoto(cond, g.Policy.EndLabel)
			return nil
		}
		return newErr(MalformedAST, instr.Op, instr.Pos, "unknown return opcode")

	case ilast.InstrFuncCall:
		return g.walkFuncCall(instr, scope, cr, factory, w)

	case ilast.InstrFBCall:
		return g.walkFBCall(instr, cr, w)

	case ilast.InstrExpression:
		return g.walkExpression(instr, scope, cr, backup, factory, w)
	}
	return newErr(MalformedAST, instr.Op, instr.Pos, "unknown instruction kind")
}

func (g *Generator) walkFuncCall(instr *ilast.Instruction, scope ilast.Scope, cr *CR, factory *TempFactory, w *sinkWriter) error {
	if decl, ok := g.Symbols.FindFunction(instr.FuncName); ok {
		return lowerFuncCall(w, cr, g.Policy, factory, instr.FuncName, instr.Args, decl, instr.Pos)
	}
	crType, _ := cr.PeekType()
	retType, ok := g.Query.StandardFunctionReturnType(instr.FuncName, crType)
	if !ok {
		return newErr(ResolutionFailure, instr.Op, instr.Pos, "function %q is not declared and is not a standard function", instr.FuncName)
	}
	// Standard functions are lowered through the same rendering path
	// as user functions (§4.3 / §9): a minimal single-IN-parameter
	// decl stands in for the canonical formal name the standard
	// function service would otherwise supply.
	decl := symbols.FuncDecl{
		Name:       instr.FuncName,
		ReturnType: retType,
		Params:     []symbols.Param{{Name: "IN", Type: crType, Direction: symbols.In}},
	}
	return lowerFuncCall(w, cr, g.Policy, factory, instr.FuncName, instr.Args, decl, instr.Pos)
}

func (g *Generator) walkFBCall(instr *ilast.Instruction, cr *CR, w *sinkWriter) error {
	typeName, ok := g.Symbols.FBInstanceType(instr.FBInstance)
	if !ok {
		return newErr(ResolutionFailure, instr.Op, instr.Pos, "FB instance %q has no declared type", instr.FBInstance)
	}
	decl, ok := g.Symbols.FindFBType(typeName)
	if !ok {
		return newErr(ResolutionFailure, instr.Op, instr.Pos, "FB type %q is not declared", typeName)
	}
	kind := FBCallUnguarded
	switch instr.Op {
	case ilast.CALC:
		kind = FBCallGuardedTrue
	case ilast.CALCN:
		kind = FBCallGuardedFalse
	}
	return lowerFBCall(w, cr, g.Policy, kind, instr.FBInstance, instr.Args, decl, instr.Pos)
}

// walkExpression lowers a parenthesised sub-expression: the outer CR
// type is saved, the inner list runs in a fresh nested scope seeded
// with "LD initialOperand", and the inner result is returned as an
// explicit value (never a shared field) to be combined by the outer
// operator.
func (g *Generator) walkExpression(instr *ilast.Instruction, scope ilast.Scope, outerCR, backup *CR, factory *TempFactory, w *sinkWriter) error {
	outerType, outerValid := outerCR.PeekType()

	innerName, innerType, err := g.walkNested(instr.InitialOperand, instr.Inner, scope, factory, w)
	if err != nil {
		return err
	}

	backup.Reset()
	if outerValid {
		outerCR.SetType(outerType)
	}
	backup.SetType(innerType)
	w.writeStmt(backup.Name + " = " + innerName)

	fakeOperand := ilast.Operand{Kind: ilast.OperandVariable, Name: backup.RenderAccess(g.Policy)}
	return lowerSimple(w, outerCR, g.Policy, g.Query, instr.Op, &fakeOperand, innerType, instr.Pos)
}

// walkNested opens a brace scope with a fresh CR, optionally seeded by
// "LD initialOperand", walks the inner instructions, and returns the
// inner CR's variable name and final type — an explicit return value
// rather than a field stashed on a sibling object (§9).
func (g *Generator) walkNested(initial *ilast.Operand, inner []ilast.Instruction, scope ilast.Scope, factory *TempFactory, w *sinkWriter) (string, plctype.PlcType, error) {
	w.raw("{ " + declUnionType() + " IL_DEFVAR_INNER;")
	w.newline()
	w.indentRight()

	innerCR := NewCR("IL_DEFVAR_INNER")
	innerBackup := NewCR("IL_DEFVAR_INNER_BACK")

	if initial != nil {
		t, err := g.Query.TypeOf(*initial, scope)
		if err != nil {
			e := newErr(MalformedAST, ilast.LD, initial.Pos, "%v", err)
			e.Cause = err
			return "", plctype.PlcType{}, e
		}
		if err := lowerSimple(w, innerCR, g.Policy, g.Query, ilast.LD, initial, t, initial.Pos); err != nil {
			return "", plctype.PlcType{}, err
		}
	}

	if err := g.walkList(inner, scope, innerCR, innerBackup, factory, w); err != nil {
		return "", plctype.PlcType{}, err
	}

	w.indentLeft()
	w.raw("}")
	w.newline()

	t, ok := innerCR.PeekType()
	if !ok {
		return "", plctype.PlcType{}, newErr(MalformedAST, "", ilast.Pos{}, "nested expression left CR undefined")
	}
	return innerCR.Name, t, nil
}
