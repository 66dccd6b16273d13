/*
   IL code generator - the operator lowering table (§4.2).

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
	"github.com/Foadsf/matiec/internal/ilast"
	"github.com/Foadsf/matiec/internal/plctype"
	"github.com/Foadsf/matiec/internal/typequery"
)

// modifierKind is the opcode's C/CN decoration, which guards execution
// on the CR being true or false respectively.
type modifierKind uint8

const (
	modNone modifierKind = iota
	modC
	modCN
)

// typeRule names the precondition/emission family an opcode belongs
// to; lower() switches on it rather than storing a closure per entry,
// matching the table-plus-switch shape of a disassembler's opcode map.
type typeRule uint8

const (
	ruleLoad typeRule = iota
	ruleLoadNeg
	ruleStore
	ruleStoreNeg
	ruleNot
	ruleSetReset
	ruleBitwise
	ruleBitwiseNeg
	ruleAddSub
	ruleMul
	ruleDivMod
	ruleCompare
)

// opEntry is one row of the operator table: static metadata plus the
// rule that drives the emission shape.
type opEntry struct {
	Mnemonic string
	Arity    int // 0 = no operand (NOT), 1 = one operand
	Modifier modifierKind
	Rule     typeRule
}

var opTable = map[ilast.Opcode]opEntry{
	ilast.LD:   {"LD", 1, modNone, ruleLoad},
	ilast.LDN:  {"LDN", 1, modNone, ruleLoadNeg},
	ilast.ST:   {"ST", 1, modNone, ruleStore},
	ilast.STN:  {"STN", 1, modNone, ruleStoreNeg},
	ilast.NOT:  {"NOT", 0, modNone, ruleNot},
	ilast.S:    {"S", 1, modC, ruleSetReset},
	ilast.R:    {"R", 1, modC, ruleSetReset},
	ilast.AND:  {"AND", 1, modNone, ruleBitwise},
	ilast.OR:   {"OR", 1, modNone, ruleBitwise},
	ilast.XOR:  {"XOR", 1, modNone, ruleBitwise},
	ilast.ANDN: {"ANDN", 1, modNone, ruleBitwiseNeg},
	ilast.ORN:  {"ORN", 1, modNone, ruleBitwiseNeg},
	ilast.XORN: {"XORN", 1, modNone, ruleBitwiseNeg},
	ilast.ADD:  {"ADD", 1, modNone, ruleAddSub},
	ilast.SUB:  {"SUB", 1, modNone, ruleAddSub},
	ilast.MUL:  {"MUL", 1, modNone, ruleMul},
	ilast.DIV:  {"DIV", 1, modNone, ruleDivMod},
	ilast.MOD:  {"MOD", 1, modNone, ruleDivMod},
	ilast.GT:   {"GT", 1, modNone, ruleCompare},
	ilast.GE:   {"GE", 1, modNone, ruleCompare},
	ilast.EQ:   {"EQ", 1, modNone, ruleCompare},
	ilast.LE:   {"LE", 1, modNone, ruleCompare},
	ilast.LT:   {"LT", 1, modNone, ruleCompare},
	ilast.NE:   {"NE", 1, modNone, ruleCompare},
}

var bitwiseSymbol = map[ilast.Opcode]string{
	ilast.AND: "&", ilast.ANDN: "&",
	ilast.OR: "|", ilast.ORN: "|",
	ilast.XOR: "^", ilast.XORN: "^",
}


// lowerSimple emits the non-control-flow, non-call instructions of
// §4.2: LD, LDN, ST, STN, NOT, S, R, the bitwise family, arithmetic,
// and comparisons. cr is mutated in place; operand/operandType are nil
// for NOT, which takes no operand.
func lowerSimple(out *sinkWriter, cr *CR, policy Policy, q typequery.Service,
	op ilast.Opcode, operand *ilast.Operand, operandType plctype.PlcType, pos ilast.Pos) error {

	entry, ok := opTable[op]
	if !ok {
		return newErr(MalformedAST, op, pos, "unknown opcode")
	}
	if entry.Arity == 1 && operand == nil {
		return newErr(MalformedAST, op, pos, "opcode requires an operand")
	}

	switch entry.Rule {
	case ruleLoad:
		cr.Load(operandType)
		out.writeAssign(cr.RenderAccess(policy), renderOperand(*operand))

	case ruleLoadNeg:
		if !(q.IsBool(operandType) || q.IsBinary(operandType)) {
			return newErr(TypeRuleViolation, op, pos, "LDN operand must be BOOL or binary").withTypes(plctype.PlcType{}, operandType)
		}
		cr.Load(operandType)
		out.writeAssign(cr.RenderAccess(policy), negate(q, operandType, renderOperand(*operand)))

	case ruleStore:
		if t, ok := cr.PeekType(); !ok {
			return newErr(MalformedAST, op, pos, "ST with undefined CR").withTypes(t, operandType)
		}
		out.writeAssign(renderOperand(*operand), cr.RenderAccess(policy))

	case ruleStoreNeg:
		t, ok := cr.PeekType()
		if !ok {
			return newErr(MalformedAST, op, pos, "STN with undefined CR")
		}
		if !(q.IsBool(t) || q.IsBinary(t)) {
			return newErr(TypeRuleViolation, op, pos, "STN requires CR BOOL or binary").withTypes(t, operandType)
		}
		out.writeAssign(renderOperand(*operand), negate(q, t, cr.RenderAccess(policy)))

	case ruleNot:
		t, ok := cr.PeekType()
		if !ok {
			return newErr(MalformedAST, op, pos, "NOT with undefined CR")
		}
		if !(q.IsBool(t) || q.IsBinary(t)) {
			return newErr(TypeRuleViolation, op, pos, "NOT requires CR BOOL or binary").withTypes(t, plctype.PlcType{})
		}
		access := cr.RenderAccess(policy)
		out.writeAssign(access, negate(q, t, access))

	case ruleSetReset:
		if !(q.IsBool(operandType) || q.IsBinary(operandType)) {
			return newErr(TypeRuleViolation, op, pos, "S/R operand must be BOOL or binary").withTypes(plctype.PlcType{}, operandType)
		}
		if _, ok := cr.PeekType(); !ok {
			return newErr(MalformedAST, op, pos, "S/R with undefined CR")
		}
		val := "1"
		if op == ilast.R {
			val = "0"
		}
		out.writeGuarded(cr.RenderAccess(policy), renderOperand(*operand), val)

	case ruleBitwise, ruleBitwiseNeg:
		t, ok := cr.PeekType()
		if !ok {
			return newErr(MalformedAST, op, pos, "bitwise op with undefined CR")
		}
		if !q.IsBinary(t) || !q.IsBinary(operandType) || !q.SameType(t, operandType) {
			return newErr(TypeRuleViolation, op, pos, "bitwise op requires matching binary types").withTypes(t, operandType)
		}
		rhs := renderOperand(*operand)
		if entry.Rule == ruleBitwiseNeg {
			rhs = negate(q, operandType, rhs)
		}
		access := cr.RenderAccess(policy)
		cr.SetType(operandType)
		out.writeCompound(access, bitwiseSymbol[op], rhs)

	case ruleAddSub:
		t, ok := cr.PeekType()
		if !ok {
			return newErr(MalformedAST, op, pos, "arithmetic op with undefined CR")
		}
		access := cr.RenderAccess(policy)
		switch {
		case q.IsTime(t) && q.IsTime(operandType):
			fn := policy.TimeAdd
			if op == ilast.SUB {
				fn = policy.TimeSub
			}
			cr.SetType(operandType)
			out.writeAssign(access, fn+"("+access+", "+renderOperand(*operand)+")")
		case q.IsNum(t) && q.IsNum(operandType) && q.SameType(t, operandType):
			sym := "+"
			if op == ilast.SUB {
				sym = "-"
			}
			cr.SetType(operandType)
			out.writeCompound(access, sym, renderOperand(*operand))
		default:
			return newErr(TypeRuleViolation, op, pos, "ADD/SUB requires same-type numeric or TIME/TIME").withTypes(t, operandType)
		}

	case ruleMul:
		t, ok := cr.PeekType()
		if !ok {
			return newErr(MalformedAST, op, pos, "MUL with undefined CR")
		}
		access := cr.RenderAccess(policy)
		switch {
		case q.IsTime(t) && q.IsInteger(operandType):
			cr.SetType(t)
			out.writeAssign(access, policy.TimeMul+"("+access+", "+renderOperand(*operand)+")")
		case q.IsNum(t) && q.IsNum(operandType) && q.SameType(t, operandType):
			cr.SetType(operandType)
			out.writeCompound(access, "*", renderOperand(*operand))
		default:
			return newErr(TypeRuleViolation, op, pos, "MUL requires same-type numeric or TIME*INT").withTypes(t, operandType)
		}

	case ruleDivMod:
		t, ok := cr.PeekType()
		if !ok {
			return newErr(MalformedAST, op, pos, "DIV/MOD with undefined CR")
		}
		if !q.IsNum(t) || !q.IsNum(operandType) || !q.SameType(t, operandType) {
			return newErr(TypeRuleViolation, op, pos, "DIV/MOD requires matching numeric types").withTypes(t, operandType)
		}
		sym := "/"
		if op == ilast.MOD {
			sym = "%"
		}
		access := cr.RenderAccess(policy)
		cr.SetType(operandType)
		out.writeCompound(access, sym, renderOperand(*operand))

	case ruleCompare:
		// The comparison intrinsic selector depends on the operand
		// type recorded *before* CR is overwritten with BOOL.
		t, ok := cr.PeekType()
		if !ok {
			return newErr(MalformedAST, op, pos, "comparison with undefined CR")
		}
		access := cr.RenderAccess(policy)
		rhs := renderOperand(*operand)
		cr.SetType(plctype.Bool)
		newAccess := cr.RenderAccess(policy)
		// The intrinsic selector is keyed on the operand's pre-comparison
		// type only, per the comparison-intrinsic contract of §6; the six
		// comparison opcodes share one naming family distinguished by
		// argument order/semantics in the surrounding intrinsic library.
		out.writeAssign(newAccess, policy.CmpPrefix+t.String()+"(2, "+access+", "+rhs+")")

	default:
		return newErr(MalformedAST, op, pos, "unhandled operator rule")
	}
	return nil
}

func negate(q typequery.Service, t plctype.PlcType, expr string) string {
	if q.IsBool(t) {
		return "!" + expr
	}
	return "~" + expr
}

func renderOperand(o ilast.Operand) string {
	if o.Kind == ilast.OperandConstant {
		return o.Literal
	}
	return o.Name
}
