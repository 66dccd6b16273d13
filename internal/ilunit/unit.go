/*
   Ilunit - JSON decoding of one compilation unit: routines, the
   enclosing scope's variable table, and the function/FB declaration
   tables, standing in for the upstream parser's in-memory AST.

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

package ilunit

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/Foadsf/matiec/internal/ilast"
	"github.com/Foadsf/matiec/internal/plctype"
	"github.com/Foadsf/matiec/internal/symbols"
)

// Unit is the top-level JSON shape of one compilation unit: the
// variable scope, the declaration tables, and one or more routines.
type Unit struct {
	Variables map[string]string    `json:"variables"`
	Functions []funcDeclDTO        `json:"functions"`
	FBTypes   []fbTypeDeclDTO      `json:"fb_types"`
	FBInst    map[string]string    `json:"fb_instances"`
	Routines  []routineDTO         `json:"routines"`
}

type paramDTO struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Direction string `json:"direction"`
	Default   string `json:"default,omitempty"`
}

type funcDeclDTO struct {
	Name       string     `json:"name"`
	ReturnType string     `json:"return_type"`
	Params     []paramDTO `json:"params"`
}

type fbTypeDeclDTO struct {
	Name   string     `json:"name"`
	Params []paramDTO `json:"params"`
}

type operandDTO struct {
	Kind    string `json:"kind"` // "const" | "var"
	Literal string `json:"literal,omitempty"`
	Type    string `json:"type,omitempty"`
	Name    string `json:"name,omitempty"`
}

type argDTO struct {
	Name  string     `json:"name,omitempty"`
	Value operandDTO `json:"value"`
}

type instructionDTO struct {
	Kind           string           `json:"kind"`
	Label          string           `json:"label,omitempty"`
	Op             string           `json:"op,omitempty"`
	Operand        *operandDTO      `json:"operand,omitempty"`
	JumpLabel      string           `json:"jump_label,omitempty"`
	FuncName       string           `json:"func_name,omitempty"`
	Args           []argDTO         `json:"args,omitempty"`
	FBInstance     string           `json:"fb_instance,omitempty"`
	InitialOperand *operandDTO      `json:"initial_operand,omitempty"`
	Inner          []instructionDTO `json:"inner,omitempty"`
}

type routineDTO struct {
	Name string           `json:"name"`
	List []instructionDTO `json:"list"`
}

// Decode reads and converts one Unit from r.
func Decode(r io.Reader) (*symbols.Table, []ilast.Routine, error) {
	var u Unit
	if err := json.NewDecoder(r).Decode(&u); err != nil {
		return nil, nil, errors.Wrap(err, "ilunit: decode failed")
	}

	vars := map[string]plctype.PlcType{}
	for name, typeName := range u.Variables {
		t, err := parseType(typeName)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "ilunit: variable %q", name)
		}
		vars[name] = t
	}
	scope := &mapScope{vars: vars, fbInstances: u.FBInst}

	syms := symbols.NewTable()
	for _, f := range u.Functions {
		decl, err := convertFuncDecl(f)
		if err != nil {
			return nil, nil, err
		}
		syms.Functions[f.Name] = decl
	}
	for _, fb := range u.FBTypes {
		decl, err := convertFBTypeDecl(fb)
		if err != nil {
			return nil, nil, err
		}
		syms.FBTypes[fb.Name] = decl
	}
	for inst, typeName := range u.FBInst {
		syms.FBInstances[inst] = typeName
	}

	routines := make([]ilast.Routine, 0, len(u.Routines))
	for _, rd := range u.Routines {
		list, err := convertInstructions(rd.List)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "ilunit: routine %q", rd.Name)
		}
		routines = append(routines, ilast.Routine{Name: rd.Name, List: list, Scope: scope})
	}
	return syms, routines, nil
}

func convertFuncDecl(f funcDeclDTO) (symbols.FuncDecl, error) {
	ret, err := parseType(f.ReturnType)
	if err != nil {
		return symbols.FuncDecl{}, errors.Wrapf(err, "function %q return type", f.Name)
	}
	params, err := convertParams(f.Params)
	if err != nil {
		return symbols.FuncDecl{}, errors.Wrapf(err, "function %q", f.Name)
	}
	return symbols.FuncDecl{Name: f.Name, Params: params, ReturnType: ret}, nil
}

func convertFBTypeDecl(fb fbTypeDeclDTO) (symbols.FBTypeDecl, error) {
	params, err := convertParams(fb.Params)
	if err != nil {
		return symbols.FBTypeDecl{}, errors.Wrapf(err, "FB type %q", fb.Name)
	}
	return symbols.FBTypeDecl{Name: fb.Name, Params: params}, nil
}

func convertParams(in []paramDTO) ([]symbols.Param, error) {
	out := make([]symbols.Param, 0, len(in))
	for _, p := range in {
		t, err := parseType(p.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "param %q", p.Name)
		}
		dir, err := parseDirection(p.Direction)
		if err != nil {
			return nil, errors.Wrapf(err, "param %q", p.Name)
		}
		out = append(out, symbols.Param{Name: p.Name, Type: t, Direction: dir, Default: p.Default})
	}
	return out, nil
}

func parseDirection(s string) (symbols.ParamDirection, error) {
	switch s {
	case "", "IN":
		return symbols.In, nil
	case "OUT":
		return symbols.Out, nil
	case "INOUT":
		return symbols.InOut, nil
	case "EXTREF":
		return symbols.ExtRef, nil
	default:
		return 0, fmt.Errorf("unknown parameter direction %q", s)
	}
}

func parseType(s string) (plctype.PlcType, error) {
	switch s {
	case "BOOL":
		return plctype.Bool, nil
	case "SINT":
		return plctype.Sint, nil
	case "INT":
		return plctype.Int, nil
	case "DINT":
		return plctype.Dint, nil
	case "LINT":
		return plctype.Lint, nil
	case "USINT":
		return plctype.Usint, nil
	case "UINT":
		return plctype.Uint, nil
	case "UDINT":
		return plctype.Udint, nil
	case "ULINT":
		return plctype.Ulint, nil
	case "REAL":
		return plctype.Real, nil
	case "LREAL":
		return plctype.Lreal, nil
	case "TIME":
		return plctype.Time, nil
	case "STRING":
		return plctype.Str, nil
	default:
		return plctype.PlcType{}, fmt.Errorf("unknown type %q", s)
	}
}

func convertOperand(o *operandDTO) (*ilast.Operand, error) {
	if o == nil {
		return nil, nil
	}
	switch o.Kind {
	case "const":
		t, err := parseType(o.Type)
		if err != nil {
			return nil, err
		}
		return &ilast.Operand{Kind: ilast.OperandConstant, Literal: o.Literal, Type: t}, nil
	case "var", "":
		return &ilast.Operand{Kind: ilast.OperandVariable, Name: o.Name}, nil
	default:
		return nil, fmt.Errorf("unknown operand kind %q", o.Kind)
	}
}

func convertArgs(in []argDTO) ([]ilast.Arg, error) {
	out := make([]ilast.Arg, 0, len(in))
	for _, a := range in {
		v, err := convertOperand(&a.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, ilast.Arg{Name: a.Name, Value: *v})
	}
	return out, nil
}

func convertInstructions(in []instructionDTO) ([]ilast.Instruction, error) {
	out := make([]ilast.Instruction, 0, len(in))
	for _, d := range in {
		instr, err := convertInstruction(d)
		if err != nil {
			return nil, err
		}
		out = append(out, instr)
	}
	return out, nil
}

func convertInstruction(d instructionDTO) (ilast.Instruction, error) {
	operand, err := convertOperand(d.Operand)
	if err != nil {
		return ilast.Instruction{}, err
	}
	initial, err := convertOperand(d.InitialOperand)
	if err != nil {
		return ilast.Instruction{}, err
	}
	args, err := convertArgs(d.Args)
	if err != nil {
		return ilast.Instruction{}, err
	}
	inner, err := convertInstructions(d.Inner)
	if err != nil {
		return ilast.Instruction{}, err
	}

	var kind ilast.InstrKind
	switch d.Kind {
	case "label":
		kind = ilast.InstrLabelOnly
	case "simple":
		kind = ilast.InstrSimple
	case "jump":
		kind = ilast.InstrJump
	case "return":
		kind = ilast.InstrReturn
	case "func_call":
		kind = ilast.InstrFuncCall
	case "fb_call":
		kind = ilast.InstrFBCall
	case "expression":
		kind = ilast.InstrExpression
	default:
		return ilast.Instruction{}, fmt.Errorf("unknown instruction kind %q", d.Kind)
	}

	return ilast.Instruction{
		Kind:           kind,
		Label:          d.Label,
		Op:             ilast.Opcode(d.Op),
		Operand:        operand,
		JumpLabel:      d.JumpLabel,
		FuncName:       d.FuncName,
		Args:           args,
		FBInstance:     d.FBInstance,
		InitialOperand: initial,
		Inner:          inner,
	}, nil
}

type mapScope struct {
	vars        map[string]plctype.PlcType
	fbInstances map[string]string
}

func (m *mapScope) VariableType(name string) (plctype.PlcType, bool) {
	t, ok := m.vars[name]
	return t, ok
}

func (m *mapScope) FBInstanceTypeName(instance string) (string, bool) {
	n, ok := m.fbInstances[instance]
	return n, ok
}
