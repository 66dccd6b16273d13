/*
   IL code generator - call lowering (§4.3): function calls and
   function-block calls.

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
	"strings"

	"github.com/Foadsf/matiec/internal/ilast"
	"github.com/Foadsf/matiec/internal/plctype"
	"github.com/Foadsf/matiec/internal/symbols"
)

// resolvedArg is the concrete value to render for one formal
// parameter, computed by the resolveArgs pre-pass. Keeping this as a
// pure pre-pass (no sink writes) separates "decide what to emit" from
// "render it", per the redesign note in §9.
type resolvedArg struct {
	Param symbols.Param
	Value string
}

// resolveArgs computes, for each formal of params, the concrete value
// to emit: caller value by name, else by next positional slot, else
// the formal's declared default, else the type's canonical default
// (IN only); for OUT/INOUT either the caller's variable or a fresh
// temporary from factory. EXTREF is rejected outright.
func resolveArgs(params []symbols.Param, args []ilast.Arg, factory *TempFactory, pos ilast.Pos) ([]resolvedArg, error) {
	named := map[string]ilast.Arg{}
	var positional []ilast.Arg
	for _, a := range args {
		if a.Name != "" {
			named[a.Name] = a
		} else {
			positional = append(positional, a)
		}
	}

	out := make([]resolvedArg, 0, len(params))
	posCursor := 0
	for _, p := range params {
		if p.Direction == symbols.ExtRef {
			return nil, newErr(UnsupportedFeature, "", pos, "EXTREF parameter direction is not supported (param %q)", p.Name)
		}

		a, hasNamed := named[p.Name]
		var supplied *ilast.Arg
		if hasNamed {
			supplied = &a
		} else if posCursor < len(positional) {
			supplied = &positional[posCursor]
			posCursor++
		}

		switch p.Direction {
		case symbols.In:
			if supplied != nil {
				out = append(out, resolvedArg{p, renderOperand(supplied.Value)})
			} else if p.Default != "" {
				out = append(out, resolvedArg{p, p.Default})
			} else {
				out = append(out, resolvedArg{p, plctype.Default(p.Type)})
			}
		case symbols.Out, symbols.InOut:
			if supplied != nil {
				out = append(out, resolvedArg{p, renderOperand(supplied.Value)})
			} else {
				out = append(out, resolvedArg{p, factory.Next()})
			}
		}
	}
	return out, nil
}

// lowerFuncCall emits a user-function or standard-function call,
// through the same rendering path: "CR := fname(arg1, …, argn)" where
// the first argument is the current CR. The CR type becomes the
// function's declared return type.
func lowerFuncCall(out *sinkWriter, cr *CR, policy Policy, factory *TempFactory,
	funcName string, args []ilast.Arg, decl symbols.FuncDecl, pos ilast.Pos) error {

	if _, ok := cr.PeekType(); !ok {
		return newErr(MalformedAST, "CAL", pos, "function call with undefined CR")
	}
	resolved, err := resolveArgs(decl.Params, args, factory, pos)
	if err != nil {
		return err
	}
	rendered := make([]string, 0, len(resolved)+1)
	rendered = append(rendered, cr.RenderAccess(policy))
	for _, r := range resolved {
		rendered = append(rendered, r.Value)
	}
	cr.SetType(decl.ReturnType)
	out.writeAssign(cr.RenderAccess(policy), funcName+"("+strings.Join(rendered, ", ")+")")
	return nil
}

// fbCallKind is the CAL/CALC/CALCN guard variant.
type fbCallKind uint8

const (
	FBCallUnguarded fbCallKind = iota
	FBCallGuardedTrue
	FBCallGuardedFalse
)

// lowerFBCall emits a braced block assigning each supplied IN/INOUT
// parameter into the instance's field, invoking the FB's step
// function by reference, then assigning each OUT/INOUT field back to
// the caller's variable when one was supplied. CR type is unaffected.
func lowerFBCall(out *sinkWriter, cr *CR, policy Policy,
	kind fbCallKind, instance string, args []ilast.Arg, decl symbols.FBTypeDecl, pos ilast.Pos) error {

	guard := ""
	switch kind {
	case FBCallGuardedTrue:
		if _, ok := cr.PeekType(); !ok {
			return newErr(MalformedAST, "CALC", pos, "CALC with undefined CR")
		}
		guard = cr.RenderAccess(policy)
	case FBCallGuardedFalse:
		if _, ok := cr.PeekType(); !ok {
			return newErr(MalformedAST, "CALCN", pos, "CALCN with undefined CR")
		}
		guard = "!" + cr.RenderAccess(policy)
	}

	if guard != "" {
		out.raw("if (" + guard + ") {")
	} else {
		out.raw("{")
	}
	out.newline()
	out.indentRight()

	named := map[string]ilast.Arg{}
	var positional []ilast.Arg
	for _, a := range args {
		if a.Name != "" {
			named[a.Name] = a
		} else {
			positional = append(positional, a)
		}
	}
	posCursor := 0
	suppliedFor := make([]*ilast.Arg, len(decl.Params))
	for i, p := range decl.Params {
		if a, ok := named[p.Name]; ok {
			suppliedFor[i] = &a
		} else if posCursor < len(positional) {
			suppliedFor[i] = &positional[posCursor]
			posCursor++
		}
	}

	for i, p := range decl.Params {
		if p.Direction == symbols.ExtRef {
			return newErr(UnsupportedFeature, "CAL", pos, "EXTREF parameter direction is not supported (param %q)", p.Name)
		}
		if p.Direction == symbols.In || p.Direction == symbols.InOut {
			if suppliedFor[i] != nil {
				out.writeAssign(instance+"."+p.Name, renderOperand(suppliedFor[i].Value))
			}
		}
	}

	out.writeStmt(decl.Name + policy.FBBodySuffix + "(&" + instance + ")")

	for i, p := range decl.Params {
		if (p.Direction == symbols.Out || p.Direction == symbols.InOut) && suppliedFor[i] != nil {
			out.writeAssign(renderOperand(suppliedFor[i].Value), instance+"."+p.Name)
		}
	}

	out.indentLeft()
	out.raw("}")
	out.newline()
	return nil
}
