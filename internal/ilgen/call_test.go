package ilgen

import (
	"strings"
	"testing"

	"github.com/Foadsf/matiec/internal/emitsink"
	"github.com/Foadsf/matiec/internal/ilast"
	"github.com/Foadsf/matiec/internal/plctype"
	"github.com/Foadsf/matiec/internal/symbols"
)

func constOp(literal string, t plctype.PlcType) ilast.Operand {
	return ilast.Operand{Kind: ilast.OperandConstant, Literal: literal, Type: t}
}

func TestResolveArgsPositional(t *testing.T) {
	params := []symbols.Param{
		{Name: "a", Type: plctype.Int, Direction: symbols.In},
		{Name: "b", Type: plctype.Int, Direction: symbols.In},
	}
	args := []ilast.Arg{
		{Value: constOp("1", plctype.Int)},
		{Value: constOp("2", plctype.Int)},
	}
	resolved, err := resolveArgs(params, args, NewTempFactory(""), ilast.Pos{})
	if err != nil {
		t.Fatalf("resolveArgs failed: %v", err)
	}
	if len(resolved) != 2 || resolved[0].Value != "1" || resolved[1].Value != "2" {
		t.Errorf("unexpected resolution: %+v", resolved)
	}
}

func TestResolveArgsNamedOutOfOrder(t *testing.T) {
	params := []symbols.Param{
		{Name: "a", Type: plctype.Int, Direction: symbols.In},
		{Name: "b", Type: plctype.Int, Direction: symbols.In},
	}
	args := []ilast.Arg{
		{Name: "b", Value: constOp("2", plctype.Int)},
		{Name: "a", Value: constOp("1", plctype.Int)},
	}
	resolved, err := resolveArgs(params, args, NewTempFactory(""), ilast.Pos{})
	if err != nil {
		t.Fatalf("resolveArgs failed: %v", err)
	}
	if resolved[0].Param.Name != "a" || resolved[0].Value != "1" {
		t.Errorf("param a not resolved correctly: %+v", resolved[0])
	}
	if resolved[1].Param.Name != "b" || resolved[1].Value != "2" {
		t.Errorf("param b not resolved correctly: %+v", resolved[1])
	}
}

func TestResolveArgsMissingInUsesDeclaredDefault(t *testing.T) {
	params := []symbols.Param{
		{Name: "a", Type: plctype.Int, Direction: symbols.In, Default: "42"},
	}
	resolved, err := resolveArgs(params, nil, NewTempFactory(""), ilast.Pos{})
	if err != nil {
		t.Fatalf("resolveArgs failed: %v", err)
	}
	if resolved[0].Value != "42" {
		t.Errorf("Value = %q, want declared default 42", resolved[0].Value)
	}
}

func TestResolveArgsMissingInFallsBackToTypeDefault(t *testing.T) {
	params := []symbols.Param{
		{Name: "a", Type: plctype.Bool, Direction: symbols.In},
	}
	resolved, err := resolveArgs(params, nil, NewTempFactory(""), ilast.Pos{})
	if err != nil {
		t.Fatalf("resolveArgs failed: %v", err)
	}
	if resolved[0].Value != "FALSE" {
		t.Errorf("Value = %q, want type default FALSE", resolved[0].Value)
	}
}

func TestResolveArgsMissingOutAllocatesTemp(t *testing.T) {
	params := []symbols.Param{
		{Name: "lo", Type: plctype.Int, Direction: symbols.Out},
	}
	factory := NewTempFactory("IL_TEMP_VAR_r")
	resolved, err := resolveArgs(params, nil, factory, ilast.Pos{})
	if err != nil {
		t.Fatalf("resolveArgs failed: %v", err)
	}
	if resolved[0].Value != "IL_TEMP_VAR_r0" {
		t.Errorf("Value = %q, want a fresh temp", resolved[0].Value)
	}
}

func TestResolveArgsRejectsExtRef(t *testing.T) {
	params := []symbols.Param{
		{Name: "x", Type: plctype.Int, Direction: symbols.ExtRef},
	}
	_, err := resolveArgs(params, nil, NewTempFactory(""), ilast.Pos{})
	if err == nil {
		t.Fatal("expected an error for an EXTREF parameter")
	}
	ilErr, ok := err.(*Error)
	if !ok || ilErr.Kind != UnsupportedFeature {
		t.Errorf("expected an UnsupportedFeature *Error, got %v", err)
	}
}

func TestLowerFBCallOrdersAssignmentsByDeclaration(t *testing.T) {
	decl := symbols.FBTypeDecl{
		Name: "TON",
		Params: []symbols.Param{
			{Name: "IN", Type: plctype.Bool, Direction: symbols.In},
			{Name: "PT", Type: plctype.Time, Direction: symbols.In},
			{Name: "Q", Type: plctype.Bool, Direction: symbols.Out},
		},
	}
	args := []ilast.Arg{
		{Name: "Q", Value: ilast.Operand{Kind: ilast.OperandVariable, Name: "done"}},
		{Name: "IN", Value: ilast.Operand{Kind: ilast.OperandVariable, Name: "x"}},
		{Name: "PT", Value: constOp("T#1s", plctype.Time)},
	}

	cr := NewCR("IL_DEFVAR")
	var out strings.Builder
	sink := newSinkWriter(emitsink.New(&out))
	if err := lowerFBCall(sink, cr, DefaultPolicy(), FBCallUnguarded, "tmr", args, decl, ilast.Pos{}); err != nil {
		t.Fatalf("lowerFBCall failed: %v", err)
	}
	got := out.String()
	inIdx := strings.Index(got, "tmr.IN = x;")
	ptIdx := strings.Index(got, "tmr.PT = T#1s;")
	bodyIdx := strings.Index(got, "TON_body(&tmr);")
	qIdx := strings.Index(got, "done = tmr.Q;")
	if inIdx < 0 || ptIdx < 0 || bodyIdx < 0 || qIdx < 0 {
		t.Fatalf("missing expected statement(s) in output:\n%s", got)
	}
	if !(inIdx < ptIdx && ptIdx < bodyIdx && bodyIdx < qIdx) {
		t.Errorf("statements out of order:\n%s", got)
	}
}

func TestLowerFBCallPositionalBindsOutParameter(t *testing.T) {
	decl := symbols.FBTypeDecl{
		Name: "TON",
		Params: []symbols.Param{
			{Name: "IN", Type: plctype.Bool, Direction: symbols.In},
			{Name: "PT", Type: plctype.Time, Direction: symbols.In},
			{Name: "Q", Type: plctype.Bool, Direction: symbols.Out},
			{Name: "ET", Type: plctype.Time, Direction: symbols.Out},
		},
	}
	args := []ilast.Arg{
		{Value: ilast.Operand{Kind: ilast.OperandVariable, Name: "x"}},
		{Value: constOp("T#1s", plctype.Time)},
		{Value: ilast.Operand{Kind: ilast.OperandVariable, Name: "q_var"}},
		{Value: ilast.Operand{Kind: ilast.OperandVariable, Name: "et_var"}},
	}

	cr := NewCR("IL_DEFVAR")
	var out strings.Builder
	sink := newSinkWriter(emitsink.New(&out))
	if err := lowerFBCall(sink, cr, DefaultPolicy(), FBCallUnguarded, "tmr", args, decl, ilast.Pos{}); err != nil {
		t.Fatalf("lowerFBCall failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "tmr.IN = x;") {
		t.Errorf("missing positional IN binding in output:\n%s", got)
	}
	if !strings.Contains(got, "tmr.PT = T#1s;") {
		t.Errorf("missing positional PT binding in output:\n%s", got)
	}
	if !strings.Contains(got, "q_var = tmr.Q;") {
		t.Errorf("positional OUT parameter Q was not bound back to its caller variable:\n%s", got)
	}
	if !strings.Contains(got, "et_var = tmr.ET;") {
		t.Errorf("positional OUT parameter ET was not bound back to its caller variable:\n%s", got)
	}
}

func TestLowerFBCallGuardedFalse(t *testing.T) {
	decl := symbols.FBTypeDecl{
		Name:   "R_TRIG",
		Params: []symbols.Param{{Name: "CLK", Type: plctype.Bool, Direction: symbols.In}},
	}
	cr := NewCR("IL_DEFVAR")
	cr.Load(plctype.Bool)
	var out strings.Builder
	sink := newSinkWriter(emitsink.New(&out))
	args := []ilast.Arg{{Name: "CLK", Value: ilast.Operand{Kind: ilast.OperandVariable, Name: "x"}}}
	if err := lowerFBCall(sink, cr, DefaultPolicy(), FBCallGuardedFalse, "trig", args, decl, ilast.Pos{}); err != nil {
		t.Fatalf("lowerFBCall failed: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "if (!IL_DEFVAR.BOOLvar) {") {
		t.Errorf("missing negated guard in output:\n%s", got)
	}
}
