package ilgen

import (
	"strings"
	"testing"

	"github.com/Foadsf/matiec/internal/emitsink"
	"github.com/Foadsf/matiec/internal/ilast"
	"github.com/Foadsf/matiec/internal/plctype"
	"github.com/Foadsf/matiec/internal/symbols"
	"github.com/Foadsf/matiec/internal/typequery"
)

type testScope struct {
	vars map[string]plctype.PlcType
	fbs  map[string]string
}

func newTestScope(vars map[string]plctype.PlcType) *testScope {
	return &testScope{vars: vars, fbs: map[string]string{}}
}

func (s *testScope) VariableType(name string) (plctype.PlcType, bool) {
	t, ok := s.vars[name]
	return t, ok
}

func (s *testScope) FBInstanceTypeName(instance string) (string, bool) {
	n, ok := s.fbs[instance]
	return n, ok
}

func varOp(name string) *ilast.Operand {
	return &ilast.Operand{Kind: ilast.OperandVariable, Name: name}
}

func emitRoutine(t *testing.T, routine ilast.Routine, syms *symbols.Table) string {
	t.Helper()
	if syms == nil {
		syms = symbols.NewTable()
	}
	gen := NewGenerator(typequery.NewDefault(), syms)
	var buf strings.Builder
	sink := emitsink.New(&buf)
	if err := gen.Emit(routine, sink); err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	return buf.String()
}

// S1. LD a; ST b with a, b: INT.
func TestScenarioS1(t *testing.T) {
	scope := newTestScope(map[string]plctype.PlcType{"a": plctype.Int, "b": plctype.Int})
	routine := ilast.Routine{
		Name: "r1",
		List: []ilast.Instruction{
			{Kind: ilast.InstrSimple, Op: ilast.LD, Operand: varOp("a")},
			{Kind: ilast.InstrSimple, Op: ilast.ST, Operand: varOp("b")},
		},
		Scope: scope,
	}
	out := emitRoutine(t, routine, nil)
	if !strings.Contains(out, "IL_DEFVAR.INTvar = a;") {
		t.Errorf("missing LD lowering in output:\n%s", out)
	}
	if !strings.Contains(out, "b = IL_DEFVAR.INTvar;") {
		t.Errorf("missing ST lowering in output:\n%s", out)
	}
	if !strings.Contains(out, "end:") {
		t.Errorf("missing end label in output:\n%s", out)
	}
}

// S2. LD a; GT b; ST r with a,b:INT, r:BOOL.
func TestScenarioS2(t *testing.T) {
	scope := newTestScope(map[string]plctype.PlcType{"a": plctype.Int, "b": plctype.Int, "r": plctype.Bool})
	routine := ilast.Routine{
		Name: "r2",
		List: []ilast.Instruction{
			{Kind: ilast.InstrSimple, Op: ilast.LD, Operand: varOp("a")},
			{Kind: ilast.InstrSimple, Op: ilast.GT, Operand: varOp("b")},
			{Kind: ilast.InstrSimple, Op: ilast.ST, Operand: varOp("r")},
		},
		Scope: scope,
	}
	out := emitRoutine(t, routine, nil)
	if !strings.Contains(out, "IL_DEFVAR.BOOLvar = cmp_INT(2, IL_DEFVAR.INTvar, b);") {
		t.Errorf("missing comparison lowering in output:\n%s", out)
	}
	if !strings.Contains(out, "r = IL_DEFVAR.BOOLvar;") {
		t.Errorf("missing final ST in output:\n%s", out)
	}
}

// S3. LD v1; AND( v2; OR v3 ) with all BOOL.
func TestScenarioS3(t *testing.T) {
	scope := newTestScope(map[string]plctype.PlcType{"v1": plctype.Bool, "v2": plctype.Bool, "v3": plctype.Bool})
	routine := ilast.Routine{
		Name: "r3",
		List: []ilast.Instruction{
			{Kind: ilast.InstrSimple, Op: ilast.LD, Operand: varOp("v1")},
			{
				Kind:           ilast.InstrExpression,
				Op:             ilast.AND,
				InitialOperand: varOp("v2"),
				Inner: []ilast.Instruction{
					{Kind: ilast.InstrSimple, Op: ilast.OR, Operand: varOp("v3")},
				},
			},
		},
		Scope: scope,
	}
	out := emitRoutine(t, routine, nil)
	if !strings.Contains(out, "IL_DEFVAR.BOOLvar = v1;") {
		t.Errorf("missing outer LD in output:\n%s", out)
	}
	if !strings.Contains(out, "IL_DEFVAR_INNER.BOOLvar = v2;") {
		t.Errorf("missing nested seeding LD in output:\n%s", out)
	}
	if !strings.Contains(out, "IL_DEFVAR_INNER.BOOLvar |= v3;") {
		t.Errorf("missing nested OR in output:\n%s", out)
	}
	if !strings.Contains(out, "IL_DEFVAR_BACK = IL_DEFVAR_INNER;") {
		t.Errorf("missing backup copy in output:\n%s", out)
	}
	if !strings.Contains(out, "IL_DEFVAR.BOOLvar &= IL_DEFVAR_BACK.BOOLvar;") {
		t.Errorf("missing outer AND in output:\n%s", out)
	}
}

// S4. JMPC L; LD a; L: LD b with CR BOOL on entry, a,b INT.
func TestScenarioS4(t *testing.T) {
	scope := newTestScope(map[string]plctype.PlcType{"a": plctype.Int, "b": plctype.Int, "c": plctype.Bool})
	routine := ilast.Routine{
		Name: "r4",
		List: []ilast.Instruction{
			{Kind: ilast.InstrSimple, Op: ilast.LD, Operand: varOp("c")},
			{Kind: ilast.InstrJump, Op: ilast.JMPC, JumpLabel: "L"},
			{Kind: ilast.InstrSimple, Op: ilast.LD, Operand: varOp("a")},
			{Kind: ilast.InstrSimple, Op: ilast.LD, Operand: varOp("b"), Label: "L"},
		},
		Scope: scope,
	}
	out := emitRoutine(t, routine, nil)
	if !strings.Contains(out, "if (IL_DEFVAR.BOOLvar) goto L;") {
		t.Errorf("missing JMPC lowering in output:\n%s", out)
	}
	if !strings.Contains(out, "L:") {
		t.Errorf("missing label target in output:\n%s", out)
	}
}

// S5. LD t1; ADD t2 with t1,t2 TIME.
func TestScenarioS5(t *testing.T) {
	scope := newTestScope(map[string]plctype.PlcType{"t1": plctype.Time, "t2": plctype.Time})
	routine := ilast.Routine{
		Name: "r5",
		List: []ilast.Instruction{
			{Kind: ilast.InstrSimple, Op: ilast.LD, Operand: varOp("t1")},
			{Kind: ilast.InstrSimple, Op: ilast.ADD, Operand: varOp("t2")},
		},
		Scope: scope,
	}
	out := emitRoutine(t, routine, nil)
	if !strings.Contains(out, "IL_DEFVAR.TIMEvar = time_add(IL_DEFVAR.TIMEvar, t2);") {
		t.Errorf("missing time_add lowering in output:\n%s", out)
	}
}

// S6. CAL tmr( IN := x, PT := T#100ms ) for tmr a TON instance.
func TestScenarioS6(t *testing.T) {
	scope := newTestScope(map[string]plctype.PlcType{"x": plctype.Bool})
	scope.fbs["tmr"] = "TON"

	syms := symbols.NewTable()
	syms.FBInstances["tmr"] = "TON"
	syms.FBTypes["TON"] = symbols.FBTypeDecl{
		Name: "TON",
		Params: []symbols.Param{
			{Name: "IN", Type: plctype.Bool, Direction: symbols.In},
			{Name: "PT", Type: plctype.Time, Direction: symbols.In},
			{Name: "Q", Type: plctype.Bool, Direction: symbols.Out},
			{Name: "ET", Type: plctype.Time, Direction: symbols.Out},
		},
	}

	routine := ilast.Routine{
		Name: "r6",
		List: []ilast.Instruction{
			{
				Kind:       ilast.InstrFBCall,
				Op:         ilast.CAL,
				FBInstance: "tmr",
				Args: []ilast.Arg{
					{Name: "IN", Value: ilast.Operand{Kind: ilast.OperandVariable, Name: "x"}},
					{Name: "PT", Value: ilast.Operand{Kind: ilast.OperandConstant, Literal: "T#100ms", Type: plctype.Time}},
				},
			},
		},
		Scope: scope,
	}
	out := emitRoutine(t, routine, syms)
	if !strings.Contains(out, "tmr.IN = x;") {
		t.Errorf("missing IN assignment in output:\n%s", out)
	}
	if !strings.Contains(out, "tmr.PT = T#100ms;") {
		t.Errorf("missing PT assignment in output:\n%s", out)
	}
	if !strings.Contains(out, "TON_body(&tmr);") {
		t.Errorf("missing step call in output:\n%s", out)
	}
	if strings.Contains(out, "x = tmr.IN") {
		t.Errorf("unexpected post-call copy for an IN-only argument:\n%s", out)
	}
}

// Property 7: a routine consisting solely of a label.
func TestLabelOnlyRoutine(t *testing.T) {
	scope := newTestScope(nil)
	routine := ilast.Routine{
		Name:  "r7",
		List:  []ilast.Instruction{{Kind: ilast.InstrLabelOnly, Label: "START"}},
		Scope: scope,
	}
	out := emitRoutine(t, routine, nil)
	if !strings.Contains(out, "START:") {
		t.Errorf("missing START label in output:\n%s", out)
	}
	if !strings.Contains(out, "end:") {
		t.Errorf("missing end label in output:\n%s", out)
	}
	if !strings.Contains(out, "/* no-op */") {
		t.Errorf("missing no-op trailing statement in output:\n%s", out)
	}
}

// Property 8: NOT with non-binary CR is rejected.
func TestNotRejectsNonBinaryCR(t *testing.T) {
	scope := newTestScope(map[string]plctype.PlcType{"f": plctype.Real})
	routine := ilast.Routine{
		Name: "r8",
		List: []ilast.Instruction{
			{Kind: ilast.InstrSimple, Op: ilast.LD, Operand: varOp("f")},
			{Kind: ilast.InstrSimple, Op: ilast.NOT},
		},
		Scope: scope,
	}
	syms := symbols.NewTable()
	gen := NewGenerator(typequery.NewDefault(), syms)
	var buf strings.Builder
	sink := emitsink.New(&buf)
	err := gen.Emit(routine, sink)
	if err == nil {
		t.Fatal("expected an error for NOT on a non-binary CR")
	}
	ilErr, ok := err.(*Error)
	if !ok || ilErr.Kind != TypeRuleViolation {
		t.Errorf("expected a TypeRuleViolation *Error, got %v", err)
	}
}

// Property 8: MUL between TIME and TIME is rejected.
func TestMulRejectsTimeTime(t *testing.T) {
	scope := newTestScope(map[string]plctype.PlcType{"t1": plctype.Time, "t2": plctype.Time})
	routine := ilast.Routine{
		Name: "r9",
		List: []ilast.Instruction{
			{Kind: ilast.InstrSimple, Op: ilast.LD, Operand: varOp("t1")},
			{Kind: ilast.InstrSimple, Op: ilast.MUL, Operand: varOp("t2")},
		},
		Scope: scope,
	}
	syms := symbols.NewTable()
	gen := NewGenerator(typequery.NewDefault(), syms)
	var buf strings.Builder
	sink := emitsink.New(&buf)
	err := gen.Emit(routine, sink)
	if err == nil {
		t.Fatal("expected an error for MUL between TIME and TIME")
	}
}

// Property 6: running the walker twice with fresh state produces
// byte-identical output.
func TestIdempotentAcrossRuns(t *testing.T) {
	scope := newTestScope(map[string]plctype.PlcType{"a": plctype.Int, "b": plctype.Int})
	newRoutine := func() ilast.Routine {
		return ilast.Routine{
			Name: "r10",
			List: []ilast.Instruction{
				{Kind: ilast.InstrSimple, Op: ilast.LD, Operand: varOp("a")},
				{Kind: ilast.InstrSimple, Op: ilast.ST, Operand: varOp("b")},
			},
			Scope: scope,
		}
	}
	out1 := emitRoutine(t, newRoutine(), nil)
	out2 := emitRoutine(t, newRoutine(), nil)
	if out1 != out2 {
		t.Errorf("expected identical output across runs:\n%s\n---\n%s", out1, out2)
	}
}

// Property 5: temp names for missing OUT/INOUT arguments are drawn in
// declaration order from the routine's factory.
func TestTempNamesInDeclarationOrder(t *testing.T) {
	syms := symbols.NewTable()
	syms.Functions["SCALE"] = symbols.FuncDecl{
		Name:       "SCALE",
		ReturnType: plctype.Int,
		Params: []symbols.Param{
			{Name: "factor", Type: plctype.Int, Direction: symbols.In},
			{Name: "lo", Type: plctype.Int, Direction: symbols.Out},
			{Name: "hi", Type: plctype.Int, Direction: symbols.Out},
		},
	}
	scope := newTestScope(map[string]plctype.PlcType{"a": plctype.Int})
	routine := ilast.Routine{
		Name: "r11",
		List: []ilast.Instruction{
			{Kind: ilast.InstrSimple, Op: ilast.LD, Operand: varOp("a")},
			{
				Kind:     ilast.InstrFuncCall,
				FuncName: "SCALE",
				Args: []ilast.Arg{
					{Value: ilast.Operand{Kind: ilast.OperandConstant, Literal: "2", Type: plctype.Int}},
				},
			},
		},
		Scope: scope,
	}
	out := emitRoutine(t, routine, syms)
	if !strings.Contains(out, "IL_TEMP_VAR_r110") {
		t.Errorf("expected first temp name in output:\n%s", out)
	}
	if !strings.Contains(out, "IL_TEMP_VAR_r111") {
		t.Errorf("expected second temp name in output:\n%s", out)
	}
}
