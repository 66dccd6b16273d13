/*
 * matiec - Interactive IL console.
 *
 * Copyright 2024, Richard Cornwell
 * Copyright 2026, Foad Sojoodi Farimani
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package repl is a line-editing console for feeding one IL routine's
// instructions at a time and inspecting the emitted fragment and the
// CR-type trace as each line is accepted. It only understands the
// straight-line simple operators (§4.2) plus ":decl name TYPE" to
// populate the scope; jumps, calls and parenthesised expressions need
// a full compilation unit and are left to the batch driver.
package repl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/peterh/liner"

	"github.com/Foadsf/matiec/internal/emitsink"
	"github.com/Foadsf/matiec/internal/ilast"
	"github.com/Foadsf/matiec/internal/ilgen"
	"github.com/Foadsf/matiec/internal/plctype"
	"github.com/Foadsf/matiec/internal/typequery"
)

var mnemonics = []string{
	"LD", "LDN", "ST", "STN", "NOT", "S", "R",
	"AND", "OR", "XOR", "ANDN", "ORN", "XORN",
	"ADD", "SUB", "MUL", "DIV", "MOD",
	"GT", "GE", "EQ", "LE", "LT", "NE",
	":decl", ":quit",
}

var typeNames = []string{
	"BOOL", "SINT", "INT", "DINT", "LINT",
	"USINT", "UINT", "UDINT", "ULINT", "REAL", "LREAL", "TIME",
}

// Run starts the interactive console and blocks until the user quits
// or aborts with Ctrl-D/Ctrl-C.
func Run(policy ilgen.Policy) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completer)

	scope := newReplScope()
	cr := ilgen.NewCR(policy.CRName)
	q := typequery.NewDefault()

	fmt.Println("IL console. ':decl name TYPE' declares a variable, ':quit' exits.")
	for {
		text, err := line.Prompt("il> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			fmt.Println("error reading line:", err)
			return
		}
		line.AppendHistory(text)

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		if fields[0] == ":quit" {
			return
		}
		if fields[0] == ":decl" {
			if len(fields) != 3 {
				fmt.Println("usage: :decl name TYPE")
				continue
			}
			t, err := parseTypeName(fields[2])
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			scope.vars[fields[1]] = t
			continue
		}

		instr, err := parseInstruction(fields, scope)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}

		var buf strings.Builder
		sink := emitsink.New(&buf)
		var operandType plctype.PlcType
		if instr.Operand != nil {
			t, err := q.TypeOf(*instr.Operand, scope)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			operandType = t
		}
		if err := ilgen.LowerOne(sink, cr, policy, q, instr.Op, instr.Operand, operandType, instr.Pos); err != nil {
			fmt.Println("error:", err)
			continue
		}
		if sink.Err != nil {
			fmt.Println("error:", sink.Err)
			continue
		}
		fmt.Print(buf.String())
		if t, ok := cr.PeekType(); ok {
			fmt.Printf("  ; CR type now %s\n", t)
		}
	}
}

func completer(line string) []string {
	var out []string
	for _, m := range mnemonics {
		if strings.HasPrefix(m, line) {
			out = append(out, m)
		}
	}
	return out
}

func parseTypeName(s string) (plctype.PlcType, error) {
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
	default:
		return plctype.PlcType{}, fmt.Errorf("unknown type %q (try one of %v)", s, typeNames)
	}
}

func parseInstruction(fields []string, scope *replScope) (ilast.Instruction, error) {
	op := ilast.Opcode(fields[0])
	switch op {
	case ilast.NOT:
		return ilast.Instruction{Kind: ilast.InstrSimple, Op: op}, nil
	default:
		if len(fields) != 2 {
			return ilast.Instruction{}, fmt.Errorf("%s requires exactly one operand", fields[0])
		}
		if _, ok := scope.vars[fields[1]]; !ok {
			return ilast.Instruction{}, fmt.Errorf("undeclared variable %q (use :decl first)", fields[1])
		}
		operand := ilast.Operand{Kind: ilast.OperandVariable, Name: fields[1]}
		return ilast.Instruction{Kind: ilast.InstrSimple, Op: op, Operand: &operand}, nil
	}
}

type replScope struct {
	vars map[string]plctype.PlcType
}

func newReplScope() *replScope {
	return &replScope{vars: map[string]plctype.PlcType{}}
}

func (s *replScope) VariableType(name string) (plctype.PlcType, bool) {
	t, ok := s.vars[name]
	return t, ok
}

func (s *replScope) FBInstanceTypeName(string) (string, bool) { return "", false }
