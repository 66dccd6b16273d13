/*
   IL code generator - naming policy and the per-routine temporary
   name factory.

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

import "fmt"

// Policy holds the spellings an emitted fragment depends on. The
// zero value is not ready to use; call DefaultPolicy.
type Policy struct {
	CRName       string // primary CR variable name, e.g. "IL_DEFVAR"
	CRBackupName string // backup CR variable name, e.g. "IL_DEFVAR_BACK"
	EndLabel     string // per-routine sentinel RET* branches to
	UnionSuffix  string // suffix after the type tag in a union selector, e.g. "var"
	TimeAdd      string
	TimeSub      string
	TimeMul      string
	CmpPrefix    string // comparison intrinsic prefix, e.g. "cmp_"
	FBBodySuffix string // FB step-function name suffix, e.g. "_body"
}

// DefaultPolicy matches the identifiers named in §6: the ones a
// surrounding type-declaration generator is expected to define.
func DefaultPolicy() Policy {
	return Policy{
		CRName:       "IL_DEFVAR",
		CRBackupName: "IL_DEFVAR_BACK",
		EndLabel:     "end",
		UnionSuffix:  "var",
		TimeAdd:      "time_add",
		TimeSub:      "time_sub",
		TimeMul:      "time_mul",
		CmpPrefix:    "cmp_",
		FBBodySuffix: "_body",
	}
}

// TempFactory yields a deterministic sequence of unique identifiers per
// routine. It is re-seeded (via NewTempFactory) at routine entry so a
// prelude generator elsewhere can predict the same sequence.
type TempFactory struct {
	prefix string
	next   int
}

// NewTempFactory seeds a fresh factory for one routine.
func NewTempFactory(prefix string) *TempFactory {
	if prefix == "" {
		prefix = "IL_TEMP_VAR"
	}
	return &TempFactory{prefix: prefix}
}

// Next returns the next temporary name in the deterministic sequence.
func (f *TempFactory) Next() string {
	name := fmt.Sprintf("%s%d", f.prefix, f.next)
	f.next++
	return name
}
