/*
   PlcType - the IEC 61131-3 scalar and composite type algebra

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

// Package plctype models the scalar and composite type algebra of
// IEC 61131-3: the set of PLC value types a CR or operand can carry.
package plctype

// Kind tags the shape of a PlcType. Composite kinds carry their identity
// opaquely: enum, derived and structured in Name, array in Elem.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindSint
	KindInt
	KindDint
	KindLint
	KindUsint
	KindUint
	KindUdint
	KindUlint
	KindReal
	KindLreal
	KindTime
	KindString
	KindEnum
	KindDerived
	KindStructured
	KindArray
)

var kindNames = map[Kind]string{
	KindBool:       "BOOL",
	KindSint:       "SINT",
	KindInt:        "INT",
	KindDint:       "DINT",
	KindLint:       "LINT",
	KindUsint:      "USINT",
	KindUint:       "UINT",
	KindUdint:      "UDINT",
	KindUlint:      "ULINT",
	KindReal:       "REAL",
	KindLreal:      "LREAL",
	KindTime:       "TIME",
	KindString:     "STRING",
	KindEnum:       "ENUM",
	KindDerived:    "DERIVED",
	KindStructured: "STRUCT",
	KindArray:      "ARRAY",
}

// PlcType is the canonical value of a PLC type. For the opaque composite
// kinds, Name carries the declared type name and Elem (array only) the
// element type; scalar kinds ignore both.
type PlcType struct {
	Kind Kind
	Name string
	Elem *PlcType
}

var (
	Bool  = PlcType{Kind: KindBool}
	Sint  = PlcType{Kind: KindSint}
	Int   = PlcType{Kind: KindInt}
	Dint  = PlcType{Kind: KindDint}
	Lint  = PlcType{Kind: KindLint}
	Usint = PlcType{Kind: KindUsint}
	Uint  = PlcType{Kind: KindUint}
	Udint = PlcType{Kind: KindUdint}
	Ulint = PlcType{Kind: KindUlint}
	Real  = PlcType{Kind: KindReal}
	Lreal = PlcType{Kind: KindLreal}
	Time  = PlcType{Kind: KindTime}
	Str   = PlcType{Kind: KindString}
)

// Enum, Derived and Structured build an opaque named composite type.
func Enum(name string) PlcType       { return PlcType{Kind: KindEnum, Name: name} }
func Derived(name string) PlcType    { return PlcType{Kind: KindDerived, Name: name} }
func Structured(name string) PlcType { return PlcType{Kind: KindStructured, Name: name} }

// Array builds an array-of-elem type.
func Array(elem PlcType) PlcType {
	e := elem
	return PlcType{Kind: KindArray, Elem: &e}
}

// Same reports structural equality on the canonical variant: same kind,
// and for the opaque kinds, same name (array additionally requires the
// element types to be Same).
func Same(a, b PlcType) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindEnum, KindDerived, KindStructured:
		return a.Name == b.Name
	case KindArray:
		if a.Elem == nil || b.Elem == nil {
			return a.Elem == b.Elem
		}
		return Same(*a.Elem, *b.Elem)
	default:
		return true
	}
}

// IsInteger reports whether t is any fixed-width signed or unsigned
// integer variant.
func IsInteger(t PlcType) bool {
	switch t.Kind {
	case KindSint, KindInt, KindDint, KindLint, KindUsint, KindUint, KindUdint, KindUlint:
		return true
	default:
		return false
	}
}

// IsBinary reports whether t is BOOL or a fixed-width integer: the set
// of types the bitwise/boolean operators accept.
func IsBinary(t PlcType) bool {
	return t.Kind == KindBool || IsInteger(t)
}

// IsNum reports whether t is any integer or floating variant.
func IsNum(t PlcType) bool {
	return IsInteger(t) || t.Kind == KindReal || t.Kind == KindLreal
}

// IsBool reports whether t is BOOL.
func IsBool(t PlcType) bool { return t.Kind == KindBool }

// IsTime reports whether t is TIME.
func IsTime(t PlcType) bool { return t.Kind == KindTime }

// String renders the canonical tag name used both for diagnostics and
// for the emitted union-selector prefix (e.g. "INT" in "CR.INTvar").
func (t PlcType) String() string {
	if name, ok := kindNames[t.Kind]; ok {
		switch t.Kind {
		case KindEnum, KindDerived, KindStructured:
			if t.Name != "" {
				return t.Name
			}
		case KindArray:
			if t.Elem != nil {
				return "ARRAY_OF_" + t.Elem.String()
			}
		}
		return name
	}
	return "INVALID"
}

// Default returns the canonical zero value literal for t, used when a
// call's missing IN argument has no declared default.
func Default(t PlcType) string {
	switch t.Kind {
	case KindBool:
		return "FALSE"
	case KindReal, KindLreal:
		return "0.0"
	case KindTime:
		return "T#0s"
	case KindString:
		return "''"
	default:
		if IsInteger(t) {
			return "0"
		}
		return "0"
	}
}
