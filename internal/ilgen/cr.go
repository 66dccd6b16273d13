/*
   IL code generator - the current-result register model.

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

import "github.com/Foadsf/matiec/internal/plctype"

// CR is the current-result register: a name plus a dynamic type tag
// that is undefined (Valid == false) until the first LD. It replaces
// the source's pseudo-AST-node (il_default_variable_c) entirely: a CR
// is never a member of the ilast sum type and the walker never visits
// it, so no runtime-cast dispatch is needed anywhere.
type CR struct {
	Name  string
	typ   plctype.PlcType
	Valid bool
}

// NewCR creates a CR with the given emitted storage name, undefined.
func NewCR(name string) *CR {
	return &CR{Name: name}
}

// Reset clears the CR back to undefined, as happens on entering a
// fresh IL list or a parenthesised scope.
func (c *CR) Reset() {
	c.typ = plctype.PlcType{}
	c.Valid = false
}

// Load establishes the CR's type, as LD does.
func (c *CR) Load(t plctype.PlcType) {
	c.typ = t
	c.Valid = true
}

// PeekType returns the current type and whether it is defined.
func (c *CR) PeekType() (plctype.PlcType, bool) {
	return c.typ, c.Valid
}

// SetType overwrites the type tag and marks the CR defined, used after
// an operator changes the CR's type in place (e.g. a comparison
// leaving BOOL) and when a backup CR receives a nested result.
func (c *CR) SetType(t plctype.PlcType) {
	c.typ = t
	c.Valid = true
}

// RenderAccess returns "<cr_name>.<variant_selector>". Calling it
// while the CR is undefined is a programming error in the caller: the
// walker never does so, since every operator either establishes the
// CR itself or requires it already defined.
func (c *CR) RenderAccess(policy Policy) string {
	if !c.Valid {
		panic("ilgen: RenderAccess on an undefined CR")
	}
	return c.Name + "." + c.typ.String() + policy.UnionSuffix
}
