// Copyright isle-typeinf contributors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package annotation defines the annotation IR: the fixed algebra of
// bit-vector / integer / boolean operators that externally supplied term
// annotations are written in, plus the concrete type vocabulary and
// per-term signature/environment types the inference engine consumes.
package annotation

import "fmt"

// Kind discriminates the concrete type vocabulary of the annotation
// language (spec.md data model, Concrete Type).
type Kind uint8

// The concrete type kinds.
const (
	// KindBitVectorUnknown is the bit-vector placeholder used in
	// annotations before any width information has been attached. It is
	// reachable only as a decoder fallback; no constraint rule
	// constructs it directly.
	KindBitVectorUnknown Kind = iota
	// KindBitVector is a bit-vector whose width is left to the solver.
	KindBitVector
	// KindBitVectorOfWidth is a bit-vector of a known, positive width.
	KindBitVectorOfWidth
	// KindInt is an unbounded mathematical integer.
	KindInt
	// KindBool is a boolean.
	KindBool
	// KindPoly is a named type parameter, treated as an unknown-width
	// bit-vector for inference purposes.
	KindPoly
)

// Type is a concrete annotation type: a Kind tag plus, for
// KindBitVectorOfWidth, a width, and for KindPoly, a parameter name.
type Type struct {
	Kind  Kind
	Width int64  // valid iff Kind == KindBitVectorOfWidth
	Param string // valid iff Kind == KindPoly
}

// BitVectorUnknown constructs the unknown-width bit-vector placeholder.
func BitVectorUnknown() Type { return Type{Kind: KindBitVectorUnknown} }

// BitVector constructs a symbolic-width bit-vector type.
func BitVector() Type { return Type{Kind: KindBitVector} }

// BitVectorOfWidth constructs a bit-vector type of known width.
func BitVectorOfWidth(w int64) Type { return Type{Kind: KindBitVectorOfWidth, Width: w} }

// Int constructs the unbounded-integer type.
func Int() Type { return Type{Kind: KindInt} }

// Bool constructs the boolean type.
func Bool() Type { return Type{Kind: KindBool} }

// Poly constructs a named polymorphic type parameter.
func Poly(name string) Type { return Type{Kind: KindPoly, Param: name} }

// String renders a compact sigil for the type, used by the typed-rule
// pretty printer (C7): "bv", "bv<W>", "bvunk", "int", "bool", "poly".
func (t Type) String() string {
	switch t.Kind {
	case KindBitVectorUnknown:
		return "bvunk"
	case KindBitVector:
		return "bv"
	case KindBitVectorOfWidth:
		return fmt.Sprintf("bv%d", t.Width)
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindPoly:
		return "poly"
	default:
		panic("unknown annotation type kind")
	}
}
