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

// Package constraint defines the four constraint kinds the engine emits
// while walking a rule's parse tree and its terms' annotations, and a
// deduplicated store for them keyed by type variable.
package constraint

import (
	"fmt"

	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/typevar"
)

// Concrete asserts that a type variable denotes exactly one known concrete
// type, e.g. a literal's type variable is Bool, or a term's declared
// return type fixes its type variable to BitVectorOfWidth(32).
type Concrete struct {
	V typevar.TypeVar
	T annotation.Type
}

// Equals reports whether two Concrete constraints are identical.
func (c Concrete) Equals(o Concrete) bool {
	return c.V == o.V && c.T == o.T
}

// Hash returns a hashcode suitable for deduplicated storage.
func (c Concrete) Hash() uint64 {
	return mix(1, uint64(c.V), uint64(c.T.Kind), uint64(c.T.Width), strHash(c.T.Param))
}

func (c Concrete) String() string {
	return fmt.Sprintf("tv%d = %s", c.V, c.T)
}

// Variable asserts that two type variables must denote the same concrete
// type, without yet saying which. It arises whenever two occurrences of
// the same rule-local variable are unified, or a term's argument is bound
// directly to a sub-expression's type variable.
type Variable struct {
	A typevar.TypeVar
	B typevar.TypeVar
}

// Equals reports whether two Variable constraints are identical up to
// operand order (unification is symmetric).
func (c Variable) Equals(o Variable) bool {
	return (c.A == o.A && c.B == o.B) || (c.A == o.B && c.B == o.A)
}

// Hash returns a hashcode suitable for deduplicated storage. It is
// order-independent so that Equals' symmetry holds for lookups too.
func (c Variable) Hash() uint64 {
	lo, hi := uint64(c.A), uint64(c.B)
	if lo > hi {
		lo, hi = hi, lo
	}

	return mix(2, lo, hi)
}

func (c Variable) String() string {
	return fmt.Sprintf("tv%d == tv%d", c.A, c.B)
}

// WidthInt ties the width of a bit-vector-denoting type variable to the
// integer value of another, Int-denoting type variable: V is a bit-vector
// whose width equals whatever integer W's value turns out to be. Both
// sides are type variables because a dynamic-width conversion may not
// know W's value until the rule it appears in is fully constrained.
type WidthInt struct {
	V typevar.TypeVar
	W typevar.TypeVar
}

// Equals reports whether two WidthInt constraints are identical.
func (c WidthInt) Equals(o WidthInt) bool {
	return c.V == o.V && c.W == o.W
}

// Hash returns a hashcode suitable for deduplicated storage.
func (c WidthInt) Hash() uint64 {
	return mix(3, uint64(c.V), uint64(c.W))
}

func (c WidthInt) String() string {
	return fmt.Sprintf("width(tv%d) = value(tv%d)", c.V, c.W)
}

// SymbolicSum asserts width arithmetic: the bit-vector widths of the
// variables in Ls must add up to the sum of the widths of the variables in
// Rs. It arises from concat, whose operands' widths sum to the result's.
type SymbolicSum struct {
	Ls []typevar.TypeVar
	Rs []typevar.TypeVar
}

// Equals reports whether two SymbolicSum constraints have identical
// operand lists (order-sensitive, matching how they are constructed).
func (c SymbolicSum) Equals(o SymbolicSum) bool {
	return tvSliceEqual(c.Ls, o.Ls) && tvSliceEqual(c.Rs, o.Rs)
}

// Hash returns a hashcode suitable for deduplicated storage.
func (c SymbolicSum) Hash() uint64 {
	h := mix(4, uint64(len(c.Ls)), uint64(len(c.Rs)))
	for _, v := range c.Ls {
		h = mix(h, uint64(v))
	}

	for _, v := range c.Rs {
		h = mix(h, uint64(v))
	}

	return h
}

func (c SymbolicSum) String() string {
	return fmt.Sprintf("sum(%v) = sum(%v)", c.Ls, c.Rs)
}

func tvSliceEqual(a, b []typevar.TypeVar) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// mix folds a variable number of uint64 words into a single hashcode using
// the FNV-1a mixing step, seeded by a per-constraint-kind tag so that
// constraints of different kinds never collide by construction.
func mix(words ...uint64) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)

	h := uint64(offset)
	for _, w := range words {
		for i := 0; i < 8; i++ {
			h ^= w & 0xff
			h *= prime
			w >>= 8
		}
	}

	return h
}

func strHash(s string) uint64 {
	h := uint64(14695981039346656037)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}

	return h
}
