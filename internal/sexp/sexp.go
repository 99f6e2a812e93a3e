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

// Package sexp implements a small S-expression reader used both to load
// rule/annotation source text and to decode SMT-LIB2 solver responses (C6),
// trimmed to the list, set and symbol shapes this engine's front ends and
// the z3 wire protocol actually need.
package sexp

// SExp is an S-expression: a List, a Set or a terminating Symbol.
type SExp interface {
	// AsList returns this S-expression as a list, or nil if it is not one.
	AsList() *List
	// AsSet returns this S-expression as a set, or nil if it is not one.
	AsSet() *Set
	// AsSymbol returns this S-expression as a symbol, or nil if it is not
	// one.
	AsSymbol() *Symbol
	// String renders this S-expression.
	String() string
}

// ===================================================================
// List
// ===================================================================

// List represents a parenthesised sequence of zero or more S-expressions.
type List struct {
	Elements []SExp
}

var _ SExp = (*List)(nil)

// NewList constructs a list from a given slice of elements.
func NewList(elements []SExp) *List { return &List{elements} }

// AsList returns this list.
func (l *List) AsList() *List { return l }

// AsSet returns nil, since a list is not a set.
func (l *List) AsSet() *Set { return nil }

// AsSymbol returns nil, since a list is not a symbol.
func (l *List) AsSymbol() *Symbol { return nil }

// Len returns the number of elements in this list.
func (l *List) Len() int { return len(l.Elements) }

// Get returns the ith element of this list.
func (l *List) Get(i int) SExp { return l.Elements[i] }

func (l *List) String() string {
	s := "("

	for i, e := range l.Elements {
		if i != 0 {
			s += " "
		}

		s += e.String()
	}

	return s + ")"
}

// MatchSymbols checks whether this list starts with at least n elements, of
// which the first len(symbols) are symbols matching the given strings.
func (l *List) MatchSymbols(n int, symbols ...string) bool {
	if len(l.Elements) < n || len(symbols) > n {
		return false
	}

	for i, want := range symbols {
		sym, ok := l.Elements[i].(*Symbol)
		if !ok || sym.Value != want {
			return false
		}
	}

	return true
}

// ===================================================================
// Set
// ===================================================================

// Set represents a brace-delimited sequence of zero or more S-expressions.
// pkg/loader's grammar has no brace form, so it rejects a Set wherever one
// appears in a loader source file.
type Set struct {
	Elements []SExp
}

var _ SExp = (*Set)(nil)

// NewSet constructs a set from a given slice of elements.
func NewSet(elements []SExp) *Set { return &Set{elements} }

// AsList returns nil, since a set is not a list.
func (s *Set) AsList() *List { return nil }

// AsSet returns this set.
func (s *Set) AsSet() *Set { return s }

// AsSymbol returns nil, since a set is not a symbol.
func (s *Set) AsSymbol() *Symbol { return nil }

// Len returns the number of elements in this set.
func (s *Set) Len() int { return len(s.Elements) }

// Get returns the ith element of this set.
func (s *Set) Get(i int) SExp { return s.Elements[i] }

func (s *Set) String() string {
	out := "{"

	for i, e := range s.Elements {
		if i != 0 {
			out += " "
		}

		out += e.String()
	}

	return out + "}"
}

// ===================================================================
// Symbol
// ===================================================================

// Symbol represents a terminating atom: an identifier, keyword or numeral.
type Symbol struct {
	Value string
}

var _ SExp = (*Symbol)(nil)

// NewSymbol constructs a symbol from a given string.
func NewSymbol(value string) *Symbol { return &Symbol{value} }

// AsList returns nil, since a symbol is not a list.
func (s *Symbol) AsList() *List { return nil }

// AsSet returns nil, since a symbol is not a set.
func (s *Symbol) AsSet() *Set { return nil }

// AsSymbol returns this symbol.
func (s *Symbol) AsSymbol() *Symbol { return s }

func (s *Symbol) String() string { return s.Value }
