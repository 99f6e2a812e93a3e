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

package constraint

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/yelhsams/isle-typeinf/pkg/typevar"
	"github.com/yelhsams/isle-typeinf/pkg/util"
)

// Store is the deduplicated set of constraints gathered for a single rule.
// Concrete, Variable and WidthInt constraints each get their own hash set;
// SymbolicSum constraints are kept in a slice, deduplicated by a linear
// scan on insertion.
type Store struct {
	concrete *util.HashSet[Concrete]
	variable *util.HashSet[Variable]
	width    *util.HashSet[WidthInt]
	sums     []SymbolicSum // rare enough not to warrant dedup by hashset
}

// NewStore constructs an empty constraint store.
func NewStore() *Store {
	return &Store{
		concrete: util.NewHashSet[Concrete](16),
		variable: util.NewHashSet[Variable](16),
		width:    util.NewHashSet[WidthInt](16),
	}
}

// AddConcrete records a Concrete constraint, returning true if it was
// already present.
func (s *Store) AddConcrete(c Concrete) bool { return s.concrete.Insert(c) }

// AddVariable records a Variable constraint, returning true if it was
// already present.
func (s *Store) AddVariable(c Variable) bool { return s.variable.Insert(c) }

// AddWidthInt records a WidthInt constraint, returning true if it was
// already present.
func (s *Store) AddWidthInt(c WidthInt) bool { return s.width.Insert(c) }

// AddSymbolicSum records a SymbolicSum constraint.
func (s *Store) AddSymbolicSum(c SymbolicSum) {
	for _, existing := range s.sums {
		if existing.Equals(c) {
			return
		}
	}

	s.sums = append(s.sums, c)
}

// Concretes returns every Concrete constraint in the store.
func (s *Store) Concretes() []Concrete { return s.concrete.Elements() }

// Variables returns every Variable constraint in the store.
func (s *Store) Variables() []Variable { return s.variable.Elements() }

// WidthInts returns every WidthInt constraint in the store.
func (s *Store) WidthInts() []WidthInt { return s.width.Elements() }

// SymbolicSums returns every SymbolicSum constraint in the store.
func (s *Store) SymbolicSums() []SymbolicSum { return s.sums }

// Len returns the total number of distinct constraints in the store.
func (s *Store) Len() uint {
	return s.concrete.Size() + s.variable.Size() + s.width.Size() + uint(len(s.sums))
}

// CoveredTypeVars builds a bitset marking every type variable (up to
// count, exclusive) that appears in at least one constraint in this
// store. Used to check the coverage invariant: every type variable the
// allocator handed out during parse-tree and annotation walking must be
// mentioned by at least one constraint, or the rule can never be fully
// solved.
func (s *Store) CoveredTypeVars(count uint32) *bitset.BitSet {
	bs := bitset.New(uint(count))

	mark := func(v typevar.TypeVar) { bs.Set(uint(v)) }

	for _, c := range s.concrete.Elements() {
		mark(c.V)
	}

	for _, c := range s.variable.Elements() {
		mark(c.A)
		mark(c.B)
	}

	for _, c := range s.width.Elements() {
		mark(c.V)
		mark(c.W)
	}

	for _, c := range s.sums {
		for _, v := range c.Ls {
			mark(v)
		}

		for _, v := range c.Rs {
			mark(v)
		}
	}

	return bs
}

// MissingTypeVars returns every type variable in [0, count) not covered by
// any constraint in this store.
func (s *Store) MissingTypeVars(count uint32) []typevar.TypeVar {
	covered := s.CoveredTypeVars(count)

	var missing []typevar.TypeVar

	for i := uint32(0); i < count; i++ {
		if !covered.Test(uint(i)) {
			missing = append(missing, typevar.TypeVar(i))
		}
	}

	return missing
}
