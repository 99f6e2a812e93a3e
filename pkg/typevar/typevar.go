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

// Package typevar implements the type variable allocator (C1): a source of
// fresh, monotonically increasing type-variable identifiers, and the
// identity mapping that lets a rule-local variable reused many times within
// one rule resolve to a single type variable.
package typevar

import "github.com/yelhsams/isle-typeinf/pkg/rule"

// TypeVar is an opaque, non-zero, positive type-variable identifier.  It is
// comparable and hashable, and is generated monotonically within the scope
// of a single rule.
type TypeVar uint32

// Allocator hands out fresh type variables for a single rule, and keeps the
// identity mapping from rule-local variable ids to the type variable
// assigned to their first occurrence.
type Allocator struct {
	next     TypeVar
	byRuleID map[rule.VarID]TypeVar
}

// NewAllocator constructs an allocator whose first fresh variable is 1.
func NewAllocator() *Allocator {
	return &Allocator{
		next:     1,
		byRuleID: make(map[rule.VarID]TypeVar),
	}
}

// Fresh returns a new, never-before-returned type variable.
func (a *Allocator) Fresh() TypeVar {
	tv := a.next
	a.next++

	return tv
}

// ForRuleVar returns the type variable associated with a rule-local
// variable id, allocating one on first sight.  Repeated calls with the same
// id always return the same type variable, which is what lets a variable
// used on both sides of a rule carry one consistent type.
func (a *Allocator) ForRuleVar(id rule.VarID) TypeVar {
	if tv, ok := a.byRuleID[id]; ok {
		return tv
	}

	tv := a.Fresh()
	a.byRuleID[id] = tv

	return tv
}

// Rebind overrides the type variable a rule-local variable id resolves to,
// for variables whose binding shifts partway through a rule -- e.g. a let
// binding reusing a variable id already seen on the left-hand side.
// Occurrences before the rebind already resolved against the old mapping
// and are unaffected; only later ForRuleVar calls see the new value.
func (a *Allocator) Rebind(id rule.VarID, tv TypeVar) {
	a.byRuleID[id] = tv
}

// Count returns the number of type variables allocated so far (i.e. the
// next fresh variable, minus one).
func (a *Allocator) Count() uint32 {
	return uint32(a.next) - 1
}
