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

// Package annoconstr walks an externally supplied annotation expression
// (pkg/annotation) and emits the constraints it implies (C3), producing in
// lockstep the typed semantic expression tree (pkg/specexpr) that the
// typed-rule record and pretty printer consume. It also binds a term's
// annotation-local argument and return type variables to the type
// variables allocated for that term's application in a rule's parse tree
// (C4).
package annoconstr

import (
	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/constraint"
	"github.com/yelhsams/isle-typeinf/pkg/specexpr"
	"github.com/yelhsams/isle-typeinf/pkg/typevar"
)

// RegWidth is the width, in bits, of a generic machine register on the
// target this engine was built for a CLIF-like lowering pipeline. It is
// the implicit width behind RegWidth-valued annotation Width nodes and the
// A64 bit-counting intrinsics' result width.
const RegWidth = 64

// FlagsWidth is the width, in bits, of the condition-flags nibble that
// aarch64's "subtract and set flags" instructions append to the left of
// their register result.
const FlagsWidth = 4

// Info accumulates per-term bookkeeping while an annotation is walked: the
// stable mapping from the annotation's own variable names to the type
// variables assigned to their first occurrence, scoped to one
// instantiation of one term's signature.
type Info struct {
	Term        string
	VarToTypeVar map[string]typevar.TypeVar
}

// NewInfo constructs per-term bookkeeping for one annotation walk.
func NewInfo(term string) *Info {
	return &Info{Term: term, VarToTypeVar: make(map[string]typevar.TypeVar)}
}

// Walker threads the allocator and constraint store a rule's tree builder
// already owns through an annotation walk, so that type variables
// introduced while expanding a term's annotation share one numbering
// space and one constraint store with the rule's own parse tree.
type Walker struct {
	Alloc *typevar.Allocator
	Store *constraint.Store

	// QuantifiedVars and FreeVars collect every annotation-introduced
	// variable's fully qualified name and type variable, plus every
	// rule-local variable node Apply visits (keyed by its identifier),
	// matching the
	// two bookkeeping maps a rule-scoped inference context carries
	// alongside its constraint sets.
	QuantifiedVars map[string]typevar.TypeVar
	FreeVars       map[string]typevar.TypeVar

	// TypeVarToValue records literal values discovered while folding
	// annotation constants, keyed by the type variable assigned to the
	// literal. Used to resolve dynamic-width conversions whose width
	// argument folds to a known constant.
	TypeVarToValue map[typevar.TypeVar]int64

	// Assumptions and RHSAssertions accumulate the equalities and
	// side-conditions discovered while applying term annotations across
	// the whole rule: Assumptions hold for any occurrence, while
	// RHSAssertions are proof obligations specific to right-hand-side
	// term applications.
	Assumptions   []specexpr.Expr
	RHSAssertions []specexpr.Expr

	// AnnotationInfos collects the per-term-application bookkeeping used
	// for every annotated term encountered, in visitation order.
	AnnotationInfos []*Info
}

// NewWalker constructs a Walker sharing an existing allocator and
// constraint store, as used when annotation constraints are added for a
// term application discovered inside a rule's own parse tree.
func NewWalker(alloc *typevar.Allocator, store *constraint.Store) *Walker {
	return &Walker{
		Alloc:          alloc,
		Store:          store,
		QuantifiedVars: make(map[string]typevar.TypeVar),
		FreeVars:       make(map[string]typevar.TypeVar),
		TypeVarToValue: make(map[typevar.TypeVar]int64),
	}
}

func (w *Walker) fresh() typevar.TypeVar { return w.Alloc.Fresh() }

func widthValue(w annotation.Width) int64 {
	if w.IsReg {
		return RegWidth
	}

	return w.Const
}

// foldConst returns the literal integer value a specexpr node denotes, if
// it is a constant terminal, mirroring the original's width-argument
// constant-folding used to decide whether a dynamic-width conversion can
// be resolved statically.
func foldConst(e specexpr.Expr) (int64, bool) {
	if e.Terminal == specexpr.TerminalConst {
		return e.Const, true
	}

	return 0, false
}
