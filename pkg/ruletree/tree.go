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

package ruletree

import (
	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/constraint"
)

// Tree is the fully built parse tree for one rule against one candidate
// root-term signature: the left-hand-side argument nodes (each pinned, at
// the top level, to the signature's declared argument type), every if-let
// precondition's pattern/expression pair, and the right-hand-side node
// (pinned to the signature's declared return type).
type Tree struct {
	Args    []*Node
	IfLets  []IfLetNodes
	RHS     *Node
}

// IfLetNodes is the built pattern/expression pair for one if-let
// precondition.
type IfLetNodes struct {
	LHS *Node
	RHS *Node
}

// Build runs the full per-rule walk: every root-term argument pattern,
// every if-let's pattern and expression, and the right-hand-side
// expression, all sharing one Builder (and so one type-variable
// allocator and constraint store) so that a variable occurring in more
// than one of these positions resolves to a single type variable.
//
// sig, if non-nil, is the candidate signature the rule's root term is
// being checked against for this instantiation: C2's "term application
// at the rule's root term" row pins each top-level argument's type
// variable to the signature's declared argument type, and the rule's
// overall result (represented here by the right-hand side's own node,
// since the loader strips the root application itself out of the tree)
// to the signature's declared return type.
func Build(b *Builder, sig *annotation.TermSignature) *Tree {
	args := make([]*Node, len(b.Rule.Args))
	for i, p := range b.Rule.Args {
		args[i] = b.BuildPattern(p)

		if sig != nil && i < len(sig.ArgTypes) {
			b.Store.AddConcrete(constraint.Concrete{V: args[i].TypeVar, T: sig.ArgTypes[i]})
		}
	}

	ifLets := make([]IfLetNodes, len(b.Rule.IfLets))
	for i, il := range b.Rule.IfLets {
		lhs := b.BuildPattern(il.LHS)
		rhs := b.BuildExpr(il.RHS)

		b.Store.AddVariable(constraint.Variable{A: lhs.TypeVar, B: rhs.TypeVar})

		ifLets[i] = IfLetNodes{LHS: lhs, RHS: rhs}
	}

	rhs := b.BuildExpr(b.Rule.RHS)

	if sig != nil {
		b.Store.AddConcrete(constraint.Concrete{V: rhs.TypeVar, T: sig.RetType})
	}

	return &Tree{Args: args, IfLets: ifLets, RHS: rhs}
}
