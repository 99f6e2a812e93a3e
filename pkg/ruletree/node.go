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

// Package ruletree builds the type-variable-annotated parse tree (C2) for
// one rule: a recursive walk of its left-hand-side patterns, any if-let
// preconditions, and its right-hand-side expression, allocating a type
// variable per node and emitting the structural constraints the node
// shape implies.
package ruletree

import (
	"fmt"

	"github.com/yelhsams/isle-typeinf/pkg/rule"
	"github.com/yelhsams/isle-typeinf/pkg/specexpr"
	"github.com/yelhsams/isle-typeinf/pkg/typevar"
)

// ConstructKind discriminates the shape a Node was built from.
type ConstructKind uint8

// Construct kinds, one per rule.Pattern/rule.Expr variant the tree walker
// handles, collapsing the pattern and expression sides into one
// vocabulary since they allocate type variables identically.
const (
	ConstructVar ConstructKind = iota
	ConstructBindPattern
	ConstructWildcard
	ConstructTerm
	ConstructConst
	ConstructLet
	ConstructAnd
)

// Node is one type-variable-annotated parse-tree node.
type Node struct {
	Ident     string
	Construct ConstructKind
	TypeVar   typevar.TypeVar
	Term      rule.TermID // valid iff Construct == ConstructTerm
	ConstVal  int64       // valid iff Construct == ConstructConst
	LetNames  []string    // valid iff Construct == ConstructLet
	Children  []*Node
	Assertions []specexpr.Expr
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(tv%d)", n.Ident, n.TypeVar)
}
