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

// Package specexpr is the typed semantic expression tree produced while
// walking an annotation, in lockstep with constraint emission: every node
// is tagged with the type variable the constraint generator allocated for
// it. This is the form assumptions, assertions, and the rule's LHS/RHS
// pretty-printer consume, as distinct from pkg/annotation's untyped
// operator algebra that assumption/assertion authors write against.
package specexpr

import "github.com/yelhsams/isle-typeinf/pkg/typevar"

// TerminalKind distinguishes the leaf forms of an expression.
type TerminalKind uint8

// Terminal kinds.
const (
	TerminalVar TerminalKind = iota
	TerminalConst
	TerminalTrue
	TerminalFalse
	TerminalWildcard
)

// BoundVar names a variable together with the type variable standing for
// its type, as it appears in a rule's quantified or free variable list.
type BoundVar struct {
	Name   string
	TypeVar typevar.TypeVar
}

// Expr is one node of the typed semantic expression tree. Op identifies
// the shape; fields are populated according to Op exactly as in
// pkg/annotation.Expr, with the addition of the TV field every node
// carries.
type Expr struct {
	// TV is the type variable this node's value was assigned during
	// constraint emission.
	TV typevar.TypeVar

	Terminal TerminalKind // valid iff Op == OpTerminal
	Var      string       // valid iff Terminal == TerminalVar
	Const    int64        // valid iff Terminal == TerminalConst

	Op Op

	Args []Expr

	High int64
	Low  int64

	Cases []SwitchCase
}

// Op mirrors annotation.Op for the non-terminal node shapes; terminals are
// distinguished via the Terminal field instead of a dedicated Op value.
type Op uint8

// Operator tags for non-terminal nodes. OpTerminal marks a leaf.
const (
	OpTerminal Op = iota
	OpWidthOf
	OpEq
	OpImp
	OpLte
	OpLt
	OpNot
	OpOr
	OpAnd
	OpBVSgt
	OpBVSgte
	OpBVSlt
	OpBVSlte
	OpBVUgt
	OpBVUgte
	OpBVUlt
	OpBVUlte
	OpBVSaddo
	OpBVNeg
	OpBVNot
	OpBVMul
	OpBVUDiv
	OpBVSDiv
	OpBVAdd
	OpBVSub
	OpBVUrem
	OpBVSrem
	OpBVAnd
	OpBVOr
	OpBVXor
	OpBVRotl
	OpBVRotr
	OpBVShl
	OpBVShr
	OpBVAShr
	OpBVConvTo
	OpBVSignExtTo
	OpBVZeroExtTo
	OpBVExtract
	OpBVConcat
	OpBVIntToBV
	OpBVToInt
	OpConditional
	OpSwitch
	OpCLZ
	OpCLS
	OpRev
	OpBVSubs
	OpBVPopcnt
)

// SwitchCase is one arm of a typed switch node.
type SwitchCase struct {
	When Expr
	Then Expr
}

// Terminal builders.

// VarNode builds a typed variable reference.
func VarNode(tv typevar.TypeVar, name string) Expr {
	return Expr{TV: tv, Terminal: TerminalVar, Var: name}
}

// ConstNode builds a typed integer literal.
func ConstNode(tv typevar.TypeVar, v int64) Expr {
	return Expr{TV: tv, Terminal: TerminalConst, Const: v}
}

// TrueNode builds the typed boolean literal true.
func TrueNode(tv typevar.TypeVar) Expr { return Expr{TV: tv, Terminal: TerminalTrue} }

// FalseNode builds the typed boolean literal false.
func FalseNode(tv typevar.TypeVar) Expr { return Expr{TV: tv, Terminal: TerminalFalse} }

// WildcardNode builds a typed wildcard placeholder.
func WildcardNode(tv typevar.TypeVar) Expr { return Expr{TV: tv, Terminal: TerminalWildcard} }

// Unary builds a typed one-argument node.
func Unary(tv typevar.TypeVar, op Op, a Expr) Expr {
	return Expr{TV: tv, Op: op, Args: []Expr{a}}
}

// Binary builds a typed two-argument node.
func Binary(tv typevar.TypeVar, op Op, a, b Expr) Expr {
	return Expr{TV: tv, Op: op, Args: []Expr{a, b}}
}

// IsTerminal reports whether this node is a leaf.
func (e *Expr) IsTerminal() bool { return e.Op == OpTerminal }
