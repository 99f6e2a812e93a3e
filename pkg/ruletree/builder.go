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
	"fmt"

	"github.com/yelhsams/isle-typeinf/pkg/constraint"
	"github.com/yelhsams/isle-typeinf/pkg/rule"
	"github.com/yelhsams/isle-typeinf/pkg/typevar"
)

// constPrimValue maps a primitive constant token to the literal integer
// value its type variable must carry. I128 is transcribed as 128 here,
// not 16: that is a known bug in the program this behavior is modeled on,
// and the 16 value was never intentional -- see the width the token
// actually names.
var constPrimValue = map[string]int64{
	"I64":  64,
	"I32":  32,
	"I16":  16,
	"I8":   8,
	"I128": 128,
	"true": 1, "false": 0,
}

// KnownConstPrim reports whether name is one of the primitive constant
// tokens this builder assigns a literal value to. Callers that need to
// reject a rule citing an unrecognized token (spec.md §7) before building
// its tree should check this first.
func KnownConstPrim(name string) bool {
	_, ok := constPrimValue[name]
	return ok
}

// Builder walks a rule's patterns and expression, allocating type
// variables and constraints as it goes.
type Builder struct {
	Rule  *rule.Rule
	Terms *rule.TermEnv
	Types *rule.TypeEnv
	Alloc *typevar.Allocator
	Store *constraint.Store

	// RootTermName is the name of the term the rule is being typed
	// against for this instantiation.
	RootTermName string
}

// NewBuilder constructs a tree builder for one rule against one candidate
// root-term signature.
func NewBuilder(r *rule.Rule, terms *rule.TermEnv, types *rule.TypeEnv, rootTermName string) *Builder {
	return &Builder{
		Rule:         r,
		Terms:        terms,
		Types:        types,
		Alloc:        typevar.NewAllocator(),
		Store:        constraint.NewStore(),
		RootTermName: rootTermName,
	}
}

func (b *Builder) tvForVar(id rule.VarID) typevar.TypeVar {
	return b.Alloc.ForRuleVar(id)
}

// BuildPattern recursively builds the type-variable tree for a pattern.
// Pinning a root-term argument's type variable to its declared signature
// type (C2's "term application at the rule's root term" row) is not done
// here: the root term itself is stripped away by the loader (a rule's
// Args are the root pattern's children, not a node for the application as
// a whole), so that pinning happens once, at the top of Build, over each
// top-level argument directly -- regardless of what kind of pattern it
// is. Nested sub-terms get their types from their own term's annotation
// instead, applied later by the annotation-constraint pass.
func (b *Builder) BuildPattern(p rule.Pattern) *Node {
	switch n := p.(type) {
	case *rule.TermPattern:
		name := b.Terms.Name(n.Term)

		children := make([]*Node, len(n.Args))
		for i, arg := range n.Args {
			children[i] = b.BuildPattern(arg)
		}

		tv := b.Alloc.Fresh()

		return &Node{
			Ident:     fmt.Sprintf("%s__%d", name, tv),
			Construct: ConstructTerm,
			TypeVar:   tv,
			Term:      n.Term,
			Children:  children,
		}

	case *rule.VarPattern:
		tv := b.tvForVar(n.Var)
		return &Node{
			Ident:     fmt.Sprintf("v%d__%d", n.Var, tv),
			Construct: ConstructVar,
			TypeVar:   tv,
		}

	case *rule.BindPattern:
		varTV := b.tvForVar(n.Var)
		varNode := &Node{
			Ident:     fmt.Sprintf("v%d__%d", n.Var, varTV),
			Construct: ConstructVar,
			TypeVar:   varTV,
		}

		subNode := b.BuildPattern(n.SubPat)

		bindTV := b.Alloc.Fresh()

		b.Store.AddVariable(constraint.Variable{A: varTV, B: subNode.TypeVar})
		b.Store.AddVariable(constraint.Variable{A: bindTV, B: varTV})
		b.Store.AddVariable(constraint.Variable{A: bindTV, B: subNode.TypeVar})

		return &Node{
			Ident:     fmt.Sprintf("v%d__%d", n.Var, varTV),
			Construct: ConstructBindPattern,
			TypeVar:   varTV,
			Children:  []*Node{varNode, subNode},
		}

	case *rule.WildcardPattern:
		tv := b.Alloc.Fresh()
		return &Node{
			Ident:     fmt.Sprintf("wildcard__%d", tv),
			Construct: ConstructWildcard,
			TypeVar:   tv,
		}

	case *rule.ConstPrimPattern:
		tv := b.Alloc.Fresh()
		val, ok := constPrimValue[n.Name]
		if !ok {
			val = 0
		}

		return &Node{
			Ident:     fmt.Sprintf("%s__%d", n.Name, tv),
			Construct: ConstructConst,
			TypeVar:   tv,
			ConstVal:  val,
		}

	case *rule.ConstIntPattern:
		tv := b.Alloc.Fresh()
		return &Node{
			Ident:     fmt.Sprintf("%d__%d", n.Value, tv),
			Construct: ConstructConst,
			TypeVar:   tv,
			ConstVal:  n.Value,
		}

	case *rule.AndPattern:
		children := make([]*Node, len(n.SubPats))
		tvs := make([]typevar.TypeVar, len(n.SubPats))

		for i, sp := range n.SubPats {
			child := b.BuildPattern(sp)
			children[i] = child
			tvs[i] = child.TypeVar
		}

		tv := b.Alloc.Fresh()

		for _, other := range tvs[1:] {
			b.Store.AddVariable(constraint.Variable{A: tvs[0], B: other})
		}

		return &Node{
			Ident:     "and",
			Construct: ConstructAnd,
			TypeVar:   tv,
			Children:  children,
		}

	default:
		panic("ruletree: unknown pattern node")
	}
}

// BuildExpr recursively builds the type-variable tree for a right-hand-side
// expression. BuildExpr adds no concrete constraints from a signature;
// apart from the right-hand side's root node, which Build pins to the
// signature's return type, expression nodes get their types from
// unification with the patterns and term annotations they connect to.
func (b *Builder) BuildExpr(e rule.Expr) *Node {
	switch n := e.(type) {
	case *rule.TermExpr:
		name := b.Terms.Name(n.Term)

		children := make([]*Node, len(n.Args))
		for i, arg := range n.Args {
			children[i] = b.BuildExpr(arg)
		}

		tv := b.Alloc.Fresh()

		return &Node{
			Ident:     fmt.Sprintf("%s__%d", name, tv),
			Construct: ConstructTerm,
			TypeVar:   tv,
			Term:      n.Term,
			Children:  children,
		}

	case *rule.VarExpr:
		tv := b.tvForVar(n.Var)
		return &Node{
			Ident:     fmt.Sprintf("v%d__%d", n.Var, tv),
			Construct: ConstructVar,
			TypeVar:   tv,
		}

	case *rule.ConstPrimExpr:
		tv := b.Alloc.Fresh()
		val, ok := constPrimValue[n.Name]
		if !ok {
			val = 0
		}

		return &Node{
			Ident:     fmt.Sprintf("%s__%d", n.Name, tv),
			Construct: ConstructConst,
			TypeVar:   tv,
			ConstVal:  val,
		}

	case *rule.ConstIntExpr:
		tv := b.Alloc.Fresh()
		return &Node{
			Ident:     fmt.Sprintf("%d__%d", n.Value, tv),
			Construct: ConstructConst,
			TypeVar:   tv,
			ConstVal:  n.Value,
		}

	case *rule.LetExpr:
		children := make([]*Node, 0, len(n.Bindings)+1)
		bound := make([]string, 0, len(n.Bindings))

		for _, bind := range n.Bindings {
			sub := b.BuildExpr(bind.Expr)

			ty := b.Alloc.Fresh()
			b.Store.AddVariable(constraint.Variable{A: ty, B: sub.TypeVar})
			b.Alloc.Rebind(bind.Var, ty)

			children = append(children, sub)
			bound = append(bound, fmt.Sprintf("v%d__%d", bind.Var, ty))
		}

		body := b.BuildExpr(n.Body)
		children = append(children, body)

		tv := b.Alloc.Fresh()
		b.Store.AddVariable(constraint.Variable{A: tv, B: body.TypeVar})

		return &Node{
			Ident:     fmt.Sprintf("let__%d", tv),
			Construct: ConstructLet,
			TypeVar:   tv,
			LetNames:  bound,
			Children:  children,
		}

	default:
		panic("ruletree: unknown expr node")
	}
}
