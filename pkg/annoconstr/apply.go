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

package annoconstr

import (
	"fmt"

	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/constraint"
	"github.com/yelhsams/isle-typeinf/pkg/rule"
	"github.com/yelhsams/isle-typeinf/pkg/ruletree"
	"github.com/yelhsams/isle-typeinf/pkg/specexpr"
)

// Apply recursively converts a parse-tree node (and its children) into a
// typed semantic expression, applying the annotation attached to every
// term application it encounters along the way. rhs selects whether
// encountered terms' assertions become proof obligations (rhs == true) or
// assumptions (rhs == false); callers process a rule's left-hand-side
// patterns and if-lets with rhs == false and its right-hand-side
// expression with rhs == true. It reports false if any term application
// has no usable annotation, in which case the rule as a whole must be
// skipped.
func (w *Walker) Apply(node *ruletree.Node, terms *rule.TermEnv, env *annotation.Env, rhs bool) (specexpr.Expr, bool) {
	children := make([]specexpr.Expr, 0, len(node.Children))

	for _, child := range node.Children {
		ce, ok := w.Apply(child, terms, env, rhs)
		if !ok {
			return specexpr.Expr{}, false
		}

		children = append(children, ce)
	}

	switch node.Construct {
	case ruletree.ConstructVar:
		w.QuantifiedVars[node.Ident] = node.TypeVar
		w.FreeVars[node.Ident] = node.TypeVar

		return specexpr.VarNode(node.TypeVar, node.Ident), true

	case ruletree.ConstructBindPattern:
		eq := eqExpr(children[0], children[1])
		w.Assumptions = append(w.Assumptions, eq)

		return children[0], true

	case ruletree.ConstructWildcard:
		return specexpr.WildcardNode(node.TypeVar), true

	case ruletree.ConstructConst:
		w.TypeVarToValue[node.TypeVar] = node.ConstVal
		return specexpr.ConstNode(node.TypeVar, node.ConstVal), true

	case ruletree.ConstructAnd:
		first := children[0]
		for _, c := range children[1:] {
			w.Assumptions = append(w.Assumptions, eqExpr(first, c))
		}

		return first, true

	case ruletree.ConstructLet:
		for i, name := range node.LetNames {
			w.Assumptions = append(w.Assumptions, eqExpr(specexpr.VarNode(0, name), children[i]))
		}

		return children[len(children)-1], true

	case ruletree.ConstructTerm:
		return w.applyTerm(node, children, terms, env, rhs)

	default:
		panic(fmt.Sprintf("annoconstr: unknown construct %d", node.Construct))
	}
}

func eqExpr(a, b specexpr.Expr) specexpr.Expr {
	return specexpr.Binary(0, specexpr.OpEq, a, b)
}

func (w *Walker) applyTerm(node *ruletree.Node, children []specexpr.Expr, terms *rule.TermEnv, env *annotation.Env, rhs bool) (specexpr.Expr, bool) {
	term := terms.Terms[node.Term]

	sigs := env.SignaturesFor(node.Term)
	if len(sigs) == 0 {
		return specexpr.Expr{}, false
	}

	sig := sigs[0]

	w.QuantifiedVars[node.Ident] = node.TypeVar

	info := NewInfo(node.Ident)

	for _, assumption := range sig.Assumptions {
		typed, _ := w.Walk(assumption, info)
		node.Assertions = append(node.Assertions, typed)
		w.Assumptions = append(w.Assumptions, typed)
		w.BindIsleTypes(&term, sig, env, info)
	}

	for _, assertion := range sig.Assertions {
		typed, _ := w.Walk(assertion, info)
		node.Assertions = append(node.Assertions, typed)
		w.BindIsleTypes(&term, sig, env, info)

		if rhs {
			w.RHSAssertions = append(w.RHSAssertions, typed)
		} else {
			w.Assumptions = append(w.Assumptions, typed)
		}
	}

	// Set each rule argument's type variable equal to the annotation's
	// own variable for that argument, propagating any known literal
	// value onto the annotation side too.
	for i, child := range node.Children {
		if i >= len(sig.ArgNames) {
			break
		}

		argTV := info.VarToTypeVar[sig.ArgNames[i]]

		if v, ok := w.TypeVarToValue[child.TypeVar]; ok {
			w.TypeVarToValue[argTV] = v
		}

		w.Store.AddVariable(constraint.Variable{A: child.TypeVar, B: argTV})
	}

	for i, child := range children {
		if i >= len(sig.ArgNames) {
			break
		}

		argTV := info.VarToTypeVar[sig.ArgNames[i]]
		argName := fmt.Sprintf("%s__%s__%d", node.Ident, sig.ArgNames[i], argTV)
		w.QuantifiedVars[argName] = argTV
		w.Assumptions = append(w.Assumptions, eqExpr(child, specexpr.VarNode(argTV, argName)))
	}

	retTV := info.VarToTypeVar[sig.RetName]
	w.Store.AddVariable(constraint.Variable{A: node.TypeVar, B: retTV})

	retName := fmt.Sprintf("%s__%s__%d", node.Ident, sig.RetName, retTV)
	w.QuantifiedVars[retName] = retTV
	w.Assumptions = append(w.Assumptions, eqExpr(specexpr.VarNode(node.TypeVar, node.Ident), specexpr.VarNode(retTV, retName)))

	w.AnnotationInfos = append(w.AnnotationInfos, info)

	return specexpr.VarNode(node.TypeVar, node.Ident), true
}
