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

package loader

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/yelhsams/isle-typeinf/internal/sexp"
	"github.com/yelhsams/isle-typeinf/pkg/rule"
)

// ruleScope tracks the rule-local variable table while a single defrule
// form is being read. The same name always resolves to the same VarID,
// whether it is first seen on the LHS or inside an if-let/let binding.
type ruleScope struct {
	names map[string]rule.VarID
	vars  []rule.VarDef
}

func newRuleScope() *ruleScope {
	return &ruleScope{names: make(map[string]rule.VarID)}
}

func (s *ruleScope) varFor(name string) rule.VarID {
	if id, ok := s.names[name]; ok {
		return id
	}

	id := rule.VarID(len(s.vars))
	s.vars = append(s.vars, rule.VarDef{Name: name})
	s.names[name] = id

	return id
}

// isConstPrimName reports whether a bare token denotes a named primitive
// constant (e.g. `I32`, `true`) rather than a variable reference. ISLE
// convention capitalizes constant tokens; this loader follows the same
// convention plus the two boolean literals.
func isConstPrimName(name string) bool {
	if name == "true" || name == "false" {
		return true
	}

	r := []rune(name)

	return len(r) > 0 && unicode.IsUpper(r[0])
}

// loadDefRule processes:
//
//	(defrule [<name>] (<root-term> <pattern>...)
//	         [(iflet <pattern> <expr>)...]
//	         <rhs-expr>)
func (l *Loader) loadDefRule(list *sexp.List) error {
	idx := 1

	name := ""
	if sym := list.Get(idx).AsSymbol(); sym != nil {
		name = sym.Value
		idx++
	}

	rootList, err := listAt(list, idx)
	if err != nil {
		return fmt.Errorf("loader: defrule missing root pattern: %w", err)
	}
	idx++

	if rootList.Len() == 0 {
		return fmt.Errorf("loader: defrule has an empty root pattern")
	}

	rootName := rootList.Get(0).AsSymbol()
	if rootName == nil {
		return fmt.Errorf("loader: defrule root pattern must start with a term name")
	}

	rootTerm, err := l.lookupTerm(rootName.Value)
	if err != nil {
		return err
	}

	scope := newRuleScope()

	args := make([]rule.Pattern, rootList.Len()-1)

	for i := 1; i < rootList.Len(); i++ {
		p, err := l.parsePattern(scope, rootList.Get(i))
		if err != nil {
			return err
		}

		args[i-1] = p
	}

	var ifLets []rule.IfLet

	for ; idx < list.Len()-1; idx++ {
		clause := list.Get(idx).AsList()
		if clause == nil || clause.Len() != 3 {
			return fmt.Errorf("loader: malformed iflet clause %q", list.Get(idx).String())
		}

		kw := clause.Get(0).AsSymbol()
		if kw == nil || kw.Value != "iflet" {
			return fmt.Errorf("loader: expected (iflet <pattern> <expr>), got %q", clause.String())
		}

		lhs, err := l.parsePattern(scope, clause.Get(1))
		if err != nil {
			return err
		}

		rhs, err := l.parseExpr(scope, clause.Get(2))
		if err != nil {
			return err
		}

		ifLets = append(ifLets, rule.IfLet{LHS: lhs, RHS: rhs})
	}

	if idx >= list.Len() {
		return fmt.Errorf("loader: defrule %q is missing its right-hand side", name)
	}

	rhs, err := l.parseExpr(scope, list.Get(idx))
	if err != nil {
		return err
	}

	id := l.nextRuleID
	l.nextRuleID++

	l.rules = append(l.rules, &rule.Rule{
		ID:       id,
		Name:     name,
		RootTerm: rootTerm,
		Args:     args,
		IfLets:   ifLets,
		RHS:      rhs,
		Vars:     scope.vars,
	})

	return nil
}

func (l *Loader) parsePattern(scope *ruleScope, s sexp.SExp) (rule.Pattern, error) {
	if sym := s.AsSymbol(); sym != nil {
		switch {
		case sym.Value == "_":
			return &rule.WildcardPattern{}, nil
		case isConstPrimName(sym.Value):
			return &rule.ConstPrimPattern{Name: sym.Value}, nil
		}

		if n, err := strconv.ParseInt(sym.Value, 10, 64); err == nil {
			return &rule.ConstIntPattern{Value: n}, nil
		}

		return &rule.VarPattern{Var: scope.varFor(sym.Value)}, nil
	}

	list := s.AsList()
	if list == nil || list.Len() == 0 {
		return nil, fmt.Errorf("loader: malformed pattern %q", s.String())
	}

	head := list.Get(0).AsSymbol()
	if head == nil {
		return nil, fmt.Errorf("loader: malformed pattern %q", s.String())
	}

	switch head.Value {
	case "bind":
		if list.Len() != 3 {
			return nil, fmt.Errorf("loader: malformed bind pattern %q", s.String())
		}

		name, err := symbolAt(list, 1)
		if err != nil {
			return nil, err
		}

		sub, err := l.parsePattern(scope, list.Get(2))
		if err != nil {
			return nil, err
		}

		return &rule.BindPattern{Var: scope.varFor(name.Value), SubPat: sub}, nil
	case "and":
		subs := make([]rule.Pattern, list.Len()-1)

		for i := 1; i < list.Len(); i++ {
			sub, err := l.parsePattern(scope, list.Get(i))
			if err != nil {
				return nil, err
			}

			subs[i-1] = sub
		}

		return &rule.AndPattern{SubPats: subs}, nil
	default:
		term, err := l.lookupTerm(head.Value)
		if err != nil {
			return nil, err
		}

		args := make([]rule.Pattern, list.Len()-1)

		for i := 1; i < list.Len(); i++ {
			sub, err := l.parsePattern(scope, list.Get(i))
			if err != nil {
				return nil, err
			}

			args[i-1] = sub
		}

		return &rule.TermPattern{Term: term, Args: args}, nil
	}
}

func (l *Loader) parseExpr(scope *ruleScope, s sexp.SExp) (rule.Expr, error) {
	if sym := s.AsSymbol(); sym != nil {
		if n, err := strconv.ParseInt(sym.Value, 10, 64); err == nil {
			return &rule.ConstIntExpr{Value: n}, nil
		}

		if isConstPrimName(sym.Value) {
			if _, bound := scope.names[sym.Value]; !bound {
				return &rule.ConstPrimExpr{Name: sym.Value}, nil
			}
		}

		return &rule.VarExpr{Var: scope.varFor(sym.Value)}, nil
	}

	list := s.AsList()
	if list == nil || list.Len() == 0 {
		return nil, fmt.Errorf("loader: malformed expression %q", s.String())
	}

	head := list.Get(0).AsSymbol()
	if head == nil {
		return nil, fmt.Errorf("loader: malformed expression %q", s.String())
	}

	if head.Value == "let" {
		bindingsList, err := listAt(list, 1)
		if err != nil {
			return nil, fmt.Errorf("loader: malformed let bindings: %w", err)
		}

		bindings := make([]rule.LetBinding, bindingsList.Len())

		for i := 0; i < bindingsList.Len(); i++ {
			pair := bindingsList.Get(i).AsList()
			if pair == nil || pair.Len() != 2 {
				return nil, fmt.Errorf("loader: malformed let binding %q", bindingsList.Get(i).String())
			}

			name := pair.Get(0).AsSymbol()
			if name == nil {
				return nil, fmt.Errorf("loader: malformed let binding name %q", pair.String())
			}

			value, err := l.parseExpr(scope, pair.Get(1))
			if err != nil {
				return nil, err
			}

			bindings[i] = rule.LetBinding{Var: scope.varFor(name.Value), Expr: value}
		}

		if list.Len() != 3 {
			return nil, fmt.Errorf("loader: malformed let expression %q", s.String())
		}

		body, err := l.parseExpr(scope, list.Get(2))
		if err != nil {
			return nil, err
		}

		return &rule.LetExpr{Bindings: bindings, Body: body}, nil
	}

	term, err := l.lookupTerm(head.Value)
	if err != nil {
		return nil, err
	}

	args := make([]rule.Expr, list.Len()-1)

	for i := 1; i < list.Len(); i++ {
		sub, err := l.parseExpr(scope, list.Get(i))
		if err != nil {
			return nil, err
		}

		args[i-1] = sub
	}

	return &rule.TermExpr{Term: term, Args: args}, nil
}
