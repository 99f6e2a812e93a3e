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

// Package emit is the typed-rule emitter (C7): it assembles the final
// per-rule result from a built parse tree, a walked set of annotation
// constraints, and a solved type assignment, and renders the annotated
// pretty-print of a rule's left- and right-hand sides.
package emit

import (
	"fmt"
	"sort"

	"github.com/yelhsams/isle-typeinf/pkg/annoconstr"
	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/rule"
	"github.com/yelhsams/isle-typeinf/pkg/ruletree"
	"github.com/yelhsams/isle-typeinf/pkg/specexpr"
	"github.com/yelhsams/isle-typeinf/pkg/typevar"
)

// MissingTypeVarError is the "bug-class fatal" error kind: a type variable
// the emitter needed to render was never present in the solved model. This
// indicates a constraint was silently dropped somewhere upstream -- every
// type variable the allocator hands out must be covered by some
// constraint, so the solver should never leave one undecided. Callers are
// expected to treat this as fatal to the run, not to the single rule.
type MissingTypeVarError struct {
	Rule string
	TV   typevar.TypeVar
}

func (e *MissingTypeVarError) Error() string {
	return fmt.Sprintf("emit: bug: tv%d referenced by rule %q has no entry in the solved model", e.TV, e.Rule)
}

// Bound pairs a name (rule-variable or annotation-local) with the type
// variable standing for its value and the concrete type the solver
// assigned it.
type Bound struct {
	Name    string
	TypeVar typevar.TypeVar
	Type    annotation.Type
}

// TermAnnotationInfo carries, for one term application encountered while
// typing a rule, the mapping from that term's annotation-local variable
// names to the type variables assigned to them.
type TermAnnotationInfo struct {
	Term string
	Vars []Bound
}

// Record is the fully assembled, typed result for one rule against one
// root-term signature instantiation.
type Record struct {
	RuleID   rule.RuleID
	RuleName string

	LHS []*ruletree.Node
	RHS *ruletree.Node

	Types map[typevar.TypeVar]annotation.Type

	// Quantified lists every binder (rule-local and annotation-local)
	// the rule introduced, sorted by name for stable output.
	Quantified []Bound
	// Free lists every variable registered as free -- annotation-introduced
	// variables and the rule-local variable nodes the annotation pass
	// visits -- also sorted by name; both kinds are registered in lockstep
	// with Quantified (see SPEC_FULL.md §5.2), so in practice the two lists
	// overlap.
	Free []Bound

	Assumptions   []specexpr.Expr
	RHSAssertions []specexpr.Expr

	AnnotationInfos []TermAnnotationInfo

	// LHSPretty and RHSPretty are the annotated, sigil-decorated
	// pretty-printed forms of the rule's left- and right-hand sides,
	// suitable for human inspection or a downstream verifier.
	LHSPretty []string
	RHSPretty string
}

// Build assembles a Record from a built parse tree, the walker that ran
// annotation constraint generation over it, and the type assignment the
// solver decoded. ruleLabel is used only to make a MissingTypeVarError
// readable.
func Build(
	r *rule.Rule,
	tree *ruletree.Tree,
	w *annoconstr.Walker,
	types map[typevar.TypeVar]annotation.Type,
	termWidth uint,
) (*Record, error) {
	label := ruleLabel(r)

	check := func(v typevar.TypeVar) error {
		if _, ok := types[v]; !ok {
			return &MissingTypeVarError{Rule: label, TV: v}
		}

		return nil
	}

	for _, arg := range tree.Args {
		if err := walkCheck(arg, check); err != nil {
			return nil, err
		}
	}

	if err := walkCheck(tree.RHS, check); err != nil {
		return nil, err
	}

	quant := sortedBound(w.QuantifiedVars, types)
	free := sortedBound(w.FreeVars, types)

	infos := make([]TermAnnotationInfo, 0, len(w.AnnotationInfos))

	for _, info := range w.AnnotationInfos {
		infos = append(infos, TermAnnotationInfo{
			Term: info.Term,
			Vars: sortedBound(info.VarToTypeVar, types),
		})
	}

	rec := &Record{
		RuleID:          r.ID,
		RuleName:        r.Name,
		LHS:             tree.Args,
		RHS:             tree.RHS,
		Types:           types,
		Quantified:      quant,
		Free:            free,
		Assumptions:     w.Assumptions,
		RHSAssertions:   w.RHSAssertions,
		AnnotationInfos: infos,
	}

	rec.LHSPretty = make([]string, len(tree.Args))
	for i, arg := range tree.Args {
		rec.LHSPretty[i] = Pretty(arg, types, termWidth)
	}

	rec.RHSPretty = Pretty(tree.RHS, types, termWidth)

	return rec, nil
}

func walkCheck(n *ruletree.Node, check func(typevar.TypeVar) error) error {
	if err := check(n.TypeVar); err != nil {
		return err
	}

	for _, c := range n.Children {
		if err := walkCheck(c, check); err != nil {
			return err
		}
	}

	return nil
}

func sortedBound(m map[string]typevar.TypeVar, types map[typevar.TypeVar]annotation.Type) []Bound {
	out := make([]Bound, 0, len(m))

	for name, tv := range m {
		out = append(out, Bound{Name: name, TypeVar: tv, Type: types[tv]})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

func ruleLabel(r *rule.Rule) string {
	if r.HasName() {
		return r.Name
	}

	return fmt.Sprintf("rule#%d", r.ID)
}
