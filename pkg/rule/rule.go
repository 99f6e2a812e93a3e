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

// Package rule defines the rule-AST data model consumed by the type
// inference engine: root terms, patterns, expressions, and the term/type
// environments that describe the host IR. These types mirror the shape of
// cranelift-isle's `sema` module, simplified to exactly what the inference
// engine (and this repo's own loader) needs. Producing these values from
// ISLE source text is an external collaborator's job per the engine's
// scope; this package only defines the data they hand over.
package rule

// TermID identifies a term (an operator of the host IR, e.g. "iadd",
// "bv-conv-to") within a TermEnv.
type TermID uint32

// TypeID identifies a host-IR type (e.g. the ISLE type bound to a register
// class) within a TypeEnv.
type TypeID uint32

// VarID identifies a rule-local variable. The same VarID recurring within
// one rule (whether introduced by Pattern.Var or Pattern.BindPattern) always
// refers to the same binding.
type VarID uint32

// RuleID identifies a rule within a corpus.
type RuleID uint32

// TermDef describes one term's signature within the host IR: its name and
// the isle types of its arguments and return value.
type TermDef struct {
	Name    string
	ArgTys  []TypeID
	RetTy   TypeID
}

// TermEnv is the read-only table of term definitions shared across all
// rules processed in a run.
type TermEnv struct {
	Terms []TermDef
}

// Name returns the term's name.
func (e *TermEnv) Name(id TermID) string {
	return e.Terms[id].Name
}

// VarDef names a rule-local variable, for diagnostics.
type VarDef struct {
	Name string
}

// IfLet is a guarded precondition on a rule: pattern LHS must match and bind
// before the rule's main pattern applies, and the bound value must equal
// the evaluation of RHS.
type IfLet struct {
	LHS Pattern
	RHS Expr
}

// Rule is one rewrite rule: a root term application pattern (RootTerm +
// Args), any if-let preconditions, and a right-hand-side rewrite
// expression.
type Rule struct {
	ID       RuleID
	Name     string // empty if unnamed
	RootTerm TermID
	Args     []Pattern
	IfLets   []IfLet
	RHS      Expr
	Vars     []VarDef
}

// HasName reports whether the rule carries an explicit name.
func (r *Rule) HasName() bool {
	return r.Name != ""
}
