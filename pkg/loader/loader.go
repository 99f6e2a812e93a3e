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

// Package loader turns S-expression source text into the rule.TermEnv,
// rule.TypeEnv, annotation.Env and rule corpus the engine (C8) consumes.
// Producing these from real ISLE source and a real annotation language is
// the job of an external collaborator (spec.md §1); this package is a
// reference implementation of that collaborator so the CLI and tests have
// something concrete to feed the core.
//
// A loader source file is a sequence of top-level forms:
//
//	(deftype <name>)
//	(defmodel <type-name> <annotation-type>)
//	(defterm <name> (<arg-type>...) <ret-type>)
//	(defsig <term-name> (args (<name> <annotation-type>)...) (ret <name> <annotation-type>)
//	        [(assume <annotation-expr>)...] [(assert <annotation-expr>)...])
//	(defrule [<name>] (<root-term> <pattern>...)
//	         [(iflet <pattern> <expr>)...]
//	         <rhs-expr>)
//
// Forms are processed in file order, so a defterm/deftype must precede any
// defsig/defrule referencing it.
package loader

import (
	"fmt"

	"github.com/yelhsams/isle-typeinf/internal/sexp"
	"github.com/yelhsams/isle-typeinf/internal/source"
	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/rule"
)

// Loader accumulates the term/type/annotation environments and rule corpus
// read across one or more source files. Symbol tables are shared across
// files handed to the same Loader, so a rule corpus and its annotation file
// may be loaded separately as long as the type/term declarations come
// first.
type Loader struct {
	typeIDs   map[string]rule.TypeID
	typeNames []string

	termIDs map[string]rule.TermID
	terms   []rule.TermDef

	env *annotation.Env

	rules      []*rule.Rule
	nextRuleID rule.RuleID
}

// New constructs an empty Loader.
func New() *Loader {
	return &Loader{
		typeIDs: make(map[string]rule.TypeID),
		termIDs: make(map[string]rule.TermID),
		env:     annotation.NewEnv(),
	}
}

// TermEnv returns the term environment accumulated so far.
func (l *Loader) TermEnv() *rule.TermEnv { return &rule.TermEnv{Terms: l.terms} }

// TypeEnv returns the type environment accumulated so far.
func (l *Loader) TypeEnv() *rule.TypeEnv { return &rule.TypeEnv{Names: l.typeNames} }

// AnnotationEnv returns the annotation environment accumulated so far.
func (l *Loader) AnnotationEnv() *annotation.Env { return l.env }

// Rules returns every rule loaded so far, in file order.
func (l *Loader) Rules() []*rule.Rule { return l.rules }

// LoadFile reads and processes every top-level form in a source file.
func (l *Loader) LoadFile(srcfile *source.File) error {
	forms, _, err := sexp.ParseAll(srcfile)
	if err != nil {
		return fmt.Errorf("loader: %s", err.Error())
	}

	for _, form := range forms {
		if err := l.loadTop(form); err != nil {
			return err
		}
	}

	return nil
}

func (l *Loader) loadTop(s sexp.SExp) error {
	list := s.AsList()
	if list == nil || list.Len() == 0 {
		return fmt.Errorf("loader: malformed top-level form %q", s.String())
	}

	head := list.Get(0).AsSymbol()
	if head == nil {
		return fmt.Errorf("loader: malformed top-level form %q", s.String())
	}

	switch head.Value {
	case "deftype":
		return l.loadDefType(list)
	case "defmodel":
		return l.loadDefModel(list)
	case "defterm":
		return l.loadDefTerm(list)
	case "defsig":
		return l.loadDefSig(list)
	case "defrule":
		return l.loadDefRule(list)
	default:
		return fmt.Errorf("loader: unknown top-level form %q", head.Value)
	}
}

func symbolAt(l *sexp.List, i int) (*sexp.Symbol, error) {
	if i >= l.Len() {
		return nil, fmt.Errorf("loader: missing argument %d in %q", i, l.String())
	}

	sym := l.Get(i).AsSymbol()
	if sym == nil {
		return nil, fmt.Errorf("loader: expected symbol at position %d in %q", i, l.String())
	}

	return sym, nil
}

func listAt(l *sexp.List, i int) (*sexp.List, error) {
	if i >= l.Len() {
		return nil, fmt.Errorf("loader: missing argument %d in %q", i, l.String())
	}

	sub := l.Get(i).AsList()
	if sub == nil {
		return nil, fmt.Errorf("loader: expected list at position %d in %q", i, l.String())
	}

	return sub, nil
}

// lookupTerm resolves a term name to its id, failing if it was never
// declared via defterm.
func (l *Loader) lookupTerm(name string) (rule.TermID, error) {
	id, ok := l.termIDs[name]
	if !ok {
		return 0, fmt.Errorf("loader: reference to undeclared term %q", name)
	}

	return id, nil
}

func (l *Loader) lookupType(name string) (rule.TypeID, error) {
	id, ok := l.typeIDs[name]
	if !ok {
		return 0, fmt.Errorf("loader: reference to undeclared type %q", name)
	}

	return id, nil
}
