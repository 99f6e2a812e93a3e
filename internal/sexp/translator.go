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

package sexp

import (
	"fmt"

	"github.com/yelhsams/isle-typeinf/internal/source"
)

// SymbolRule converts a terminating symbol into an expression of type T,
// given an auxiliary environment E (e.g. the term/type tables a rule or
// annotation file is being loaded against).
type SymbolRule[E any, T comparable] func(E, string) (T, bool, error)

// ListRule converts a list with a given sequence of already-translated
// arguments into an expression of type T.
type ListRule[E any, T comparable] func(E, *List) (T, error)

// BinaryRule is a wrapper for translating lists which must have exactly two
// symbol arguments, handling the arity check itself.
type BinaryRule[E any, T comparable] func(E, string, string) (T, error)

// RecursiveRule is a wrapper for translating lists whose elements are built
// by recursively reusing the enclosing translator.
type RecursiveRule[E any, T comparable] func(E, string, []T) (T, error)

// Translator is a generic mechanism for translating S-expressions into a
// structured form T, threading an auxiliary environment E through every
// rule.
type Translator[E any, T comparable] struct {
	srcfile *source.File
	// Rules for parsing lists, keyed by head symbol.
	lists map[string]ListRule[E, T]
	// Fallback rule for generic user-defined lists.
	listDefault ListRule[E, T]
	// Rules for parsing symbols, tried in registration order.
	symbols []SymbolRule[E, T]
	// Maps S-expressions to their spans in the original source file.
	oldSrcmap *source.Map[SExp]
	// Maps translated expressions to their spans in the original source
	// file, derived from oldSrcmap.
	newSrcmap *source.Map[T]
}

// NewTranslator constructs a new Translator over the S-expressions already
// read from srcfile, whose spans are recorded in srcmap.
func NewTranslator[E any, T comparable](srcfile *source.File, srcmap *source.Map[SExp]) *Translator[E, T] {
	return &Translator[E, T]{
		srcfile:   srcfile,
		lists:     make(map[string]ListRule[E, T]),
		symbols:   make([]SymbolRule[E, T], 0),
		oldSrcmap: srcmap,
		newSrcmap: source.NewSourceMap[T](*srcfile),
	}
}

// SourceMap returns the source map accumulated for translated terms.
func (p *Translator[E, T]) SourceMap() *source.Map[T] { return p.newSrcmap }

// Translate converts one S-expression into its structured representation,
// using the rules registered via AddRecursiveRule, AddBinaryRule and
// AddSymbolRule.
func (p *Translator[E, T]) Translate(env E, sexp SExp) (T, error) {
	return translateSExp(p, env, sexp)
}

// AddRecursiveRule registers a list rule which recursively translates its
// arguments before invoking t.
func (p *Translator[E, T]) AddRecursiveRule(name string, t RecursiveRule[E, T]) {
	p.lists[name] = p.createRecursiveRule(t)
}

// AddDefaultRecursiveRule registers a recursive rule applied to any list
// whose head has no dedicated rule.
func (p *Translator[E, T]) AddDefaultRecursiveRule(t RecursiveRule[E, T]) {
	p.listDefault = p.createRecursiveRule(t)
}

func (p *Translator[E, T]) createRecursiveRule(t RecursiveRule[E, T]) ListRule[E, T] {
	return func(env E, l *List) (T, error) {
		var empty T

		if len(l.Elements) == 0 || l.Elements[0].AsSymbol() == nil {
			return empty, p.SyntaxError(l, "invalid list")
		}

		head := l.Elements[0].(*Symbol).Value
		args := make([]T, len(l.Elements)-1)

		for i, s := range l.Elements[1:] {
			arg, err := translateSExp(p, env, s)
			if err != nil {
				return empty, err
			}

			args[i] = arg
		}

		term, err := t(env, head, args)
		if err == nil {
			return term, nil
		}

		return empty, p.SyntaxError(l, err.Error())
	}
}

// AddBinaryRule registers a rule for lists of exactly two symbol arguments.
func (p *Translator[E, T]) AddBinaryRule(name string, t BinaryRule[E, T]) {
	var empty T

	p.lists[name] = func(env E, l *List) (T, error) {
		if len(l.Elements) != 3 {
			return empty, p.SyntaxError(l, "incorrect number of arguments")
		}

		lhs, ok1 := l.Elements[1].(*Symbol)
		rhs, ok2 := l.Elements[2].(*Symbol)

		if ok1 && ok2 {
			term, err := t(env, lhs.Value, rhs.Value)
			if err == nil {
				return term, nil
			}

			return empty, p.SyntaxError(l, err.Error())
		}

		return empty, p.SyntaxError(l, fmt.Sprintf("binary list malformed (%t,%t)", ok1, ok2))
	}
}

// AddSymbolRule registers a rule tried against every terminating symbol, in
// registration order, until one reports a match.
func (p *Translator[E, T]) AddSymbolRule(t SymbolRule[E, T]) {
	p.symbols = append(p.symbols, t)
}

// SyntaxError constructs a syntax error anchored to a given S-expression's
// span in the original source file.
func (p *Translator[E, T]) SyntaxError(s SExp, msg string) error {
	span := p.oldSrcmap.Get(s)
	return p.srcfile.SyntaxError(span, msg)
}

func translateSExp[E any, T comparable](p *Translator[E, T], env E, s SExp) (T, error) {
	var empty T

	switch e := s.(type) {
	case *List:
		return translateSExpList(p, env, e)
	case *Symbol:
		for i := range p.symbols {
			ir, ok, err := p.symbols[i](env, e.Value)
			if ok && err != nil {
				return empty, p.SyntaxError(s, err.Error())
			} else if ok {
				p.newSrcmap.Put(ir, p.oldSrcmap.Get(s))
				return ir, nil
			}
		}
	}

	return empty, p.SyntaxError(s, "invalid s-expression")
}

func translateSExpList[E any, T comparable](p *Translator[E, T], env E, l *List) (T, error) {
	var empty T

	if len(l.Elements) == 0 || l.Elements[0].AsSymbol() == nil {
		return empty, p.SyntaxError(l, "invalid list")
	}

	name := l.Elements[0].(*Symbol).Value

	rule, ok := p.lists[name]
	if !ok {
		rule = p.listDefault
	}

	if rule == nil {
		return empty, p.SyntaxError(l, fmt.Sprintf("unknown list encountered (%s)", name))
	}

	term, err := rule(env, l)
	if err != nil {
		return empty, err
	}

	p.newSrcmap.Put(term, p.oldSrcmap.Get(l))

	return term, nil
}
