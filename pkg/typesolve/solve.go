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

// Package typesolve lowers one rule's constraint store into an SMT-LIB2
// session (C6) and reads the resulting model back into a concrete type per
// type variable, mirroring TypeSolver's add_constraint/solve/get_type
// split: every constraint kind becomes a small, fixed assertion shape, and
// a satisfying model is decoded one type variable at a time.
package typesolve

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yelhsams/isle-typeinf/internal/smt"
	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/constraint"
	"github.com/yelhsams/isle-typeinf/pkg/typevar"
)

// ErrUnsat is returned when the constraint store has no satisfying model,
// meaning the rule it was built from cannot be typed as written.
var ErrUnsat = errors.New("typesolve: constraints are unsatisfiable")

// Solver discharges a single rule's constraints through one SMT session.
type Solver struct {
	session *smt.Session
	types   map[typevar.TypeVar]smt.Type
}

// NewSolver spawns a fresh solver subprocess, optionally mirroring every
// statement it is sent to the given replay log.
func NewSolver(replay io.Writer) (*Solver, error) {
	session, err := smt.NewSession(replay)
	if err != nil {
		return nil, err
	}

	return &Solver{session: session, types: make(map[typevar.TypeVar]smt.Type)}, nil
}

// Close releases the underlying solver subprocess.
func (s *Solver) Close() error { return s.session.Close() }

// Kill forcibly terminates the underlying solver subprocess, for use when a
// caller-imposed solver timeout has expired (spec.md §5).
func (s *Solver) Kill() error { return s.session.Kill() }

func (s *Solver) symbolicType(v typevar.TypeVar) smt.Type {
	if t, ok := s.types[v]; ok {
		return t
	}

	t := smt.Declare(s.session.Builder, uint32(v))
	s.types[v] = t

	return t
}

// AddConstraints declares a symbolic type for every type variable in
// [0, count) and asserts every constraint the store holds.
func (s *Solver) AddConstraints(store *constraint.Store, count uint32, values map[typevar.TypeVar]int64) {
	for v := uint32(0); v < count; v++ {
		s.symbolicType(typevar.TypeVar(v))
	}

	for _, c := range store.Concretes() {
		s.concrete(c.V, c.T)
	}

	for _, c := range store.Variables() {
		s.variable(c.A, c.B)
	}

	for _, c := range store.WidthInts() {
		s.widthInt(c.V, c.W)
	}

	for _, c := range store.SymbolicSums() {
		s.symbolicSum(c.Ls, c.Rs)
	}

	for v, n := range values {
		s.setValue(v, n)
	}
}

func (s *Solver) concrete(v typevar.TypeVar, t annotation.Type) {
	b := s.session.Builder
	sym := s.symbolicType(v)

	switch t.Kind {
	case annotation.KindBitVectorOfWidth:
		s.assertDiscriminant(sym, smt.DiscBitVector)
		b.Assert(b.Eq(sym.BitvectorWidth.Some.Atom, "true"))
		b.Assert(b.Eq(sym.BitvectorWidth.Value.Atom, b.Numeral(t.Width)))
	case annotation.KindBitVector, annotation.KindBitVectorUnknown, annotation.KindPoly:
		s.assertDiscriminant(sym, smt.DiscBitVector)
	case annotation.KindInt:
		s.assertDiscriminant(sym, smt.DiscInt)
	case annotation.KindBool:
		s.assertDiscriminant(sym, smt.DiscBool)
	default:
		panic(fmt.Sprintf("typesolve: unhandled concrete type kind %v", t.Kind))
	}
}

func (s *Solver) assertDiscriminant(sym smt.Type, d smt.Discriminant) {
	b := s.session.Builder
	b.Assert(b.Eq(sym.Discriminant.Atom, b.Numeral(int64(d))))
}

func (s *Solver) variable(u, v typevar.TypeVar) {
	a := s.symbolicType(u)
	c := s.symbolicType(v)
	s.assertTypesEqual(a, c)
}

// assertTypesEqual asserts only the discriminant and bit-vector width
// agree, deliberately leaving the integer-value option unconstrained --
// two unified type variables must denote the same type, not the same
// literal integer value.
func (s *Solver) assertTypesEqual(a, c smt.Type) {
	b := s.session.Builder
	b.Assert(b.Eq(a.Discriminant.Atom, c.Discriminant.Atom))
	b.Assert(b.Eq(a.BitvectorWidth.Some.Atom, c.BitvectorWidth.Some.Atom))
	b.Assert(b.Eq(a.BitvectorWidth.Value.Atom, c.BitvectorWidth.Value.Atom))
}

func (s *Solver) widthInt(v, w typevar.TypeVar) {
	b := s.session.Builder
	bv := s.symbolicType(v)
	iv := s.symbolicType(w)

	s.assertDiscriminant(bv, smt.DiscBitVector)
	s.assertDiscriminant(iv, smt.DiscInt)
	b.Assert(b.Eq(bv.BitvectorWidth.Some.Atom, iv.IntegerValue.Some.Atom))
	b.Assert(b.Eq(bv.BitvectorWidth.Value.Atom, iv.IntegerValue.Value.Atom))
}

func (s *Solver) symbolicSum(ls, rs []typevar.TypeVar) {
	b := s.session.Builder

	lWidths := make([]string, len(ls))
	for i, v := range ls {
		lWidths[i] = s.symbolicType(v).BitvectorWidth.Value.Atom
	}

	rWidths := make([]string, len(rs))
	for i, v := range rs {
		rWidths[i] = s.symbolicType(v).BitvectorWidth.Value.Atom
	}

	b.Assert(b.Eq(b.PlusMany(lWidths...), b.PlusMany(rWidths...)))
}

func (s *Solver) setValue(v typevar.TypeVar, n int64) {
	b := s.session.Builder
	sym := s.symbolicType(v)

	b.Assert(b.Imp(
		b.Eq(sym.Discriminant.Atom, b.Numeral(int64(smt.DiscInt))),
		b.And(
			sym.IntegerValue.Some.Atom,
			b.Eq(sym.IntegerValue.Value.Atom, b.Numeral(n)),
		),
	))
}

// Solve checks satisfiability and, if sat, decodes every declared type
// variable's concrete annotation type from the model.
func (s *Solver) Solve() (map[typevar.TypeVar]annotation.Type, error) {
	status, err := s.session.CheckSat()
	if err != nil {
		return nil, err
	}

	if status != "sat" {
		return nil, fmt.Errorf("%w: solver returned %q", ErrUnsat, status)
	}

	result := make(map[typevar.TypeVar]annotation.Type, len(s.types))

	for v := range s.types {
		t, err := s.getType(v)
		if err != nil {
			return nil, err
		}

		result[v] = t
	}

	return result, nil
}

func (s *Solver) getType(v typevar.TypeVar) (annotation.Type, error) {
	sym := s.symbolicType(v)

	discVals, err := s.session.GetValue(sym.Discriminant.Atom)
	if err != nil {
		return annotation.Type{}, err
	}

	discNum, err := parseInt(discVals[sym.Discriminant.Atom])
	if err != nil {
		return annotation.Type{}, fmt.Errorf("typesolve: decoding discriminant for tv%d: %w", v, err)
	}

	switch smt.Discriminant(discNum) {
	case smt.DiscBitVector:
		widthVals, err := s.session.GetValue(sym.BitvectorWidth.Some.Atom, sym.BitvectorWidth.Value.Atom)
		if err != nil {
			return annotation.Type{}, err
		}

		if !parseBool(widthVals[sym.BitvectorWidth.Some.Atom]) {
			return annotation.BitVector(), nil
		}

		width, err := parseInt(widthVals[sym.BitvectorWidth.Value.Atom])
		if err != nil {
			return annotation.Type{}, fmt.Errorf("typesolve: decoding width for tv%d: %w", v, err)
		}

		return annotation.BitVectorOfWidth(width), nil

	case smt.DiscInt:
		return annotation.Int(), nil

	case smt.DiscBool:
		return annotation.Bool(), nil

	default:
		return annotation.Type{}, fmt.Errorf("typesolve: unknown discriminant %d for tv%d", discNum, v)
	}
}

func parseBool(atom string) bool { return atom == "true" }

// parseInt accepts both a plain numeral atom ("3") and z3's parenthesised
// negative-numeral rendering ("(- 3)").
func parseInt(atom string) (int64, error) {
	atom = strings.TrimSpace(atom)

	if strings.HasPrefix(atom, "(") {
		inner := strings.TrimSuffix(strings.TrimPrefix(atom, "("), ")")
		fields := strings.Fields(inner)

		if len(fields) == 2 && fields[0] == "-" {
			n, err := strconv.ParseInt(fields[1], 10, 64)
			return -n, err
		}

		return 0, fmt.Errorf("unrecognized numeral form %q", atom)
	}

	return strconv.ParseInt(atom, 10, 64)
}
