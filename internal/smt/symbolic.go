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

// Package smt is the low-level SMT-LIB2 encoding and subprocess driver (C6):
// it declares a "sum of options" symbolic record per type variable --
// discriminant plus an optional bit-vector width and an optional integer
// value -- and discharges every constraint as an assertion over those
// records through an external `z3 -smt2 -in` process.
package smt

import "fmt"

// Discriminant is the tag naming which concrete shape a symbolic type's
// record currently holds. Bit-vector subsumes BitVectorUnknown,
// BitVector, BitVectorOfWidth and Poly alike -- all four annotation kinds
// resolve to "some bit-vector, width possibly unknown" at the solver
// level, and the engine only needs to distinguish a known width from an
// unknown one, not which annotation constructor asked for it.
type Discriminant int

// The three discriminant values, matching the SMT-LIB2 numerals asserted
// into each type variable's discriminant symbol.
const (
	DiscBitVector Discriminant = 1
	DiscInt       Discriminant = 2
	DiscBool      Discriminant = 3
)

// Variable names one declared SMT constant and the raw atom used to refer
// to it in further assertions.
type Variable struct {
	Name string
	Atom string
}

func intVar(name string) Variable  { return Variable{Name: name, Atom: name} }
func boolVar(name string) Variable { return Variable{Name: name, Atom: name} }

// Option is a symbolic "optional value": a boolean "some" flag and an
// integer "value", guarded so the value reads as 0 whenever the flag is
// false.
type Option struct {
	Some  Variable
	Value Variable
}

// Type is the full symbolic record for one type variable: its
// discriminant, an optional bit-vector width, and an optional integer
// value. Exactly one of the two options is "live" for a solution to be
// meaningful, but both exist for every type variable so that unification
// between two Types never has to branch on their eventual discriminant.
type Type struct {
	Var          uint32
	Discriminant Variable
	BitvectorWidth Option
	IntegerValue   Option
}

// Declare emits the SMT-LIB2 declarations and invariants for one type
// variable's symbolic record and returns it for later assertions to
// reference.
func Declare(b *Builder, v uint32) Type {
	prefix := fmt.Sprintf("t%d", v)

	disc := intVar(prefix + "_disc")
	b.DeclareConst(disc.Name, "Int")
	b.Assert(b.OrMany(
		b.Eq(disc.Atom, b.Numeral(int64(DiscBitVector))),
		b.Eq(disc.Atom, b.Numeral(int64(DiscInt))),
		b.Eq(disc.Atom, b.Numeral(int64(DiscBool))),
	))

	bw := declareOption(b, prefix+"_bitvector_width")
	b.Assert(b.Imp(b.Distinct(disc.Atom, b.Numeral(int64(DiscBitVector))), b.Not(bw.Some.Atom)))
	b.Assert(b.Imp(b.Not(bw.Some.Atom), b.Eq(bw.Value.Atom, b.Numeral(0))))

	iv := declareOption(b, prefix+"_integer_value")
	b.Assert(b.Imp(b.Distinct(disc.Atom, b.Numeral(int64(DiscInt))), b.Not(iv.Some.Atom)))
	b.Assert(b.Imp(b.Not(iv.Some.Atom), b.Eq(iv.Value.Atom, b.Numeral(0))))

	return Type{Var: v, Discriminant: disc, BitvectorWidth: bw, IntegerValue: iv}
}

func declareOption(b *Builder, prefix string) Option {
	some := boolVar(prefix + "_some")
	value := intVar(prefix + "_value")

	b.DeclareConst(some.Name, "Bool")
	b.DeclareConst(value.Name, "Int")

	return Option{Some: some, Value: value}
}
