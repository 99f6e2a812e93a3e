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

package smt

import (
	"fmt"
	"io"
	"strings"
)

// Builder writes SMT-LIB2 statements as they are built; it keeps no script
// text of its own. Every statement is sent to the attached solver session
// (a Builder always has one) and, when a replay writer is
// set, echoed there verbatim -- mirroring the per-rule ".smt2" replay log
// the engine keeps so a failed solve can be reproduced outside the
// process.
type Builder struct {
	out    io.Writer // the live solver session's stdin
	replay io.Writer // optional replay log; nil disables replay
}

// NewBuilder constructs a Builder writing to a live session, optionally
// also echoing every statement to a replay log.
func NewBuilder(out io.Writer, replay io.Writer) *Builder {
	return &Builder{out: out, replay: replay}
}

func (b *Builder) emit(stmt string) {
	line := stmt + "\n"
	io.WriteString(b.out, line) //nolint:errcheck

	if b.replay != nil {
		io.WriteString(b.replay, line) //nolint:errcheck
	}
}

// DeclareConst emits `(declare-const name sort)`.
func (b *Builder) DeclareConst(name, sort string) {
	b.emit(fmt.Sprintf("(declare-const %s %s)", name, sort))
}

// Assert emits `(assert expr)`.
func (b *Builder) Assert(expr string) {
	b.emit(fmt.Sprintf("(assert %s)", expr))
}

// CheckSat emits `(check-sat)`.
func (b *Builder) CheckSat() {
	b.emit("(check-sat)")
}

// GetValue emits `(get-value (exprs...))`.
func (b *Builder) GetValue(exprs ...string) {
	b.emit(fmt.Sprintf("(get-value (%s))", strings.Join(exprs, " ")))
}

// Numeral renders an integer literal.
func (b *Builder) Numeral(n int64) string { return fmt.Sprintf("%d", n) }

// Eq renders `(= a b)`.
func (b *Builder) Eq(a, c string) string { return fmt.Sprintf("(= %s %s)", a, c) }

// Distinct renders `(distinct a b)`.
func (b *Builder) Distinct(a, c string) string { return fmt.Sprintf("(distinct %s %s)", a, c) }

// Not renders `(not a)`.
func (b *Builder) Not(a string) string { return fmt.Sprintf("(not %s)", a) }

// Imp renders `(=> a b)`.
func (b *Builder) Imp(a, c string) string { return fmt.Sprintf("(=> %s %s)", a, c) }

// And renders `(and a b)`.
func (b *Builder) And(a, c string) string { return fmt.Sprintf("(and %s %s)", a, c) }

// OrMany renders `(or a b c ...)`, collapsing to the single argument when
// only one is given and to `false` when none are.
func (b *Builder) OrMany(exprs ...string) string {
	switch len(exprs) {
	case 0:
		return "false"
	case 1:
		return exprs[0]
	default:
		return fmt.Sprintf("(or %s)", strings.Join(exprs, " "))
	}
}

// PlusMany renders `(+ a b c ...)`, collapsing to `0` when empty.
func (b *Builder) PlusMany(exprs ...string) string {
	if len(exprs) == 0 {
		return "0"
	}

	return fmt.Sprintf("(+ %s)", strings.Join(exprs, " "))
}
