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
	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/constraint"
	"github.com/yelhsams/isle-typeinf/pkg/specexpr"
	"github.com/yelhsams/isle-typeinf/pkg/typevar"
)

// walkBVConvTo handles a fixed-target-width conversion: the result is a
// bit-vector of exactly the declared width, regardless of the operand's
// own width.
func (w *Walker) walkBVConvTo(e annotation.Expr, info *Info) (specexpr.Expr, typevar.TypeVar) {
	e1, t1 := w.Walk(e.Args[0], info)
	t := w.fresh()

	width := widthValue(e.ToWidth)

	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.BitVectorOfWidth(width)})
	w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.BitVector()})

	return specexpr.Unary(t, specexpr.OpBVConvTo, e1), t
}

// walkBVConvToVarWidth handles a dynamic-target-width conversion, where
// the target width is itself an annotation expression rather than a
// literal. If that width expression folds to a known constant, this
// degrades to the fixed-width case; otherwise the result's width is tied
// to the width expression's value via a WidthInt constraint.
func (w *Walker) walkBVConvToVarWidth(e annotation.Expr, info *Info) (specexpr.Expr, typevar.TypeVar) {
	we, wt := w.Walk(e.Args[0], info)
	e1, t1 := w.Walk(e.Args[1], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: wt, T: annotation.Int()})

	if width, ok := foldConst(we); ok {
		w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.BitVectorOfWidth(width)})
		w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.BitVector()})

		return specexpr.Unary(t, specexpr.OpBVConvTo, e1), t
	}

	w.Store.AddWidthInt(constraint.WidthInt{V: t, W: wt})
	w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.BitVector()})
	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.BitVector()})

	return specexpr.Binary(t, specexpr.OpBVConvTo, we, e1), t
}

// walkBVExtTo handles fixed-width sign/zero extension.
func (w *Walker) walkBVExtTo(e annotation.Expr, info *Info, op specexpr.Op) (specexpr.Expr, typevar.TypeVar) {
	e1, t1 := w.Walk(e.Args[0], info)
	t := w.fresh()

	width := widthValue(e.ToWidth)

	w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.BitVector()})
	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.BitVectorOfWidth(width)})

	return specexpr.Unary(t, op, e1), t
}

// walkBVExtToVarWidth handles dynamic-width sign/zero extension: unlike
// the conversion case this never degrades to a fixed width, since the
// original always leaves both operand and result as unconstrained
// bit-vectors regardless of whether the width expression is foldable.
func (w *Walker) walkBVExtToVarWidth(e annotation.Expr, info *Info, op specexpr.Op) (specexpr.Expr, typevar.TypeVar) {
	we, wt := w.Walk(e.Args[0], info)
	e1, t1 := w.Walk(e.Args[1], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: wt, T: annotation.Int()})
	w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.BitVector()})
	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.BitVector()})

	return specexpr.Binary(t, op, we, e1), t
}

// walkBVExtract handles fixed bit-range extraction: the result is a
// bit-vector whose width is the selected range's inclusive length.
func (w *Walker) walkBVExtract(e annotation.Expr, info *Info) (specexpr.Expr, typevar.TypeVar) {
	e1, t1 := w.Walk(e.Args[0], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.BitVector()})
	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.BitVectorOfWidth(e.High - e.Low + 1)})

	return specexpr.Expr{TV: t, Op: specexpr.OpBVExtract, High: e.High, Low: e.Low, Args: []specexpr.Expr{e1}}, t
}

// walkBVConcat handles concatenation of an arbitrary number of
// bit-vectors: the result's width is not known until every operand's
// width is, so it is recorded as a SymbolicSum rather than resolved here.
func (w *Walker) walkBVConcat(e annotation.Expr, info *Info) (specexpr.Expr, typevar.TypeVar) {
	t := w.fresh()

	parts := make([]typevar.TypeVar, 0, len(e.Args))
	typed := make([]specexpr.Expr, 0, len(e.Args))

	for _, a := range e.Args {
		xe, xt := w.Walk(a, info)
		w.Store.AddConcrete(constraint.Concrete{V: xt, T: annotation.BitVector()})
		parts = append(parts, xt)
		typed = append(typed, xe)
	}

	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.BitVector()})
	w.Store.AddSymbolicSum(constraint.SymbolicSum{Ls: parts, Rs: []typevar.TypeVar{t}})

	return specexpr.Expr{TV: t, Op: specexpr.OpBVConcat, Args: typed}, t
}

// walkBVIntToBV converts an integer into a fixed-width bit-vector.
func (w *Walker) walkBVIntToBV(e annotation.Expr, info *Info) (specexpr.Expr, typevar.TypeVar) {
	ex, tx := w.Walk(e.Args[0], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: tx, T: annotation.Int()})
	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.BitVectorOfWidth(widthValue(e.ToWidth))})

	return specexpr.Unary(t, specexpr.OpBVIntToBV, ex), t
}

// walkBVToInt converts a bit-vector into its unbounded integer value.
func (w *Walker) walkBVToInt(e annotation.Expr, info *Info) (specexpr.Expr, typevar.TypeVar) {
	ex, tx := w.Walk(e.Args[0], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: tx, T: annotation.BitVector()})
	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.Int()})

	return specexpr.Unary(t, specexpr.OpBVToInt, ex), t
}

// walkConditional handles if/then/else: the condition must be boolean,
// and the two branches (and hence the result) must share a type.
func (w *Walker) walkConditional(e annotation.Expr, info *Info) (specexpr.Expr, typevar.TypeVar) {
	e1, t1 := w.Walk(e.Args[0], info)
	e2, t2 := w.Walk(e.Args[1], info)
	e3, t3 := w.Walk(e.Args[2], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.Bool()})
	w.Store.AddVariable(constraint.Variable{A: t2, B: t3})
	w.Store.AddVariable(constraint.Variable{A: t, B: t2})

	return specexpr.Expr{TV: t, Op: specexpr.OpConditional, Args: []specexpr.Expr{e1, e2, e3}}, t
}

// walkSwitch handles a value switch: the scrutinee's type is unified with
// each case label's type, and the result's type is unified with each
// case body's type.
func (w *Walker) walkSwitch(e annotation.Expr, info *Info) (specexpr.Expr, typevar.TypeVar) {
	cExpr, cT := w.Walk(e.Args[0], info)
	t := w.fresh()

	cases := make([]specexpr.SwitchCase, 0, len(e.Cases))

	for _, c := range e.Cases {
		caseExpr, caseT := w.Walk(c.When, info)
		bodyExpr, bodyT := w.Walk(c.Then, info)

		w.Store.AddVariable(constraint.Variable{A: cT, B: caseT})
		w.Store.AddVariable(constraint.Variable{A: t, B: bodyT})

		cases = append(cases, specexpr.SwitchCase{When: caseExpr, Then: bodyExpr})
	}

	return specexpr.Expr{TV: t, Op: specexpr.OpSwitch, Args: []specexpr.Expr{cExpr}, Cases: cases}, t
}

// walkA64BitCount handles the A64 bit-counting intrinsics (clz/cls/rev),
// which additionally take an ISLE type argument naming the operation's
// instruction-selection type (folded away here as an Int-typed operand)
// and always produce a full register-width result.
func (w *Walker) walkA64BitCount(e annotation.Expr, info *Info, op specexpr.Op) (specexpr.Expr, typevar.TypeVar) {
	e0, t0 := w.Walk(e.Args[0], info)
	e1, t1 := w.Walk(e.Args[1], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.BitVectorOfWidth(RegWidth)})
	w.Store.AddConcrete(constraint.Concrete{V: t0, T: annotation.Int()})
	w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.BitVector()})

	return specexpr.Binary(t, op, e0, e1), t
}

// walkBVSubs handles aarch64's subtract-and-set-flags form: the result
// models the destination register with four condition-flag bits appended,
// so its width is RegWidth+FlagsWidth.
func (w *Walker) walkBVSubs(e annotation.Expr, info *Info) (specexpr.Expr, typevar.TypeVar) {
	e0, t0 := w.Walk(e.Args[0], info)
	e1, t1 := w.Walk(e.Args[1], info)
	e2, t2 := w.Walk(e.Args[2], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.BitVectorOfWidth(RegWidth + FlagsWidth)})
	w.Store.AddConcrete(constraint.Concrete{V: t0, T: annotation.Int()})
	w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.BitVector()})
	w.Store.AddConcrete(constraint.Concrete{V: t2, T: annotation.BitVector()})
	w.Store.AddVariable(constraint.Variable{A: t1, B: t2})

	return specexpr.Expr{TV: t, Op: specexpr.OpBVSubs, Args: []specexpr.Expr{e0, e1, e2}}, t
}
