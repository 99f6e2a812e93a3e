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
	"github.com/yelhsams/isle-typeinf/pkg/specexpr"
	"github.com/yelhsams/isle-typeinf/pkg/typevar"
)

// Walk translates one annotation expression into its typed semantic form,
// emitting every constraint the node's shape implies along the way. It
// returns the typed node and the type variable assigned to its value.
func (w *Walker) Walk(e annotation.Expr, info *Info) (specexpr.Expr, typevar.TypeVar) {
	switch e.Op {
	case annotation.OpVar:
		return w.walkVar(e, info)
	case annotation.OpConst:
		return w.walkConst(e)
	case annotation.OpTrue:
		t := w.fresh()
		w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.Bool()})

		return specexpr.TrueNode(t), t
	case annotation.OpFalse:
		t := w.fresh()
		w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.Bool()})

		return specexpr.FalseNode(t), t
	case annotation.OpWidthOf:
		return w.walkWidthOf(e, info)
	case annotation.OpEq:
		return w.walkSameUnifiedBool(e, info, specexpr.OpEq)
	case annotation.OpImp:
		return w.walkBoolBinary(e, info, specexpr.OpImp)
	case annotation.OpLte:
		return w.walkSameUnifiedBool(e, info, specexpr.OpLte)
	case annotation.OpLt:
		return w.walkSameUnifiedBool(e, info, specexpr.OpLt)
	case annotation.OpNot:
		return w.walkBoolUnary(e, info, specexpr.OpNot)
	case annotation.OpOr:
		return w.walkBoolBinary(e, info, specexpr.OpOr)
	case annotation.OpAnd:
		return w.walkBoolBinary(e, info, specexpr.OpAnd)
	case annotation.OpBVSgt:
		return w.walkSameUnifiedBool(e, info, specexpr.OpBVSgt)
	case annotation.OpBVSgte:
		return w.walkSameUnifiedBool(e, info, specexpr.OpBVSgte)
	case annotation.OpBVSlt:
		return w.walkSameUnifiedBool(e, info, specexpr.OpBVSlt)
	case annotation.OpBVSlte:
		return w.walkSameUnifiedBool(e, info, specexpr.OpBVSlte)
	case annotation.OpBVUgt:
		return w.walkSameUnifiedBool(e, info, specexpr.OpBVUgt)
	case annotation.OpBVUgte:
		return w.walkSameUnifiedBool(e, info, specexpr.OpBVUgte)
	case annotation.OpBVUlt:
		return w.walkSameUnifiedBool(e, info, specexpr.OpBVUlt)
	case annotation.OpBVUlte:
		return w.walkSameUnifiedBool(e, info, specexpr.OpBVUlte)
	case annotation.OpBVSaddo:
		return w.walkSameUnifiedBool(e, info, specexpr.OpBVSaddo)
	case annotation.OpBVNeg:
		return w.walkBVUnarySameWidth(e, info, specexpr.OpBVNeg)
	case annotation.OpBVNot:
		return w.walkBVUnarySameWidth(e, info, specexpr.OpBVNot)
	case annotation.OpBVRotl:
		return w.walkBVRotateLike(e, info, specexpr.OpBVRotl)
	case annotation.OpBVRotr:
		return w.walkBVRotateLike(e, info, specexpr.OpBVRotr)
	case annotation.OpBVShl:
		return w.walkBVShiftLike(e, info, specexpr.OpBVShl)
	case annotation.OpBVShr:
		return w.walkBVShiftLike(e, info, specexpr.OpBVShr)
	case annotation.OpBVAShr:
		return w.walkBVShiftLike(e, info, specexpr.OpBVAShr)
	case annotation.OpBVConvTo:
		return w.walkBVConvTo(e, info)
	case annotation.OpBVConvToVarWidth:
		return w.walkBVConvToVarWidth(e, info)
	case annotation.OpBVSignExtTo:
		return w.walkBVExtTo(e, info, specexpr.OpBVSignExtTo)
	case annotation.OpBVSignExtToVarWidth:
		return w.walkBVExtToVarWidth(e, info, specexpr.OpBVSignExtTo)
	case annotation.OpBVZeroExtTo:
		return w.walkBVExtTo(e, info, specexpr.OpBVZeroExtTo)
	case annotation.OpBVZeroExtToVarWidth:
		return w.walkBVExtToVarWidth(e, info, specexpr.OpBVZeroExtTo)
	case annotation.OpBVExtract:
		return w.walkBVExtract(e, info)
	case annotation.OpBVConcat:
		return w.walkBVConcat(e, info)
	case annotation.OpBVIntToBV:
		return w.walkBVIntToBV(e, info)
	case annotation.OpBVToInt:
		return w.walkBVToInt(e, info)
	case annotation.OpConditional:
		return w.walkConditional(e, info)
	case annotation.OpSwitch:
		return w.walkSwitch(e, info)
	case annotation.OpCLZ:
		return w.walkBVUnarySameWidth(e, info, specexpr.OpCLZ)
	case annotation.OpCLS:
		return w.walkBVUnarySameWidth(e, info, specexpr.OpCLS)
	case annotation.OpRev:
		return w.walkBVUnarySameWidth(e, info, specexpr.OpRev)
	case annotation.OpA64CLZ:
		return w.walkA64BitCount(e, info, specexpr.OpCLZ)
	case annotation.OpA64CLS:
		return w.walkA64BitCount(e, info, specexpr.OpCLS)
	case annotation.OpA64Rev:
		return w.walkA64BitCount(e, info, specexpr.OpRev)
	case annotation.OpBVSubs:
		return w.walkBVSubs(e, info)
	case annotation.OpBVPopcnt:
		return w.walkBVUnarySameWidth(e, info, specexpr.OpBVPopcnt)
	default:
		// The arithmetic/bitwise same-width binary family (bvadd, bvsub,
		// bvmul, bvudiv, bvsdiv, bvurem, bvsrem, bvand, bvor, bvxor) all
		// share one handler; their op-to-op mapping is generated (see
		// internal/gen) into sameWidthBinaryOps instead of ten near-
		// identical case arms.
		if specOp, ok := sameWidthBinaryOps[e.Op]; ok {
			return w.walkBVSameWidthBinary(e, info, specOp)
		}

		panic(fmt.Sprintf("annoconstr: unhandled annotation op %d", e.Op))
	}
}

func (w *Walker) walkVar(e annotation.Expr, info *Info) (specexpr.Expr, typevar.TypeVar) {
	t, seen := info.VarToTypeVar[e.Var]
	if !seen {
		t = w.fresh()
		info.VarToTypeVar[e.Var] = t
	}

	name := fmt.Sprintf("%s__%s__%d", info.Term, e.Var, t)
	w.QuantifiedVars[name] = t
	w.FreeVars[name] = t

	return specexpr.VarNode(t, name), t
}

func (w *Walker) walkConst(e annotation.Expr) (specexpr.Expr, typevar.TypeVar) {
	t := w.fresh()
	node := specexpr.ConstNode(t, e.ConstValue)
	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.Int()})
	w.TypeVarToValue[t] = e.ConstValue

	return node, t
}

// walkWidthOf handles the width-of query: the argument must be a
// bit-vector, and the result is the unbounded integer equal to its width.
func (w *Walker) walkWidthOf(e annotation.Expr, info *Info) (specexpr.Expr, typevar.TypeVar) {
	ex, tx := w.Walk(e.Args[0], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: tx, T: annotation.BitVector()})
	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.Int()})
	w.Store.AddWidthInt(constraint.WidthInt{V: tx, W: t})

	return specexpr.Unary(t, specexpr.OpWidthOf, ex), t
}

// walkSameUnifiedBool handles every operator whose result is a boolean and
// whose two operands must share a type (the relational/comparison family).
func (w *Walker) walkSameUnifiedBool(e annotation.Expr, info *Info, op specexpr.Op) (specexpr.Expr, typevar.TypeVar) {
	e1, t1 := w.Walk(e.Args[0], info)
	e2, t2 := w.Walk(e.Args[1], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.Bool()})
	w.Store.AddVariable(constraint.Variable{A: t1, B: t2})

	return specexpr.Binary(t, op, e1, e2), t
}

// walkBoolBinary handles Imp/Or/And: both operands and the result are
// booleans, with no further unification required between the operands.
func (w *Walker) walkBoolBinary(e annotation.Expr, info *Info, op specexpr.Op) (specexpr.Expr, typevar.TypeVar) {
	e1, t1 := w.Walk(e.Args[0], info)
	e2, t2 := w.Walk(e.Args[1], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.Bool()})
	w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.Bool()})
	w.Store.AddConcrete(constraint.Concrete{V: t2, T: annotation.Bool()})

	return specexpr.Binary(t, op, e1, e2), t
}

func (w *Walker) walkBoolUnary(e annotation.Expr, info *Info, op specexpr.Op) (specexpr.Expr, typevar.TypeVar) {
	e1, t1 := w.Walk(e.Args[0], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.Bool()})
	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.Bool()})

	return specexpr.Unary(t, op, e1), t
}

// walkBVSameWidthBinary handles the arithmetic family (add/sub/mul/div/
// rem/and/or/xor): both operands and the result are bit-vectors of one
// common, otherwise unconstrained, width.
func (w *Walker) walkBVSameWidthBinary(e annotation.Expr, info *Info, op specexpr.Op) (specexpr.Expr, typevar.TypeVar) {
	e1, t1 := w.Walk(e.Args[0], info)
	e2, t2 := w.Walk(e.Args[1], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.BitVector()})
	w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.BitVector()})
	w.Store.AddConcrete(constraint.Concrete{V: t2, T: annotation.BitVector()})
	w.Store.AddVariable(constraint.Variable{A: t1, B: t2})
	w.Store.AddVariable(constraint.Variable{A: t, B: t1})
	w.Store.AddVariable(constraint.Variable{A: t, B: t2})

	return specexpr.Binary(t, op, e1, e2), t
}

// walkBVUnarySameWidth handles unary bit-vector operators whose result
// width matches the operand's (neg, not, clz, cls, rev, popcnt).
func (w *Walker) walkBVUnarySameWidth(e annotation.Expr, info *Info, op specexpr.Op) (specexpr.Expr, typevar.TypeVar) {
	e1, t1 := w.Walk(e.Args[0], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.BitVector()})
	w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.BitVector()})
	w.Store.AddVariable(constraint.Variable{A: t, B: t1})

	return specexpr.Unary(t, op, e1), t
}

// walkBVRotateLike handles rotl/rotr: the result always has the operand's
// type, while the rotate amount need not share the operand's width.
func (w *Walker) walkBVRotateLike(e annotation.Expr, info *Info, op specexpr.Op) (specexpr.Expr, typevar.TypeVar) {
	e1, t1 := w.Walk(e.Args[0], info)
	e2, t2 := w.Walk(e.Args[1], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.BitVector()})
	w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.BitVector()})
	w.Store.AddConcrete(constraint.Concrete{V: t2, T: annotation.BitVector()})
	w.Store.AddVariable(constraint.Variable{A: t, B: t1})

	return specexpr.Binary(t, op, e1, e2), t
}

// walkBVShiftLike handles shl/shr/ashr: like rotate, the result matches the
// operand's width, but the shift amount is additionally unified with it too
// (unlike a rotate amount, which can be of any width).
func (w *Walker) walkBVShiftLike(e annotation.Expr, info *Info, op specexpr.Op) (specexpr.Expr, typevar.TypeVar) {
	e1, t1 := w.Walk(e.Args[0], info)
	e2, t2 := w.Walk(e.Args[1], info)
	t := w.fresh()

	w.Store.AddConcrete(constraint.Concrete{V: t, T: annotation.BitVector()})
	w.Store.AddConcrete(constraint.Concrete{V: t1, T: annotation.BitVector()})
	w.Store.AddConcrete(constraint.Concrete{V: t2, T: annotation.BitVector()})
	w.Store.AddVariable(constraint.Variable{A: t, B: t1})
	w.Store.AddVariable(constraint.Variable{A: t2, B: t1})

	return specexpr.Binary(t, op, e1, e2), t
}
