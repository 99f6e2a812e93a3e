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

	"github.com/yelhsams/isle-typeinf/internal/sexp"
	"github.com/yelhsams/isle-typeinf/pkg/annotation"
)

// loadDefSig processes one term-signature declaration:
//
//	(defsig <term-name> (args (<name> <annotation-type>)...) (ret <name> <annotation-type>)
//	        [(assume <expr>)...] [(assert <expr>)...])
//
// Repeated defsig forms for the same term accumulate as successive
// signature instantiations, tried by the engine in declaration order
// (spec.md §4.8's "there may be several, one per width instantiation").
func (l *Loader) loadDefSig(list *sexp.List) error {
	name, err := symbolAt(list, 1)
	if err != nil {
		return err
	}

	term, err := l.lookupTerm(name.Value)
	if err != nil {
		return err
	}

	argsList, err := listAt(list, 2)
	if err != nil {
		return err
	}

	if argsList.Len() == 0 || argsList.Get(0).AsSymbol() == nil || argsList.Get(0).AsSymbol().Value != "args" {
		return fmt.Errorf("loader: defsig %q expected (args ...)", name.Value)
	}

	argNames := make([]string, 0, argsList.Len()-1)
	argTypes := make([]annotation.Type, 0, argsList.Len()-1)

	for i := 1; i < argsList.Len(); i++ {
		pair := argsList.Get(i).AsList()
		if pair == nil || pair.Len() != 2 {
			return fmt.Errorf("loader: defsig %q has a malformed argument entry", name.Value)
		}

		argName := pair.Get(0).AsSymbol()
		if argName == nil {
			return fmt.Errorf("loader: defsig %q has a malformed argument name", name.Value)
		}

		argTy, err := parseAnnotationType(pair.Get(1))
		if err != nil {
			return err
		}

		argNames = append(argNames, argName.Value)
		argTypes = append(argTypes, argTy)
	}

	retList, err := listAt(list, 3)
	if err != nil {
		return err
	}

	if retList.Len() != 3 || retList.Get(0).AsSymbol() == nil || retList.Get(0).AsSymbol().Value != "ret" {
		return fmt.Errorf("loader: defsig %q expected (ret <name> <type>)", name.Value)
	}

	retName := retList.Get(1).AsSymbol()
	if retName == nil {
		return fmt.Errorf("loader: defsig %q has a malformed return name", name.Value)
	}

	retType, err := parseAnnotationType(retList.Get(2))
	if err != nil {
		return err
	}

	sig := &annotation.TermSignature{
		Term:     term,
		ArgNames: argNames,
		ArgTypes: argTypes,
		RetName:  retName.Value,
		RetType:  retType,
	}

	for i := 4; i < list.Len(); i++ {
		clause := list.Get(i).AsList()
		if clause == nil || clause.Len() != 2 {
			return fmt.Errorf("loader: defsig %q has a malformed assume/assert clause", name.Value)
		}

		kw := clause.Get(0).AsSymbol()
		if kw == nil {
			return fmt.Errorf("loader: defsig %q has a malformed assume/assert clause", name.Value)
		}

		expr, err := parseAnnotationExpr(clause.Get(1))
		if err != nil {
			return err
		}

		switch kw.Value {
		case "assume":
			sig.Assumptions = append(sig.Assumptions, expr)
		case "assert":
			sig.Assertions = append(sig.Assertions, expr)
		default:
			return fmt.Errorf("loader: defsig %q has an unknown clause %q", name.Value, kw.Value)
		}
	}

	l.env.AddSignature(sig)

	return nil
}

var annoUnaryOps = map[string]annotation.Op{
	"not":     annotation.OpNot,
	"bv-neg":  annotation.OpBVNeg,
	"bv-not":  annotation.OpBVNot,
	"clz":     annotation.OpCLZ,
	"cls":     annotation.OpCLS,
	"rev":     annotation.OpRev,
	"popcnt":  annotation.OpBVPopcnt,
	"bv-to-int": annotation.OpBVToInt,
	"width-of":  annotation.OpWidthOf,
}

var annoBinaryOps = map[string]annotation.Op{
	"eq":        annotation.OpEq,
	"imp":       annotation.OpImp,
	"lte":       annotation.OpLte,
	"lt":        annotation.OpLt,
	"or":        annotation.OpOr,
	"and":       annotation.OpAnd,
	"bv-sgt":    annotation.OpBVSgt,
	"bv-sgte":   annotation.OpBVSgte,
	"bv-slt":    annotation.OpBVSlt,
	"bv-slte":   annotation.OpBVSlte,
	"bv-ugt":    annotation.OpBVUgt,
	"bv-ugte":   annotation.OpBVUgte,
	"bv-ult":    annotation.OpBVUlt,
	"bv-ulte":   annotation.OpBVUlte,
	"bv-saddo":  annotation.OpBVSaddo,
	"bv-mul":    annotation.OpBVMul,
	"bv-udiv":   annotation.OpBVUDiv,
	"bv-sdiv":   annotation.OpBVSDiv,
	"bv-add":    annotation.OpBVAdd,
	"bv-sub":    annotation.OpBVSub,
	"bv-urem":   annotation.OpBVUrem,
	"bv-srem":   annotation.OpBVSrem,
	"bv-and":    annotation.OpBVAnd,
	"bv-or":     annotation.OpBVOr,
	"bv-xor":    annotation.OpBVXor,
	"bv-rotl":   annotation.OpBVRotl,
	"bv-rotr":   annotation.OpBVRotr,
	"bv-shl":    annotation.OpBVShl,
	"bv-shr":    annotation.OpBVShr,
	"bv-ashr":   annotation.OpBVAShr,
	"a64-clz":   annotation.OpA64CLZ,
	"a64-cls":   annotation.OpA64CLS,
	"a64-rev":   annotation.OpA64Rev,
}

// parseAnnotationExpr reads one annotation expression node from its
// surface form, per pkg/loader's doc comment grammar.
func parseAnnotationExpr(s sexp.SExp) (annotation.Expr, error) {
	if sym := s.AsSymbol(); sym != nil {
		switch sym.Value {
		case "true":
			return annotation.True(), nil
		case "false":
			return annotation.False(), nil
		}

		if n, err := strconv.ParseInt(sym.Value, 10, 64); err == nil {
			return annotation.Const(n), nil
		}

		return annotation.Var(sym.Value), nil
	}

	list := s.AsList()
	if list == nil || list.Len() == 0 {
		return annotation.Expr{}, fmt.Errorf("loader: malformed annotation expression %q", s.String())
	}

	head := list.Get(0).AsSymbol()
	if head == nil {
		return annotation.Expr{}, fmt.Errorf("loader: malformed annotation expression %q", s.String())
	}

	switch head.Value {
	case "if":
		return parseTernary(list, annotation.Conditional)
	case "switch":
		return parseSwitch(list)
	case "extract":
		return parseExtract(list)
	case "concat":
		return parseConcat(list)
	case "bv-conv-to":
		return parseWidthConv(list, annotation.ConvTo)
	case "bv-sign-ext-to":
		return parseWidthConv(list, annotation.SignExtTo)
	case "bv-zero-ext-to":
		return parseWidthConv(list, annotation.ZeroExtTo)
	case "bv-conv-to-var-width":
		return parseVarWidthOp(list, annotation.OpBVConvToVarWidth)
	case "bv-sign-ext-to-var-width":
		return parseVarWidthOp(list, annotation.OpBVSignExtToVarWidth)
	case "bv-zero-ext-to-var-width":
		return parseVarWidthOp(list, annotation.OpBVZeroExtToVarWidth)
	case "int-to-bv":
		return parseIntToBV(list)
	case "bv-subs":
		return parseBVSubs(list)
	}

	if op, ok := annoUnaryOps[head.Value]; ok {
		return parseUnary(list, op)
	}

	if op, ok := annoBinaryOps[head.Value]; ok {
		return parseBinary(list, op)
	}

	return annotation.Expr{}, fmt.Errorf("loader: unknown annotation operator %q", head.Value)
}

func parseArgs(list *sexp.List, n int) ([]annotation.Expr, error) {
	if list.Len() != n+1 {
		return nil, fmt.Errorf("loader: %q expects %d argument(s)", list.String(), n)
	}

	args := make([]annotation.Expr, n)

	for i := 0; i < n; i++ {
		a, err := parseAnnotationExpr(list.Get(i + 1))
		if err != nil {
			return nil, err
		}

		args[i] = a
	}

	return args, nil
}

func parseUnary(list *sexp.List, op annotation.Op) (annotation.Expr, error) {
	args, err := parseArgs(list, 1)
	if err != nil {
		return annotation.Expr{}, err
	}

	return annotation.Unary(op, args[0]), nil
}

func parseBinary(list *sexp.List, op annotation.Op) (annotation.Expr, error) {
	args, err := parseArgs(list, 2)
	if err != nil {
		return annotation.Expr{}, err
	}

	return annotation.Binary(op, args[0], args[1]), nil
}

func parseTernary(list *sexp.List, build func(cond, then, els annotation.Expr) annotation.Expr) (annotation.Expr, error) {
	args, err := parseArgs(list, 3)
	if err != nil {
		return annotation.Expr{}, err
	}

	return build(args[0], args[1], args[2]), nil
}

func parseWidth(s sexp.SExp) (annotation.Width, error) {
	if sym := s.AsSymbol(); sym != nil && sym.Value == "reg" {
		return annotation.RegWidth("reg"), nil
	}

	n, err := parseInt(s)
	if err != nil {
		return annotation.Width{}, err
	}

	return annotation.ConstWidth(n), nil
}

func parseWidthConv(list *sexp.List, build func(w annotation.Width, from annotation.Expr) annotation.Expr) (annotation.Expr, error) {
	if list.Len() != 3 {
		return annotation.Expr{}, fmt.Errorf("loader: %q expects a width and an operand", list.String())
	}

	w, err := parseWidth(list.Get(1))
	if err != nil {
		return annotation.Expr{}, err
	}

	x, err := parseAnnotationExpr(list.Get(2))
	if err != nil {
		return annotation.Expr{}, err
	}

	return build(w, x), nil
}

func parseVarWidthOp(list *sexp.List, op annotation.Op) (annotation.Expr, error) {
	args, err := parseArgs(list, 2)
	if err != nil {
		return annotation.Expr{}, err
	}

	return annotation.Binary(op, args[0], args[1]), nil
}

func parseIntToBV(list *sexp.List) (annotation.Expr, error) {
	if list.Len() != 3 {
		return annotation.Expr{}, fmt.Errorf("loader: int-to-bv expects a width and an operand")
	}

	w, err := parseWidth(list.Get(1))
	if err != nil {
		return annotation.Expr{}, err
	}

	x, err := parseAnnotationExpr(list.Get(2))
	if err != nil {
		return annotation.Expr{}, err
	}

	return annotation.Expr{Op: annotation.OpBVIntToBV, ToWidth: w, Args: []annotation.Expr{x}}, nil
}

func parseExtract(list *sexp.List) (annotation.Expr, error) {
	if list.Len() != 4 {
		return annotation.Expr{}, fmt.Errorf("loader: extract expects high, low and an operand")
	}

	hi, err := parseInt(list.Get(1))
	if err != nil {
		return annotation.Expr{}, err
	}

	lo, err := parseInt(list.Get(2))
	if err != nil {
		return annotation.Expr{}, err
	}

	x, err := parseAnnotationExpr(list.Get(3))
	if err != nil {
		return annotation.Expr{}, err
	}

	return annotation.Extract(hi, lo, x), nil
}

func parseConcat(list *sexp.List) (annotation.Expr, error) {
	if list.Len() < 3 {
		return annotation.Expr{}, fmt.Errorf("loader: concat expects at least two operands")
	}

	args := make([]annotation.Expr, list.Len()-1)

	for i := 1; i < list.Len(); i++ {
		a, err := parseAnnotationExpr(list.Get(i))
		if err != nil {
			return annotation.Expr{}, err
		}

		args[i-1] = a
	}

	return annotation.Expr{Op: annotation.OpBVConcat, Args: args}, nil
}

func parseBVSubs(list *sexp.List) (annotation.Expr, error) {
	args, err := parseArgs(list, 3)
	if err != nil {
		return annotation.Expr{}, err
	}

	return annotation.Expr{Op: annotation.OpBVSubs, Args: args}, nil
}

func parseSwitch(list *sexp.List) (annotation.Expr, error) {
	if list.Len() < 2 {
		return annotation.Expr{}, fmt.Errorf("loader: switch expects a scrutinee")
	}

	on, err := parseAnnotationExpr(list.Get(1))
	if err != nil {
		return annotation.Expr{}, err
	}

	cases := make([]annotation.SwitchCase, 0, list.Len()-2)

	for i := 2; i < list.Len(); i++ {
		arm := list.Get(i).AsList()
		if arm == nil || arm.Len() != 3 {
			return annotation.Expr{}, fmt.Errorf("loader: malformed switch case %q", list.Get(i).String())
		}

		kw := arm.Get(0).AsSymbol()
		if kw == nil || kw.Value != "case" {
			return annotation.Expr{}, fmt.Errorf("loader: expected (case <when> <then>), got %q", arm.String())
		}

		when, err := parseAnnotationExpr(arm.Get(1))
		if err != nil {
			return annotation.Expr{}, err
		}

		then, err := parseAnnotationExpr(arm.Get(2))
		if err != nil {
			return annotation.Expr{}, err
		}

		cases = append(cases, annotation.SwitchCase{When: when, Then: then})
	}

	return annotation.Switch(on, cases), nil
}
