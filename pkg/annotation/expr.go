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

package annotation

// Op names every operator of the fixed annotation expression algebra.
// Term signatures and assertions are written exclusively in terms of these;
// the annotation language has no user-extensible operators.
type Op uint8

// The annotation operator vocabulary.
const (
	OpVar Op = iota
	OpConst
	OpTrue
	OpFalse

	// Width queries and generic relations.
	OpWidthOf
	OpEq
	OpImp
	OpLte
	OpLt
	OpNot
	OpOr
	OpAnd

	// Signed/unsigned bit-vector comparisons.
	OpBVSgt
	OpBVSgte
	OpBVSlt
	OpBVSlte
	OpBVUgt
	OpBVUgte
	OpBVUlt
	OpBVUlte

	// Bit-vector arithmetic.
	OpBVSaddo
	OpBVNeg
	OpBVNot
	OpBVMul
	OpBVUDiv
	OpBVSDiv
	OpBVAdd
	OpBVSub
	OpBVUrem
	OpBVSrem
	OpBVAnd
	OpBVOr
	OpBVXor

	// Rotate and shift.
	OpBVRotl
	OpBVRotr
	OpBVShl
	OpBVShr
	OpBVAShr

	// Width-changing conversions.
	OpBVConvTo
	OpBVConvToVarWidth
	OpBVSignExtTo
	OpBVSignExtToVarWidth
	OpBVZeroExtTo
	OpBVZeroExtToVarWidth

	// Slicing and assembly.
	OpBVExtract
	OpBVConcat
	OpBVIntToBV
	OpBVToInt

	// Control forms.
	OpConditional
	OpSwitch

	// Bit-counting, including the architecture-specific A64 variants,
	// which take a type operand plus a bit-vector operand and always
	// produce a register-width bit-vector.
	OpCLZ
	OpCLS
	OpRev
	OpA64CLZ
	OpA64CLS
	OpA64Rev

	OpBVSubs
	OpBVPopcnt
)

// Width is a bit-vector width expression: either a fixed constant or the
// register width.
type Width struct {
	// IsReg selects which field is populated.
	IsReg bool
	Const int64
	Reg   string
}

// ConstWidth builds a literal width.
func ConstWidth(w int64) Width { return Width{Const: w} }

// RegWidth builds a width that resolves to the single register width the
// constraint generator uses (64 bits); name is recorded but does not change
// the width it resolves to.
func RegWidth(name string) Width { return Width{IsReg: true, Reg: name} }

// Expr is a node of the annotation expression algebra. Field usage depends
// on Op: most nodes use only a prefix of Args and optional scalar fields.
type Expr struct {
	Op Op

	// OpVar.
	Var string
	// OpConst.
	ConstValue int64

	// Sub-expressions, in operator-specific order (e.g. the two operands
	// of OpBVAdd, or {cond, then, else} for OpConditional).
	Args []Expr

	// OpBVExtract: high and low bit indices, inclusive.
	High int64
	Low  int64

	// OpBVConvTo/OpBVSignExtTo/OpBVZeroExtTo: destination width.
	ToWidth Width

	// OpSwitch: a list of (case value expr, result expr) pairs, matched
	// against Args[0] in order; the first match wins.
	Cases []SwitchCase
}

// SwitchCase is one arm of an OpSwitch expression.
type SwitchCase struct {
	When  Expr
	Then  Expr
}

// Var constructs a variable reference.
func Var(name string) Expr { return Expr{Op: OpVar, Var: name} }

// Const constructs an integer literal.
func Const(v int64) Expr { return Expr{Op: OpConst, ConstValue: v} }

// True constructs the boolean literal true.
func True() Expr { return Expr{Op: OpTrue} }

// False constructs the boolean literal false.
func False() Expr { return Expr{Op: OpFalse} }

// Unary builds a one-argument node.
func Unary(op Op, a Expr) Expr { return Expr{Op: op, Args: []Expr{a}} }

// Binary builds a two-argument node.
func Binary(op Op, a, b Expr) Expr { return Expr{Op: op, Args: []Expr{a, b}} }

// Conditional builds an if/then/else node.
func Conditional(cond, then, els Expr) Expr {
	return Expr{Op: OpConditional, Args: []Expr{cond, then, els}}
}

// Switch builds a switch-on-value node.
func Switch(on Expr, cases []SwitchCase) Expr {
	return Expr{Op: OpSwitch, Args: []Expr{on}, Cases: cases}
}

// Extract builds a bit-range extraction node, bits [low, high] inclusive.
func Extract(high, low int64, from Expr) Expr {
	return Expr{Op: OpBVExtract, High: high, Low: low, Args: []Expr{from}}
}

// ConvTo builds a fixed-width-conversion node.
func ConvTo(w Width, from Expr) Expr {
	return Expr{Op: OpBVConvTo, ToWidth: w, Args: []Expr{from}}
}

// SignExtTo builds a fixed-width sign-extension node.
func SignExtTo(w Width, from Expr) Expr {
	return Expr{Op: OpBVSignExtTo, ToWidth: w, Args: []Expr{from}}
}

// ZeroExtTo builds a fixed-width zero-extension node.
func ZeroExtTo(w Width, from Expr) Expr {
	return Expr{Op: OpBVZeroExtTo, ToWidth: w, Args: []Expr{from}}
}
