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
	"math/rand"
	"testing"

	"github.com/yelhsams/isle-typeinf/pkg/annotation"
)

// Invariant 2: constraint closure. Walking a closed annotation expression
// (every variable used as an operand of some relation or operator, never
// left dangling at the root) must leave no type variable the allocator
// handed out uncovered by at least one constraint -- an uncovered type
// variable can never be pinned down by the solver.
func TestInvariant_ConstraintClosure(t *testing.T) {
	w := newWalker()
	info := NewInfo("t")

	// (eq (bv-add a b) c)
	expr := annotation.Binary(annotation.OpEq,
		annotation.Binary(annotation.OpBVAdd, annotation.Var("a"), annotation.Var("b")),
		annotation.Var("c"))

	w.Walk(expr, info)

	// The allocator hands out [1, Count()]; tv0 is never allocated, so it
	// is the only id MissingTypeVars may report over [0, Count()].
	missing := w.Store.MissingTypeVars(uint32(w.Alloc.Count()) + 1)
	if len(missing) != 1 || missing[0] != 0 {
		t.Errorf("got uncovered type variables %v after walking a closed expression, want only the never-allocated tv0", missing)
	}
}

// Invariant 2b: the same closure property holds for a family of randomly
// generated closed comparison expressions built from the same-width
// arithmetic operators, mirroring how the teacher's own randomized tests
// are seeded for repeatability (see pkg/util/field's element tests).
func TestInvariant_ConstraintClosure_Randomized(t *testing.T) {
	ops := []annotation.Op{
		annotation.OpBVAdd, annotation.OpBVSub, annotation.OpBVAnd,
		annotation.OpBVOr, annotation.OpBVXor, annotation.OpBVMul,
	}

	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		w := newWalker()
		info := NewInfo("t")

		op := ops[rng.Intn(len(ops))]
		expr := annotation.Binary(annotation.OpEq,
			annotation.Binary(op, annotation.Var("a"), annotation.Var("b")),
			annotation.Var("c"))

		w.Walk(expr, info)

		missing := w.Store.MissingTypeVars(uint32(w.Alloc.Count()) + 1)
		if len(missing) != 1 || missing[0] != 0 {
			t.Errorf("iteration %d (op %d): got uncovered type variables %v, want only the never-allocated tv0", i, op, missing)
		}
	}
}

// Invariant 4: width arithmetic. concat's SymbolicSum always lists exactly
// the operands' type variables on the left and the result's type variable,
// alone, on the right -- regardless of how many operands concat is given.
func TestInvariant_ConcatWidthArithmeticShape(t *testing.T) {
	for n := 2; n <= 4; n++ {
		w := newWalker()
		info := NewInfo("t")

		names := []string{"a", "b", "c", "d"}
		args := make([]annotation.Expr, n)
		for i := 0; i < n; i++ {
			args[i] = annotation.Var(names[i])
		}

		e := annotation.Expr{Op: annotation.OpBVConcat, Args: args}

		_, t2 := w.Walk(e, info)

		sums := w.Store.SymbolicSums()
		if len(sums) != 1 {
			t.Fatalf("n=%d: got %d SymbolicSum constraints, want 1", n, len(sums))
		}

		sum := sums[0]

		if len(sum.Ls) != n {
			t.Errorf("n=%d: got %d left-hand operands in the sum, want %d", n, len(sum.Ls), n)
		}

		if len(sum.Rs) != 1 || sum.Rs[0] != t2 {
			t.Errorf("n=%d: got right-hand side %v, want exactly [%d] (the concat's own result)", n, sum.Rs, t2)
		}
	}
}

// Invariant 5: width round trip. Measuring a bit-vector's width with
// width-of and feeding the result into a variable-width conversion always
// emits a WidthInt constraint tying the conversion's own result type
// variable to width-of's result type variable -- which is itself tied, by
// its own WidthInt constraint, to the operand's width. A solver that
// satisfies both must therefore equate the conversion's width to the
// original operand's width, whatever it turns out to be.
func TestInvariant_WidthOfRoundTripShape(t *testing.T) {
	w := newWalker()
	info := NewInfo("t")

	// (bv-conv-to-var-width (width-of cx) cx)
	widthOf := annotation.Unary(annotation.OpWidthOf, annotation.Var("cx"))
	e := annotation.Binary(annotation.OpBVConvToVarWidth, widthOf, annotation.Var("cx"))

	_, resultTV := w.Walk(e, info)

	cxTV := info.VarToTypeVar["cx"]

	var widthInts []struct{ V, W int }
	for _, wi := range w.Store.WidthInts() {
		widthInts = append(widthInts, struct{ V, W int }{int(wi.V), int(wi.W)})
	}

	if len(widthInts) != 2 {
		t.Fatalf("got %d WidthInt constraints, want 2 (one from width-of, one from the var-width conversion)", len(widthInts))
	}

	foundOperandWidth := false
	foundResultWidth := false

	for _, wi := range widthInts {
		if wi.V == int(cxTV) {
			foundOperandWidth = true
		}

		if wi.V == int(resultTV) {
			foundResultWidth = true
		}
	}

	if !foundOperandWidth {
		t.Errorf("no WidthInt constraint ties cx's own width (tv%d) to width-of's result", cxTV)
	}

	if !foundResultWidth {
		t.Errorf("no WidthInt constraint ties the conversion's result (tv%d) to width-of's result", resultTV)
	}
}
