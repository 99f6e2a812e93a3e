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

package ruletree

import (
	"testing"

	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/constraint"
	"github.com/yelhsams/isle-typeinf/pkg/rule"
)

func testEnvs() (*rule.TermEnv, *rule.TypeEnv) {
	terms := &rule.TermEnv{Terms: []rule.TermDef{
		{Name: "add"},
		{Name: "mul"},
	}}
	types := &rule.TypeEnv{Names: []string{"T"}}

	return terms, types
}

// testRule builds (mul x y) => (add x y x), reusing variable x three times
// across the left- and right-hand sides -- the shape every invariant test
// below exercises.
func testRule() *rule.Rule {
	return &rule.Rule{
		ID:       0,
		RootTerm: 1,
		Args: []rule.Pattern{
			&rule.VarPattern{Var: 0}, // x
			&rule.VarPattern{Var: 1}, // y
		},
		RHS: &rule.TermExpr{
			Term: 0,
			Args: []rule.Expr{
				&rule.VarExpr{Var: 0}, // x
				&rule.VarExpr{Var: 1}, // y
				&rule.VarExpr{Var: 0}, // x again
			},
		},
	}
}

func allTypeVars(t *testing.T, tree *Tree) []int {
	t.Helper()

	var out []int

	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, int(n.TypeVar))
		for _, c := range n.Children {
			walk(c)
		}
	}

	for _, a := range tree.Args {
		walk(a)
	}

	walk(tree.RHS)

	return out
}

// Invariant 1: fresh-variable uniqueness. Every node built for one rule
// gets its own type variable; no two distinct nodes ever collide, even
// though the rule reuses the same rule-local variable three times (those
// occurrences are expected to SHARE one type variable per invariant 3, not
// collide with unrelated nodes).
func TestInvariant_FreshVariableUniqueness(t *testing.T) {
	terms, types := testEnvs()
	b := NewBuilder(testRule(), terms, types, "mul")
	tree := Build(b, nil)

	seen := make(map[int]int) // tv -> occurrence count
	for _, tv := range allTypeVars(t, tree) {
		seen[tv]++
	}

	// x occurs three times (LHS arg 0, RHS args 0 and 2) and y twice (LHS
	// arg 1, RHS arg 1); each must resolve to one type variable used exactly
	// that many times, and every other node's type variable must be unique
	// to that node.
	want := map[int]int{int(tree.Args[0].TypeVar): 3, int(tree.Args[1].TypeVar): 2}

	for tv, count := range seen {
		if wantCount, shared := want[tv]; shared {
			if count != wantCount {
				t.Errorf("type variable %d occurs %d times, want %d (a reused rule variable)", tv, count, wantCount)
			}
		} else if count != 1 {
			t.Errorf("type variable %d occurs %d times, want 1", tv, count)
		}
	}

	for _, tv := range allTypeVars(t, tree) {
		if tv < 1 || uint32(tv) > b.Alloc.Count() {
			t.Errorf("type variable %d falls outside the allocated range [1, %d]", tv, b.Alloc.Count())
		}
	}
}

// Invariant 3: expression memoization. A rule-local variable used in more
// than one position -- here x, spanning the left- and right-hand sides --
// always resolves to the same type variable, via Allocator.ForRuleVar.
func TestInvariant_ExpressionMemoization(t *testing.T) {
	terms, types := testEnvs()
	b := NewBuilder(testRule(), terms, types, "mul")
	tree := Build(b, nil)

	lhsX := tree.Args[0].TypeVar
	rhsX0 := tree.RHS.Children[0].TypeVar
	rhsX1 := tree.RHS.Children[2].TypeVar

	if lhsX != rhsX0 || lhsX != rhsX1 {
		t.Errorf("x's occurrences resolved to different type variables: LHS=%d, RHS[0]=%d, RHS[2]=%d", lhsX, rhsX0, rhsX1)
	}

	y := tree.Args[1].TypeVar
	if y == lhsX {
		t.Errorf("distinct rule variables x and y resolved to the same type variable %d", y)
	}
}

// Invariant 6: idempotence. Building the same rule twice, each time with
// its own fresh Builder/Allocator/Store, must produce structurally
// identical trees -- same node shapes in the same order, assigned the
// same type variable numbers, since allocation order is determined purely
// by traversal order over a fixed input.
func TestInvariant_Idempotence(t *testing.T) {
	terms, types := testEnvs()

	b1 := NewBuilder(testRule(), terms, types, "mul")
	tree1 := Build(b1, nil)

	b2 := NewBuilder(testRule(), terms, types, "mul")
	tree2 := Build(b2, nil)

	if b1.Alloc.Count() != b2.Alloc.Count() {
		t.Fatalf("allocator counts differ across identical builds: %d vs %d", b1.Alloc.Count(), b2.Alloc.Count())
	}

	tvs1 := allTypeVars(t, tree1)
	tvs2 := allTypeVars(t, tree2)

	if len(tvs1) != len(tvs2) {
		t.Fatalf("node counts differ across identical builds: %d vs %d", len(tvs1), len(tvs2))
	}

	for i := range tvs1 {
		if tvs1[i] != tvs2[i] {
			t.Errorf("node %d: type variable differs across identical builds: %d vs %d", i, tvs1[i], tvs2[i])
		}
	}
}

// Invariant 7: independence. Two Builders constructed back to back for two
// different rules never share allocator state: each starts fresh at type
// variable 1, regardless of how many variables a prior, unrelated build
// consumed.
func TestInvariant_Independence(t *testing.T) {
	terms, types := testEnvs()

	bigRule := &rule.Rule{
		RootTerm: 1,
		Args: []rule.Pattern{
			&rule.VarPattern{Var: 0},
			&rule.VarPattern{Var: 1},
			&rule.VarPattern{Var: 2},
			&rule.VarPattern{Var: 3},
		},
		RHS: &rule.VarExpr{Var: 0},
	}

	b1 := NewBuilder(bigRule, terms, types, "mul")
	Build(b1, nil)

	if b1.Alloc.Count() == 0 {
		t.Fatalf("expected the first build to allocate at least one type variable")
	}

	b2 := NewBuilder(testRule(), terms, types, "mul")
	tree2 := Build(b2, nil)

	if got := tree2.Args[0].TypeVar; got != 1 {
		t.Errorf("second builder's first node got type variable %d, want 1 (independent allocator)", got)
	}

	// The two builders' stores must stay disjoint: a constraint added to
	// one must never surface in the other.
	b1.Store.AddConcrete(constraint.Concrete{V: 1, T: annotation.Bool()})

	if b2.Store.Len() != 0 {
		t.Errorf("second builder's store is non-empty (%d) after only adding to the first builder's store", b2.Store.Len())
	}
}
