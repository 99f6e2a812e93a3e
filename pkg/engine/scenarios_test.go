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

package engine

import (
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/yelhsams/isle-typeinf/internal/source"
	"github.com/yelhsams/isle-typeinf/pkg/annotation"
	"github.com/yelhsams/isle-typeinf/pkg/loader"
)

// requireZ3 skips the calling test unless a z3 binary is on PATH: every
// scenario in this file that reaches the solver needs one, and this sandbox
// cannot assume it is installed.
func requireZ3(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("z3"); err != nil {
		t.Skip("z3 not found on PATH, skipping solver-backed scenario test")
	}
}

// runScenario loads src, runs every rule rooted at rootTerm through the
// driver, and returns the results.
func runScenario(t *testing.T, src string, rootTerm string) []RuleResult {
	t.Helper()

	l := loader.New()
	if err := l.LoadFile(source.NewSourceFile("scenario.isletype", []byte(src))); err != nil {
		t.Fatalf("loading scenario source: %v", err)
	}

	d := New(l.TermEnv(), l.TypeEnv(), l.AnnotationEnv(), Config{RootTerm: rootTerm})

	results, err := d.Run(l.Rules())
	if err != nil {
		t.Fatalf("driver run: %v", err)
	}

	return results
}

func soleResult(t *testing.T, results []RuleResult) RuleResult {
	t.Helper()

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	return results[0]
}

func annotationInfoFor(t *testing.T, results []RuleResult, termPrefix string) map[string]annotation.Type {
	t.Helper()

	res := soleResult(t, results)
	if res.Record == nil {
		t.Fatalf("result has no record (status %s, reason %q)", res.Status, res.Reason)
	}

	for _, info := range res.Record.AnnotationInfos {
		if strings.HasPrefix(info.Term, termPrefix) {
			vars := make(map[string]annotation.Type, len(info.Vars))
			for _, b := range info.Vars {
				vars[b.Name] = b.Type
			}

			return vars
		}
	}

	t.Fatalf("no annotation info found with term prefix %q", termPrefix)

	return nil
}

// S1: a pure boolean rule. Both root arguments are pinned Bool by the root
// term's own signature (C2), and the right-hand side reapplies the same
// term as a nested occurrence, exercising the annotation-constraint walk
// (C3/C4) that the root occurrence itself never gets.
func TestScenario_S1_PureBoolean(t *testing.T) {
	requireZ3(t)

	const src = `
(deftype HBool)
(defmodel HBool bool)

(defterm and_term (HBool HBool) HBool)
(defsig and_term (args (x bool) (y bool)) (ret r bool) (assume true))

(defrule bool_rule (and_term x y) (and_term x y))
`

	res := soleResult(t, runScenario(t, src, "and_term"))

	if res.Status != StatusTyped {
		t.Fatalf("got status %s (reason %q), want Typed", res.Status, res.Reason)
	}

	rec := res.Record

	for i, arg := range rec.LHS {
		if got := rec.Types[arg.TypeVar]; got != annotation.Bool() {
			t.Errorf("LHS arg %d: got %s, want bool", i, got)
		}
	}

	if got := rec.Types[rec.RHS.TypeVar]; got != annotation.Bool() {
		t.Errorf("RHS: got %s, want bool", got)
	}
}

// S2: a fixed-width add over two nested to-bitvector conversions. The root
// signature pins both nested terms' own node (not their variable argument)
// to bv32, and the conversion terms' own annotations independently confirm
// the same width via their isle-type model.
func TestScenario_S2_FixedWidthAdd(t *testing.T) {
	requireZ3(t)

	const src = `
(deftype I32)
(defmodel I32 int)
(deftype BV32Reg)
(defmodel BV32Reg (bv 32))

(defterm i32_to_bv (I32) BV32Reg)
(defsig i32_to_bv (args (v int)) (ret r (bv 32)) (assume true))

(defterm iadd (BV32Reg BV32Reg) BV32Reg)
(defsig iadd (args (x (bv 32)) (y (bv 32))) (ret s (bv 32)) (assume true))

(defrule add_rule (iadd (i32_to_bv a) (i32_to_bv b)) (iadd (i32_to_bv a) (i32_to_bv b)))
`

	res := soleResult(t, runScenario(t, src, "iadd"))

	if res.Status != StatusTyped {
		t.Fatalf("got status %s (reason %q), want Typed", res.Status, res.Reason)
	}

	rec := res.Record

	want := annotation.BitVectorOfWidth(32)

	if got := rec.Types[rec.LHS[0].TypeVar]; got != want {
		t.Errorf("LHS arg 0 (i32_to_bv a): got %s, want %s", got, want)
	}

	if got := rec.Types[rec.LHS[1].TypeVar]; got != want {
		t.Errorf("LHS arg 1 (i32_to_bv b): got %s, want %s", got, want)
	}

	if got := rec.Types[rec.RHS.TypeVar]; got != want {
		t.Errorf("RHS (iadd): got %s, want %s", got, want)
	}

	if got := rec.Types[rec.LHS[0].Children[0].TypeVar]; got != annotation.Int() {
		t.Errorf("rule variable a: got %s, want int", got)
	}
}

const s3Source = `
(deftype I16)
(defmodel I16 int)
(deftype I48)
(defmodel I48 int)

(deftype BV16)
(defmodel BV16 (bv 16))
(deftype BV48)
(defmodel BV48 (bv %d))
(deftype BV64)
(defmodel BV64 (bv 64))

(defterm mk16 (I16) BV16)
(defsig mk16 (args (v int)) (ret r (bv 16)) (assume true))

(defterm mk48 (I48) BV48)
(defsig mk48 (args (v int)) (ret r (bv %d)) (assume true))

(defterm pack (BV16 BV48) BV64)
(defsig pack (args (cx (bv 16)) (cy (bv %d))) (ret cr (bv 64))
        (assert (eq cr (concat cx cy))))

(defterm combine (BV64) BV64)
(defsig combine (args (z (bv 64))) (ret w (bv 64)) (assume true))

(defrule pack_rule (combine (pack (mk16 x) (mk48 y))) (combine (pack (mk16 x) (mk48 y))))
`

// S3: width arithmetic through concat. pack's own assertion concatenates a
// 16-bit and a 48-bit operand; the solver must derive the 64-bit result
// width from the SymbolicSum constraint alone, since nothing states 64
// directly except the combine/pack return types it must agree with.
func TestScenario_S3_ConcatWidthArithmetic(t *testing.T) {
	requireZ3(t)

	src := fmt.Sprintf(s3Source, 48, 48, 48)

	res := soleResult(t, runScenario(t, src, "combine"))

	if res.Status != StatusTyped {
		t.Fatalf("got status %s (reason %q), want Typed", res.Status, res.Reason)
	}

	rec := res.Record

	want := annotation.BitVectorOfWidth(64)
	if got := rec.Types[rec.LHS[0].TypeVar]; got != want {
		t.Errorf("LHS arg 0 (pack): got %s, want %s", got, want)
	}

	vars := annotationInfoFor(t, []RuleResult{res}, "pack__")

	if got := vars["cx"]; got != annotation.BitVectorOfWidth(16) {
		t.Errorf("pack's cx: got %s, want bv16", got)
	}

	if got := vars["cy"]; got != annotation.BitVectorOfWidth(48) {
		t.Errorf("pack's cy: got %s, want bv48", got)
	}

	if got := vars["cr"]; got != annotation.BitVectorOfWidth(64) {
		t.Errorf("pack's cr: got %s, want bv64", got)
	}
}

// S3 negative: mutating mk48/pack's declared width from 48 to 32 leaves the
// concat's widths summing to 48 while combine/pack's declared result stays
// pinned at 64 -- an unsatisfiable mismatch, rejected rather than typed.
func TestScenario_S3_ConcatWidthMismatchIsRejected(t *testing.T) {
	requireZ3(t)

	src := fmt.Sprintf(s3Source, 32, 32, 32)

	res := soleResult(t, runScenario(t, src, "combine"))

	if res.Status != StatusRejected {
		t.Fatalf("got status %s, want Rejected", res.Status)
	}

	if res.Reason == "" {
		t.Errorf("expected a non-empty rejection reason")
	}
}

// S4: a dynamic-target-width conversion whose width argument is a literal
// folds to a fixed-width conversion rather than leaving a WidthInt
// constraint behind.
func TestScenario_S4_VarWidthConversionFoldsLiteral(t *testing.T) {
	requireZ3(t)

	const src = `
(deftype I8)
(defmodel I8 int)
(deftype BV8)
(defmodel BV8 (bv 8))
(deftype BV32)
(defmodel BV32 (bv 32))

(defterm mk8 (I8) BV8)
(defsig mk8 (args (v int)) (ret r (bv 8)) (assume true))

(defterm widen (BV8) BV32)
(defsig widen (args (cx (bv 8))) (ret cr (bv 32))
        (assert (eq cr (bv-conv-to-var-width 32 cx))))

(defterm useit (BV32) BV32)
(defsig useit (args (z (bv 32))) (ret w (bv 32)) (assume true))

(defrule widen_rule (useit (widen (mk8 x))) (useit (widen (mk8 x))))
`

	res := soleResult(t, runScenario(t, src, "useit"))

	if res.Status != StatusTyped {
		t.Fatalf("got status %s (reason %q), want Typed", res.Status, res.Reason)
	}

	rec := res.Record

	if got := rec.Types[rec.LHS[0].TypeVar]; got != annotation.BitVectorOfWidth(32) {
		t.Errorf("LHS arg 0 (widen): got %s, want bv32", got)
	}

	vars := annotationInfoFor(t, []RuleResult{res}, "widen__")

	if got := vars["cx"]; got != annotation.BitVectorOfWidth(8) {
		t.Errorf("widen's cx: got %s, want bv8", got)
	}

	if got := vars["cr"]; got != annotation.BitVectorOfWidth(32) {
		t.Errorf("widen's cr: got %s, want bv32 (folded literal, not a WidthInt constraint)", got)
	}
}

const s5Source = `
(deftype I)
(defmodel I int)
(deftype BV16)
(defmodel BV16 (bv 16))
(deftype BV16Ret)
(defmodel BV16Ret (bv %d))

(defterm mk16 (I) BV16)
(defsig mk16 (args (v int)) (ret r (bv 16)) (assume true))

(defterm roundtrip (BV16) BV16Ret)
(defsig roundtrip (args (cx (bv 16))) (ret cr (bv 16))
        (assert (eq cr (bv-conv-to-var-width (width-of cx) cx))))

(defrule rt_rule (roundtrip (mk16 x)) (roundtrip (mk16 x)))
`

// S5: width-of round trip. Measuring a fixed operand's own width and
// immediately using that measured value to size a fresh conversion must
// reproduce the operand's width, with no literal written anywhere.
func TestScenario_S5_WidthOfRoundTrip(t *testing.T) {
	requireZ3(t)

	src := fmt.Sprintf(s5Source, 16)

	res := soleResult(t, runScenario(t, src, "roundtrip"))

	if res.Status != StatusTyped {
		t.Fatalf("got status %s (reason %q), want Typed", res.Status, res.Reason)
	}

	rec := res.Record

	if got := rec.Types[rec.RHS.TypeVar]; got != annotation.BitVectorOfWidth(16) {
		t.Errorf("RHS (roundtrip): got %s, want bv16", got)
	}
}

// S5 negative: if the declared return width disagrees with what the
// measured round trip produces, the rule is unsatisfiable.
func TestScenario_S5_WidthOfRoundTripMismatchIsRejected(t *testing.T) {
	requireZ3(t)

	src := fmt.Sprintf(s5Source, 20)

	res := soleResult(t, runScenario(t, src, "roundtrip"))

	if res.Status != StatusRejected {
		t.Fatalf("got status %s, want Rejected", res.Status)
	}
}

// S6: aarch64's subtract-and-set-flags form always types its result as
// RegWidth+FlagsWidth regardless of the operand width declared elsewhere,
// here 64+4 = 68.
func TestScenario_S6_SubsFlagsWidth(t *testing.T) {
	requireZ3(t)

	const src = `
(deftype ITy)
(defmodel ITy int)
(deftype BV64)
(defmodel BV64 (bv 64))
(deftype BV68)
(defmodel BV68 (bv 68))

(defterm mk64 (ITy) BV64)
(defsig mk64 (args (v int)) (ret r (bv 64)) (assume true))

(defterm subs (ITy BV64 BV64) BV68)
(defsig subs (args (ty int) (a (bv 64)) (b (bv 64))) (ret r (bv 68))
        (assert (eq r (bv-subs ty a b))))

(defrule subs_rule (subs ty (mk64 a) (mk64 b)) (subs ty (mk64 a) (mk64 b)))
`

	res := soleResult(t, runScenario(t, src, "subs"))

	if res.Status != StatusTyped {
		t.Fatalf("got status %s (reason %q), want Typed", res.Status, res.Reason)
	}

	rec := res.Record

	if got := rec.Types[rec.LHS[1].TypeVar]; got != annotation.BitVectorOfWidth(64) {
		t.Errorf("LHS arg 1 (mk64 a): got %s, want bv64", got)
	}

	if got := rec.Types[rec.RHS.TypeVar]; got != annotation.BitVectorOfWidth(68) {
		t.Errorf("RHS (subs): got %s, want bv68 (RegWidth+FlagsWidth)", got)
	}
}

// S7: a rule rooted at a term with no declared signature at all is skipped
// before any parse tree is even built -- no solver involved, so this
// doesn't need requireZ3.
func TestScenario_S7_UnannotatedRootTermIsSkipped(t *testing.T) {
	const src = `
(deftype X)
(defterm mystery (X) X)

(defrule mystery_rule (mystery x) x)
`

	res := soleResult(t, runScenario(t, src, "mystery"))

	if res.Status != StatusSkipped {
		t.Fatalf("got status %s, want Skipped", res.Status)
	}

	if res.Record != nil {
		t.Errorf("expected no record for a skipped rule")
	}
}

// S7b: the root term is annotated, but a nested term the rule references
// is not -- also skipped, and also solver-free, since the walk fails
// before a replay log or solver session is ever opened.
func TestScenario_S7_UnannotatedNestedTermIsSkipped(t *testing.T) {
	const src = `
(deftype X)
(defmodel X bool)

(defterm outer (X) X)
(defsig outer (args (v bool)) (ret r bool) (assume true))

(defterm inner (X) X)

(defrule outer_rule (outer (inner x)) (outer (inner x)))
`

	res := soleResult(t, runScenario(t, src, "outer"))

	if res.Status != StatusSkipped {
		t.Fatalf("got status %s, want Skipped", res.Status)
	}

	if res.Record != nil {
		t.Errorf("expected no record for a skipped rule")
	}
}
